package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type beginner interface {
	queryable
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres is a Repository that keeps each record as a JSONB document in the
// records table, partitioned by kind. See migrations/001_records.sql.
type Postgres[T Record] struct {
	db   beginner
	kind string
}

// NewPostgres returns a document repository for the given kind.
func NewPostgres[T Record](pool *pgxpool.Pool, kind string) *Postgres[T] {
	return &Postgres[T]{db: pool, kind: kind}
}

func (r *Postgres[T]) decode(body []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		return rec, fmt.Errorf("decode %s document: %w", r.kind, err)
	}
	return rec, nil
}

func (r *Postgres[T]) List(ctx context.Context) ([]T, error) {
	rows, err := r.db.Query(ctx, `SELECT body FROM records WHERE kind = $1 ORDER BY seq`, r.kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		rec, err := r.decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Postgres[T]) Find(ctx context.Context, id string) (T, error) {
	var body []byte
	err := r.db.QueryRow(ctx, `SELECT body FROM records WHERE kind = $1 AND id = $2`, r.kind, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("find %s %s: %w", r.kind, id, err)
	}
	return r.decode(body)
}

func (r *Postgres[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []T{}
	for _, rec := range all {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Postgres[T]) Save(ctx context.Context, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", r.kind, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO records (kind, id, body) VALUES ($1, $2, $3)
		ON CONFLICT (kind, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		r.kind, rec.GetID(), body)
	return err
}

// Update locks the row of id with SELECT ... FOR UPDATE for the duration of
// fn, so concurrent updates from any replica apply one after another.
func (r *Postgres[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var zero T
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("begin %s update: %w", r.kind, err)
	}
	defer tx.Rollback(ctx)

	var body []byte
	err = tx.QueryRow(ctx, `SELECT body FROM records WHERE kind = $1 AND id = $2 FOR UPDATE`, r.kind, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("lock %s %s: %w", r.kind, id, err)
	}
	rec, err := r.decode(body)
	if err != nil {
		return zero, err
	}
	if err := fn(&rec); err != nil {
		return zero, err
	}
	if body, err = json.Marshal(rec); err != nil {
		return zero, fmt.Errorf("encode %s document: %w", r.kind, err)
	}
	if _, err := tx.Exec(ctx, `UPDATE records SET body = $3, updated_at = NOW() WHERE kind = $1 AND id = $2`, r.kind, id, body); err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.kind, id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("commit %s update: %w", r.kind, err)
	}
	return rec, nil
}

func (r *Postgres[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE kind = $1 AND id = $2`, r.kind, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts fixtures that are not yet present and reports how many rows
// were written. Existing documents are left untouched.
func (r *Postgres[T]) Seed(ctx context.Context, fixtures []T) (int, error) {
	written := 0
	for _, rec := range fixtures {
		body, err := json.Marshal(rec)
		if err != nil {
			return written, fmt.Errorf("encode %s document: %w", r.kind, err)
		}
		tag, err := r.db.Exec(ctx, `
			INSERT INTO records (kind, id, body) VALUES ($1, $2, $3)
			ON CONFLICT (kind, id) DO NOTHING`,
			r.kind, rec.GetID(), body)
		if err != nil {
			return written, fmt.Errorf("seed %s %s: %w", r.kind, rec.GetID(), err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}
