package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the pool section of the health report.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

// Health is the /health/db body.
type Health struct {
	Status  string           `json:"status"`
	Error   string           `json:"error,omitempty"`
	Pool    PoolStats        `json:"pool"`
	Records map[string]int64 `json:"records,omitempty"`
}

type checker interface {
	Ping(ctx context.Context) error
	Stats() PoolStats
	CountRecords(ctx context.Context) (map[string]int64, error)
}

type poolChecker struct {
	pool *pgxpool.Pool
}

func (p poolChecker) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p poolChecker) Stats() PoolStats {
	s := p.pool.Stat()
	return PoolStats{
		TotalConns:      s.TotalConns(),
		IdleConns:       s.IdleConns(),
		AcquiredConns:   s.AcquiredConns(),
		MaxConns:        s.MaxConns(),
		AcquireCount:    s.AcquireCount(),
		AcquireDuration: s.AcquireDuration().String(),
	}
}

// CountRecords returns the number of stored documents per kind.
func (p poolChecker) CountRecords(ctx context.Context) (map[string]int64, error) {
	rows, err := p.pool.Query(ctx, `SELECT kind, COUNT(*) FROM records GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}

// HealthHandler pings the database and reports pool usage and how many
// documents each page has stored. A database that answers pings but has no
// records table is reported as degraded.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return healthHandler(poolChecker{pool: pool})
}

func healthHandler(p checker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		h := Health{Status: "healthy", Pool: p.Stats()}
		if err := p.Ping(ctx); err != nil {
			h.Status, h.Error = "unhealthy", err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}
		counts, err := p.CountRecords(ctx)
		if err != nil {
			h.Status, h.Error = "degraded", err.Error()
			return c.JSON(http.StatusOK, h)
		}
		h.Records = counts
		return c.JSON(http.StatusOK, h)
	}
}
