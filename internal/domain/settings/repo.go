package settings

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

// Repository stores saved settings keyed by user ID.
type Repository = store.Repository[Settings]

func NewMemoryRepository() *store.Memory[Settings] {
	return store.NewMemory([]Settings{})
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[Settings] {
	return store.NewPostgres[Settings](pool, store.KindSettings)
}
