package prescriptions

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

// Repository is the prescription order store.
type Repository = store.Repository[Order]

func NewMemoryRepository() *store.Memory[Order] {
	return store.NewMemory(Seed())
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[Order] {
	return store.NewPostgres[Order](pool, store.KindPrescription)
}
