package billing

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

// Repository is the claim store.
type Repository = store.Repository[InsuranceClaim]

func NewMemoryRepository() *store.Memory[InsuranceClaim] {
	return store.NewMemory(Seed())
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[InsuranceClaim] {
	return store.NewPostgres[InsuranceClaim](pool, store.KindClaim)
}
