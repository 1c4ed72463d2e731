package telemedicine

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

// Repository is the call session store, keyed by appointment ID.
type Repository = store.Repository[Session]

// NewMemoryRepository starts empty; sessions are created when a participant
// first joins.
func NewMemoryRepository() *store.Memory[Session] {
	return store.NewMemory([]Session{})
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[Session] {
	return store.NewPostgres[Session](pool, store.KindTelemedicine)
}
