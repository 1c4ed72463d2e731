package appointments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

// Repository is the appointment store.
type Repository = store.Repository[Appointment]

func NewMemoryRepository() *store.Memory[Appointment] {
	return store.NewMemory(Seed())
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[Appointment] {
	return store.NewPostgres[Appointment](pool, store.KindAppointment)
}
