package emergency

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/store"
)

// Repository is the ambulance store.
type Repository = store.Repository[Ambulance]

func NewMemoryRepository() *store.Memory[Ambulance] {
	return store.NewMemory(Seed())
}

func NewPostgresRepository(pool *pgxpool.Pool) *store.Postgres[Ambulance] {
	return store.NewPostgres[Ambulance](pool, store.KindAmbulance)
}

// NewAlertMemoryRepository backs the application store's alert feed.
func NewAlertMemoryRepository() *store.Memory[appstate.EmergencyAlert] {
	return store.NewMemory(appstate.SeedAlerts)
}

func NewAlertPostgresRepository(pool *pgxpool.Pool) *store.Postgres[appstate.EmergencyAlert] {
	return store.NewPostgres[appstate.EmergencyAlert](pool, store.KindAlert)
}
