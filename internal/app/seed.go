package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/domain/appointments"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/emergency"
	"github.com/hms/hms/internal/domain/hospital"
	"github.com/hms/hms/internal/domain/prescriptions"
	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/store"
)

// SeedResult is the number of fixtures written per document kind.
type SeedResult struct {
	Kind    string
	Written int
}

type seeder func(ctx context.Context) (int, error)

func seedKind[T store.Record](pool *pgxpool.Pool, kind string, fixtures []T) seeder {
	return func(ctx context.Context) (int, error) {
		return store.NewPostgres[T](pool, kind).Seed(ctx, fixtures)
	}
}

// Seed copies every fixture set into the records table. Documents already
// present are left alone, so running it twice writes nothing the second
// time.
func Seed(ctx context.Context, pool *pgxpool.Pool) ([]SeedResult, error) {
	steps := []struct {
		kind string
		run  seeder
	}{
		{store.KindAppointment, seedKind(pool, store.KindAppointment, appointments.Seed())},
		{store.KindClaim, seedKind(pool, store.KindClaim, billing.Seed())},
		{store.KindAmbulance, seedKind(pool, store.KindAmbulance, emergency.Seed())},
		{store.KindAlert, seedKind(pool, store.KindAlert, appstate.SeedAlerts)},
		{store.KindDepartment, seedKind(pool, store.KindDepartment, hospital.SeedDepartments())},
		{store.KindFacility, seedKind(pool, store.KindFacility, hospital.SeedFacilities())},
		{store.KindStaff, seedKind(pool, store.KindStaff, hospital.SeedStaff())},
		{store.KindInventory, seedKind(pool, store.KindInventory, hospital.SeedInventory())},
		{store.KindPrescription, seedKind(pool, store.KindPrescription, prescriptions.Seed())},
	}

	results := make([]SeedResult, 0, len(steps))
	for _, s := range steps {
		n, err := s.run(ctx)
		if err != nil {
			return results, fmt.Errorf("seeding %s: %w", s.kind, err)
		}
		results = append(results, SeedResult{Kind: s.kind, Written: n})
	}
	return results, nil
}
