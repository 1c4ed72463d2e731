package reports

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/domain/appointments"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/emergency"
	"github.com/hms/hms/internal/domain/hospital"
	"github.com/hms/hms/internal/domain/prescriptions"
	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/cache"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/reporting"
)

const overviewKey = reporting.KeyPrefix + "overview"

// Overview is the dashboard summary.
type Overview struct {
	GeneratedAt          time.Time `json:"generatedAt"`
	TotalAppointments    int       `json:"totalAppointments"`
	UpcomingAppointments int       `json:"upcomingAppointments"`
	PendingClaims        int       `json:"pendingClaims"`
	OutstandingAmount    float64   `json:"outstandingAmount"`
	PendingPrescriptions int       `json:"pendingPrescriptions"`
	LowStockItems        int       `json:"lowStockItems"`
	ActiveAlerts         int       `json:"activeAlerts"`
	AvailableAmbulances  int       `json:"availableAmbulances"`
	ActiveStaff          int       `json:"activeStaff"`
	Cached               bool      `json:"cached"`
}

type Service struct {
	engine *reporting.Engine
	src    Sources
	cache  cache.Cache
	ttl    time.Duration
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(src Sources, c cache.Cache, ttl time.Duration, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		engine: reporting.NewEngine(c, ttl, clk, logger, Measures(src)...),
		src:    src,
		cache:  c,
		ttl:    ttl,
		clock:  clk,
		logger: logger,
	}
}

func (s *Service) Measures() []reporting.MeasureDefinition {
	return s.engine.Definitions()
}

func (s *Service) Evaluate(ctx context.Context, id string) (*reporting.MeasureReport, error) {
	return s.engine.Evaluate(ctx, id)
}

// Refresh drops every cached report.
func (s *Service) Refresh(ctx context.Context) {
	s.engine.Invalidate(ctx)
	if err := s.cache.Delete(ctx, overviewKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate overview")
	}
}

func count[T any](items []T, buckets []listing.Bucket[T], name string) int {
	for _, tab := range listing.Partition(items, buckets) {
		if tab.Name == name {
			return tab.Count
		}
	}
	return 0
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	ov, hit, err := cache.Remember(ctx, s.cache, overviewKey, s.ttl, s.computeOverview)
	if err != nil {
		return nil, err
	}
	ov.Cached = hit
	return &ov, nil
}

func (s *Service) computeOverview(ctx context.Context) (Overview, error) {
	ov := Overview{GeneratedAt: s.clock.Now()}

	apts, err := s.src.Appointments.List(ctx)
	if err != nil {
		return ov, err
	}
	ov.TotalAppointments = len(apts)
	ov.UpcomingAppointments = count(apts, appointments.Buckets, "upcoming")

	claims, err := s.src.Claims.List(ctx)
	if err != nil {
		return ov, err
	}
	for _, c := range claims {
		if billing.Buckets[0].Match(c) {
			ov.PendingClaims++
			ov.OutstandingAmount += c.TotalAmount
		}
	}

	ov.OutstandingAmount = math.Round(ov.OutstandingAmount*100) / 100

	orders, err := s.src.Prescriptions.List(ctx)
	if err != nil {
		return ov, err
	}
	ov.PendingPrescriptions = count(orders, prescriptions.QueueBuckets, "pending")

	stock, err := s.src.Inventory.List(ctx)
	if err != nil {
		return ov, err
	}
	for _, it := range stock {
		if it.StockStatus() != hospital.InStock {
			ov.LowStockItems++
		}
	}

	alerts, err := s.src.Alerts.Alerts(ctx)
	if err != nil {
		return ov, err
	}
	for _, a := range alerts {
		if a.Status == appstate.AlertActive {
			ov.ActiveAlerts++
		}
	}

	fleet, err := s.src.Fleet.List(ctx)
	if err != nil {
		return ov, err
	}
	ov.AvailableAmbulances = count(fleet, emergency.AmbulanceBuckets, "available")

	staff, err := s.src.Staff.List(ctx)
	if err != nil {
		return ov, err
	}
	ov.ActiveStaff = count(staff, hospital.StaffBuckets, string(hospital.StaffActive))

	return ov, nil
}
