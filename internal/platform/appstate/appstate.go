// Package appstate is the application-wide store shared by every page. It
// currently holds the emergency alert feed.
package appstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/store"
	"github.com/hms/hms/internal/platform/websocket"
)

// AlertsTopic is the hub topic alert changes are published on.
const AlertsTopic = "emergency.alerts"

// EventAlertUpdated is the event type of every alert mutation.
const EventAlertUpdated = "alert.updated"

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type AlertStatus string

const (
	AlertActive     AlertStatus = "active"
	AlertDispatched AlertStatus = "dispatched"
	AlertResolved   AlertStatus = "resolved"
)

// Location is a geocoded address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// LocationFix is a partial position report. Nil coordinates and a blank
// address are unknown.
type LocationFix struct {
	Lat     *float64
	Lng     *float64
	Address string
}

// Apply returns l with the known fields of f.
func (f LocationFix) Apply(l Location) Location {
	if f.Lat != nil {
		l.Lat = *f.Lat
	}
	if f.Lng != nil {
		l.Lng = *f.Lng
	}
	if f.Address != "" {
		l.Address = f.Address
	}
	return l
}

// EmergencyAlert is an incident waiting for or being served by a unit.
type EmergencyAlert struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Priority     Priority    `json:"priority"`
	Status       AlertStatus `json:"status"`
	Location     Location    `json:"location"`
	Description  string      `json:"description"`
	ReportedAt   time.Time   `json:"reportedAt"`
	AssignedUnit string      `json:"assignedUnit,omitempty"`
}

func (a EmergencyAlert) GetID() string { return a.ID }

// AlertRepository persists the alert feed.
type AlertRepository = store.Repository[EmergencyAlert]

// Store holds alerts and announces every change to the hub.
type Store struct {
	mu     sync.Mutex
	alerts AlertRepository
	pub    websocket.EventPublisher
	logger zerolog.Logger
}

func New(alerts AlertRepository, pub websocket.EventPublisher, logger zerolog.Logger) *Store {
	return &Store{alerts: alerts, pub: pub, logger: logger}
}

// Alerts returns every alert.
func (s *Store) Alerts(ctx context.Context) ([]EmergencyAlert, error) {
	return s.alerts.List(ctx)
}

// Alert returns one alert.
func (s *Store) Alert(ctx context.Context, id string) (EmergencyAlert, error) {
	return s.alerts.Find(ctx, id)
}

// AddAlert stores a new alert, filling in ID, status and reported time when
// they are empty.
func (s *Store) AddAlert(ctx context.Context, a EmergencyAlert) (EmergencyAlert, error) {
	if a.ID == "" {
		a.ID = "alert_" + uuid.New().String()[:8]
	}
	if a.Status == "" {
		a.Status = AlertActive
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.ReportedAt.IsZero() {
		a.ReportedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.alerts.Save(ctx, a); err != nil {
		return EmergencyAlert{}, fmt.Errorf("saving alert: %w", err)
	}
	s.publish(ctx, a)
	return a, nil
}

// UpdateAlert applies fn to the stored alert and saves the result. fn may
// reject the change by returning an error, in which case nothing is saved.
func (s *Store) UpdateAlert(ctx context.Context, id string, fn func(*EmergencyAlert) error) (EmergencyAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.alerts.Find(ctx, id)
	if err != nil {
		return EmergencyAlert{}, err
	}
	if err := fn(&a); err != nil {
		return EmergencyAlert{}, err
	}
	a.ID = id
	if err := s.alerts.Save(ctx, a); err != nil {
		return EmergencyAlert{}, fmt.Errorf("saving alert: %w", err)
	}
	s.publish(ctx, a)
	return a, nil
}

func (s *Store) publish(ctx context.Context, a EmergencyAlert) {
	if s.pub == nil {
		return
	}
	ev, err := websocket.NewEvent(AlertsTopic, EventAlertUpdated, "alert", a.ID, a)
	if err != nil {
		s.logger.Error().Err(err).Str("alert_id", a.ID).Msg("failed to build alert event")
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("alert_id", a.ID).Msg("failed to publish alert event")
	}
}
