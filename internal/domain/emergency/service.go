package emergency

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

// AmbulanceFilters are the select boxes of the fleet list.
type AmbulanceFilters struct {
	Search string
	Status string
}

func (f AmbulanceFilters) predicate() listing.Predicate[Ambulance] {
	return func(a Ambulance) bool {
		fields := append([]string{a.CallSign, a.Location.Address}, a.crewNames()...)
		return listing.Contains(f.Search, fields...) && listing.Equals(f.Status, string(a.Status))
	}
}

// AlertFilters are the select boxes of the alert feed.
type AlertFilters struct {
	Search   string
	Priority string
	Status   string
}

func (f AlertFilters) predicate() listing.Predicate[appstate.EmergencyAlert] {
	return func(a appstate.EmergencyAlert) bool {
		return listing.Contains(f.Search, a.Type, a.Description, a.Location.Address) &&
			listing.Equals(f.Priority, string(a.Priority)) &&
			listing.Equals(f.Status, string(a.Status))
	}
}

// Service runs the dispatch board. Dispatch and resolve touch both an
// alert and an ambulance; mu keeps those pairs consistent.
type Service struct {
	mu     sync.Mutex
	fleet  Repository
	alerts *appstate.Store
	submit *form.Submitter
	loader *view.Loader
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(fleet Repository, alerts *appstate.Store, submit *form.Submitter, loader *view.Loader, c clock.Clock, logger zerolog.Logger) *Service {
	return &Service{fleet: fleet, alerts: alerts, submit: submit, loader: loader, clock: c, logger: logger}
}

func (s *Service) Ambulances(ctx context.Context, f AmbulanceFilters) ([]Ambulance, error) {
	return s.fleet.Filter(ctx, f.predicate())
}

func (s *Service) Ambulance(ctx context.Context, id string, tr *view.Tracker) (view.Detail[Ambulance], error) {
	return view.Load(ctx, s.loader, tr, id, s.fleet.Find)
}

func (s *Service) Alerts(ctx context.Context, f AlertFilters) ([]appstate.EmergencyAlert, error) {
	all, err := s.alerts.Alerts(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Apply(all, f.predicate()), nil
}

func (s *Service) Alert(ctx context.Context, id string, tr *view.Tracker) (view.Detail[appstate.EmergencyAlert], error) {
	return view.Load(ctx, s.loader, tr, id, s.alerts.Alert)
}

// StatusInput changes an ambulance status by hand.
type StatusInput struct {
	Status string `json:"status"`
}

// SetStatus moves an ambulance along its lifecycle. Returning to available
// clears the current call.
func (s *Service) SetStatus(ctx context.Context, id string, in StatusInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "ambulance.status",
		Success:  "Ambulance status updated",
		Redirect: "/emergency",
		Validate: func() error {
			if err := form.Required(form.Field{Name: "status", Value: in.Status}); err != nil {
				return err
			}
			if !listing.OneOf(in.Status, ambulanceStatuses...) {
				return form.Invalid("status", "unknown ambulance status %q", in.Status)
			}
			return nil
		},
		Commit: func(ctx context.Context) (interface{}, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			a, err := s.fleet.Find(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := AmbulanceTransitions.Check(string(a.Status), in.Status); err != nil {
				return nil, err
			}
			a.Status = AmbulanceStatus(in.Status)
			if a.Status.clearsCall() {
				a.CurrentCall = nil
			}
			a.LastUpdated = s.clock.Now()
			if err := s.fleet.Save(ctx, a); err != nil {
				return nil, err
			}
			return a, nil
		},
	})
}

// ApplyTelemetry records a position or status report from a vehicle. Reports
// are authoritative, so the status is only checked for being known. Only the
// location fields present in fix are changed.
func (s *Service) ApplyTelemetry(ctx context.Context, ambulanceID, status string, fix *appstate.LocationFix) error {
	if status != "" && !listing.OneOf(status, ambulanceStatuses...) {
		return fmt.Errorf("unknown ambulance status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.fleet.Update(ctx, ambulanceID, func(a *Ambulance) error {
		if status != "" {
			a.Status = AmbulanceStatus(status)
			if a.Status.clearsCall() {
				a.CurrentCall = nil
			}
		}
		if fix != nil {
			a.Location = fix.Apply(a.Location)
		}
		a.LastUpdated = s.clock.Now()
		return nil
	})
	return err
}

// RaiseInput is the new alert form.
type RaiseInput struct {
	Type        string            `json:"type"`
	Priority    string            `json:"priority"`
	Description string            `json:"description"`
	Location    appstate.Location `json:"location"`
}

var priorities = []string{
	string(appstate.PriorityCritical), string(appstate.PriorityHigh),
	string(appstate.PriorityMedium), string(appstate.PriorityLow),
}

func (in RaiseInput) validate() error {
	if err := form.Required(
		form.Field{Name: "type", Value: in.Type},
		form.Field{Name: "location", Value: in.Location.Address},
	); err != nil {
		return err
	}
	if in.Priority != "" && !listing.OneOf(in.Priority, priorities...) {
		return form.Invalid("priority", "priority must be one of %s", strings.Join(priorities, ", "))
	}
	return nil
}

func (s *Service) Raise(ctx context.Context, in RaiseInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "alert.raise",
		Success:  "Emergency alert created",
		Redirect: "/emergency",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			a, err := s.alerts.AddAlert(ctx, appstate.EmergencyAlert{
				Type:        strings.TrimSpace(in.Type),
				Priority:    appstate.Priority(in.Priority),
				Description: in.Description,
				Location:    in.Location,
				ReportedAt:  s.clock.Now(),
			})
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("alert_id", a.ID).Str("priority", string(a.Priority)).Msg("alert raised")
			return a, nil
		},
	})
}

// DispatchInput names the unit sent to an alert.
type DispatchInput struct {
	AmbulanceID string `json:"ambulanceId"`
}

// DispatchResult is returned after a successful dispatch.
type DispatchResult struct {
	Alert     appstate.EmergencyAlert `json:"alert"`
	Ambulance Ambulance               `json:"ambulance"`
}

// Dispatch assigns an available ambulance to an active alert.
func (s *Service) Dispatch(ctx context.Context, alertID string, in DispatchInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "alert.dispatch",
		Success:  "Ambulance dispatched",
		Redirect: "/emergency",
		Validate: func() error { return form.Required(form.Field{Name: "ambulanceId", Value: in.AmbulanceID}) },
		Commit: func(ctx context.Context) (interface{}, error) {
			s.mu.Lock()
			defer s.mu.Unlock()

			prev, err := s.fleet.Find(ctx, in.AmbulanceID)
			if err != nil {
				return nil, err
			}
			if err := AmbulanceTransitions.Check(string(prev.Status), string(StatusDispatched)); err != nil {
				return nil, err
			}
			target, err := s.alerts.Alert(ctx, alertID)
			if err != nil {
				return nil, err
			}
			if err := AlertTransitions.Check(string(target.Status), string(appstate.AlertDispatched)); err != nil {
				return nil, err
			}

			// The unit is committed first; the alert only points at a unit that
			// already carries the call.
			now := s.clock.Now()
			amb := prev
			amb.Status = StatusDispatched
			amb.CurrentCall = &Call{
				AlertID:      target.ID,
				Address:      target.Location.Address,
				Priority:     target.Priority,
				DispatchedAt: now,
				ETAMinutes:   ETAMinutes(amb.Location, target.Location),
			}
			amb.LastUpdated = now
			if err := s.fleet.Save(ctx, amb); err != nil {
				return nil, err
			}

			alert, err := s.alerts.UpdateAlert(ctx, alertID, func(a *appstate.EmergencyAlert) error {
				if err := AlertTransitions.Check(string(a.Status), string(appstate.AlertDispatched)); err != nil {
					return err
				}
				a.Status = appstate.AlertDispatched
				a.AssignedUnit = amb.ID
				return nil
			})
			if err != nil {
				if rerr := s.fleet.Save(ctx, prev); rerr != nil {
					s.logger.Error().Err(rerr).Str("ambulance_id", prev.ID).Msg("failed to restore ambulance after dispatch error")
				}
				return nil, err
			}
			s.logger.Info().Str("alert_id", alert.ID).Str("ambulance_id", amb.ID).Int("eta_minutes", amb.CurrentCall.ETAMinutes).Msg("ambulance dispatched")
			return DispatchResult{Alert: alert, Ambulance: amb}, nil
		},
	})
}

// Resolve closes an alert and sends its unit back to base.
func (s *Service) Resolve(ctx context.Context, alertID string) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "alert.resolve",
		Success:  "Alert resolved",
		Redirect: "/emergency",
		Commit: func(ctx context.Context) (interface{}, error) {
			s.mu.Lock()
			defer s.mu.Unlock()

			alert, err := s.alerts.UpdateAlert(ctx, alertID, func(a *appstate.EmergencyAlert) error {
				if err := AlertTransitions.Check(string(a.Status), string(appstate.AlertResolved)); err != nil {
					return err
				}
				a.Status = appstate.AlertResolved
				return nil
			})
			if err != nil {
				return nil, err
			}

			if alert.AssignedUnit != "" {
				amb, err := s.fleet.Find(ctx, alert.AssignedUnit)
				switch {
				case err != nil:
					s.logger.Warn().Err(err).Str("ambulance_id", alert.AssignedUnit).Msg("assigned unit missing on resolve")
				case amb.CurrentCall != nil && amb.CurrentCall.AlertID == alert.ID:
					amb.Status = StatusReturning
					amb.CurrentCall = nil
					amb.LastUpdated = s.clock.Now()
					if err := s.fleet.Save(ctx, amb); err != nil {
						return nil, err
					}
				}
			}
			return alert, nil
		},
	})
}

// Fleet returns every ambulance for reporting.
func (s *Service) Fleet(ctx context.Context) ([]Ambulance, error) {
	return s.fleet.List(ctx)
}
