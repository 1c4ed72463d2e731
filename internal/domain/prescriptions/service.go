package prescriptions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

// Filters serve both the doctor list and the pharmacy queue.
type Filters struct {
	Search   string
	Status   string
	Priority string
}

func (f Filters) predicate() listing.Predicate[Order] {
	return func(o Order) bool {
		fields := append([]string{o.PatientName, o.DoctorName, o.OrderNumber}, o.medicationNames()...)
		return listing.Contains(f.Search, fields...) &&
			listing.Equals(f.Status, string(o.Status)) &&
			listing.Equals(f.Priority, string(o.Priority))
	}
}

func (f Filters) echo() map[string]string {
	return map[string]string{"search": f.Search, "status": f.Status, "priority": f.Priority}
}

type Service struct {
	repo   Repository
	submit *form.Submitter
	loader *view.Loader
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, submit *form.Submitter, loader *view.Loader, c clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repo: repo, submit: submit, loader: loader, clock: c, logger: logger}
}

// Orders returns the matching orders, newest first.
func (s *Service) Orders(ctx context.Context, f Filters) ([]Order, error) {
	items, err := s.repo.Filter(ctx, f.predicate())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ReceivedAt.After(items[j].ReceivedAt) })
	return items, nil
}

// Queue returns the matching orders in the order a pharmacist works them:
// by priority, then oldest first.
func (s *Service) Queue(ctx context.Context, f Filters) ([]Order, error) {
	items, err := s.repo.Filter(ctx, f.predicate())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := priorityRank(items[i].Priority), priorityRank(items[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return items[i].ReceivedAt.Before(items[j].ReceivedAt)
	})
	return items, nil
}

func (s *Service) Detail(ctx context.Context, id string, tr *view.Tracker) (view.Detail[Order], error) {
	return view.Load(ctx, s.loader, tr, id, s.repo.Find)
}

// ActionInput optionally names the pharmacist and adds a note.
type ActionInput struct {
	Pharmacist string `json:"pharmacist"`
	Notes      string `json:"notes"`
}

func (s *Service) advance(ctx context.Context, id string, to Status, in ActionInput, success string) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "prescription." + string(to),
		Success:  success,
		Redirect: "/prescriptions/queue",
		Commit: func(ctx context.Context) (interface{}, error) {
			o, err := s.repo.Update(ctx, id, func(o *Order) error {
				if err := Transitions.Check(string(o.Status), string(to)); err != nil {
					return err
				}
				o.Status = to
				if in.Pharmacist != "" {
					o.Pharmacist = in.Pharmacist
				}
				if in.Notes != "" {
					o.Notes = in.Notes
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("order_id", id).Str("status", string(to)).Msg("prescription status changed")
			return o, nil
		},
	})
}

func (s *Service) Process(ctx context.Context, id string, in ActionInput) form.Result {
	return s.advance(ctx, id, StatusProcessing, in, "Prescription is being processed")
}

func (s *Service) MarkReady(ctx context.Context, id string, in ActionInput) form.Result {
	return s.advance(ctx, id, StatusReady, in, "Prescription is ready for pickup")
}

func (s *Service) Dispense(ctx context.Context, id string, in ActionInput) form.Result {
	return s.advance(ctx, id, StatusDispensed, in, "Prescription dispensed")
}

func (s *Service) Cancel(ctx context.Context, id string, in ActionInput) form.Result {
	return s.advance(ctx, id, StatusCancelled, in, "Prescription cancelled")
}

// CreateInput is the new prescription form.
type CreateInput struct {
	PatientID   string       `json:"patientId"`
	PatientName string       `json:"patientName"`
	DoctorName  string       `json:"doctorName"`
	Priority    string       `json:"priority"`
	Medications []Medication `json:"medications"`
	Notes       string       `json:"notes"`
}

func (in CreateInput) validate() error {
	if err := form.Required(
		form.Field{Name: "patientName", Value: in.PatientName},
		form.Field{Name: "doctorName", Value: in.DoctorName},
	); err != nil {
		return err
	}
	if len(in.Medications) == 0 {
		return form.Invalid("medications", "at least one medication is required")
	}
	for i, m := range in.Medications {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" {
			return form.Invalid("medications", "medication %d: name and dosage are required", i+1)
		}
		if m.Quantity < 0 {
			return form.Invalid("medications", "medication %d: quantity must not be negative", i+1)
		}
	}
	if in.Priority != "" && !listing.OneOf(in.Priority, priorities...) {
		return form.Invalid("priority", "priority must be one of %s", strings.Join(priorities, ", "))
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "prescription.create",
		Success:  "Prescription sent to pharmacy",
		Redirect: "/prescriptions",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			now := s.clock.Now()
			prio := Priority(in.Priority)
			if prio == "" {
				prio = PriorityRoutine
			}
			o := Order{
				ID:          "rx_" + uuid.NewString()[:8],
				OrderNumber: fmt.Sprintf("RX-%d-%s", now.Year(), strings.ToUpper(uuid.NewString()[:6])),
				PatientID:   in.PatientID,
				PatientName: strings.TrimSpace(in.PatientName),
				DoctorName:  strings.TrimSpace(in.DoctorName),
				Medications: in.Medications,
				Status:      StatusReceived,
				Priority:    prio,
				ReceivedAt:  now,
				Notes:       in.Notes,
			}
			if err := s.repo.Save(ctx, o); err != nil {
				return nil, err
			}
			s.logger.Info().Str("order_id", o.ID).Str("priority", string(o.Priority)).Msg("prescription created")
			return o, nil
		},
	})
}
