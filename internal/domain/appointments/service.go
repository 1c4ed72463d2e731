package appointments

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

// DefaultDuration applies when a new appointment does not say how long it is.
const DefaultDuration = 30 * time.Minute

// Filters are the select boxes of the appointment list.
type Filters struct {
	Search string
	Status string
	Type   string
	Date   string
}

func (f Filters) predicate() listing.Predicate[Appointment] {
	return func(a Appointment) bool {
		return listing.Contains(f.Search, a.PatientName, a.DoctorName, a.Reason) &&
			listing.Equals(f.Status, string(a.Status)) &&
			listing.Equals(f.Type, string(a.Type)) &&
			(f.Date == "" || a.Day() == f.Date)
	}
}

func (f Filters) echo() map[string]string {
	return map[string]string{"search": f.Search, "status": f.Status, "type": f.Type, "date": f.Date}
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

// Filter returns the appointments matching f, ordered by start time.
func (s *Service) Filter(ctx context.Context, f Filters) ([]Appointment, error) {
	items, err := s.repo.Filter(ctx, f.predicate())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Start.Before(items[j].Start) })
	return items, nil
}

// Detail performs the simulated fetch of one appointment.
func (s *Service) Detail(ctx context.Context, id string, tr *view.Tracker) (view.Detail[Appointment], error) {
	return view.Load(ctx, s.loader, tr, id, s.repo.Find)
}

// CalendarEntry is one appointment as shown in a day cell.
type CalendarEntry struct {
	ID          string `json:"id"`
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Type        Type   `json:"type"`
	Status      Status `json:"status"`
	TimeRange   string `json:"timeRange"`
}

// CalendarDay is one cell of the calendar.
type CalendarDay struct {
	Date    string          `json:"date"`
	Entries []CalendarEntry `json:"entries"`
}

// Calendar is the month grid plus the selected day, if any.
type Calendar struct {
	Month    string        `json:"month,omitempty"`
	Days     []CalendarDay `json:"days"`
	Selected *CalendarDay  `json:"selected,omitempty"`
}

// Calendar groups the filtered appointments by day. With a month every day
// of that month gets a cell; without one only days holding appointments do.
// A date selects a single day.
func (s *Service) Calendar(ctx context.Context, month, date string, f Filters) (*Calendar, error) {
	f.Date = ""
	items, err := s.Filter(ctx, f)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]CalendarEntry)
	var order []string
	for _, a := range items {
		d := a.Day()
		if _, ok := byDay[d]; !ok {
			order = append(order, d)
		}
		byDay[d] = append(byDay[d], CalendarEntry{
			ID:          a.ID,
			PatientName: a.PatientName,
			DoctorName:  a.DoctorName,
			Type:        a.Type,
			Status:      a.Status,
			TimeRange:   a.TimeRange(),
		})
	}

	cal := &Calendar{Month: month}
	if month != "" {
		first, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, form.Invalid("month", "month must be formatted YYYY-MM")
		}
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			key := d.Format(DateLayout)
			cal.Days = append(cal.Days, CalendarDay{Date: key, Entries: nonNil(byDay[key])})
		}
	} else {
		sort.Strings(order)
		for _, key := range order {
			cal.Days = append(cal.Days, CalendarDay{Date: key, Entries: byDay[key]})
		}
	}
	if cal.Days == nil {
		cal.Days = []CalendarDay{}
	}

	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, form.Invalid("date", "date must be formatted YYYY-MM-DD")
		}
		cal.Selected = &CalendarDay{Date: date, Entries: nonNil(byDay[date])}
	}
	return cal, nil
}

func nonNil(e []CalendarEntry) []CalendarEntry {
	if e == nil {
		return []CalendarEntry{}
	}
	return e
}

// CreateInput is the new appointment form.
type CreateInput struct {
	PatientID       string `json:"patientId"`
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	PatientPhone    string `json:"patientPhone"`
	DoctorName      string `json:"doctorName"`
	Department      string `json:"department"`
	Type            string `json:"type"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

func parseSlot(date, startTime string, minutes int) (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout+" 15:04", date+" "+startTime)
	if err != nil {
		return time.Time{}, time.Time{}, form.Invalid("startTime", "date and start time must be formatted YYYY-MM-DD and HH:MM")
	}
	d := DefaultDuration
	if minutes > 0 {
		d = time.Duration(minutes) * time.Minute
	}
	return start, start.Add(d), nil
}

func (in CreateInput) validate() error {
	if err := form.Required(
		form.Field{Name: "patientName", Value: in.PatientName},
		form.Field{Name: "date", Value: in.Date},
		form.Field{Name: "startTime", Value: in.StartTime},
	); err != nil {
		return err
	}
	if in.Type != "" && !listing.OneOf(in.Type, validTypes...) {
		return form.Invalid("type", "type must be one of %s", strings.Join(validTypes, ", "))
	}
	if in.DurationMinutes < 0 {
		return form.Invalid("durationMinutes", "duration must not be negative")
	}
	_, _, err := parseSlot(in.Date, in.StartTime, in.DurationMinutes)
	return err
}

// Create books a new appointment in the scheduled state.
func (s *Service) Create(ctx context.Context, in CreateInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "appointment.create",
		Success:  "Appointment scheduled successfully",
		Redirect: "/appointments",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			start, end, err := parseSlot(in.Date, in.StartTime, in.DurationMinutes)
			if err != nil {
				return nil, err
			}
			typ := Type(in.Type)
			if typ == "" {
				typ = TypeInPerson
			}
			a := Appointment{
				ID:           "apt_" + uuid.NewString()[:8],
				PatientID:    in.PatientID,
				PatientName:  strings.TrimSpace(in.PatientName),
				PatientEmail: in.PatientEmail,
				PatientPhone: in.PatientPhone,
				DoctorName:   in.DoctorName,
				Department:   in.Department,
				Type:         typ,
				Status:       StatusScheduled,
				Start:        start,
				End:          end,
				Reason:       in.Reason,
				Notes:        in.Notes,
			}
			if err := s.repo.Save(ctx, a); err != nil {
				return nil, err
			}
			s.logger.Info().Str("appointment_id", a.ID).Str("start", a.Start.Format(time.RFC3339)).Msg("appointment created")
			return a, nil
		},
	})
}

// UpdateInput is the edit/reschedule form. Blank fields are left unchanged.
type UpdateInput struct {
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	PatientPhone    string `json:"patientPhone"`
	DoctorName      string `json:"doctorName"`
	Department      string `json:"department"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

func (in UpdateInput) validate() error {
	if in.Type != "" && !listing.OneOf(in.Type, validTypes...) {
		return form.Invalid("type", "type must be one of %s", strings.Join(validTypes, ", "))
	}
	if in.DurationMinutes < 0 {
		return form.Invalid("durationMinutes", "duration must not be negative")
	}
	if (in.Date == "") != (in.StartTime == "") {
		return form.Invalid("startTime", "date and start time must be changed together")
	}
	if in.Date != "" {
		_, _, err := parseSlot(in.Date, in.StartTime, in.DurationMinutes)
		return err
	}
	return nil
}

// Update merges the non-blank fields of in onto the stored appointment.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "appointment.update",
		Success:  "Appointment updated successfully",
		Redirect: "/appointments/" + id,
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			cur, err := s.repo.Update(ctx, id, func(cur *Appointment) error {
				patch := Appointment{
					PatientName:  in.PatientName,
					PatientEmail: in.PatientEmail,
					PatientPhone: in.PatientPhone,
					DoctorName:   in.DoctorName,
					Department:   in.Department,
					Type:         Type(in.Type),
					Reason:       in.Reason,
					Notes:        in.Notes,
				}
				if in.Status != "" && Status(in.Status) != cur.Status {
					if err := Transitions.Check(string(cur.Status), in.Status); err != nil {
						return err
					}
					patch.Status = Status(in.Status)
				}
				minutes := in.DurationMinutes
				if minutes == 0 {
					minutes = int(cur.Duration() / time.Minute)
				}
				switch {
				case in.Date != "":
					var err error
					patch.Start, patch.End, err = parseSlot(in.Date, in.StartTime, minutes)
					if err != nil {
						return err
					}
				case in.DurationMinutes > 0:
					patch.End = cur.Start.Add(time.Duration(minutes) * time.Minute)
				}
				form.Merge(cur, &patch)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return cur, nil
		},
	})
}

func (s *Service) move(ctx context.Context, id string, to Status, action, success string) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     action,
		Success:  success,
		Redirect: "/appointments",
		Commit: func(ctx context.Context) (interface{}, error) {
			a, err := s.repo.Update(ctx, id, func(a *Appointment) error {
				if err := Transitions.Check(string(a.Status), string(to)); err != nil {
					return err
				}
				a.Status = to
				return nil
			})
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("appointment_id", id).Str("status", string(to)).Msg("appointment status changed")
			return a, nil
		},
	})
}

func (s *Service) Cancel(ctx context.Context, id string) form.Result {
	return s.move(ctx, id, StatusCancelled, "appointment.cancel", "Appointment cancelled")
}

func (s *Service) Confirm(ctx context.Context, id string) form.Result {
	return s.move(ctx, id, StatusConfirmed, "appointment.confirm", "Appointment confirmed")
}

// VideoAppointments lists appointments held over video, in start order.
func (s *Service) VideoAppointments(ctx context.Context) ([]Appointment, error) {
	return s.Filter(ctx, Filters{Type: string(TypeVideo)})
}

// Find looks up one appointment without simulated latency.
func (s *Service) Find(ctx context.Context, id string) (Appointment, error) {
	return s.repo.Find(ctx, id)
}
