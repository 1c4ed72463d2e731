package telemedicine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/domain/appointments"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/store"
	"github.com/hms/hms/internal/platform/websocket"
)

// Visit is a video appointment together with its call state.
type Visit struct {
	Appointment appointments.Appointment `json:"appointment"`
	Session     Session                  `json:"session"`
}

type Service struct {
	mu       sync.Mutex
	sessions Repository
	apts     appointments.Repository
	pub      websocket.EventPublisher
	submit   *form.Submitter
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewService(sessions Repository, apts appointments.Repository, pub websocket.EventPublisher, submit *form.Submitter, c clock.Clock, logger zerolog.Logger) *Service {
	return &Service{sessions: sessions, apts: apts, pub: pub, submit: submit, clock: c, logger: logger}
}

func waiting(a appointments.Appointment) Session {
	return Session{
		AppointmentID:  a.ID,
		PatientName:    a.PatientName,
		DoctorName:     a.DoctorName,
		Status:         StatusWaiting,
		IsVideoEnabled: true,
		IsAudioEnabled: true,
		Messages:       []Message{},
	}
}

// Visits lists every video appointment with its session, or a waiting
// session when nobody has joined yet.
func (s *Service) Visits(ctx context.Context) ([]Visit, error) {
	apts, err := s.apts.Filter(ctx, func(a appointments.Appointment) bool { return a.Type == appointments.TypeVideo })
	if err != nil {
		return nil, err
	}
	out := make([]Visit, 0, len(apts))
	for _, a := range apts {
		sess, err := s.sessions.Find(ctx, a.ID)
		if errors.Is(err, store.ErrNotFound) {
			sess = waiting(a)
		} else if err != nil {
			return nil, err
		}
		out = append(out, Visit{Appointment: a, Session: sess})
	}
	return out, nil
}

// session returns the stored session for a video appointment, creating a
// waiting one when absent. Callers hold mu.
func (s *Service) session(ctx context.Context, appointmentID string) (Session, appointments.Appointment, error) {
	a, err := s.apts.Find(ctx, appointmentID)
	if err != nil {
		return Session{}, a, err
	}
	if a.Type != appointments.TypeVideo {
		return Session{}, a, form.Invalid("appointmentId", "appointment %s is not a video visit", appointmentID)
	}
	sess, err := s.sessions.Find(ctx, appointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return waiting(a), a, nil
	}
	return sess, a, err
}

// moveAppointment advances the underlying appointment when its lifecycle
// allows it and leaves it alone otherwise.
func (s *Service) moveAppointment(ctx context.Context, a appointments.Appointment, to appointments.Status) {
	if !appointments.Transitions.Allowed(string(a.Status), string(to)) {
		return
	}
	a.Status = to
	if err := s.apts.Save(ctx, a); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to update appointment from call")
	}
}

func (s *Service) mutate(ctx context.Context, appointmentID string, a form.Action, fn func(*Session, appointments.Appointment) error) form.Result {
	a.Redirect = "/telemedicine"
	a.Commit = func(ctx context.Context) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		sess, apt, err := s.session(ctx, appointmentID)
		if err != nil {
			return nil, err
		}
		if err := fn(&sess, apt); err != nil {
			return nil, err
		}
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}
	return s.submit.Submit(ctx, a)
}

func (s *Service) Join(ctx context.Context, appointmentID string) form.Result {
	return s.mutate(ctx, appointmentID, form.Action{Name: "telemedicine.join", Success: "Joined the call"},
		func(sess *Session, apt appointments.Appointment) error {
			if sess.Status == StatusActive {
				return nil
			}
			if err := Transitions.Check(string(sess.Status), string(StatusActive)); err != nil {
				return err
			}
			now := s.clock.Now()
			sess.Status = StatusActive
			sess.StartedAt = &now
			s.moveAppointment(ctx, apt, appointments.StatusInProgress)
			s.logger.Info().Str("appointment_id", apt.ID).Msg("call started")
			return nil
		})
}

// Toggle flips one of the participant's call controls.
func (s *Service) Toggle(ctx context.Context, appointmentID string, control Control) form.Result {
	return s.mutate(ctx, appointmentID, form.Action{
		Name:    "telemedicine.toggle",
		Success: "Call settings updated",
		Validate: func() error {
			switch control {
			case ControlVideo, ControlAudio, ControlScreen:
				return nil
			}
			return form.Invalid("control", "unknown control %q", control)
		},
	}, func(sess *Session, _ appointments.Appointment) error {
		if sess.Status != StatusActive {
			return form.Invalid("status", "join the call before changing call settings")
		}
		switch control {
		case ControlVideo:
			sess.IsVideoEnabled = !sess.IsVideoEnabled
		case ControlAudio:
			sess.IsAudioEnabled = !sess.IsAudioEnabled
		case ControlScreen:
			sess.IsScreenSharing = !sess.IsScreenSharing
		}
		return nil
	})
}

// MessageInput is the chat box.
type MessageInput struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Send appends a chat message and broadcasts it to the session topic.
func (s *Service) Send(ctx context.Context, appointmentID string, in MessageInput) form.Result {
	var sent Message
	r := s.mutate(ctx, appointmentID, form.Action{
		Name:     "telemedicine.message",
		Success:  "Message sent",
		Validate: func() error { return form.Required(form.Field{Name: "text", Value: in.Text}) },
	}, func(sess *Session, _ appointments.Appointment) error {
		if sess.Status != StatusActive {
			return form.Invalid("status", "join the call before sending messages")
		}
		sender := strings.TrimSpace(in.Sender)
		if sender == "" {
			sender = "Anonymous"
		}
		sent = Message{
			ID:     "msg_" + uuid.NewString()[:8],
			Sender: sender,
			Text:   strings.TrimSpace(in.Text),
			SentAt: s.clock.Now(),
		}
		sess.Messages = append(sess.Messages, sent)
		return nil
	})
	if r.State == form.StateSuccess && s.pub != nil {
		ev, err := websocket.NewEvent(Topic(appointmentID), EventMessage, "session", appointmentID, sent)
		if err == nil {
			err = s.pub.Publish(ctx, ev)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", appointmentID).Msg("failed to broadcast message")
		}
	}
	return r
}

func (s *Service) End(ctx context.Context, appointmentID string) form.Result {
	return s.mutate(ctx, appointmentID, form.Action{Name: "telemedicine.end", Success: "Call ended"},
		func(sess *Session, apt appointments.Appointment) error {
			if err := Transitions.Check(string(sess.Status), string(StatusEnded)); err != nil {
				return err
			}
			now := s.clock.Now()
			wasActive := sess.Status == StatusActive
			sess.Status = StatusEnded
			sess.EndedAt = &now
			sess.IsScreenSharing = false
			if wasActive {
				s.moveAppointment(ctx, apt, appointments.StatusCompleted)
			}
			return nil
		})
}
