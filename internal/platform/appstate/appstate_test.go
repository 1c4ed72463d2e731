package appstate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/store"
	"github.com/hms/hms/internal/platform/websocket"
)

type recordingPublisher struct {
	events []websocket.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev websocket.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func newTestStore() (*Store, *recordingPublisher) {
	pub := &recordingPublisher{}
	return New(store.NewMemory(SeedAlerts), pub, zerolog.Nop()), pub
}

func TestStore_Alerts(t *testing.T) {
	s, _ := newTestStore()
	alerts, err := s.Alerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != len(SeedAlerts) {
		t.Errorf("expected %d alerts, got %d", len(SeedAlerts), len(alerts))
	}
}

func TestStore_AddAlertDefaults(t *testing.T) {
	s, pub := newTestStore()
	a, err := s.AddAlert(context.Background(), EmergencyAlert{Type: "Stroke", Location: Location{Address: "1 Elm St"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" || a.Status != AlertActive || a.Priority != PriorityMedium || a.ReportedAt.IsZero() {
		t.Errorf("expected defaults filled in, got %+v", a)
	}
	if len(pub.events) != 1 || pub.events[0].Topic != AlertsTopic || pub.events[0].Type != EventAlertUpdated {
		t.Errorf("expected one alert.updated event, got %+v", pub.events)
	}
	if _, err := s.Alert(context.Background(), a.ID); err != nil {
		t.Errorf("expected alert stored: %v", err)
	}
}

func TestStore_UpdateAlert(t *testing.T) {
	s, pub := newTestStore()
	ctx := context.Background()

	a, err := s.UpdateAlert(ctx, "alert_1", func(a *EmergencyAlert) error {
		a.Status = AlertDispatched
		a.AssignedUnit = "amb_1"
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != AlertDispatched || a.AssignedUnit != "amb_1" {
		t.Errorf("unexpected alert: %+v", a)
	}
	stored, _ := s.Alert(ctx, "alert_1")
	if stored.Status != AlertDispatched {
		t.Error("expected update persisted")
	}
	if len(pub.events) != 1 || pub.events[0].EntityID != "alert_1" {
		t.Errorf("expected event for alert_1, got %+v", pub.events)
	}
}

func TestStore_UpdateAlertRejected(t *testing.T) {
	s, pub := newTestStore()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := s.UpdateAlert(ctx, "alert_1", func(a *EmergencyAlert) error {
		a.Status = AlertResolved
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	stored, _ := s.Alert(ctx, "alert_1")
	if stored.Status != AlertActive {
		t.Error("rejected update must not be saved")
	}
	if len(pub.events) != 0 {
		t.Error("rejected update must not publish")
	}

	if _, err := s.UpdateAlert(ctx, "missing", func(*EmergencyAlert) error { return nil }); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
