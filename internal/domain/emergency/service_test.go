package emergency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/view"
	"github.com/hms/hms/internal/platform/websocket"
)

var now = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev websocket.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func newTestService() (*Service, *recordingPublisher) {
	c := &clock.Fixed{At: now}
	pub := &recordingPublisher{}
	alerts := appstate.New(NewAlertMemoryRepository(), pub, zerolog.Nop())
	svc := NewService(NewMemoryRepository(), alerts, form.NewSubmitter(c, 0, zerolog.Nop()), view.NewLoader(c, 0), c, zerolog.Nop())
	return svc, pub
}

func TestETAMinutes(t *testing.T) {
	a := appstate.Location{Lat: 40.7580, Lng: -73.9855}
	if got := ETAMinutes(a, a); got != 1 {
		t.Errorf("expected minimum of 1 minute, got %d", got)
	}
	b := appstate.Location{Lat: 40.7128, Lng: -74.0060}
	got := ETAMinutes(a, b)
	if got < 6 || got > 9 {
		t.Errorf("expected roughly 7 minutes for ~5.3km, got %d", got)
	}
}

func TestAmbulances_FilterByCrewName(t *testing.T) {
	svc, _ := newTestService()
	items, err := svc.Ambulances(context.Background(), AmbulanceFilters{Search: "petrov"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "amb_2" {
		t.Errorf("expected amb_2, got %+v", items)
	}
}

func TestDispatch(t *testing.T) {
	svc, pub := newTestService()
	r := svc.Dispatch(context.Background(), "alert_1", DispatchInput{AmbulanceID: "amb_1"})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	res := r.Data.(DispatchResult)
	if res.Alert.Status != appstate.AlertDispatched || res.Alert.AssignedUnit != "amb_1" {
		t.Errorf("unexpected alert %+v", res.Alert)
	}
	if res.Ambulance.Status != StatusDispatched || res.Ambulance.CurrentCall == nil {
		t.Fatalf("unexpected ambulance %+v", res.Ambulance)
	}
	if res.Ambulance.CurrentCall.AlertID != "alert_1" || !res.Ambulance.CurrentCall.DispatchedAt.Equal(now) {
		t.Errorf("unexpected call %+v", res.Ambulance.CurrentCall)
	}
	if len(pub.events) != 1 || pub.events[0].EntityID != "alert_1" {
		t.Errorf("expected one alert event, got %+v", pub.events)
	}
}

func TestDispatch_UnavailableAmbulance(t *testing.T) {
	svc, pub := newTestService()
	r := svc.Dispatch(context.Background(), "alert_1", DispatchInput{AmbulanceID: "amb_4"})
	if form.StatusCode(r, 200) != 409 {
		t.Fatalf("expected 409, got %+v", r)
	}
	a, _ := svc.alerts.Alert(context.Background(), "alert_1")
	if a.Status != appstate.AlertActive {
		t.Errorf("alert must stay active, got %s", a.Status)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

func TestDispatch_ResolvedAlertLeavesAmbulance(t *testing.T) {
	svc, _ := newTestService()
	r := svc.Dispatch(context.Background(), "alert_3", DispatchInput{AmbulanceID: "amb_1"})
	if r.State != form.StateFailed {
		t.Fatalf("expected failure, got %+v", r)
	}
	d, _ := svc.Ambulance(context.Background(), "amb_1", nil)
	if d.Data.Status != StatusAvailable {
		t.Errorf("ambulance must stay available, got %s", d.Data.Status)
	}
}

func TestDispatch_RequiresAmbulance(t *testing.T) {
	svc, _ := newTestService()
	r := svc.Dispatch(context.Background(), "alert_1", DispatchInput{})
	if r.State != form.StateInvalid || r.Field != "ambulanceId" {
		t.Errorf("expected invalid ambulanceId, got %+v", r)
	}
}

func TestResolve_ReturnsAmbulance(t *testing.T) {
	svc, _ := newTestService()
	r := svc.Resolve(context.Background(), "alert_2")
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	d, _ := svc.Ambulance(context.Background(), "amb_2", nil)
	if d.Data.Status != StatusReturning || d.Data.CurrentCall != nil {
		t.Errorf("expected amb_2 returning without a call, got %+v", d.Data)
	}
	if r := svc.Resolve(context.Background(), "alert_2"); r.State != form.StateFailed {
		t.Errorf("resolving twice should fail, got %+v", r)
	}
}

func TestRaise(t *testing.T) {
	svc, pub := newTestService()
	r := svc.Raise(context.Background(), RaiseInput{Type: "Stroke"})
	if r.State != form.StateInvalid || r.Field != "location" {
		t.Fatalf("expected invalid location, got %+v", r)
	}
	r = svc.Raise(context.Background(), RaiseInput{Type: "Stroke", Priority: "urgent", Location: appstate.Location{Address: "1 Park Ave"}})
	if r.State != form.StateInvalid || r.Field != "priority" {
		t.Fatalf("expected invalid priority, got %+v", r)
	}
	r = svc.Raise(context.Background(), RaiseInput{Type: "Stroke", Priority: "critical", Location: appstate.Location{Address: "1 Park Ave"}})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	a := r.Data.(appstate.EmergencyAlert)
	if a.Status != appstate.AlertActive || !a.ReportedAt.Equal(now) {
		t.Errorf("unexpected alert %+v", a)
	}
	if len(pub.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(pub.events))
	}
	alerts, _ := svc.Alerts(context.Background(), AlertFilters{Status: "active"})
	if len(alerts) != 2 {
		t.Errorf("expected 2 active alerts, got %d", len(alerts))
	}
}

func TestSetStatus(t *testing.T) {
	svc, _ := newTestService()
	if r := svc.SetStatus(context.Background(), "amb_3", StatusInput{Status: "bogus"}); r.State != form.StateInvalid {
		t.Errorf("expected invalid, got %+v", r)
	}
	if r := svc.SetStatus(context.Background(), "amb_4", StatusInput{Status: "on-scene"}); form.StatusCode(r, 200) != 409 {
		t.Errorf("expected 409, got %+v", r)
	}
	r := svc.SetStatus(context.Background(), "amb_3", StatusInput{Status: "available"})
	if r.State != form.StateSuccess || r.Data.(Ambulance).Status != StatusAvailable {
		t.Errorf("expected amb_3 available, got %+v", r)
	}
}

func TestApplyTelemetry(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	lat, lng := 40.75, -73.99
	fix := &appstate.LocationFix{Lat: &lat, Lng: &lng}
	if err := svc.ApplyTelemetry(ctx, "amb_2", "on-scene", fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := svc.Ambulance(ctx, "amb_2", nil)
	if d.Data.Status != StatusOnScene || d.Data.Location.Lat != 40.75 {
		t.Errorf("telemetry not applied: %+v", d.Data)
	}
	if d.Data.Location.Address != "Broadway & 23rd St, New York, NY" {
		t.Errorf("expected previous address kept, got %q", d.Data.Location.Address)
	}
	if err := svc.ApplyTelemetry(ctx, "amb_2", "flying", nil); err == nil {
		t.Error("expected unknown status error")
	}
	if err := svc.ApplyTelemetry(ctx, "amb_9", "", fix); err == nil {
		t.Error("expected unknown ambulance error")
	}
}

func TestApplyTelemetry_AddressOnlyKeepsCoordinates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	before, _ := svc.Ambulance(ctx, "amb_1", nil)

	if err := svc.ApplyTelemetry(ctx, "amb_1", "", &appstate.LocationFix{Address: "Pier 40"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := svc.Ambulance(ctx, "amb_1", nil)
	if after.Data.Location.Lat != before.Data.Location.Lat || after.Data.Location.Lng != before.Data.Location.Lng {
		t.Errorf("coordinates moved: %+v -> %+v", before.Data.Location, after.Data.Location)
	}
	if after.Data.Location.Address != "Pier 40" {
		t.Errorf("expected new address, got %q", after.Data.Location.Address)
	}
}

func TestApplyTelemetry_MaintenanceClearsCall(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if r := svc.Dispatch(ctx, "alert_1", DispatchInput{AmbulanceID: "amb_1"}); r.State != form.StateSuccess {
		t.Fatalf("dispatch: %+v", r)
	}
	if err := svc.ApplyTelemetry(ctx, "amb_1", string(StatusMaintenance), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := svc.Ambulance(ctx, "amb_1", nil)
	if d.Data.CurrentCall != nil {
		t.Errorf("expected call cleared in maintenance, got %+v", d.Data.CurrentCall)
	}
}

type failingFleet struct {
	Repository
	err error
}

func (f failingFleet) Save(context.Context, Ambulance) error { return f.err }

func TestDispatch_FleetSaveFailureLeavesAlertActive(t *testing.T) {
	c := &clock.Fixed{At: now}
	pub := &recordingPublisher{}
	alerts := appstate.New(NewAlertMemoryRepository(), pub, zerolog.Nop())
	fleet := failingFleet{Repository: NewMemoryRepository(), err: errors.New("disk full")}
	svc := NewService(fleet, alerts, form.NewSubmitter(c, 0, zerolog.Nop()), view.NewLoader(c, 0), c, zerolog.Nop())

	r := svc.Dispatch(context.Background(), "alert_1", DispatchInput{AmbulanceID: "amb_1"})
	if r.State != form.StateFailed {
		t.Fatalf("expected failure, got %+v", r)
	}
	a, _ := alerts.Alert(context.Background(), "alert_1")
	if a.Status != appstate.AlertActive || a.AssignedUnit != "" {
		t.Errorf("alert must stay active and unassigned, got %s %q", a.Status, a.AssignedUnit)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}
