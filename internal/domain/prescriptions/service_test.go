package prescriptions

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

func newTestService() *Service {
	c := clock.Instant{}
	return NewService(NewMemoryRepository(), form.NewSubmitter(c, 0, zerolog.Nop()), view.NewLoader(c, 0), c, zerolog.Nop())
}

func tabCount(t *testing.T, svc *Service, name string) int {
	t.Helper()
	items, err := svc.Queue(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tab := range listing.Partition(items, QueueBuckets) {
		if tab.Name == name {
			return tab.Count
		}
	}
	t.Fatalf("no tab %q", name)
	return 0
}

func TestQueue_ProcessKeepsPendingCount(t *testing.T) {
	svc := newTestService()
	before := tabCount(t, svc, "pending")
	if before != 2 {
		t.Fatalf("expected 2 pending orders, got %d", before)
	}

	r := svc.Process(context.Background(), "rx_1", ActionInput{Pharmacist: "Priya Shah"})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	if o := r.Data.(Order); o.Status != StatusProcessing || o.Pharmacist != "Priya Shah" {
		t.Errorf("unexpected order %+v", o)
	}

	after := tabCount(t, svc, "pending")
	if after != before {
		t.Errorf("pending count changed from %d to %d after processing", before, after)
	}
}

func TestQueue_ReadyMovesTabs(t *testing.T) {
	svc := newTestService()
	if r := svc.MarkReady(context.Background(), "rx_2", ActionInput{}); r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	if got := tabCount(t, svc, "pending"); got != 1 {
		t.Errorf("expected 1 pending, got %d", got)
	}
	if got := tabCount(t, svc, "ready"); got != 2 {
		t.Errorf("expected 2 ready, got %d", got)
	}
}

func TestQueue_TabsSumToFiltered(t *testing.T) {
	svc := newTestService()
	for _, f := range []Filters{{}, {Priority: "routine"}, {Search: "wilson"}, {Search: "amox"}} {
		items, _ := svc.Queue(context.Background(), f)
		sum := 0
		for _, tab := range listing.Partition(items, QueueBuckets) {
			sum += tab.Count
		}
		if sum != len(items) {
			t.Errorf("filters %+v: %d != %d", f, sum, len(items))
		}
	}
}

func TestQueue_PriorityOrder(t *testing.T) {
	svc := newTestService()
	items, _ := svc.Queue(context.Background(), Filters{})
	if items[0].ID != "rx_3" || items[1].ID != "rx_2" {
		t.Errorf("expected stat then urgent first, got %s, %s", items[0].ID, items[1].ID)
	}
}

func TestOrders_MedicationSearch(t *testing.T) {
	svc := newTestService()
	items, _ := svc.Orders(context.Background(), Filters{Search: "atorva"})
	if len(items) != 1 || items[0].ID != "rx_1" {
		t.Errorf("expected rx_1, got %+v", items)
	}
}

func TestTransitions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if r := svc.Dispense(ctx, "rx_1", ActionInput{}); form.StatusCode(r, 200) != 409 {
		t.Errorf("received orders cannot be dispensed, got %+v", r)
	}
	if r := svc.Dispense(ctx, "rx_3", ActionInput{}); r.State != form.StateSuccess {
		t.Errorf("expected dispense of ready order, got %+v", r)
	}
	if r := svc.Cancel(ctx, "rx_4", ActionInput{}); r.State != form.StateFailed {
		t.Errorf("dispensed orders cannot be cancelled, got %+v", r)
	}
	if r := svc.Process(ctx, "rx_missing", ActionInput{}); form.StatusCode(r, 200) != 404 {
		t.Errorf("expected 404, got %+v", r)
	}
}

func TestCreate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	r := svc.Create(ctx, CreateInput{PatientName: "Ann Lee", DoctorName: "Dr. Lisa Park", Medications: []Medication{{Name: "Cetirizine"}}})
	if r.State != form.StateInvalid || r.Field != "medications" {
		t.Fatalf("expected medication dosage required, got %+v", r)
	}
	r = svc.Create(ctx, CreateInput{PatientName: "Ann Lee", DoctorName: "Dr. Lisa Park"})
	if r.State != form.StateInvalid || r.Field != "medications" {
		t.Fatalf("expected medications required, got %+v", r)
	}
	r = svc.Create(ctx, CreateInput{
		PatientName: "Ann Lee", DoctorName: "Dr. Lisa Park",
		Medications: []Medication{{Name: "Cetirizine", Dosage: "10mg", Quantity: 14}},
	})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	o := r.Data.(Order)
	if o.Status != StatusReceived || o.Priority != PriorityRoutine {
		t.Errorf("unexpected defaults %+v", o)
	}
	if got := tabCount(t, svc, "pending"); got != 3 {
		t.Errorf("expected new order in pending, got %d", got)
	}
}

func TestDispenseAndCancelRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		svc := newTestService()
		ctx := context.Background()
		results := make(chan form.Result, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); results <- svc.Dispense(ctx, "rx_3", ActionInput{}) }()
		go func() { defer wg.Done(); results <- svc.Cancel(ctx, "rx_3", ActionInput{}) }()
		wg.Wait()
		close(results)

		succeeded := 0
		for r := range results {
			if r.State == form.StateSuccess {
				succeeded++
			}
		}
		if succeeded != 1 {
			t.Fatalf("run %d: expected exactly one action to win, got %d", i, succeeded)
		}
	}
}
