package billing

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

var now = time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)

func newTestService() *Service {
	c := &clock.Fixed{At: now}
	return NewService(NewMemoryRepository(), form.NewSubmitter(c, 0, zerolog.Nop()), view.NewLoader(c, 0), c, zerolog.Nop())
}

func TestTotal_PricesLines(t *testing.T) {
	lines := []ServiceLine{
		{Code: "A", Quantity: 2, UnitPrice: 12.5},
		{Code: "B", Amount: 100},
		{Code: "C", UnitPrice: 0.333},
	}
	if got := Total(lines); got != 125.33 {
		t.Errorf("expected 125.33, got %v", got)
	}
}

func TestFilter_TabsPartition(t *testing.T) {
	svc := newTestService()
	items, err := svc.Filter(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tabs := listing.Partition(items, Buckets)
	if tabs[0].Count != 2 || tabs[1].Count != 3 {
		t.Errorf("expected 2 pending / 3 processed, got %+v", tabs)
	}

	items, _ = svc.Filter(context.Background(), Filters{Insurer: "aetna"})
	if len(items) != 2 {
		t.Errorf("expected 2 Aetna claims, got %d", len(items))
	}
	items, _ = svc.Filter(context.Background(), Filters{Search: "clm-2024-003"})
	if len(items) != 1 || items[0].PatientName != "Robert Davis" {
		t.Errorf("expected claim number search to find Robert Davis, got %+v", items)
	}
}

func TestSummary(t *testing.T) {
	svc := newTestService()
	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Claims != 5 {
		t.Errorf("expected 5 claims, got %d", sum.Claims)
	}
	if sum.TotalBilled != 2425 {
		t.Errorf("expected 2425 billed, got %v", sum.TotalBilled)
	}
	if sum.TotalApproved != 540 {
		t.Errorf("expected 540 approved, got %v", sum.TotalApproved)
	}
	if sum.Outstanding != 630 {
		t.Errorf("expected 630 outstanding, got %v", sum.Outstanding)
	}
	if sum.ByStatus["denied"] != 1 {
		t.Errorf("expected 1 denied, got %d", sum.ByStatus["denied"])
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	r := svc.Create(ctx, CreateInput{PatientName: "Ann Lee", InsuranceCompany: "Cigna"})
	if r.State != form.StateInvalid || r.Field != "services" {
		t.Errorf("expected services required, got %+v", r)
	}
	r = svc.Create(ctx, CreateInput{InsuranceCompany: "Cigna", Services: []ServiceLine{{Code: "1"}}})
	if r.State != form.StateInvalid || r.Field != "patientName" {
		t.Errorf("expected patientName required, got %+v", r)
	}
}

func TestCreate_ComputesTotal(t *testing.T) {
	svc := newTestService()
	r := svc.Create(context.Background(), CreateInput{
		PatientName:      "Ann Lee",
		InsuranceCompany: "Cigna",
		Services: []ServiceLine{
			{Code: "99213", Quantity: 1, UnitPrice: 150},
			{Code: "36415", Quantity: 3, UnitPrice: 10},
		},
	})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	c := r.Data.(InsuranceClaim)
	if c.TotalAmount != 180 {
		t.Errorf("expected 180, got %v", c.TotalAmount)
	}
	if c.Status != StatusSubmitted || c.SubmittedDate == nil || !c.SubmittedDate.Equal(now) {
		t.Errorf("unexpected submission state %+v", c)
	}
	if c.Services[1].Amount != 30 {
		t.Errorf("expected line amount 30, got %v", c.Services[1].Amount)
	}
}

func TestApprove_PartialAmount(t *testing.T) {
	svc := newTestService()
	r := svc.Approve(context.Background(), "claim_1", ApproveInput{ApprovedAmount: 400})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	c := r.Data.(InsuranceClaim)
	if c.ApprovedAmount != 400 || c.PatientResponsibility != 50 {
		t.Errorf("unexpected amounts %v / %v", c.ApprovedAmount, c.PatientResponsibility)
	}
	if c.ProcessedDate == nil {
		t.Error("expected processed date")
	}
}

func TestApprove_FromPaidConflicts(t *testing.T) {
	svc := newTestService()
	r := svc.Approve(context.Background(), "claim_5", ApproveInput{})
	if form.StatusCode(r, 200) != 409 {
		t.Errorf("expected 409, got %+v", r)
	}
}

func TestDenyRequiresReason(t *testing.T) {
	svc := newTestService()
	r := svc.Deny(context.Background(), "claim_4", DenyInput{})
	if r.State != form.StateInvalid {
		t.Fatalf("expected invalid, got %+v", r)
	}
	r = svc.Deny(context.Background(), "claim_4", DenyInput{Reason: "Not covered"})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	if c := r.Data.(InsuranceClaim); c.DenialReason != "Not covered" || c.PatientResponsibility != 180 {
		t.Errorf("unexpected denial %+v", c)
	}
}

func TestResubmitDenied(t *testing.T) {
	svc := newTestService()
	r := svc.Resubmit(context.Background(), "claim_3")
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %+v", r)
	}
	c := r.Data.(InsuranceClaim)
	if c.Status != StatusSubmitted || c.DenialReason != "" || c.ProcessedDate != nil {
		t.Errorf("unexpected resubmitted claim %+v", c)
	}
	if r := svc.Resubmit(context.Background(), "claim_2"); r.State != form.StateFailed {
		t.Errorf("approved claims cannot be resubmitted, got %+v", r)
	}
}
