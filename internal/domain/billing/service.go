package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

// Filters are the select boxes of the claim list.
type Filters struct {
	Search  string
	Status  string
	Insurer string
}

func (f Filters) predicate() listing.Predicate[InsuranceClaim] {
	return func(c InsuranceClaim) bool {
		return listing.Contains(f.Search, c.ClaimNumber, c.PatientName, c.InsuranceCompany) &&
			listing.Equals(f.Status, string(c.Status)) &&
			listing.Equals(f.Insurer, c.InsuranceCompany)
	}
}

func (f Filters) echo() map[string]string {
	return map[string]string{"search": f.Search, "status": f.Status, "insurer": f.Insurer}
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

func (s *Service) Filter(ctx context.Context, f Filters) ([]InsuranceClaim, error) {
	return s.repo.Filter(ctx, f.predicate())
}

func (s *Service) Detail(ctx context.Context, id string, tr *view.Tracker) (view.Detail[InsuranceClaim], error) {
	return view.Load(ctx, s.loader, tr, id, s.repo.Find)
}

// Summary is the billing dashboard header.
type Summary struct {
	TotalBilled   float64        `json:"totalBilled"`
	TotalApproved float64        `json:"totalApproved"`
	Outstanding   float64        `json:"outstanding"`
	Claims        int            `json:"claims"`
	ByStatus      map[string]int `json:"byStatus"`
}

// Summary totals every claim. Outstanding is the billed amount of claims
// still awaiting a decision.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	claims, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Claims: len(claims), ByStatus: make(map[string]int)}
	for _, c := range claims {
		sum.TotalBilled += c.TotalAmount
		sum.ByStatus[string(c.Status)]++
		switch {
		case c.Status == StatusApproved || c.Status == StatusPaid:
			sum.TotalApproved += c.ApprovedAmount
		case listing.OneOf(string(c.Status), pendingStatuses...):
			sum.Outstanding += c.TotalAmount
		}
	}
	sum.TotalBilled = roundCents(sum.TotalBilled)
	sum.TotalApproved = roundCents(sum.TotalApproved)
	sum.Outstanding = roundCents(sum.Outstanding)
	return sum, nil
}

// Insurers lists the distinct insurance companies for the insurer filter.
func (s *Service) Insurers(ctx context.Context) ([]string, error) {
	claims, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range claims {
		if !seen[c.InsuranceCompany] {
			seen[c.InsuranceCompany] = true
			out = append(out, c.InsuranceCompany)
		}
	}
	return out, nil
}

// CreateInput is the new claim form.
type CreateInput struct {
	PatientID        string        `json:"patientId"`
	PatientName      string        `json:"patientName"`
	ProviderID       string        `json:"providerId"`
	ProviderName     string        `json:"providerName"`
	InsuranceCompany string        `json:"insuranceCompany"`
	PolicyNumber     string        `json:"policyNumber"`
	Services         []ServiceLine `json:"services"`
	Draft            bool          `json:"draft"`
}

func (in CreateInput) validate() error {
	if err := form.Required(
		form.Field{Name: "patientName", Value: in.PatientName},
		form.Field{Name: "insuranceCompany", Value: in.InsuranceCompany},
	); err != nil {
		return err
	}
	if len(in.Services) == 0 {
		return form.Invalid("services", "at least one service is required")
	}
	for i, l := range in.Services {
		if strings.TrimSpace(l.Code) == "" {
			return form.Invalid("services", "service %d: code is required", i+1)
		}
		if l.Quantity < 0 || l.UnitPrice < 0 || l.Amount < 0 {
			return form.Invalid("services", "service %d: amounts must not be negative", i+1)
		}
	}
	return nil
}

// Create files a claim, computing its total from the service lines. Claims
// are submitted immediately unless saved as a draft.
func (s *Service) Create(ctx context.Context, in CreateInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "claim.create",
		Success:  "Claim created successfully",
		Redirect: "/billing",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			lines := priced(in.Services)
			now := s.clock.Now()
			c := InsuranceClaim{
				ID:               "claim_" + uuid.NewString()[:8],
				ClaimNumber:      fmt.Sprintf("CLM-%d-%s", now.Year(), strings.ToUpper(uuid.NewString()[:6])),
				PatientID:        in.PatientID,
				PatientName:      strings.TrimSpace(in.PatientName),
				ProviderID:       in.ProviderID,
				ProviderName:     in.ProviderName,
				InsuranceCompany: strings.TrimSpace(in.InsuranceCompany),
				PolicyNumber:     in.PolicyNumber,
				TotalAmount:      Total(lines),
				Status:           StatusSubmitted,
				SubmittedDate:    &now,
				Services:         lines,
			}
			if in.Draft {
				c.Status = StatusDraft
				c.SubmittedDate = nil
			}
			if err := s.repo.Save(ctx, c); err != nil {
				return nil, err
			}
			s.logger.Info().Str("claim_id", c.ID).Float64("total", c.TotalAmount).Msg("claim created")
			return c, nil
		},
	})
}

func (s *Service) transition(ctx context.Context, id string, to ClaimStatus, a form.Action, apply func(*InsuranceClaim, time.Time)) form.Result {
	a.Redirect = "/billing/claims/" + id
	a.Commit = func(ctx context.Context) (interface{}, error) {
		c, err := s.repo.Update(ctx, id, func(c *InsuranceClaim) error {
			if err := Transitions.Check(string(c.Status), string(to)); err != nil {
				return err
			}
			c.Status = to
			apply(c, s.clock.Now())
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("claim_id", id).Str("status", string(to)).Msg("claim status changed")
		return c, nil
	}
	return s.submit.Submit(ctx, a)
}

// ApproveInput optionally overrides the approved amount. Zero approves the
// full total.
type ApproveInput struct {
	ApprovedAmount float64 `json:"approvedAmount"`
}

func (s *Service) Approve(ctx context.Context, id string, in ApproveInput) form.Result {
	return s.transition(ctx, id, StatusApproved, form.Action{
		Name:    "claim.approve",
		Success: "Claim approved",
		Validate: func() error {
			if in.ApprovedAmount < 0 {
				return form.Invalid("approvedAmount", "approved amount must not be negative")
			}
			return nil
		},
	}, func(c *InsuranceClaim, now time.Time) {
		total := c.TotalAmount
		approved := in.ApprovedAmount
		if approved == 0 || approved > total {
			approved = total
		}
		c.ApprovedAmount = roundCents(approved)
		c.PatientResponsibility = roundCents(total - approved)
		c.DenialReason = ""
		c.ProcessedDate = &now
	})
}

// DenyInput carries the denial reason shown to the patient.
type DenyInput struct {
	Reason string `json:"reason"`
}

func (s *Service) Deny(ctx context.Context, id string, in DenyInput) form.Result {
	return s.transition(ctx, id, StatusDenied, form.Action{
		Name:     "claim.deny",
		Success:  "Claim denied",
		Validate: func() error { return form.Required(form.Field{Name: "reason", Value: in.Reason}) },
	}, func(c *InsuranceClaim, now time.Time) {
		c.DenialReason = strings.TrimSpace(in.Reason)
		c.ApprovedAmount = 0
		c.PatientResponsibility = c.TotalAmount
		c.ProcessedDate = &now
	})
}

// Resubmit sends a denied or draft claim back to the insurer.
func (s *Service) Resubmit(ctx context.Context, id string) form.Result {
	return s.transition(ctx, id, StatusSubmitted, form.Action{
		Name:    "claim.resubmit",
		Success: "Claim resubmitted",
	}, func(c *InsuranceClaim, now time.Time) {
		c.DenialReason = ""
		c.ApprovedAmount = 0
		c.PatientResponsibility = 0
		c.ProcessedDate = nil
		c.SubmittedDate = &now
	})
}

// Claims returns every claim for reporting.
func (s *Service) Claims(ctx context.Context) ([]InsuranceClaim, error) {
	return s.repo.List(ctx)
}
