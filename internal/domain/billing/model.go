package billing

import (
	"math"
	"time"

	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/workflow"
)

type ClaimStatus string

const (
	StatusDraft       ClaimStatus = "draft"
	StatusSubmitted   ClaimStatus = "submitted"
	StatusUnderReview ClaimStatus = "under-review"
	StatusPending     ClaimStatus = "pending"
	StatusApproved    ClaimStatus = "approved"
	StatusDenied      ClaimStatus = "denied"
	StatusPaid        ClaimStatus = "paid"
)

// ServiceLine is one billed procedure on a claim.
type ServiceLine struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	Amount      float64   `json:"amount"`
}

type InsuranceClaim struct {
	ID                    string        `json:"id"`
	ClaimNumber           string        `json:"claimNumber"`
	PatientID             string        `json:"patientId"`
	PatientName           string        `json:"patientName"`
	ProviderID            string        `json:"providerId"`
	ProviderName          string        `json:"providerName"`
	InsuranceCompany      string        `json:"insuranceCompany"`
	PolicyNumber          string        `json:"policyNumber"`
	TotalAmount           float64       `json:"totalAmount"`
	ApprovedAmount        float64       `json:"approvedAmount"`
	PatientResponsibility float64       `json:"patientResponsibility"`
	Status                ClaimStatus   `json:"status"`
	SubmittedDate         *time.Time    `json:"submittedDate,omitempty"`
	ProcessedDate         *time.Time    `json:"processedDate,omitempty"`
	DenialReason          string        `json:"denialReason,omitempty"`
	Services              []ServiceLine `json:"services"`
}

func (c InsuranceClaim) GetID() string { return c.ID }

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Total sums the line amounts, pricing any line without an amount from its
// quantity and unit price.
func Total(lines []ServiceLine) float64 {
	var sum float64
	for _, l := range priced(lines) {
		sum += l.Amount
	}
	return roundCents(sum)
}

func priced(lines []ServiceLine) []ServiceLine {
	out := make([]ServiceLine, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			l.Quantity = 1
		}
		if l.Amount == 0 {
			l.Amount = roundCents(float64(l.Quantity) * l.UnitPrice)
		}
		out[i] = l
	}
	return out
}

var pendingStatuses = []string{string(StatusDraft), string(StatusSubmitted), string(StatusUnderReview), string(StatusPending)}

// Buckets are the tabs of the claim list.
var Buckets = []listing.Bucket[InsuranceClaim]{
	{Name: "pending", Match: func(c InsuranceClaim) bool { return listing.OneOf(string(c.Status), pendingStatuses...) }},
	{Name: "processed", Match: func(c InsuranceClaim) bool {
		return listing.OneOf(string(c.Status), string(StatusApproved), string(StatusDenied), string(StatusPaid))
	}},
}

// Transitions is the claim lifecycle. Denied claims may be resubmitted.
var Transitions = workflow.New("claim", map[string][]string{
	string(StatusDraft):       {string(StatusSubmitted)},
	string(StatusSubmitted):   {string(StatusUnderReview), string(StatusPending), string(StatusApproved), string(StatusDenied)},
	string(StatusUnderReview): {string(StatusPending), string(StatusApproved), string(StatusDenied)},
	string(StatusPending):     {string(StatusUnderReview), string(StatusApproved), string(StatusDenied)},
	string(StatusApproved):    {string(StatusPaid)},
	string(StatusDenied):      {string(StatusSubmitted)},
})
