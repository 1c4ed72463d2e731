package prescriptions

import (
	"time"

	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/workflow"
)

type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusDispensed  Status = "dispensed"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
	PriorityStat    Priority = "stat"
)

var priorities = []string{string(PriorityRoutine), string(PriorityUrgent), string(PriorityStat)}

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type Order struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	PatientID   string       `json:"patientId"`
	PatientName string       `json:"patientName"`
	DoctorName  string       `json:"doctorName"`
	Medications []Medication `json:"medications"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	ReceivedAt  time.Time    `json:"receivedAt"`
	Notes       string       `json:"notes,omitempty"`
	Pharmacist  string       `json:"pharmacist,omitempty"`
}

func (o Order) GetID() string { return o.ID }

func (o Order) medicationNames() []string {
	out := make([]string, len(o.Medications))
	for i, m := range o.Medications {
		out[i] = m.Name
	}
	return out
}

// QueueBuckets are the pharmacy queue tabs. Pending holds both received and
// processing orders, so starting work on an order does not move it between
// tabs.
var QueueBuckets = []listing.Bucket[Order]{
	{Name: "pending", Match: func(o Order) bool {
		return listing.OneOf(string(o.Status), string(StatusReceived), string(StatusProcessing))
	}},
	{Name: "ready", Match: func(o Order) bool { return o.Status == StatusReady }},
	{Name: "completed", Match: func(o Order) bool {
		return listing.OneOf(string(o.Status), string(StatusDispensed), string(StatusCancelled))
	}},
}

// Transitions is the order lifecycle.
var Transitions = workflow.New("prescription", map[string][]string{
	string(StatusReceived):   {string(StatusProcessing), string(StatusCancelled)},
	string(StatusProcessing): {string(StatusReady), string(StatusCancelled)},
	string(StatusReady):      {string(StatusDispensed), string(StatusCancelled)},
})

// priorityRank orders the queue: stat first, then urgent, then routine.
func priorityRank(p Priority) int {
	switch p {
	case PriorityStat:
		return 0
	case PriorityUrgent:
		return 1
	}
	return 2
}
