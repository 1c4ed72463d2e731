package appointments

import (
	"time"

	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/workflow"
)

type Type string

const (
	TypeInPerson Type = "in-person"
	TypeVideo    Type = "video"
	TypePhone    Type = "phone"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

// TimeLayout is how appointment times are shown to users.
const TimeLayout = "3:04 PM"

// DateLayout is the calendar day key.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	PatientName  string    `json:"patientName"`
	PatientEmail string    `json:"patientEmail,omitempty"`
	PatientPhone string    `json:"patientPhone,omitempty"`
	DoctorName   string    `json:"doctorName"`
	Department   string    `json:"department,omitempty"`
	Type         Type      `json:"type"`
	Status       Status    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Reason       string    `json:"reason,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

func (a Appointment) GetID() string { return a.ID }

// Day returns the calendar day the appointment starts on.
func (a Appointment) Day() string { return a.Start.Format(DateLayout) }

// TimeRange renders start and end as "10:30 AM - 11:15 AM".
func (a Appointment) TimeRange() string {
	return a.Start.Format(TimeLayout) + " - " + a.End.Format(TimeLayout)
}

// Duration is the scheduled length.
func (a Appointment) Duration() time.Duration { return a.End.Sub(a.Start) }

var validTypes = []string{string(TypeInPerson), string(TypeVideo), string(TypePhone)}

// Buckets are the tabs of the appointment list.
var Buckets = []listing.Bucket[Appointment]{
	{Name: "upcoming", Match: func(a Appointment) bool {
		return listing.OneOf(string(a.Status), string(StatusScheduled), string(StatusConfirmed), string(StatusInProgress))
	}},
	{Name: "completed", Match: func(a Appointment) bool { return a.Status == StatusCompleted }},
	{Name: "cancelled", Match: func(a Appointment) bool {
		return listing.OneOf(string(a.Status), string(StatusCancelled), string(StatusNoShow))
	}},
}

// Transitions is the appointment lifecycle.
var Transitions = workflow.New("appointment", map[string][]string{
	string(StatusScheduled):  {string(StatusConfirmed), string(StatusInProgress), string(StatusCancelled), string(StatusNoShow)},
	string(StatusConfirmed):  {string(StatusInProgress), string(StatusCancelled), string(StatusNoShow)},
	string(StatusInProgress): {string(StatusCompleted)},
})
