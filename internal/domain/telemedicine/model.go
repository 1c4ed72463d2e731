package telemedicine

import (
	"time"

	"github.com/hms/hms/internal/platform/workflow"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// Control names a call toggle.
type Control string

const (
	ControlVideo  Control = "video"
	ControlAudio  Control = "audio"
	ControlScreen Control = "screen"
)

// EventMessage is published for every chat message.
const EventMessage = "telemedicine.message"

// Topic is the hub topic carrying a session's chat.
func Topic(appointmentID string) string { return "telemedicine." + appointmentID }

type Message struct {
	ID     string    `json:"id"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Session is the video call attached to an appointment. Toggles only record
// what the participant chose; no media flows through the server.
type Session struct {
	AppointmentID   string     `json:"appointmentId"`
	PatientName     string     `json:"patientName"`
	DoctorName      string     `json:"doctorName"`
	Status          Status     `json:"status"`
	IsVideoEnabled  bool       `json:"isVideoEnabled"`
	IsAudioEnabled  bool       `json:"isAudioEnabled"`
	IsScreenSharing bool       `json:"isScreenSharing"`
	Messages        []Message  `json:"messages"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
}

func (s Session) GetID() string { return s.AppointmentID }

// Transitions is the call lifecycle. Ended calls cannot be rejoined.
var Transitions = workflow.New("session", map[string][]string{
	string(StatusWaiting): {string(StatusActive), string(StatusEnded)},
	string(StatusActive):  {string(StatusEnded)},
})
