package emergency

import (
	"math"
	"time"

	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/workflow"
)

type AmbulanceStatus string

const (
	StatusAvailable    AmbulanceStatus = "available"
	StatusDispatched   AmbulanceStatus = "dispatched"
	StatusEnRoute      AmbulanceStatus = "en-route"
	StatusOnScene      AmbulanceStatus = "on-scene"
	StatusTransporting AmbulanceStatus = "transporting"
	StatusReturning    AmbulanceStatus = "returning"
	StatusMaintenance  AmbulanceStatus = "maintenance"
)

// clearsCall reports whether a unit entering s drops its current call.
func (s AmbulanceStatus) clearsCall() bool {
	return s == StatusAvailable || s == StatusMaintenance
}

var ambulanceStatuses = []string{
	string(StatusAvailable), string(StatusDispatched), string(StatusEnRoute), string(StatusOnScene),
	string(StatusTransporting), string(StatusReturning), string(StatusMaintenance),
}

var activeStatuses = []string{
	string(StatusDispatched), string(StatusEnRoute), string(StatusOnScene),
	string(StatusTransporting), string(StatusReturning),
}

type CrewMember struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Certification string `json:"certification"`
}

// Call is the incident an ambulance is currently serving.
type Call struct {
	AlertID      string            `json:"alertId"`
	Address      string            `json:"address"`
	Priority     appstate.Priority `json:"priority"`
	DispatchedAt time.Time         `json:"dispatchedAt"`
	ETAMinutes   int               `json:"etaMinutes"`
}

type Ambulance struct {
	ID          string            `json:"id"`
	CallSign    string            `json:"callSign"`
	Status      AmbulanceStatus   `json:"status"`
	Location    appstate.Location `json:"location"`
	Crew        []CrewMember      `json:"crew"`
	Equipment   []string          `json:"equipment"`
	CurrentCall *Call             `json:"currentCall,omitempty"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

func (a Ambulance) GetID() string { return a.ID }

func (a Ambulance) crewNames() []string {
	out := make([]string, len(a.Crew))
	for i, c := range a.Crew {
		out[i] = c.Name
	}
	return out
}

// AmbulanceBuckets are the tabs of the fleet list.
var AmbulanceBuckets = []listing.Bucket[Ambulance]{
	{Name: "available", Match: func(a Ambulance) bool { return a.Status == StatusAvailable }},
	{Name: "active", Match: func(a Ambulance) bool { return listing.OneOf(string(a.Status), activeStatuses...) }},
	{Name: "out-of-service", Match: func(a Ambulance) bool { return a.Status == StatusMaintenance }},
}

// AlertBuckets are the tabs of the alert feed.
var AlertBuckets = []listing.Bucket[appstate.EmergencyAlert]{
	{Name: "active", Match: func(a appstate.EmergencyAlert) bool { return a.Status == appstate.AlertActive }},
	{Name: "dispatched", Match: func(a appstate.EmergencyAlert) bool { return a.Status == appstate.AlertDispatched }},
	{Name: "resolved", Match: func(a appstate.EmergencyAlert) bool { return a.Status == appstate.AlertResolved }},
}

// AmbulanceTransitions is the unit lifecycle. Only an available unit can be
// dispatched.
var AmbulanceTransitions = workflow.New("ambulance", map[string][]string{
	string(StatusAvailable):    {string(StatusDispatched), string(StatusMaintenance)},
	string(StatusDispatched):   {string(StatusEnRoute), string(StatusOnScene), string(StatusReturning), string(StatusAvailable)},
	string(StatusEnRoute):      {string(StatusOnScene), string(StatusReturning)},
	string(StatusOnScene):      {string(StatusTransporting), string(StatusReturning)},
	string(StatusTransporting): {string(StatusReturning)},
	string(StatusReturning):    {string(StatusAvailable), string(StatusMaintenance)},
	string(StatusMaintenance):  {string(StatusAvailable)},
})

// AlertTransitions is the alert lifecycle.
var AlertTransitions = workflow.New("alert", map[string][]string{
	string(appstate.AlertActive):     {string(appstate.AlertDispatched), string(appstate.AlertResolved)},
	string(appstate.AlertDispatched): {string(appstate.AlertResolved)},
})

const (
	earthRadiusKm = 6371.0
	// average urban response speed
	kmPerMinute = 0.75
)

func distanceKm(a, b appstate.Location) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ETAMinutes estimates the drive time between two points, at least one
// minute.
func ETAMinutes(from, to appstate.Location) int {
	m := int(math.Ceil(distanceKm(from, to) / kmPerMinute))
	if m < 1 {
		return 1
	}
	return m
}
