package appstate

import "time"

// SeedAlerts is the initial alert feed.
var SeedAlerts = []EmergencyAlert{
	{
		ID:          "alert_1",
		Type:        "Cardiac Arrest",
		Priority:    PriorityCritical,
		Status:      AlertActive,
		Location:    Location{Lat: 40.7128, Lng: -74.0060, Address: "123 Main St, New York, NY"},
		Description: "Male, 65, unresponsive, bystander CPR in progress",
		ReportedAt:  time.Date(2024, 1, 15, 8, 42, 0, 0, time.UTC),
	},
	{
		ID:           "alert_2",
		Type:         "Traffic Accident",
		Priority:     PriorityHigh,
		Status:       AlertDispatched,
		Location:     Location{Lat: 40.7306, Lng: -73.9866, Address: "5th Ave & 14th St, New York, NY"},
		Description:  "Two-vehicle collision, two injured",
		ReportedAt:   time.Date(2024, 1, 15, 8, 15, 0, 0, time.UTC),
		AssignedUnit: "amb_2",
	},
	{
		ID:          "alert_3",
		Type:        "Fall",
		Priority:    PriorityMedium,
		Status:      AlertResolved,
		Location:    Location{Lat: 40.7580, Lng: -73.9855, Address: "Times Square, New York, NY"},
		Description: "Elderly female, possible hip fracture",
		ReportedAt:  time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC),
	},
}
