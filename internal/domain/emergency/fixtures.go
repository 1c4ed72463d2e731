package emergency

import (
	"time"

	"github.com/hms/hms/internal/platform/appstate"
)

var seededAt = time.Date(2024, time.January, 15, 8, 45, 0, 0, time.UTC)

// Seed returns the fixture fleet.
func Seed() []Ambulance {
	return []Ambulance{
		{
			ID: "amb_1", CallSign: "Medic 1", Status: StatusAvailable,
			Location: appstate.Location{Lat: 40.7580, Lng: -73.9855, Address: "Station 1, Times Square, New York, NY"},
			Crew: []CrewMember{
				{Name: "Mike Rodriguez", Role: "Paramedic", Certification: "NRP"},
				{Name: "Lisa Chang", Role: "EMT", Certification: "EMT-B"},
			},
			Equipment:   []string{"Defibrillator", "Oxygen", "Stretcher", "Trauma kit"},
			LastUpdated: seededAt,
		},
		{
			ID: "amb_2", CallSign: "Medic 2", Status: StatusEnRoute,
			Location: appstate.Location{Lat: 40.7410, Lng: -73.9897, Address: "Broadway & 23rd St, New York, NY"},
			Crew: []CrewMember{
				{Name: "David Kim", Role: "Paramedic", Certification: "NRP"},
				{Name: "Anna Petrov", Role: "EMT", Certification: "EMT-A"},
			},
			Equipment: []string{"Defibrillator", "Oxygen", "Stretcher", "Ventilator"},
			CurrentCall: &Call{
				AlertID: "alert_2", Address: "5th Ave & 14th St, New York, NY",
				Priority: appstate.PriorityHigh, DispatchedAt: time.Date(2024, time.January, 15, 8, 17, 0, 0, time.UTC),
				ETAMinutes: 4,
			},
			LastUpdated: seededAt,
		},
		{
			ID: "amb_3", CallSign: "Medic 3", Status: StatusReturning,
			Location: appstate.Location{Lat: 40.7061, Lng: -74.0087, Address: "Wall St, New York, NY"},
			Crew: []CrewMember{
				{Name: "Carlos Mendez", Role: "EMT", Certification: "EMT-B"},
				{Name: "Rachel Green", Role: "Paramedic", Certification: "NRP"},
			},
			Equipment:   []string{"Defibrillator", "Oxygen", "Stretcher"},
			LastUpdated: seededAt,
		},
		{
			ID: "amb_4", CallSign: "Medic 4", Status: StatusMaintenance,
			Location: appstate.Location{Lat: 40.7831, Lng: -73.9712, Address: "Fleet Garage, Upper West Side, New York, NY"},
			Crew:        []CrewMember{},
			Equipment:   []string{"Oxygen", "Stretcher"},
			LastUpdated: seededAt,
		},
	}
}
