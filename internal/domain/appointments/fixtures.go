package appointments

import "time"

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

// Seed returns the fixture appointments, one per day.
func Seed() []Appointment {
	return []Appointment{
		{
			ID: "apt_1", PatientID: "pat_1", PatientName: "John Smith",
			PatientEmail: "john.smith@example.com", PatientPhone: "(555) 123-4567",
			DoctorName: "Dr. Sarah Wilson", Department: "Cardiology",
			Type: TypeInPerson, Status: StatusScheduled,
			Start: at(15, 9, 0), End: at(15, 9, 30),
			Reason: "Annual checkup",
		},
		{
			ID: "apt_2", PatientID: "pat_2", PatientName: "Emily Johnson",
			PatientEmail: "emily.johnson@example.com", PatientPhone: "(555) 234-5678",
			DoctorName: "Dr. Michael Chen", Department: "Dermatology",
			Type: TypeVideo, Status: StatusConfirmed,
			Start: at(16, 10, 30), End: at(16, 11, 15),
			Reason: "Skin rash follow-up", Notes: "Patient will share photos during the call",
		},
		{
			ID: "apt_3", PatientID: "pat_3", PatientName: "Robert Davis",
			PatientEmail: "robert.davis@example.com", PatientPhone: "(555) 345-6789",
			DoctorName: "Dr. Sarah Wilson", Department: "Cardiology",
			Type: TypeInPerson, Status: StatusCompleted,
			Start: at(17, 14, 0), End: at(17, 14, 45),
			Reason: "Chest pain evaluation",
		},
		{
			ID: "apt_4", PatientID: "pat_4", PatientName: "Maria Garcia",
			PatientEmail: "maria.garcia@example.com", PatientPhone: "(555) 456-7890",
			DoctorName: "Dr. Lisa Park", Department: "Pediatrics",
			Type: TypePhone, Status: StatusCancelled,
			Start: at(18, 15, 30), End: at(18, 16, 0),
			Reason: "Vaccination consultation",
		},
	}
}
