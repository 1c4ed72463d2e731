package prescriptions

import "time"

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

// Seed returns the fixture orders.
func Seed() []Order {
	return []Order{
		{
			ID: "rx_1", OrderNumber: "RX-2024-001", PatientID: "pat_1", PatientName: "John Smith",
			DoctorName: "Dr. Sarah Wilson",
			Medications: []Medication{
				{Name: "Lisinopril", Dosage: "10mg", Frequency: "Once daily", Duration: "30 days", Quantity: 30},
				{Name: "Atorvastatin", Dosage: "20mg", Frequency: "Once daily at bedtime", Duration: "30 days", Quantity: 30},
			},
			Status: StatusReceived, Priority: PriorityRoutine, ReceivedAt: at(15, 9, 45),
		},
		{
			ID: "rx_2", OrderNumber: "RX-2024-002", PatientID: "pat_2", PatientName: "Emily Johnson",
			DoctorName: "Dr. Michael Chen",
			Medications: []Medication{
				{Name: "Hydrocortisone cream", Dosage: "1%", Frequency: "Twice daily", Duration: "14 days", Quantity: 1, Instructions: "Apply a thin layer to affected area"},
			},
			Status: StatusProcessing, Priority: PriorityUrgent, ReceivedAt: at(16, 11, 30), Pharmacist: "Priya Shah",
		},
		{
			ID: "rx_3", OrderNumber: "RX-2024-003", PatientID: "pat_3", PatientName: "Robert Davis",
			DoctorName: "Dr. Sarah Wilson",
			Medications: []Medication{
				{Name: "Nitroglycerin", Dosage: "0.4mg", Frequency: "As needed", Duration: "30 days", Quantity: 25, Instructions: "Dissolve under tongue at onset of chest pain"},
			},
			Status: StatusReady, Priority: PriorityStat, ReceivedAt: at(17, 15, 0), Pharmacist: "Priya Shah",
		},
		{
			ID: "rx_4", OrderNumber: "RX-2024-004", PatientID: "pat_4", PatientName: "Maria Garcia",
			DoctorName: "Dr. Lisa Park",
			Medications: []Medication{
				{Name: "Amoxicillin", Dosage: "250mg", Frequency: "Three times daily", Duration: "10 days", Quantity: 30},
			},
			Status: StatusDispensed, Priority: PriorityRoutine, ReceivedAt: at(12, 10, 0), Pharmacist: "Priya Shah",
		},
		{
			ID: "rx_5", OrderNumber: "RX-2024-005", PatientID: "pat_5", PatientName: "David Thompson",
			DoctorName: "Dr. Michael Chen",
			Medications: []Medication{
				{Name: "Ibuprofen", Dosage: "400mg", Frequency: "Every 6 hours", Duration: "5 days", Quantity: 20},
			},
			Status: StatusCancelled, Priority: PriorityRoutine, ReceivedAt: at(11, 14, 20),
			Notes: "Duplicate order",
		},
	}
}
