package billing

import "time"

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(m time.Month, d int) *time.Time {
	t := day(m, d)
	return &t
}

// Seed returns the fixture claims.
func Seed() []InsuranceClaim {
	return []InsuranceClaim{
		{
			ID: "claim_1", ClaimNumber: "CLM-2024-001",
			PatientID: "pat_1", PatientName: "John Smith",
			ProviderID: "prov_1", ProviderName: "Dr. Sarah Wilson",
			InsuranceCompany: "Blue Cross Blue Shield", PolicyNumber: "BCBS-123456789",
			TotalAmount: 450, Status: StatusSubmitted,
			SubmittedDate: dayPtr(time.January, 15),
			Services: []ServiceLine{
				{Code: "99213", Description: "Office visit, established patient", Date: day(time.January, 15), Quantity: 1, UnitPrice: 150, Amount: 150},
				{Code: "93000", Description: "Electrocardiogram", Date: day(time.January, 15), Quantity: 1, UnitPrice: 300, Amount: 300},
			},
		},
		{
			ID: "claim_2", ClaimNumber: "CLM-2024-002",
			PatientID: "pat_2", PatientName: "Emily Johnson",
			ProviderID: "prov_2", ProviderName: "Dr. Michael Chen",
			InsuranceCompany: "Aetna", PolicyNumber: "AET-987654321",
			TotalAmount: 275, ApprovedAmount: 220, PatientResponsibility: 55,
			Status:        StatusApproved,
			SubmittedDate: dayPtr(time.January, 10), ProcessedDate: dayPtr(time.January, 18),
			Services: []ServiceLine{
				{Code: "99214", Description: "Office visit, moderate complexity", Date: day(time.January, 10), Quantity: 1, UnitPrice: 200, Amount: 200},
				{Code: "11102", Description: "Skin biopsy", Date: day(time.January, 10), Quantity: 1, UnitPrice: 75, Amount: 75},
			},
		},
		{
			ID: "claim_3", ClaimNumber: "CLM-2024-003",
			PatientID: "pat_3", PatientName: "Robert Davis",
			ProviderID: "prov_1", ProviderName: "Dr. Sarah Wilson",
			InsuranceCompany: "UnitedHealthcare", PolicyNumber: "UHC-456789123",
			TotalAmount: 1200, Status: StatusDenied,
			SubmittedDate: dayPtr(time.January, 5), ProcessedDate: dayPtr(time.January, 12),
			DenialReason: "Prior authorization required",
			Services: []ServiceLine{
				{Code: "78452", Description: "Cardiac stress imaging", Date: day(time.January, 5), Quantity: 1, UnitPrice: 1200, Amount: 1200},
			},
		},
		{
			ID: "claim_4", ClaimNumber: "CLM-2024-004",
			PatientID: "pat_4", PatientName: "Maria Garcia",
			ProviderID: "prov_3", ProviderName: "Dr. Lisa Park",
			InsuranceCompany: "Cigna", PolicyNumber: "CIG-321654987",
			TotalAmount: 180, Status: StatusUnderReview,
			SubmittedDate: dayPtr(time.January, 19),
			Services: []ServiceLine{
				{Code: "90471", Description: "Immunization administration", Date: day(time.January, 19), Quantity: 2, UnitPrice: 90, Amount: 180},
			},
		},
		{
			ID: "claim_5", ClaimNumber: "CLM-2024-005",
			PatientID: "pat_5", PatientName: "David Thompson",
			ProviderID: "prov_2", ProviderName: "Dr. Michael Chen",
			InsuranceCompany: "Aetna", PolicyNumber: "AET-555444333",
			TotalAmount: 320, ApprovedAmount: 320,
			Status:        StatusPaid,
			SubmittedDate: dayPtr(time.January, 2), ProcessedDate: dayPtr(time.January, 9),
			Services: []ServiceLine{
				{Code: "99203", Description: "Office visit, new patient", Date: day(time.January, 2), Quantity: 1, UnitPrice: 320, Amount: 320},
			},
		},
	}
}
