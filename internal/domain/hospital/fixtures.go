package hospital

import "time"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func SeedDepartments() []Department {
	return []Department{
		{
			ID: "dept_1", Name: "Cardiology", Code: "CARD", Head: "Dr. Sarah Wilson",
			FacilityID: "fac_1", Floor: 3, Phone: "(555) 100-3000",
			StaffCount: 24, BedCapacity: 40, BedsOccupied: 32, Status: "active",
			Services: []string{"ECG", "Echocardiography", "Cardiac catheterization"},
		},
		{
			ID: "dept_2", Name: "Emergency", Code: "ER", Head: "Dr. James Miller",
			FacilityID: "fac_1", Floor: 1, Phone: "(555) 100-1000",
			StaffCount: 45, BedCapacity: 30, BedsOccupied: 28, Status: "active",
			Services: []string{"Trauma care", "Triage", "Resuscitation"},
		},
		{
			ID: "dept_3", Name: "Pediatrics", Code: "PED", Head: "Dr. Lisa Park",
			FacilityID: "fac_1", Floor: 4, Phone: "(555) 100-4000",
			StaffCount: 18, BedCapacity: 25, BedsOccupied: 12, Status: "active",
			Services: []string{"Well-child visits", "Vaccinations", "Neonatal care"},
		},
		{
			ID: "dept_4", Name: "Dermatology", Code: "DERM", Head: "Dr. Michael Chen",
			FacilityID: "fac_2", Floor: 2, Phone: "(555) 200-2000",
			StaffCount: 8, Status: "active",
			Services: []string{"Skin biopsy", "Mohs surgery"},
		},
		{
			ID: "dept_5", Name: "Radiology", Code: "RAD", Head: "Dr. Helen Brooks",
			FacilityID: "fac_1", Floor: -1, Phone: "(555) 100-0100",
			StaffCount: 15, Status: "inactive",
			Services: []string{"X-ray", "CT", "MRI"},
		},
	}
}

func SeedFacilities() []Facility {
	return []Facility{
		{
			ID: "fac_1", Name: "Main Hospital", Type: "hospital",
			Address: "100 Health Way, New York, NY", Phone: "(555) 100-0000",
			Status: FacilityOperational, Capacity: 350,
			Utilities: []Utility{{Name: "Power", Status: "operational"}, {Name: "Water", Status: "operational"}, {Name: "Medical gas", Status: "operational"}},
			Equipment: []Equipment{{Name: "MRI scanner", Quantity: 2, Status: "operational"}, {Name: "Ventilator", Quantity: 40, Status: "operational"}},
			LastInspection: date(2023, time.November, 12),
		},
		{
			ID: "fac_2", Name: "Outpatient Clinic", Type: "clinic",
			Address: "22 Riverside Dr, New York, NY", Phone: "(555) 200-0000",
			Status: FacilityOperational, Capacity: 60,
			Utilities: []Utility{{Name: "Power", Status: "operational"}, {Name: "HVAC", Status: "degraded"}},
			Equipment: []Equipment{{Name: "Dermatoscope", Quantity: 4, Status: "operational"}},
			LastInspection: date(2023, time.September, 3),
		},
		{
			ID: "fac_3", Name: "Diagnostic Lab", Type: "laboratory",
			Address: "8 Science Park, New York, NY", Phone: "(555) 300-0000",
			Status: FacilityMaintenance, Capacity: 20,
			Utilities: []Utility{{Name: "Power", Status: "maintenance"}},
			Equipment: []Equipment{{Name: "Centrifuge", Quantity: 6, Status: "maintenance"}},
			LastInspection: date(2023, time.June, 20),
		},
		{
			ID: "fac_4", Name: "North Annex", Type: "hospital",
			Address: "400 North Blvd, New York, NY", Phone: "(555) 400-0000",
			Status: FacilityClosed, Capacity: 80,
			Utilities: []Utility{},
			Equipment: []Equipment{},
			LastInspection: date(2022, time.December, 1),
		},
	}
}

func SeedStaff() []StaffMember {
	return []StaffMember{
		{
			ID: "staff_1", EmployeeID: "EMP-1001", FirstName: "Sarah", LastName: "Wilson",
			Email: "sarah.wilson@hms.local", Phone: "(555) 111-1001",
			Role: "doctor", Department: "Cardiology", Specialization: "Interventional cardiology",
			Status: StaffActive, HireDate: date(2015, time.March, 1), Shift: "day",
			Certifications: []Certification{{Name: "Board Certified Cardiologist", Issuer: "ABIM", ExpiresAt: date(2026, time.December, 31)}},
		},
		{
			ID: "staff_2", EmployeeID: "EMP-1002", FirstName: "Michael", LastName: "Chen",
			Email: "michael.chen@hms.local", Phone: "(555) 111-1002",
			Role: "doctor", Department: "Dermatology", Specialization: "Dermatopathology",
			Status: StaffActive, HireDate: date(2018, time.July, 15), Shift: "day",
			Certifications: []Certification{{Name: "Board Certified Dermatologist", Issuer: "ABD", ExpiresAt: date(2027, time.June, 30)}},
		},
		{
			ID: "staff_3", EmployeeID: "EMP-2001", FirstName: "James", LastName: "Carter",
			Email: "james.carter@hms.local", Phone: "(555) 111-2001",
			Role: "nurse", Department: "Emergency",
			Status: StaffActive, HireDate: date(2019, time.January, 7), Shift: "night",
			Certifications: []Certification{{Name: "ACLS", Issuer: "AHA", ExpiresAt: date(2025, time.February, 28)}},
		},
		{
			ID: "staff_4", EmployeeID: "EMP-1003", FirstName: "Lisa", LastName: "Park",
			Email: "lisa.park@hms.local", Phone: "(555) 111-1003",
			Role: "doctor", Department: "Pediatrics", Specialization: "Neonatology",
			Status: StaffOnLeave, HireDate: date(2016, time.September, 12), Shift: "day",
			Certifications: []Certification{},
		},
		{
			ID: "staff_5", EmployeeID: "EMP-3001", FirstName: "Priya", LastName: "Shah",
			Email: "priya.shah@hms.local", Phone: "(555) 111-3001",
			Role: "pharmacist", Department: "Pharmacy",
			Status: StaffActive, HireDate: date(2020, time.May, 4), Shift: "evening",
			Certifications: []Certification{{Name: "PharmD", Issuer: "NABP", ExpiresAt: date(2026, time.May, 31)}},
		},
		{
			ID: "staff_6", EmployeeID: "EMP-2002", FirstName: "Tom", LastName: "Baker",
			Email: "tom.baker@hms.local", Phone: "(555) 111-2002",
			Role: "nurse", Department: "Cardiology",
			Status: StaffInactive, HireDate: date(2012, time.April, 2), Shift: "day",
			Certifications: []Certification{},
		},
	}
}

func SeedInventory() []InventoryItem {
	return []InventoryItem{
		{
			ID: "inv_1", Name: "Surgical Gloves (M)", SKU: "SUP-GLV-M", Category: "supplies",
			Quantity: 1200, ReorderLevel: 300, Unit: "pair", UnitCost: 0.35,
			Supplier: "MedSupply Co", Location: "Central Store A1",
		},
		{
			ID: "inv_2", Name: "Amoxicillin 500mg", SKU: "MED-AMX-500", Category: "medication",
			Quantity: 80, ReorderLevel: 100, Unit: "capsule", UnitCost: 0.42,
			Supplier: "PharmaDirect", Location: "Pharmacy P2", ExpiryDate: datePtr(2025, time.March, 31),
		},
		{
			ID: "inv_3", Name: "Saline 0.9% 1L", SKU: "MED-SAL-1L", Category: "medication",
			Quantity: 0, ReorderLevel: 50, Unit: "bag", UnitCost: 2.10,
			Supplier: "PharmaDirect", Location: "Pharmacy P1", ExpiryDate: datePtr(2025, time.August, 31),
		},
		{
			ID: "inv_4", Name: "Portable ECG Monitor", SKU: "EQP-ECG-01", Category: "equipment",
			Quantity: 6, ReorderLevel: 2, Unit: "unit", UnitCost: 2450,
			Supplier: "CardioTech", Location: "Cardiology Store",
		},
		{
			ID: "inv_5", Name: "N95 Respirator", SKU: "SUP-N95", Category: "supplies",
			Quantity: 150, ReorderLevel: 150, Unit: "mask", UnitCost: 1.25,
			Supplier: "MedSupply Co", Location: "Central Store B3",
		},
	}
}
