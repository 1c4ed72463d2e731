package reports

import (
	"context"

	"github.com/hms/hms/internal/domain/appointments"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/emergency"
	"github.com/hms/hms/internal/domain/hospital"
	"github.com/hms/hms/internal/domain/prescriptions"
	"github.com/hms/hms/internal/platform/appstate"
	"github.com/hms/hms/internal/platform/reporting"
)

// Sources are the stores measures are computed over.
type Sources struct {
	Appointments  appointments.Repository
	Claims        billing.Repository
	Prescriptions prescriptions.Repository
	Staff         hospital.StaffRepository
	Inventory     hospital.InventoryRepository
	Fleet         emergency.Repository
	Alerts        *appstate.Store
}

func measure[T any](def reporting.MeasureDefinition, list func(context.Context) ([]T, error), key func(T) string) reporting.Measure {
	return reporting.Measure{
		MeasureDefinition: def,
		Compute: func(ctx context.Context) ([]reporting.Row, error) {
			items, err := list(ctx)
			if err != nil {
				return nil, err
			}
			return reporting.CountBy(items, key), nil
		},
	}
}

// Measures builds the predefined measures over src.
func Measures(src Sources) []reporting.Measure {
	return []reporting.Measure{
		measure(reporting.MeasureDefinition{
			ID:          "appointment-volume-by-status",
			Name:        "Appointment Volume by Status",
			Description: "Number of appointments in each lifecycle status",
			GroupBy:     "status",
		}, src.Appointments.List, func(a appointments.Appointment) string { return string(a.Status) }),
		measure(reporting.MeasureDefinition{
			ID:          "appointment-volume-by-type",
			Name:        "Appointment Volume by Type",
			Description: "Number of appointments held in person, over video and by phone",
			GroupBy:     "type",
		}, src.Appointments.List, func(a appointments.Appointment) string { return string(a.Type) }),
		{
			MeasureDefinition: reporting.MeasureDefinition{
				ID:          "claim-totals-by-status",
				Name:        "Claim Totals by Status",
				Description: "Count and billed amount of insurance claims by status",
				GroupBy:     "status",
			},
			Compute: func(ctx context.Context) ([]reporting.Row, error) {
				claims, err := src.Claims.List(ctx)
				if err != nil {
					return nil, err
				}
				return reporting.SumBy(claims,
					func(c billing.InsuranceClaim) string { return string(c.Status) },
					func(c billing.InsuranceClaim) float64 { return c.TotalAmount }), nil
			},
		},
		measure(reporting.MeasureDefinition{
			ID:          "prescription-queue-by-status",
			Name:        "Prescription Queue by Status",
			Description: "Pharmacy orders in each queue status",
			GroupBy:     "status",
		}, src.Prescriptions.List, func(o prescriptions.Order) string { return string(o.Status) }),
		measure(reporting.MeasureDefinition{
			ID:          "inventory-stock-status",
			Name:        "Inventory Stock Status",
			Description: "Inventory items that are in stock, low or out of stock",
			GroupBy:     "stockStatus",
		}, src.Inventory.List, func(i hospital.InventoryItem) string { return string(i.StockStatus()) }),
		measure(reporting.MeasureDefinition{
			ID:          "staff-by-department",
			Name:        "Staff by Department",
			Description: "Headcount of staff records per department",
			GroupBy:     "department",
		}, src.Staff.List, func(s hospital.StaffMember) string { return s.Department }),
		measure(reporting.MeasureDefinition{
			ID:          "alerts-by-priority",
			Name:        "Emergency Alerts by Priority",
			Description: "Emergency alerts grouped by priority",
			GroupBy:     "priority",
		}, src.Alerts.Alerts, func(a appstate.EmergencyAlert) string { return string(a.Priority) }),
	}
}
