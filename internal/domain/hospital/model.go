package hospital

import (
	"math"
	"time"

	"github.com/hms/hms/internal/platform/listing"
)

// -- Departments --

type Department struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Head         string   `json:"head"`
	FacilityID   string   `json:"facilityId"`
	Floor        int      `json:"floor"`
	Phone        string   `json:"phone"`
	StaffCount   int      `json:"staffCount"`
	BedCapacity  int      `json:"bedCapacity"`
	BedsOccupied int      `json:"bedsOccupied"`
	Status       string   `json:"status"`
	Services     []string `json:"services"`
}

func (d Department) GetID() string { return d.ID }

// OccupancyRate is the percentage of beds in use, rounded to one decimal.
// Departments without beds report zero.
func (d Department) OccupancyRate() float64 {
	if d.BedCapacity <= 0 {
		return 0
	}
	return math.Round(float64(d.BedsOccupied)/float64(d.BedCapacity)*1000) / 10
}

// DepartmentView adds the derived occupancy rate to a department.
type DepartmentView struct {
	Department
	OccupancyRate float64 `json:"occupancyRate"`
}

func departmentView(d Department) DepartmentView {
	return DepartmentView{Department: d, OccupancyRate: d.OccupancyRate()}
}

// -- Facilities --

type FacilityStatus string

const (
	FacilityOperational FacilityStatus = "operational"
	FacilityMaintenance FacilityStatus = "maintenance"
	FacilityClosed      FacilityStatus = "closed"
)

var facilityStatuses = []string{string(FacilityOperational), string(FacilityMaintenance), string(FacilityClosed)}

type Utility struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Equipment struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

type Facility struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Address        string         `json:"address"`
	Phone          string         `json:"phone"`
	Status         FacilityStatus `json:"status"`
	Capacity       int            `json:"capacity"`
	Utilities      []Utility      `json:"utilities"`
	Equipment      []Equipment    `json:"equipment"`
	LastInspection time.Time      `json:"lastInspection"`
}

func (f Facility) GetID() string { return f.ID }

var FacilityBuckets = []listing.Bucket[Facility]{
	{Name: string(FacilityOperational), Match: func(f Facility) bool { return f.Status == FacilityOperational }},
	{Name: string(FacilityMaintenance), Match: func(f Facility) bool { return f.Status == FacilityMaintenance }},
	{Name: string(FacilityClosed), Match: func(f Facility) bool { return f.Status == FacilityClosed }},
}

// -- Staff --

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffOnLeave  StaffStatus = "on-leave"
	StaffInactive StaffStatus = "inactive"
)

var staffStatuses = []string{string(StaffActive), string(StaffOnLeave), string(StaffInactive)}

type Certification struct {
	Name      string    `json:"name"`
	Issuer    string    `json:"issuer"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StaffMember struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Role           string          `json:"role"`
	Department     string          `json:"department"`
	Specialization string          `json:"specialization,omitempty"`
	Status         StaffStatus     `json:"status"`
	HireDate       time.Time       `json:"hireDate"`
	Shift          string          `json:"shift"`
	Certifications []Certification `json:"certifications"`
}

func (s StaffMember) GetID() string { return s.ID }

func (s StaffMember) FullName() string { return s.FirstName + " " + s.LastName }

var StaffBuckets = []listing.Bucket[StaffMember]{
	{Name: string(StaffActive), Match: func(s StaffMember) bool { return s.Status == StaffActive }},
	{Name: string(StaffOnLeave), Match: func(s StaffMember) bool { return s.Status == StaffOnLeave }},
	{Name: string(StaffInactive), Match: func(s StaffMember) bool { return s.Status == StaffInactive }},
}

// -- Inventory --

type StockStatus string

const (
	InStock    StockStatus = "in-stock"
	LowStock   StockStatus = "low-stock"
	OutOfStock StockStatus = "out-of-stock"
)

type InventoryItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	ReorderLevel int        `json:"reorderLevel"`
	Unit         string     `json:"unit"`
	UnitCost     float64    `json:"unitCost"`
	Supplier     string     `json:"supplier"`
	Location     string     `json:"location"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

func (i InventoryItem) GetID() string { return i.ID }

// StockStatus derives availability from quantity and reorder level.
func (i InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Quantity <= 0:
		return OutOfStock
	case i.Quantity <= i.ReorderLevel:
		return LowStock
	}
	return InStock
}

// InventoryView adds derived fields to an item.
type InventoryView struct {
	InventoryItem
	StockStatus StockStatus `json:"stockStatus"`
	TotalValue  float64     `json:"totalValue"`
}

func inventoryView(i InventoryItem) InventoryView {
	return InventoryView{
		InventoryItem: i,
		StockStatus:   i.StockStatus(),
		TotalValue:    math.Round(float64(i.Quantity)*i.UnitCost*100) / 100,
	}
}

var InventoryBuckets = []listing.Bucket[InventoryView]{
	{Name: string(InStock), Match: func(v InventoryView) bool { return v.StockStatus == InStock }},
	{Name: string(LowStock), Match: func(v InventoryView) bool { return v.StockStatus == LowStock }},
	{Name: string(OutOfStock), Match: func(v InventoryView) bool { return v.StockStatus == OutOfStock }},
}
