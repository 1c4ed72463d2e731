package hospital

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/store"
)

type DepartmentRepository = store.Repository[Department]
type FacilityRepository = store.Repository[Facility]
type StaffRepository = store.Repository[StaffMember]
type InventoryRepository = store.Repository[InventoryItem]

// Repositories groups the stores behind the hospital pages.
type Repositories struct {
	Departments DepartmentRepository
	Facilities  FacilityRepository
	Staff       StaffRepository
	Inventory   InventoryRepository
}

func NewMemoryRepositories() Repositories {
	return Repositories{
		Departments: store.NewMemory(SeedDepartments()),
		Facilities:  store.NewMemory(SeedFacilities()),
		Staff:       store.NewMemory(SeedStaff()),
		Inventory:   store.NewMemory(SeedInventory()),
	}
}

func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Departments: store.NewPostgres[Department](pool, store.KindDepartment),
		Facilities:  store.NewPostgres[Facility](pool, store.KindFacility),
		Staff:       store.NewPostgres[StaffMember](pool, store.KindStaff),
		Inventory:   store.NewPostgres[InventoryItem](pool, store.KindInventory),
	}
}
