package hospital

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
)

type Service struct {
	repos  Repositories
	submit *form.Submitter
	loader *view.Loader
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repos Repositories, submit *form.Submitter, loader *view.Loader, c clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repos: repos, submit: submit, loader: loader, clock: c, logger: logger}
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// -- Departments --

type DepartmentFilters struct {
	Search string
	Status string
}

func (s *Service) Departments(ctx context.Context, f DepartmentFilters) ([]DepartmentView, error) {
	items, err := s.repos.Departments.Filter(ctx, func(d Department) bool {
		return listing.Contains(f.Search, d.Name, d.Code, d.Head) && listing.Equals(f.Status, d.Status)
	})
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentView, len(items))
	for i, d := range items {
		out[i] = departmentView(d)
	}
	return out, nil
}

func (s *Service) Department(ctx context.Context, id string, tr *view.Tracker) (view.Detail[DepartmentView], error) {
	return view.Load(ctx, s.loader, tr, id, func(ctx context.Context, id string) (DepartmentView, error) {
		d, err := s.repos.Departments.Find(ctx, id)
		if err != nil {
			return DepartmentView{}, err
		}
		return departmentView(d), nil
	})
}

type DepartmentInput struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Head        string   `json:"head"`
	FacilityID  string   `json:"facilityId"`
	Floor       int      `json:"floor"`
	Phone       string   `json:"phone"`
	BedCapacity int      `json:"bedCapacity"`
	Services    []string `json:"services"`
}

func (in DepartmentInput) validate() error {
	if err := form.Required(
		form.Field{Name: "name", Value: in.Name},
		form.Field{Name: "code", Value: in.Code},
	); err != nil {
		return err
	}
	if in.BedCapacity < 0 {
		return form.Invalid("bedCapacity", "bed capacity must not be negative")
	}
	return nil
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "department.create",
		Success:  "Department created successfully",
		Redirect: "/hospital/departments",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			code := strings.ToUpper(strings.TrimSpace(in.Code))
			dup, err := s.repos.Departments.Filter(ctx, func(d Department) bool { return strings.EqualFold(d.Code, code) })
			if err != nil {
				return nil, err
			}
			if len(dup) > 0 {
				return nil, form.Invalid("code", "department code %s is already in use", code)
			}
			services := in.Services
			if services == nil {
				services = []string{}
			}
			d := Department{
				ID:          newID("dept"),
				Name:        strings.TrimSpace(in.Name),
				Code:        code,
				Head:        in.Head,
				FacilityID:  in.FacilityID,
				Floor:       in.Floor,
				Phone:       in.Phone,
				BedCapacity: in.BedCapacity,
				Status:      "active",
				Services:    services,
			}
			if err := s.repos.Departments.Save(ctx, d); err != nil {
				return nil, err
			}
			return departmentView(d), nil
		},
	})
}

// -- Facilities --

type FacilityFilters struct {
	Search string
	Type   string
	Status string
}

func (s *Service) Facilities(ctx context.Context, f FacilityFilters) ([]Facility, error) {
	return s.repos.Facilities.Filter(ctx, func(fac Facility) bool {
		return listing.Contains(f.Search, fac.Name, fac.Address, fac.Type) &&
			listing.Equals(f.Type, fac.Type) &&
			listing.Equals(f.Status, string(fac.Status))
	})
}

func (s *Service) Facility(ctx context.Context, id string, tr *view.Tracker) (view.Detail[Facility], error) {
	return view.Load(ctx, s.loader, tr, id, s.repos.Facilities.Find)
}

type FacilityStatusInput struct {
	Status string `json:"status"`
}

func (s *Service) SetFacilityStatus(ctx context.Context, id string, in FacilityStatusInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "facility.status",
		Success:  "Facility status updated",
		Redirect: "/hospital/facilities/" + id,
		Validate: func() error {
			if err := form.Required(form.Field{Name: "status", Value: in.Status}); err != nil {
				return err
			}
			if !listing.OneOf(in.Status, facilityStatuses...) {
				return form.Invalid("status", "status must be one of %s", strings.Join(facilityStatuses, ", "))
			}
			return nil
		},
		Commit: func(ctx context.Context) (interface{}, error) {
			f, err := s.repos.Facilities.Update(ctx, id, func(f *Facility) error {
				f.Status = FacilityStatus(in.Status)
				return nil
			})
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("facility_id", id).Str("status", in.Status).Msg("facility status changed")
			return f, nil
		},
	})
}

// -- Staff --

type StaffFilters struct {
	Search     string
	Department string
	Role       string
	Status     string
}

func (s *Service) Staff(ctx context.Context, f StaffFilters) ([]StaffMember, error) {
	return s.repos.Staff.Filter(ctx, func(m StaffMember) bool {
		return listing.Contains(f.Search, m.FullName(), m.Email, m.EmployeeID, m.Specialization) &&
			listing.Equals(f.Department, m.Department) &&
			listing.Equals(f.Role, m.Role) &&
			listing.Equals(f.Status, string(m.Status))
	})
}

func (s *Service) StaffMember(ctx context.Context, id string, tr *view.Tracker) (view.Detail[StaffMember], error) {
	return view.Load(ctx, s.loader, tr, id, s.repos.Staff.Find)
}

// StaffInput backs both the create and edit staff forms.
type StaffInput struct {
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Role           string          `json:"role"`
	Department     string          `json:"department"`
	Specialization string          `json:"specialization"`
	Status         string          `json:"status"`
	Shift          string          `json:"shift"`
	Certifications []Certification `json:"certifications"`
}

func (in StaffInput) validateOptional() error {
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return form.Invalid("email", "email is not a valid address")
		}
	}
	if in.Status != "" && !listing.OneOf(in.Status, staffStatuses...) {
		return form.Invalid("status", "status must be one of %s", strings.Join(staffStatuses, ", "))
	}
	return nil
}

func (in StaffInput) validateCreate() error {
	if err := form.Required(
		form.Field{Name: "firstName", Value: in.FirstName},
		form.Field{Name: "lastName", Value: in.LastName},
		form.Field{Name: "email", Value: in.Email},
		form.Field{Name: "role", Value: in.Role},
		form.Field{Name: "department", Value: in.Department},
	); err != nil {
		return err
	}
	return in.validateOptional()
}

func (in StaffInput) member() StaffMember {
	return StaffMember{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          in.Phone,
		Role:           in.Role,
		Department:     in.Department,
		Specialization: in.Specialization,
		Status:         StaffStatus(in.Status),
		Shift:          in.Shift,
		Certifications: in.Certifications,
	}
}

func (s *Service) CreateStaff(ctx context.Context, in StaffInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "staff.create",
		Success:  "Staff member added successfully",
		Redirect: "/hospital/staff",
		Validate: in.validateCreate,
		Commit: func(ctx context.Context) (interface{}, error) {
			all, err := s.repos.Staff.List(ctx)
			if err != nil {
				return nil, err
			}
			m := in.member()
			m.ID = newID("staff")
			m.EmployeeID = fmt.Sprintf("EMP-%04d", 4000+len(all)+1)
			m.HireDate = s.clock.Now().UTC().Truncate(24 * time.Hour)
			if m.Status == "" {
				m.Status = StaffActive
			}
			if m.Certifications == nil {
				m.Certifications = []Certification{}
			}
			if err := s.repos.Staff.Save(ctx, m); err != nil {
				return nil, err
			}
			s.logger.Info().Str("staff_id", m.ID).Str("department", m.Department).Msg("staff member created")
			return m, nil
		},
	})
}

// UpdateStaff merges the non-blank fields of in onto the stored member.
func (s *Service) UpdateStaff(ctx context.Context, id string, in StaffInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "staff.update",
		Success:  "Staff member updated successfully",
		Redirect: "/hospital/staff/" + id,
		Validate: in.validateOptional,
		Commit: func(ctx context.Context) (interface{}, error) {
			patch := in.member()
			cur, err := s.repos.Staff.Update(ctx, id, func(m *StaffMember) error {
				form.Merge(m, &patch)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return cur, nil
		},
	})
}

func (s *Service) DeactivateStaff(ctx context.Context, id string) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "staff.deactivate",
		Success:  "Staff member deactivated",
		Redirect: "/hospital/staff",
		Commit: func(ctx context.Context) (interface{}, error) {
			m, err := s.repos.Staff.Update(ctx, id, func(m *StaffMember) error {
				if m.Status == StaffInactive {
					return form.Invalid("status", "%s is already inactive", m.FullName())
				}
				m.Status = StaffInactive
				return nil
			})
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	})
}

// -- Inventory --

type InventoryFilters struct {
	Search      string
	Category    string
	StockStatus string
}

func (s *Service) Inventory(ctx context.Context, f InventoryFilters) ([]InventoryView, error) {
	items, err := s.repos.Inventory.Filter(ctx, func(i InventoryItem) bool {
		return listing.Contains(f.Search, i.Name, i.SKU, i.Supplier) &&
			listing.Equals(f.Category, i.Category) &&
			listing.Equals(f.StockStatus, string(i.StockStatus()))
	})
	if err != nil {
		return nil, err
	}
	out := make([]InventoryView, len(items))
	for i, it := range items {
		out[i] = inventoryView(it)
	}
	return out, nil
}

func (s *Service) InventoryItem(ctx context.Context, id string, tr *view.Tracker) (view.Detail[InventoryView], error) {
	return view.Load(ctx, s.loader, tr, id, func(ctx context.Context, id string) (InventoryView, error) {
		it, err := s.repos.Inventory.Find(ctx, id)
		if err != nil {
			return InventoryView{}, err
		}
		return inventoryView(it), nil
	})
}

type RestockInput struct {
	Quantity int `json:"quantity"`
}

func (s *Service) Restock(ctx context.Context, id string, in RestockInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "inventory.restock",
		Success:  "Inventory restocked",
		Redirect: "/hospital/inventory",
		Validate: func() error {
			if in.Quantity <= 0 {
				return form.Invalid("quantity", "quantity must be greater than zero")
			}
			return nil
		},
		Commit: func(ctx context.Context) (interface{}, error) {
			it, err := s.repos.Inventory.Update(ctx, id, func(it *InventoryItem) error {
				it.Quantity += in.Quantity
				return nil
			})
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("item_id", id).Int("quantity", it.Quantity).Msg("inventory restocked")
			return inventoryView(it), nil
		},
	})
}

// StaffMembers returns every staff record for reporting.
func (s *Service) StaffMembers(ctx context.Context) ([]StaffMember, error) {
	return s.repos.Staff.List(ctx)
}

// InventoryItems returns every inventory item for reporting.
func (s *Service) InventoryItems(ctx context.Context) ([]InventoryItem, error) {
	return s.repos.Inventory.List(ctx)
}
