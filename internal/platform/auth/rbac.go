package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleBilling      Role = "billing"
	RolePharmacist   Role = "pharmacist"
	RoleDispatcher   Role = "dispatcher"
	RolePatient      Role = "patient"
)

// Roles lists every role in display order.
var Roles = []Role{
	RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist,
	RoleBilling, RolePharmacist, RoleDispatcher, RolePatient,
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Redirect targets used by the gate.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// Page is a role-gated page and the roles allowed to see it.
type Page struct {
	Name  string
	Path  string
	Roles []Role
}

// Allows reports whether r is in the page's allow-list.
func (p Page) Allows(r Role) bool {
	for _, allowed := range p.Roles {
		if allowed == r {
			return true
		}
	}
	return false
}

// Page access is declared here and nowhere else.
var (
	PageDashboard     = Page{Name: "dashboard", Path: "/dashboard", Roles: Roles}
	PageAppointments  = Page{Name: "appointments", Path: "/appointments", Roles: []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RolePatient}}
	PageBilling       = Page{Name: "billing", Path: "/billing", Roles: []Role{RoleAdmin, RoleBilling, RoleReceptionist}}
	PageEmergency     = Page{Name: "emergency", Path: "/emergency", Roles: []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleDispatcher}}
	PageHospital      = Page{Name: "hospital", Path: "/hospital", Roles: []Role{RoleAdmin}}
	PagePrescriptions = Page{Name: "prescriptions", Path: "/prescriptions", Roles: []Role{RoleAdmin, RoleDoctor, RolePharmacist, RoleNurse}}
	PageReports       = Page{Name: "reports", Path: "/reports", Roles: []Role{RoleAdmin, RoleBilling}}
	PageTelemedicine  = Page{Name: "telemedicine", Path: "/telemedicine", Roles: []Role{RoleAdmin, RoleDoctor, RoleNurse, RolePatient}}
	PageSettings      = Page{Name: "settings", Path: "/settings", Roles: Roles}
)

// Pages is the full access table.
var Pages = []Page{
	PageDashboard, PageAppointments, PageBilling, PageEmergency, PageHospital,
	PagePrescriptions, PageReports, PageTelemedicine, PageSettings,
}

// PageByName looks a page up in the access table.
func PageByName(name string) (Page, bool) {
	for _, p := range Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

// Decision is the outcome of a gate check. Redirect is empty when Allowed.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Gate decides whether s may see p. A missing or unauthenticated session goes
// to the login route and a role outside the allow-list goes to the dashboard.
func Gate(s *Session, p Page) Decision {
	if s == nil || !s.IsAuthenticated || s.User == nil {
		return Decision{Redirect: LoginRoute, Message: "authentication required"}
	}
	if !p.Allows(s.User.Role) {
		return Decision{Redirect: DashboardRoute, Message: fmt.Sprintf("role %s cannot access %s", s.User.Role, p.Name)}
	}
	return Decision{Allowed: true}
}

// RequirePage returns middleware that runs the gate for p on every request.
// Denied requests get the redirect both in the body and the Location header
// and never reach the handler.
func RequirePage(p Page) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := Gate(SessionFromContext(c.Request().Context()), p)
			if d.Allowed {
				return next(c)
			}
			code := http.StatusForbidden
			if d.Redirect == LoginRoute {
				code = http.StatusUnauthorized
			}
			c.Response().Header().Set(echo.HeaderLocation, d.Redirect)
			return c.JSON(code, map[string]string{
				"message":  d.Message,
				"redirect": d.Redirect,
			})
		}
	}
}
