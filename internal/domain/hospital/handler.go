package hospital

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/view"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/hospital", auth.RequirePage(auth.PageHospital))

	g.GET("/departments", h.ListDepartments)
	g.GET("/departments/:id", h.GetDepartment)
	g.POST("/departments", h.CreateDepartment)

	g.GET("/facilities", h.ListFacilities)
	g.GET("/facilities/:id", h.GetFacility)
	g.PATCH("/facilities/:id/status", h.UpdateFacilityStatus)

	g.GET("/staff", h.ListStaff)
	g.GET("/staff/:id", h.GetStaff)
	g.POST("/staff", h.CreateStaff)
	g.PATCH("/staff/:id", h.UpdateStaff)
	g.POST("/staff/:id/deactivate", h.DeactivateStaff)

	g.GET("/inventory", h.ListInventory)
	g.GET("/inventory/:id", h.GetInventoryItem)
	g.POST("/inventory/:id/restock", h.RestockInventory)
}

func bindAnd(c echo.Context, in interface{}) error {
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// -- Department Handlers --

func (h *Handler) ListDepartments(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := DepartmentFilters{Search: q.Search, Status: c.QueryParam("status")}
	items, err := h.svc.Departments(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "status": f.Status}
	return c.JSON(http.StatusOK, listing.Build[DepartmentView](items, nil, "", pagination.FromContext(c), filters))
}

func (h *Handler) GetDepartment(c echo.Context) error {
	d, err := h.svc.Department(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) CreateDepartment(c echo.Context) error {
	var in DepartmentInput
	if err := bindAnd(c, &in); err != nil {
		return err
	}
	return form.Respond(c, h.svc.CreateDepartment(c.Request().Context(), in), http.StatusCreated)
}

// -- Facility Handlers --

func (h *Handler) ListFacilities(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := FacilityFilters{Search: q.Search, Type: c.QueryParam("type"), Status: c.QueryParam("status")}
	items, err := h.svc.Facilities(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "type": f.Type, "status": f.Status}
	return c.JSON(http.StatusOK, listing.Build(items, FacilityBuckets, q.Tab, pagination.FromContext(c), filters))
}

func (h *Handler) GetFacility(c echo.Context) error {
	d, err := h.svc.Facility(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) UpdateFacilityStatus(c echo.Context) error {
	var in FacilityStatusInput
	if err := bindAnd(c, &in); err != nil {
		return err
	}
	return form.Respond(c, h.svc.SetFacilityStatus(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

// -- Staff Handlers --

func (h *Handler) ListStaff(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := StaffFilters{
		Search:     q.Search,
		Department: c.QueryParam("department"),
		Role:       c.QueryParam("role"),
		Status:     c.QueryParam("status"),
	}
	items, err := h.svc.Staff(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "department": f.Department, "role": f.Role, "status": f.Status}
	return c.JSON(http.StatusOK, listing.Build(items, StaffBuckets, q.Tab, pagination.FromContext(c), filters))
}

func (h *Handler) GetStaff(c echo.Context) error {
	d, err := h.svc.StaffMember(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) CreateStaff(c echo.Context) error {
	var in StaffInput
	if err := bindAnd(c, &in); err != nil {
		return err
	}
	return form.Respond(c, h.svc.CreateStaff(c.Request().Context(), in), http.StatusCreated)
}

func (h *Handler) UpdateStaff(c echo.Context) error {
	var in StaffInput
	if err := bindAnd(c, &in); err != nil {
		return err
	}
	return form.Respond(c, h.svc.UpdateStaff(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

func (h *Handler) DeactivateStaff(c echo.Context) error {
	return form.Respond(c, h.svc.DeactivateStaff(c.Request().Context(), c.Param("id")), http.StatusOK)
}

// -- Inventory Handlers --

func (h *Handler) ListInventory(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := InventoryFilters{Search: q.Search, Category: c.QueryParam("category"), StockStatus: c.QueryParam("stock_status")}
	items, err := h.svc.Inventory(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "category": f.Category, "stock_status": f.StockStatus}
	return c.JSON(http.StatusOK, listing.Build(items, InventoryBuckets, q.Tab, pagination.FromContext(c), filters))
}

func (h *Handler) GetInventoryItem(c echo.Context) error {
	d, err := h.svc.InventoryItem(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) RestockInventory(c echo.Context) error {
	var in RestockInput
	if err := bindAnd(c, &in); err != nil {
		return err
	}
	return form.Respond(c, h.svc.Restock(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}
