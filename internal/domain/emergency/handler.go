package emergency

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
	g := api.Group("/emergency", auth.RequirePage(auth.PageEmergency))
	g.GET("/ambulances", h.ListAmbulances)
	g.GET("/ambulances/:id", h.GetAmbulance)
	g.PATCH("/ambulances/:id/status", h.UpdateAmbulanceStatus)
	g.GET("/alerts", h.ListAlerts)
	g.GET("/alerts/:id", h.GetAlert)
	g.POST("/alerts", h.RaiseAlert)
	g.POST("/alerts/:id/dispatch", h.DispatchAlert)
	g.POST("/alerts/:id/resolve", h.ResolveAlert)
}

// -- Ambulance Handlers --

func (h *Handler) ListAmbulances(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := AmbulanceFilters{Search: q.Search, Status: c.QueryParam("status")}
	items, err := h.svc.Ambulances(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "status": f.Status}
	return c.JSON(http.StatusOK, listing.Build(items, AmbulanceBuckets, q.Tab, pagination.FromContext(c), filters))
}

func (h *Handler) GetAmbulance(c echo.Context) error {
	d, err := h.svc.Ambulance(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) UpdateAmbulanceStatus(c echo.Context) error {
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.SetStatus(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

// -- Alert Handlers --

func (h *Handler) ListAlerts(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := AlertFilters{Search: q.Search, Priority: c.QueryParam("priority"), Status: c.QueryParam("status")}
	items, err := h.svc.Alerts(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filters := map[string]string{"search": f.Search, "priority": f.Priority, "status": f.Status}
	return c.JSON(http.StatusOK, listing.Build(items, AlertBuckets, q.Tab, pagination.FromContext(c), filters))
}

func (h *Handler) GetAlert(c echo.Context) error {
	d, err := h.svc.Alert(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) RaiseAlert(c echo.Context) error {
	var in RaiseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Raise(c.Request().Context(), in), http.StatusCreated)
}

func (h *Handler) DispatchAlert(c echo.Context) error {
	var in DispatchInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Dispatch(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

func (h *Handler) ResolveAlert(c echo.Context) error {
	return form.Respond(c, h.svc.Resolve(c.Request().Context(), c.Param("id")), http.StatusOK)
}
