package appointments

import (
	"errors"
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
	g := api.Group("/appointments", auth.RequirePage(auth.PageAppointments))
	g.GET("", h.List)
	g.GET("/calendar", h.Calendar)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/confirm", h.Confirm)
}

func filtersFromContext(c echo.Context) Filters {
	q := listing.QueryFromContext(c)
	return Filters{
		Search: q.Search,
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
		Date:   c.QueryParam("date"),
	}
}

func (h *Handler) List(c echo.Context) error {
	f := filtersFromContext(c)
	items, err := h.svc.Filter(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	tab := listing.QueryFromContext(c).Tab
	return c.JSON(http.StatusOK, listing.Build(items, Buckets, tab, pagination.FromContext(c), f.echo()))
}

func (h *Handler) Calendar(c echo.Context) error {
	f := filtersFromContext(c)
	cal, err := h.svc.Calendar(c.Request().Context(), c.QueryParam("month"), c.QueryParam("date"), f)
	if err != nil {
		var ve *form.ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cal)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.Detail(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Create(c.Request().Context(), in), http.StatusCreated)
}

func (h *Handler) Update(c echo.Context) error {
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Update(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

func (h *Handler) Cancel(c echo.Context) error {
	return form.Respond(c, h.svc.Cancel(c.Request().Context(), c.Param("id")), http.StatusOK)
}

func (h *Handler) Confirm(c echo.Context) error {
	return form.Respond(c, h.svc.Confirm(c.Request().Context(), c.Param("id")), http.StatusOK)
}
