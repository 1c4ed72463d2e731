package prescriptions

import (
	"context"
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
	g := api.Group("/prescriptions", auth.RequirePage(auth.PagePrescriptions))
	g.GET("", h.List)
	g.GET("/queue", h.Queue)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/:id/process", h.action((*Service).Process))
	g.POST("/:id/ready", h.action((*Service).MarkReady))
	g.POST("/:id/dispense", h.action((*Service).Dispense))
	g.POST("/:id/cancel", h.action((*Service).Cancel))
}

func filtersFromContext(c echo.Context) Filters {
	return Filters{
		Search:   listing.QueryFromContext(c).Search,
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	}
}

func (h *Handler) List(c echo.Context) error {
	f := filtersFromContext(c)
	items, err := h.svc.Orders(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing.Build[Order](items, nil, "", pagination.FromContext(c), f.echo()))
}

func (h *Handler) Queue(c echo.Context) error {
	f := filtersFromContext(c)
	items, err := h.svc.Queue(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	tab := listing.QueryFromContext(c).Tab
	return c.JSON(http.StatusOK, listing.Build(items, QueueBuckets, tab, pagination.FromContext(c), f.echo()))
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

func (h *Handler) action(fn func(*Service, context.Context, string, ActionInput) form.Result) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in ActionInput
		if c.Request().ContentLength > 0 {
			if err := c.Bind(&in); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
		return form.Respond(c, fn(h.svc, c.Request().Context(), c.Param("id"), in), http.StatusOK)
	}
}
