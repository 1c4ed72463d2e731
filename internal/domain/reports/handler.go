package reports

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/reporting"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports", auth.RequirePage(auth.PageReports))
	g.GET("/measures", h.ListMeasures)
	g.GET("/measures/:id/evaluate", h.EvaluateMeasure)
	g.GET("/overview", h.Overview)
	g.POST("/refresh", h.Refresh)

	api.GET("/dashboard", h.Overview, auth.RequirePage(auth.PageDashboard))
}

// ListMeasures returns all available measure definitions.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"data": h.svc.Measures()})
}

// EvaluateMeasure computes one measure, served from cache while fresh.
func (h *Handler) EvaluateMeasure(c echo.Context) error {
	rep, err := h.svc.Evaluate(c.Request().Context(), c.Param("id"))
	if errors.Is(err, reporting.ErrUnknownMeasure) {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

// Overview serves the dashboard summary cards.
func (h *Handler) Overview(c echo.Context) error {
	ov, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *Handler) Refresh(c echo.Context) error {
	h.svc.Refresh(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
