package billing

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
	g := api.Group("/billing", auth.RequirePage(auth.PageBilling))
	g.GET("/summary", h.Summary)
	g.GET("/insurers", h.Insurers)
	g.GET("/claims", h.ListClaims)
	g.GET("/claims/:id", h.GetClaim)
	g.POST("/claims", h.CreateClaim)
	g.POST("/claims/:id/approve", h.ApproveClaim)
	g.POST("/claims/:id/deny", h.DenyClaim)
	g.POST("/claims/:id/resubmit", h.ResubmitClaim)
}

func (h *Handler) ListClaims(c echo.Context) error {
	q := listing.QueryFromContext(c)
	f := Filters{Search: q.Search, Status: c.QueryParam("status"), Insurer: c.QueryParam("insurer")}
	items, err := h.svc.Filter(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing.Build(items, Buckets, q.Tab, pagination.FromContext(c), f.echo()))
}

func (h *Handler) GetClaim(c echo.Context) error {
	d, err := h.svc.Detail(c.Request().Context(), c.Param("id"), nil)
	return view.Respond(c, d, err)
}

func (h *Handler) Summary(c echo.Context) error {
	sum, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Insurers(c echo.Context) error {
	names, err := h.svc.Insurers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": names})
}

func (h *Handler) CreateClaim(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Create(c.Request().Context(), in), http.StatusCreated)
}

func (h *Handler) ApproveClaim(c echo.Context) error {
	var in ApproveInput
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&in); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return form.Respond(c, h.svc.Approve(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

func (h *Handler) DenyClaim(c echo.Context) error {
	var in DenyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.Deny(c.Request().Context(), c.Param("id"), in), http.StatusOK)
}

func (h *Handler) ResubmitClaim(c echo.Context) error {
	return form.Respond(c, h.svc.Resubmit(c.Request().Context(), c.Param("id")), http.StatusOK)
}
