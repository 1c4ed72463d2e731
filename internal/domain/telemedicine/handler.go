package telemedicine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/form"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/telemedicine", auth.RequirePage(auth.PageTelemedicine))
	g.GET("", h.ListVisits)
	g.POST("/:appointmentId/join", h.Join)
	g.POST("/:appointmentId/toggle/:control", h.Toggle)
	g.POST("/:appointmentId/messages", h.SendMessage)
	g.POST("/:appointmentId/end", h.End)
}

func (h *Handler) ListVisits(c echo.Context) error {
	visits, err := h.svc.Visits(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": visits})
}

func (h *Handler) Join(c echo.Context) error {
	return form.Respond(c, h.svc.Join(c.Request().Context(), c.Param("appointmentId")), http.StatusOK)
}

func (h *Handler) Toggle(c echo.Context) error {
	r := h.svc.Toggle(c.Request().Context(), c.Param("appointmentId"), Control(c.Param("control")))
	return form.Respond(c, r, http.StatusOK)
}

func (h *Handler) SendMessage(c echo.Context) error {
	var in MessageInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if sess := auth.SessionFromContext(c.Request().Context()); sess != nil && sess.User != nil {
		in.Sender = sess.User.Name
	}
	return form.Respond(c, h.svc.Send(c.Request().Context(), c.Param("appointmentId"), in), http.StatusCreated)
}

func (h *Handler) End(c echo.Context) error {
	return form.Respond(c, h.svc.End(c.Request().Context(), c.Param("appointmentId")), http.StatusOK)
}
