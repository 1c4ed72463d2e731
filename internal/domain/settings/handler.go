package settings

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/settings", auth.RequirePage(auth.PageSettings))
	g.GET("", h.Get)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/notifications", h.UpdateNotifications)
	g.PUT("/preferences", h.UpdatePreferences)
	g.PUT("/password", h.ChangePassword)
}

func currentSession(c echo.Context) (*auth.Session, error) {
	sess := auth.SessionFromContext(c.Request().Context())
	if sess == nil || sess.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return sess, nil
}

func (h *Handler) Get(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	set, err := h.svc.Get(c.Request().Context(), sess.User.ID)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, set)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.UpdateProfile(c.Request().Context(), sess.User.ID, sess.ID, p), http.StatusOK)
}

func (h *Handler) UpdateNotifications(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var n Notifications
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.UpdateNotifications(c.Request().Context(), sess.User.ID, n), http.StatusOK)
}

func (h *Handler) UpdatePreferences(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var p Preferences
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.UpdatePreferences(c.Request().Context(), sess.User.ID, p), http.StatusOK)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var in PasswordInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return form.Respond(c, h.svc.ChangePassword(c.Request().Context(), sess.User.ID, in), http.StatusOK)
}
