package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler serves login, logout and session lookup.
type Handler struct {
	store  *Store
	dir    *Directory
	issuer *TokenIssuer
	logger zerolog.Logger
}

func NewHandler(store *Store, dir *Directory, issuer *TokenIssuer, logger zerolog.Logger) *Handler {
	return &Handler{store: store, dir: dir, issuer: issuer, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/session", h.Session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Session   *Session  `json:"session"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "email is required")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "password is required")
	}

	sess := h.store.Open(h.issuer.TTL())
	h.store.SetLoading(sess.ID, true)

	user, err := h.dir.Authenticate(req.Email, req.Password)
	if err != nil {
		h.store.Remove(sess.ID)
		h.logger.Info().Str("email", req.Email).Msg("login rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	h.store.SetUser(sess.ID, &user)
	h.store.SetLoading(sess.ID, false)

	token, exp, err := h.issuer.Issue(sess.ID, user)
	if err != nil {
		h.store.Remove(sess.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	current, _ := h.store.Get(sess.ID)
	h.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: exp, Session: current})
}

func (h *Handler) Logout(c echo.Context) error {
	sess := SessionFromContext(c.Request().Context())
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	h.store.Remove(sess.ID)
	return c.NoContent(http.StatusNoContent)
}

// Session reports the auth store entry for the caller. Anonymous callers get
// an unauthenticated session rather than an error.
func (h *Handler) Session(c echo.Context) error {
	sess := SessionFromContext(c.Request().Context())
	if sess == nil {
		return c.JSON(http.StatusOK, &Session{})
	}
	return c.JSON(http.StatusOK, sess)
}

// IsAuthError reports whether err came from credential checks.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrNoSession)
}
