package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	UserIDKey  contextKey = "user_id"
)

// DevSessionID is the fixed session used by DevSessionMiddleware.
const DevSessionID = "dev-session"

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, SessionKey, s)
	if s != nil && s.User != nil {
		ctx = context.WithValue(ctx, UserIDKey, s.User.ID)
	}
	return ctx
}

// SessionFromContext returns the session resolved for the request, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(SessionKey).(*Session)
	return s
}

// UserIDFromContext returns the signed-in user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func bearerToken(c echo.Context) (string, bool) {
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// SessionMiddleware resolves the bearer token into a session from store.
// Requests without a valid token continue anonymously so that the page gate
// can redirect them.
func SessionMiddleware(store *Store, issuer *TokenIssuer, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if AuthSkipper(c) {
				return next(c)
			}
			tokenStr, ok := bearerToken(c)
			if !ok {
				return next(c)
			}
			claims, err := issuer.Parse(tokenStr)
			if err != nil {
				logger.Debug().Err(err).Msg("rejected session token")
				return next(c)
			}
			sess, ok := store.Get(claims.ID)
			if !ok {
				return next(c)
			}
			c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), sess)))
			return next(c)
		}
	}
}

// DevSessionMiddleware signs requests without an Authorization header into a
// shared session for user. Requests with a header go through the regular
// token resolution.
func DevSessionMiddleware(store *Store, issuer *TokenIssuer, user User, logger zerolog.Logger) echo.MiddlewareFunc {
	regular := SessionMiddleware(store, issuer, logger)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withToken := regular(next)
		return func(c echo.Context) error {
			if AuthSkipper(c) || c.Request().Header.Get("Authorization") != "" {
				return withToken(c)
			}
			sess, ok := store.Get(DevSessionID)
			if !ok {
				u := user
				store.Put(&Session{ID: DevSessionID, User: &u, IsAuthenticated: true})
				sess, _ = store.Get(DevSessionID)
			}
			c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), sess)))
			return next(c)
		}
	}
}
