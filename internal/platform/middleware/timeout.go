package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/form"
)

// RequestTimeout bounds each request. The handler runs on the request
// goroutine under the deadline context; blocking calls that honour the
// context return early. A handler that gives up without writing a response is
// answered with the same failed result a form submit reports when its
// simulated call fails, so clients render one generic failure message.
// Long-lived websocket upgrades are exempt.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasSuffix(c.Request().URL.Path, "/ws") {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if c.Response().Committed || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return err
			}
			return c.JSON(http.StatusGatewayTimeout, form.Result{
				State:   form.StateFailed,
				Message: form.GenericFailure,
			})
		}
	}
}
