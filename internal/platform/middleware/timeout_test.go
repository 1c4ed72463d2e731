package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
)

func TestRequestTimeout(t *testing.T) {
	slow := func(c echo.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return c.String(http.StatusOK, "late")
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}
	deadlineCheck := func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); !ok {
			return echo.NewHTTPError(http.StatusTeapot, "no deadline")
		}
		return c.String(http.StatusOK, "ok")
	}

	tests := []struct {
		name     string
		path     string
		timeout  time.Duration
		handler  echo.HandlerFunc
		wantCode int
	}{
		{"fast handler", "/api/v1/appointments", time.Second, deadlineCheck, http.StatusOK},
		{"slow handler", "/api/v1/appointments", 20 * time.Millisecond, slow, http.StatusGatewayTimeout},
		{"websocket exempt", "/api/v1/ws", time.Second, func(c echo.Context) error {
			if _, ok := c.Request().Context().Deadline(); ok {
				return echo.NewHTTPError(http.StatusTeapot, "unexpected deadline")
			}
			return c.NoContent(http.StatusOK)
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.path, nil), rec)
			if err := RequestTimeout(tt.timeout)(tt.handler)(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestRequestTimeout_GenericFailureBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil), rec)
	h := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return c.Request().Context().Err()
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var r form.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.State != form.StateFailed || r.Message != form.GenericFailure {
		t.Errorf("unexpected body %+v", r)
	}
}

func TestRequestTimeout_PropagatesHandlerError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/appointments/apt_9", nil), httptest.NewRecorder())
	err := RequestTimeout(time.Second)(func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	})(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 to pass through, got %v", err)
	}
}

func TestRequestTimeout_FormSubmitWritesOnce(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/billing/claims", nil), rec)
	submit := form.NewSubmitter(clock.Real{}, 50*time.Millisecond, zerolog.Nop())

	var handlerDone bool
	h := RequestTimeout(5 * time.Millisecond)(func(c echo.Context) error {
		r := submit.Submit(c.Request().Context(), form.Action{Name: "claim.create", Success: "Claim created"})
		handlerDone = true
		return form.Respond(c, r, http.StatusCreated)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerDone {
		t.Fatal("middleware returned before the handler finished")
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
	}
	dec := json.NewDecoder(rec.Body)
	var r form.Result
	if err := dec.Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Message != form.GenericFailure {
		t.Errorf("unexpected message %q", r.Message)
	}
	if dec.More() {
		t.Error("response body written twice")
	}
}

func TestRequestTimeout_HandlerErrorAfterDeadline(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/appointments/apt_1", nil), rec)
	h := RequestTimeout(5 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return echo.NewHTTPError(http.StatusGatewayTimeout, context.DeadlineExceeded.Error())
	})
	if err := h(c); err != nil {
		t.Fatalf("expected the middleware to answer, got %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}
