package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/form"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"preserved", "rid-from-gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			var seen string
			err := RequestID()(func(c echo.Context) error {
				seen, _ = c.Get(RequestIDKey).(string)
				return c.NoContent(http.StatusOK)
			})(e.NewContext(req, rec))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen == "" {
				t.Fatal("expected a request ID on the context")
			}
			if tt.incoming != "" && seen != tt.incoming {
				t.Errorf("expected %q, got %q", tt.incoming, seen)
			}
			if rec.Header().Get(RequestIDHeader) != seen {
				t.Errorf("response header %q does not match %q", rec.Header().Get(RequestIDHeader), seen)
			}
		})
	}
}

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_TagsSignedInUser(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions", nil)
	sess := &auth.Session{ID: "s1", IsAuthenticated: true, User: &auth.User{ID: "usr_pharmacist", Role: auth.RolePharmacist}}
	req = req.WithContext(auth.WithSession(req.Context(), sess))
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(RequestIDKey, "req-123")

	if err := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := logEntry(t, &buf)
	if entry["level"] != "info" || entry["user_id"] != "usr_pharmacist" || entry["request_id"] != "req-123" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		handler echo.HandlerFunc
		level   string
		code    int
	}{
		{"not found", "/api/v1/billing/claims/claim_9", func(echo.Context) error {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}, "warn", http.StatusNotFound},
		{"server error", "/api/v1/reports/overview", func(echo.Context) error {
			return echo.NewHTTPError(http.StatusInternalServerError, "boom")
		}, "error", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.path, nil), rec)
			if err := Logger(zerolog.New(&buf))(tt.handler)(c); err != nil {
				t.Fatalf("expected error to be handled, got %v", err)
			}
			if rec.Code != tt.code {
				t.Errorf("expected %d written, got %d", tt.code, rec.Code)
			}
			if got := logEntry(t, &buf)["level"]; got != tt.level {
				t.Errorf("expected %s, got %v", tt.level, got)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/emergency/alerts", nil), httptest.NewRecorder())
	c.Set(RequestIDKey, "req-panic")

	err := Recovery(zerolog.New(&buf))(func(echo.Context) error {
		panic("nil ambulance")
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if he.Message != form.GenericFailure {
		t.Errorf("expected generic failure message, got %v", he.Message)
	}
	entry := logEntry(t, &buf)
	if entry["panic"] != "nil ambulance" || entry["request_id"] != "req-panic" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	err := Recovery(zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}
}
