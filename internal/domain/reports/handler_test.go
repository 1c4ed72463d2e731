package reports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func TestHandler_ListMeasures(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListMeasures(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"alerts-by-priority"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_EvaluateMeasure(t *testing.T) {
	h, e := newTestHandler()
	for i, wantCached := range []string{`"cached":false`, `"cached":true`} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("appointment-volume-by-type")

		if err := h.EvaluateMeasure(c); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if !strings.Contains(rec.Body.String(), wantCached) {
			t.Errorf("call %d: expected %s, got %s", i, wantCached, rec.Body.String())
		}
	}
}

func TestHandler_EvaluateUnknown(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("patient-count")

	err := h.EvaluateMeasure(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
