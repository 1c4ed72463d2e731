package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/store"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r record) GetID() string { return r.ID }

func newTestLoader() (*Loader, *store.Memory[record]) {
	return NewLoader(clock.Instant{}, 0), store.NewMemory([]record{{ID: "r1", Name: "first"}})
}

func TestLoad_Ready(t *testing.T) {
	l, repo := newTestLoader()
	tr := NewTracker()

	d, err := Load(context.Background(), l, tr, "r1", repo.Find)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.State != StateReady || d.Data == nil || d.Data.Name != "first" {
		t.Errorf("unexpected detail: %+v", d)
	}

	want := []LoadState{StateIdle, StateLoading, StateReady}
	got := tr.History()
	if len(got) != len(want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	l, repo := newTestLoader()
	tr := NewTracker()

	d, err := Load(context.Background(), l, tr, "missing", repo.Find)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.State != StateNotFound || d.Data != nil {
		t.Errorf("unexpected detail: %+v", d)
	}
	if tr.Current() != StateNotFound {
		t.Errorf("expected tracker in not-found, got %s", tr.Current())
	}
}

func TestLoad_CancelledStaysLoading(t *testing.T) {
	l := NewLoader(clock.Real{}, 1<<40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := NewTracker()

	_, err := Load(ctx, l, tr, "r1", func(context.Context, string) (record, error) {
		t.Fatal("find must not run after cancellation")
		return record{}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if tr.Current() != StateLoading {
		t.Errorf("expected tracker in loading, got %s", tr.Current())
	}
}

func TestRespond(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := Respond(c, Detail[record]{State: StateNotFound}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["state"] != "not-found" {
		t.Errorf("expected state not-found, got %v", body["state"])
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	Respond(c, Detail[record]{State: StateReady, Data: &record{ID: "r1"}}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRespond_Deadline(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := Respond(c, Detail[record]{State: StateLoading}, fmt.Errorf("load: %w", context.DeadlineExceeded))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %v", err)
	}
}
