// Package view models the load lifecycle of a detail page:
// idle -> loading -> ready | not-found.
package view

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/store"
)

// LoadState is the state of a detail page.
type LoadState string

const (
	StateIdle     LoadState = "idle"
	StateLoading  LoadState = "loading"
	StateReady    LoadState = "ready"
	StateNotFound LoadState = "not-found"
)

// Detail is the payload of a detail endpoint.
type Detail[T any] struct {
	State LoadState `json:"state"`
	Data  *T        `json:"data,omitempty"`
}

// Tracker records the states a load passes through.
type Tracker struct {
	mu     sync.Mutex
	states []LoadState
}

// NewTracker starts in idle.
func NewTracker() *Tracker {
	return &Tracker{states: []LoadState{StateIdle}}
}

func (t *Tracker) set(s LoadState) {
	t.mu.Lock()
	t.states = append(t.states, s)
	t.mu.Unlock()
}

// Current returns the latest state.
func (t *Tracker) Current() LoadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[len(t.states)-1]
}

// History returns every state visited, oldest first.
func (t *Tracker) History() []LoadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]LoadState, len(t.states))
	copy(out, t.states)
	return out
}

// Loader performs the simulated fetch behind a detail page.
type Loader struct {
	clock   clock.Clock
	latency time.Duration
}

func NewLoader(c clock.Clock, latency time.Duration) *Loader {
	return &Loader{clock: c, latency: latency}
}

// Load waits for the simulated latency and then looks the record up. A
// missing record ends in not-found; any other error is returned as is.
func Load[T any](ctx context.Context, l *Loader, tr *Tracker, id string, find func(context.Context, string) (T, error)) (Detail[T], error) {
	if tr == nil {
		tr = NewTracker()
	}
	tr.set(StateLoading)
	if err := l.clock.Sleep(ctx, l.latency); err != nil {
		return Detail[T]{State: StateLoading}, err
	}

	rec, err := find(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		tr.set(StateNotFound)
		return Detail[T]{State: StateNotFound}, nil
	}
	if err != nil {
		return Detail[T]{State: StateLoading}, err
	}
	tr.set(StateReady)
	return Detail[T]{State: StateReady, Data: &rec}, nil
}

// Respond writes d with 200 when ready and 404 when not found.
func Respond[T any](c echo.Context, d Detail[T], err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if d.State == StateNotFound {
		return c.JSON(http.StatusNotFound, d)
	}
	return c.JSON(http.StatusOK, d)
}
