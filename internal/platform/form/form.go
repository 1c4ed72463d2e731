// Package form implements the create/edit form flow: required-field
// validation, a simulated network round trip and an unconditional success
// message once the round trip completes.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/store"
	"github.com/hms/hms/internal/platform/workflow"
)

// GenericFailure is shown when the simulated call fails.
const GenericFailure = "Something went wrong. Please try again."

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Field is a named form value for Required.
type Field struct {
	Name  string
	Value string
}

// Required returns a ValidationError for the first blank field.
func Required(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s is required", f.Name)}
		}
	}
	return nil
}

// State is the terminal state of a submission.
type State string

const (
	StateSuccess State = "success"
	StateInvalid State = "invalid"
	StateFailed  State = "failed"
)

// Result is what the user sees after pressing submit.
type Result struct {
	State    State       `json:"state"`
	Message  string      `json:"message"`
	Field    string      `json:"field,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Err      error       `json:"-"`
}

// Action describes one submit button.
type Action struct {
	Name     string
	Success  string
	Redirect string
	Validate func() error
	Commit   func(ctx context.Context) (interface{}, error)
}

// Submitter runs actions with a simulated latency between validation and
// commit.
type Submitter struct {
	clock   clock.Clock
	latency time.Duration
	logger  zerolog.Logger
}

func NewSubmitter(c clock.Clock, latency time.Duration, logger zerolog.Logger) *Submitter {
	return &Submitter{clock: c, latency: latency, logger: logger}
}

// Submit validates, waits, commits and reports the outcome. Validation
// failures never reach Commit.
func (s *Submitter) Submit(ctx context.Context, a Action) Result {
	if a.Validate != nil {
		if err := a.Validate(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return Result{State: StateInvalid, Message: ve.Message, Field: ve.Field, Err: err}
			}
			return Result{State: StateInvalid, Message: err.Error(), Err: err}
		}
	}

	if err := s.clock.Sleep(ctx, s.latency); err != nil {
		s.logger.Warn().Err(err).Str("action", a.Name).Msg("submission abandoned")
		return Result{State: StateFailed, Message: GenericFailure, Err: err}
	}

	var data interface{}
	if a.Commit != nil {
		var err error
		data, err = a.Commit(ctx)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return Result{State: StateInvalid, Message: ve.Message, Field: ve.Field, Err: err}
			}
			msg := GenericFailure
			var te *workflow.TransitionError
			if errors.Is(err, store.ErrNotFound) || errors.As(err, &te) {
				msg = err.Error()
			}
			s.logger.Error().Err(err).Str("action", a.Name).Msg("submission failed")
			return Result{State: StateFailed, Message: msg, Err: err}
		}
	}

	s.logger.Info().Str("action", a.Name).Msg("submission succeeded")
	return Result{State: StateSuccess, Message: a.Success, Redirect: a.Redirect, Data: data}
}

// Respond writes r as JSON with a status code derived from its state.
func Respond(c echo.Context, r Result, successCode int) error {
	return c.JSON(StatusCode(r, successCode), r)
}

// StatusCode maps a Result onto an HTTP status.
func StatusCode(r Result, successCode int) int {
	switch r.State {
	case StateSuccess:
		return successCode
	case StateInvalid:
		return http.StatusUnprocessableEntity
	}
	var te *workflow.TransitionError
	switch {
	case errors.Is(r.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(r.Err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(r.Err, &te):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Merge copies every non-zero exported field of patch onto dst. Both must be
// pointers to the same struct type.
func Merge(dst, patch interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	pv := reflect.ValueOf(patch).Elem()
	for i := 0; i < pv.NumField(); i++ {
		if !dv.Field(i).CanSet() {
			continue
		}
		if f := pv.Field(i); !f.IsZero() {
			dv.Field(i).Set(f)
		}
	}
}
