// Package clock abstracts wall time and waiting so that simulated network
// latency can be real in a running server and instantaneous in tests.
package clock

import (
	"context"
	"time"
)

// Clock supplies the current time and a cancellable wait.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Real uses the system clock. Sleep returns ctx.Err() if the context ends
// before the duration elapses, releasing the timer.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant never waits. Now falls back to the system clock.
type Instant struct{}

func (Instant) Now() time.Time { return time.Now() }

func (Instant) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Fixed never waits and always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

func (Fixed) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
