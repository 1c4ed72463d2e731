package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReal_SleepElapses(t *testing.T) {
	start := time.Now()
	if err := (Real{}).Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("expected Sleep to wait at least the requested duration")
	}
}

func TestReal_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (Real{}).Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReal_SleepZero(t *testing.T) {
	if err := (Real{}).Sleep(context.Background(), 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInstant_Sleep(t *testing.T) {
	start := time.Now()
	if err := (Instant{}).Sleep(context.Background(), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("expected Instant.Sleep to return immediately")
	}
}

func TestFixed_Now(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	f := Fixed{At: at}
	if !f.Now().Equal(at) {
		t.Errorf("expected %v, got %v", at, f.Now())
	}
}
