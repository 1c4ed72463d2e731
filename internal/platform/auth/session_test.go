package auth

import (
	"testing"
	"time"

	"github.com/hms/hms/internal/platform/clock"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore(clock.Real{})
	sess := s.Open(time.Hour)
	if sess.IsAuthenticated {
		t.Fatal("new session must be anonymous")
	}

	if err := s.SetLoading(sess.ID, true); err != nil {
		t.Fatalf("SetLoading: %v", err)
	}
	got, _ := s.Get(sess.ID)
	if !got.IsLoading {
		t.Error("expected loading flag")
	}

	u := &User{ID: "u1", Name: "Jane", Role: RoleNurse}
	if err := s.SetUser(sess.ID, u); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	u.Name = "mutated"
	got, _ = s.Get(sess.ID)
	if !got.IsAuthenticated || got.User.Name != "Jane" {
		t.Errorf("unexpected session: %+v", got)
	}

	got.User.Role = RoleAdmin
	again, _ := s.Get(sess.ID)
	if again.User.Role != RoleNurse {
		t.Error("Get must return a copy")
	}

	s.SetUser(sess.ID, nil)
	got, _ = s.Get(sess.ID)
	if got.IsAuthenticated || got.User != nil {
		t.Error("nil user must sign the session out")
	}

	s.Remove(sess.ID)
	if _, ok := s.Get(sess.ID); ok {
		t.Error("expected session to be removed")
	}
	if err := s.SetUser(sess.ID, u); err != ErrNoSession {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	c := &clock.Fixed{At: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	s := NewStore(c)
	sess := s.Open(time.Minute)

	if _, ok := s.Get(sess.ID); !ok {
		t.Fatal("expected live session")
	}
	c.At = c.At.Add(time.Minute)
	if _, ok := s.Get(sess.ID); ok {
		t.Error("expected expired session to be dropped")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}
