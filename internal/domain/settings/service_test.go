package settings

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/clock"
	"github.com/hms/hms/internal/platform/form"
)

type fixture struct {
	svc      *Service
	dir      *auth.Directory
	sessions *auth.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir, err := auth.NewDirectory(bcrypt.MinCost, auth.DemoUsers...)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	c := clock.Instant{}
	sessions := auth.NewStore(c)
	svc := NewService(NewMemoryRepository(), dir, sessions, form.NewSubmitter(c, 0, zerolog.Nop()), zerolog.Nop())
	return fixture{svc: svc, dir: dir, sessions: sessions}
}

func TestGet_DefaultsFromAccount(t *testing.T) {
	f := newFixture(t)
	set, err := f.svc.Get(context.Background(), "usr_doctor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Profile.Name != "Dr. Sarah Wilson" || set.Profile.Department != "Cardiology" {
		t.Errorf("unexpected profile: %+v", set.Profile)
	}
	if set.Preferences != DefaultPreferences {
		t.Errorf("expected default preferences, got %+v", set.Preferences)
	}
	if !set.Notifications.AppointmentReminders {
		t.Error("expected appointment reminders on by default")
	}
}

func TestGet_UnknownUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Get(context.Background(), "usr_missing"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestUpdateProfile_RefreshesSessionAndDirectory(t *testing.T) {
	f := newFixture(t)
	u, _ := f.dir.Lookup("usr_nurse")
	f.sessions.Put(&auth.Session{ID: "s1", User: &u, IsAuthenticated: true})

	r := f.svc.UpdateProfile(context.Background(), "usr_nurse", "s1", Profile{
		Name:  "James T. Carter",
		Email: "jcarter@hms.local",
		Phone: "555-0101",
	})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %s: %s", r.State, r.Message)
	}
	if r.Message != "Profile updated successfully" {
		t.Errorf("unexpected message %q", r.Message)
	}

	sess, ok := f.sessions.Get("s1")
	if !ok || sess.User.Name != "James T. Carter" {
		t.Errorf("expected session user renamed, got %+v", sess)
	}
	if sess.User.Role != auth.RoleNurse {
		t.Errorf("expected role kept, got %s", sess.User.Role)
	}
	if _, err := f.dir.Authenticate("jcarter@hms.local", auth.DemoPassword); err != nil {
		t.Errorf("expected login with new email: %v", err)
	}

	set, _ := f.svc.Get(context.Background(), "usr_nurse")
	if set.Profile.Phone != "555-0101" {
		t.Errorf("expected saved phone, got %q", set.Profile.Phone)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		in    Profile
		field string
	}{
		{"missing name", Profile{Email: "a@b.c"}, "name"},
		{"missing email", Profile{Name: "A"}, "email"},
		{"bad email", Profile{Name: "A", Email: "not-an-email"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.svc.UpdateProfile(context.Background(), "usr_admin", "", tt.in)
			if r.State != form.StateInvalid || r.Field != tt.field {
				t.Errorf("expected invalid %s, got %s %q", tt.field, r.State, r.Field)
			}
		})
	}
}

func TestUpdateNotifications_ReplacesAll(t *testing.T) {
	f := newFixture(t)
	r := f.svc.UpdateNotifications(context.Background(), "usr_admin", Notifications{SMS: true})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %s", r.State)
	}
	set, _ := f.svc.Get(context.Background(), "usr_admin")
	if set.Notifications != (Notifications{SMS: true}) {
		t.Errorf("unexpected notifications %+v", set.Notifications)
	}
}

func TestUpdatePreferences(t *testing.T) {
	f := newFixture(t)
	r := f.svc.UpdatePreferences(context.Background(), "usr_admin", Preferences{Theme: "dark"})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %s: %s", r.State, r.Message)
	}
	set, _ := f.svc.Get(context.Background(), "usr_admin")
	if set.Preferences.Theme != "dark" || set.Preferences.Language != "en" {
		t.Errorf("expected merged preferences, got %+v", set.Preferences)
	}

	r = f.svc.UpdatePreferences(context.Background(), "usr_admin", Preferences{Timezone: "Mars/Olympus"})
	if r.State != form.StateInvalid || r.Field != "timezone" {
		t.Errorf("expected invalid timezone, got %s %q", r.State, r.Field)
	}
	r = f.svc.UpdatePreferences(context.Background(), "usr_admin", Preferences{Theme: "neon"})
	if r.State != form.StateInvalid || r.Field != "theme" {
		t.Errorf("expected invalid theme, got %s %q", r.State, r.Field)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.svc.ChangePassword(ctx, "usr_admin", PasswordInput{CurrentPassword: "wrong", NewPassword: "longenough"})
	if r.State != form.StateInvalid || r.Field != "currentPassword" {
		t.Fatalf("expected invalid current password, got %s %q", r.State, r.Field)
	}

	r = f.svc.ChangePassword(ctx, "usr_admin", PasswordInput{CurrentPassword: auth.DemoPassword, NewPassword: "short"})
	if r.State != form.StateInvalid || r.Field != "newPassword" {
		t.Fatalf("expected invalid new password, got %s %q", r.State, r.Field)
	}

	r = f.svc.ChangePassword(ctx, "usr_admin", PasswordInput{CurrentPassword: auth.DemoPassword, NewPassword: "longenough", ConfirmPassword: "different"})
	if r.State != form.StateInvalid || r.Field != "confirmPassword" {
		t.Fatalf("expected mismatch, got %s %q", r.State, r.Field)
	}

	r = f.svc.ChangePassword(ctx, "usr_admin", PasswordInput{CurrentPassword: auth.DemoPassword, NewPassword: "longenough", ConfirmPassword: "longenough"})
	if r.State != form.StateSuccess {
		t.Fatalf("expected success, got %s: %s", r.State, r.Message)
	}
	if _, err := f.dir.Authenticate("admin@hms.local", "longenough"); err != nil {
		t.Errorf("expected new password to work: %v", err)
	}
}

func TestUpdateProfile_EmailOfAnotherUser(t *testing.T) {
	f := newFixture(t)
	r := f.svc.UpdateProfile(context.Background(), "usr_admin", "", Profile{Name: "Alex Morgan", Email: "billing@hms.local"})
	if r.State != form.StateInvalid || r.Field != "email" {
		t.Fatalf("expected invalid email, got %s %q: %s", r.State, r.Field, r.Message)
	}
	if got, err := f.dir.Authenticate("billing@hms.local", auth.DemoPassword); err != nil || got.ID != "usr_billing" {
		t.Errorf("billing login must still be usr_billing, got %s (%v)", got.ID, err)
	}
}

func TestChangePassword_TooLong(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("x", MaxPasswordLength+1)
	r := f.svc.ChangePassword(context.Background(), "usr_admin", PasswordInput{CurrentPassword: auth.DemoPassword, NewPassword: long, ConfirmPassword: long})
	if r.State != form.StateInvalid || r.Field != "newPassword" {
		t.Fatalf("expected invalid new password, got %s %q: %s", r.State, r.Field, r.Message)
	}
	if form.StatusCode(r, 200) != 422 {
		t.Errorf("expected 422, got %d", form.StatusCode(r, 200))
	}
}
