package settings

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/form"
	"github.com/hms/hms/internal/platform/listing"
	"github.com/hms/hms/internal/platform/store"
)

type Service struct {
	mu       sync.Mutex // serialises read-modify-save of one settings record
	repo     Repository
	dir      *auth.Directory
	sessions *auth.Store
	submit   *form.Submitter
	logger   zerolog.Logger
}

func NewService(repo Repository, dir *auth.Directory, sessions *auth.Store, submit *form.Submitter, logger zerolog.Logger) *Service {
	return &Service{repo: repo, dir: dir, sessions: sessions, submit: submit, logger: logger}
}

func defaults(u auth.User) Settings {
	return Settings{
		UserID: u.ID,
		Profile: Profile{
			Name:       u.Name,
			Email:      u.Email,
			Phone:      u.Phone,
			Title:      u.Title,
			Department: u.Department,
		},
		Notifications: DefaultNotifications,
		Preferences:   DefaultPreferences,
	}
}

// Get returns the saved settings of userID, or defaults built from the
// account when nothing was saved.
func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	u, ok := s.dir.Lookup(userID)
	if !ok {
		return Settings{}, store.ErrNotFound
	}
	set, err := s.repo.Find(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return defaults(u), nil
	}
	if err != nil {
		return Settings{}, err
	}
	set.Profile.Name, set.Profile.Email = u.Name, u.Email
	return set, nil
}

func (s *Service) save(ctx context.Context, userID string, fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.Get(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	if err := fn(&set); err != nil {
		return Settings{}, err
	}
	if err := s.repo.Save(ctx, set); err != nil {
		return Settings{}, err
	}
	return set, nil
}

func (p Profile) validate() error {
	if err := form.Required(
		form.Field{Name: "name", Value: p.Name},
		form.Field{Name: "email", Value: p.Email},
	); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return form.Invalid("email", "email is not a valid address")
	}
	return nil
}

// UpdateProfile saves the profile, updates the account directory and the
// signed-in user of sessionID so the header shows the new name at once.
func (s *Service) UpdateProfile(ctx context.Context, userID, sessionID string, p Profile) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "settings.profile",
		Success:  "Profile updated successfully",
		Redirect: "/settings",
		Validate: p.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			u, ok := s.dir.Lookup(userID)
			if !ok {
				return nil, store.ErrNotFound
			}
			u.Name = strings.TrimSpace(p.Name)
			u.Email = strings.TrimSpace(p.Email)
			u.Phone = p.Phone
			u.Title = p.Title
			err := s.dir.Update(u)
			switch {
			case errors.Is(err, auth.ErrEmailTaken):
				return nil, form.Invalid("email", "email is already in use")
			case errors.Is(err, auth.ErrUnknownUser):
				return nil, store.ErrNotFound
			case err != nil:
				return nil, err
			}
			if sessionID != "" {
				if err := s.sessions.SetUser(sessionID, &u); err != nil {
					s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh session user")
				}
			}
			return s.save(ctx, userID, func(set *Settings) error {
				set.Profile = Profile{Name: u.Name, Email: u.Email, Phone: u.Phone, Title: u.Title, Department: u.Department}
				return nil
			})
		},
	})
}

func (s *Service) UpdateNotifications(ctx context.Context, userID string, n Notifications) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "settings.notifications",
		Success:  "Notification preferences saved",
		Redirect: "/settings",
		Commit: func(ctx context.Context) (interface{}, error) {
			return s.save(ctx, userID, func(set *Settings) error {
				set.Notifications = n
				return nil
			})
		},
	})
}

func (p Preferences) validate() error {
	if p.Theme != "" && !listing.OneOf(p.Theme, themes...) {
		return form.Invalid("theme", "theme must be one of %s", strings.Join(themes, ", "))
	}
	if p.Language != "" && !listing.OneOf(p.Language, languages...) {
		return form.Invalid("language", "language must be one of %s", strings.Join(languages, ", "))
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return form.Invalid("timezone", "unknown timezone %q", p.Timezone)
		}
	}
	return nil
}

// UpdatePreferences merges the non-blank preferences onto the saved ones.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, p Preferences) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "settings.preferences",
		Success:  "Preferences saved",
		Redirect: "/settings",
		Validate: p.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			return s.save(ctx, userID, func(set *Settings) error {
				form.Merge(&set.Preferences, &p)
				return nil
			})
		},
	})
}

// PasswordInput is the change password form.
type PasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (in PasswordInput) validate() error {
	if err := form.Required(
		form.Field{Name: "currentPassword", Value: in.CurrentPassword},
		form.Field{Name: "newPassword", Value: in.NewPassword},
	); err != nil {
		return err
	}
	if len(in.NewPassword) < MinPasswordLength {
		return form.Invalid("newPassword", "password must be at least %d characters", MinPasswordLength)
	}
	if len(in.NewPassword) > MaxPasswordLength {
		return form.Invalid("newPassword", "password must be at most %d bytes", MaxPasswordLength)
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.NewPassword {
		return form.Invalid("confirmPassword", "passwords do not match")
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, in PasswordInput) form.Result {
	return s.submit.Submit(ctx, form.Action{
		Name:     "settings.password",
		Success:  "Password changed successfully",
		Redirect: "/settings",
		Validate: in.validate,
		Commit: func(ctx context.Context) (interface{}, error) {
			err := s.dir.ChangePassword(userID, in.CurrentPassword, in.NewPassword)
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				return nil, form.Invalid("currentPassword", "current password is incorrect")
			case errors.Is(err, auth.ErrUnknownUser):
				return nil, store.ErrNotFound
			case err != nil:
				return nil, err
			}
			s.logger.Info().Str("user_id", userID).Msg("password changed")
			return nil, nil
		},
	})
}
