package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// minPasswordLength is the shortest password UpdatePassword accepts.
const minPasswordLength = 8

// ProfileStore captures the backend interactions for the profile screen.
type ProfileStore interface {
	GetProfile(ctx context.Context, instituteID string) (Profile, error)
	UpdateProfile(ctx context.Context, instituteID string, input ProfileInput) (Profile, error)
	ChangePassword(ctx context.Context, instituteID string, current, updated string) error
}

// ProfileService handles the institute profile and password forms.
type ProfileService struct {
	store  ProfileStore
	logger *slog.Logger
}

// NewProfileService wires dependencies for profile operations.
func NewProfileService(store ProfileStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: defaultLogger(logger)}
}

// GetProfile fetches the institute account.
func (s *ProfileService) GetProfile(ctx context.Context, instituteID string) (Profile, error) {
	if s == nil || s.store == nil {
		return Profile{}, fmt.Errorf("profile store not configured")
	}
	return s.store.GetProfile(ctx, instituteID)
}

// UpdateProfile validates and submits the profile form.
func (s *ProfileService) UpdateProfile(ctx context.Context, instituteID string, input ProfileInput) (Profile, error) {
	if s == nil || s.store == nil {
		return Profile{}, fmt.Errorf("profile store not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email is not valid")
	}
	if vErr.HasErrors() {
		return Profile{}, vErr
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = email
	return s.store.UpdateProfile(ctx, instituteID, input)
}

// UpdatePassword validates the password form and submits the change.
func (s *ProfileService) UpdatePassword(ctx context.Context, instituteID string, change PasswordChange) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("profile store not configured")
	}

	vErr := &ValidationError{}
	if change.Current == "" {
		vErr.add("current_password", "current password is required")
	}
	if change.New == "" {
		vErr.add("new_password", "new password is required")
	} else if len(change.New) < minPasswordLength {
		vErr.add("new_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if change.Confirm != change.New {
		vErr.add("confirm_password", "passwords do not match")
	}
	if vErr.HasErrors() {
		return vErr
	}

	return s.store.ChangePassword(ctx, instituteID, change.Current, change.New)
}
