package services

import (
	"context"

	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/session"
)

// ProfileService manages the application-owned user record. Profile
// mutations go through here so the session manager can be told to refresh
// its merged user; the identity provider never re-emits on profile edits.
type ProfileService struct {
	profiles domain.ProfileRepository
	provider domain.IdentityProvider
	sessions *session.Manager
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles domain.ProfileRepository, provider domain.IdentityProvider, sessions *session.Manager) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		provider: provider,
		sessions: sessions,
	}
}

// GetProfile returns a user's profile document.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial update and refreshes the live session so
// the merged user and its cache mirror stay coherent.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	if err := s.profiles.UpdateProfile(ctx, userID, fields); err != nil {
		return err
	}
	return s.sessions.RefreshProfile(ctx)
}

// ChangePassword re-authenticates the current password before replacing
// it. A wrong current password surfaces as an AuthError.
func (s *ProfileService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := s.provider.Reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}
	return s.provider.UpdatePassword(ctx, userID, newPassword)
}
