package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitvault/habitvault/internal/core/domain"
)

type PreferencesService struct {
	repo domain.PreferencesRepository
}

func NewPreferencesService(repo domain.PreferencesRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

// Get returns the stored preferences, or the defaults for a user who never
// saved any.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrPreferencesNotFound) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("preferences service: failed to load: %w", err)
	}
	return prefs, nil
}

// Update applies a partial patch on top of the current preferences.
func (s *PreferencesService) Update(ctx context.Context, userID string, patch domain.PreferencesPatch) (*domain.Preferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := prefs.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, prefs); err != nil {
		return nil, fmt.Errorf("preferences service: failed to save: %w", err)
	}
	return prefs, nil
}
