package service

import (
	"context"
	"strings"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"

	"go.uber.org/zap"
)

// ProfileService manages the demographic profile a user must complete
// before voting.
type ProfileService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store repository.Store, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// GetProfile returns the user's profile, nil if none exists yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// UpsertProfile creates or replaces the user's demographic profile.
// Age group, gender and warzone come from closed sets; country and city
// are free-form. The vote flags on an existing profile are preserved.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID string, req *domain.ProfileRequest) (*domain.Profile, error) {
	ageGroup := strings.TrimSpace(req.AgeGroup)
	gender := strings.TrimSpace(req.Gender)
	warzoneID := strings.TrimSpace(req.WarzoneID)

	if !contains(domain.AgeGroups, ageGroup) {
		return nil, domain.ErrInvalidAgeGroup
	}
	if !contains(domain.Genders, gender) {
		return nil, domain.ErrInvalidGender
	}
	if !domain.ValidWarzone(warzoneID) {
		return nil, domain.ErrInvalidWarzone
	}

	profile := &domain.Profile{
		UserID:     userID,
		AgeGroup:   ageGroup,
		Gender:     gender,
		WarzoneID:  warzoneID,
		Country:    strings.TrimSpace(req.Country),
		City:       strings.TrimSpace(req.City),
		HasProfile: true,
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	saved, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile saved",
		zap.String("user_id", userID),
		zap.String("warzone_id", warzoneID))

	return saved, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
