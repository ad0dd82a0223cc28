package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// ValidateProfile checks the bounds the HTTP layer also enforces, for callers that bypass it.
func ValidateProfile(p domain.UserProfile) error {
	if strings.TrimSpace(string(p.Goal)) == "" {
		return fmt.Errorf("%w: goal is required", ErrInvalidProfile)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("%w: days_per_week must be between 1 and 7, got %d", ErrInvalidProfile, p.DaysPerWeek)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidProfile)
	}
	return nil
}

// ProfileService stores the training profile a user's weekly plans are generated from.
type ProfileService interface {
	SaveProfile(ctx context.Context, userID string, profile domain.UserProfile) (*domain.StoredProfile, error)
	GetProfile(ctx context.Context, userID string) (*domain.StoredProfile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	log         *logger.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, log *logger.Logger) ProfileService {
	if log == nil {
		log = logger.Nop()
	}
	return &profileService{
		profileRepo: profileRepo,
		log:         log.With("service", "ProfileService"),
	}
}

func (s *profileService) SaveProfile(ctx context.Context, userID string, profile domain.UserProfile) (*domain.StoredProfile, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	stored, err := s.profileRepo.Upsert(ctx, userID, profile)
	if err != nil {
		s.log.Error("Failed to save profile", "userId", userID, "error", err)
		return nil, err
	}
	return stored, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	stored, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return stored, nil
}
