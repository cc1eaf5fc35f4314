package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/repository"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("profile already exists for this user")
	ErrProfileAccessDenied = errors.New("access denied to modify this profile")
	ErrInvalidExperience   = errors.New("experience must be beginner, intermediate or advanced")
)

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Experience           domain.Experience
	Goals                []string
	Equipment            []string
	Constraints          []string
	PreferredDurationMin int
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Create(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error)
	Update(ctx context.Context, userID string, profileID primitive.ObjectID, in ProfileInput) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

func (s *profileService) Create(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error) {
	if in.Experience != "" && !in.Experience.Valid() {
		return nil, ErrInvalidExperience
	}
	p := &domain.Profile{UserID: userID}
	apply(p, in)
	if _, err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProfileExists
		}
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, profileID primitive.ObjectID, in ProfileInput) (*domain.Profile, error) {
	if in.Experience != "" && !in.Experience.Valid() {
		return nil, ErrInvalidExperience
	}
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Persistence(err)
	}
	if p.UserID != userID {
		return nil, ErrProfileAccessDenied
	}
	apply(p, in)
	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

// apply copies the set fields of in onto p. Zero fields leave p unchanged.
func apply(p *domain.Profile, in ProfileInput) {
	if in.Experience != "" {
		p.Experience = in.Experience
	}
	if in.Goals != nil {
		p.Goals = in.Goals
	}
	if in.Equipment != nil {
		p.Equipment = in.Equipment
	}
	if in.Constraints != nil {
		p.Constraints = in.Constraints
	}
	if in.PreferredDurationMin > 0 {
		p.PreferredDurationMin = in.PreferredDurationMin
	}
}
