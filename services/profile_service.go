package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/repositories"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/storage"
)

type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.ProfileDetails, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error)
	CreateProfile(ctx context.Context, input ProfileInput) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

type ProfileInput struct {
	Name         string  `json:"name"`
	Handle       *string `json:"handle"`
	UniversityID *string `json:"university_id"`
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	teamRepo    repositories.TeamRepository
	uploader    storage.FileUploader
	limits      Limits
	logger      *slog.Logger
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	limits Limits,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		uploader:    uploader,
		limits:      limits,
		logger:      logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.ProfileDetails, error) {
	var (
		profile *models.Profile
		teams   []models.TeamRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profileRepo.GetByID(gCtx, id)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		t, err := s.teamRepo.ListRowsByPerson(gCtx, id)
		if err != nil {
			return err
		}
		teams = t
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
	}

	s.fillUniversityLogo(profile)
	return &models.ProfileDetails{
		Profile: *profile,
		Teams:   searchModels(teams),
	}, nil
}

func (s *profileService) SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	profiles, err := s.profileRepo.Search(ctx, query, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	for i := range profiles {
		s.fillUniversityLogo(&profiles[i])
	}
	return profiles, nil
}

func (s *profileService) fillUniversityLogo(p *models.Profile) {
	if p.University != nil {
		p.University.LogoURL = logoURL(s.uploader, p.University.LogoKey)
	}
}

func (s *profileService) build(input ProfileInput) (*models.Profile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProfileNameRequired
	}
	return &models.Profile{
		Name:         name,
		Handle:       trimOptional(input.Handle),
		UniversityID: trimOptional(input.UniversityID),
	}, nil
}

func (s *profileService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrProfileNotFound):
		return ErrProfileNotFound
	case errors.Is(err, repositories.ErrProfileHandleConflict):
		return ErrProfileHandleConflict
	case errors.Is(err, repositories.ErrProfileUniversityInvalid):
		return ErrProfileUniversity
	}
	return nil
}

func (s *profileService) CreateProfile(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	profile, err := s.build(input)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if mapped := s.mapWriteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	s.logger.Info("profile created", slog.String("profile_id", profile.ID))
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*models.Profile, error) {
	profile, err := s.build(input)
	if err != nil {
		return nil, err
	}
	profile.ID = id
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if mapped := s.mapWriteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update profile %s: %w", id, err)
	}

	updated, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to reload profile %s: %w", id, err)
	}
	s.fillUniversityLogo(updated)
	return updated, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id string) error {
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	s.logger.Info("profile deleted", slog.String("profile_id", id))
	return nil
}
