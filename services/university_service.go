package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/repositories"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/storage"
)

type UniversityService interface {
	GetUniversity(ctx context.Context, id string) (*models.UniversityDetails, error)
	SearchUniversities(ctx context.Context, query string, limit int) ([]models.University, error)
	CreateUniversity(ctx context.Context, input UniversityInput) (*models.University, error)
	UpdateUniversity(ctx context.Context, id string, input UniversityInput) (*models.University, error)
	DeleteUniversity(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id string, contentType string, reader io.Reader) (*models.University, error)
}

type UniversityInput struct {
	Name    string  `json:"name"`
	Acronym *string `json:"acronym"`
}

type universityService struct {
	universityRepo repositories.UniversityRepository
	profileRepo    repositories.ProfileRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
	limits         Limits
	logger         *slog.Logger
}

func NewUniversityService(
	universityRepo repositories.UniversityRepository,
	profileRepo repositories.ProfileRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	limits Limits,
	logger *slog.Logger,
) UniversityService {
	return &universityService{
		universityRepo: universityRepo,
		profileRepo:    profileRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
		limits:         limits,
		logger:         logger,
	}
}

func (s *universityService) GetUniversity(ctx context.Context, id string) (*models.UniversityDetails, error) {
	var (
		university *models.University
		teams      []models.TeamRow
		profiles   []models.Profile
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.universityRepo.GetByID(gCtx, id)
		if err != nil {
			return err
		}
		university = u
		return nil
	})
	g.Go(func() error {
		t, err := s.teamRepo.ListRowsByUniversity(gCtx, id)
		if err != nil {
			return err
		}
		teams = t
		return nil
	})
	g.Go(func() error {
		p, err := s.profileRepo.ListByUniversity(gCtx, id)
		if err != nil {
			return err
		}
		profiles = p
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrUniversityNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to load university %s: %w", id, err)
	}

	university.LogoURL = logoURL(s.uploader, university.LogoKey)
	// Вложенный университет в профилях дублирует родителя.
	for i := range profiles {
		profiles[i].University = nil
	}
	return &models.UniversityDetails{
		University: *university,
		Teams:      searchModels(teams),
		Profiles:   profiles,
	}, nil
}

func (s *universityService) SearchUniversities(ctx context.Context, query string, limit int) ([]models.University, error) {
	universities, err := s.universityRepo.Search(ctx, query, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search universities: %w", err)
	}
	for i := range universities {
		universities[i].LogoURL = logoURL(s.uploader, universities[i].LogoKey)
	}
	return universities, nil
}

func (s *universityService) CreateUniversity(ctx context.Context, input UniversityInput) (*models.University, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrUniversityNameRequired
	}
	university := &models.University{Name: name, Acronym: trimOptional(input.Acronym)}

	if err := s.universityRepo.Create(ctx, university); err != nil {
		if errors.Is(err, repositories.ErrUniversityNameConflict) {
			return nil, ErrUniversityNameConflict
		}
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	s.logger.Info("university created", slog.String("university_id", university.ID))
	return university, nil
}

func (s *universityService) UpdateUniversity(ctx context.Context, id string, input UniversityInput) (*models.University, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrUniversityNameRequired
	}

	university, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUniversityNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university %s for update: %w", id, err)
	}
	university.Name = name
	university.Acronym = trimOptional(input.Acronym)

	if err := s.universityRepo.Update(ctx, university); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUniversityNotFound):
			return nil, ErrUniversityNotFound
		case errors.Is(err, repositories.ErrUniversityNameConflict):
			return nil, ErrUniversityNameConflict
		default:
			return nil, fmt.Errorf("failed to update university %s: %w", id, err)
		}
	}
	university.LogoURL = logoURL(s.uploader, university.LogoKey)
	return university, nil
}

func (s *universityService) DeleteUniversity(ctx context.Context, id string) error {
	university, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUniversityNotFound) {
			return ErrUniversityNotFound
		}
		return fmt.Errorf("failed to get university %s for deletion: %w", id, err)
	}

	if err := s.universityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrUniversityNotFound) {
			return ErrUniversityNotFound
		}
		return fmt.Errorf("failed to delete university %s: %w", id, err)
	}
	dropLogo(ctx, s.uploader, s.logger, university.LogoKey)
	s.logger.Info("university deleted", slog.String("university_id", id))
	return nil
}

func (s *universityService) UploadLogo(ctx context.Context, id string, contentType string, reader io.Reader) (*models.University, error) {
	university, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUniversityNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university %s: %w", id, err)
	}

	key, err := replaceLogo(ctx, s.uploader, s.logger, "universities", id, university.LogoKey, contentType, reader,
		func(ctx context.Context, key *string) error {
			if err := s.universityRepo.UpdateLogoKey(ctx, id, key); err != nil {
				if errors.Is(err, repositories.ErrUniversityNotFound) {
					return ErrUniversityNotFound
				}
				return fmt.Errorf("failed to save logo key: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	university.LogoKey = &key
	university.LogoURL = logoURL(s.uploader, university.LogoKey)
	s.logger.Info("university logo updated", slog.String("university_id", id), slog.String("key", key))
	return university, nil
}
