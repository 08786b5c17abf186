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

type EventService interface {
	GetEvent(ctx context.Context, id string) (*models.EventDetails, error)
	SearchEvents(ctx context.Context, query string, limit int) ([]models.Event, error)
	CreateEvent(ctx context.Context, input EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, input EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id string, contentType string, reader io.Reader) (*models.Event, error)
}

type EventInput struct {
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

type eventService struct {
	eventRepo   repositories.EventRepository
	contestRepo repositories.ContestRepository
	uploader    storage.FileUploader
	limits      Limits
	logger      *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	contestRepo repositories.ContestRepository,
	uploader storage.FileUploader,
	limits Limits,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		contestRepo: contestRepo,
		uploader:    uploader,
		limits:      limits,
		logger:      logger,
	}
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.EventDetails, error) {
	var (
		event    *models.Event
		contests []models.Contest
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := s.eventRepo.GetByID(gCtx, id)
		if err != nil {
			return err
		}
		event = e
		return nil
	})
	g.Go(func() error {
		c, err := s.contestRepo.ListByEvent(gCtx, id)
		if err != nil {
			return err
		}
		contests = c
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}

	event.LogoURL = logoURL(s.uploader, event.LogoKey)
	return &models.EventDetails{Event: *event, Contests: contests}, nil
}

func (s *eventService) SearchEvents(ctx context.Context, query string, limit int) ([]models.Event, error) {
	events, err := s.eventRepo.Search(ctx, query, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	for i := range events {
		events[i].LogoURL = logoURL(s.uploader, events[i].LogoKey)
	}
	return events, nil
}

func (s *eventService) apply(event *models.Event, input EventInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrEventNameRequired
	}
	if err := validateYear(input.Year); err != nil {
		return err
	}
	event.Name = name
	event.Year = input.Year
	event.Location = trimOptional(input.Location)
	event.Description = trimOptional(input.Description)
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	event := &models.Event{}
	if err := s.apply(event, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Info("event created", slog.String("event_id", event.ID))
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, input EventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %s for update: %w", id, err)
	}
	if err := s.apply(event, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}
	event.LogoURL = logoURL(s.uploader, event.LogoKey)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event %s for deletion: %w", id, err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	dropLogo(ctx, s.uploader, s.logger, event.LogoKey)
	s.logger.Info("event deleted", slog.String("event_id", id))
	return nil
}

func (s *eventService) UploadLogo(ctx context.Context, id string, contentType string, reader io.Reader) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}

	key, err := replaceLogo(ctx, s.uploader, s.logger, "events", id, event.LogoKey, contentType, reader,
		func(ctx context.Context, key *string) error {
			if err := s.eventRepo.UpdateLogoKey(ctx, id, key); err != nil {
				if errors.Is(err, repositories.ErrEventNotFound) {
					return ErrEventNotFound
				}
				return fmt.Errorf("failed to save logo key: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	event.LogoKey = &key
	event.LogoURL = logoURL(s.uploader, event.LogoKey)
	s.logger.Info("event logo updated", slog.String("event_id", id), slog.String("key", key))
	return event, nil
}
