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
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/roster"
)

type TeamService interface {
	GetTeam(ctx context.Context, id string) (*models.TeamFullModel, error)
	SearchTeams(ctx context.Context, query string, limit int) ([]models.TeamSearchModel, error)
	ListTeamsFull(ctx context.Context, query string, limit int) ([]models.TeamFullModel, error)
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id string, input TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID, personID string) error
	RemoveMember(ctx context.Context, teamID, personID string) error
}

// TeamInput — тело запросов создания и полной замены команды.
type TeamInput struct {
	Name         string  `json:"name"`
	UniversityID *string `json:"university_id"`
	Member1ID    *string `json:"member1_id"`
	Member2ID    *string `json:"member2_id"`
	Member3ID    *string `json:"member3_id"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	limits   Limits
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, limits Limits, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		limits:   limits,
		logger:   logger,
	}
}

// GetTeam загружает строку команды, членства и результаты параллельно и
// собирает из них TeamFullModel.
func (s *teamService) GetTeam(ctx context.Context, id string) (*models.TeamFullModel, error) {
	var (
		row          *models.TeamRow
		memberships  []models.MembershipRow
		performances []models.PerformanceRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.teamRepo.GetRow(gCtx, id)
		if err != nil {
			return err
		}
		row = r
		return nil
	})
	g.Go(func() error {
		m, err := s.teamRepo.ListMemberships(gCtx, id)
		if err != nil {
			return err
		}
		memberships = m
		return nil
	})
	g.Go(func() error {
		p, err := s.teamRepo.ListPerformances(gCtx, id)
		if err != nil {
			return err
		}
		performances = p
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %s: %w", id, err)
	}

	team, err := roster.BuildTeam(row, memberships, performances)
	if err != nil {
		if errors.Is(err, roster.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) SearchTeams(ctx context.Context, query string, limit int) ([]models.TeamSearchModel, error) {
	rows, err := s.teamRepo.ListRows(ctx, query, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	return searchModels(rows), nil
}

// ListTeamsFull is the batch form of GetTeam: one query for the rows, then
// memberships and performances of all of them in parallel.
func (s *teamService) ListTeamsFull(ctx context.Context, query string, limit int) ([]models.TeamFullModel, error) {
	rows, err := s.teamRepo.ListRows(ctx, query, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(rows) == 0 {
		return []models.TeamFullModel{}, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var (
		memberships  []models.MembershipRow
		performances []models.PerformanceRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.teamRepo.ListMembershipsByTeams(gCtx, ids)
		if err != nil {
			return err
		}
		memberships = m
		return nil
	})
	g.Go(func() error {
		p, err := s.teamRepo.ListPerformancesByTeams(gCtx, ids)
		if err != nil {
			return err
		}
		performances = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load team details: %w", err)
	}

	s.logger.Debug("teams assembled",
		slog.Int("teams", len(rows)),
		slog.Int("memberships", len(memberships)),
		slog.Int("performances", len(performances)),
	)
	return roster.BuildAllTeams(rows, memberships, performances), nil
}

func (s *teamService) validate(input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:         name,
		UniversityID: trimOptional(input.UniversityID),
		Member1ID:    trimOptional(input.Member1ID),
		Member2ID:    trimOptional(input.Member2ID),
		Member3ID:    trimOptional(input.Member3ID),
	}

	seen := make(map[string]bool, 3)
	for _, slot := range []*string{team.Member1ID, team.Member2ID, team.Member3ID} {
		if slot == nil {
			continue
		}
		if seen[*slot] {
			return nil, ErrTeamDuplicateSlot
		}
		seen[*slot] = true
	}
	return team, nil
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	team, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamReferenceInvalid) {
			return nil, ErrTeamReferenceInvalid
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.logger.Info("team created", slog.String("team_id", team.ID))
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id string, input TeamInput) (*models.Team, error) {
	team, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	team.ID = id

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamReferenceInvalid):
			return nil, ErrTeamReferenceInvalid
		default:
			return nil, fmt.Errorf("failed to update team %s: %w", id, err)
		}
	}

	updated, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to reload team %s: %w", id, err)
	}
	return updated, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id string) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	s.logger.Info("team deleted", slog.String("team_id", id))
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, personID string) error {
	if err := s.teamRepo.AddMembership(ctx, teamID, personID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamReferenceInvalid):
			return ErrProfileNotFound
		default:
			return fmt.Errorf("failed to add member: %w", err)
		}
	}
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, personID string) error {
	if err := s.teamRepo.RemoveMembership(ctx, teamID, personID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func searchModels(rows []models.TeamRow) []models.TeamSearchModel {
	teams := make([]models.TeamSearchModel, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, roster.SearchModel(r))
	}
	return teams
}
