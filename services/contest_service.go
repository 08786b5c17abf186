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
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/scoreboard"
)

// DefaultContestDuration — пять часов, как на ICPC.
const DefaultContestDuration = 300

type ContestService interface {
	GetContest(ctx context.Context, id string) (*models.Contest, error)
	SearchContests(ctx context.Context, query string, year *int, limit int) ([]models.Contest, error)
	CreateContest(ctx context.Context, input ContestInput) (*models.Contest, error)
	UpdateContest(ctx context.Context, id string, input ContestInput) (*models.Contest, error)
	DeleteContest(ctx context.Context, id string) error

	ListResults(ctx context.Context, contestID string) ([]models.ContestResult, error)
	SetResult(ctx context.Context, contestID, teamID string, position int) (*models.ContestResult, error)
	RemoveResult(ctx context.Context, contestID, teamID string) error

	AddProblem(ctx context.Context, contestID string, input ProblemInput) (*models.Problem, error)
	RemoveProblem(ctx context.Context, contestID, problemID string) error

	RecordSubmission(ctx context.Context, contestID string, input SubmissionInput) (*models.Submission, error)
	GetScoreboard(ctx context.Context, contestID string) (*scoreboard.Board, error)
}

type ContestInput struct {
	Name            string  `json:"name"`
	Year            int     `json:"year"`
	EventID         *string `json:"event_id"`
	DurationMinutes int     `json:"duration_minutes"`
}

type ProblemInput struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

type SubmissionInput struct {
	TeamID    string         `json:"team_id"`
	ProblemID string         `json:"problem_id"`
	Minute    int            `json:"minute"`
	Verdict   models.Verdict `json:"verdict"`
}

type contestService struct {
	contestRepo    repositories.ContestRepository
	eventRepo      repositories.EventRepository
	problemRepo    repositories.ProblemRepository
	submissionRepo repositories.SubmissionRepository
	teamRepo       repositories.TeamRepository
	broadcaster    scoreboard.Broadcaster
	limits         Limits
	logger         *slog.Logger
}

// NewContestService; broadcaster may be nil, then scoreboard updates are
// only visible on the next GET.
func NewContestService(
	contestRepo repositories.ContestRepository,
	eventRepo repositories.EventRepository,
	problemRepo repositories.ProblemRepository,
	submissionRepo repositories.SubmissionRepository,
	teamRepo repositories.TeamRepository,
	broadcaster scoreboard.Broadcaster,
	limits Limits,
	logger *slog.Logger,
) ContestService {
	return &contestService{
		contestRepo:    contestRepo,
		eventRepo:      eventRepo,
		problemRepo:    problemRepo,
		submissionRepo: submissionRepo,
		teamRepo:       teamRepo,
		broadcaster:    broadcaster,
		limits:         limits,
		logger:         logger,
	}
}

func (s *contestService) getContest(ctx context.Context, id string) (*models.Contest, error) {
	contest, err := s.contestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest %s: %w", id, err)
	}
	return contest, nil
}

func (s *contestService) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	contest, err := s.getContest(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	if contest.EventID != nil {
		eventID := *contest.EventID
		g.Go(func() error {
			event, err := s.eventRepo.GetByID(gCtx, eventID)
			if err != nil {
				if errors.Is(err, repositories.ErrEventNotFound) {
					s.logger.Warn("contest references missing event",
						slog.String("contest_id", id), slog.String("event_id", eventID))
					return nil
				}
				return err
			}
			contest.Event = event
			return nil
		})
	}
	g.Go(func() error {
		problems, err := s.problemRepo.ListByContest(gCtx, id)
		if err != nil {
			return err
		}
		contest.Problems = problems
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load contest %s details: %w", id, err)
	}
	return contest, nil
}

func (s *contestService) SearchContests(ctx context.Context, query string, year *int, limit int) ([]models.Contest, error) {
	contests, err := s.contestRepo.Search(ctx, query, year, s.limits.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search contests: %w", err)
	}
	return contests, nil
}

func (s *contestService) apply(contest *models.Contest, input ContestInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrContestNameRequired
	}
	if err := validateYear(input.Year); err != nil {
		return err
	}
	duration := input.DurationMinutes
	if duration == 0 {
		duration = DefaultContestDuration
	}
	if duration < 0 {
		return ErrInvalidDuration
	}
	contest.Name = name
	contest.Year = input.Year
	contest.EventID = trimOptional(input.EventID)
	contest.DurationMinutes = duration
	return nil
}

func (s *contestService) CreateContest(ctx context.Context, input ContestInput) (*models.Contest, error) {
	contest := &models.Contest{}
	if err := s.apply(contest, input); err != nil {
		return nil, err
	}
	if err := s.contestRepo.Create(ctx, contest); err != nil {
		if errors.Is(err, repositories.ErrContestEventInvalid) {
			return nil, ErrContestEventInvalid
		}
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}
	s.logger.Info("contest created", slog.String("contest_id", contest.ID))
	return contest, nil
}

func (s *contestService) UpdateContest(ctx context.Context, id string, input ContestInput) (*models.Contest, error) {
	contest, err := s.getContest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(contest, input); err != nil {
		return nil, err
	}
	if err := s.contestRepo.Update(ctx, contest); err != nil {
		switch {
		case errors.Is(err, repositories.ErrContestNotFound):
			return nil, ErrContestNotFound
		case errors.Is(err, repositories.ErrContestEventInvalid):
			return nil, ErrContestEventInvalid
		default:
			return nil, fmt.Errorf("failed to update contest %s: %w", id, err)
		}
	}
	return contest, nil
}

func (s *contestService) DeleteContest(ctx context.Context, id string) error {
	if err := s.contestRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return ErrContestNotFound
		}
		return fmt.Errorf("failed to delete contest %s: %w", id, err)
	}
	s.logger.Info("contest deleted", slog.String("contest_id", id))
	return nil
}

func (s *contestService) ListResults(ctx context.Context, contestID string) ([]models.ContestResult, error) {
	if _, err := s.getContest(ctx, contestID); err != nil {
		return nil, err
	}
	results, err := s.contestRepo.ListResults(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *contestService) SetResult(ctx context.Context, contestID, teamID string, position int) (*models.ContestResult, error) {
	if position <= 0 {
		return nil, ErrInvalidPosition
	}
	if _, err := s.getContest(ctx, contestID); err != nil {
		return nil, err
	}

	result := &models.ContestResult{ContestID: contestID, TeamID: teamID, Position: position}
	if err := s.contestRepo.UpsertResult(ctx, result); err != nil {
		if errors.Is(err, repositories.ErrResultTeamInvalid) {
			return nil, ErrResultTeamInvalid
		}
		return nil, fmt.Errorf("failed to set result: %w", err)
	}
	s.logger.Info("contest result set",
		slog.String("contest_id", contestID),
		slog.String("team_id", teamID),
		slog.Int("position", position),
	)
	return result, nil
}

func (s *contestService) RemoveResult(ctx context.Context, contestID, teamID string) error {
	if err := s.contestRepo.DeleteResult(ctx, contestID, teamID); err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return ErrResultNotFound
		}
		return fmt.Errorf("failed to remove result: %w", err)
	}
	return nil
}

func (s *contestService) AddProblem(ctx context.Context, contestID string, input ProblemInput) (*models.Problem, error) {
	label := strings.ToUpper(strings.TrimSpace(input.Label))
	name := strings.TrimSpace(input.Name)
	if label == "" || name == "" {
		return nil, ErrProblemLabelRequired
	}

	problem := &models.Problem{ContestID: contestID, Label: label, Name: name}
	if err := s.problemRepo.Create(ctx, problem); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProblemContestInvalid):
			return nil, ErrContestNotFound
		case errors.Is(err, repositories.ErrProblemLabelConflict):
			return nil, ErrProblemLabelConflict
		default:
			return nil, fmt.Errorf("failed to add problem: %w", err)
		}
	}
	return problem, nil
}

func (s *contestService) RemoveProblem(ctx context.Context, contestID, problemID string) error {
	if err := s.problemRepo.Delete(ctx, contestID, problemID); err != nil {
		if errors.Is(err, repositories.ErrProblemNotFound) {
			return ErrProblemNotFound
		}
		return fmt.Errorf("failed to remove problem: %w", err)
	}
	s.publish(ctx, contestID)
	return nil
}

func (s *contestService) RecordSubmission(ctx context.Context, contestID string, input SubmissionInput) (*models.Submission, error) {
	if !input.Verdict.IsValid() {
		return nil, ErrInvalidVerdict
	}

	contest, err := s.getContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if input.Minute < 0 || input.Minute > contest.DurationMinutes {
		return nil, ErrInvalidMinute
	}

	problem, err := s.problemRepo.GetByID(ctx, input.ProblemID)
	if err != nil {
		if errors.Is(err, repositories.ErrProblemNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem %s: %w", input.ProblemID, err)
	}
	if problem.ContestID != contestID {
		return nil, ErrProblemNotInContest
	}

	submission := &models.Submission{
		ContestID: contestID,
		TeamID:    input.TeamID,
		ProblemID: problem.ID,
		Minute:    input.Minute,
		Verdict:   input.Verdict,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		if errors.Is(err, repositories.ErrSubmissionReferenceInvalid) {
			return nil, ErrSubmissionInvalid
		}
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	s.publish(ctx, contestID)
	return submission, nil
}

// publish пересчитывает таблицу и рассылает её подписчикам комнаты контеста.
// Ошибки только логируются: посылка уже сохранена.
func (s *contestService) publish(ctx context.Context, contestID string) {
	if s.broadcaster == nil {
		return
	}
	board, err := s.GetScoreboard(ctx, contestID)
	if err != nil {
		s.logger.Error("failed to rebuild scoreboard", slog.String("contest_id", contestID), slog.Any("error", err))
		return
	}
	room := scoreboard.RoomForContest(contestID)
	s.broadcaster.BroadcastToRoom(room, scoreboard.Message{
		Type:    scoreboard.MessageScoreboardUpdated,
		Payload: board,
		RoomID:  room,
	})
}

func (s *contestService) GetScoreboard(ctx context.Context, contestID string) (*scoreboard.Board, error) {
	var (
		problems    []models.Problem
		submissions []models.Submission
		teamIDs     []string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.contestRepo.GetByID(gCtx, contestID)
		return err
	})
	g.Go(func() error {
		p, err := s.problemRepo.ListByContest(gCtx, contestID)
		if err != nil {
			return err
		}
		problems = p
		return nil
	})
	g.Go(func() error {
		sub, err := s.submissionRepo.ListByContest(gCtx, contestID)
		if err != nil {
			return err
		}
		submissions = sub
		return nil
	})
	g.Go(func() error {
		ids, err := s.contestRepo.ListTeamIDs(gCtx, contestID)
		if err != nil {
			return err
		}
		teamIDs = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to load scoreboard of contest %s: %w", contestID, err)
	}

	teams := make([]scoreboard.Team, 0, len(teamIDs))
	if len(teamIDs) > 0 {
		rows, err := s.teamRepo.ListRowsByIDs(ctx, teamIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load scoreboard teams: %w", err)
		}
		for _, r := range rows {
			m := roster.SearchModel(r)
			teams = append(teams, scoreboard.Team{ID: m.ID, Name: m.Name, University: m.University})
		}
	}

	board := scoreboard.Build(contestID, teams, problems, submissions)
	return &board, nil
}
