package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

var (
	ErrContestNotFound     = errors.New("contest not found")
	ErrContestEventInvalid = errors.New("contest event conflict or invalid")
	ErrResultNotFound      = errors.New("contest result not found")
	ErrResultTeamInvalid   = errors.New("contest result team or contest invalid")
)

type ContestRepository interface {
	GetByID(ctx context.Context, id string) (*models.Contest, error)
	// Search; year == nil означает «любой год».
	Search(ctx context.Context, query string, year *int, limit int) ([]models.Contest, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Contest, error)
	Create(ctx context.Context, contest *models.Contest) error
	Update(ctx context.Context, contest *models.Contest) error
	Delete(ctx context.Context, id string) error

	ListResults(ctx context.Context, contestID string) ([]models.ContestResult, error)
	ListTeamIDs(ctx context.Context, contestID string) ([]string, error)
	UpsertResult(ctx context.Context, result *models.ContestResult) error
	DeleteResult(ctx context.Context, contestID, teamID string) error
}

type postgresContestRepository struct {
	db *sql.DB
}

func NewPostgresContestRepository(db *sql.DB) ContestRepository {
	return &postgresContestRepository{db: db}
}

const contestColumns = `id, name, year, event_id, duration_minutes, created_at`

func (r *postgresContestRepository) scanContest(rowScanner interface{ Scan(...interface{}) error }) (*models.Contest, error) {
	var c models.Contest
	if err := rowScanner.Scan(&c.ID, &c.Name, &c.Year, &c.EventID, &c.DurationMinutes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresContestRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Contest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	defer rows.Close()

	contests := make([]models.Contest, 0)
	for rows.Next() {
		c, err := r.scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, *c)
	}
	return contests, rows.Err()
}

func (r *postgresContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	c, err := r.scanContest(r.db.QueryRowContext(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest %s: %w", id, err)
	}
	return c, nil
}

func (r *postgresContestRepository) Search(ctx context.Context, query string, year *int, limit int) ([]models.Contest, error) {
	return r.list(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE name ILIKE $1 AND ($2::int IS NULL OR year = $2)
		ORDER BY year DESC, name ASC
		LIMIT $3`, likePattern(query), year, limit)
}

func (r *postgresContestRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Contest, error) {
	return r.list(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE event_id = $1
		ORDER BY year DESC, name ASC`, eventID)
}

func (r *postgresContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	if contest.ID == "" {
		contest.ID = uuid.NewString()
	}
	query := `
		INSERT INTO contests (id, name, year, event_id, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		contest.ID, contest.Name, contest.Year, contest.EventID, contest.DurationMinutes,
	).Scan(&contest.CreatedAt)
	if err != nil {
		if code, _ := pqCode(err); code == pqForeignKeyViolation || code == pqInvalidTextRep {
			return ErrContestEventInvalid
		}
		return fmt.Errorf("failed to create contest: %w", err)
	}
	return nil
}

func (r *postgresContestRepository) Update(ctx context.Context, contest *models.Contest) error {
	query := `UPDATE contests SET name = $1, year = $2, event_id = $3, duration_minutes = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		contest.Name, contest.Year, contest.EventID, contest.DurationMinutes, contest.ID,
	)
	if err != nil {
		if code, _ := pqCode(err); code == pqForeignKeyViolation || code == pqInvalidTextRep {
			return ErrContestEventInvalid
		}
		return fmt.Errorf("failed to update contest %s: %w", contest.ID, err)
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrContestNotFound
		}
		return fmt.Errorf("failed to delete contest %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) ListResults(ctx context.Context, contestID string) ([]models.ContestResult, error) {
	query := `
		SELECT tr.team_id, t.name, COALESCE(u.name, ''), tr.contest_id, tr.position
		FROM team_results tr
		JOIN teams t ON t.id = tr.team_id
		LEFT JOIN universities u ON u.id = t.university_id
		WHERE tr.contest_id = $1
		ORDER BY tr.position ASC, t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results of contest %s: %w", contestID, err)
	}
	defer rows.Close()

	results := make([]models.ContestResult, 0)
	for rows.Next() {
		var res models.ContestResult
		if err := rows.Scan(&res.TeamID, &res.TeamName, &res.University, &res.ContestID, &res.Position); err != nil {
			return nil, fmt.Errorf("failed to scan contest result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListTeamIDs returns every team that has a result or a submission in the
// contest.
func (r *postgresContestRepository) ListTeamIDs(ctx context.Context, contestID string) ([]string, error) {
	query := `
		SELECT team_id FROM team_results WHERE contest_id = $1
		UNION
		SELECT team_id FROM submissions WHERE contest_id = $1`

	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of contest %s: %w", contestID, err)
	}
	return scanStrings(rows)
}

func (r *postgresContestRepository) UpsertResult(ctx context.Context, result *models.ContestResult) error {
	query := `
		INSERT INTO team_results (team_id, contest_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, contest_id) DO UPDATE SET position = EXCLUDED.position`

	_, err := r.db.ExecContext(ctx, query, result.TeamID, result.ContestID, result.Position)
	if err != nil {
		switch code, _ := pqCode(err); code {
		case pqForeignKeyViolation, pqInvalidTextRep:
			return ErrResultTeamInvalid
		}
		return fmt.Errorf("failed to save result of team %s in contest %s: %w", result.TeamID, result.ContestID, err)
	}
	return nil
}

func (r *postgresContestRepository) DeleteResult(ctx context.Context, contestID, teamID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_results WHERE contest_id = $1 AND team_id = $2`, contestID, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete result of team %s in contest %s: %w", teamID, contestID, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}
