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
	ErrProblemNotFound       = errors.New("problem not found")
	ErrProblemLabelConflict  = errors.New("problem label already used in this contest")
	ErrProblemContestInvalid = errors.New("problem contest conflict or invalid")
)

type ProblemRepository interface {
	GetByID(ctx context.Context, id string) (*models.Problem, error)
	ListByContest(ctx context.Context, contestID string) ([]models.Problem, error)
	Create(ctx context.Context, problem *models.Problem) error
	Delete(ctx context.Context, contestID, id string) error
}

type postgresProblemRepository struct {
	db *sql.DB
}

func NewPostgresProblemRepository(db *sql.DB) ProblemRepository {
	return &postgresProblemRepository{db: db}
}

func (r *postgresProblemRepository) GetByID(ctx context.Context, id string) (*models.Problem, error) {
	var p models.Problem
	err := r.db.QueryRowContext(ctx, `SELECT id, contest_id, label, name FROM problems WHERE id = $1`, id).
		Scan(&p.ID, &p.ContestID, &p.Label, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProblemNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem %s: %w", id, err)
	}
	return &p, nil
}

func (r *postgresProblemRepository) ListByContest(ctx context.Context, contestID string) ([]models.Problem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, contest_id, label, name
		FROM problems
		WHERE contest_id = $1
		ORDER BY label ASC`, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems of contest %s: %w", contestID, err)
	}
	defer rows.Close()

	problems := make([]models.Problem, 0)
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.ContestID, &p.Label, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func (r *postgresProblemRepository) Create(ctx context.Context, problem *models.Problem) error {
	if problem.ID == "" {
		problem.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO problems (id, contest_id, label, name) VALUES ($1, $2, $3, $4)`,
		problem.ID, problem.ContestID, problem.Label, problem.Name,
	)
	if err != nil {
		switch code, constraint := pqCode(err); code {
		case pqUniqueViolation:
			if constraint == "problems_contest_id_label_key" {
				return ErrProblemLabelConflict
			}
		case pqForeignKeyViolation, pqInvalidTextRep:
			return ErrProblemContestInvalid
		}
		return fmt.Errorf("failed to create problem: %w", err)
	}
	return nil
}

func (r *postgresProblemRepository) Delete(ctx context.Context, contestID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1 AND contest_id = $2`, id, contestID)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrProblemNotFound
		}
		return fmt.Errorf("failed to delete problem %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrProblemNotFound)
}
