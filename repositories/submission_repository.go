package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

var ErrSubmissionReferenceInvalid = errors.New("submission references an unknown contest, team or problem")

type SubmissionRepository interface {
	ListByContest(ctx context.Context, contestID string) ([]models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) ListByContest(ctx context.Context, contestID string) ([]models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, contest_id, team_id, problem_id, minute, verdict, created_at
		FROM submissions
		WHERE contest_id = $1
		ORDER BY minute ASC, created_at ASC`, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions of contest %s: %w", contestID, err)
	}
	defer rows.Close()

	submissions := make([]models.Submission, 0)
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.ContestID, &s.TeamID, &s.ProblemID, &s.Minute, &s.Verdict, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *postgresSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	query := `
		INSERT INTO submissions (id, contest_id, team_id, problem_id, minute, verdict)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		submission.ID, submission.ContestID, submission.TeamID, submission.ProblemID, submission.Minute, submission.Verdict,
	).Scan(&submission.CreatedAt)
	if err != nil {
		if code, _ := pqCode(err); code == pqForeignKeyViolation || code == pqInvalidTextRep {
			return ErrSubmissionReferenceInvalid
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}
