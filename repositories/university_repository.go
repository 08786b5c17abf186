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
	ErrUniversityNotFound     = errors.New("university not found")
	ErrUniversityNameConflict = errors.New("university name conflict")
)

type UniversityRepository interface {
	GetByID(ctx context.Context, id string) (*models.University, error)
	Search(ctx context.Context, query string, limit int) ([]models.University, error)
	Create(ctx context.Context, university *models.University) error
	Update(ctx context.Context, university *models.University) error
	UpdateLogoKey(ctx context.Context, id string, logoKey *string) error
	Delete(ctx context.Context, id string) error
}

type postgresUniversityRepository struct {
	db *sql.DB
}

func NewPostgresUniversityRepository(db *sql.DB) UniversityRepository {
	return &postgresUniversityRepository{db: db}
}

func (r *postgresUniversityRepository) GetByID(ctx context.Context, id string) (*models.University, error) {
	query := `SELECT id, name, acronym, logo_key, created_at FROM universities WHERE id = $1`

	var u models.University
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Acronym, &u.LogoKey, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUniversityNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university %s: %w", id, err)
	}
	return &u, nil
}

func (r *postgresUniversityRepository) Search(ctx context.Context, query string, limit int) ([]models.University, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, acronym, logo_key, created_at
		FROM universities
		WHERE name ILIKE $1 OR acronym ILIKE $1
		ORDER BY name ASC
		LIMIT $2`, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search universities: %w", err)
	}
	defer rows.Close()

	universities := make([]models.University, 0)
	for rows.Next() {
		var u models.University
		if err := rows.Scan(&u.ID, &u.Name, &u.Acronym, &u.LogoKey, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan university: %w", err)
		}
		universities = append(universities, u)
	}
	return universities, rows.Err()
}

func (r *postgresUniversityRepository) Create(ctx context.Context, university *models.University) error {
	if university.ID == "" {
		university.ID = uuid.NewString()
	}
	query := `INSERT INTO universities (id, name, acronym) VALUES ($1, $2, $3) RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, university.ID, university.Name, university.Acronym).Scan(&university.CreatedAt)
	if err != nil {
		if code, constraint := pqCode(err); code == pqUniqueViolation && constraint == "universities_name_key" {
			return ErrUniversityNameConflict
		}
		return fmt.Errorf("failed to create university: %w", err)
	}
	return nil
}

func (r *postgresUniversityRepository) Update(ctx context.Context, university *models.University) error {
	query := `UPDATE universities SET name = $1, acronym = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, university.Name, university.Acronym, university.ID)
	if err != nil {
		if code, constraint := pqCode(err); code == pqUniqueViolation && constraint == "universities_name_key" {
			return ErrUniversityNameConflict
		}
		return fmt.Errorf("failed to update university %s: %w", university.ID, err)
	}
	return checkAffectedRows(result, ErrUniversityNotFound)
}

func (r *postgresUniversityRepository) UpdateLogoKey(ctx context.Context, id string, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE universities SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update university logo key: %w", err)
	}
	return checkAffectedRows(result, ErrUniversityNotFound)
}

// Delete: teams и profiles ссылаются с ON DELETE SET NULL.
func (r *postgresUniversityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM universities WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrUniversityNotFound
		}
		return fmt.Errorf("failed to delete university %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrUniversityNotFound)
}
