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
	ErrProfileNotFound          = errors.New("profile not found")
	ErrProfileHandleConflict    = errors.New("profile handle conflict")
	ErrProfileUniversityInvalid = errors.New("profile university conflict or invalid")
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]models.Profile, error)
	ListByUniversity(ctx context.Context, universityID string) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileSelect = `
	SELECT p.id, p.name, p.handle, p.university_id, p.created_at,
	       u.id, u.name, u.acronym, u.logo_key, u.created_at
	FROM profiles p
	LEFT JOIN universities u ON u.id = p.university_id`

func scanProfile(rowScanner interface{ Scan(...interface{}) error }) (*models.Profile, error) {
	var (
		p          models.Profile
		uID, uName *string
		uAcronym   *string
		uLogoKey   *string
		uCreatedAt sql.NullTime
	)
	err := rowScanner.Scan(
		&p.ID, &p.Name, &p.Handle, &p.UniversityID, &p.CreatedAt,
		&uID, &uName, &uAcronym, &uLogoKey, &uCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if uID != nil {
		p.University = &models.University{
			ID:        *uID,
			Name:      derefString(uName),
			Acronym:   uAcronym,
			LogoKey:   uLogoKey,
			CreatedAt: uCreatedAt.Time,
		}
	}
	return &p, nil
}

func (r *postgresProfileRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, profileSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

// Search ищет по имени и по хэндлу.
func (r *postgresProfileRepository) Search(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	return r.list(ctx, profileSelect+`
		WHERE p.name ILIKE $1 OR p.handle ILIKE $1
		ORDER BY p.name ASC, p.id ASC
		LIMIT $2`, likePattern(query), limit)
}

func (r *postgresProfileRepository) ListByUniversity(ctx context.Context, universityID string) ([]models.Profile, error) {
	return r.list(ctx, profileSelect+`
		WHERE p.university_id = $1
		ORDER BY p.name ASC`, universityID)
}

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	query := `
		INSERT INTO profiles (id, name, handle, university_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, profile.ID, profile.Name, profile.Handle, profile.UniversityID).Scan(&profile.CreatedAt)
	if err != nil {
		return r.mapWriteError(err, "create")
	}
	return nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `UPDATE profiles SET name = $1, handle = $2, university_id = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, profile.Name, profile.Handle, profile.UniversityID, profile.ID)
	if err != nil {
		return r.mapWriteError(err, "update")
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) mapWriteError(err error, op string) error {
	switch code, constraint := pqCode(err); code {
	case pqUniqueViolation:
		if constraint == "profiles_handle_key" {
			return ErrProfileHandleConflict
		}
	case pqForeignKeyViolation, pqInvalidTextRep:
		return ErrProfileUniversityInvalid
	}
	return fmt.Errorf("failed to %s profile: %w", op, err)
}

// Delete убирает профиль; прямые слоты команд обнуляются через ON DELETE SET NULL.
func (r *postgresProfileRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
