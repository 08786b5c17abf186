package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Search(ctx context.Context, query string, limit int) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	UpdateLogoKey(ctx context.Context, id string, logoKey *string) error
	Delete(ctx context.Context, id string) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) scanEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	err := rowScanner.Scan(&e.ID, &e.Name, &e.Year, &e.Location, &e.Description, &e.LogoKey, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT id, name, year, location, description, logo_key, created_at FROM events WHERE id = $1`

	e, err := r.scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) Search(ctx context.Context, query string, limit int) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, year, location, description, logo_key, created_at
		FROM events
		WHERE name ILIKE $1 OR location ILIKE $1
		ORDER BY year DESC, name ASC
		LIMIT $2`, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, name, year, location, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, event.ID, event.Name, event.Year, event.Location, event.Description).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `UPDATE events SET name = $1, year = $2, location = $3, description = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, event.Name, event.Year, event.Location, event.Description, event.ID)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateLogoKey(ctx context.Context, id string, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update event logo key: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
