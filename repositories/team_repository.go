package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamReferenceInvalid = errors.New("team references an unknown university or profile")
	ErrMembershipNotFound   = errors.New("team membership not found")
)

type TeamRepository interface {
	GetRow(ctx context.Context, id string) (*models.TeamRow, error)
	ListRows(ctx context.Context, query string, limit int) ([]models.TeamRow, error)
	ListRowsByPerson(ctx context.Context, personID string) ([]models.TeamRow, error)
	ListRowsByUniversity(ctx context.Context, universityID string) ([]models.TeamRow, error)
	ListRowsByIDs(ctx context.Context, ids []string) ([]models.TeamRow, error)

	ListMemberships(ctx context.Context, teamID string) ([]models.MembershipRow, error)
	ListMembershipsByTeams(ctx context.Context, teamIDs []string) ([]models.MembershipRow, error)
	ListPerformances(ctx context.Context, teamID string) ([]models.PerformanceRow, error)
	ListPerformancesByTeams(ctx context.Context, teamIDs []string) ([]models.PerformanceRow, error)

	GetByID(ctx context.Context, id string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id string) error
	AddMembership(ctx context.Context, teamID, personID string) error
	RemoveMembership(ctx context.Context, teamID, personID string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

// teamRowSelect подтягивает университет и три прямых слота одним запросом.
const teamRowSelect = `
	SELECT t.id, t.name, u.name,
	       m1.id, m1.name, m2.id, m2.name, m3.id, m3.name
	FROM teams t
	LEFT JOIN universities u ON u.id = t.university_id
	LEFT JOIN profiles m1 ON m1.id = t.member1_id
	LEFT JOIN profiles m2 ON m2.id = t.member2_id
	LEFT JOIN profiles m3 ON m3.id = t.member3_id`

func memberRef(id, name *string) *models.TeamMemberRef {
	if id == nil && name == nil {
		return nil
	}
	return &models.TeamMemberRef{ID: id, Name: name}
}

func scanTeamRow(rowScanner interface{ Scan(...interface{}) error }) (*models.TeamRow, error) {
	var (
		row                    models.TeamRow
		universityName         *string
		m1ID, m2ID, m3ID       *string
		m1Name, m2Name, m3Name *string
	)
	err := rowScanner.Scan(
		&row.ID, &row.Name, &universityName,
		&m1ID, &m1Name, &m2ID, &m2Name, &m3ID, &m3Name,
	)
	if err != nil {
		return nil, err
	}
	if universityName != nil {
		row.University = &models.UniversityRef{Name: *universityName}
	}
	row.Member1 = memberRef(m1ID, m1Name)
	row.Member2 = memberRef(m2ID, m2Name)
	row.Member3 = memberRef(m3ID, m3Name)
	return &row, nil
}

func (r *postgresTeamRepository) listRows(ctx context.Context, query string, args ...interface{}) ([]models.TeamRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team rows: %w", err)
	}
	defer rows.Close()

	teams := make([]models.TeamRow, 0)
	for rows.Next() {
		row, err := scanTeamRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) GetRow(ctx context.Context, id string) (*models.TeamRow, error) {
	row, err := scanTeamRow(r.db.QueryRowContext(ctx, teamRowSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team row %s: %w", id, err)
	}
	return row, nil
}

func (r *postgresTeamRepository) ListRows(ctx context.Context, query string, limit int) ([]models.TeamRow, error) {
	return r.listRows(ctx, teamRowSelect+`
		WHERE t.name ILIKE $1
		ORDER BY t.name ASC, t.id ASC
		LIMIT $2`, likePattern(query), limit)
}

func (r *postgresTeamRepository) ListRowsByPerson(ctx context.Context, personID string) ([]models.TeamRow, error) {
	return r.listRows(ctx, teamRowSelect+`
		WHERE $1::uuid IN (t.member1_id, t.member2_id, t.member3_id)
		   OR EXISTS (SELECT 1 FROM team_members tm WHERE tm.team_id = t.id AND tm.person_id = $1::uuid)
		ORDER BY t.name ASC`, personID)
}

func (r *postgresTeamRepository) ListRowsByUniversity(ctx context.Context, universityID string) ([]models.TeamRow, error) {
	return r.listRows(ctx, teamRowSelect+`
		WHERE t.university_id = $1
		ORDER BY t.name ASC`, universityID)
}

func (r *postgresTeamRepository) ListRowsByIDs(ctx context.Context, ids []string) ([]models.TeamRow, error) {
	if len(ids) == 0 {
		return []models.TeamRow{}, nil
	}
	return r.listRows(ctx, teamRowSelect+`
		WHERE t.id = ANY($1::uuid[])
		ORDER BY t.name ASC`, pq.Array(ids))
}

const membershipSelect = `
	SELECT tm.team_id, p.id, p.name
	FROM team_members tm
	LEFT JOIN profiles p ON p.id = tm.person_id`

func (r *postgresTeamRepository) listMemberships(ctx context.Context, query string, args ...interface{}) ([]models.MembershipRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.MembershipRow, 0)
	for rows.Next() {
		var (
			m        models.MembershipRow
			id, name *string
		)
		if err := rows.Scan(&m.TeamID, &id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan team membership: %w", err)
		}
		m.Person = memberRef(id, name)
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *postgresTeamRepository) ListMemberships(ctx context.Context, teamID string) ([]models.MembershipRow, error) {
	return r.listMemberships(ctx, membershipSelect+`
		WHERE tm.team_id = $1
		ORDER BY tm.created_at ASC, tm.person_id ASC`, teamID)
}

func (r *postgresTeamRepository) ListMembershipsByTeams(ctx context.Context, teamIDs []string) ([]models.MembershipRow, error) {
	if len(teamIDs) == 0 {
		return []models.MembershipRow{}, nil
	}
	return r.listMemberships(ctx, membershipSelect+`
		WHERE tm.team_id = ANY($1::uuid[])
		ORDER BY tm.created_at ASC, tm.person_id ASC`, pq.Array(teamIDs))
}

const performanceSelect = `
	SELECT tr.team_id, tr.position, c.id, c.name, c.year
	FROM team_results tr
	LEFT JOIN contests c ON c.id = tr.contest_id`

func (r *postgresTeamRepository) listPerformances(ctx context.Context, query string, args ...interface{}) ([]models.PerformanceRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team performances: %w", err)
	}
	defer rows.Close()

	performances := make([]models.PerformanceRow, 0)
	for rows.Next() {
		var (
			p               models.PerformanceRow
			contestID, name *string
			year            *int
		)
		if err := rows.Scan(&p.TeamID, &p.Position, &contestID, &name, &year); err != nil {
			return nil, fmt.Errorf("failed to scan team performance: %w", err)
		}
		if contestID != nil {
			p.Contest = &models.ContestRef{ID: *contestID}
			if name != nil {
				p.Contest.Name = *name
			}
			if year != nil {
				p.Contest.Year = *year
			}
		}
		performances = append(performances, p)
	}
	return performances, rows.Err()
}

func (r *postgresTeamRepository) ListPerformances(ctx context.Context, teamID string) ([]models.PerformanceRow, error) {
	return r.listPerformances(ctx, performanceSelect+`
		WHERE tr.team_id = $1
		ORDER BY c.year DESC NULLS LAST, tr.position ASC`, teamID)
}

func (r *postgresTeamRepository) ListPerformancesByTeams(ctx context.Context, teamIDs []string) ([]models.PerformanceRow, error) {
	if len(teamIDs) == 0 {
		return []models.PerformanceRow{}, nil
	}
	return r.listPerformances(ctx, performanceSelect+`
		WHERE tr.team_id = ANY($1::uuid[])
		ORDER BY c.year DESC NULLS LAST, tr.position ASC`, pq.Array(teamIDs))
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `
		SELECT id, name, university_id, member1_id, member2_id, member3_id, created_at
		FROM teams
		WHERE id = $1`

	var t models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.UniversityID, &t.Member1ID, &t.Member2ID, &t.Member3ID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	query := `
		INSERT INTO teams (id, name, university_id, member1_id, member2_id, member3_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.ID, team.Name, team.UniversityID, team.Member1ID, team.Member2ID, team.Member3ID,
	).Scan(&team.CreatedAt)
	if err != nil {
		return r.mapWriteError(err, "create")
	}
	return nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, university_id = $2, member1_id = $3, member2_id = $4, member3_id = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		team.Name, team.UniversityID, team.Member1ID, team.Member2ID, team.Member3ID, team.ID,
	)
	if err != nil {
		return r.mapWriteError(err, "update")
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) mapWriteError(err error, op string) error {
	switch code, _ := pqCode(err); code {
	case pqForeignKeyViolation, pqInvalidTextRep:
		return ErrTeamReferenceInvalid
	}
	return fmt.Errorf("failed to %s team: %w", op, err)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqInvalidTextRep {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// AddMembership is idempotent: adding an existing member is not an error.
func (r *postgresTeamRepository) AddMembership(ctx context.Context, teamID, personID string) error {
	query := `
		INSERT INTO team_members (team_id, person_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, person_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, teamID, personID)
	if err != nil {
		if code, constraint := pqCode(err); code == pqForeignKeyViolation {
			if constraint == "team_members_team_id_fkey" {
				return ErrTeamNotFound
			}
			return ErrTeamReferenceInvalid
		}
		return fmt.Errorf("failed to add member %s to team %s: %w", personID, teamID, err)
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMembership(ctx context.Context, teamID, personID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1 AND person_id = $2`, teamID, personID)
	if err != nil {
		return fmt.Errorf("failed to remove member %s from team %s: %w", personID, teamID, err)
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}
