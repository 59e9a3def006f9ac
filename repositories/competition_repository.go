package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/lib/pq"
)

var (
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition name already exists")
	ErrCompetitionInvalidCreator = errors.New("invalid creator reference")
)

type ListCompetitionsFilter struct {
	CreatorID *int
	Status    *models.CompetitionStatus
	Limit     int
	Offset    int
}

type CompetitionRepository interface {
	Create(ctx context.Context, competition *models.Competition) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error)
	// GetByIDForUpdate locks the competition row for the enclosing
	// transaction, serializing concurrent transitions and capacity checks.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error)
	List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error)
	Update(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error
	UpdateLogoKey(ctx context.Context, competitionID int, logoKey *string) error
	Delete(ctx context.Context, id int) error
	ListForAutoActivation(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const competitionColumns = `id, name, description, start_date, end_date, country_codes, creator_id,
	max_players, play_mode, team_assignment_mode, team_a_name, team_b_name, status, logo_key, created_at`

func (r *postgresCompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions
			(name, description, start_date, end_date, country_codes, creator_id,
			 max_players, play_mode, team_assignment_mode, team_a_name, team_b_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name,
		c.Description,
		c.StartDate,
		c.EndDate,
		pq.Array(c.CountryCodes),
		c.CreatorID,
		c.MaxPlayers,
		c.PlayMode,
		c.AssignmentMode,
		c.TeamAName,
		c.TeamBName,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "competitions_name_key" {
					return ErrCompetitionNameConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "competitions_creator_id_fkey" {
					return ErrCompetitionInvalidCreator
				}
			}
		}
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

func scanCompetition(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Competition, error) {
	var c models.Competition
	err := rowScanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate,
		pq.Array(&c.CountryCodes), &c.CreatorID, &c.MaxPlayers,
		&c.PlayMode, &c.AssignmentMode, &c.TeamAName, &c.TeamBName,
		&c.Status, &c.LogoKey, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to scan competition: %w", err)
	}
	return &c, nil
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`
	return scanCompetition(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1 FOR UPDATE`
	return scanCompetition(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE 1=1`
	args := make([]interface{}, 0, 4)
	argPos := 1

	if filter.CreatorID != nil {
		query += fmt.Sprintf(" AND creator_id = $%d", argPos)
		args = append(args, *filter.CreatorID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	query += " ORDER BY start_date DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	var competitions []models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		competitions = append(competitions, *c)
	}
	return competitions, rows.Err()
}

func (r *postgresCompetitionRepository) Update(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	query := `
		UPDATE competitions
		SET name = $1, description = $2, start_date = $3, end_date = $4, country_codes = $5,
		    max_players = $6, play_mode = $7, team_assignment_mode = $8, team_a_name = $9, team_b_name = $10
		WHERE id = $11`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		c.Name, c.Description, c.StartDate, c.EndDate, pq.Array(c.CountryCodes),
		c.MaxPlayers, c.PlayMode, c.AssignmentMode, c.TeamAName, c.TeamBName, c.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCompetitionNameConflict
		}
		return fmt.Errorf("failed to update competition: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error {
	query := `UPDATE competitions SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update competition status: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateLogoKey(ctx context.Context, competitionID int, logoKey *string) error {
	query := `UPDATE competitions SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, competitionID)
	if err != nil {
		return fmt.Errorf("failed to update competition logo key: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM competitions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete competition: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

// ListForAutoActivation returns draft competitions whose start date has
// passed, for the scheduler to nudge forward.
func (r *postgresCompetitionRepository) ListForAutoActivation(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions
		WHERE status = $1 AND start_date <= NOW()
		FOR UPDATE SKIP LOCKED`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, models.CompetitionDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions for auto activation: %w", err)
	}
	defer rows.Close()

	var competitions []*models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		competitions = append(competitions, c)
	}
	return competitions, rows.Err()
}
