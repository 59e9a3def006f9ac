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
	ErrTeamAssignmentNotFound = errors.New("team assignment not found")
	ErrTeamAssignmentConflict = errors.New("team assignment already exists for this competition")
)

type TeamAssignmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, assignment *models.TeamAssignment) error
	FindByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (*models.TeamAssignment, error)
	Delete(ctx context.Context, exec SQLExecutor, competitionID int) error
}

type postgresTeamAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresTeamAssignmentRepository(db *sql.DB) TeamAssignmentRepository {
	return &postgresTeamAssignmentRepository{db: db}
}

func (r *postgresTeamAssignmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamAssignmentRepository) Create(ctx context.Context, exec SQLExecutor, a *models.TeamAssignment) error {
	query := `
		INSERT INTO team_assignments (competition_id, mode, team_a_user_ids, team_b_user_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		a.CompetitionID, a.Mode, pq.Array(a.TeamAUserIDs), pq.Array(a.TeamBUserIDs),
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "team_assignments_competition_id_key" {
				return ErrTeamAssignmentConflict
			}
		}
		return fmt.Errorf("failed to create team assignment: %w", err)
	}
	return nil
}

func (r *postgresTeamAssignmentRepository) FindByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (*models.TeamAssignment, error) {
	query := `
		SELECT id, competition_id, mode, team_a_user_ids, team_b_user_ids, created_at
		FROM team_assignments WHERE competition_id = $1`

	var a models.TeamAssignment
	err := r.getExecutor(exec).QueryRowContext(ctx, query, competitionID).Scan(
		&a.ID, &a.CompetitionID, &a.Mode,
		pq.Array(&a.TeamAUserIDs), pq.Array(&a.TeamBUserIDs), &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to scan team assignment: %w", err)
	}
	return &a, nil
}

func (r *postgresTeamAssignmentRepository) Delete(ctx context.Context, exec SQLExecutor, competitionID int) error {
	query := `DELETE FROM team_assignments WHERE competition_id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, competitionID)
	if err != nil {
		return fmt.Errorf("failed to delete team assignment: %w", err)
	}
	return checkAffectedRows(result, ErrTeamAssignmentNotFound)
}
