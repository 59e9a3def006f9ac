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
	ErrRoundNotFound           = errors.New("round not found")
	ErrRoundCompetitionInvalid = errors.New("round competition conflict or invalid")
	ErrRoundCourseInvalid      = errors.New("round golf course conflict or invalid")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Round, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RoundStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const roundColumns = `id, competition_id, course_id, date, session_type, match_format, status, handicap_mode, allowance_override, created_at`

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `
		INSERT INTO rounds (competition_id, course_id, date, session_type, match_format, status, handicap_mode, allowance_override)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		round.CompetitionID,
		round.CourseID,
		round.Date,
		round.Session,
		round.Format,
		round.Status,
		round.HandicapMode,
		round.AllowanceOverride,
	).Scan(&round.ID, &round.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "rounds_competition_id_fkey":
				return ErrRoundCompetitionInvalid
			case "rounds_course_id_fkey":
				return ErrRoundCourseInvalid
			}
		}
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func scanRound(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Round, error) {
	var round models.Round
	err := rowScanner.Scan(
		&round.ID, &round.CompetitionID, &round.CourseID, &round.Date,
		&round.Session, &round.Format, &round.Status,
		&round.HandicapMode, &round.AllowanceOverride, &round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &round, nil
}

func (r *postgresRoundRepository) FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	return scanRound(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE competition_id = $1 ORDER BY date, id`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*models.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RoundStatus) error {
	query := `UPDATE rounds SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM rounds WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
