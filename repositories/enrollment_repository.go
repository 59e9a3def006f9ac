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
	ErrEnrollmentNotFound           = errors.New("enrollment not found")
	ErrEnrollmentConflict           = errors.New("enrollment conflict: user already enrolled in this competition")
	ErrEnrollmentUserInvalid        = errors.New("enrollment user conflict or invalid")
	ErrEnrollmentCompetitionInvalid = errors.New("enrollment competition conflict or invalid")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error
	FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Enrollment, error)
	FindByUserAndCompetition(ctx context.Context, exec SQLExecutor, userID, competitionID int) (*models.Enrollment, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, statusFilter *models.EnrollmentStatus) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EnrollmentStatus) error
	UpdateCustomHandicap(ctx context.Context, exec SQLExecutor, id int, handicap *float64) error
	UpdateTeam(ctx context.Context, exec SQLExecutor, id int, team *string) error
	// CountApprovedByCompetition is the capacity check. Callers holding the
	// competition row lock get a stable count for the whole transaction.
	CountApprovedByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (int, error)
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const enrollmentColumns = `id, competition_id, user_id, status, custom_handicap, team_id, created_at, updated_at`

func (r *postgresEnrollmentRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (competition_id, user_id, status, custom_handicap, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		e.CompetitionID,
		e.UserID,
		e.Status,
		e.CustomHandicap,
		e.TeamID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "enrollments_competition_id_user_id_key" {
					return ErrEnrollmentConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "enrollments_user_id_fkey":
					return ErrEnrollmentUserInvalid
				case "enrollments_competition_id_fkey":
					return ErrEnrollmentCompetitionInvalid
				}
			}
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func scanEnrollment(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Enrollment, error) {
	var e models.Enrollment
	err := rowScanner.Scan(
		&e.ID, &e.CompetitionID, &e.UserID, &e.Status,
		&e.CustomHandicap, &e.TeamID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}
	return &e, nil
}

func (r *postgresEnrollmentRepository) FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return scanEnrollment(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresEnrollmentRepository) FindByUserAndCompetition(ctx context.Context, exec SQLExecutor, userID, competitionID int) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 AND competition_id = $2`
	return scanEnrollment(r.getExecutor(exec).QueryRowContext(ctx, query, userID, competitionID))
}

func (r *postgresEnrollmentRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, statusFilter *models.EnrollmentStatus) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE competition_id = $1`
	args := []interface{}{competitionID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *postgresEnrollmentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EnrollmentStatus) error {
	query := `UPDATE enrollments SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) UpdateCustomHandicap(ctx context.Context, exec SQLExecutor, id int, handicap *float64) error {
	query := `UPDATE enrollments SET custom_handicap = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, handicap, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment custom handicap: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, id int, team *string) error {
	query := `UPDATE enrollments SET team_id = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, team, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment team: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) CountApprovedByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (int, error) {
	query := `SELECT COUNT(*) FROM enrollments WHERE competition_id = $1 AND status = $2`
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, competitionID, models.EnrollmentApproved).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved enrollments: %w", err)
	}
	return count, nil
}
