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
	ErrHoleScoreNotFound     = errors.New("hole score not found")
	ErrHoleScoreConflict     = errors.New("hole score already exists for this match, hole and player")
	ErrHoleScoreMatchInvalid = errors.New("hole score match conflict or invalid")
)

type HoleScoreRepository interface {
	Create(ctx context.Context, exec SQLExecutor, score *models.HoleScore) error
	// Upsert writes the row for (match, hole, player), creating it on first
	// submission.
	Upsert(ctx context.Context, exec SQLExecutor, score *models.HoleScore) error
	FindByMatchHolePlayer(ctx context.Context, exec SQLExecutor, matchID, hole, playerID int) (*models.HoleScore, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.HoleScore, error)
	ListByMatchAndPlayer(ctx context.Context, exec SQLExecutor, matchID, playerID int) ([]*models.HoleScore, error)
}

type postgresHoleScoreRepository struct {
	db *sql.DB
}

func NewPostgresHoleScoreRepository(db *sql.DB) HoleScoreRepository {
	return &postgresHoleScoreRepository{db: db}
}

func (r *postgresHoleScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const holeScoreColumns = `id, match_id, hole_number, player_id, team, own_score, own_submitted,
	marker_score, marker_submitted, strokes_received, net_score, validation_status, updated_at`

func (r *postgresHoleScoreRepository) Create(ctx context.Context, exec SQLExecutor, s *models.HoleScore) error {
	query := `
		INSERT INTO hole_scores
			(match_id, hole_number, player_id, team, own_score, own_submitted,
			 marker_score, marker_submitted, strokes_received, net_score, validation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.MatchID, s.HoleNumber, s.PlayerID, s.Team,
		s.OwnScore, s.OwnSubmitted, s.MarkerScore, s.MarkerSubmitted,
		s.StrokesReceived, s.NetScore, s.Validation,
	).Scan(&s.ID, &s.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "hole_scores_match_id_hole_number_player_id_key" {
					return ErrHoleScoreConflict
				}
			case "23503":
				if pqErr.Constraint == "hole_scores_match_id_fkey" {
					return ErrHoleScoreMatchInvalid
				}
			}
		}
		return fmt.Errorf("failed to create hole score: %w", err)
	}
	return nil
}

func (r *postgresHoleScoreRepository) Upsert(ctx context.Context, exec SQLExecutor, s *models.HoleScore) error {
	query := `
		INSERT INTO hole_scores
			(match_id, hole_number, player_id, team, own_score, own_submitted,
			 marker_score, marker_submitted, strokes_received, net_score, validation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (match_id, hole_number, player_id) DO UPDATE
		SET own_score = EXCLUDED.own_score,
		    own_submitted = EXCLUDED.own_submitted,
		    marker_score = EXCLUDED.marker_score,
		    marker_submitted = EXCLUDED.marker_submitted,
		    net_score = EXCLUDED.net_score,
		    validation_status = EXCLUDED.validation_status,
		    updated_at = NOW()
		RETURNING id, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.MatchID, s.HoleNumber, s.PlayerID, s.Team,
		s.OwnScore, s.OwnSubmitted, s.MarkerScore, s.MarkerSubmitted,
		s.StrokesReceived, s.NetScore, s.Validation,
	).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert hole score: %w", err)
	}
	return nil
}

func scanHoleScore(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.HoleScore, error) {
	var s models.HoleScore
	err := rowScanner.Scan(
		&s.ID, &s.MatchID, &s.HoleNumber, &s.PlayerID, &s.Team,
		&s.OwnScore, &s.OwnSubmitted, &s.MarkerScore, &s.MarkerSubmitted,
		&s.StrokesReceived, &s.NetScore, &s.Validation, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHoleScoreNotFound
		}
		return nil, fmt.Errorf("failed to scan hole score: %w", err)
	}
	return &s, nil
}

func (r *postgresHoleScoreRepository) FindByMatchHolePlayer(ctx context.Context, exec SQLExecutor, matchID, hole, playerID int) (*models.HoleScore, error) {
	query := `SELECT ` + holeScoreColumns + ` FROM hole_scores WHERE match_id = $1 AND hole_number = $2 AND player_id = $3`
	return scanHoleScore(r.getExecutor(exec).QueryRowContext(ctx, query, matchID, hole, playerID))
}

func (r *postgresHoleScoreRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.HoleScore, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.HoleScore
	for rows.Next() {
		s, err := scanHoleScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *postgresHoleScoreRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.HoleScore, error) {
	query := `SELECT ` + holeScoreColumns + ` FROM hole_scores WHERE match_id = $1 ORDER BY hole_number, player_id`
	return r.list(ctx, r.getExecutor(exec), query, matchID)
}

func (r *postgresHoleScoreRepository) ListByMatchAndPlayer(ctx context.Context, exec SQLExecutor, matchID, playerID int) ([]*models.HoleScore, error) {
	query := `SELECT ` + holeScoreColumns + ` FROM hole_scores WHERE match_id = $1 AND player_id = $2 ORDER BY hole_number`
	return r.list(ctx, r.getExecutor(exec), query, matchID, playerID)
}
