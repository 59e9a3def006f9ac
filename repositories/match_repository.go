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
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchRoundInvalid = errors.New("match round conflict or invalid")
)

type MatchRepository interface {
	// Create persists the match together with its player rows, markers and
	// baked-in handicap data.
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// FindByIDForUpdate locks the match row, serializing concurrent score
	// submissions on the same match.
	FindByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByRound(ctx context.Context, exec SQLExecutor, roundID int) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	MarkScorecardSubmitted(ctx context.Context, exec SQLExecutor, matchID, userID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, round_id, match_number, status, decided, winner, score, conceded_by, concession_reason, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO matches (round_id, match_number, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, m.RoundID, m.MatchNumber, m.Status).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "matches_round_id_fkey" {
				return ErrMatchRoundInvalid
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}

	playerQuery := `
		INSERT INTO match_players (match_id, user_id, team, playing_handicap, tee_category, gender, stroke_holes, marker_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, p := range m.Players() {
		var markerID *int
		if id, ok := m.MarkerOf(p.UserID); ok {
			markerID = &id
		}
		if _, err := executor.ExecContext(ctx, playerQuery,
			m.ID, p.UserID, p.Team, p.PlayingHandicap, p.TeeCategory, p.Gender,
			pq.Array(p.StrokeHoles), markerID,
		); err != nil {
			return fmt.Errorf("failed to create match player %d: %w", p.UserID, err)
		}
	}
	return nil
}

func scanMatch(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Match, error) {
	var m models.Match
	var winner, score, concededBy *string
	err := rowScanner.Scan(
		&m.ID, &m.RoundID, &m.MatchNumber, &m.Status, &m.Decided,
		&winner, &score, &concededBy, &m.ConcessionReason, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	if score != nil {
		result := models.MatchResult{Score: *score}
		if winner != nil {
			w := models.TeamSide(*winner)
			result.Winner = &w
		}
		m.Result = &result
	}
	if concededBy != nil {
		side := models.TeamSide(*concededBy)
		m.ConcededBy = &side
	}
	return &m, nil
}

func (r *postgresMatchRepository) loadPlayers(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		SELECT user_id, team, playing_handicap, tee_category, gender, stroke_holes, marker_user_id, scorecard_submitted
		FROM match_players WHERE match_id = $1 ORDER BY team, user_id`

	rows, err := exec.QueryContext(ctx, query, m.ID)
	if err != nil {
		return fmt.Errorf("failed to load match players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.MatchPlayer
		var markerID *int
		var submitted bool
		if err := rows.Scan(&p.UserID, &p.Team, &p.PlayingHandicap, &p.TeeCategory, &p.Gender,
			pq.Array(&p.StrokeHoles), &markerID, &submitted); err != nil {
			return fmt.Errorf("failed to scan match player: %w", err)
		}
		if p.Team == models.TeamA {
			m.TeamAPlayers = append(m.TeamAPlayers, p)
		} else {
			m.TeamBPlayers = append(m.TeamBPlayers, p)
		}
		if markerID != nil {
			m.Markers = append(m.Markers, models.MarkerAssignment{PlayerID: p.UserID, MarkerID: *markerID})
		}
		if submitted {
			m.SubmittedScorecards = append(m.SubmittedScorecards, p.UserID)
		}
	}
	return rows.Err()
}

func (r *postgresMatchRepository) findByID(ctx context.Context, exec SQLExecutor, id int, forUpdate bool) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPlayers(ctx, exec, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.findByID(ctx, r.getExecutor(exec), id, false)
}

func (r *postgresMatchRepository) FindByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.findByID(ctx, r.getExecutor(exec), id, true)
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, exec SQLExecutor, roundID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE round_id = $1 ORDER BY match_number`

	rows, err := executor.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range matches {
		if err := r.loadPlayers(ctx, executor, m); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	var winner, score, concededBy *string
	if m.Result != nil {
		s := m.Result.Score
		score = &s
		if m.Result.Winner != nil {
			w := string(*m.Result.Winner)
			winner = &w
		}
	}
	if m.ConcededBy != nil {
		c := string(*m.ConcededBy)
		concededBy = &c
	}

	query := `
		UPDATE matches
		SET status = $1, decided = $2, winner = $3, score = $4, conceded_by = $5, concession_reason = $6
		WHERE id = $7`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		m.Status, m.Decided, winner, score, concededBy, m.ConcessionReason, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MarkScorecardSubmitted(ctx context.Context, exec SQLExecutor, matchID, userID int) error {
	query := `UPDATE match_players SET scorecard_submitted = TRUE WHERE match_id = $1 AND user_id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark scorecard submitted: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
