package models

import (
	"errors"
	"fmt"
	"time"
)

// ScoreValidationStatus reflects the dual-entry agreement state of one hole.
type ScoreValidationStatus string

const (
	ValidationPending  ScoreValidationStatus = "pending"
	ValidationMatch    ScoreValidationStatus = "match"
	ValidationMismatch ScoreValidationStatus = "mismatch"
)

// ScoreRole says which side of the dual entry a submission writes.
type ScoreRole string

const (
	RoleOwn    ScoreRole = "own"
	RoleMarker ScoreRole = "marker"
)

const (
	HoleMin       = 1
	HoleMax       = 18
	GrossScoreMin = 1
	GrossScoreMax = 9
)

var (
	ErrHoleNumberOutOfRange = errors.New("hole number must be between 1 and 18")
	ErrScoreOutOfRange      = errors.New("hole score must be between 1 and 9, or null for a picked-up ball")
	ErrInvalidScoreRole     = errors.New("score role must be own or marker")
)

// HoleScore holds the dual-entry record for one player on one hole. The
// player enters their own score, their marker independently enters what they
// observed, and the hole only counts once both agree.
type HoleScore struct {
	ID         int      `json:"id"`
	MatchID    int      `json:"match_id"`
	HoleNumber int      `json:"hole_number"`
	PlayerID   int      `json:"player_id"`
	Team       TeamSide `json:"team"`

	OwnScore        *int `json:"own_score,omitempty"` // nil = picked up
	OwnSubmitted    bool `json:"own_submitted"`
	MarkerScore     *int `json:"marker_score,omitempty"`
	MarkerSubmitted bool `json:"marker_submitted"`

	StrokesReceived int  `json:"strokes_received"` // 0 or 1, precomputed from the player's stroke holes
	NetScore        *int `json:"net_score,omitempty"`

	Validation ScoreValidationStatus `json:"validation_status"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func ValidateHoleNumber(hole int) error {
	if hole < HoleMin || hole > HoleMax {
		return fmt.Errorf("%w: got %d", ErrHoleNumberOutOfRange, hole)
	}
	return nil
}

func ValidateGrossScore(score *int) error {
	if score == nil {
		return nil // picked up
	}
	if *score < GrossScoreMin || *score > GrossScoreMax {
		return fmt.Errorf("%w: got %d", ErrScoreOutOfRange, *score)
	}
	return nil
}

// SetScore writes one side of the dual entry and recomputes validation.
// A locked side (scorecard already submitted for that role) silently keeps
// its value; lock checks belong to the caller, which knows the match state.
func (h *HoleScore) SetScore(role ScoreRole, score *int) error {
	if err := ValidateGrossScore(score); err != nil {
		return err
	}
	switch role {
	case RoleOwn:
		h.OwnScore = score
		h.OwnSubmitted = true
	case RoleMarker:
		h.MarkerScore = score
		h.MarkerSubmitted = true
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScoreRole, role)
	}
	h.RecalculateValidation()
	return nil
}

// RecalculateValidation derives the validation status from the two entries.
// Idempotent: applying it twice to an unchanged score yields the same state.
func (h *HoleScore) RecalculateValidation() {
	switch {
	case !h.OwnSubmitted || !h.MarkerSubmitted:
		h.Validation = ValidationPending
	case scoresEqual(h.OwnScore, h.MarkerScore):
		h.Validation = ValidationMatch
	default:
		h.Validation = ValidationMismatch
	}
	h.calculateNetScore()
}

// calculateNetScore computes own score minus strokes received, floored at 0.
// Only meaningful once both entries agree; a picked-up ball has no net score.
func (h *HoleScore) calculateNetScore() {
	if h.Validation != ValidationMatch || h.OwnScore == nil {
		h.NetScore = nil
		return
	}
	net := *h.OwnScore - h.StrokesReceived
	if net < 0 {
		net = 0
	}
	h.NetScore = &net
}

func scoresEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
