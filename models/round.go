package models

import (
	"errors"
	"fmt"
	"time"
)

type SessionType string

const (
	SessionMorning   SessionType = "morning"
	SessionAfternoon SessionType = "afternoon"
	SessionEvening   SessionType = "evening"
)

type MatchFormat string

const (
	FormatSingles   MatchFormat = "singles"
	FormatFourball  MatchFormat = "fourball"
	FormatFoursomes MatchFormat = "foursomes"
)

// HandicapMode only applies to singles rounds; fourball and foursomes have a
// single WHS treatment each.
type HandicapMode string

const (
	HandicapStrokePlay HandicapMode = "stroke_play"
	HandicapMatchPlay  HandicapMode = "match_play"
)

type RoundStatus string

const (
	RoundPendingTeams   RoundStatus = "pending_teams"
	RoundPendingMatches RoundStatus = "pending_matches"
	RoundScheduled      RoundStatus = "scheduled"
	RoundInProgress     RoundStatus = "in_progress"
	RoundCompleted      RoundStatus = "completed"
)

const (
	AllowanceMin  = 50
	AllowanceMax  = 100
	AllowanceStep = 5
)

var (
	ErrRoundInvalidTransition   = errors.New("invalid round status transition")
	ErrRoundInvalidAllowance    = errors.New("allowance percentage must be between 50 and 100 in steps of 5")
	ErrRoundInvalidFormat       = errors.New("invalid match format")
	ErrRoundInvalidSession      = errors.New("invalid session type")
	ErrRoundHandicapModeSingles = errors.New("handicap mode only applies to singles rounds")
)

var roundTransitions = map[RoundStatus][]RoundStatus{
	RoundPendingTeams:   {RoundPendingMatches},
	RoundPendingMatches: {RoundScheduled},
	RoundScheduled:      {RoundInProgress},
	RoundInProgress:     {RoundCompleted},
	RoundCompleted:      {},
}

// Round is one scheduled session of matches within a competition.
type Round struct {
	ID            int           `json:"id"`
	CompetitionID int           `json:"competition_id"`
	CourseID      int           `json:"course_id"`
	Date          time.Time     `json:"date"`
	Session       SessionType   `json:"session_type"`
	Format        MatchFormat   `json:"match_format"`
	Status        RoundStatus   `json:"status"`
	HandicapMode  *HandicapMode `json:"handicap_mode,omitempty"`
	// AllowanceOverride replaces the WHS format default when set.
	AllowanceOverride *int      `json:"allowance_override,omitempty"`
	CreatedAt         time.Time `json:"created_at"`

	Course  *GolfCourse `json:"course,omitempty"`
	Matches []Match     `json:"matches,omitempty"`
}

func IsValidMatchFormat(f MatchFormat) bool {
	return f == FormatSingles || f == FormatFourball || f == FormatFoursomes
}

func IsValidSessionType(s SessionType) bool {
	return s == SessionMorning || s == SessionAfternoon || s == SessionEvening
}

func ValidateAllowanceOverride(pct int) error {
	if pct < AllowanceMin || pct > AllowanceMax || pct%AllowanceStep != 0 {
		return fmt.Errorf("%w: got %d", ErrRoundInvalidAllowance, pct)
	}
	return nil
}

// Validate checks field invariants at creation time.
func (r *Round) Validate() error {
	if !IsValidMatchFormat(r.Format) {
		return fmt.Errorf("%w: %q", ErrRoundInvalidFormat, r.Format)
	}
	if !IsValidSessionType(r.Session) {
		return fmt.Errorf("%w: %q", ErrRoundInvalidSession, r.Session)
	}
	if r.HandicapMode != nil && r.Format != FormatSingles {
		return ErrRoundHandicapModeSingles
	}
	if r.AllowanceOverride != nil {
		if err := ValidateAllowanceOverride(*r.AllowanceOverride); err != nil {
			return err
		}
	}
	return nil
}

func (r *Round) CanTransitionTo(next RoundStatus) bool {
	for _, allowed := range roundTransitions[r.Status] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (r *Round) TransitionTo(next RoundStatus) error {
	if !r.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrRoundInvalidTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

// PlayersPerTeam returns the team size a match in this round needs.
func (r *Round) PlayersPerTeam() int {
	if r.Format == FormatSingles {
		return 1
	}
	return 2
}
