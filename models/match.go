package models

import (
	"errors"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchWalkover   MatchStatus = "walkover"
	MatchConceded   MatchStatus = "conceded"
)

// TeamSide identifies one of the two Ryder Cup teams.
type TeamSide string

const (
	TeamA TeamSide = "A"
	TeamB TeamSide = "B"
)

var (
	ErrMatchInvalidTeams      = errors.New("match teams must be equal-sized and format-consistent")
	ErrMatchDuplicatePlayer   = errors.New("a player may appear in exactly one team of a match")
	ErrMatchNotScheduled      = errors.New("markers can only be assigned while the match is scheduled")
	ErrMatchNotInProgress     = errors.New("operation requires the match to be in progress")
	ErrMatchAlreadyFinished   = errors.New("match already finished")
	ErrMatchInvalidConcession = errors.New("invalid concession")
)

func (t TeamSide) Opponent() TeamSide {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func IsValidTeamSide(t TeamSide) bool {
	return t == TeamA || t == TeamB
}

// MatchPlayer is an immutable snapshot of a player's standing in one match:
// handicap, tee and the holes where a stroke is received are all baked in at
// match generation time.
type MatchPlayer struct {
	UserID          int      `json:"user_id"`
	Team            TeamSide `json:"team"`
	PlayingHandicap int      `json:"playing_handicap"`
	TeeCategory     string   `json:"tee_category"`
	Gender          *string  `json:"gender,omitempty"`
	StrokeHoles     []int    `json:"stroke_holes"` // hole numbers (1-18) where this player receives a stroke

	User *User `json:"user,omitempty"`
}

// ReceivesStrokeAt reports whether the player gets a stroke on the hole.
func (p MatchPlayer) ReceivesStrokeAt(hole int) bool {
	for _, h := range p.StrokeHoles {
		if h == hole {
			return true
		}
	}
	return false
}

// MarkerAssignment pairs a player with the opponent verifying their scores.
type MarkerAssignment struct {
	PlayerID int `json:"player_id"`
	MarkerID int `json:"marker_id"`
}

// MatchResult is set once a match is decided or finished.
type MatchResult struct {
	Winner *TeamSide `json:"winner,omitempty"` // nil on an all-square finish
	Score  string    `json:"score"`            // conventional notation: "3&2", "1UP", "AS"
}

// Match is one head-to-head within a round.
type Match struct {
	eventRecorder `json:"-"`

	ID          int         `json:"id"`
	RoundID     int         `json:"round_id"`
	MatchNumber int         `json:"match_number"`
	Status      MatchStatus `json:"status"`

	TeamAPlayers []MatchPlayer      `json:"team_a_players"`
	TeamBPlayers []MatchPlayer      `json:"team_b_players"`
	Markers      []MarkerAssignment `json:"markers,omitempty"`

	// SubmittedScorecards holds user IDs that have locked in their card.
	SubmittedScorecards []int        `json:"submitted_scorecards,omitempty"`
	Decided             bool         `json:"decided"`
	Result              *MatchResult `json:"result,omitempty"`
	ConcededBy          *TeamSide    `json:"conceded_by,omitempty"`
	ConcessionReason    *string      `json:"concession_reason,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
}

// ValidateTeams checks team sizes against the round format and that no player
// appears twice.
func (m *Match) ValidateTeams(playersPerTeam int) error {
	if len(m.TeamAPlayers) != playersPerTeam || len(m.TeamBPlayers) != playersPerTeam {
		return fmt.Errorf("%w: want %d per team, got %d/%d",
			ErrMatchInvalidTeams, playersPerTeam, len(m.TeamAPlayers), len(m.TeamBPlayers))
	}
	seen := make(map[int]bool, 2*playersPerTeam)
	for _, p := range append(append([]MatchPlayer{}, m.TeamAPlayers...), m.TeamBPlayers...) {
		if seen[p.UserID] {
			return fmt.Errorf("%w: user %d", ErrMatchDuplicatePlayer, p.UserID)
		}
		seen[p.UserID] = true
	}
	return nil
}

// Players returns both teams in A-then-B order.
func (m *Match) Players() []MatchPlayer {
	all := make([]MatchPlayer, 0, len(m.TeamAPlayers)+len(m.TeamBPlayers))
	all = append(all, m.TeamAPlayers...)
	all = append(all, m.TeamBPlayers...)
	return all
}

// PlayerByID finds a match player, nil when the user is not in the match.
func (m *Match) PlayerByID(userID int) *MatchPlayer {
	for i := range m.TeamAPlayers {
		if m.TeamAPlayers[i].UserID == userID {
			return &m.TeamAPlayers[i]
		}
	}
	for i := range m.TeamBPlayers {
		if m.TeamBPlayers[i].UserID == userID {
			return &m.TeamBPlayers[i]
		}
	}
	return nil
}

func (m *Match) TeamOf(userID int) (TeamSide, bool) {
	for _, p := range m.TeamAPlayers {
		if p.UserID == userID {
			return TeamA, true
		}
	}
	for _, p := range m.TeamBPlayers {
		if p.UserID == userID {
			return TeamB, true
		}
	}
	return "", false
}

func (m *Match) IsFinished() bool {
	return m.Status == MatchCompleted || m.Status == MatchWalkover || m.Status == MatchConceded
}

// SetMarkers is only legal while the match is still scheduled.
func (m *Match) SetMarkers(assignments []MarkerAssignment) error {
	if m.Status != MatchScheduled {
		return fmt.Errorf("%w: status %s", ErrMatchNotScheduled, m.Status)
	}
	m.Markers = assignments
	return nil
}

// MarkerOf returns the user ID marking for the given player.
func (m *Match) MarkerOf(playerID int) (int, bool) {
	for _, a := range m.Markers {
		if a.PlayerID == playerID {
			return a.MarkerID, true
		}
	}
	return 0, false
}

// CardKeepers returns the players whose scores enter the dual-entry
// protocol: those with a marker assigned. In foursomes one partner per team
// keeps the card for the shared ball; in singles and fourball everyone does.
func (m *Match) CardKeepers() []MatchPlayer {
	if len(m.Markers) == 0 {
		return m.Players()
	}
	keepers := make([]MatchPlayer, 0, len(m.Markers))
	for _, p := range m.Players() {
		if _, ok := m.MarkerOf(p.UserID); ok {
			keepers = append(keepers, p)
		}
	}
	return keepers
}

// IsCardKeeper reports whether the user keeps a card in this match.
func (m *Match) IsCardKeeper(userID int) bool {
	if len(m.Markers) == 0 {
		return m.PlayerByID(userID) != nil
	}
	_, ok := m.MarkerOf(userID)
	return ok
}

// Start moves a scheduled match in progress. Called implicitly on the first
// hole-score submission.
func (m *Match) Start() {
	if m.Status == MatchScheduled {
		m.Status = MatchInProgress
	}
}

func (m *Match) HasSubmittedScorecard(userID int) bool {
	for _, id := range m.SubmittedScorecards {
		if id == userID {
			return true
		}
	}
	return false
}

func (m *Match) MarkScorecardSubmitted(userID int) {
	if !m.HasSubmittedScorecard(userID) {
		m.SubmittedScorecards = append(m.SubmittedScorecards, userID)
	}
}

// AllScorecardsSubmitted reports whether every card keeper in the match has
// locked in a card.
func (m *Match) AllScorecardsSubmitted() bool {
	for _, p := range m.CardKeepers() {
		if !m.HasSubmittedScorecard(p.UserID) {
			return false
		}
	}
	return true
}

// Complete finishes the match with the given result. A result frozen at the
// deciding hole survives whatever later holes were recorded.
func (m *Match) Complete(result MatchResult, competitionID, actorID int) error {
	if m.IsFinished() {
		return ErrMatchAlreadyFinished
	}
	if m.Decided && m.Result != nil {
		result = *m.Result
	}
	m.Status = MatchCompleted
	m.Result = &result
	m.recordEvent(EventMatchCompleted, competitionID, actorID, result)
	return nil
}

// Concede awards the match to the opposing team. Legal only in progress.
func (m *Match) Concede(team TeamSide, reason string, competitionID, actorID int) error {
	if m.Status != MatchInProgress {
		return fmt.Errorf("%w: status %s", ErrMatchNotInProgress, m.Status)
	}
	if !IsValidTeamSide(team) {
		return fmt.Errorf("%w: team %q", ErrMatchInvalidConcession, team)
	}
	winner := team.Opponent()
	m.Status = MatchConceded
	m.ConcededBy = &team
	m.ConcessionReason = &reason
	m.Result = &MatchResult{Winner: &winner, Score: "CON"}
	m.recordEvent(EventMatchConceded, competitionID, actorID, m.Result)
	return nil
}

// Walkover administratively awards the match to the named team (no-show by
// the opponents). Allowed before or during play.
func (m *Match) Walkover(winner TeamSide, competitionID, actorID int) error {
	if m.IsFinished() {
		return ErrMatchAlreadyFinished
	}
	if !IsValidTeamSide(winner) {
		return fmt.Errorf("%w: team %q", ErrMatchInvalidConcession, winner)
	}
	w := winner
	m.Status = MatchWalkover
	m.Result = &MatchResult{Winner: &w, Score: "W/O"}
	m.recordEvent(EventMatchWalkover, competitionID, actorID, m.Result)
	return nil
}
