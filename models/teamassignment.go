package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTeamAssignmentOverlap   = errors.New("a player cannot be on both teams")
	ErrTeamAssignmentDuplicate = errors.New("a player cannot appear twice in a team")
	ErrTeamAssignmentSizes     = errors.New("teams must be the same size")
	ErrTeamAssignmentEmpty     = errors.New("team assignment requires at least one player per team")
)

// TeamAssignment records the A/B split for a competition.
type TeamAssignment struct {
	ID            int                `json:"id"`
	CompetitionID int                `json:"competition_id"`
	Mode          TeamAssignmentMode `json:"mode"`
	TeamAUserIDs  []int              `json:"team_a_user_ids"`
	TeamBUserIDs  []int              `json:"team_b_user_ids"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Validate enforces disjoint, duplicate-free, equal-size teams.
func (t *TeamAssignment) Validate() error {
	if len(t.TeamAUserIDs) == 0 || len(t.TeamBUserIDs) == 0 {
		return ErrTeamAssignmentEmpty
	}
	if len(t.TeamAUserIDs) != len(t.TeamBUserIDs) {
		return fmt.Errorf("%w: %d vs %d", ErrTeamAssignmentSizes, len(t.TeamAUserIDs), len(t.TeamBUserIDs))
	}
	seenA := make(map[int]bool, len(t.TeamAUserIDs))
	for _, id := range t.TeamAUserIDs {
		if seenA[id] {
			return fmt.Errorf("%w: user %d in team A", ErrTeamAssignmentDuplicate, id)
		}
		seenA[id] = true
	}
	seenB := make(map[int]bool, len(t.TeamBUserIDs))
	for _, id := range t.TeamBUserIDs {
		if seenB[id] {
			return fmt.Errorf("%w: user %d in team B", ErrTeamAssignmentDuplicate, id)
		}
		if seenA[id] {
			return fmt.Errorf("%w: user %d", ErrTeamAssignmentOverlap, id)
		}
		seenB[id] = true
	}
	return nil
}

// TeamOf reports which side a user landed on.
func (t *TeamAssignment) TeamOf(userID int) (TeamSide, bool) {
	for _, id := range t.TeamAUserIDs {
		if id == userID {
			return TeamA, true
		}
	}
	for _, id := range t.TeamBUserIDs {
		if id == userID {
			return TeamB, true
		}
	}
	return "", false
}
