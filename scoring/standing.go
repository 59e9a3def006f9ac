package scoring

import (
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
)

const holesPerRound = 18

// Standing is the running state of a match after some holes.
type Standing struct {
	LeadingTeam    *models.TeamSide `json:"leading_team,omitempty"` // nil when all square
	HolesUp        int              `json:"holes_up"`
	HolesPlayed    int              `json:"holes_played"`
	HolesRemaining int              `json:"holes_remaining"`
}

// CalculateMatchStanding tallies the hole results so far.
func CalculateMatchStanding(results []HoleResult) Standing {
	wonA, wonB := 0, 0
	for _, r := range results {
		switch r.Outcome {
		case HoleWonByA:
			wonA++
		case HoleWonByB:
			wonB++
		}
	}
	standing := Standing{
		HolesPlayed:    len(results),
		HolesRemaining: holesPerRound - len(results),
	}
	switch {
	case wonA > wonB:
		team := models.TeamA
		standing.LeadingTeam = &team
		standing.HolesUp = wonA - wonB
	case wonB > wonA:
		team := models.TeamB
		standing.LeadingTeam = &team
		standing.HolesUp = wonB - wonA
	}
	return standing
}

// IsMatchDecided reports whether the trailing team can no longer win: the
// lead exceeds the holes left to play.
func IsMatchDecided(standing Standing) bool {
	return standing.HolesUp > standing.HolesRemaining
}

// FormatDecidedResult renders the conventional match-play result for a
// finished or decided match: "3&2" when decided before the 18th, "2UP"/"1UP"
// for a lead held to the last hole, "AS" for an all-square finish.
func FormatDecidedResult(results []HoleResult) models.MatchResult {
	standing := CalculateMatchStanding(results)
	if standing.LeadingTeam == nil {
		return models.MatchResult{Score: "AS"}
	}
	winner := *standing.LeadingTeam
	if standing.HolesRemaining > 0 && standing.HolesUp > standing.HolesRemaining {
		return models.MatchResult{
			Winner: &winner,
			Score:  fmt.Sprintf("%d&%d", standing.HolesUp, standing.HolesRemaining),
		}
	}
	return models.MatchResult{
		Winner: &winner,
		Score:  fmt.Sprintf("%dUP", standing.HolesUp),
	}
}
