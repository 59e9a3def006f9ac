package scoring

import "github.com/Dosada05/ryder-manager/models"

// PointAward is the Ryder Cup points split of one match.
type PointAward struct {
	TeamA float64 `json:"team_a"`
	TeamB float64 `json:"team_b"`
}

// CalculateRyderCupPoints awards 1 point to the winning team, a half each on
// a halved match, and nothing on a match that never produced a result.
// Concessions and walkovers carry a winner in the result and score normally.
func CalculateRyderCupPoints(result *models.MatchResult, status models.MatchStatus) PointAward {
	switch status {
	case models.MatchCompleted, models.MatchConceded, models.MatchWalkover:
	default:
		return PointAward{}
	}
	if result == nil {
		return PointAward{}
	}
	if result.Winner == nil {
		// All-square finish.
		return PointAward{TeamA: 0.5, TeamB: 0.5}
	}
	if *result.Winner == models.TeamA {
		return PointAward{TeamA: 1}
	}
	return PointAward{TeamB: 1}
}

// Tally sums point awards across matches.
func Tally(awards []PointAward) PointAward {
	var total PointAward
	for _, a := range awards {
		total.TeamA += a.TeamA
		total.TeamB += a.TeamB
	}
	return total
}
