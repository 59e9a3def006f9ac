// Package draft balances two Ryder Cup teams with a serpentine draft.
package draft

import (
	"errors"
	"sort"

	"github.com/Dosada05/ryder-manager/models"
)

var ErrNotEnoughPlayers = errors.New("snake draft requires at least two players")

// RankedPlayer is a draft candidate with the handicap used for ranking
// (custom override already resolved by the caller).
type RankedPlayer struct {
	UserID   int
	Handicap float64
}

// Assignment is one (player, team) result of the draft.
type Assignment struct {
	UserID int
	Team   models.TeamSide
}

// AssignTeams runs the serpentine draft over the players, best handicap
// first. Pick order is first, other, other, first, first, other, ... which
// splits the strongest and weakest players while keeping handicap totals
// close without explicit optimization. Ties rank by user ID for determinism.
func AssignTeams(players []RankedPlayer, firstPick models.TeamSide) ([]Assignment, error) {
	if len(players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	ranked := make([]RankedPlayer, len(players))
	copy(ranked, players)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Handicap != ranked[j].Handicap {
			return ranked[i].Handicap < ranked[j].Handicap
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	second := firstPick.Opponent()
	assignments := make([]Assignment, 0, len(ranked))
	for i, p := range ranked {
		// Serpentine: picks 0,3,4,7,8,... go to the first-pick team.
		team := firstPick
		if (i+1)/2%2 == 1 {
			team = second
		}
		assignments = append(assignments, Assignment{UserID: p.UserID, Team: team})
	}
	return assignments, nil
}

// BalanceReport summarizes how even the draft came out. Exposed for
// verification; nothing enforces it at runtime.
type BalanceReport struct {
	TeamASize    int
	TeamBSize    int
	TeamATotal   float64
	TeamBTotal   float64
	TotalSpread  float64 // |TeamATotal - TeamBTotal|
	PlayerSpread float64 // best-to-worst single-player handicap spread
}

// CheckBalance computes the report for a finished draft.
func CheckBalance(players []RankedPlayer, assignments []Assignment) BalanceReport {
	handicaps := make(map[int]float64, len(players))
	min, max := 0.0, 0.0
	for i, p := range players {
		handicaps[p.UserID] = p.Handicap
		if i == 0 || p.Handicap < min {
			min = p.Handicap
		}
		if i == 0 || p.Handicap > max {
			max = p.Handicap
		}
	}
	var report BalanceReport
	report.PlayerSpread = max - min
	for _, a := range assignments {
		if a.Team == models.TeamA {
			report.TeamASize++
			report.TeamATotal += handicaps[a.UserID]
		} else {
			report.TeamBSize++
			report.TeamBTotal += handicaps[a.UserID]
		}
	}
	report.TotalSpread = report.TeamATotal - report.TeamBTotal
	if report.TotalSpread < 0 {
		report.TotalSpread = -report.TotalSpread
	}
	return report
}
