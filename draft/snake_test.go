package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
)

func TestAssignTeams_SerpentineOrder(t *testing.T) {
	players := []RankedPlayer{
		{UserID: 1, Handicap: 1},
		{UserID: 2, Handicap: 2},
		{UserID: 3, Handicap: 3},
		{UserID: 4, Handicap: 4},
		{UserID: 5, Handicap: 5},
		{UserID: 6, Handicap: 6},
		{UserID: 7, Handicap: 7},
		{UserID: 8, Handicap: 8},
	}

	assignments, err := AssignTeams(players, models.TeamA)
	require.NoError(t, err)
	require.Len(t, assignments, 8)

	// Pick order A, B, B, A, A, B, B, A over the handicap-sorted field.
	want := []models.TeamSide{
		models.TeamA, models.TeamB, models.TeamB, models.TeamA,
		models.TeamA, models.TeamB, models.TeamB, models.TeamA,
	}
	for i, a := range assignments {
		assert.Equal(t, i+1, a.UserID)
		assert.Equal(t, want[i], a.Team, "pick %d", i)
	}
}

func TestAssignTeams_BalancesHandicapTotals(t *testing.T) {
	players := []RankedPlayer{
		{UserID: 10, Handicap: 2.1},
		{UserID: 11, Handicap: 5.4},
		{UserID: 12, Handicap: 8.0},
		{UserID: 13, Handicap: 11.3},
		{UserID: 14, Handicap: 14.9},
		{UserID: 15, Handicap: 18.2},
		{UserID: 16, Handicap: 22.7},
		{UserID: 17, Handicap: 27.5},
	}

	assignments, err := AssignTeams(players, models.TeamA)
	require.NoError(t, err)

	report := CheckBalance(players, assignments)
	assert.Equal(t, 4, report.TeamASize)
	assert.Equal(t, 4, report.TeamBSize)
	// The serpentine keeps the totals within one player-to-player gap.
	assert.LessOrEqual(t, report.TotalSpread, report.PlayerSpread)
}

func TestAssignTeams_OddRoster(t *testing.T) {
	players := []RankedPlayer{
		{UserID: 1, Handicap: 4},
		{UserID: 2, Handicap: 8},
		{UserID: 3, Handicap: 12},
		{UserID: 4, Handicap: 16},
		{UserID: 5, Handicap: 20},
	}

	assignments, err := AssignTeams(players, models.TeamA)
	require.NoError(t, err)

	report := CheckBalance(players, assignments)
	assert.Equal(t, 3, report.TeamASize)
	assert.Equal(t, 2, report.TeamBSize)
}

func TestAssignTeams_TiesRankByUserID(t *testing.T) {
	players := []RankedPlayer{
		{UserID: 30, Handicap: 10},
		{UserID: 20, Handicap: 10},
	}

	assignments, err := AssignTeams(players, models.TeamB)
	require.NoError(t, err)
	assert.Equal(t, 20, assignments[0].UserID)
	assert.Equal(t, models.TeamB, assignments[0].Team)
	assert.Equal(t, 30, assignments[1].UserID)
	assert.Equal(t, models.TeamA, assignments[1].Team)
}

func TestAssignTeams_TooFewPlayers(t *testing.T) {
	_, err := AssignTeams([]RankedPlayer{{UserID: 1, Handicap: 3}}, models.TeamA)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestAssignTeams_DoesNotMutateInput(t *testing.T) {
	players := []RankedPlayer{
		{UserID: 1, Handicap: 9},
		{UserID: 2, Handicap: 3},
	}

	_, err := AssignTeams(players, models.TeamA)
	require.NoError(t, err)
	assert.Equal(t, 1, players[0].UserID)
	assert.Equal(t, 2, players[1].UserID)
}
