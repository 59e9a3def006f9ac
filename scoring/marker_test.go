package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
)

func players(side models.TeamSide, ids ...int) []models.MatchPlayer {
	ps := make([]models.MatchPlayer, len(ids))
	for i, id := range ids {
		ps[i] = models.MatchPlayer{UserID: id, Team: side}
	}
	return ps
}

func TestGenerateMarkerAssignments_Singles(t *testing.T) {
	assignments, err := GenerateMarkerAssignments(
		players(models.TeamA, 1), players(models.TeamB, 2), models.FormatSingles)
	require.NoError(t, err)

	assert.Equal(t, []models.MarkerAssignment{
		{PlayerID: 1, MarkerID: 2},
		{PlayerID: 2, MarkerID: 1},
	}, assignments)
}

func TestGenerateMarkerAssignments_FourballCrossed(t *testing.T) {
	assignments, err := GenerateMarkerAssignments(
		players(models.TeamA, 1, 2), players(models.TeamB, 3, 4), models.FormatFourball)
	require.NoError(t, err)
	require.Len(t, assignments, 4)

	// Every player is marked by an opponent, never a partner.
	assert.Contains(t, assignments, models.MarkerAssignment{PlayerID: 1, MarkerID: 3})
	assert.Contains(t, assignments, models.MarkerAssignment{PlayerID: 3, MarkerID: 1})
	assert.Contains(t, assignments, models.MarkerAssignment{PlayerID: 2, MarkerID: 4})
	assert.Contains(t, assignments, models.MarkerAssignment{PlayerID: 4, MarkerID: 2})
}

func TestGenerateMarkerAssignments_FoursomesOneCardPerTeam(t *testing.T) {
	assignments, err := GenerateMarkerAssignments(
		players(models.TeamA, 1, 2), players(models.TeamB, 3, 4), models.FormatFoursomes)
	require.NoError(t, err)

	// One shared ball per side: only the card keepers get entries.
	assert.Equal(t, []models.MarkerAssignment{
		{PlayerID: 1, MarkerID: 3},
		{PlayerID: 3, MarkerID: 1},
	}, assignments)
}

func TestGenerateMarkerAssignments_WrongTeamSize(t *testing.T) {
	_, err := GenerateMarkerAssignments(
		players(models.TeamA, 1, 2), players(models.TeamB, 3, 4), models.FormatSingles)
	assert.ErrorIs(t, err, ErrMarkerTeamSize)

	_, err = GenerateMarkerAssignments(
		players(models.TeamA, 1), players(models.TeamB, 2), models.FormatFourball)
	assert.ErrorIs(t, err, ErrMarkerTeamSize)
}
