package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
)

func results(outcomes ...HoleOutcome) []HoleResult {
	rs := make([]HoleResult, len(outcomes))
	for i, o := range outcomes {
		rs[i] = HoleResult{HoleNumber: i + 1, Outcome: o}
	}
	return rs
}

func TestCalculateMatchStanding_AllSquare(t *testing.T) {
	standing := CalculateMatchStanding(results(HoleWonByA, HoleWonByB, HoleHalved))
	assert.Nil(t, standing.LeadingTeam)
	assert.Equal(t, 0, standing.HolesUp)
	assert.Equal(t, 3, standing.HolesPlayed)
	assert.Equal(t, 15, standing.HolesRemaining)
}

func TestCalculateMatchStanding_Lead(t *testing.T) {
	standing := CalculateMatchStanding(results(HoleWonByA, HoleWonByA, HoleWonByB, HoleWonByA))
	require.NotNil(t, standing.LeadingTeam)
	assert.Equal(t, models.TeamA, *standing.LeadingTeam)
	assert.Equal(t, 2, standing.HolesUp)
	assert.Equal(t, 14, standing.HolesRemaining)
}

func TestIsMatchDecided(t *testing.T) {
	// 4 up with 3 to play is over; 3 up with 3 to play is not.
	rs := results(
		HoleWonByA, HoleWonByA, HoleWonByA, HoleWonByA,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved,
	)
	assert.True(t, IsMatchDecided(CalculateMatchStanding(rs)))

	rs = results(
		HoleWonByA, HoleWonByA, HoleWonByA,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
	)
	assert.False(t, IsMatchDecided(CalculateMatchStanding(rs)))
}

func TestFormatDecidedResult_EarlyFinish(t *testing.T) {
	// Team B 4 up after 15: "4&3".
	rs := results(
		HoleWonByB, HoleWonByB, HoleWonByB, HoleWonByB,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved, HoleHalved,
		HoleHalved, HoleHalved, HoleHalved,
	)
	result := FormatDecidedResult(rs)
	require.NotNil(t, result.Winner)
	assert.Equal(t, models.TeamB, *result.Winner)
	assert.Equal(t, "4&3", result.Score)
}

func TestFormatDecidedResult_FullDistance(t *testing.T) {
	rs := make([]HoleResult, 18)
	for i := range rs {
		rs[i] = HoleResult{HoleNumber: i + 1, Outcome: HoleHalved}
	}
	rs[17].Outcome = HoleWonByA

	result := FormatDecidedResult(rs)
	require.NotNil(t, result.Winner)
	assert.Equal(t, models.TeamA, *result.Winner)
	assert.Equal(t, "1UP", result.Score)
}

func TestFormatDecidedResult_Halved(t *testing.T) {
	rs := make([]HoleResult, 18)
	for i := range rs {
		rs[i] = HoleResult{HoleNumber: i + 1, Outcome: HoleHalved}
	}

	result := FormatDecidedResult(rs)
	assert.Nil(t, result.Winner)
	assert.Equal(t, "AS", result.Score)
}
