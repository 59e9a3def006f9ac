package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/ryder-manager/models"
)

func TestCalculateRyderCupPoints_Win(t *testing.T) {
	winner := models.TeamA
	award := CalculateRyderCupPoints(&models.MatchResult{Winner: &winner, Score: "3&2"}, models.MatchCompleted)
	assert.Equal(t, PointAward{TeamA: 1}, award)

	winner = models.TeamB
	award = CalculateRyderCupPoints(&models.MatchResult{Winner: &winner, Score: "1UP"}, models.MatchCompleted)
	assert.Equal(t, PointAward{TeamB: 1}, award)
}

func TestCalculateRyderCupPoints_Halved(t *testing.T) {
	award := CalculateRyderCupPoints(&models.MatchResult{Score: "AS"}, models.MatchCompleted)
	assert.Equal(t, PointAward{TeamA: 0.5, TeamB: 0.5}, award)
}

func TestCalculateRyderCupPoints_ConcessionAndWalkoverScore(t *testing.T) {
	winner := models.TeamB
	award := CalculateRyderCupPoints(&models.MatchResult{Winner: &winner, Score: "CON"}, models.MatchConceded)
	assert.Equal(t, PointAward{TeamB: 1}, award)

	winner = models.TeamA
	award = CalculateRyderCupPoints(&models.MatchResult{Winner: &winner, Score: "W/O"}, models.MatchWalkover)
	assert.Equal(t, PointAward{TeamA: 1}, award)
}

func TestCalculateRyderCupPoints_UnfinishedMatchScoresNothing(t *testing.T) {
	winner := models.TeamA
	result := &models.MatchResult{Winner: &winner, Score: "3&2"}

	assert.Equal(t, PointAward{}, CalculateRyderCupPoints(result, models.MatchInProgress))
	assert.Equal(t, PointAward{}, CalculateRyderCupPoints(result, models.MatchScheduled))
	assert.Equal(t, PointAward{}, CalculateRyderCupPoints(nil, models.MatchCompleted))
}

func TestTally(t *testing.T) {
	total := Tally([]PointAward{
		{TeamA: 1},
		{TeamB: 1},
		{TeamA: 0.5, TeamB: 0.5},
		{TeamA: 1},
	})
	assert.Equal(t, PointAward{TeamA: 2.5, TeamB: 1.5}, total)
}
