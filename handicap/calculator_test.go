package handicap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
)

func TestPlayingHandicap_NeutralCourse(t *testing.T) {
	// Slope 113 and CR equal to par leave the index untouched.
	ph, err := PlayingHandicap(Input{
		HandicapIndex: 10.0,
		SlopeRating:   113,
		CourseRating:  72.0,
		Par:           72,
		AllowancePct:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, ph)
}

func TestPlayingHandicap_SlopeAndRatingAdjustment(t *testing.T) {
	// 18.3 x (125/113) + (71.5 - 72) = 19.74 -> 20
	ph, err := PlayingHandicap(Input{
		HandicapIndex: 18.3,
		SlopeRating:   125,
		CourseRating:  71.5,
		Par:           72,
		AllowancePct:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, ph)
}

func TestPlayingHandicap_AllowanceHalvesRoundAwayFromZero(t *testing.T) {
	// Course handicap 9.0 at 50% is 4.5, which rounds up.
	ph, err := PlayingHandicap(Input{
		HandicapIndex: 9.0,
		SlopeRating:   113,
		CourseRating:  72.0,
		Par:           72,
		AllowancePct:  50,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, ph)
}

func TestPlayingHandicap_PlusHandicapStaysNegative(t *testing.T) {
	ph, err := PlayingHandicap(Input{
		HandicapIndex: -2.0,
		SlopeRating:   113,
		CourseRating:  72.0,
		Par:           72,
		AllowancePct:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, -2, ph)
}

func TestPlayingHandicap_InvalidInputs(t *testing.T) {
	_, err := PlayingHandicap(Input{HandicapIndex: 10, SlopeRating: 0, AllowancePct: 100})
	assert.ErrorIs(t, err, ErrInvalidSlope)

	_, err = PlayingHandicap(Input{HandicapIndex: 10, SlopeRating: 113, AllowancePct: 45})
	assert.ErrorIs(t, err, ErrInvalidAllowance)

	_, err = PlayingHandicap(Input{HandicapIndex: 10, SlopeRating: 113, AllowancePct: 105})
	assert.ErrorIs(t, err, ErrInvalidAllowance)
}

func TestDefaultAllowance(t *testing.T) {
	matchPlay := models.HandicapMatchPlay
	strokePlay := models.HandicapStrokePlay

	assert.Equal(t, 100, DefaultAllowance(models.FormatSingles, nil))
	assert.Equal(t, 100, DefaultAllowance(models.FormatSingles, &matchPlay))
	assert.Equal(t, 95, DefaultAllowance(models.FormatSingles, &strokePlay))
	assert.Equal(t, 90, DefaultAllowance(models.FormatFourball, nil))
	assert.Equal(t, 50, DefaultAllowance(models.FormatFoursomes, nil))
}

func TestAllowance_OverrideWins(t *testing.T) {
	override := 85
	round := &models.Round{Format: models.FormatFourball, AllowanceOverride: &override}
	assert.Equal(t, 85, Allowance(round))

	round.AllowanceOverride = nil
	assert.Equal(t, 90, Allowance(round))
}

func TestApplyMatchPlayDifference(t *testing.T) {
	a, b := ApplyMatchPlayDifference(12, 7)
	assert.Equal(t, 5, a)
	assert.Equal(t, 0, b)

	a, b = ApplyMatchPlayDifference(4, 4)
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)
}

func TestTeamHandicapIndex(t *testing.T) {
	assert.InDelta(t, 10.5, TeamHandicapIndex(8.0, 13.0), 0.001)
}

func TestStrokeHoles_AllocatesByStrokeIndex(t *testing.T) {
	// Hole 2 is the hardest (index 1), then hole 4, hole 3, hole 5, hole 1.
	strokeIndexes := []int{5, 1, 3, 2, 4}

	holes := StrokeHoles(2, strokeIndexes)
	assert.Equal(t, []int{2, 4}, holes)
}

func TestStrokeHoles_ZeroOrNegativeHandicap(t *testing.T) {
	strokeIndexes := []int{1, 2, 3}
	assert.Nil(t, StrokeHoles(0, strokeIndexes))
	assert.Nil(t, StrokeHoles(-3, strokeIndexes))
}

func TestStrokeHoles_HandicapAboveHoleCountCaps(t *testing.T) {
	strokeIndexes := make([]int, 18)
	for i := range strokeIndexes {
		strokeIndexes[i] = i + 1
	}

	holes := StrokeHoles(24, strokeIndexes)
	assert.Len(t, holes, 18)
	assert.Equal(t, 1, holes[0])
	assert.Equal(t, 18, holes[17])
}
