package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
)

func intPtr(v int) *int { return &v }

func TestCalculateHoleWinner_Singles(t *testing.T) {
	outcome, err := CalculateHoleWinner([]*int{intPtr(4)}, []*int{intPtr(5)}, models.FormatSingles)
	require.NoError(t, err)
	assert.Equal(t, HoleWonByA, outcome)

	outcome, err = CalculateHoleWinner([]*int{intPtr(5)}, []*int{intPtr(4)}, models.FormatSingles)
	require.NoError(t, err)
	assert.Equal(t, HoleWonByB, outcome)

	outcome, err = CalculateHoleWinner([]*int{intPtr(4)}, []*int{intPtr(4)}, models.FormatSingles)
	require.NoError(t, err)
	assert.Equal(t, HoleHalved, outcome)
}

func TestCalculateHoleWinner_PickedUpBallLoses(t *testing.T) {
	outcome, err := CalculateHoleWinner([]*int{nil}, []*int{intPtr(7)}, models.FormatSingles)
	require.NoError(t, err)
	assert.Equal(t, HoleWonByB, outcome)

	// Both picked up halves the hole.
	outcome, err = CalculateHoleWinner([]*int{nil}, []*int{nil}, models.FormatSingles)
	require.NoError(t, err)
	assert.Equal(t, HoleHalved, outcome)
}

func TestCalculateHoleWinner_FourballBestBall(t *testing.T) {
	// A's best is 3, beating B's best of 4.
	outcome, err := CalculateHoleWinner(
		[]*int{intPtr(5), intPtr(3)},
		[]*int{intPtr(4), intPtr(6)},
		models.FormatFourball,
	)
	require.NoError(t, err)
	assert.Equal(t, HoleWonByA, outcome)

	// One partner picking up does not cost the side the hole.
	outcome, err = CalculateHoleWinner(
		[]*int{nil, intPtr(4)},
		[]*int{intPtr(5), intPtr(5)},
		models.FormatFourball,
	)
	require.NoError(t, err)
	assert.Equal(t, HoleWonByA, outcome)
}

func TestCalculateHoleWinner_NoScores(t *testing.T) {
	_, err := CalculateHoleWinner(nil, []*int{intPtr(4)}, models.FormatSingles)
	assert.ErrorIs(t, err, ErrNoScores)
}
