package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundValidate(t *testing.T) {
	r := &Round{Format: FormatSingles, Session: SessionMorning}
	assert.NoError(t, r.Validate())

	r.Format = "scramble"
	assert.ErrorIs(t, r.Validate(), ErrRoundInvalidFormat)

	r.Format = FormatSingles
	r.Session = "night"
	assert.ErrorIs(t, r.Validate(), ErrRoundInvalidSession)
}

func TestRoundValidate_HandicapModeOnlyForSingles(t *testing.T) {
	mode := HandicapStrokePlay
	r := &Round{Format: FormatFourball, Session: SessionMorning, HandicapMode: &mode}
	assert.ErrorIs(t, r.Validate(), ErrRoundHandicapModeSingles)

	r.Format = FormatSingles
	assert.NoError(t, r.Validate())
}

func TestRoundValidate_AllowanceOverride(t *testing.T) {
	for _, pct := range []int{45, 105, 72} {
		override := pct
		r := &Round{Format: FormatSingles, Session: SessionMorning, AllowanceOverride: &override}
		assert.ErrorIs(t, r.Validate(), ErrRoundInvalidAllowance, "%d", pct)
	}

	override := 85
	r := &Round{Format: FormatSingles, Session: SessionMorning, AllowanceOverride: &override}
	assert.NoError(t, r.Validate())
}

func TestRoundLifecycle(t *testing.T) {
	r := &Round{Status: RoundPendingTeams}
	require.NoError(t, r.TransitionTo(RoundPendingMatches))
	require.NoError(t, r.TransitionTo(RoundScheduled))
	require.NoError(t, r.TransitionTo(RoundInProgress))
	require.NoError(t, r.TransitionTo(RoundCompleted))

	assert.ErrorIs(t, r.TransitionTo(RoundInProgress), ErrRoundInvalidTransition)

	r = &Round{Status: RoundPendingTeams}
	assert.ErrorIs(t, r.TransitionTo(RoundScheduled), ErrRoundInvalidTransition)
}

func TestRoundPlayersPerTeam(t *testing.T) {
	assert.Equal(t, 1, (&Round{Format: FormatSingles}).PlayersPerTeam())
	assert.Equal(t, 2, (&Round{Format: FormatFourball}).PlayersPerTeam())
	assert.Equal(t, 2, (&Round{Format: FormatFoursomes}).PlayersPerTeam())
}

func TestTeamAssignmentValidate(t *testing.T) {
	ta := &TeamAssignment{TeamAUserIDs: []int{1, 2}, TeamBUserIDs: []int{3, 4}}
	assert.NoError(t, ta.Validate())

	ta = &TeamAssignment{TeamAUserIDs: []int{1, 2}, TeamBUserIDs: []int{3}}
	assert.ErrorIs(t, ta.Validate(), ErrTeamAssignmentSizes)

	ta = &TeamAssignment{TeamAUserIDs: []int{1, 2}, TeamBUserIDs: []int{2, 3}}
	assert.ErrorIs(t, ta.Validate(), ErrTeamAssignmentOverlap)

	ta = &TeamAssignment{TeamAUserIDs: []int{1, 1}, TeamBUserIDs: []int{2, 3}}
	assert.ErrorIs(t, ta.Validate(), ErrTeamAssignmentDuplicate)

	ta = &TeamAssignment{TeamAUserIDs: nil, TeamBUserIDs: []int{1}}
	assert.ErrorIs(t, ta.Validate(), ErrTeamAssignmentEmpty)
}

func TestTeamAssignmentTeamOf(t *testing.T) {
	ta := &TeamAssignment{TeamAUserIDs: []int{1}, TeamBUserIDs: []int{2}}

	side, ok := ta.TeamOf(1)
	require.True(t, ok)
	assert.Equal(t, TeamA, side)

	side, ok = ta.TeamOf(2)
	require.True(t, ok)
	assert.Equal(t, TeamB, side)

	_, ok = ta.TeamOf(3)
	assert.False(t, ok)
}
