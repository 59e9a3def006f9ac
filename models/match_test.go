package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singlesMatch() *Match {
	return &Match{
		ID:          1,
		RoundID:     2,
		MatchNumber: 1,
		Status:      MatchScheduled,
		TeamAPlayers: []MatchPlayer{
			{UserID: 10, Team: TeamA, StrokeHoles: []int{1, 5}},
		},
		TeamBPlayers: []MatchPlayer{
			{UserID: 20, Team: TeamB},
		},
	}
}

func TestValidateTeams(t *testing.T) {
	m := singlesMatch()
	assert.NoError(t, m.ValidateTeams(1))
	assert.ErrorIs(t, m.ValidateTeams(2), ErrMatchInvalidTeams)

	m.TeamBPlayers[0].UserID = 10
	assert.ErrorIs(t, m.ValidateTeams(1), ErrMatchDuplicatePlayer)
}

func TestReceivesStrokeAt(t *testing.T) {
	p := MatchPlayer{StrokeHoles: []int{3, 7, 11}}
	assert.True(t, p.ReceivesStrokeAt(7))
	assert.False(t, p.ReceivesStrokeAt(8))
}

func TestSetMarkersOnlyWhileScheduled(t *testing.T) {
	m := singlesMatch()
	markers := []MarkerAssignment{{PlayerID: 10, MarkerID: 20}, {PlayerID: 20, MarkerID: 10}}
	require.NoError(t, m.SetMarkers(markers))

	m.Start()
	assert.ErrorIs(t, m.SetMarkers(markers), ErrMatchNotScheduled)

	markerID, ok := m.MarkerOf(10)
	require.True(t, ok)
	assert.Equal(t, 20, markerID)

	_, ok = m.MarkerOf(99)
	assert.False(t, ok)
}

func TestStartIsIdempotent(t *testing.T) {
	m := singlesMatch()
	m.Start()
	assert.Equal(t, MatchInProgress, m.Status)

	m.Start()
	assert.Equal(t, MatchInProgress, m.Status)
}

func TestScorecardTracking(t *testing.T) {
	m := singlesMatch()
	assert.False(t, m.AllScorecardsSubmitted())

	m.MarkScorecardSubmitted(10)
	m.MarkScorecardSubmitted(10) // duplicate submission is a no-op
	assert.True(t, m.HasSubmittedScorecard(10))
	assert.Len(t, m.SubmittedScorecards, 1)
	assert.False(t, m.AllScorecardsSubmitted())

	m.MarkScorecardSubmitted(20)
	assert.True(t, m.AllScorecardsSubmitted())
}

func TestCardKeepers_Foursomes(t *testing.T) {
	m := &Match{
		Status: MatchScheduled,
		TeamAPlayers: []MatchPlayer{
			{UserID: 1, Team: TeamA}, {UserID: 3, Team: TeamA},
		},
		TeamBPlayers: []MatchPlayer{
			{UserID: 2, Team: TeamB}, {UserID: 4, Team: TeamB},
		},
	}

	// Without markers set, every player counts.
	assert.Len(t, m.CardKeepers(), 4)
	assert.True(t, m.IsCardKeeper(3))

	require.NoError(t, m.SetMarkers([]MarkerAssignment{
		{PlayerID: 1, MarkerID: 2},
		{PlayerID: 2, MarkerID: 1},
	}))

	keepers := m.CardKeepers()
	require.Len(t, keepers, 2)
	assert.Equal(t, 1, keepers[0].UserID)
	assert.Equal(t, 2, keepers[1].UserID)
	assert.True(t, m.IsCardKeeper(1))
	assert.False(t, m.IsCardKeeper(3))
	assert.False(t, m.IsCardKeeper(4))

	// The match completes once both card keepers have submitted; the
	// non-keeping partners never do.
	assert.False(t, m.AllScorecardsSubmitted())
	m.MarkScorecardSubmitted(1)
	assert.False(t, m.AllScorecardsSubmitted())
	m.MarkScorecardSubmitted(2)
	assert.True(t, m.AllScorecardsSubmitted())
}

func TestCompleteMatch(t *testing.T) {
	m := singlesMatch()
	m.Start()

	winner := TeamA
	require.NoError(t, m.Complete(MatchResult{Winner: &winner, Score: "2&1"}, 5, 10))
	assert.Equal(t, MatchCompleted, m.Status)
	require.NotNil(t, m.Result)
	assert.Equal(t, "2&1", m.Result.Score)

	assert.ErrorIs(t, m.Complete(MatchResult{}, 5, 10), ErrMatchAlreadyFinished)

	events := m.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventMatchCompleted, events[0].Type)
}

func TestCompleteKeepsResultFrozenAtDecision(t *testing.T) {
	m := singlesMatch()
	m.Start()

	// Decided 4&3 after hole 15; holes 16-18 went the other way.
	winner := TeamA
	m.Decided = true
	m.Result = &MatchResult{Winner: &winner, Score: "4&3"}

	late := TeamB
	require.NoError(t, m.Complete(MatchResult{Winner: &late, Score: "1UP"}, 5, 10))
	require.NotNil(t, m.Result)
	require.NotNil(t, m.Result.Winner)
	assert.Equal(t, TeamA, *m.Result.Winner)
	assert.Equal(t, "4&3", m.Result.Score)
}

func TestConcede(t *testing.T) {
	m := singlesMatch()
	assert.ErrorIs(t, m.Concede(TeamA, "injury", 5, 10), ErrMatchNotInProgress)

	m.Start()
	require.NoError(t, m.Concede(TeamA, "injury", 5, 10))
	assert.Equal(t, MatchConceded, m.Status)
	require.NotNil(t, m.Result)
	require.NotNil(t, m.Result.Winner)
	assert.Equal(t, TeamB, *m.Result.Winner)
	assert.Equal(t, "CON", m.Result.Score)
	require.NotNil(t, m.ConcededBy)
	assert.Equal(t, TeamA, *m.ConcededBy)
}

func TestWalkover(t *testing.T) {
	m := singlesMatch()
	require.NoError(t, m.Walkover(TeamB, 5, 10))
	assert.Equal(t, MatchWalkover, m.Status)
	require.NotNil(t, m.Result.Winner)
	assert.Equal(t, TeamB, *m.Result.Winner)
	assert.Equal(t, "W/O", m.Result.Score)

	assert.ErrorIs(t, m.Walkover(TeamA, 5, 10), ErrMatchAlreadyFinished)
}

func TestTeamOfAndPlayerByID(t *testing.T) {
	m := singlesMatch()

	side, ok := m.TeamOf(20)
	require.True(t, ok)
	assert.Equal(t, TeamB, side)

	_, ok = m.TeamOf(99)
	assert.False(t, ok)

	p := m.PlayerByID(10)
	require.NotNil(t, p)
	assert.Equal(t, TeamA, p.Team)
	assert.Nil(t, m.PlayerByID(99))
}
