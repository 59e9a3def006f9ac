package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCompetition() *Competition {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &Competition{
		ID:           1,
		Name:         "Autumn Ryder Cup",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 2),
		CountryCodes: []string{"FR", "BE"},
		CreatorID:    7,
		MaxPlayers:   16,
		PlayMode:     PlayModeHandicap,
		Status:       CompetitionDraft,
	}
}

func TestCompetitionValidate(t *testing.T) {
	assert.NoError(t, validCompetition().Validate())
}

func TestCompetitionValidate_Name(t *testing.T) {
	c := validCompetition()
	c.Name = "ab"
	assert.ErrorIs(t, c.Validate(), ErrCompetitionNameLength)

	c.Name = string(make([]byte, 101))
	assert.ErrorIs(t, c.Validate(), ErrCompetitionNameLength)
}

func TestCompetitionValidate_Dates(t *testing.T) {
	c := validCompetition()
	c.EndDate = c.StartDate.AddDate(0, 0, -1)
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidDates)

	c = validCompetition()
	c.EndDate = c.StartDate.AddDate(0, 0, 400)
	assert.ErrorIs(t, c.Validate(), ErrCompetitionSpanTooLong)
}

func TestCompetitionValidate_Capacity(t *testing.T) {
	c := validCompetition()
	c.MaxPlayers = 1
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidCapacity)

	c.MaxPlayers = 101
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidCapacity)
}

func TestCompetitionValidate_Location(t *testing.T) {
	c := validCompetition()
	c.CountryCodes = nil
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidLocation)

	c.CountryCodes = []string{"FR", "BE", "NL", "DE"}
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidLocation)

	c.CountryCodes = []string{"FR", "FR"}
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidLocation)

	c.CountryCodes = []string{"FRA"}
	assert.ErrorIs(t, c.Validate(), ErrCompetitionInvalidLocation)
}

func TestCompetitionLifecycleChain(t *testing.T) {
	c := validCompetition()

	require.NoError(t, c.TransitionTo(CompetitionActive, 7))
	require.NoError(t, c.TransitionTo(CompetitionClosed, 7))
	require.NoError(t, c.TransitionTo(CompetitionInProgress, 7))
	require.NoError(t, c.TransitionTo(CompetitionCompleted, 7))

	assert.True(t, c.IsTerminal())
	assert.ErrorIs(t, c.TransitionTo(CompetitionCancelled, 7), ErrInvalidStatusTransition)
}

func TestCompetitionNoSkippingStatuses(t *testing.T) {
	c := validCompetition()
	assert.ErrorIs(t, c.TransitionTo(CompetitionClosed, 7), ErrInvalidStatusTransition)
	assert.ErrorIs(t, c.TransitionTo(CompetitionInProgress, 7), ErrInvalidStatusTransition)
	assert.ErrorIs(t, c.TransitionTo(CompetitionCompleted, 7), ErrInvalidStatusTransition)
}

func TestCompetitionCancelFromAnyNonTerminalStatus(t *testing.T) {
	for _, status := range []CompetitionStatus{
		CompetitionDraft, CompetitionActive, CompetitionClosed, CompetitionInProgress,
	} {
		c := validCompetition()
		c.Status = status
		assert.NoError(t, c.TransitionTo(CompetitionCancelled, 7), "from %s", status)
	}

	c := validCompetition()
	c.Status = CompetitionCompleted
	assert.ErrorIs(t, c.TransitionTo(CompetitionCancelled, 7), ErrInvalidStatusTransition)
}

func TestCompetitionTransitionRecordsEvent(t *testing.T) {
	c := validCompetition()
	require.NoError(t, c.TransitionTo(CompetitionActive, 7))

	events := c.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventCompetitionActivated, events[0].Type)
	assert.Equal(t, c.ID, events[0].CompetitionID)
	assert.Equal(t, 7, events[0].ActorID)

	// Draining empties the buffer.
	assert.Empty(t, c.DrainEvents())
}

func TestCompetitionIsMutableOnlyInDraft(t *testing.T) {
	c := validCompetition()
	assert.True(t, c.IsMutable())

	require.NoError(t, c.TransitionTo(CompetitionActive, 7))
	assert.False(t, c.IsMutable())
}
