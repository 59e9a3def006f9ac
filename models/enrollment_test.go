package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRequestedTransitions(t *testing.T) {
	e := &Enrollment{ID: 1, CompetitionID: 2, UserID: 3, Status: EnrollmentRequested}
	assert.True(t, e.CanTransitionTo(EnrollmentApproved))
	assert.True(t, e.CanTransitionTo(EnrollmentRejected))
	assert.True(t, e.CanTransitionTo(EnrollmentCancelled))
	assert.False(t, e.CanTransitionTo(EnrollmentWithdrawn))
	assert.False(t, e.CanTransitionTo(EnrollmentInvited))
}

func TestEnrollmentInvitedCannotBeRejected(t *testing.T) {
	// An invitee declines by cancelling; rejection is for requests.
	e := &Enrollment{Status: EnrollmentInvited}
	assert.True(t, e.CanTransitionTo(EnrollmentApproved))
	assert.True(t, e.CanTransitionTo(EnrollmentCancelled))
	assert.False(t, e.CanTransitionTo(EnrollmentRejected))
}

func TestEnrollmentWithdrawOnlyFromApproved(t *testing.T) {
	e := &Enrollment{Status: EnrollmentApproved}
	require.NoError(t, e.TransitionTo(EnrollmentWithdrawn, 3))
	assert.True(t, e.IsTerminal())

	e = &Enrollment{Status: EnrollmentRequested}
	assert.ErrorIs(t, e.TransitionTo(EnrollmentWithdrawn, 3), ErrEnrollmentInvalidTransition)
}

func TestEnrollmentTerminalStatusesAreFinal(t *testing.T) {
	for _, status := range []EnrollmentStatus{EnrollmentRejected, EnrollmentCancelled, EnrollmentWithdrawn} {
		e := &Enrollment{Status: status}
		assert.True(t, e.IsTerminal(), "%s", status)
		assert.ErrorIs(t, e.TransitionTo(EnrollmentApproved, 3), ErrEnrollmentInvalidTransition)
	}
}

func TestEnrollmentTransitionRecordsEventWithUser(t *testing.T) {
	e := &Enrollment{ID: 1, CompetitionID: 2, UserID: 3, Status: EnrollmentRequested}
	require.NoError(t, e.TransitionTo(EnrollmentApproved, 9))

	events := e.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventEnrollmentApproved, events[0].Type)
	assert.Equal(t, 2, events[0].CompetitionID)
	assert.Equal(t, 9, events[0].ActorID)
	assert.Equal(t, map[string]int{"user_id": 3}, events[0].Payload)
}

func TestSetCustomHandicap(t *testing.T) {
	e := &Enrollment{Status: EnrollmentApproved}

	v := 12.4
	require.NoError(t, e.SetCustomHandicap(&v))
	require.NotNil(t, e.CustomHandicap)
	assert.Equal(t, 12.4, *e.CustomHandicap)

	// Clearing the override is allowed.
	require.NoError(t, e.SetCustomHandicap(nil))
	assert.Nil(t, e.CustomHandicap)
}

func TestSetCustomHandicap_Bounds(t *testing.T) {
	e := &Enrollment{Status: EnrollmentApproved}

	low := -10.1
	assert.ErrorIs(t, e.SetCustomHandicap(&low), ErrEnrollmentInvalidHandicap)

	high := 54.1
	assert.ErrorIs(t, e.SetCustomHandicap(&high), ErrEnrollmentInvalidHandicap)

	plus := -10.0
	assert.NoError(t, e.SetCustomHandicap(&plus))
	max := 54.0
	assert.NoError(t, e.SetCustomHandicap(&max))
}

func TestSetCustomHandicap_TerminalEnrollment(t *testing.T) {
	e := &Enrollment{Status: EnrollmentWithdrawn}
	v := 8.0
	assert.ErrorIs(t, e.SetCustomHandicap(&v), ErrEnrollmentTerminal)
}
