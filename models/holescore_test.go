package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreOf(v int) *int { return &v }

func TestHoleScoreDualEntryAgreement(t *testing.T) {
	h := &HoleScore{MatchID: 1, HoleNumber: 4, PlayerID: 10, Team: TeamA}
	assert.Equal(t, ScoreValidationStatus(""), h.Validation)

	require.NoError(t, h.SetScore(RoleOwn, scoreOf(5)))
	assert.Equal(t, ValidationPending, h.Validation)
	assert.Nil(t, h.NetScore)

	require.NoError(t, h.SetScore(RoleMarker, scoreOf(5)))
	assert.Equal(t, ValidationMatch, h.Validation)
	require.NotNil(t, h.NetScore)
	assert.Equal(t, 5, *h.NetScore)
}

func TestHoleScoreMismatch(t *testing.T) {
	h := &HoleScore{HoleNumber: 7, PlayerID: 10}
	require.NoError(t, h.SetScore(RoleOwn, scoreOf(4)))
	require.NoError(t, h.SetScore(RoleMarker, scoreOf(5)))

	assert.Equal(t, ValidationMismatch, h.Validation)
	assert.Nil(t, h.NetScore)

	// A corrected resubmission resolves the dispute.
	require.NoError(t, h.SetScore(RoleOwn, scoreOf(5)))
	assert.Equal(t, ValidationMatch, h.Validation)
}

func TestHoleScoreNetAppliesStroke(t *testing.T) {
	h := &HoleScore{HoleNumber: 3, PlayerID: 10, StrokesReceived: 1}
	require.NoError(t, h.SetScore(RoleOwn, scoreOf(5)))
	require.NoError(t, h.SetScore(RoleMarker, scoreOf(5)))

	require.NotNil(t, h.NetScore)
	assert.Equal(t, 4, *h.NetScore)
}

func TestHoleScorePickedUpBall(t *testing.T) {
	h := &HoleScore{HoleNumber: 12, PlayerID: 10}
	require.NoError(t, h.SetScore(RoleOwn, nil))
	require.NoError(t, h.SetScore(RoleMarker, nil))

	// Both agree the ball was picked up; the hole counts but carries no net.
	assert.Equal(t, ValidationMatch, h.Validation)
	assert.Nil(t, h.NetScore)
}

func TestHoleScorePickupVersusScoreMismatches(t *testing.T) {
	h := &HoleScore{HoleNumber: 12, PlayerID: 10}
	require.NoError(t, h.SetScore(RoleOwn, nil))
	require.NoError(t, h.SetScore(RoleMarker, scoreOf(6)))
	assert.Equal(t, ValidationMismatch, h.Validation)
}

func TestHoleScoreRange(t *testing.T) {
	h := &HoleScore{HoleNumber: 1, PlayerID: 10}
	assert.ErrorIs(t, h.SetScore(RoleOwn, scoreOf(0)), ErrScoreOutOfRange)
	assert.ErrorIs(t, h.SetScore(RoleOwn, scoreOf(10)), ErrScoreOutOfRange)
	assert.NoError(t, h.SetScore(RoleOwn, scoreOf(1)))
	assert.NoError(t, h.SetScore(RoleOwn, scoreOf(9)))
}

func TestHoleScoreInvalidRole(t *testing.T) {
	h := &HoleScore{HoleNumber: 1, PlayerID: 10}
	assert.ErrorIs(t, h.SetScore("referee", scoreOf(4)), ErrInvalidScoreRole)
}

func TestRecalculateValidationIdempotent(t *testing.T) {
	h := &HoleScore{HoleNumber: 9, PlayerID: 10, StrokesReceived: 1}
	require.NoError(t, h.SetScore(RoleOwn, scoreOf(4)))
	require.NoError(t, h.SetScore(RoleMarker, scoreOf(4)))

	before := *h
	h.RecalculateValidation()
	assert.Equal(t, before.Validation, h.Validation)
	assert.Equal(t, *before.NetScore, *h.NetScore)
}

func TestValidateHoleNumber(t *testing.T) {
	assert.ErrorIs(t, ValidateHoleNumber(0), ErrHoleNumberOutOfRange)
	assert.ErrorIs(t, ValidateHoleNumber(19), ErrHoleNumberOutOfRange)
	assert.NoError(t, ValidateHoleNumber(1))
	assert.NoError(t, ValidateHoleNumber(18))
}
