package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/federation"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users map[int]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

type fakeHandicapProvider struct {
	index float64
	err   error
}

func (f *fakeHandicapProvider) GetHandicapIndex(ctx context.Context, playerName string) (float64, error) {
	return f.index, f.err
}

func floatPtr(v float64) *float64 { return &v }

func testRoundService(users map[int]*models.User, provider federation.HandicapProvider) *roundService {
	return &roundService{
		userRepo:         &fakeUserRepo{users: users},
		handicapProvider: provider,
		logger:           slog.Default(),
	}
}

func TestResolveHandicapIndex_CustomOverrideWins(t *testing.T) {
	s := testRoundService(nil, &fakeHandicapProvider{index: 20.0})
	e := &models.Enrollment{UserID: 1, CustomHandicap: floatPtr(6.5)}

	hi, err := s.resolveHandicapIndex(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, 6.5, hi)
}

func TestResolveHandicapIndex_FederationLookup(t *testing.T) {
	users := map[int]*models.User{
		1: {ID: 1, FirstName: "Marie", LastName: "Dubois", HandicapIndex: floatPtr(30.0)},
	}
	s := testRoundService(users, &fakeHandicapProvider{index: 14.2})

	hi, err := s.resolveHandicapIndex(context.Background(), &models.Enrollment{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 14.2, hi)
}

func TestResolveHandicapIndex_FallsBackToStoredIndex(t *testing.T) {
	users := map[int]*models.User{
		1: {ID: 1, FirstName: "Marie", LastName: "Dubois", HandicapIndex: floatPtr(18.7)},
	}

	// Unknown player in the registry uses the stored index.
	s := testRoundService(users, &fakeHandicapProvider{err: federation.ErrPlayerNotFound})
	hi, err := s.resolveHandicapIndex(context.Background(), &models.Enrollment{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 18.7, hi)

	// An unreachable federation degrades the same way.
	s = testRoundService(users, &fakeHandicapProvider{err: federation.ErrUnavailable})
	hi, err = s.resolveHandicapIndex(context.Background(), &models.Enrollment{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 18.7, hi)
}

func TestResolveHandicapIndex_NothingAvailable(t *testing.T) {
	users := map[int]*models.User{
		1: {ID: 1, FirstName: "Marie", LastName: "Dubois"},
	}
	s := testRoundService(users, &fakeHandicapProvider{err: federation.ErrPlayerNotFound})

	_, err := s.resolveHandicapIndex(context.Background(), &models.Enrollment{UserID: 1})
	assert.ErrorIs(t, err, ErrHandicapUnavailable)
}

func TestResolveHandicapIndex_UnknownUser(t *testing.T) {
	s := testRoundService(nil, &fakeHandicapProvider{})
	_, err := s.resolveHandicapIndex(context.Background(), &models.Enrollment{UserID: 99})
	assert.True(t, errors.Is(err, repositories.ErrUserNotFound))
}

func singlesRound(mode *models.HandicapMode) *models.Round {
	return &models.Round{Format: models.FormatSingles, HandicapMode: mode}
}

func matchWithHandicaps(phA, phB []int) *models.Match {
	m := &models.Match{}
	for i, ph := range phA {
		m.TeamAPlayers = append(m.TeamAPlayers, models.MatchPlayer{UserID: i + 1, Team: models.TeamA, PlayingHandicap: ph})
	}
	for i, ph := range phB {
		m.TeamBPlayers = append(m.TeamBPlayers, models.MatchPlayer{UserID: 10 + i, Team: models.TeamB, PlayingHandicap: ph})
	}
	return m
}

func TestApplyFormatHandicaps_SinglesMatchPlayDifference(t *testing.T) {
	s := testRoundService(nil, nil)
	match := matchWithHandicaps([]int{12}, []int{7})

	s.applyFormatHandicaps(singlesRound(nil), match)
	assert.Equal(t, 5, match.TeamAPlayers[0].PlayingHandicap)
	assert.Equal(t, 0, match.TeamBPlayers[0].PlayingHandicap)
}

func TestApplyFormatHandicaps_SinglesStrokePlayKeepsFullHandicaps(t *testing.T) {
	s := testRoundService(nil, nil)
	strokePlay := models.HandicapStrokePlay
	match := matchWithHandicaps([]int{12}, []int{7})

	s.applyFormatHandicaps(singlesRound(&strokePlay), match)
	assert.Equal(t, 12, match.TeamAPlayers[0].PlayingHandicap)
	assert.Equal(t, 7, match.TeamBPlayers[0].PlayingHandicap)
}

func TestApplyFormatHandicaps_FoursomesSharedTeamHandicap(t *testing.T) {
	s := testRoundService(nil, nil)
	round := &models.Round{Format: models.FormatFoursomes}
	match := matchWithHandicaps([]int{8, 4}, []int{2, 2})

	// Side averages 6 and 2, difference of 4 to team A, shared by both
	// partners.
	s.applyFormatHandicaps(round, match)
	assert.Equal(t, 4, match.TeamAPlayers[0].PlayingHandicap)
	assert.Equal(t, 4, match.TeamAPlayers[1].PlayingHandicap)
	assert.Equal(t, 0, match.TeamBPlayers[0].PlayingHandicap)
	assert.Equal(t, 0, match.TeamBPlayers[1].PlayingHandicap)
}

func TestApplyFormatHandicaps_FourballKeepsIndividualHandicaps(t *testing.T) {
	s := testRoundService(nil, nil)
	round := &models.Round{Format: models.FormatFourball}
	match := matchWithHandicaps([]int{9, 5}, []int{3, 7})

	s.applyFormatHandicaps(round, match)
	assert.Equal(t, 9, match.TeamAPlayers[0].PlayingHandicap)
	assert.Equal(t, 5, match.TeamAPlayers[1].PlayingHandicap)
	assert.Equal(t, 3, match.TeamBPlayers[0].PlayingHandicap)
	assert.Equal(t, 7, match.TeamBPlayers[1].PlayingHandicap)
}

func TestApplyFormatHandicaps_NegativeHandicapsFloorAtZero(t *testing.T) {
	s := testRoundService(nil, nil)
	strokePlay := models.HandicapStrokePlay
	match := matchWithHandicaps([]int{-2}, []int{5})

	s.applyFormatHandicaps(singlesRound(&strokePlay), match)
	assert.Equal(t, 0, match.TeamAPlayers[0].PlayingHandicap)
	assert.Equal(t, 5, match.TeamBPlayers[0].PlayingHandicap)
}
