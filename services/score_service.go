package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	appdb "github.com/Dosada05/ryder-manager/db"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/Dosada05/ryder-manager/scoring"
)

// MatchRoom names the websocket room live updates for a match go to.
func MatchRoom(matchID int) string {
	return fmt.Sprintf("match:%d", matchID)
}

type SubmitHoleScoreInput struct {
	MatchID    int  `json:"match_id"`
	HoleNumber int  `json:"hole_number"`
	// PlayerID is the player the score belongs to. The submitter is either
	// that player (own entry) or their marker (marker entry).
	PlayerID int  `json:"player_id"`
	Score    *int `json:"score"` // nil records a picked-up ball
}

type ScoreService interface {
	// SubmitHoleScore writes one side of a hole's dual entry. The role is
	// derived from who submits: the player writes the own field, their
	// marker the marker field. A locked side is silently left unchanged.
	SubmitHoleScore(ctx context.Context, currentUserID int, input SubmitHoleScoreInput) (*models.HoleScore, error)
	// SubmitScorecard locks a player's card in. Requires all 18 of their
	// holes to be validated; completes the match once every player has
	// submitted, and the round once every match is finished.
	SubmitScorecard(ctx context.Context, currentUserID, matchID int) (*models.Match, error)
	Concede(ctx context.Context, currentUserID, matchID int, team models.TeamSide, reason string) (*models.Match, error)
	Walkover(ctx context.Context, currentUserID, matchID int, winner models.TeamSide) (*models.Match, error)

	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListHoleScores(ctx context.Context, matchID int) ([]*models.HoleScore, error)
	GetStanding(ctx context.Context, matchID int) (*scoring.Standing, error)
	// CompetitionPoints tallies Ryder Cup points across every finished
	// match of the competition.
	CompetitionPoints(ctx context.Context, competitionID int) (*scoring.PointAward, error)
}

type scoreService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	roundRepo       repositories.RoundRepository
	scoreRepo       repositories.HoleScoreRepository
	competitionRepo repositories.CompetitionRepository
	hub             *scoring.Hub
	dispatcher      *EventDispatcher
	logger          *slog.Logger
}

func NewScoreService(
	database *sql.DB,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	scoreRepo repositories.HoleScoreRepository,
	competitionRepo repositories.CompetitionRepository,
	hub *scoring.Hub,
	dispatcher *EventDispatcher,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		db:              database,
		matchRepo:       matchRepo,
		roundRepo:       roundRepo,
		scoreRepo:       scoreRepo,
		competitionRepo: competitionRepo,
		hub:             hub,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

func (s *scoreService) SubmitHoleScore(ctx context.Context, currentUserID int, input SubmitHoleScoreInput) (*models.HoleScore, error) {
	if err := models.ValidateHoleNumber(input.HoleNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if err := models.ValidateGrossScore(input.Score); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	var (
		holeScore *models.HoleScore
		match     *models.Match
		round     *models.Round
		started   bool
	)
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.FindByIDForUpdate(ctx, tx, input.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.IsFinished() {
			return fmt.Errorf("%w: match is %s", ErrForbiddenOperation, match.Status)
		}
		player := match.PlayerByID(input.PlayerID)
		if player == nil {
			return ErrPlayerNotInMatch
		}
		// In foursomes only the card keepers carry the shared ball's score;
		// an entry for anyone else could never be marker-confirmed.
		if !match.IsCardKeeper(input.PlayerID) {
			return fmt.Errorf("%w: player %d does not keep a card in this match", ErrForbiddenOperation, input.PlayerID)
		}

		role, err := s.resolveRole(match, currentUserID, input.PlayerID)
		if err != nil {
			return err
		}
		// A submitted card freezes every field its owner wrote; the stored
		// row, if any, wins.
		if match.HasSubmittedScorecard(currentUserID) {
			holeScore, err = s.scoreRepo.FindByMatchHolePlayer(ctx, tx, input.MatchID, input.HoleNumber, input.PlayerID)
			if err != nil && !errors.Is(err, repositories.ErrHoleScoreNotFound) {
				return err
			}
			return ErrScorecardLocked
		}

		holeScore, err = s.scoreRepo.FindByMatchHolePlayer(ctx, tx, input.MatchID, input.HoleNumber, input.PlayerID)
		if err != nil {
			if !errors.Is(err, repositories.ErrHoleScoreNotFound) {
				return err
			}
			strokes := 0
			if player.ReceivesStrokeAt(input.HoleNumber) {
				strokes = 1
			}
			holeScore = &models.HoleScore{
				MatchID:         input.MatchID,
				HoleNumber:      input.HoleNumber,
				PlayerID:        input.PlayerID,
				Team:            player.Team,
				StrokesReceived: strokes,
				Validation:      models.ValidationPending,
			}
		}
		if err := holeScore.SetScore(role, input.Score); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if err := s.scoreRepo.Upsert(ctx, tx, holeScore); err != nil {
			return err
		}

		// The first score puts the match, and its round, in play.
		if match.Status == models.MatchScheduled {
			match.Start()
			started = true
			if err := s.matchRepo.Update(ctx, tx, match); err != nil {
				return err
			}
			round, err = s.roundRepo.FindByID(ctx, tx, match.RoundID)
			if err != nil {
				return err
			}
			if round.Status == models.RoundScheduled {
				if err := round.TransitionTo(models.RoundInProgress); err != nil {
					return err
				}
				if err := s.roundRepo.UpdateStatus(ctx, tx, round.ID, round.Status); err != nil {
					return err
				}
			}
		}

		// Freeze the decided flag and result as soon as the trailing side
		// cannot come back; later holes still record but no longer move
		// either.
		if !match.Decided && holeScore.Validation == models.ValidationMatch {
			scores, err := s.scoreRepo.ListByMatch(ctx, tx, input.MatchID)
			if err != nil {
				return err
			}
			results := holeResults(match, scores)
			if scoring.IsMatchDecided(scoring.CalculateMatchStanding(results)) {
				match.Decided = true
				result := scoring.FormatDecidedResult(results)
				match.Result = &result
				if err := s.matchRepo.Update(ctx, tx, match); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrScorecardLocked) {
			// Silent no-op per the locking protocol: no write, no broadcast.
			if holeScore == nil {
				return nil, ErrNotFound
			}
			return holeScore, nil
		}
		return nil, err
	}

	s.hub.BroadcastToRoom(MatchRoom(input.MatchID), scoring.LiveMessage{
		Type:    string(models.EventHoleScoreSubmitted),
		Payload: holeScore,
		RoomID:  MatchRoom(input.MatchID),
	})
	if started && round != nil {
		s.dispatcher.Dispatch([]models.DomainEvent{{
			Type:          models.EventMatchStarted,
			CompetitionID: round.CompetitionID,
			ActorID:       currentUserID,
			Payload:       map[string]int{"match_id": match.ID},
		}})
	}
	return holeScore, nil
}

// resolveRole maps the submitter to the side of the dual entry they are
// allowed to write for the given player.
func (s *scoreService) resolveRole(match *models.Match, currentUserID, playerID int) (models.ScoreRole, error) {
	if currentUserID == playerID {
		return models.RoleOwn, nil
	}
	if markerID, ok := match.MarkerOf(playerID); ok && markerID == currentUserID {
		return models.RoleMarker, nil
	}
	if match.PlayerByID(currentUserID) == nil {
		return "", ErrPlayerNotInMatch
	}
	return "", fmt.Errorf("%w: user %d is not the marker for player %d", ErrForbiddenOperation, currentUserID, playerID)
}

func (s *scoreService) SubmitScorecard(ctx context.Context, currentUserID, matchID int) (*models.Match, error) {
	var (
		match            *models.Match
		roundCompleted   bool
		alreadySubmitted bool
		competitionID    int
	)
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.FindByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.PlayerByID(currentUserID) == nil {
			return ErrPlayerNotInMatch
		}
		if !match.IsCardKeeper(currentUserID) {
			return fmt.Errorf("%w: user %d does not keep a card in this match", ErrForbiddenOperation, currentUserID)
		}
		if match.IsFinished() {
			return fmt.Errorf("%w: match is %s", ErrForbiddenOperation, match.Status)
		}
		if match.HasSubmittedScorecard(currentUserID) {
			alreadySubmitted = true
			return nil
		}

		playerScores, err := s.scoreRepo.ListByMatchAndPlayer(ctx, tx, matchID, currentUserID)
		if err != nil {
			return err
		}
		if err := checkScorecardComplete(playerScores); err != nil {
			return err
		}

		match.MarkScorecardSubmitted(currentUserID)
		if err := s.matchRepo.MarkScorecardSubmitted(ctx, tx, matchID, currentUserID); err != nil {
			return err
		}

		round, err := s.roundRepo.FindByID(ctx, tx, match.RoundID)
		if err != nil {
			return err
		}
		competitionID = round.CompetitionID

		if !match.AllScorecardsSubmitted() {
			return nil
		}

		scores, err := s.scoreRepo.ListByMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		result := scoring.FormatDecidedResult(holeResults(match, scores))
		if err := match.Complete(result, competitionID, currentUserID); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}

		roundCompleted, err = s.completeRoundIfFinished(ctx, tx, round)
		return err
	})
	if err != nil {
		return nil, err
	}
	if alreadySubmitted {
		return match, nil
	}

	s.dispatcher.Dispatch([]models.DomainEvent{{
		Type:          models.EventScorecardSubmitted,
		CompetitionID: competitionID,
		ActorID:       currentUserID,
		Payload:       map[string]int{"match_id": matchID},
	}})
	s.dispatcher.Dispatch(match.DrainEvents())
	if match.IsFinished() {
		s.hub.BroadcastToRoom(MatchRoom(matchID), scoring.LiveMessage{
			Type:    string(models.EventMatchCompleted),
			Payload: match,
			RoomID:  MatchRoom(matchID),
		})
	}
	if roundCompleted {
		s.dispatcher.Dispatch([]models.DomainEvent{{
			Type:          models.EventRoundCompleted,
			CompetitionID: competitionID,
			ActorID:       currentUserID,
			Payload:       map[string]int{"round_id": match.RoundID},
		}})
	}
	return match, nil
}

// checkScorecardComplete requires a validated entry for every hole: no gaps,
// nothing pending, nothing in dispute.
func checkScorecardComplete(scores []*models.HoleScore) error {
	validated := make(map[int]bool, len(scores))
	for _, sc := range scores {
		if sc.Validation == models.ValidationMismatch {
			return fmt.Errorf("%w: hole %d is disputed", ErrScorecardIncomplete, sc.HoleNumber)
		}
		if sc.Validation == models.ValidationMatch {
			validated[sc.HoleNumber] = true
		}
	}
	for hole := models.HoleMin; hole <= models.HoleMax; hole++ {
		if !validated[hole] {
			return fmt.Errorf("%w: hole %d is not validated", ErrScorecardIncomplete, hole)
		}
	}
	return nil
}

// completeRoundIfFinished closes the round once every match has a result.
func (s *scoreService) completeRoundIfFinished(ctx context.Context, tx *sql.Tx, round *models.Round) (bool, error) {
	matches, err := s.matchRepo.ListByRound(ctx, tx, round.ID)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if !m.IsFinished() {
			return false, nil
		}
	}
	if !round.CanTransitionTo(models.RoundCompleted) {
		return false, nil
	}
	if err := round.TransitionTo(models.RoundCompleted); err != nil {
		return false, err
	}
	if err := s.roundRepo.UpdateStatus(ctx, tx, round.ID, round.Status); err != nil {
		return false, err
	}
	return true, nil
}

// holeResults turns the match's validated hole scores into per-hole outcomes.
// A hole only counts once every player's entry is validated, so live
// standings never swing on half-entered or disputed holes.
func holeResults(match *models.Match, scores []*models.HoleScore) []scoring.HoleResult {
	keepers := match.CardKeepers()
	format := models.FormatSingles
	switch {
	case len(match.TeamAPlayers) > 1 && len(keepers) < len(match.Players()):
		format = models.FormatFoursomes
	case len(match.TeamAPlayers) > 1:
		format = models.FormatFourball
	}
	byHole := make(map[int][]*models.HoleScore)
	for _, sc := range scores {
		byHole[sc.HoleNumber] = append(byHole[sc.HoleNumber], sc)
	}

	var results []scoring.HoleResult
	for hole := models.HoleMin; hole <= models.HoleMax; hole++ {
		entries := byHole[hole]
		if len(entries) < len(keepers) {
			continue
		}
		allValidated := true
		var netsA, netsB []*int
		for _, sc := range entries {
			if sc.Validation != models.ValidationMatch {
				allValidated = false
				break
			}
			if sc.Team == models.TeamA {
				netsA = append(netsA, sc.NetScore)
			} else {
				netsB = append(netsB, sc.NetScore)
			}
		}
		if !allValidated {
			continue
		}
		outcome, err := scoring.CalculateHoleWinner(netsA, netsB, format)
		if err != nil {
			continue
		}
		results = append(results, scoring.HoleResult{HoleNumber: hole, Outcome: outcome})
	}
	return results
}

func (s *scoreService) Concede(ctx context.Context, currentUserID, matchID int, team models.TeamSide, reason string) (*models.Match, error) {
	return s.finishAdministratively(ctx, currentUserID, matchID, func(match *models.Match, competition *models.Competition, competitionID int) error {
		// A player concedes for their own team; the creator for either.
		if competition.CreatorID != currentUserID {
			playerTeam, ok := match.TeamOf(currentUserID)
			if !ok {
				return ErrPlayerNotInMatch
			}
			if playerTeam != team {
				return fmt.Errorf("%w: players can only concede for their own team", ErrForbiddenOperation)
			}
		}
		return match.Concede(team, reason, competitionID, currentUserID)
	})
}

func (s *scoreService) Walkover(ctx context.Context, currentUserID, matchID int, winner models.TeamSide) (*models.Match, error) {
	return s.finishAdministratively(ctx, currentUserID, matchID, func(match *models.Match, competition *models.Competition, competitionID int) error {
		if competition.CreatorID != currentUserID {
			return ErrCreatorOnly
		}
		return match.Walkover(winner, competitionID, currentUserID)
	})
}

func (s *scoreService) finishAdministratively(ctx context.Context, currentUserID, matchID int, apply func(*models.Match, *models.Competition, int) error) (*models.Match, error) {
	var (
		match          *models.Match
		roundCompleted bool
		competitionID  int
	)
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.FindByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		round, err := s.roundRepo.FindByID(ctx, tx, match.RoundID)
		if err != nil {
			return err
		}
		competitionID = round.CompetitionID
		competition, err := s.competitionRepo.GetByID(ctx, tx, competitionID)
		if err != nil {
			return err
		}
		if err := apply(match, competition, competitionID); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return err
		}
		roundCompleted, err = s.completeRoundIfFinished(ctx, tx, round)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(match.DrainEvents())
	s.hub.BroadcastToRoom(MatchRoom(matchID), scoring.LiveMessage{
		Type:    string(models.EventMatchCompleted),
		Payload: match,
		RoomID:  MatchRoom(matchID),
	})
	if roundCompleted {
		s.dispatcher.Dispatch([]models.DomainEvent{{
			Type:          models.EventRoundCompleted,
			CompetitionID: competitionID,
			ActorID:       currentUserID,
			Payload:       map[string]int{"round_id": match.RoundID},
		}})
	}
	return match, nil
}

func (s *scoreService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *scoreService) ListHoleScores(ctx context.Context, matchID int) ([]*models.HoleScore, error) {
	scores, err := s.scoreRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		return []*models.HoleScore{}, nil
	}
	return scores, nil
}

func (s *scoreService) GetStanding(ctx context.Context, matchID int) (*scoring.Standing, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	standing := scoring.CalculateMatchStanding(holeResults(match, scores))
	return &standing, nil
}

func (s *scoreService) CompetitionPoints(ctx context.Context, competitionID int) (*scoring.PointAward, error) {
	rounds, err := s.roundRepo.ListByCompetition(ctx, nil, competitionID)
	if err != nil {
		return nil, err
	}
	var awards []scoring.PointAward
	for _, round := range rounds {
		matches, err := s.matchRepo.ListByRound(ctx, nil, round.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			awards = append(awards, scoring.CalculateRyderCupPoints(m.Result, m.Status))
		}
	}
	tally := scoring.Tally(awards)
	return &tally, nil
}
