package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appdb "github.com/Dosada05/ryder-manager/db"
	"github.com/Dosada05/ryder-manager/draft"
	"github.com/Dosada05/ryder-manager/federation"
	"github.com/Dosada05/ryder-manager/handicap"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/Dosada05/ryder-manager/scoring"
)

type CreateRoundInput struct {
	CompetitionID     int                  `json:"competition_id"`
	CourseID          int                  `json:"course_id"`
	Date              time.Time            `json:"date"`
	Session           models.SessionType   `json:"session_type"`
	Format            models.MatchFormat   `json:"match_format"`
	HandicapMode      *models.HandicapMode `json:"handicap_mode,omitempty"`
	AllowanceOverride *int                 `json:"allowance_override,omitempty"`
}

// PlayerSlot names one participant of a match pairing and the tees they
// play from.
type PlayerSlot struct {
	UserID      int    `json:"user_id"`
	TeeCategory string `json:"tee_category"`
}

// MatchPairing is one creator-composed head-to-head for match generation.
type MatchPairing struct {
	TeamA []PlayerSlot `json:"team_a"`
	TeamB []PlayerSlot `json:"team_b"`
}

type RoundService interface {
	Create(ctx context.Context, currentUserID int, input CreateRoundInput) (*models.Round, error)
	GetByID(ctx context.Context, roundID int) (*models.Round, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Round, error)
	Delete(ctx context.Context, currentUserID, roundID int) error

	// AssignTeamsAutomatic splits the approved players with a snake draft and
	// advances every round waiting on teams.
	AssignTeamsAutomatic(ctx context.Context, currentUserID, competitionID int) (*models.TeamAssignment, error)
	// AssignTeamsManual records a creator-supplied split after checking the
	// teams are disjoint, duplicate-free and equal-sized.
	AssignTeamsManual(ctx context.Context, currentUserID, competitionID int, teamA, teamB []int) (*models.TeamAssignment, error)
	GetTeamAssignment(ctx context.Context, competitionID int) (*models.TeamAssignment, error)

	// GenerateMatches bakes pairings into matches: playing handicaps, stroke
	// holes and marker assignments are all computed and frozen here.
	GenerateMatches(ctx context.Context, currentUserID, roundID int, pairings []MatchPairing) ([]*models.Match, error)
	// Start moves a fully generated round into play.
	Start(ctx context.Context, currentUserID, roundID int) (*models.Round, error)
}

type roundService struct {
	db               *sql.DB
	roundRepo        repositories.RoundRepository
	matchRepo        repositories.MatchRepository
	competitionRepo  repositories.CompetitionRepository
	enrollmentRepo   repositories.EnrollmentRepository
	assignmentRepo   repositories.TeamAssignmentRepository
	userRepo         repositories.UserRepository
	courseRepo       repositories.CourseRepository
	handicapProvider federation.HandicapProvider
	dispatcher       *EventDispatcher
	logger           *slog.Logger
}

func NewRoundService(
	database *sql.DB,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	competitionRepo repositories.CompetitionRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	assignmentRepo repositories.TeamAssignmentRepository,
	userRepo repositories.UserRepository,
	courseRepo repositories.CourseRepository,
	handicapProvider federation.HandicapProvider,
	dispatcher *EventDispatcher,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		db:               database,
		roundRepo:        roundRepo,
		matchRepo:        matchRepo,
		competitionRepo:  competitionRepo,
		enrollmentRepo:   enrollmentRepo,
		assignmentRepo:   assignmentRepo,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		handicapProvider: handicapProvider,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

func (s *roundService) Create(ctx context.Context, currentUserID int, input CreateRoundInput) (*models.Round, error) {
	competition, err := s.competitionRepo.GetByID(ctx, nil, input.CompetitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	if competition.CreatorID != currentUserID {
		return nil, ErrCreatorOnly
	}
	if competition.Status != models.CompetitionClosed && competition.Status != models.CompetitionInProgress {
		return nil, fmt.Errorf("%w: rounds can only be added after enrollments close, competition is %s",
			ErrForbiddenOperation, competition.Status)
	}
	if _, err := s.courseRepo.GetByID(ctx, input.CourseID); err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	round := &models.Round{
		CompetitionID:     input.CompetitionID,
		CourseID:          input.CourseID,
		Date:              input.Date,
		Session:           input.Session,
		Format:            input.Format,
		Status:            models.RoundPendingTeams,
		HandicapMode:      input.HandicapMode,
		AllowanceOverride: input.AllowanceOverride,
	}
	if err := round.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// A round created after the team split skips straight to pairing.
	if _, err := s.assignmentRepo.FindByCompetition(ctx, nil, input.CompetitionID); err == nil {
		round.Status = models.RoundPendingMatches
	} else if !errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
		return nil, err
	}

	if err := s.roundRepo.Create(ctx, nil, round); err != nil {
		return nil, err
	}
	return round, nil
}

func (s *roundService) GetByID(ctx context.Context, roundID int) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(ctx, nil, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	matches, err := s.matchRepo.ListByRound(ctx, nil, roundID)
	if err != nil {
		return nil, err
	}
	round.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		round.Matches = append(round.Matches, *m)
	}
	return round, nil
}

func (s *roundService) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Round, error) {
	rounds, err := s.roundRepo.ListByCompetition(ctx, nil, competitionID)
	if err != nil {
		return nil, err
	}
	if rounds == nil {
		return []*models.Round{}, nil
	}
	return rounds, nil
}

func (s *roundService) Delete(ctx context.Context, currentUserID, roundID int) error {
	round, err := s.roundRepo.FindByID(ctx, nil, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	competition, err := s.competitionRepo.GetByID(ctx, nil, round.CompetitionID)
	if err != nil {
		return err
	}
	if competition.CreatorID != currentUserID {
		return ErrCreatorOnly
	}
	if round.Status == models.RoundInProgress || round.Status == models.RoundCompleted {
		return fmt.Errorf("%w: round is %s", ErrForbiddenOperation, round.Status)
	}
	return s.roundRepo.Delete(ctx, roundID)
}

func (s *roundService) AssignTeamsAutomatic(ctx context.Context, currentUserID, competitionID int) (*models.TeamAssignment, error) {
	players, err := s.rankApprovedPlayers(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	drafted, err := draft.AssignTeams(players, models.TeamA)
	if err != nil {
		if errors.Is(err, draft.ErrNotEnoughPlayers) {
			return nil, ErrNotEnoughPlayers
		}
		return nil, err
	}

	assignment := &models.TeamAssignment{
		CompetitionID: competitionID,
		Mode:          models.TeamAssignmentAutomatic,
	}
	for _, a := range drafted {
		if a.Team == models.TeamA {
			assignment.TeamAUserIDs = append(assignment.TeamAUserIDs, a.UserID)
		} else {
			assignment.TeamBUserIDs = append(assignment.TeamBUserIDs, a.UserID)
		}
	}
	// An odd roster leaves the teams one apart; trim is the creator's call,
	// so the draft result is stored as drawn only when it validates.
	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return s.persistAssignment(ctx, currentUserID, assignment)
}

func (s *roundService) AssignTeamsManual(ctx context.Context, currentUserID, competitionID int, teamA, teamB []int) (*models.TeamAssignment, error) {
	assignment := &models.TeamAssignment{
		CompetitionID: competitionID,
		Mode:          models.TeamAssignmentManual,
		TeamAUserIDs:  teamA,
		TeamBUserIDs:  teamB,
	}
	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	approved := models.EnrollmentApproved
	enrollments, err := s.enrollmentRepo.ListByCompetition(ctx, nil, competitionID, &approved)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[int]bool, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.UserID] = true
	}
	for _, id := range append(append([]int{}, teamA...), teamB...) {
		if !enrolled[id] {
			return nil, fmt.Errorf("%w: user %d has no approved enrollment", ErrValidationFailed, id)
		}
	}
	return s.persistAssignment(ctx, currentUserID, assignment)
}

// persistAssignment stores the split, stamps each enrollment with its team
// and releases all rounds waiting on teams, in one transaction.
func (s *roundService) persistAssignment(ctx context.Context, currentUserID int, assignment *models.TeamAssignment) (*models.TeamAssignment, error) {
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		competition, err := s.competitionRepo.GetByIDForUpdate(ctx, tx, assignment.CompetitionID)
		if err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
		if competition.CreatorID != currentUserID {
			return ErrCreatorOnly
		}
		if competition.Status != models.CompetitionClosed && competition.Status != models.CompetitionInProgress {
			return fmt.Errorf("%w: teams can only be assigned after enrollments close, competition is %s",
				ErrForbiddenOperation, competition.Status)
		}

		if err := s.assignmentRepo.Create(ctx, tx, assignment); err != nil {
			if errors.Is(err, repositories.ErrTeamAssignmentConflict) {
				return fmt.Errorf("%w: teams already assigned", ErrForbiddenOperation)
			}
			return err
		}

		approved := models.EnrollmentApproved
		enrollments, err := s.enrollmentRepo.ListByCompetition(ctx, tx, assignment.CompetitionID, &approved)
		if err != nil {
			return err
		}
		for _, e := range enrollments {
			team, ok := assignment.TeamOf(e.UserID)
			if !ok {
				continue
			}
			teamStr := string(team)
			if err := s.enrollmentRepo.UpdateTeam(ctx, tx, e.ID, &teamStr); err != nil {
				return err
			}
		}

		rounds, err := s.roundRepo.ListByCompetition(ctx, tx, assignment.CompetitionID)
		if err != nil {
			return err
		}
		for _, round := range rounds {
			if round.Status != models.RoundPendingTeams {
				continue
			}
			if err := round.TransitionTo(models.RoundPendingMatches); err != nil {
				return err
			}
			if err := s.roundRepo.UpdateStatus(ctx, tx, round.ID, round.Status); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch([]models.DomainEvent{{
		Type:          models.EventTeamsAssigned,
		CompetitionID: assignment.CompetitionID,
		ActorID:       currentUserID,
		Payload:       assignment,
		OccurredAt:    time.Now().UTC(),
	}})
	return assignment, nil
}

func (s *roundService) GetTeamAssignment(ctx context.Context, competitionID int) (*models.TeamAssignment, error) {
	assignment, err := s.assignmentRepo.FindByCompetition(ctx, nil, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
			return nil, ErrTeamsNotAssigned
		}
		return nil, err
	}
	return assignment, nil
}

// rankApprovedPlayers resolves a handicap for every approved player, used as
// the draft ranking. Resolution order is the enrollment's custom handicap,
// then the federation index, then the user's stored index.
func (s *roundService) rankApprovedPlayers(ctx context.Context, competitionID int) ([]draft.RankedPlayer, error) {
	approved := models.EnrollmentApproved
	enrollments, err := s.enrollmentRepo.ListByCompetition(ctx, nil, competitionID, &approved)
	if err != nil {
		return nil, err
	}
	players := make([]draft.RankedPlayer, 0, len(enrollments))
	for _, e := range enrollments {
		hi, err := s.resolveHandicapIndex(ctx, e)
		if err != nil {
			return nil, err
		}
		players = append(players, draft.RankedPlayer{UserID: e.UserID, Handicap: hi})
	}
	return players, nil
}

// resolveHandicapIndex runs the fallback chain for one enrollment. The
// federation call happens outside any transaction; an unreachable federation
// degrades to the stored index instead of failing the use case.
func (s *roundService) resolveHandicapIndex(ctx context.Context, e *models.Enrollment) (float64, error) {
	if e.CustomHandicap != nil {
		return *e.CustomHandicap, nil
	}
	user, err := s.userRepo.GetByID(ctx, e.UserID)
	if err != nil {
		return 0, err
	}
	hi, err := s.handicapProvider.GetHandicapIndex(ctx, user.FullName())
	if err == nil {
		return hi, nil
	}
	if !errors.Is(err, federation.ErrPlayerNotFound) {
		s.logger.Warn("federation handicap lookup failed, falling back to stored index",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}
	if user.HandicapIndex != nil {
		return *user.HandicapIndex, nil
	}
	return 0, fmt.Errorf("%w: no handicap available for user %d", ErrHandicapUnavailable, user.ID)
}

func (s *roundService) GenerateMatches(ctx context.Context, currentUserID, roundID int, pairings []MatchPairing) ([]*models.Match, error) {
	round, err := s.roundRepo.FindByID(ctx, nil, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	competition, err := s.competitionRepo.GetByID(ctx, nil, round.CompetitionID)
	if err != nil {
		return nil, err
	}
	if competition.CreatorID != currentUserID {
		return nil, ErrCreatorOnly
	}
	if round.Status != models.RoundPendingMatches {
		return nil, fmt.Errorf("%w: round is %s", models.ErrRoundInvalidTransition, round.Status)
	}
	if len(pairings) == 0 {
		return nil, fmt.Errorf("%w: at least one pairing is required", ErrValidationFailed)
	}

	assignment, err := s.assignmentRepo.FindByCompetition(ctx, nil, round.CompetitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
			return nil, ErrTeamsNotAssigned
		}
		return nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, round.CourseID)
	if err != nil {
		return nil, err
	}
	approved := models.EnrollmentApproved
	enrollments, err := s.enrollmentRepo.ListByCompetition(ctx, nil, round.CompetitionID, &approved)
	if err != nil {
		return nil, err
	}
	enrollmentByUser := make(map[int]*models.Enrollment, len(enrollments))
	for _, e := range enrollments {
		enrollmentByUser[e.UserID] = e
	}

	// Handicap resolution and the WHS math run before the transaction opens.
	matches := make([]*models.Match, 0, len(pairings))
	seen := make(map[int]bool)
	for i, pairing := range pairings {
		match := &models.Match{
			RoundID:     roundID,
			MatchNumber: i + 1,
			Status:      models.MatchScheduled,
		}
		match.TeamAPlayers, err = s.buildSide(ctx, round, course, assignment, enrollmentByUser, pairing.TeamA, models.TeamA, seen)
		if err != nil {
			return nil, err
		}
		match.TeamBPlayers, err = s.buildSide(ctx, round, course, assignment, enrollmentByUser, pairing.TeamB, models.TeamB, seen)
		if err != nil {
			return nil, err
		}
		if err := match.ValidateTeams(round.PlayersPerTeam()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}

		s.applyFormatHandicaps(round, match)
		s.bakeStrokeHoles(course, match)

		markers, err := scoring.GenerateMarkerAssignments(match.TeamAPlayers, match.TeamBPlayers, round.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if err := match.SetMarkers(markers); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	err = appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, match := range matches {
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return err
			}
		}
		if err := round.TransitionTo(models.RoundScheduled); err != nil {
			return err
		}
		return s.roundRepo.UpdateStatus(ctx, tx, roundID, round.Status)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch([]models.DomainEvent{{
		Type:          models.EventMatchesGenerated,
		CompetitionID: round.CompetitionID,
		ActorID:       currentUserID,
		Payload:       map[string]int{"round_id": roundID, "matches": len(matches)},
		OccurredAt:    time.Now().UTC(),
	}})
	return matches, nil
}

// buildSide snapshots one team of a pairing into MatchPlayer values with the
// raw per-player WHS handicap. Format adjustments follow in
// applyFormatHandicaps.
func (s *roundService) buildSide(
	ctx context.Context,
	round *models.Round,
	course *models.GolfCourse,
	assignment *models.TeamAssignment,
	enrollmentByUser map[int]*models.Enrollment,
	slots []PlayerSlot,
	side models.TeamSide,
	seen map[int]bool,
) ([]models.MatchPlayer, error) {
	if len(slots) != round.PlayersPerTeam() {
		return nil, fmt.Errorf("%w: team %s needs %d players, got %d",
			ErrValidationFailed, side, round.PlayersPerTeam(), len(slots))
	}
	allowance := handicap.Allowance(round)
	players := make([]models.MatchPlayer, 0, len(slots))
	for _, slot := range slots {
		if seen[slot.UserID] {
			return nil, fmt.Errorf("%w: user %d already paired in this round", ErrValidationFailed, slot.UserID)
		}
		seen[slot.UserID] = true

		assignedTeam, ok := assignment.TeamOf(slot.UserID)
		if !ok {
			return nil, fmt.Errorf("%w: user %d is not on either team", ErrValidationFailed, slot.UserID)
		}
		if assignedTeam != side {
			return nil, fmt.Errorf("%w: user %d belongs to team %s", ErrValidationFailed, slot.UserID, assignedTeam)
		}
		enrollment, ok := enrollmentByUser[slot.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: user %d has no approved enrollment", ErrValidationFailed, slot.UserID)
		}
		tee := course.TeeByCategory(slot.TeeCategory)
		if tee == nil {
			return nil, fmt.Errorf("%w: course has no %q tees", ErrValidationFailed, slot.TeeCategory)
		}
		hi, err := s.resolveHandicapIndex(ctx, enrollment)
		if err != nil {
			return nil, err
		}
		ph, err := handicap.PlayingHandicap(handicap.Input{
			HandicapIndex: hi,
			SlopeRating:   tee.SlopeRating,
			CourseRating:  tee.CourseRating,
			Par:           course.Par,
			AllowancePct:  allowance,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		user, err := s.userRepo.GetByID(ctx, slot.UserID)
		if err != nil {
			return nil, err
		}
		players = append(players, models.MatchPlayer{
			UserID:          slot.UserID,
			Team:            side,
			PlayingHandicap: ph,
			TeeCategory:     slot.TeeCategory,
			Gender:          user.Gender,
		})
	}
	return players, nil
}

// applyFormatHandicaps finishes the per-format WHS treatment on the raw
// playing handicaps: singles match play rebases off the lower handicap,
// foursomes collapses each pair to its shared team handicap. Negative
// (plus) handicaps floor at zero since a match player concedes at most
// their full stroke allocation.
func (s *roundService) applyFormatHandicaps(round *models.Round, match *models.Match) {
	switch round.Format {
	case models.FormatSingles:
		if round.HandicapMode == nil || *round.HandicapMode == models.HandicapMatchPlay {
			phA, phB := handicap.ApplyMatchPlayDifference(
				match.TeamAPlayers[0].PlayingHandicap,
				match.TeamBPlayers[0].PlayingHandicap,
			)
			match.TeamAPlayers[0].PlayingHandicap = phA
			match.TeamBPlayers[0].PlayingHandicap = phB
		}
	case models.FormatFoursomes:
		// Both partners carry the shared team handicap so either one's
		// stroke-hole lookup answers for the side.
		avgA := (match.TeamAPlayers[0].PlayingHandicap + match.TeamAPlayers[1].PlayingHandicap) / 2
		avgB := (match.TeamBPlayers[0].PlayingHandicap + match.TeamBPlayers[1].PlayingHandicap) / 2
		phA, phB := handicap.ApplyMatchPlayDifference(avgA, avgB)
		for i := range match.TeamAPlayers {
			match.TeamAPlayers[i].PlayingHandicap = phA
		}
		for i := range match.TeamBPlayers {
			match.TeamBPlayers[i].PlayingHandicap = phB
		}
	}
	for i := range match.TeamAPlayers {
		if match.TeamAPlayers[i].PlayingHandicap < 0 {
			match.TeamAPlayers[i].PlayingHandicap = 0
		}
	}
	for i := range match.TeamBPlayers {
		if match.TeamBPlayers[i].PlayingHandicap < 0 {
			match.TeamBPlayers[i].PlayingHandicap = 0
		}
	}
}

func (s *roundService) bakeStrokeHoles(course *models.GolfCourse, match *models.Match) {
	for i := range match.TeamAPlayers {
		match.TeamAPlayers[i].StrokeHoles = handicap.StrokeHoles(match.TeamAPlayers[i].PlayingHandicap, course.StrokeIndexes)
	}
	for i := range match.TeamBPlayers {
		match.TeamBPlayers[i].StrokeHoles = handicap.StrokeHoles(match.TeamBPlayers[i].PlayingHandicap, course.StrokeIndexes)
	}
}

func (s *roundService) Start(ctx context.Context, currentUserID, roundID int) (*models.Round, error) {
	var round *models.Round
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		round, err = s.roundRepo.FindByID(ctx, tx, roundID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoundNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		competition, err := s.competitionRepo.GetByID(ctx, tx, round.CompetitionID)
		if err != nil {
			return err
		}
		if competition.CreatorID != currentUserID {
			return ErrCreatorOnly
		}
		if err := round.TransitionTo(models.RoundInProgress); err != nil {
			return err
		}
		return s.roundRepo.UpdateStatus(ctx, tx, roundID, round.Status)
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}
