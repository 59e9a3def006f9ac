package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appdb "github.com/Dosada05/ryder-manager/db"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
)

type EnrollmentService interface {
	// Request creates a REQUESTED enrollment for the acting user.
	Request(ctx context.Context, currentUserID, competitionID int) (*models.Enrollment, error)
	// Invite creates an INVITED enrollment on behalf of the creator.
	Invite(ctx context.Context, currentUserID, competitionID, userID int) (*models.Enrollment, error)
	// DirectEnroll creates an enrollment already APPROVED, creator only.
	DirectEnroll(ctx context.Context, currentUserID, competitionID, userID int) (*models.Enrollment, error)

	Approve(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error)
	Reject(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error)
	// Cancel backs a pre-approval enrollment out; the enrolled user or the
	// creator may do it.
	Cancel(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error)
	// Withdraw backs an approved player out of the competition.
	Withdraw(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error)

	SetCustomHandicap(ctx context.Context, currentUserID, enrollmentID int, handicap *float64) (*models.Enrollment, error)
	ListByCompetition(ctx context.Context, competitionID int, statusFilter *models.EnrollmentStatus) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, enrollmentID int) (*models.Enrollment, error)
}

type enrollmentService struct {
	db              *sql.DB
	repo            repositories.EnrollmentRepository
	competitionRepo repositories.CompetitionRepository
	userRepo        repositories.UserRepository
	dispatcher      *EventDispatcher
}

func NewEnrollmentService(
	database *sql.DB,
	repo repositories.EnrollmentRepository,
	competitionRepo repositories.CompetitionRepository,
	userRepo repositories.UserRepository,
	dispatcher *EventDispatcher,
) EnrollmentService {
	return &enrollmentService{
		db:              database,
		repo:            repo,
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
		dispatcher:      dispatcher,
	}
}

// checkCapacity counts approved enrollments under the competition row lock
// the caller already holds. The unique constraint on (competition_id,
// user_id) backs the duplicate check at commit time.
func (s *enrollmentService) checkCapacity(ctx context.Context, exec repositories.SQLExecutor, competition *models.Competition) error {
	approved, err := s.repo.CountApprovedByCompetition(ctx, exec, competition.ID)
	if err != nil {
		return err
	}
	if approved >= competition.MaxPlayers {
		return fmt.Errorf("%w: %d of %d places taken", ErrCompetitionFull, approved, competition.MaxPlayers)
	}
	return nil
}

// checkNoLiveEnrollment rejects when a non-terminal enrollment already
// exists for the pair. A terminal one (rejected, cancelled, withdrawn) does
// not block re-enrollment.
func (s *enrollmentService) checkNoLiveEnrollment(ctx context.Context, exec repositories.SQLExecutor, userID, competitionID int) error {
	existing, err := s.repo.FindByUserAndCompetition(ctx, exec, userID, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil
		}
		return err
	}
	if !existing.IsTerminal() {
		return ErrEnrollmentConflict
	}
	return nil
}

// create runs the shared enroll path: lock competition, check status,
// duplicates and (for approved target states) capacity, then insert.
func (s *enrollmentService) create(ctx context.Context, actorID, competitionID, userID int, status models.EnrollmentStatus, requireCreator bool) (*models.Enrollment, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	var enrollment *models.Enrollment
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		competition, err := s.competitionRepo.GetByIDForUpdate(ctx, tx, competitionID)
		if err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
		if requireCreator && competition.CreatorID != actorID {
			return ErrCreatorOnly
		}
		if competition.Status != models.CompetitionActive {
			return fmt.Errorf("%w: competition status is %s", ErrEnrollmentNotOpen, competition.Status)
		}
		if err := s.checkNoLiveEnrollment(ctx, tx, userID, competitionID); err != nil {
			return err
		}
		if err := s.checkCapacity(ctx, tx, competition); err != nil {
			return err
		}

		enrollment = &models.Enrollment{
			CompetitionID: competitionID,
			UserID:        userID,
			Status:        status,
		}
		if err := s.repo.Create(ctx, tx, enrollment); err != nil {
			if errors.Is(err, repositories.ErrEnrollmentConflict) {
				return ErrEnrollmentConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := models.EventEnrollmentRequested
	if status == models.EnrollmentInvited {
		eventType = models.EventEnrollmentInvited
	} else if status == models.EnrollmentApproved {
		eventType = models.EventEnrollmentApproved
	}
	s.dispatcher.Dispatch([]models.DomainEvent{{
		Type:          eventType,
		CompetitionID: competitionID,
		ActorID:       actorID,
		Payload:       map[string]int{"user_id": userID},
	}})
	return enrollment, nil
}

func (s *enrollmentService) Request(ctx context.Context, currentUserID, competitionID int) (*models.Enrollment, error) {
	return s.create(ctx, currentUserID, competitionID, currentUserID, models.EnrollmentRequested, false)
}

func (s *enrollmentService) Invite(ctx context.Context, currentUserID, competitionID, userID int) (*models.Enrollment, error) {
	return s.create(ctx, currentUserID, competitionID, userID, models.EnrollmentInvited, true)
}

func (s *enrollmentService) DirectEnroll(ctx context.Context, currentUserID, competitionID, userID int) (*models.Enrollment, error) {
	return s.create(ctx, currentUserID, competitionID, userID, models.EnrollmentApproved, true)
}

// transition is the shared status-change path. Capacity is re-validated
// inside the transaction when the target is APPROVED, so concurrent
// approvals cannot overbook.
func (s *enrollmentService) transition(ctx context.Context, currentUserID, enrollmentID int, next models.EnrollmentStatus, authorize func(*models.Competition, *models.Enrollment) error) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		enrollment, err = s.repo.FindByID(ctx, tx, enrollmentID)
		if err != nil {
			if errors.Is(err, repositories.ErrEnrollmentNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		competition, err := s.competitionRepo.GetByIDForUpdate(ctx, tx, enrollment.CompetitionID)
		if err != nil {
			return err
		}
		if err := authorize(competition, enrollment); err != nil {
			return err
		}
		if next == models.EnrollmentApproved {
			if err := s.checkCapacity(ctx, tx, competition); err != nil {
				return err
			}
		}
		if err := enrollment.TransitionTo(next, currentUserID); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, enrollmentID, next)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(enrollment.DrainEvents())
	return enrollment, nil
}

func (s *enrollmentService) creatorOnly(currentUserID int) func(*models.Competition, *models.Enrollment) error {
	return func(c *models.Competition, _ *models.Enrollment) error {
		if c.CreatorID != currentUserID {
			return ErrCreatorOnly
		}
		return nil
	}
}

func (s *enrollmentService) Approve(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error) {
	return s.transition(ctx, currentUserID, enrollmentID, models.EnrollmentApproved,
		func(c *models.Competition, e *models.Enrollment) error {
			// The creator approves requests; an invited user approves their own invitation.
			if e.Status == models.EnrollmentInvited && e.UserID == currentUserID {
				return nil
			}
			if c.CreatorID != currentUserID {
				return ErrCreatorOnly
			}
			return nil
		})
}

func (s *enrollmentService) Reject(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error) {
	return s.transition(ctx, currentUserID, enrollmentID, models.EnrollmentRejected, s.creatorOnly(currentUserID))
}

func (s *enrollmentService) Cancel(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error) {
	return s.transition(ctx, currentUserID, enrollmentID, models.EnrollmentCancelled,
		func(c *models.Competition, e *models.Enrollment) error {
			if e.UserID != currentUserID && c.CreatorID != currentUserID {
				return ErrForbiddenOperation
			}
			return nil
		})
}

func (s *enrollmentService) Withdraw(ctx context.Context, currentUserID, enrollmentID int) (*models.Enrollment, error) {
	return s.transition(ctx, currentUserID, enrollmentID, models.EnrollmentWithdrawn,
		func(c *models.Competition, e *models.Enrollment) error {
			if e.UserID != currentUserID && c.CreatorID != currentUserID {
				return ErrForbiddenOperation
			}
			return nil
		})
}

func (s *enrollmentService) SetCustomHandicap(ctx context.Context, currentUserID, enrollmentID int, handicap *float64) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		enrollment, err = s.repo.FindByID(ctx, tx, enrollmentID)
		if err != nil {
			if errors.Is(err, repositories.ErrEnrollmentNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		competition, err := s.competitionRepo.GetByID(ctx, tx, enrollment.CompetitionID)
		if err != nil {
			return err
		}
		if competition.CreatorID != currentUserID {
			return ErrCreatorOnly
		}
		if err := enrollment.SetCustomHandicap(handicap); err != nil {
			return err
		}
		return s.repo.UpdateCustomHandicap(ctx, tx, enrollmentID, handicap)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) ListByCompetition(ctx context.Context, competitionID int, statusFilter *models.EnrollmentStatus) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.ListByCompetition(ctx, nil, competitionID, statusFilter)
	if err != nil {
		return nil, err
	}
	if enrollments == nil {
		return []*models.Enrollment{}, nil
	}
	return enrollments, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, enrollmentID int) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, nil, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}
