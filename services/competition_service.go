package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	appdb "github.com/Dosada05/ryder-manager/db"
	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/Dosada05/ryder-manager/storage"
)

type CreateCompetitionInput struct {
	Name           string                    `json:"name"`
	Description    *string                   `json:"description"`
	StartDate      time.Time                 `json:"start_date"`
	EndDate        time.Time                 `json:"end_date"`
	CountryCodes   []string                  `json:"country_codes"`
	MaxPlayers     int                       `json:"max_players"`
	PlayMode       models.PlayMode           `json:"play_mode"`
	AssignmentMode models.TeamAssignmentMode `json:"team_assignment_mode"`
	TeamAName      *string                   `json:"team_a_name"`
	TeamBName      *string                   `json:"team_b_name"`
}

// UpdateCompetitionInput carries a partial replace: nil fields keep their
// current value. Only legal while the competition is in draft.
type UpdateCompetitionInput struct {
	Name           *string                    `json:"name"`
	Description    *string                    `json:"description"`
	StartDate      *time.Time                 `json:"start_date"`
	EndDate        *time.Time                 `json:"end_date"`
	CountryCodes   []string                   `json:"country_codes"`
	MaxPlayers     *int                       `json:"max_players"`
	PlayMode       *models.PlayMode           `json:"play_mode"`
	AssignmentMode *models.TeamAssignmentMode `json:"team_assignment_mode"`
	TeamAName      *string                    `json:"team_a_name"`
	TeamBName      *string                    `json:"team_b_name"`
}

type CompetitionService interface {
	Create(ctx context.Context, creatorID int, input CreateCompetitionInput) (*models.Competition, error)
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error)
	Update(ctx context.Context, currentUserID, competitionID int, input UpdateCompetitionInput) (*models.Competition, error)
	Delete(ctx context.Context, currentUserID, competitionID int) error

	Activate(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error)
	CloseEnrollments(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error)
	Start(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error)
	Complete(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error)
	Cancel(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error)

	UploadLogo(ctx context.Context, currentUserID, competitionID int, contentType string, file io.Reader) (*models.Competition, error)
	AutoActivateByDates(ctx context.Context) error
}

type competitionService struct {
	db          *sql.DB
	repo        repositories.CompetitionRepository
	userRepo    repositories.UserRepository
	countryRepo repositories.CountryRepository
	uploader    storage.FileUploader
	dispatcher  *EventDispatcher
	logger      *slog.Logger
}

func NewCompetitionService(
	database *sql.DB,
	repo repositories.CompetitionRepository,
	userRepo repositories.UserRepository,
	countryRepo repositories.CountryRepository,
	uploader storage.FileUploader,
	dispatcher *EventDispatcher,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		db:          database,
		repo:        repo,
		userRepo:    userRepo,
		countryRepo: countryRepo,
		uploader:    uploader,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// validateLocation checks every country is active and, when more than one is
// listed, that each pair shares a border.
func (s *competitionService) validateLocation(ctx context.Context, codes []string) error {
	for _, code := range codes {
		country, err := s.countryRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repositories.ErrCountryNotFound) {
				return fmt.Errorf("%w: %s", ErrCountryInactive, code)
			}
			return fmt.Errorf("failed to check country %s: %w", code, err)
		}
		if !country.Active {
			return fmt.Errorf("%w: %s", ErrCountryInactive, code)
		}
	}
	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			adjacent, err := s.countryRepo.AreAdjacent(ctx, codes[i], codes[j])
			if err != nil {
				return fmt.Errorf("failed to check adjacency %s/%s: %w", codes[i], codes[j], err)
			}
			if !adjacent {
				return fmt.Errorf("%w: %s and %s", ErrCountriesNotAdjacent, codes[i], codes[j])
			}
		}
	}
	return nil
}

func (s *competitionService) Create(ctx context.Context, creatorID int, input CreateCompetitionInput) (*models.Competition, error) {
	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check creator: %w", err)
	}

	competition := &models.Competition{
		Name:           input.Name,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		CountryCodes:   input.CountryCodes,
		CreatorID:      creatorID,
		MaxPlayers:     input.MaxPlayers,
		PlayMode:       input.PlayMode,
		AssignmentMode: input.AssignmentMode,
		TeamAName:      input.TeamAName,
		TeamBName:      input.TeamBName,
		Status:         models.CompetitionDraft,
	}
	if err := competition.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateLocation(ctx, competition.CountryCodes); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, competition); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNameConflict) {
			return nil, ErrCompetitionNameConflict
		}
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	competition.RecordCreated(creatorID)
	s.dispatcher.Dispatch(competition.DrainEvents())
	return competition, nil
}

func (s *competitionService) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	s.populateLogoURL(competition)
	return competition, nil
}

func (s *competitionService) List(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	competitions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range competitions {
		s.populateLogoURL(&competitions[i])
	}
	return competitions, nil
}

// requireCreator loads the competition and verifies the acting user may
// manage it (creator or admin).
func (s *competitionService) requireCreator(ctx context.Context, exec repositories.SQLExecutor, currentUserID, competitionID int, forUpdate bool) (*models.Competition, error) {
	var competition *models.Competition
	var err error
	if forUpdate {
		competition, err = s.repo.GetByIDForUpdate(ctx, exec, competitionID)
	} else {
		competition, err = s.repo.GetByID(ctx, exec, competitionID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	if competition.CreatorID != currentUserID {
		user, err := s.userRepo.GetByID(ctx, currentUserID)
		if err != nil || user.Role != models.RoleAdmin {
			return nil, ErrCreatorOnly
		}
	}
	return competition, nil
}

func (s *competitionService) Update(ctx context.Context, currentUserID, competitionID int, input UpdateCompetitionInput) (*models.Competition, error) {
	var updated *models.Competition
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		competition, err := s.requireCreator(ctx, tx, currentUserID, competitionID, true)
		if err != nil {
			return err
		}
		if !competition.IsMutable() {
			return fmt.Errorf("%w: status %s", models.ErrCompetitionNotMutable, competition.Status)
		}

		if input.Name != nil {
			competition.Name = *input.Name
		}
		if input.Description != nil {
			competition.Description = input.Description
		}
		if input.StartDate != nil {
			competition.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			competition.EndDate = *input.EndDate
		}
		if input.CountryCodes != nil {
			competition.CountryCodes = input.CountryCodes
		}
		if input.MaxPlayers != nil {
			competition.MaxPlayers = *input.MaxPlayers
		}
		if input.PlayMode != nil {
			competition.PlayMode = *input.PlayMode
		}
		if input.AssignmentMode != nil {
			competition.AssignmentMode = *input.AssignmentMode
		}
		if input.TeamAName != nil {
			competition.TeamAName = input.TeamAName
		}
		if input.TeamBName != nil {
			competition.TeamBName = input.TeamBName
		}

		if err := competition.Validate(); err != nil {
			return err
		}
		if err := s.validateLocation(ctx, competition.CountryCodes); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, competition); err != nil {
			if errors.Is(err, repositories.ErrCompetitionNameConflict) {
				return ErrCompetitionNameConflict
			}
			return err
		}
		competition.RecordUpdated(currentUserID)
		updated = competition
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(updated.DrainEvents())
	return updated, nil
}

func (s *competitionService) Delete(ctx context.Context, currentUserID, competitionID int) error {
	competition, err := s.requireCreator(ctx, nil, currentUserID, competitionID, false)
	if err != nil {
		return err
	}
	if !competition.IsMutable() {
		return fmt.Errorf("%w: status %s", models.ErrCompetitionNotMutable, competition.Status)
	}
	if err := s.repo.Delete(ctx, competitionID); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return ErrCompetitionNotFound
		}
		return err
	}
	competition.RecordDeleted(currentUserID)
	s.dispatcher.Dispatch(competition.DrainEvents())
	return nil
}

// transition is the shared implementation of the lifecycle operations. The
// competition row is locked so two concurrent transitions serialize.
func (s *competitionService) transition(ctx context.Context, currentUserID, competitionID int, next models.CompetitionStatus) (*models.Competition, error) {
	var competition *models.Competition
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		competition, err = s.requireCreator(ctx, tx, currentUserID, competitionID, true)
		if err != nil {
			return err
		}
		if err := competition.TransitionTo(next, currentUserID); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, competitionID, next)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(competition.DrainEvents())
	return competition, nil
}

func (s *competitionService) Activate(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error) {
	return s.transition(ctx, currentUserID, competitionID, models.CompetitionActive)
}

func (s *competitionService) CloseEnrollments(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error) {
	return s.transition(ctx, currentUserID, competitionID, models.CompetitionClosed)
}

func (s *competitionService) Start(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error) {
	return s.transition(ctx, currentUserID, competitionID, models.CompetitionInProgress)
}

func (s *competitionService) Complete(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error) {
	return s.transition(ctx, currentUserID, competitionID, models.CompetitionCompleted)
}

func (s *competitionService) Cancel(ctx context.Context, currentUserID, competitionID int) (*models.Competition, error) {
	return s.transition(ctx, currentUserID, competitionID, models.CompetitionCancelled)
}

func (s *competitionService) UploadLogo(ctx context.Context, currentUserID, competitionID int, contentType string, file io.Reader) (*models.Competition, error) {
	competition, err := s.requireCreator(ctx, nil, currentUserID, competitionID, false)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("competitions/%d/logo", competitionID)
	uploadResult, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("%w: logo upload: %v", ErrExternalDependency, err)
	}
	if err := s.repo.UpdateLogoKey(ctx, competitionID, &uploadResult.Key); err != nil {
		return nil, err
	}
	competition.LogoKey = &uploadResult.Key
	s.populateLogoURL(competition)
	return competition, nil
}

func (s *competitionService) populateLogoURL(c *models.Competition) {
	if c.LogoKey != nil && *c.LogoKey != "" && s.uploader != nil {
		url := s.uploader.GetPublicURL(*c.LogoKey)
		c.LogoURL = &url
	}
}

// AutoActivateByDates is the scheduler entry point: draft competitions whose
// start date has arrived move to active on behalf of their creators.
func (s *competitionService) AutoActivateByDates(ctx context.Context) error {
	var drained []models.DomainEvent
	err := appdb.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		competitions, err := s.repo.ListForAutoActivation(ctx, tx)
		if err != nil {
			return err
		}
		for _, competition := range competitions {
			if err := competition.TransitionTo(models.CompetitionActive, competition.CreatorID); err != nil {
				s.logger.Warn("auto activation skipped",
					slog.Int("competition_id", competition.ID), slog.Any("error", err))
				continue
			}
			if err := s.repo.UpdateStatus(ctx, tx, competition.ID, models.CompetitionActive); err != nil {
				return err
			}
			drained = append(drained, competition.DrainEvents()...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(drained)
	return nil
}
