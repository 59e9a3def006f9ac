package models

import (
	"errors"
	"fmt"
	"time"
)

// CompetitionStatus represents competition lifecycle statuses, matching the ENUM in the DB.
type CompetitionStatus string

const (
	CompetitionDraft      CompetitionStatus = "draft"
	CompetitionActive     CompetitionStatus = "active"
	CompetitionClosed     CompetitionStatus = "closed"
	CompetitionInProgress CompetitionStatus = "in_progress"
	CompetitionCompleted  CompetitionStatus = "completed"
	CompetitionCancelled  CompetitionStatus = "cancelled"
)

type PlayMode string

const (
	PlayModeScratch  PlayMode = "scratch"
	PlayModeHandicap PlayMode = "handicap"
)

type TeamAssignmentMode string

const (
	TeamAssignmentAutomatic TeamAssignmentMode = "automatic"
	TeamAssignmentManual    TeamAssignmentMode = "manual"
)

const (
	CompetitionNameMinLen = 3
	CompetitionNameMaxLen = 100
	CompetitionMinPlayers = 2
	CompetitionMaxPlayers = 100
	CompetitionMaxSpan    = 365 * 24 * time.Hour
	LocationMaxCountries  = 3
)

var (
	ErrCompetitionNameLength      = errors.New("competition name must be between 3 and 100 characters")
	ErrCompetitionInvalidDates    = errors.New("competition start date must not be after end date")
	ErrCompetitionSpanTooLong     = errors.New("competition date range must not exceed 365 days")
	ErrCompetitionInvalidCapacity = errors.New("competition max players must be between 2 and 100")
	ErrCompetitionInvalidLocation = errors.New("competition location must list between 1 and 3 countries")
	ErrCompetitionNotMutable      = errors.New("competition can only be modified in draft status")

	// ErrInvalidStatusTransition is wrapped with current and attempted status.
	ErrInvalidStatusTransition = errors.New("invalid competition status transition")
)

// competitionTransitions is the one-directional lifecycle chain. Cancelled is
// reachable from every non-terminal status and from no terminal one.
var competitionTransitions = map[CompetitionStatus][]CompetitionStatus{
	CompetitionDraft:      {CompetitionActive, CompetitionCancelled},
	CompetitionActive:     {CompetitionClosed, CompetitionCancelled},
	CompetitionClosed:     {CompetitionInProgress, CompetitionCancelled},
	CompetitionInProgress: {CompetitionCompleted, CompetitionCancelled},
	CompetitionCompleted:  {},
	CompetitionCancelled:  {},
}

var competitionEventForStatus = map[CompetitionStatus]DomainEventType{
	CompetitionActive:     EventCompetitionActivated,
	CompetitionClosed:     EventCompetitionEnrollmentsClosed,
	CompetitionInProgress: EventCompetitionStarted,
	CompetitionCompleted:  EventCompetitionCompleted,
	CompetitionCancelled:  EventCompetitionCancelled,
}

// Competition is the aggregate root for a Ryder Cup style event.
type Competition struct {
	eventRecorder `json:"-"`

	ID             int                `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        time.Time          `json:"end_date"`
	CountryCodes   []string           `json:"country_codes"` // 1-3 mutually adjacent ISO 3166-1 alpha-2 codes
	CreatorID      int                `json:"creator_id"`
	MaxPlayers     int                `json:"max_players"`
	PlayMode       PlayMode           `json:"play_mode"`
	AssignmentMode TeamAssignmentMode `json:"team_assignment_mode"`
	TeamAName      *string            `json:"team_a_name,omitempty"`
	TeamBName      *string            `json:"team_b_name,omitempty"`
	Status         CompetitionStatus  `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	LogoKey        *string            `json:"-"`
	LogoURL        *string            `json:"logo_url,omitempty"`

	// Optional nested entities, populated on demand.
	Creator     *User        `json:"creator,omitempty"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
	Rounds      []Round      `json:"rounds,omitempty"`
}

func IsValidCompetitionStatus(s CompetitionStatus) bool {
	switch s {
	case CompetitionDraft, CompetitionActive, CompetitionClosed,
		CompetitionInProgress, CompetitionCompleted, CompetitionCancelled:
		return true
	}
	return false
}

// Validate checks the static field invariants. Country adjacency needs
// reference data and is validated at the service layer.
func (c *Competition) Validate() error {
	if l := len(c.Name); l < CompetitionNameMinLen || l > CompetitionNameMaxLen {
		return ErrCompetitionNameLength
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() || c.StartDate.After(c.EndDate) {
		return ErrCompetitionInvalidDates
	}
	if c.EndDate.Sub(c.StartDate) > CompetitionMaxSpan {
		return ErrCompetitionSpanTooLong
	}
	if c.MaxPlayers < CompetitionMinPlayers || c.MaxPlayers > CompetitionMaxPlayers {
		return ErrCompetitionInvalidCapacity
	}
	if len(c.CountryCodes) < 1 || len(c.CountryCodes) > LocationMaxCountries {
		return ErrCompetitionInvalidLocation
	}
	seen := make(map[string]bool, len(c.CountryCodes))
	for _, code := range c.CountryCodes {
		if len(code) != 2 || seen[code] {
			return ErrCompetitionInvalidLocation
		}
		seen[code] = true
	}
	return nil
}

func (c *Competition) IsMutable() bool {
	return c.Status == CompetitionDraft
}

func (c *Competition) IsTerminal() bool {
	return c.Status == CompetitionCompleted || c.Status == CompetitionCancelled
}

func (c *Competition) CanTransitionTo(next CompetitionStatus) bool {
	for _, allowed := range competitionTransitions[c.Status] {
		if next == allowed {
			return true
		}
	}
	return false
}

// TransitionTo moves the competition to the next status and records the
// matching domain event. The attempt fails unless next is reachable from the
// current status.
func (c *Competition) TransitionTo(next CompetitionStatus, actorID int) error {
	if !c.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, c.Status, next)
	}
	c.Status = next
	if eventType, ok := competitionEventForStatus[next]; ok {
		c.recordEvent(eventType, c.ID, actorID, nil)
	}
	return nil
}

func (c *Competition) RecordCreated(actorID int) {
	c.recordEvent(EventCompetitionCreated, c.ID, actorID, nil)
}

func (c *Competition) RecordUpdated(actorID int) {
	c.recordEvent(EventCompetitionUpdated, c.ID, actorID, nil)
}

func (c *Competition) RecordDeleted(actorID int) {
	c.recordEvent(EventCompetitionDeleted, c.ID, actorID, nil)
}
