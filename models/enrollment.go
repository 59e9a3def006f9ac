package models

import (
	"errors"
	"fmt"
	"time"
)

// EnrollmentStatus represents enrollment application statuses, matching the ENUM in the DB.
type EnrollmentStatus string

const (
	EnrollmentRequested EnrollmentStatus = "requested"
	EnrollmentInvited   EnrollmentStatus = "invited"
	EnrollmentApproved  EnrollmentStatus = "approved"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

const (
	CustomHandicapMin = -10.0
	CustomHandicapMax = 54.0
)

var (
	ErrEnrollmentInvalidTransition = errors.New("invalid enrollment status transition")
	ErrEnrollmentInvalidHandicap   = errors.New("custom handicap must be between -10.0 and 54.0")
	ErrEnrollmentTerminal          = errors.New("enrollment is in a terminal status")
)

var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentRequested: {EnrollmentApproved, EnrollmentRejected, EnrollmentCancelled},
	EnrollmentInvited:   {EnrollmentApproved, EnrollmentCancelled},
	EnrollmentApproved:  {EnrollmentWithdrawn},
	EnrollmentRejected:  {},
	EnrollmentCancelled: {},
	EnrollmentWithdrawn: {},
}

var enrollmentEventForStatus = map[EnrollmentStatus]DomainEventType{
	EnrollmentApproved:  EventEnrollmentApproved,
	EnrollmentRejected:  EventEnrollmentRejected,
	EnrollmentCancelled: EventEnrollmentCancelled,
	EnrollmentWithdrawn: EventEnrollmentWithdrawn,
}

// Enrollment ties a user to a competition. Exactly one row may exist per
// (competition, user) pair; the DB enforces it with a unique constraint.
type Enrollment struct {
	eventRecorder `json:"-"`

	ID             int              `json:"id"`
	CompetitionID  int              `json:"competition_id"`
	UserID         int              `json:"user_id"`
	Status         EnrollmentStatus `json:"status"`
	CustomHandicap *float64         `json:"custom_handicap,omitempty"` // creator-set override; nil means use the player's official index
	TeamID         *string          `json:"team_id,omitempty"`         // "A" or "B" once teams are assigned
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	User *User `json:"user,omitempty"`
}

// IsTerminal reports whether no further transition is possible.
func (e *Enrollment) IsTerminal() bool {
	return len(enrollmentTransitions[e.Status]) == 0
}

func (e *Enrollment) CanTransitionTo(next EnrollmentStatus) bool {
	for _, allowed := range enrollmentTransitions[e.Status] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (e *Enrollment) TransitionTo(next EnrollmentStatus, actorID int) error {
	if !e.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrEnrollmentInvalidTransition, e.Status, next)
	}
	e.Status = next
	if eventType, ok := enrollmentEventForStatus[next]; ok {
		e.recordEvent(eventType, e.CompetitionID, actorID, map[string]int{"user_id": e.UserID})
	}
	return nil
}

// SetCustomHandicap applies the creator override. Only legal while the
// enrollment can still change status.
func (e *Enrollment) SetCustomHandicap(value *float64) error {
	if e.IsTerminal() {
		return ErrEnrollmentTerminal
	}
	if value != nil && (*value < CustomHandicapMin || *value > CustomHandicapMax) {
		return fmt.Errorf("%w: got %.1f", ErrEnrollmentInvalidHandicap, *value)
	}
	e.CustomHandicap = value
	return nil
}

func ValidateCustomHandicap(value float64) error {
	if value < CustomHandicapMin || value > CustomHandicapMax {
		return fmt.Errorf("%w: got %.1f", ErrEnrollmentInvalidHandicap, value)
	}
	return nil
}
