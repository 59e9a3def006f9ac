package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Generic not-found.
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules.
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEnrollmentNotOpen    = errors.New("competition is not accepting enrollments")
	ErrCompetitionFull      = errors.New("competition has reached its maximum number of players")
	ErrCountriesNotAdjacent = errors.New("competition countries must be mutually adjacent")
	ErrCountryInactive      = errors.New("competition references an inactive or unknown country")
	ErrTeamsNotAssigned     = errors.New("teams have not been assigned for this competition")
	ErrNotEnoughPlayers     = errors.New("not enough approved players for this operation")
	ErrPlayerNotInMatch     = errors.New("player is not part of this match")
	ErrHandicapUnavailable  = errors.New("no handicap available for player: no custom value, federation record or stored index")

	// Conflicts.
	ErrUserEmailConflict       = errors.New("email address is already in use")
	ErrEnrollmentConflict      = errors.New("user is already enrolled in this competition")
	ErrCompetitionNameConflict = errors.New("competition name already exists")

	// Scorecard integrity.
	ErrScorecardIncomplete = errors.New("scorecard incomplete: all 18 holes must be submitted and matching")
	ErrScorecardLocked     = errors.New("scorecard already submitted")

	// Authentication and authorization.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrCreatorOnly          = errors.New("only the competition creator can perform this action")

	// External collaborators.
	ErrExternalDependency = errors.New("external dependency failure")

	// Entity lookups that want more context than ErrNotFound.
	ErrUserNotFound        = errors.New("user not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrCourseNotFound      = errors.New("golf course not found")
)
