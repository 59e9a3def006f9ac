package models

import "time"

// DomainEventType enumerates everything the notification layer can react to.
type DomainEventType string

const (
	EventCompetitionCreated           DomainEventType = "COMPETITION_CREATED"
	EventCompetitionUpdated           DomainEventType = "COMPETITION_UPDATED"
	EventCompetitionDeleted           DomainEventType = "COMPETITION_DELETED"
	EventCompetitionActivated         DomainEventType = "COMPETITION_ACTIVATED"
	EventCompetitionEnrollmentsClosed DomainEventType = "COMPETITION_ENROLLMENTS_CLOSED"
	EventCompetitionStarted           DomainEventType = "COMPETITION_STARTED"
	EventCompetitionCompleted         DomainEventType = "COMPETITION_COMPLETED"
	EventCompetitionCancelled         DomainEventType = "COMPETITION_CANCELLED"

	EventEnrollmentRequested DomainEventType = "ENROLLMENT_REQUESTED"
	EventEnrollmentInvited   DomainEventType = "ENROLLMENT_INVITED"
	EventEnrollmentApproved  DomainEventType = "ENROLLMENT_APPROVED"
	EventEnrollmentRejected  DomainEventType = "ENROLLMENT_REJECTED"
	EventEnrollmentCancelled DomainEventType = "ENROLLMENT_CANCELLED"
	EventEnrollmentWithdrawn DomainEventType = "ENROLLMENT_WITHDRAWN"

	EventTeamsAssigned    DomainEventType = "TEAMS_ASSIGNED"
	EventMatchesGenerated DomainEventType = "MATCHES_GENERATED"

	EventMatchStarted       DomainEventType = "MATCH_STARTED"
	EventHoleScoreSubmitted DomainEventType = "HOLE_SCORE_SUBMITTED"
	EventScorecardSubmitted DomainEventType = "SCORECARD_SUBMITTED"
	EventMatchCompleted     DomainEventType = "MATCH_COMPLETED"
	EventMatchConceded      DomainEventType = "MATCH_CONCEDED"
	EventMatchWalkover      DomainEventType = "MATCH_WALKOVER"
	EventRoundCompleted     DomainEventType = "ROUND_COMPLETED"
)

// DomainEvent is appended to an aggregate's outbox buffer by its mutating
// methods. Services drain the buffer only after their transaction commits,
// so a rolled-back change never reaches the notification layer.
type DomainEvent struct {
	Type          DomainEventType `json:"type"`
	CompetitionID int             `json:"competition_id"`
	ActorID       int             `json:"actor_id,omitempty"`
	Payload       interface{}     `json:"payload,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// eventRecorder is embedded by aggregate roots that emit domain events.
type eventRecorder struct {
	events []DomainEvent
}

func (r *eventRecorder) recordEvent(eventType DomainEventType, competitionID, actorID int, payload interface{}) {
	r.events = append(r.events, DomainEvent{
		Type:          eventType,
		CompetitionID: competitionID,
		ActorID:       actorID,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	})
}

// DrainEvents returns the buffered events and empties the buffer.
func (r *eventRecorder) DrainEvents() []DomainEvent {
	drained := r.events
	r.events = nil
	return drained
}
