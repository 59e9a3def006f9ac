package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
)

// emailNotifier turns competition lifecycle events into participant emails.
type emailNotifier struct {
	email           *EmailService
	competitionRepo repositories.CompetitionRepository
	enrollmentRepo  repositories.EnrollmentRepository
	userRepo        repositories.UserRepository
	publicURL       string
}

func NewEmailNotifier(
	email *EmailService,
	competitionRepo repositories.CompetitionRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	userRepo repositories.UserRepository,
	publicURL string,
) Notifier {
	return &emailNotifier{
		email:           email,
		competitionRepo: competitionRepo,
		enrollmentRepo:  enrollmentRepo,
		userRepo:        userRepo,
		publicURL:       publicURL,
	}
}

// statusByEvent maps the lifecycle events worth a participant email to the
// human wording used in the message.
var statusByEvent = map[models.DomainEventType]string{
	models.EventCompetitionActivated:         "open for enrollment",
	models.EventCompetitionEnrollmentsClosed: "closed for enrollment",
	models.EventCompetitionStarted:           "under way",
	models.EventCompetitionCompleted:         "finished",
	models.EventCompetitionCancelled:         "cancelled",
}

func (n *emailNotifier) Notify(ctx context.Context, event models.DomainEvent) error {
	switch event.Type {
	case models.EventEnrollmentInvited:
		return n.sendInvite(ctx, event)
	default:
		status, ok := statusByEvent[event.Type]
		if !ok {
			return nil
		}
		return n.sendStatusUpdate(ctx, event, status)
	}
}

func (n *emailNotifier) sendInvite(ctx context.Context, event models.DomainEvent) error {
	payload, ok := event.Payload.(map[string]int)
	if !ok {
		return nil
	}
	user, err := n.userRepo.GetByID(ctx, payload["user_id"])
	if err != nil {
		return err
	}
	competition, err := n.competitionRepo.GetByID(ctx, nil, event.CompetitionID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/competitions/%d", n.publicURL, competition.ID)
	return n.email.SendEnrollmentInviteEmail(user.Email, competition.Name, link)
}

func (n *emailNotifier) sendStatusUpdate(ctx context.Context, event models.DomainEvent, status string) error {
	competition, err := n.competitionRepo.GetByID(ctx, nil, event.CompetitionID)
	if err != nil {
		return err
	}
	approved := models.EnrollmentApproved
	enrollments, err := n.enrollmentRepo.ListByCompetition(ctx, nil, event.CompetitionID, &approved)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/competitions/%d", n.publicURL, competition.ID)
	for _, e := range enrollments {
		user, err := n.userRepo.GetByID(ctx, e.UserID)
		if err != nil {
			continue
		}
		if err := n.email.SendCompetitionStatusEmail(user.Email, competition.Name, status, link); err != nil {
			return err
		}
	}
	return nil
}
