package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/ryder-manager/models"
	"golang.org/x/sync/errgroup"
)

// Notifier consumes a domain event. Implementations are best-effort: a
// failed notification is logged by the dispatcher and never propagated.
type Notifier interface {
	Notify(ctx context.Context, event models.DomainEvent) error
}

const notifyTimeout = 15 * time.Second

// EventDispatcher fans drained aggregate events out to the registered
// notifiers. Services call Dispatch only after their transaction commits.
type EventDispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewEventDispatcher(logger *slog.Logger, notifiers ...Notifier) *EventDispatcher {
	return &EventDispatcher{notifiers: notifiers, logger: logger}
}

// Dispatch delivers the events asynchronously, fire-and-forget from the
// caller's perspective.
func (d *EventDispatcher) Dispatch(events []models.DomainEvent) {
	if len(events) == 0 || len(d.notifiers) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, event := range events {
			for _, n := range d.notifiers {
				event, n := event, n
				g.Go(func() error {
					if err := n.Notify(gctx, event); err != nil {
						d.logger.Error("event notification failed",
							slog.String("event", string(event.Type)),
							slog.Int("competition_id", event.CompetitionID),
							slog.Any("error", err))
					}
					return nil // best effort, never cancel the group
				})
			}
		}
		_ = g.Wait()
	}()
}
