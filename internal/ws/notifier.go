package ws

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/koicare/pondflow/internal/domain/event"
	"github.com/koicare/pondflow/internal/goroutine"
	"github.com/koicare/pondflow/internal/logger"
)

// Broadcaster is the part of Hub the notifier needs.
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, eventType string, data any) error
}

// Notifier pushes workflow events to the users they concern. Delivery is
// best effort and never blocks the publisher.
type Notifier struct {
	hub Broadcaster
}

func NewNotifier(hub Broadcaster) *Notifier {
	return &Notifier{hub: hub}
}

// Notify is an event handler. The actor is not notified of their own change.
func (n *Notifier) Notify(_ context.Context, e event.Event) error {
	recipients := lo.Uniq(lo.Without(e.Recipients, e.Actor.UserID, uuid.Nil))
	if len(recipients) == 0 {
		return nil
	}

	goroutine.SafeGo(func() {
		for _, userID := range recipients {
			if err := n.hub.BroadcastToUser(userID, string(e.Type), e); err != nil {
				logger.Log.WithField("user_id", userID).WithError(err).Warn("ws: notification dropped")
			}
		}
	})
	return nil
}
