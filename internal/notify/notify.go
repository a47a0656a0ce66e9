// Package notify records dashboard notifications and pushes them onto the
// event feed. Everything here is best-effort by contract: callers fire and
// forget, failures are logged and swallowed.
package notify

import (
	"context"
	"log/slog"

	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/models"
)

// DefaultRecipient is the single admin inbox until per-user accounts
// exist.
const DefaultRecipient = "admin"

// Store persists notification records.
type Store interface {
	CreateNotification(ctx context.Context, recipientID, message string, typ models.NotificationType, link string) (*models.Notification, error)
}

// Service implements the Notifier contract used by tools, the agent and
// the HTTP handlers.
type Service struct {
	store Store
	bus   *events.Bus
	log   *slog.Logger
}

func NewService(store Store, bus *events.Bus, logger *slog.Logger) *Service {
	return &Service{store: store, bus: bus, log: logger}
}

// Notify stores the notification and broadcasts it. Neither failure
// propagates to the caller.
func (s *Service) Notify(ctx context.Context, typ models.NotificationType, message, link string) {
	n, err := s.store.CreateNotification(ctx, DefaultRecipient, message, typ, link)
	if err != nil {
		s.log.Warn("storing notification failed",
			"type", string(typ),
			"error", err)
		return
	}
	s.bus.Publish(ctx, events.TypeNotificationCreated, n)
}
