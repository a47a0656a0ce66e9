// Package tools implements the agent's tool catalog: each tool decodes a
// loose argument bag into a typed input, performs one domain action, and
// returns a structured result the model can read.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/danwerth/opshub/internal/models"
)

// Store is the slice of the domain store the tool handlers need.
type Store interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	UpdateClientContact(ctx context.Context, id, name, email string) (*models.Client, error)
	CreateAppointment(ctx context.Context, clientID, title string, start, end time.Time, status models.AppointmentStatus) (*models.Appointment, error)
	UpcomingAppointments(ctx context.Context, clientID string) ([]models.Appointment, error)
	FindAppointmentAt(ctx context.Context, clientID string, start time.Time) (*models.Appointment, error)
	SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
}

// Notifier records dashboard notifications. Implementations must be
// best-effort: a notification failure never fails the tool.
type Notifier interface {
	Notify(ctx context.Context, typ models.NotificationType, message, link string)
}

// Dependencies holds shared services for tool handlers.
type Dependencies struct {
	Store    Store
	Notifier Notifier
	Logger   *slog.Logger
}
