// Package events fans domain events out to dashboard websocket clients and,
// when configured, to a RabbitMQ topic exchange for external consumers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types double as AMQP routing keys.
const (
	TypeClientCreated       = "client.created"
	TypeClientUpdated       = "client.updated"
	TypeClientDeleted       = "client.deleted"
	TypeAppointmentCreated  = "appointment.created"
	TypeAppointmentUpdated  = "appointment.updated"
	TypeAppointmentDeleted  = "appointment.deleted"
	TypeMessageCreated      = "message.created"
	TypeConversationUpdated = "conversation.updated"
	TypeNotificationCreated = "notification.created"
	TypeConfigUpdated       = "config.updated"
	TypeFileUploaded        = "file.uploaded"
)

// Event is the envelope shared by the websocket feed and the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an envelope around a payload.
func NewEvent(typ string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
