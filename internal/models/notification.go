package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// NotificationType categorizes a notification for dashboard filtering.
type NotificationType string

const (
	NotifyNewMessage        NotificationType = "New Message"
	NotifyNewAppointment    NotificationType = "New Appointment"
	NotifyAppointmentChange NotificationType = "Appointment Change"
	NotifyNewClient         NotificationType = "New Client"
	NotifyClientChange      NotificationType = "Client Change"
	NotifyNewChannel        NotificationType = "New Channel"
	NotifyChannelChange     NotificationType = "Channel Change"
	NotifyChannelDeleted    NotificationType = "Channel Deleted"
	NotifyNewIdentifier     NotificationType = "New Identifier"
	NotifyIdentifierChange  NotificationType = "Identifier Change"
	NotifyIdentifierDeleted NotificationType = "Identifier Deleted"
	NotifyFileUploaded      NotificationType = "File Uploaded"
)

// Notification is purely informational: created as a side effect of domain
// mutations, it never mutates other entities.
type Notification struct {
	ID          surrealmodels.RecordID `json:"id"`
	RecipientID string                 `json:"recipient_id"`
	Message     string                 `json:"message"`
	Type        NotificationType       `json:"type"`
	Read        bool                   `json:"read"`
	Timestamp   time.Time              `json:"timestamp"`
	Link        string                 `json:"link,omitempty"`
}
