package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// AppointmentStatus is a flat status value, not a state machine: the update
// tool may write any status over any other.
type AppointmentStatus string

const (
	StatusInProgress AppointmentStatus = "In Progress"
	StatusConfirmed  AppointmentStatus = "Confirmed"
	StatusTreated    AppointmentStatus = "Treated"
	StatusPostponed  AppointmentStatus = "Postponed"
	StatusCanceled   AppointmentStatus = "Canceled"
)

// AppointmentStatuses lists the valid status values in display order.
var AppointmentStatuses = []AppointmentStatus{
	StatusInProgress,
	StatusConfirmed,
	StatusTreated,
	StatusPostponed,
	StatusCanceled,
}

// ValidAppointmentStatus reports whether s is one of the five known values.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	for _, v := range AppointmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Appointment belongs to exactly one client. Bookings made by the agent
// start in "In Progress" until the client explicitly confirms.
type Appointment struct {
	ID       surrealmodels.RecordID `json:"id"`
	ClientID surrealmodels.RecordID `json:"client_id"`
	Title    string                 `json:"title"`
	Start    time.Time              `json:"start"`
	End      time.Time              `json:"end"`
	Status   AppointmentStatus      `json:"status"`
}

// AppointmentInput carries the writable appointment fields.
type AppointmentInput struct {
	ClientID string            `json:"client_id"`
	Title    string            `json:"title"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Status   AppointmentStatus `json:"status"`
}
