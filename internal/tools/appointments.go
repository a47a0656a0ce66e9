package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danwerth/opshub/internal/models"
)

const defaultDurationMinutes = 60

type bookAppointmentInput struct {
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (e *Executor) bookAppointment(ctx context.Context, clientID string, raw json.RawMessage, res *Result) error {
	var in bookAppointmentInput
	if err := json.Unmarshal(raw, &in); err != nil {
		res.Err = "invalid arguments"
		return fmt.Errorf("decode bookAppointment args: %w", err)
	}
	if in.Title == "" || in.Date == "" || in.Time == "" {
		res.Err = "title, date and time are required"
		return fmt.Errorf("bookAppointment: missing required argument")
	}

	start, err := parseLocalDateTime(in.Date, in.Time)
	if err != nil {
		res.Err = fmt.Sprintf("could not understand the date %q %q, expected YYYY-MM-DD and HH:MM", in.Date, in.Time)
		return fmt.Errorf("parse appointment time: %w", err)
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	appt, err := e.deps.Store.CreateAppointment(ctx, clientID, in.Title, start, end, models.StatusInProgress)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	e.deps.Notifier.Notify(ctx, models.NotifyNewAppointment,
		fmt.Sprintf("New appointment %q on %s", appt.Title, start.Format("Jan 2, 2006 at 3:04 PM")),
		"/appointments")

	res.Summary = fmt.Sprintf("Appointment %q booked for %s. It is pending confirmation.",
		appt.Title, start.Format("Monday, January 2, 2006 at 3:04 PM"))
	res.Data = map[string]any{
		"title":  appt.Title,
		"start":  appt.Start,
		"end":    appt.End,
		"status": appt.Status,
	}
	return nil
}

func (e *Executor) findClientAppointments(ctx context.Context, clientID string, res *Result) error {
	appts, err := e.deps.Store.UpcomingAppointments(ctx, clientID)
	if err != nil {
		return fmt.Errorf("list upcoming appointments: %w", err)
	}
	if len(appts) == 0 {
		res.Summary = "No upcoming appointments found."
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming appointments:\n")
	for _, a := range appts {
		fmt.Fprintf(&b, "- %s on %s at %s (%s)\n",
			a.Title,
			a.Start.Format("Jan 2, 2006"),
			a.Start.Format("3:04 PM"),
			a.Status)
	}
	res.Summary = strings.TrimRight(b.String(), "\n")
	res.Data = map[string]any{"count": len(appts)}
	return nil
}

type updateAppointmentStatusInput struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	NewStatus string `json:"newStatus"`
}

// statusReplies are the confirmations relayed to the client per status.
var statusReplies = map[models.AppointmentStatus]string{
	models.StatusInProgress: "The appointment is back in progress.",
	models.StatusConfirmed:  "The appointment is confirmed.",
	models.StatusTreated:    "The appointment has been marked as completed.",
	models.StatusPostponed:  "The appointment has been postponed. Let me know when you would like to reschedule.",
	models.StatusCanceled:   "The appointment has been canceled.",
}

func (e *Executor) updateAppointmentStatus(ctx context.Context, clientID string, raw json.RawMessage, res *Result) error {
	var in updateAppointmentStatusInput
	if err := json.Unmarshal(raw, &in); err != nil {
		res.Err = "invalid arguments"
		return fmt.Errorf("decode updateAppointmentStatus args: %w", err)
	}

	status := models.AppointmentStatus(in.NewStatus)
	if !models.ValidAppointmentStatus(status) {
		res.Err = fmt.Sprintf("%q is not a valid appointment status", in.NewStatus)
		return fmt.Errorf("updateAppointmentStatus: invalid status %q", in.NewStatus)
	}

	start, err := parseLocalDateTime(in.Date, in.Time)
	if err != nil {
		res.Err = fmt.Sprintf("could not understand the date %q %q, expected YYYY-MM-DD and HH:MM", in.Date, in.Time)
		return fmt.Errorf("parse appointment time: %w", err)
	}

	appt, err := e.deps.Store.FindAppointmentAt(ctx, clientID, start)
	if err != nil {
		return fmt.Errorf("find appointment: %w", err)
	}
	if appt == nil {
		res.Err = fmt.Sprintf("No appointment found on %s at %s.", in.Date, in.Time)
		return fmt.Errorf("updateAppointmentStatus: no appointment at %s", start)
	}

	updated, err := e.deps.Store.SetAppointmentStatus(ctx, models.MustRecordIDString(appt.ID), status)
	if err != nil {
		return fmt.Errorf("set appointment status: %w", err)
	}

	e.deps.Notifier.Notify(ctx, models.NotifyAppointmentChange,
		fmt.Sprintf("Appointment %q is now %s", updated.Title, updated.Status),
		"/appointments")

	res.Summary = statusReplies[status]
	res.Data = map[string]any{
		"title":  updated.Title,
		"start":  updated.Start,
		"status": updated.Status,
	}
	return nil
}
