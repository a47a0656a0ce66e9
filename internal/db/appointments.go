package db

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// ListAppointments returns all appointments ordered by start time.
func (c *Client) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		SELECT * FROM appointment ORDER BY start ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return unwrapAll(results), nil
}

// CreateAppointment inserts a new appointment for a client.
func (c *Client) CreateAppointment(ctx context.Context, clientID string, title string, start, end time.Time, status models.AppointmentStatus) (*models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		CREATE appointment CONTENT {
			client_id: type::record("client", $client_id),
			title: $title,
			start: type::datetime($start),
			end: type::datetime($end),
			status: $status
		} RETURN AFTER
	`, map[string]any{
		"client_id": clientID,
		"title":     title,
		"start":     start.UTC().Format(time.RFC3339),
		"end":       end.UTC().Format(time.RFC3339),
		"status":    string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", wrapQueryError(err))
	}
	appt := unwrapOne(results)
	if appt == nil {
		return nil, fmt.Errorf("create appointment: no result returned")
	}
	return appt, nil
}

// UpdateAppointment overwrites the writable fields of an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, in models.AppointmentInput) (*models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		UPDATE type::record("appointment", $id) SET
			title = $title,
			start = type::datetime($start),
			end = type::datetime($end),
			status = $status
		RETURN AFTER
	`, map[string]any{
		"id":     id,
		"title":  in.Title,
		"start":  in.Start.UTC().Format(time.RFC3339),
		"end":    in.End.UTC().Format(time.RFC3339),
		"status": string(in.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", wrapQueryError(err))
	}
	appt := unwrapOne(results)
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

// UpcomingAppointments returns the client's appointments with start >= now,
// ascending by start.
func (c *Client) UpcomingAppointments(ctx context.Context, clientID string) ([]models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		SELECT * FROM appointment
		WHERE client_id = type::record("client", $client_id) AND start >= time::now()
		ORDER BY start ASC
	`, map[string]any{"client_id": clientID})
	if err != nil {
		return nil, fmt.Errorf("upcoming appointments: %w", err)
	}
	return unwrapAll(results), nil
}

// FindAppointmentAt looks up the client's appointment at the exact start
// timestamp. Exact matching is deliberate: the agent is expected to have
// learned the precise time via findClientAppointments first.
func (c *Client) FindAppointmentAt(ctx context.Context, clientID string, start time.Time) (*models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		SELECT * FROM appointment
		WHERE client_id = type::record("client", $client_id) AND start = type::datetime($start)
		LIMIT 1
	`, map[string]any{
		"client_id": clientID,
		"start":     start.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("find appointment at: %w", err)
	}
	return unwrapOne(results), nil
}

// SetAppointmentStatus overwrites the status of an appointment.
func (c *Client) SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	results, err := surrealdb.Query[[]models.Appointment](ctx, c.db, `
		UPDATE type::record("appointment", $id) SET status = $status RETURN AFTER
	`, map[string]any{"id": id, "status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("set appointment status: %w", wrapQueryError(err))
	}
	appt := unwrapOne(results)
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

// DeleteAppointment removes an appointment by ID.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("appointment", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}
