package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/models"
)

type appointmentRequest struct {
	ClientID string                   `json:"client_id"`
	Title    string                   `json:"title"`
	Start    time.Time                `json:"start"`
	End      time.Time                `json:"end"`
	Status   models.AppointmentStatus `json:"status"`
}

func (r appointmentRequest) validate() error {
	if r.ClientID == "" || r.Title == "" {
		return fmt.Errorf("client_id and title are required")
	}
	if r.Start.IsZero() {
		return fmt.Errorf("start is required")
	}
	if r.Status != "" && !models.ValidAppointmentStatus(r.Status) {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := s.store.ListAppointments(r.Context())
	if err != nil {
		s.logger.Error("list appointments", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentViews(appts))
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in appointmentRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := in.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := in.Status
	if status == "" {
		status = models.StatusInProgress
	}
	end := in.End
	if end.IsZero() {
		end = in.Start.Add(time.Hour)
	}

	appt, err := s.store.CreateAppointment(r.Context(), in.ClientID, in.Title, in.Start, end, status)
	if err != nil {
		s.logger.Error("create appointment", "error", err)
		writeStoreError(w, err)
		return
	}

	s.notifier.Notify(r.Context(), models.NotifyNewAppointment,
		fmt.Sprintf("New appointment %q on %s", appt.Title, appt.Start.Format("Jan 2, 2006 at 3:04 PM")),
		"/appointments")
	s.bus.Publish(r.Context(), events.TypeAppointmentCreated, toAppointmentView(*appt))

	writeJSON(w, http.StatusCreated, toAppointmentView(*appt))
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var in appointmentRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := in.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	appt, err := s.store.UpdateAppointment(r.Context(), r.PathValue("id"), models.AppointmentInput{
		ClientID: in.ClientID,
		Title:    in.Title,
		Start:    in.Start,
		End:      in.End,
		Status:   in.Status,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.notifier.Notify(r.Context(), models.NotifyAppointmentChange,
		fmt.Sprintf("Appointment %q is now %s", appt.Title, appt.Status), "/appointments")
	s.bus.Publish(r.Context(), events.TypeAppointmentUpdated, toAppointmentView(*appt))

	writeJSON(w, http.StatusOK, toAppointmentView(*appt))
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteAppointment(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.bus.Publish(r.Context(), events.TypeAppointmentDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
