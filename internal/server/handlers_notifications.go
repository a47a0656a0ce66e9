package server

import (
	"net/http"

	"github.com/danwerth/opshub/internal/notify"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := s.store.ListNotifications(r.Context(), notify.DefaultRecipient)
	if err != nil {
		s.logger.Error("list notifications", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationViews(ns))
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.MarkNotificationRead(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationView(*n))
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkAllNotificationsRead(r.Context(), notify.DefaultRecipient); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
