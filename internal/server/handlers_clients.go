package server

import (
	"fmt"
	"net/http"

	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/models"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		s.logger.Error("list clients", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientViews(clients))
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientView(*client))
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in models.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	client, err := s.store.CreateClient(r.Context(), in)
	if err != nil {
		s.logger.Error("create client", "error", err)
		writeStoreError(w, err)
		return
	}

	s.notifier.Notify(r.Context(), models.NotifyNewClient,
		fmt.Sprintf("New client: %s", client.Name), "/clients")
	s.bus.Publish(r.Context(), events.TypeClientCreated, toClientView(*client))

	writeJSON(w, http.StatusCreated, toClientView(*client))
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var in models.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := s.store.UpdateClient(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.notifier.Notify(r.Context(), models.NotifyClientChange,
		fmt.Sprintf("Client updated: %s", client.Name), "/clients")
	s.bus.Publish(r.Context(), events.TypeClientUpdated, toClientView(*client))

	writeJSON(w, http.StatusOK, toClientView(*client))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteClient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.bus.Publish(r.Context(), events.TypeClientDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
