package server

import (
	"fmt"
	"net/http"

	"github.com/danwerth/opshub/internal/models"
)

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	chs, err := s.store.ListChannels(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChannelViews(chs))
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var in models.ChannelInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ch, err := s.store.CreateChannel(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyNewChannel,
		fmt.Sprintf("New channel: %s", ch.Name), "/channels")
	writeJSON(w, http.StatusCreated, toChannelView(*ch))
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	var in models.ChannelInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ch, err := s.store.UpdateChannel(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyChannelChange,
		fmt.Sprintf("Channel updated: %s", ch.Name), "/channels")
	writeJSON(w, http.StatusOK, toChannelView(*ch))
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteChannel(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyChannelDeleted, "Channel deleted", "/channels")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIdentifiers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListIdentifiers(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdentifierViews(ids))
}

func (s *Server) handleCreateIdentifier(w http.ResponseWriter, r *http.Request) {
	var in models.IdentifierInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ident, err := s.store.CreateIdentifier(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyNewIdentifier,
		fmt.Sprintf("New identifier: %s", ident.Name), "/channels")
	writeJSON(w, http.StatusCreated, toIdentifierView(*ident))
}

func (s *Server) handleUpdateIdentifier(w http.ResponseWriter, r *http.Request) {
	var in models.IdentifierInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident, err := s.store.UpdateIdentifier(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyIdentifierChange,
		fmt.Sprintf("Identifier updated: %s", ident.Name), "/channels")
	writeJSON(w, http.StatusOK, toIdentifierView(*ident))
}

func (s *Server) handleDeleteIdentifier(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteIdentifier(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.notifier.Notify(r.Context(), models.NotifyIdentifierDeleted, "Identifier deleted", "/channels")
	w.WriteHeader(http.StatusNoContent)
}
