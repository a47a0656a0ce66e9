package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/metrics"
	"github.com/danwerth/opshub/internal/models"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.store.ListConversations(r.Context())
	if err != nil {
		s.logger.Error("list conversations", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationViews(convs))
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.store.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationView(*conv))
}

type messageRequest struct {
	Text string `json:"text"`
}

// handleInboundMessage feeds a client message through the agent and returns
// the AI reply. This is the dashboard's way of exercising the agent without
// going through a channel webhook.
func (s *Server) handleInboundMessage(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	id := r.PathValue("id")
	reply, err := s.agent.Respond(r.Context(), id, in.Text)
	if err != nil {
		s.logger.Error("agent respond", "conversation_id", id, "error", err)
		if reply == nil {
			writeStoreError(w, err)
			return
		}
		// The fallback reply was persisted; surface it with the error noted.
	}

	s.bus.Publish(r.Context(), events.TypeMessageCreated, map[string]any{
		"conversation_id": id,
		"message":         reply,
	})

	writeJSON(w, http.StatusOK, reply)
}

// handleOperatorReply appends an operator message and pushes it out over
// the conversation's channel. The model is not involved.
func (s *Server) handleOperatorReply(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	id := r.PathValue("id")
	conv, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    models.SenderOperator,
		Text:      in.Text,
		Timestamp: time.Now(),
	}
	if _, err := s.store.AppendMessages(r.Context(), id, false, msg); err != nil {
		s.logger.Error("append operator message", "conversation_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	s.deliver(r.Context(), conv, in.Text)

	s.bus.Publish(r.Context(), events.TypeMessageCreated, map[string]any{
		"conversation_id": id,
		"message":         msg,
	})

	writeJSON(w, http.StatusOK, msg)
}

// deliver pushes text to the conversation's client over the outbound
// sender. Delivery is best-effort.
func (s *Server) deliver(ctx context.Context, conv *models.Conversation, text string) {
	client, err := s.store.GetClient(ctx, models.MustRecordIDString(conv.ClientID))
	if err != nil || client.Phone == "" {
		s.logger.Warn("no deliverable recipient for conversation",
			"conversation_id", models.MustRecordIDString(conv.ID))
		metrics.RecordOutboundMessage(conv.Channel, "skipped")
		return
	}
	if err := s.sender.Send(ctx, client.Phone, text); err != nil {
		s.logger.Error("outbound delivery failed",
			"conversation_id", models.MustRecordIDString(conv.ID),
			"error", err)
		metrics.RecordOutboundMessage(conv.Channel, "error")
		return
	}
	metrics.RecordOutboundMessage(conv.Channel, "ok")
}

type conversationUpdateRequest struct {
	Unread *bool `json:"unread"`
}

func (s *Server) handleUpdateConversation(w http.ResponseWriter, r *http.Request) {
	var in conversationUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Unread == nil {
		writeError(w, http.StatusBadRequest, "unread is required")
		return
	}

	conv, err := s.store.SetConversationUnread(r.Context(), r.PathValue("id"), *in.Unread)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.bus.Publish(r.Context(), events.TypeConversationUpdated, toConversationView(*conv))
	writeJSON(w, http.StatusOK, toConversationView(*conv))
}

func (s *Server) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	conv, err := s.store.ClearMessages(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.bus.Publish(r.Context(), events.TypeConversationUpdated, toConversationView(*conv))
	writeJSON(w, http.StatusOK, toConversationView(*conv))
}
