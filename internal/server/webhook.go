package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/metrics"
	"github.com/danwerth/opshub/internal/models"
)

// emptyTwiML tells Twilio not to send a canned reply; the agent's answer
// goes out through the Messages API instead.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// handleTwilioWebhook ingests an inbound WhatsApp message. The webhook
// always answers 200 with empty TwiML, whatever happens: Twilio retries on
// errors and a retry would duplicate the client's message.
func (s *Server) handleTwilioWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.Warn("unparseable webhook form", "error", err)
		writeTwiML(w)
		return
	}

	from := strings.TrimPrefix(r.PostFormValue("From"), "whatsapp:")
	body := r.PostFormValue("Body")
	profileName := r.PostFormValue("ProfileName")

	if from == "" || body == "" {
		s.logger.Warn("webhook missing sender or body",
			"body", truncate(body, maxBodyLogLen))
		writeTwiML(w)
		return
	}

	conv, err := s.ensureConversation(r.Context(), from, profileName)
	if err != nil {
		s.logger.Error("webhook conversation setup failed", "from", from, "error", err)
		writeTwiML(w)
		return
	}

	// Respond asynchronously: Twilio expects an answer within seconds and
	// an agent turn can take far longer.
	go s.runAgentTurn(context.WithoutCancel(r.Context()), conv, body)

	writeTwiML(w)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, emptyTwiML)
}

// ensureConversation resolves the (client, WhatsApp) conversation for an
// inbound phone number, creating both records on first contact.
func (s *Server) ensureConversation(ctx context.Context, phone, profileName string) (*models.Conversation, error) {
	client, err := s.store.FindClientByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("find client by phone: %w", err)
	}
	if client == nil {
		name := profileName
		if name == "" {
			name = phone
		}
		client, err = s.store.CreateClient(ctx, models.ClientInput{Name: name, Phone: phone})
		if err != nil {
			return nil, fmt.Errorf("create client: %w", err)
		}
		s.notifier.Notify(ctx, models.NotifyNewClient,
			fmt.Sprintf("New client: %s", client.Name), "/clients")
		s.bus.Publish(ctx, events.TypeClientCreated, toClientView(*client))
	}

	clientID := models.MustRecordIDString(client.ID)
	conv, err := s.store.FindConversation(ctx, clientID, models.ChannelWhatsApp)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv == nil {
		conv, err = s.store.CreateConversation(ctx, clientID, models.ChannelWhatsApp)
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
	}
	return conv, nil
}

// runAgentTurn drives the agent for one inbound message and delivers the
// reply back over the channel. The fallback reply is delivered too, so the
// client is never left hanging.
func (s *Server) runAgentTurn(ctx context.Context, conv *models.Conversation, body string) {
	convID := models.MustRecordIDString(conv.ID)
	start := time.Now()

	reply, err := s.agent.Respond(ctx, convID, body)
	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Error("agent turn failed", "conversation_id", convID, "error", err)
	}
	metrics.RecordAgentTurn(string(s.cfg.LLMProvider), s.cfg.LLMModel, status, time.Since(start))

	if reply == nil {
		return
	}

	s.bus.Publish(ctx, events.TypeMessageCreated, map[string]any{
		"conversation_id": convID,
		"message":         reply,
	})

	s.deliver(ctx, conv, reply.Text)
}
