// Package server exposes the dashboard REST API, the inbound channel
// webhook and the websocket event feed.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danwerth/opshub/internal/channel"
	"github.com/danwerth/opshub/internal/config"
	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/metrics"
	"github.com/danwerth/opshub/internal/models"
)

// Store is the full domain store surface the handlers use. *db.Client
// implements it; tests swap in a fake.
type Store interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, in models.ClientInput) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error

	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, clientID, title string, start, end time.Time, status models.AppointmentStatus) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, in models.AppointmentInput) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	ListConversations(ctx context.Context) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	FindConversation(ctx context.Context, clientID string, ch models.CommunicationChannel) (*models.Conversation, error)
	CreateConversation(ctx context.Context, clientID string, ch models.CommunicationChannel) (*models.Conversation, error)
	AppendMessages(ctx context.Context, id string, unread bool, msgs ...models.Message) (*models.Conversation, error)
	SetConversationUnread(ctx context.Context, id string, unread bool) (*models.Conversation, error)
	ClearMessages(ctx context.Context, id string) (*models.Conversation, error)

	GetAIConfig(ctx context.Context) (*models.AIConfig, error)
	UpsertAIConfig(ctx context.Context, in models.AIConfigInput) (*models.AIConfig, error)
	ListKnowledgeFiles(ctx context.Context) ([]models.KnowledgeFile, error)
	GetKnowledgeFile(ctx context.Context, id string) (*models.KnowledgeFile, error)
	CreateKnowledgeFile(ctx context.Context, name, mimeType string, size int64, path string) (*models.KnowledgeFile, error)
	DeleteKnowledgeFile(ctx context.Context, id string) error

	ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID string) error

	ListChannels(ctx context.Context) ([]models.Channel, error)
	CreateChannel(ctx context.Context, in models.ChannelInput) (*models.Channel, error)
	UpdateChannel(ctx context.Context, id string, in models.ChannelInput) (*models.Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	ListIdentifiers(ctx context.Context) ([]models.Identifier, error)
	CreateIdentifier(ctx context.Context, in models.IdentifierInput) (*models.Identifier, error)
	UpdateIdentifier(ctx context.Context, id string, in models.IdentifierInput) (*models.Identifier, error)
	DeleteIdentifier(ctx context.Context, id string) error
}

// Responder runs one agent turn for a conversation.
type Responder interface {
	Respond(ctx context.Context, conversationID, text string) (*models.Message, error)
}

// Notifier records dashboard notifications, best-effort.
type Notifier interface {
	Notify(ctx context.Context, typ models.NotificationType, message, link string)
}

// Server wires the handlers to their dependencies.
type Server struct {
	store    Store
	agent    Responder
	sender   channel.Sender
	notifier Notifier
	bus      *events.Bus
	hub      *events.Hub
	cfg      config.Config
	logger   *slog.Logger
}

func New(store Store, agent Responder, sender channel.Sender, notifier Notifier, bus *events.Bus, hub *events.Hub, cfg config.Config, logger *slog.Logger) *Server {
	return &Server{
		store:    store,
		agent:    agent,
		sender:   sender,
		notifier: notifier,
		bus:      bus,
		hub:      hub,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handler builds the routed HTTP handler with logging and metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/events", s.hub.ServeWS)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("GET /api/appointments", s.handleListAppointments)
	mux.HandleFunc("POST /api/appointments", s.handleCreateAppointment)
	mux.HandleFunc("PUT /api/appointments/{id}", s.handleUpdateAppointment)
	mux.HandleFunc("DELETE /api/appointments/{id}", s.handleDeleteAppointment)

	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("PUT /api/conversations/{id}", s.handleUpdateConversation)
	mux.HandleFunc("POST /api/conversations/{id}/messages", s.handleInboundMessage)
	mux.HandleFunc("POST /api/conversations/{id}/reply", s.handleOperatorReply)
	mux.HandleFunc("DELETE /api/conversations/{id}/messages", s.handleClearMessages)

	mux.HandleFunc("GET /api/ai-config", s.handleGetAIConfig)
	mux.HandleFunc("PUT /api/ai-config", s.handleUpdateAIConfig)

	mux.HandleFunc("GET /api/knowledge-files", s.handleListKnowledgeFiles)
	mux.HandleFunc("POST /api/knowledge-files", s.handleUploadKnowledgeFile)
	mux.HandleFunc("DELETE /api/knowledge-files/{id}", s.handleDeleteKnowledgeFile)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("PUT /api/notifications/read-all", s.handleMarkAllNotificationsRead)
	mux.HandleFunc("PUT /api/notifications/{id}/read", s.handleMarkNotificationRead)

	mux.HandleFunc("GET /api/channels", s.handleListChannels)
	mux.HandleFunc("POST /api/channels", s.handleCreateChannel)
	mux.HandleFunc("PUT /api/channels/{id}", s.handleUpdateChannel)
	mux.HandleFunc("DELETE /api/channels/{id}", s.handleDeleteChannel)

	mux.HandleFunc("GET /api/identifiers", s.handleListIdentifiers)
	mux.HandleFunc("POST /api/identifiers", s.handleCreateIdentifier)
	mux.HandleFunc("PUT /api/identifiers/{id}", s.handleUpdateIdentifier)
	mux.HandleFunc("DELETE /api/identifiers/{id}", s.handleDeleteIdentifier)

	mux.HandleFunc("POST /api/broadcast", s.handleBroadcast)

	mux.HandleFunc("POST /webhooks/twilio", s.handleTwilioWebhook)

	return LoggingMiddleware(s.logger)(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
