package server

import (
	"time"

	"github.com/danwerth/opshub/internal/models"
)

// View types normalize SurrealDB record identity to a plain `id` string so
// the dashboard never sees table-prefixed record ids.

type clientView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toClientView(c models.Client) clientView {
	return clientView{
		ID:        models.MustRecordIDString(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func toClientViews(cs []models.Client) []clientView {
	out := make([]clientView, len(cs))
	for i, c := range cs {
		out[i] = toClientView(c)
	}
	return out
}

type appointmentView struct {
	ID       string                   `json:"id"`
	ClientID string                   `json:"client_id"`
	Title    string                   `json:"title"`
	Start    time.Time                `json:"start"`
	End      time.Time                `json:"end"`
	Status   models.AppointmentStatus `json:"status"`
}

func toAppointmentView(a models.Appointment) appointmentView {
	return appointmentView{
		ID:       models.MustRecordIDString(a.ID),
		ClientID: models.MustRecordIDString(a.ClientID),
		Title:    a.Title,
		Start:    a.Start,
		End:      a.End,
		Status:   a.Status,
	}
}

func toAppointmentViews(as []models.Appointment) []appointmentView {
	out := make([]appointmentView, len(as))
	for i, a := range as {
		out[i] = toAppointmentView(a)
	}
	return out
}

type conversationView struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"client_id"`
	Channel   string           `json:"channel"`
	Messages  []models.Message `json:"messages"`
	Unread    bool             `json:"unread"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toConversationView(c models.Conversation) conversationView {
	msgs := c.Messages
	if msgs == nil {
		msgs = []models.Message{}
	}
	return conversationView{
		ID:        models.MustRecordIDString(c.ID),
		ClientID:  models.MustRecordIDString(c.ClientID),
		Channel:   c.Channel,
		Messages:  msgs,
		Unread:    c.Unread,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toConversationViews(cs []models.Conversation) []conversationView {
	out := make([]conversationView, len(cs))
	for i, c := range cs {
		out[i] = toConversationView(c)
	}
	return out
}

type notificationView struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Read      bool                    `json:"read"`
	Timestamp time.Time               `json:"timestamp"`
	Link      string                  `json:"link,omitempty"`
}

func toNotificationView(n models.Notification) notificationView {
	return notificationView{
		ID:        models.MustRecordIDString(n.ID),
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		Timestamp: n.Timestamp,
		Link:      n.Link,
	}
}

func toNotificationViews(ns []models.Notification) []notificationView {
	out := make([]notificationView, len(ns))
	for i, n := range ns {
		out[i] = toNotificationView(n)
	}
	return out
}

type channelView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id,omitempty"`
	Enabled    bool   `json:"enabled"`
	Status     string `json:"status"`
}

func toChannelView(c models.Channel) channelView {
	return channelView{
		ID:         models.MustRecordIDString(c.ID),
		Name:       c.Name,
		Type:       c.Type,
		ExternalID: c.ExternalID,
		Enabled:    c.Enabled,
		Status:     c.Status,
	}
}

func toChannelViews(cs []models.Channel) []channelView {
	out := make([]channelView, len(cs))
	for i, c := range cs {
		out[i] = toChannelView(c)
	}
	return out
}

type identifierView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Tag               string `json:"tag,omitempty"`
	Kind              string `json:"kind,omitempty"`
	Status            string `json:"status"`
	AccessToken       string `json:"access_token,omitempty"`
	BusinessAccountID string `json:"business_account_id,omitempty"`
}

func toIdentifierView(i models.Identifier) identifierView {
	return identifierView{
		ID:                models.MustRecordIDString(i.ID),
		Name:              i.Name,
		Tag:               i.Tag,
		Kind:              i.Kind,
		Status:            i.Status,
		AccessToken:       i.AccessToken,
		BusinessAccountID: i.BusinessAccountID,
	}
}

func toIdentifierViews(is []models.Identifier) []identifierView {
	out := make([]identifierView, len(is))
	for i, v := range is {
		out[i] = toIdentifierView(v)
	}
	return out
}

type aiConfigView struct {
	KnowledgeBase     string `json:"knowledge_base"`
	AfterHoursReply   string `json:"after_hours_reply,omitempty"`
	AfterHoursEnabled bool   `json:"after_hours_enabled"`
}

func toAIConfigView(c models.AIConfig) aiConfigView {
	return aiConfigView{
		KnowledgeBase:     c.KnowledgeBase,
		AfterHoursReply:   c.AfterHoursReply,
		AfterHoursEnabled: c.AfterHoursEnabled,
	}
}

type knowledgeFileView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func toKnowledgeFileView(f models.KnowledgeFile) knowledgeFileView {
	return knowledgeFileView{
		ID:         models.MustRecordIDString(f.ID),
		Name:       f.Name,
		MimeType:   f.MimeType,
		Size:       f.Size,
		UploadedAt: f.UploadedAt,
	}
}

func toKnowledgeFileViews(fs []models.KnowledgeFile) []knowledgeFileView {
	out := make([]knowledgeFileView, len(fs))
	for i, f := range fs {
		out[i] = toKnowledgeFileView(f)
	}
	return out
}
