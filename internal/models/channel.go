package models

import surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

// CommunicationChannel tags a conversation with the messaging surface it
// arrived on.
type CommunicationChannel string

const (
	ChannelWhatsApp CommunicationChannel = "WhatsApp"
	ChannelTelegram CommunicationChannel = "Telegram"
	ChannelSMS      CommunicationChannel = "SMS"
)

// Channel is a configured acquisition channel (e.g. a WhatsApp business
// number) shown on the dashboard.
type Channel struct {
	ID         surrealmodels.RecordID `json:"id"`
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	ExternalID string                 `json:"external_id,omitempty"`
	Enabled    bool                   `json:"enabled"`
	Status     string                 `json:"status"`
}

// ChannelInput carries the writable channel fields.
type ChannelInput struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id,omitempty"`
	Enabled    bool   `json:"enabled"`
	Status     string `json:"status"`
}

// Identifier is an external integration credential record (access tokens,
// business account ids) managed from the dashboard.
type Identifier struct {
	ID                surrealmodels.RecordID `json:"id"`
	Name              string                 `json:"name"`
	Tag               string                 `json:"tag,omitempty"`
	Kind              string                 `json:"kind,omitempty"`
	Status            string                 `json:"status"`
	AccessToken       string                 `json:"access_token,omitempty"`
	BusinessAccountID string                 `json:"business_account_id,omitempty"`
}

// IdentifierInput carries the writable identifier fields.
type IdentifierInput struct {
	Name              string `json:"name"`
	Tag               string `json:"tag,omitempty"`
	Kind              string `json:"kind,omitempty"`
	Status            string `json:"status"`
	AccessToken       string `json:"access_token,omitempty"`
	BusinessAccountID string `json:"business_account_id,omitempty"`
}
