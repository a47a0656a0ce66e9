package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderClient   Sender = "client"
	SenderOperator Sender = "operator"
	SenderAI       Sender = "ai"
)

// ToolCallResult records which tool fired and with what arguments, kept on
// the final AI message for dashboard rendering.
type ToolCallResult struct {
	ToolName string         `json:"tool_name"`
	ToolArgs map[string]any `json:"tool_args,omitempty"`
}

// Message is one entry in a conversation's append-only log. Messages are
// never edited or reordered; the only non-append mutation is the explicit
// bulk clear on the whole conversation.
type Message struct {
	ID             string          `json:"id"`
	Sender         Sender          `json:"sender"`
	Text           string          `json:"text"`
	Timestamp      time.Time       `json:"timestamp"`
	IsAI           bool            `json:"is_ai"`
	ToolCallResult *ToolCallResult `json:"tool_call_result,omitempty"`
}

// Conversation ties one client to one channel and holds the ordered
// message log. Unread is set when a client message arrives and cleared by
// an operator viewing the conversation.
type Conversation struct {
	ID        surrealmodels.RecordID `json:"id"`
	ClientID  surrealmodels.RecordID `json:"client_id"`
	Channel   string                 `json:"channel"`
	Messages  []Message              `json:"messages"`
	Unread    bool                   `json:"unread"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
