package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// AIConfig is the singleton agent configuration: the free-text knowledge
// base plus after-hours behavior. At most one record exists.
type AIConfig struct {
	ID                surrealmodels.RecordID `json:"id"`
	KnowledgeBase     string                 `json:"knowledge_base"`
	AfterHoursReply   string                 `json:"after_hours_reply,omitempty"`
	AfterHoursEnabled bool                   `json:"after_hours_enabled"`
}

// AIConfigInput carries the writable AI configuration fields.
type AIConfigInput struct {
	KnowledgeBase     string `json:"knowledge_base"`
	AfterHoursReply   string `json:"after_hours_reply,omitempty"`
	AfterHoursEnabled bool   `json:"after_hours_enabled"`
}

// KnowledgeFile is an uploaded grounding document. Files are immutable once
// uploaded; the agent reads them fresh on every turn.
type KnowledgeFile struct {
	ID         surrealmodels.RecordID `json:"id"`
	Name       string                 `json:"name"`
	MimeType   string                 `json:"mime_type"`
	Size       int64                  `json:"size"`
	Path       string                 `json:"path"`
	UploadedAt time.Time              `json:"uploaded_at"`
}
