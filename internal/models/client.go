package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Client is a business customer record. Phone is the natural key used to
// deduplicate inbound channel senders and is unique when present.
type Client struct {
	ID        surrealmodels.RecordID `json:"id"`
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// ClientInput carries the writable client fields for create/update calls.
type ClientInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}
