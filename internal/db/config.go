package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// The AI configuration is a singleton held at a fixed record id so reads
// and upserts never have to scan.
const aiConfigID = "singleton"

// GetAIConfig loads the AI configuration singleton. Returns ErrConfigMissing
// when it has never been initialized.
func (c *Client) GetAIConfig(ctx context.Context) (*models.AIConfig, error) {
	results, err := surrealdb.Query[[]models.AIConfig](ctx, c.db, `
		SELECT * FROM type::record("ai_config", $id)
	`, map[string]any{"id": aiConfigID})
	if err != nil {
		return nil, fmt.Errorf("get ai config: %w", err)
	}
	cfg := unwrapOne(results)
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	return cfg, nil
}

// UpsertAIConfig replaces the AI configuration as a whole document.
func (c *Client) UpsertAIConfig(ctx context.Context, in models.AIConfigInput) (*models.AIConfig, error) {
	results, err := surrealdb.Query[[]models.AIConfig](ctx, c.db, `
		UPSERT type::record("ai_config", $id) SET
			knowledge_base = $knowledge_base,
			after_hours_reply = $after_hours_reply,
			after_hours_enabled = $after_hours_enabled
		RETURN AFTER
	`, map[string]any{
		"id":                  aiConfigID,
		"knowledge_base":      in.KnowledgeBase,
		"after_hours_reply":   nilIfEmpty(in.AfterHoursReply),
		"after_hours_enabled": in.AfterHoursEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert ai config: %w", err)
	}
	cfg := unwrapOne(results)
	if cfg == nil {
		return nil, fmt.Errorf("upsert ai config: no result returned")
	}
	return cfg, nil
}

// ListKnowledgeFiles returns all knowledge files, newest upload first.
func (c *Client) ListKnowledgeFiles(ctx context.Context) ([]models.KnowledgeFile, error) {
	results, err := surrealdb.Query[[]models.KnowledgeFile](ctx, c.db, `
		SELECT * FROM knowledge_file ORDER BY uploaded_at DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list knowledge files: %w", err)
	}
	return unwrapAll(results), nil
}

// GetKnowledgeFile retrieves a knowledge file record by ID.
func (c *Client) GetKnowledgeFile(ctx context.Context, id string) (*models.KnowledgeFile, error) {
	results, err := surrealdb.Query[[]models.KnowledgeFile](ctx, c.db, `
		SELECT * FROM type::record("knowledge_file", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get knowledge file: %w", err)
	}
	f := unwrapOne(results)
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

// CreateKnowledgeFile records an uploaded file.
func (c *Client) CreateKnowledgeFile(ctx context.Context, name, mimeType string, size int64, path string) (*models.KnowledgeFile, error) {
	results, err := surrealdb.Query[[]models.KnowledgeFile](ctx, c.db, `
		CREATE knowledge_file CONTENT {
			name: $name,
			mime_type: $mime_type,
			size: $size,
			path: $path,
			uploaded_at: time::now()
		} RETURN AFTER
	`, map[string]any{
		"name":      name,
		"mime_type": mimeType,
		"size":      size,
		"path":      path,
	})
	if err != nil {
		return nil, fmt.Errorf("create knowledge file: %w", err)
	}
	f := unwrapOne(results)
	if f == nil {
		return nil, fmt.Errorf("create knowledge file: no result returned")
	}
	return f, nil
}

// DeleteKnowledgeFile removes a knowledge file record by ID.
func (c *Client) DeleteKnowledgeFile(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("knowledge_file", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete knowledge file: %w", err)
	}
	return nil
}
