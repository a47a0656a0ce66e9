package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// ListChannels returns all configured channels.
func (c *Client) ListChannels(ctx context.Context) ([]models.Channel, error) {
	results, err := surrealdb.Query[[]models.Channel](ctx, c.db, `
		SELECT * FROM channel ORDER BY name ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return unwrapAll(results), nil
}

// CreateChannel inserts a new channel.
func (c *Client) CreateChannel(ctx context.Context, in models.ChannelInput) (*models.Channel, error) {
	results, err := surrealdb.Query[[]models.Channel](ctx, c.db, `
		CREATE channel CONTENT {
			name: $name,
			type: $type,
			external_id: $external_id,
			enabled: $enabled,
			status: $status
		} RETURN AFTER
	`, map[string]any{
		"name":        in.Name,
		"type":        in.Type,
		"external_id": nilIfEmpty(in.ExternalID),
		"enabled":     in.Enabled,
		"status":      in.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	ch := unwrapOne(results)
	if ch == nil {
		return nil, fmt.Errorf("create channel: no result returned")
	}
	return ch, nil
}

// UpdateChannel overwrites a channel's writable fields.
func (c *Client) UpdateChannel(ctx context.Context, id string, in models.ChannelInput) (*models.Channel, error) {
	results, err := surrealdb.Query[[]models.Channel](ctx, c.db, `
		UPDATE type::record("channel", $id) SET
			name = $name,
			type = $type,
			external_id = $external_id,
			enabled = $enabled,
			status = $status
		RETURN AFTER
	`, map[string]any{
		"id":          id,
		"name":        in.Name,
		"type":        in.Type,
		"external_id": nilIfEmpty(in.ExternalID),
		"enabled":     in.Enabled,
		"status":      in.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("update channel: %w", err)
	}
	ch := unwrapOne(results)
	if ch == nil {
		return nil, ErrNotFound
	}
	return ch, nil
}

// DeleteChannel removes a channel by ID.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("channel", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// ListIdentifiers returns all identifier records.
func (c *Client) ListIdentifiers(ctx context.Context) ([]models.Identifier, error) {
	results, err := surrealdb.Query[[]models.Identifier](ctx, c.db, `
		SELECT * FROM identifier ORDER BY name ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list identifiers: %w", err)
	}
	return unwrapAll(results), nil
}

// CreateIdentifier inserts a new identifier.
func (c *Client) CreateIdentifier(ctx context.Context, in models.IdentifierInput) (*models.Identifier, error) {
	results, err := surrealdb.Query[[]models.Identifier](ctx, c.db, `
		CREATE identifier CONTENT {
			name: $name,
			tag: $tag,
			kind: $kind,
			status: $status,
			access_token: $access_token,
			business_account_id: $business_account_id
		} RETURN AFTER
	`, map[string]any{
		"name":                in.Name,
		"tag":                 nilIfEmpty(in.Tag),
		"kind":                nilIfEmpty(in.Kind),
		"status":              in.Status,
		"access_token":        nilIfEmpty(in.AccessToken),
		"business_account_id": nilIfEmpty(in.BusinessAccountID),
	})
	if err != nil {
		return nil, fmt.Errorf("create identifier: %w", err)
	}
	ident := unwrapOne(results)
	if ident == nil {
		return nil, fmt.Errorf("create identifier: no result returned")
	}
	return ident, nil
}

// UpdateIdentifier overwrites an identifier's writable fields.
func (c *Client) UpdateIdentifier(ctx context.Context, id string, in models.IdentifierInput) (*models.Identifier, error) {
	results, err := surrealdb.Query[[]models.Identifier](ctx, c.db, `
		UPDATE type::record("identifier", $id) SET
			name = $name,
			tag = $tag,
			kind = $kind,
			status = $status,
			access_token = $access_token,
			business_account_id = $business_account_id
		RETURN AFTER
	`, map[string]any{
		"id":                  id,
		"name":                in.Name,
		"tag":                 nilIfEmpty(in.Tag),
		"kind":                nilIfEmpty(in.Kind),
		"status":              in.Status,
		"access_token":        nilIfEmpty(in.AccessToken),
		"business_account_id": nilIfEmpty(in.BusinessAccountID),
	})
	if err != nil {
		return nil, fmt.Errorf("update identifier: %w", err)
	}
	ident := unwrapOne(results)
	if ident == nil {
		return nil, ErrNotFound
	}
	return ident, nil
}

// DeleteIdentifier removes an identifier by ID.
func (c *Client) DeleteIdentifier(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("identifier", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete identifier: %w", err)
	}
	return nil
}
