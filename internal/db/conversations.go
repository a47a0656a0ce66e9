package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// ListConversations returns all conversations, most recently updated first.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		SELECT * FROM conversation ORDER BY updated_at DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return unwrapAll(results), nil
}

// GetConversation retrieves a conversation by ID. Returns ErrNotFound if absent.
func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		SELECT * FROM type::record("conversation", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	conv := unwrapOne(results)
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv, nil
}

// FindConversation looks up the single conversation for a (client, channel)
// pair. Returns nil (no error) when none exists.
func (c *Client) FindConversation(ctx context.Context, clientID string, channel models.CommunicationChannel) (*models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		SELECT * FROM conversation
		WHERE client_id = type::record("client", $client_id) AND channel = $channel
		LIMIT 1
	`, map[string]any{"client_id": clientID, "channel": string(channel)})
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return unwrapOne(results), nil
}

// CreateConversation opens a new empty conversation for a (client, channel)
// pair. The unique index enforces at most one per pair.
func (c *Client) CreateConversation(ctx context.Context, clientID string, channel models.CommunicationChannel) (*models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		CREATE conversation CONTENT {
			client_id: type::record("client", $client_id),
			channel: $channel,
			messages: [],
			unread: false,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`, map[string]any{"client_id": clientID, "channel": string(channel)})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", wrapQueryError(err))
	}
	conv := unwrapOne(results)
	if conv == nil {
		return nil, fmt.Errorf("create conversation: no result returned")
	}
	return conv, nil
}

// AppendMessages appends messages to a conversation's log and sets the
// unread flag. The log is append-only; existing entries are never touched.
func (c *Client) AppendMessages(ctx context.Context, id string, unread bool, msgs ...models.Message) (*models.Conversation, error) {
	if len(msgs) == 0 {
		return c.GetConversation(ctx, id)
	}

	encoded := make([]map[string]any, len(msgs))
	for i, m := range msgs {
		encoded[i] = encodeMessage(m)
	}

	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		UPDATE type::record("conversation", $id) SET
			messages += $msgs,
			unread = $unread,
			updated_at = time::now()
		RETURN AFTER
	`, map[string]any{"id": id, "msgs": encoded, "unread": unread})
	if err != nil {
		return nil, fmt.Errorf("append messages: %w", wrapQueryError(err))
	}
	conv := unwrapOne(results)
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv, nil
}

// SetConversationUnread flips the unread flag (operator viewed / new inbound).
func (c *Client) SetConversationUnread(ctx context.Context, id string, unread bool) (*models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		UPDATE type::record("conversation", $id) SET unread = $unread RETURN AFTER
	`, map[string]any{"id": id, "unread": unread})
	if err != nil {
		return nil, fmt.Errorf("set conversation unread: %w", err)
	}
	conv := unwrapOne(results)
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv, nil
}

// ClearMessages empties a conversation's message log. This is the only
// mutation that shrinks the log.
func (c *Client) ClearMessages(ctx context.Context, id string) (*models.Conversation, error) {
	results, err := surrealdb.Query[[]models.Conversation](ctx, c.db, `
		UPDATE type::record("conversation", $id) SET
			messages = [],
			unread = false,
			updated_at = time::now()
		RETURN AFTER
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("clear messages: %w", err)
	}
	conv := unwrapOne(results)
	if conv == nil {
		return nil, ErrNotFound
	}
	return conv, nil
}

// encodeMessage converts a Message to a flexible-object map. The timestamp
// is passed as time.Time so the CBOR codec stores it as a datetime.
func encodeMessage(m models.Message) map[string]any {
	out := map[string]any{
		"id":        m.ID,
		"sender":    string(m.Sender),
		"text":      m.Text,
		"timestamp": m.Timestamp.UTC(),
		"is_ai":     m.IsAI,
	}
	if m.ToolCallResult != nil {
		out["tool_call_result"] = map[string]any{
			"tool_name": m.ToolCallResult.ToolName,
			"tool_args": m.ToolCallResult.ToolArgs,
		}
	}
	return out
}
