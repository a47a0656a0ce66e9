package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// CreateNotification records a notification for a recipient.
func (c *Client) CreateNotification(ctx context.Context, recipientID, message string, typ models.NotificationType, link string) (*models.Notification, error) {
	results, err := surrealdb.Query[[]models.Notification](ctx, c.db, `
		CREATE notification CONTENT {
			recipient_id: $recipient_id,
			message: $message,
			type: $type,
			read: false,
			timestamp: time::now(),
			link: $link
		} RETURN AFTER
	`, map[string]any{
		"recipient_id": recipientID,
		"message":      message,
		"type":         string(typ),
		"link":         nilIfEmpty(link),
	})
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	n := unwrapOne(results)
	if n == nil {
		return nil, fmt.Errorf("create notification: no result returned")
	}
	return n, nil
}

// ListNotifications returns a recipient's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error) {
	results, err := surrealdb.Query[[]models.Notification](ctx, c.db, `
		SELECT * FROM notification WHERE recipient_id = $recipient_id ORDER BY timestamp DESC
	`, map[string]any{"recipient_id": recipientID})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return unwrapAll(results), nil
}

// MarkNotificationRead flags a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	results, err := surrealdb.Query[[]models.Notification](ctx, c.db, `
		UPDATE type::record("notification", $id) SET read = true RETURN AFTER
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n := unwrapOne(results)
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// MarkAllNotificationsRead flags every unread notification for a recipient.
// Idempotent: a second call is a no-op.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE notification SET read = true WHERE recipient_id = $recipient_id AND read = false
	`, map[string]any{"recipient_id": recipientID})
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
