package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/danwerth/opshub/internal/models"
)

// unwrapOne extracts the first record from a query result set, or nil.
func unwrapOne[T any](results *[]surrealdb.QueryResult[[]T]) *T {
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil
	}
	return &(*results)[0].Result[0]
}

// unwrapAll extracts all records from the first query statement.
func unwrapAll[T any](results *[]surrealdb.QueryResult[[]T]) []T {
	if results == nil || len(*results) == 0 {
		return []T{}
	}
	return (*results)[0].Result
}

// ListClients returns all clients, newest first.
func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	results, err := surrealdb.Query[[]models.Client](ctx, c.db, `
		SELECT * FROM client ORDER BY created_at DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return unwrapAll(results), nil
}

// GetClient retrieves a client by ID. Returns ErrNotFound if absent.
func (c *Client) GetClient(ctx context.Context, id string) (*models.Client, error) {
	results, err := surrealdb.Query[[]models.Client](ctx, c.db, `
		SELECT * FROM type::record("client", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	client := unwrapOne(results)
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// FindClientByPhone looks a client up by its unique phone number.
// Returns nil (no error) when no client matches.
func (c *Client) FindClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	results, err := surrealdb.Query[[]models.Client](ctx, c.db, `
		SELECT * FROM client WHERE phone = $phone LIMIT 1
	`, map[string]any{"phone": phone})
	if err != nil {
		return nil, fmt.Errorf("find client by phone: %w", err)
	}
	return unwrapOne(results), nil
}

// CreateClient inserts a new client record.
func (c *Client) CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error) {
	results, err := surrealdb.Query[[]models.Client](ctx, c.db, `
		CREATE client CONTENT {
			name: $name,
			phone: $phone,
			email: $email,
			address: $address,
			notes: $notes,
			created_at: time::now()
		} RETURN AFTER
	`, map[string]any{
		"name":    in.Name,
		"phone":   nilIfEmpty(in.Phone),
		"email":   nilIfEmpty(in.Email),
		"address": nilIfEmpty(in.Address),
		"notes":   nilIfEmpty(in.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", wrapQueryError(err))
	}
	client := unwrapOne(results)
	if client == nil {
		return nil, fmt.Errorf("create client: no result returned")
	}
	return client, nil
}

// UpdateClient merges the given fields into an existing client.
func (c *Client) UpdateClient(ctx context.Context, id string, in models.ClientInput) (*models.Client, error) {
	results, err := surrealdb.Query[[]models.Client](ctx, c.db, `
		UPDATE type::record("client", $id) MERGE {
			name: $name,
			phone: $phone,
			email: $email,
			address: $address,
			notes: $notes
		} RETURN AFTER
	`, map[string]any{
		"id":      id,
		"name":    in.Name,
		"phone":   nilIfEmpty(in.Phone),
		"email":   nilIfEmpty(in.Email),
		"address": nilIfEmpty(in.Address),
		"notes":   nilIfEmpty(in.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("update client: %w", wrapQueryError(err))
	}
	client := unwrapOne(results)
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// UpdateClientContact overwrites name and, when non-empty, email. Used by
// the createOrUpdateClient tool, which must not clear fields it was not
// given.
func (c *Client) UpdateClientContact(ctx context.Context, id, name, email string) (*models.Client, error) {
	sql := `UPDATE type::record("client", $id) SET name = $name RETURN AFTER`
	vars := map[string]any{"id": id, "name": name}
	if email != "" {
		sql = `UPDATE type::record("client", $id) SET name = $name, email = $email RETURN AFTER`
		vars["email"] = email
	}

	results, err := surrealdb.Query[[]models.Client](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("update client contact: %w", wrapQueryError(err))
	}
	client := unwrapOne(results)
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// DeleteClient removes a client by ID.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("client", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
