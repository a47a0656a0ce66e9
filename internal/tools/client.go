package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danwerth/opshub/internal/models"
)

type createOrUpdateClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (e *Executor) createOrUpdateClient(ctx context.Context, clientID string, raw json.RawMessage, res *Result) error {
	var in createOrUpdateClientInput
	if err := json.Unmarshal(raw, &in); err != nil {
		res.Err = "invalid arguments"
		return fmt.Errorf("decode createOrUpdateClient args: %w", err)
	}
	if in.Name == "" {
		res.Err = "name is required"
		return fmt.Errorf("createOrUpdateClient: missing name")
	}

	client, err := e.deps.Store.UpdateClientContact(ctx, clientID, in.Name, in.Email)
	if err != nil {
		return fmt.Errorf("update client contact: %w", err)
	}

	e.deps.Notifier.Notify(ctx, models.NotifyClientChange,
		fmt.Sprintf("Contact info updated for %s", client.Name),
		"/clients")

	res.Summary = fmt.Sprintf("Saved contact information for %s.", client.Name)
	res.Data = map[string]any{
		"name":  client.Name,
		"email": client.Email,
		"phone": client.Phone,
	}
	return nil
}

func (e *Executor) getClientInfo(ctx context.Context, clientID string, res *Result) error {
	client, err := e.deps.Store.GetClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("get client: %w", err)
	}

	email := client.Email
	if email == "" {
		email = "not on file"
	}
	res.Summary = fmt.Sprintf("On file: name %s, phone %s, email %s.", client.Name, client.Phone, email)
	res.Data = map[string]any{
		"name":  client.Name,
		"phone": client.Phone,
		"email": client.Email,
	}
	return nil
}
