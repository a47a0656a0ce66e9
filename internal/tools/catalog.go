package tools

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/danwerth/opshub/internal/models"
)

// Tool names as the model sees them.
const (
	NameBookAppointment         = "bookAppointment"
	NameCreateOrUpdateClient    = "createOrUpdateClient"
	NameFindClientAppointments  = "findClientAppointments"
	NameUpdateAppointmentStatus = "updateAppointmentStatus"
	NameGetClientInfo           = "getClientInfo"
)

// Catalog returns the tool declarations advertised to the model on every
// generation call.
func Catalog() []llms.Tool {
	statuses := make([]string, len(models.AppointmentStatuses))
	for i, s := range models.AppointmentStatuses {
		statuses[i] = string(s)
	}

	return []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        NameBookAppointment,
				Description: "Books a new appointment for the client. Use this only after the client has agreed on a specific date and time.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "The service or purpose of the appointment, e.g. 'Consultation'.",
						},
						"date": map[string]any{
							"type":        "string",
							"description": "The appointment date in YYYY-MM-DD format.",
						},
						"time": map[string]any{
							"type":        "string",
							"description": "The appointment start time in 24-hour HH:MM format.",
						},
						"durationMinutes": map[string]any{
							"type":        "integer",
							"description": "Duration of the appointment in minutes. Defaults to 60.",
						},
					},
					"required": []string{"title", "date", "time"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        NameCreateOrUpdateClient,
				Description: "Saves or updates the contact information of the client you are talking to.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "The client's full name.",
						},
						"email": map[string]any{
							"type":        "string",
							"description": "The client's email address, if they provided one.",
						},
					},
					"required": []string{"name"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        NameFindClientAppointments,
				Description: "Lists all upcoming appointments of the client you are talking to.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        NameUpdateAppointmentStatus,
				Description: "Changes the status of an existing appointment, for example to confirm, postpone or cancel it. The appointment is identified by its exact date and start time.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date": map[string]any{
							"type":        "string",
							"description": "The date of the existing appointment in YYYY-MM-DD format.",
						},
						"time": map[string]any{
							"type":        "string",
							"description": "The start time of the existing appointment in 24-hour HH:MM format.",
						},
						"newStatus": map[string]any{
							"type":        "string",
							"description": "The new status for the appointment.",
							"enum":        statuses,
						},
					},
					"required": []string{"date", "time", "newStatus"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        NameGetClientInfo,
				Description: "Retrieves the contact information currently on file for the client you are talking to.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
	}
}
