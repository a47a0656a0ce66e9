package agent

import (
	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/models"
)

// historyTurns projects a conversation's message log onto model turns.
// Client messages become user turns; operator and AI messages both become
// model turns, so the model sees the business side as its own voice. Only
// the last window turns are kept.
func historyTurns(msgs []models.Message, window int) []llm.Turn {
	turns := make([]llm.Turn, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleModel
		if m.Sender == models.SenderClient {
			role = llm.RoleUser
		}
		turns = append(turns, llm.Turn{Role: role, Text: m.Text})
	}
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	return turns
}
