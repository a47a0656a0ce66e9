package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/metrics"
)

// Result is the outcome of one tool invocation. Summary carries the
// human-readable confirmation the model is expected to relay; Data carries
// structured details it may draw on.
type Result struct {
	Name    string
	Args    map[string]any
	OK      bool
	Summary string
	Data    map[string]any
	Err     string
}

// Payload renders the result as the JSON document fed back to the model.
func (r Result) Payload() string {
	doc := map[string]any{"ok": r.OK}
	if r.OK {
		doc["summary"] = r.Summary
		if len(r.Data) > 0 {
			doc["data"] = r.Data
		}
	} else {
		doc["error"] = r.Err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return `{"ok":false,"error":"internal error"}`
	}
	return string(b)
}

// Executor dispatches model tool calls to their handlers. All calls run on
// behalf of a single client, the one the conversation belongs to.
type Executor struct {
	deps Dependencies
}

func NewExecutor(deps Dependencies) *Executor {
	return &Executor{deps: deps}
}

// Execute runs one tool call. It never returns an error: failures are
// reported inside the Result so the model can recover in-conversation.
func (e *Executor) Execute(ctx context.Context, clientID string, call llm.ToolCall) Result {
	res := Result{Name: call.Name, Args: decodeArgs(call.Arguments)}

	var err error
	switch call.Name {
	case NameBookAppointment:
		err = e.bookAppointment(ctx, clientID, call.Arguments, &res)
	case NameCreateOrUpdateClient:
		err = e.createOrUpdateClient(ctx, clientID, call.Arguments, &res)
	case NameFindClientAppointments:
		err = e.findClientAppointments(ctx, clientID, &res)
	case NameUpdateAppointmentStatus:
		err = e.updateAppointmentStatus(ctx, clientID, call.Arguments, &res)
	case NameGetClientInfo:
		err = e.getClientInfo(ctx, clientID, &res)
	default:
		res.Err = fmt.Sprintf("unknown tool %q", call.Name)
		metrics.RecordToolCall(call.Name, "unknown")
		return res
	}

	if err != nil {
		e.deps.Logger.Error("tool failed",
			"tool", call.Name,
			"client_id", clientID,
			"error", err)
		res.OK = false
		if res.Err == "" {
			res.Err = "the operation could not be completed"
		}
		metrics.RecordToolCall(call.Name, "error")
		return res
	}
	res.OK = true
	metrics.RecordToolCall(call.Name, "ok")
	return res
}

func decodeArgs(raw json.RawMessage) map[string]any {
	args := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &args)
	}
	return args
}

// parseLocalDateTime combines a YYYY-MM-DD date and an HH:MM time into a
// timestamp in the server's local zone, matching how appointments are
// stored from the dashboard.
func parseLocalDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, time.Local)
}
