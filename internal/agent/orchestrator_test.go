package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/danwerth/opshub/internal/db"
	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/models"
	"github.com/danwerth/opshub/internal/tools"
)

type fakeAgentStore struct {
	conv      *models.Conversation
	config    *models.AIConfig
	configErr error
	files     []models.KnowledgeFile

	appended []models.Message
}

func (f *fakeAgentStore) AppendMessages(ctx context.Context, id string, unread bool, msgs ...models.Message) (*models.Conversation, error) {
	f.appended = append(f.appended, msgs...)
	f.conv.Messages = append(f.conv.Messages, msgs...)
	f.conv.Unread = unread
	return f.conv, nil
}

func (f *fakeAgentStore) GetAIConfig(ctx context.Context) (*models.AIConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeAgentStore) ListKnowledgeFiles(ctx context.Context) ([]models.KnowledgeFile, error) {
	return f.files, nil
}

// fakeModel replays scripted replies and records each request it saw.
type fakeModel struct {
	replies []*llm.Reply
	err     error

	requests []llm.Request
}

func (f *fakeModel) Generate(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.requests) > len(f.replies) {
		return nil, fmt.Errorf("unexpected generation round %d", len(f.requests))
	}
	return f.replies[len(f.requests)-1], nil
}

type fakeRunner struct {
	results   map[string]tools.Result
	calls     []llm.ToolCall
	clientIDs []string
}

func (f *fakeRunner) Execute(ctx context.Context, clientID string, call llm.ToolCall) tools.Result {
	f.calls = append(f.calls, call)
	f.clientIDs = append(f.clientIDs, clientID)
	res, ok := f.results[call.Name]
	if !ok {
		return tools.Result{Name: call.Name, OK: false, Err: "unexpected tool"}
	}
	return res
}

type nopNotifier struct {
	types []models.NotificationType
}

func (n *nopNotifier) Notify(ctx context.Context, typ models.NotificationType, message, link string) {
	n.types = append(n.types, typ)
}

func newTestOrchestrator(store *fakeAgentStore, model *fakeModel, runner *fakeRunner) (*Orchestrator, *nopNotifier) {
	notifier := &nopNotifier{}
	o := NewOrchestrator(store, model, runner, notifier, Options{
		HistoryWindow: 20,
		ToolLoopLimit: 6,
		TurnTimeout:   90 * time.Second,
	}, slog.New(slog.DiscardHandler))
	return o, notifier
}

func newConv() *models.Conversation {
	return &models.Conversation{
		ID:       surrealmodels.NewRecordID("conversation", "conv1"),
		ClientID: surrealmodels.NewRecordID("client", "c1"),
		Channel:  string(models.ChannelWhatsApp),
	}
}

func TestRespondPlainText(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{KnowledgeBase: "We open at 9am."}}
	model := &fakeModel{replies: []*llm.Reply{{Text: "We open at 9am, see you then!"}}}
	o, notifier := newTestOrchestrator(store, model, &fakeRunner{})

	msg, err := o.Respond(context.Background(), "conv1", "When do you open?")
	require.NoError(t, err)

	assert.Equal(t, "We open at 9am, see you then!", msg.Text)
	assert.True(t, msg.IsAI)
	assert.Equal(t, models.SenderAI, msg.Sender)
	assert.Nil(t, msg.ToolCallResult)

	require.Len(t, store.appended, 2, "inbound + reply")
	assert.Equal(t, models.SenderClient, store.appended[0].Sender)
	assert.True(t, store.conv.Unread)
	assert.Equal(t, []models.NotificationType{models.NotifyNewMessage}, notifier.types)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.Equal(t, "When do you open?", req.Message)
	assert.Equal(t, "We open at 9am.", req.KnowledgeBase)
	assert.Empty(t, req.History, "first message has no prior turns")
	assert.NotEmpty(t, req.Tools)
}

func TestRespondRunsToolLoop(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{}}
	model := &fakeModel{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "call-1", Name: tools.NameBookAppointment, Arguments: []byte(`{"title":"Haircut","date":"2026-09-14","time":"10:00"}`)}}},
		{Text: "You're booked for Monday at 10am."},
	}}
	runner := &fakeRunner{results: map[string]tools.Result{
		tools.NameBookAppointment: {
			Name:    tools.NameBookAppointment,
			Args:    map[string]any{"title": "Haircut"},
			OK:      true,
			Summary: "Appointment booked.",
		},
	}}
	o, _ := newTestOrchestrator(store, model, runner)

	msg, err := o.Respond(context.Background(), "conv1", "Book me Monday 10am")
	require.NoError(t, err)

	assert.Equal(t, "You're booked for Monday at 10am.", msg.Text)
	require.NotNil(t, msg.ToolCallResult)
	assert.Equal(t, tools.NameBookAppointment, msg.ToolCallResult.ToolName)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"c1"}, runner.clientIDs, "tools run as the conversation's client")

	// Tool turns are request-scoped: the log only gains the two messages.
	require.Len(t, store.appended, 2)

	// Second round carries the user turn, the tool call and its result.
	require.Len(t, model.requests, 2)
	second := model.requests[1]
	assert.Empty(t, second.Message)
	require.Len(t, second.History, 3)
	assert.Equal(t, llm.RoleUser, second.History[0].Role)
	assert.Equal(t, llm.RoleModel, second.History[1].Role)
	assert.Equal(t, llm.RoleTool, second.History[2].Role)
	assert.Contains(t, second.History[2].ToolResults[0].Content, "Appointment booked.")
}

func TestRespondRecordsLookupToolMetadata(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{}}
	model := &fakeModel{replies: []*llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "call-1", Name: tools.NameFindClientAppointments, Arguments: []byte(`{}`)}}},
		{Text: "You have one appointment next week."},
	}}
	runner := &fakeRunner{results: map[string]tools.Result{
		tools.NameFindClientAppointments: {
			Name:    tools.NameFindClientAppointments,
			Args:    map[string]any{"limit": float64(5)},
			OK:      true,
			Summary: "1 appointment",
		},
	}}
	o, _ := newTestOrchestrator(store, model, runner)

	msg, err := o.Respond(context.Background(), "conv1", "What do I have booked?")
	require.NoError(t, err)

	// Lookups are surfaced on the reply too; the dashboard renders every
	// executed tool, not just the state-changing ones.
	require.NotNil(t, msg.ToolCallResult)
	assert.Equal(t, tools.NameFindClientAppointments, msg.ToolCallResult.ToolName)
	assert.Equal(t, map[string]any{"limit": float64(5)}, msg.ToolCallResult.ToolArgs)
}

func TestRespondModelFailureSavesFallback(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{}}
	model := &fakeModel{err: errors.New("upstream 500")}
	o, _ := newTestOrchestrator(store, model, &fakeRunner{})

	msg, err := o.Respond(context.Background(), "conv1", "Hello?")
	require.Error(t, err)

	require.NotNil(t, msg)
	assert.Equal(t, FallbackReply, msg.Text)
	require.Len(t, store.appended, 2, "inbound and fallback are both durable")
	assert.Equal(t, FallbackReply, store.appended[1].Text)
}

func TestRespondMissingConfig(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), configErr: db.ErrConfigMissing}
	o, _ := newTestOrchestrator(store, &fakeModel{}, &fakeRunner{})

	msg, err := o.Respond(context.Background(), "conv1", "Hello?")
	require.ErrorIs(t, err, db.ErrConfigMissing)
	assert.Nil(t, msg, "an unconfigured agent produces no reply")

	// The inbound message survives the failed turn, but no fallback is
	// written: the log holds the client message alone.
	require.Len(t, store.appended, 1)
	assert.Equal(t, models.SenderClient, store.appended[0].Sender)
	assert.Equal(t, "Hello?", store.appended[0].Text)
}

func TestRespondToolLoopCap(t *testing.T) {
	loop := &llm.Reply{ToolCalls: []llm.ToolCall{{ID: "c", Name: tools.NameGetClientInfo, Arguments: []byte(`{}`)}}}
	replies := make([]*llm.Reply, 10)
	for i := range replies {
		replies[i] = loop
	}
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{}}
	model := &fakeModel{replies: replies}
	runner := &fakeRunner{results: map[string]tools.Result{
		tools.NameGetClientInfo: {Name: tools.NameGetClientInfo, OK: true, Summary: "info"},
	}}
	o, _ := newTestOrchestrator(store, model, runner)

	msg, err := o.Respond(context.Background(), "conv1", "loop forever")
	require.Error(t, err)
	assert.Len(t, model.requests, 6)
	assert.Equal(t, FallbackReply, msg.Text)
}

func TestRespondAppliesHistoryWindow(t *testing.T) {
	conv := newConv()
	for i := 0; i < 30; i++ {
		sender := models.SenderClient
		if i%2 == 1 {
			sender = models.SenderAI
		}
		conv.Messages = append(conv.Messages, models.Message{
			ID:     fmt.Sprintf("m%d", i),
			Sender: sender,
			Text:   fmt.Sprintf("message %d", i),
		})
	}
	store := &fakeAgentStore{conv: conv, config: &models.AIConfig{}}
	model := &fakeModel{replies: []*llm.Reply{{Text: "ok"}}}
	o, _ := newTestOrchestrator(store, model, &fakeRunner{})

	_, err := o.Respond(context.Background(), "conv1", "latest")
	require.NoError(t, err)

	// The window covers the appended inbound message, which is then lifted
	// into the request message slot: 19 prior turns remain.
	req := model.requests[0]
	require.Len(t, req.History, 19)
	assert.Equal(t, "message 11", req.History[0].Text, "oldest turns are dropped")
	assert.Equal(t, "message 29", req.History[18].Text)
	assert.Equal(t, "latest", req.Message)
}

func TestRespondEvictsConversationLock(t *testing.T) {
	store := &fakeAgentStore{conv: newConv(), config: &models.AIConfig{}}
	model := &fakeModel{replies: []*llm.Reply{{Text: "hi"}, {Text: "hi again"}}}
	o, _ := newTestOrchestrator(store, model, &fakeRunner{})

	_, err := o.Respond(context.Background(), "conv1", "first")
	require.NoError(t, err)

	o.mu.Lock()
	assert.Empty(t, o.locks, "idle conversations hold no lock entry")
	o.mu.Unlock()

	// A later turn on the same conversation still serializes fine.
	_, err = o.Respond(context.Background(), "conv1", "second")
	require.NoError(t, err)

	o.mu.Lock()
	assert.Empty(t, o.locks)
	o.mu.Unlock()
}

func TestHistoryTurnsRoles(t *testing.T) {
	turns := historyTurns([]models.Message{
		{Sender: models.SenderClient, Text: "hi"},
		{Sender: models.SenderOperator, Text: "hello from the desk"},
		{Sender: models.SenderAI, Text: "hello from the bot"},
	}, 20)

	require.Len(t, turns, 3)
	assert.Equal(t, llm.RoleUser, turns[0].Role)
	assert.Equal(t, llm.RoleModel, turns[1].Role, "operator speaks with the model's voice")
	assert.Equal(t, llm.RoleModel, turns[2].Role)
}
