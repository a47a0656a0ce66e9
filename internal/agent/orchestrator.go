// Package agent runs the conversational loop: persist the inbound client
// message, assemble context for the model, resolve tool calls, and persist
// the final AI reply.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danwerth/opshub/internal/db"
	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/models"
	"github.com/danwerth/opshub/internal/tools"
)

// FallbackReply is sent to the client when a turn cannot be completed.
const FallbackReply = "Sorry, I'm having trouble responding right now. A team member will get back to you shortly."

// Store is the slice of the domain store the orchestrator needs.
type Store interface {
	AppendMessages(ctx context.Context, id string, unread bool, msgs ...models.Message) (*models.Conversation, error)
	GetAIConfig(ctx context.Context) (*models.AIConfig, error)
	ListKnowledgeFiles(ctx context.Context) ([]models.KnowledgeFile, error)
}

// Generator produces one model reply for a request.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Reply, error)
}

// ToolRunner executes a single tool call on behalf of a client.
type ToolRunner interface {
	Execute(ctx context.Context, clientID string, call llm.ToolCall) tools.Result
}

// Options bound a single agent turn.
type Options struct {
	HistoryWindow int
	ToolLoopLimit int
	TurnTimeout   time.Duration
}

// Orchestrator serializes turns per conversation and drives the
// generate/execute loop until the model produces text.
type Orchestrator struct {
	store    Store
	model    Generator
	runner   ToolRunner
	notifier tools.Notifier
	opts     Options
	logger   *slog.Logger

	// readFile is swappable in tests.
	readFile func(string) ([]byte, error)

	mu    sync.Mutex
	locks map[string]*convLock
}

// convLock is a per-conversation mutex with a waiter count so idle entries
// can be evicted from the lock table.
type convLock struct {
	sync.Mutex
	refs int
}

func NewOrchestrator(store Store, model Generator, runner ToolRunner, notifier tools.Notifier, opts Options, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		model:    model,
		runner:   runner,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		readFile: os.ReadFile,
		locks:    map[string]*convLock{},
	}
}

// lock returns the per-conversation mutex, creating it on first use and
// counting the caller as a waiter.
func (o *Orchestrator) lock(conversationID string) *convLock {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[conversationID]
	if !ok {
		l = &convLock{}
		o.locks[conversationID] = l
	}
	l.refs++
	return l
}

// unlock releases the mutex and drops the table entry once no turn holds
// or waits on it, so the table does not grow with conversation count.
func (o *Orchestrator) unlock(conversationID string, l *convLock) {
	l.Unlock()
	o.mu.Lock()
	defer o.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(o.locks, conversationID)
	}
}

// Respond handles one inbound client message: it persists the message,
// generates an AI reply (running tools as requested), persists that reply
// and returns it. The inbound message is durable even when generation
// fails; in that case the persisted reply is the fallback text, except
// when the agent has never been configured, which leaves no reply at all.
func (o *Orchestrator) Respond(ctx context.Context, conversationID, text string) (*models.Message, error) {
	l := o.lock(conversationID)
	l.Lock()
	defer o.unlock(conversationID, l)

	if o.opts.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TurnTimeout)
		defer cancel()
	}

	inbound := models.Message{
		ID:        uuid.NewString(),
		Sender:    models.SenderClient,
		Text:      text,
		Timestamp: time.Now(),
	}
	conv, err := o.store.AppendMessages(ctx, conversationID, true, inbound)
	if err != nil {
		return nil, fmt.Errorf("persist inbound message: %w", err)
	}

	reply, toolResult, genErr := o.generate(ctx, conv, text)
	if genErr != nil {
		o.logger.Error("agent turn failed",
			"conversation_id", conversationID,
			"error", genErr)
		// Without a configured agent there is nothing to say: the client
		// message stays in the log and no AI reply is written.
		if errors.Is(genErr, db.ErrConfigMissing) {
			return nil, genErr
		}
		reply = FallbackReply
		toolResult = nil
	}

	aiMsg := models.Message{
		ID:             uuid.NewString(),
		Sender:         models.SenderAI,
		Text:           reply,
		Timestamp:      time.Now(),
		IsAI:           true,
		ToolCallResult: toolResult,
	}
	if _, err := o.store.AppendMessages(ctx, conversationID, true, aiMsg); err != nil {
		return nil, fmt.Errorf("persist agent reply: %w", err)
	}

	o.notifier.Notify(ctx, models.NotifyNewMessage,
		fmt.Sprintf("New message in conversation %s", conversationID),
		"/conversations/"+conversationID)

	if genErr != nil {
		return &aiMsg, genErr
	}
	return &aiMsg, nil
}

// generate runs the model/tool loop. It returns the final text and, when
// any tool ran, a record of the last executed call for the message
// metadata.
func (o *Orchestrator) generate(ctx context.Context, conv *models.Conversation, text string) (string, *models.ToolCallResult, error) {
	cfg, err := o.store.GetAIConfig(ctx)
	if err != nil {
		if errors.Is(err, db.ErrConfigMissing) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("load agent config: %w", err)
	}

	clientID := models.MustRecordIDString(conv.ClientID)

	// The window covers the log as stored, just-appended inbound message
	// included; that message is then lifted out of the history so it only
	// appears as the current request message.
	history := historyTurns(conv.Messages, o.opts.HistoryWindow)
	if n := len(history); n > 0 && history[n-1].Role == llm.RoleUser {
		history = history[:n-1]
	}

	req := llm.Request{
		KnowledgeBase: cfg.KnowledgeBase,
		History:       history,
		Message:       text,
		Attachments:   o.loadAttachments(ctx),
		Tools:         tools.Catalog(),
		Now:           time.Now(),
	}

	var lastCall *models.ToolCallResult
	for i := 0; i < o.opts.ToolLoopLimit; i++ {
		reply, err := o.model.Generate(ctx, req)
		if err != nil {
			return "", nil, err
		}
		if !reply.IsToolCall() {
			return reply.Text, lastCall, nil
		}

		modelTurn := llm.Turn{Role: llm.RoleModel, Text: reply.Text, ToolCalls: reply.ToolCalls}
		toolTurn := llm.Turn{Role: llm.RoleTool}
		for _, call := range reply.ToolCalls {
			res := o.runner.Execute(ctx, clientID, call)
			o.logger.Info("tool executed",
				"tool", call.Name,
				"ok", res.OK,
				"conversation_id", models.MustRecordIDString(conv.ID))
			lastCall = &models.ToolCallResult{ToolName: res.Name, ToolArgs: res.Args}
			toolTurn.ToolResults = append(toolTurn.ToolResults, llm.ToolResult{
				CallID:  call.ID,
				Name:    call.Name,
				Content: res.Payload(),
			})
		}

		// Tool turns live only in this request; the conversation log keeps
		// just the final text.
		if req.Message != "" {
			req.History = append(req.History, llm.Turn{Role: llm.RoleUser, Text: req.Message})
			req.Message = ""
			req.Attachments = nil
		}
		req.History = append(req.History, modelTurn, toolTurn)
	}

	return "", nil, fmt.Errorf("tool loop exceeded %d rounds", o.opts.ToolLoopLimit)
}

// loadAttachments reads the uploaded knowledge files. Unreadable files are
// skipped: a missing document must not block the conversation.
func (o *Orchestrator) loadAttachments(ctx context.Context) []llm.Attachment {
	files, err := o.store.ListKnowledgeFiles(ctx)
	if err != nil {
		o.logger.Warn("listing knowledge files failed", "error", err)
		return nil
	}
	var atts []llm.Attachment
	for _, f := range files {
		data, err := o.readFile(f.Path)
		if err != nil {
			o.logger.Warn("skipping unreadable knowledge file", "file", f.Name, "error", err)
			continue
		}
		atts = append(atts, llm.Attachment{Name: f.Name, MIMEType: f.MimeType, Data: data})
	}
	return atts
}
