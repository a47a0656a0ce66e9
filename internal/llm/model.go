// Package llm adapts hosted language models behind a single stateless
// generate call: history in, text or tool calls out.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/danwerth/opshub/internal/config"
)

const temperature = 0.7

// Role identifies who a conversation turn is attributed to on the wire.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is a structured request from the model naming a catalog
// operation. Arguments stay raw; the executor validates them.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is a synthetic turn feeding an execution result back to the
// model so it can continue or answer.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

// Turn is one projected conversation entry passed to the model.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// Attachment is a knowledge file inlined into the request.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Request carries everything a single stateless generate call needs.
type Request struct {
	KnowledgeBase string
	History       []Turn
	Message       string
	Attachments   []Attachment
	Tools         []llms.Tool
	Now           time.Time
}

// Reply is the normalized model response: either final text or one or more
// tool calls.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
}

// IsToolCall reports whether the model asked for a tool instead of text.
func (r *Reply) IsToolCall() bool {
	return len(r.ToolCalls) > 0
}

// Model wraps a langchaingo LLM for conversational generation.
type Model struct {
	llm       llms.Model
	provider  config.Provider
	modelName string
}

// NewModel creates an LLM model based on configuration. A missing
// credential for the selected provider surfaces ErrNotConfigured.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY", ErrNotConfigured)
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GoogleAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrNotConfigured)
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrNotConfigured)
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		provider:  cfg.LLMProvider,
		modelName: cfg.LLMModel,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Generate runs one stateless model call. All conversational state is
// passed in; the reply is either text or tool calls, never both empty.
func (m *Model) Generate(ctx context.Context, req Request) (*Reply, error) {
	messages := BuildMessages(req)

	resp, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTools(req.Tools),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		return nil, &ServiceError{Provider: string(m.provider), Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ServiceError{Provider: string(m.provider), Err: fmt.Errorf("no response choices")}
	}

	return normalizeChoice(resp.Choices[0]), nil
}

// BuildMessages projects a Request into langchaingo message contents:
// system prompt first, then history, then the current user turn with any
// file attachments inlined.
func BuildMessages(req Request) []llms.MessageContent {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, BuildSystemPrompt(req.KnowledgeBase, now)),
	}

	for _, turn := range req.History {
		messages = append(messages, turnToMessage(turn))
	}

	// The current user turn carries the attachments. An empty message with
	// no attachments still produces a turn so the model can continue after
	// tool results.
	userParts := []llms.ContentPart{}
	if req.Message != "" {
		userParts = append(userParts, llms.TextContent{Text: req.Message})
	}
	for _, att := range req.Attachments {
		userParts = append(userParts, llms.BinaryPart(att.MIMEType, att.Data))
	}
	if len(userParts) > 0 {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeHuman,
			Parts: userParts,
		})
	}

	return messages
}

func turnToMessage(turn Turn) llms.MessageContent {
	switch turn.Role {
	case RoleUser:
		return llms.TextParts(llms.ChatMessageTypeHuman, turn.Text)

	case RoleTool:
		parts := make([]llms.ContentPart, 0, len(turn.ToolResults))
		for _, res := range turn.ToolResults {
			parts = append(parts, llms.ToolCallResponse{
				ToolCallID: res.CallID,
				Name:       res.Name,
				Content:    res.Content,
			})
		}
		return llms.MessageContent{Role: llms.ChatMessageTypeTool, Parts: parts}

	default: // RoleModel
		if len(turn.ToolCalls) == 0 {
			return llms.TextParts(llms.ChatMessageTypeAI, turn.Text)
		}
		parts := []llms.ContentPart{}
		if turn.Text != "" {
			parts = append(parts, llms.TextContent{Text: turn.Text})
		}
		for _, call := range turn.ToolCalls {
			parts = append(parts, llms.ToolCall{
				ID:   call.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      call.Name,
					Arguments: string(call.Arguments),
				},
			})
		}
		return llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts}
	}
}

func normalizeChoice(choice *llms.ContentChoice) *Reply {
	reply := &Reply{Text: choice.Content}
	for _, call := range choice.ToolCalls {
		if call.FunctionCall == nil {
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.FunctionCall.Name,
			Arguments: json.RawMessage(call.FunctionCall.Arguments),
		})
	}
	return reply
}
