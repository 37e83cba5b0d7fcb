package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mattdef/miniclaw/internal/bus"
	"github.com/mattdef/miniclaw/internal/chattypes"
	"github.com/mattdef/miniclaw/internal/circuitbreaker"
	"github.com/mattdef/miniclaw/internal/logger"
	"github.com/mattdef/miniclaw/internal/metrics"
	"github.com/mattdef/miniclaw/internal/providers"
	"github.com/mattdef/miniclaw/internal/session"
	"github.com/mattdef/miniclaw/internal/tools"
)

// thinkTagRe strips <think>...</think> reasoning blocks some models (e.g.
// DeepSeek, MiniMax) emit ahead of their actual answer; these are an
// implementation detail of the model, not part of the reply.
var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

func stripThinkingTags(s string) string {
	return strings.TrimSpace(thinkTagRe.ReplaceAllString(s, ""))
}

// MaxToolIterations bounds how many LLM-tool round trips a single turn may
// take before the loop gives up and returns a capped-out answer (spec §4.3,
// recommended value 8).
const MaxToolIterations = 8

// DefaultToolTimeout bounds a single tool call.
const DefaultToolTimeout = 30 * time.Second

// TurnSoftDeadline bounds an entire turn, from inbound message to outbound
// reply (spec §4.3, recommended value 60s).
const TurnSoftDeadline = 60 * time.Second

// MaxProviderRetries bounds how many times a retryable provider error is
// retried within a single turn.
const MaxProviderRetries = 3

// ProviderRetryCeiling bounds the total time spent retrying a provider call
// within a single turn, regardless of individual retry_after hints.
const ProviderRetryCeiling = 30 * time.Second

// AgentLoop drives the turn algorithm: it consumes inbound messages from a
// ChatHub, builds provider context, runs the bounded tool-calling loop
// against an LLMProvider, and emits the outbound reply.
type AgentLoop struct {
	hub      *bus.ChatHub
	provider providers.LLMProvider
	builder  *ContextBuilder
	registry *tools.Registry
	sessions *session.Manager
	breaker  *circuitbreaker.CircuitBreaker
	metrics  *metrics.Metrics
	model    string
}

// New builds an AgentLoop wired against hub for message routing, provider
// for LLM dispatch, and registry for tool execution. model names the model
// to request from provider on every call (spec §6 config: provider.*.model).
func New(hub *bus.ChatHub, provider providers.LLMProvider, builder *ContextBuilder, registry *tools.Registry, sessions *session.Manager, breaker *circuitbreaker.CircuitBreaker, m *metrics.Metrics, model string) *AgentLoop {
	return &AgentLoop{
		hub:      hub,
		provider: provider,
		builder:  builder,
		registry: registry,
		sessions: sessions,
		breaker:  breaker,
		metrics:  m,
		model:    model,
	}
}

// Run registers the loop as the hub's inbound sink and blocks until ctx is
// canceled. Each inbound message is processed synchronously within the
// hub's dispatch call, matching the hub's single-sink, single-flight
// delivery contract.
func (a *AgentLoop) Run(ctx context.Context) error {
	a.hub.RegisterAgent(func(msg chattypes.InboundMessage) {
		a.handleInbound(ctx, msg)
	})
	<-ctx.Done()
	return ctx.Err()
}

// handleInbound processes a single inbound message and emits its reply.
// Per spec §4.3, no error escapes this call: any failure is logged and
// turned into a user-visible error reply instead.
func (a *AgentLoop) handleInbound(ctx context.Context, msg chattypes.InboundMessage) {
	reply, err := a.ProcessMessage(ctx, msg)
	if err != nil {
		logger.ErrorCF("agent", "turn failed", map[string]interface{}{
			"channel": msg.Channel, "chat_id": msg.ChatID, "error": err.Error(),
		})
		reply = "Sorry, I ran into a problem answering that. Please try again."
	}

	out := chattypes.NewOutboundMessage(msg.Channel, msg.ChatID, reply)
	if id, ok := msg.Metadata["message_id"].(string); ok && id != "" {
		out = out.WithReplyTo(id)
	}
	a.hub.SendOutbound(out)
}

// ProcessMessage runs one full turn for msg: session resolution, context
// assembly, the bounded tool-calling loop, and session persistence. It
// returns the final assistant reply, or an error if a non-retryable
// provider failure aborted the turn.
func (a *AgentLoop) ProcessMessage(ctx context.Context, msg chattypes.InboundMessage) (string, error) {
	start := time.Now()
	turnCtx, cancel := context.WithTimeout(ctx, TurnSoftDeadline)
	defer cancel()

	sess := a.sessions.GetOrCreate(msg.Channel, msg.ChatID)
	history := make([]session.Message, len(sess.Messages))
	copy(history, sess.Messages)

	if err := a.sessions.AddMessage(msg.Channel, msg.ChatID, session.NewMessage("user", msg.Content)); err != nil {
		logger.WarnCF("agent", "failed to persist user message", map[string]interface{}{"error": err.Error()})
	}

	messages := a.builder.BuildMessages(history, "", msg.Content, msg.Channel, msg.ChatID)
	toolDefs := convertToolDefinitions(a.registry.Definitions())

	reply, err := a.runToolLoop(turnCtx, messages, toolDefs, msg.Channel, msg.ChatID)
	if err != nil {
		return "", err
	}

	if err := a.sessions.AddMessage(msg.Channel, msg.ChatID, session.NewMessage("assistant", reply)); err != nil {
		logger.WarnCF("agent", "failed to persist assistant message", map[string]interface{}{"error": err.Error()})
	}

	a.metrics.Record(time.Since(start))
	return reply, nil
}

// runToolLoop drives the LLM-tool round trips for a single turn, up to
// MaxToolIterations. It returns the model's terminal answer, or a
// capped-out message if the iteration budget is exhausted first.
func (a *AgentLoop) runToolLoop(ctx context.Context, messages []providers.Message, toolDefs []providers.ToolDefinition, channel, chatID string) (string, error) {
	for iter := 0; iter < MaxToolIterations; iter++ {
		resp, err := a.callProvider(ctx, messages, toolDefs)
		if err != nil {
			return "", err
		}

		resp.Content = stripThinkingTags(resp.Content)

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		assistantMsg := providers.Message{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls}
		messages = append(messages, assistantMsg)

		sessionToolCalls := make([]session.ToolCall, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			argsJSON, _ := json.Marshal(tc.Arguments)
			sessionToolCalls = append(sessionToolCalls, session.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: string(argsJSON)})
		}
		if err := a.sessions.AddMessage(channel, chatID, session.NewMessage("assistant", resp.Content).WithToolCalls(sessionToolCalls)); err != nil {
			logger.WarnCF("agent", "failed to persist tool-call message", map[string]interface{}{"error": err.Error()})
		}

		for _, tc := range resp.ToolCalls {
			result := a.executeTool(ctx, tc, channel, chatID)
			messages = append(messages, providers.Message{Role: "tool", Content: result, ToolCallID: tc.ID})
			if err := a.sessions.AddMessage(channel, chatID, session.ToolResultMessage(tc.ID, result)); err != nil {
				logger.WarnCF("agent", "failed to persist tool result", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return "I wasn't able to finish that within the allotted number of tool calls. Could you narrow the request down?", nil
}

// executeTool resolves, validates, and runs a single requested tool call,
// always returning a result string suitable for feeding back to the model.
// Tool failures of any kind are folded into that string rather than
// propagated, since per spec §4.3 a tool error never aborts the turn.
func (a *AgentLoop) executeTool(ctx context.Context, tc providers.ToolCall, channel, chatID string) string {
	tool, ok := a.registry.Get(tc.Name)
	if !ok {
		return (&toolFailure{Name: tc.Name, Message: fmt.Sprintf("unknown tool: %s", tc.Name)}).String()
	}

	if toolErr := tools.ValidateArgsAgainstSchema(tc.Arguments, tool.Parameters(), tc.Name); toolErr != nil {
		return (&toolFailure{Name: tc.Name, Message: toolErr.Error()}).String()
	}

	toolCtx, cancel := context.WithTimeout(ctx, DefaultToolTimeout)
	defer cancel()

	result, toolErr := tool.Execute(toolCtx, tc.Arguments, tools.ExecutionContext{Channel: channel, ChatID: chatID})
	if toolErr != nil {
		logger.WarnCF("agent", "tool execution failed", map[string]interface{}{
			"tool": tc.Name, "kind": toolErr.Kind, "error": toolErr.Message,
		})
		return (&toolFailure{Name: tc.Name, Message: toolErr.Error()}).String()
	}
	return result
}

// toolFailure is the JSON shape returned to the model in place of a tool's
// normal output when execution could not complete.
type toolFailure struct {
	Name    string `json:"tool"`
	Message string `json:"error"`
}

func (f *toolFailure) String() string {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("tool %q failed: %s", f.Name, f.Message)
	}
	return string(data)
}

// callProvider dispatches a single Chat call, gated by the circuit breaker
// and retried on retryable errors up to MaxProviderRetries times or until
// ProviderRetryCeiling elapses, whichever comes first. Non-retryable errors
// (auth, invalid request) abort the turn immediately.
func (a *AgentLoop) callProvider(ctx context.Context, messages []providers.Message, toolDefs []providers.ToolDefinition) (*providers.LLMResponse, error) {
	deadline := time.Now().Add(ProviderRetryCeiling)

	var lastErr error
	for attempt := 0; attempt <= MaxProviderRetries; attempt++ {
		if !a.breaker.CanCall() {
			return nil, fmt.Errorf("provider %s: circuit open", a.breaker.ServiceName())
		}

		resp, err := a.provider.Chat(ctx, messages, toolDefs, a.model, nil)
		if err == nil {
			a.breaker.RecordSuccess()
			return resp, nil
		}

		a.breaker.RecordFailure()
		lastErr = err

		provErr, ok := err.(*providers.ProviderError)
		if !ok || !provErr.IsRetryable() || attempt == MaxProviderRetries || time.Now().After(deadline) {
			return nil, err
		}

		delaySeconds, _ := provErr.RetryAfterSeconds()
		delay := time.Duration(delaySeconds) * time.Second
		logger.WarnCF("agent", "retrying provider call", map[string]interface{}{
			"attempt": attempt + 1, "delay_seconds": delaySeconds, "error": err.Error(),
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// convertToolDefinitions maps the tool registry's wire shape onto the
// provider package's identical wire shape.
func convertToolDefinitions(defs []tools.Definition) []providers.ToolDefinition {
	out := make([]providers.ToolDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, providers.ToolDefinition{
			Type: d.Type,
			Function: providers.FunctionDefinition{
				Name:        d.Function.Name,
				Description: d.Function.Description,
				Parameters:  d.Function.Parameters,
			},
		})
	}
	return out
}
