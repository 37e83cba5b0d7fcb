// Package agent implements the AgentLoop turn algorithm (spec §4.3): the
// context builder that assembles the provider-facing message list, and the
// loop itself that drives the LLM-tool iteration for each inbound message.
package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mattdef/miniclaw/internal/memory"
	"github.com/mattdef/miniclaw/internal/providers"
	"github.com/mattdef/miniclaw/internal/session"
	"github.com/mattdef/miniclaw/internal/skills"
	"github.com/mattdef/miniclaw/internal/tools"
)

// bootstrapFiles are workspace markdown seeds folded into the system
// prompt when present, in this order (spec §6 persisted-state list).
var bootstrapFiles = []string{"SOUL.md", "AGENTS.md", "USER.md", "TOOLS.md", "HEARTBEAT.md"}

// ContextBuilder assembles the provider-facing message list for a turn: a
// system prompt built from workspace markdown seeds, tool/skill summaries,
// and memory context, followed by the session history and the current user
// turn.
type ContextBuilder struct {
	workspace string
	registry  *tools.Registry
	mem       *memory.Store
}

// NewContextBuilder builds a ContextBuilder rooted at workspace.
func NewContextBuilder(workspace string, registry *tools.Registry, mem *memory.Store) *ContextBuilder {
	return &ContextBuilder{workspace: workspace, registry: registry, mem: mem}
}

func (cb *ContextBuilder) identity() string {
	now := time.Now().Format("2006-01-02 15:04 (Monday)")
	workspacePath, _ := filepath.Abs(cb.workspace)
	runtimeInfo := fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())

	return fmt.Sprintf(`# Agent

You are an autonomous AI agent running as a single-host background daemon.
You communicate with the user over whichever channel delivered their
message, and you may act between messages by calling the tools available
to you.

## Current Time
%s

## Runtime
%s

## Workspace
Your workspace is at: %s
- Memory: %s/memory/MEMORY.md
- Daily notes: %s/memory/YYYY-MM-DD.md
- Skills: %s/skills/{skill-name}/SKILL.md

## Rules

1. Use tools to take action. Never claim to have done something you did
   not actually call a tool to do.
2. Keep replies focused on what the user asked; do not narrate your own
   reasoning process.
3. When something worth remembering comes up, write it to memory rather
   than relying on it staying in the conversation window.`,
		now, runtimeInfo, workspacePath, workspacePath, workspacePath, workspacePath)
}

func (cb *ContextBuilder) loadBootstrapFiles() string {
	var sb strings.Builder
	for _, name := range bootstrapFiles {
		data, err := os.ReadFile(filepath.Join(cb.workspace, name))
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", name, string(data))
	}
	return sb.String()
}

func (cb *ContextBuilder) toolsSection() string {
	if cb.registry == nil {
		return ""
	}
	listed := cb.registry.ListTools()
	if len(listed) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Available Tools\n\n")
	for _, t := range listed {
		fmt.Fprintf(&sb, "- **%s**: %s\n", t.Name, t.Description)
	}
	return sb.String()
}

func (cb *ContextBuilder) skillsSection() string {
	ctx, err := skills.Context(cb.workspace)
	if err != nil {
		return ""
	}
	return ctx
}

func (cb *ContextBuilder) memorySection() string {
	if cb.mem == nil {
		return ""
	}
	return cb.mem.Context()
}

// BuildSystemPrompt assembles the full system prompt from identity,
// workspace markdown seeds, tool/skill summaries, and memory context.
func (cb *ContextBuilder) BuildSystemPrompt() string {
	parts := []string{cb.identity()}

	if bootstrap := cb.loadBootstrapFiles(); bootstrap != "" {
		parts = append(parts, bootstrap)
	}
	if toolsSection := cb.toolsSection(); toolsSection != "" {
		parts = append(parts, toolsSection)
	}
	if skillsSection := cb.skillsSection(); skillsSection != "" {
		parts = append(parts, skillsSection)
	}
	if memorySection := cb.memorySection(); memorySection != "" {
		parts = append(parts, memorySection)
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// BuildMessages produces the provider-facing message list: a system prompt,
// the last K messages of history translated into provider messages, and
// the current user turn. Orphaned tool_result entries at the head of
// history (left over from a truncated session) are dropped, since a
// provider Message with role=tool and no matching assistant tool_call
// would be rejected by most providers.
func (cb *ContextBuilder) BuildMessages(history []session.Message, summary, userMessage, channel, chatID string) []providers.Message {
	systemPrompt := cb.BuildSystemPrompt()
	if channel != "" && chatID != "" {
		systemPrompt += fmt.Sprintf("\n\n## Current Session\nChannel: %s\nChat ID: %s", channel, chatID)
	}
	if summary != "" {
		systemPrompt += "\n\n## Summary of Previous Conversation\n\n" + summary
	}

	for len(history) > 0 && history[0].IsToolResult() {
		history = history[1:]
	}

	messages := make([]providers.Message, 0, len(history)+2)
	messages = append(messages, providers.Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, translateSessionMessage(m))
	}
	messages = append(messages, providers.Message{Role: "user", Content: userMessage})

	return messages
}

// translateSessionMessage converts a persisted session.Message into the
// provider wire shape. tool_result entries become role=tool; everything
// else passes through with its role unchanged.
func translateSessionMessage(m session.Message) providers.Message {
	if m.IsToolResult() {
		return providers.Message{Role: "tool", Content: m.Content, ToolCallID: m.ToolCallID}
	}

	msg := providers.Message{Role: m.Role, Content: m.Content}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, providers.ToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: decodeArguments(tc.Arguments),
		})
	}
	return msg
}

// decodeArguments parses a tool call's persisted JSON argument string back
// into a map. A decode failure yields an empty map rather than an error,
// since this only feeds display/re-submission to the provider, not
// execution.
func decodeArguments(raw string) map[string]interface{} {
	if raw == "" {
		return map[string]interface{}{}
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]interface{}{}
	}
	return args
}
