package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattdef/miniclaw/internal/memory"
	"github.com/mattdef/miniclaw/internal/session"
	"github.com/mattdef/miniclaw/internal/tools"
)

func TestBuildSystemPromptIncludesBootstrapFile(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "SOUL.md"), []byte("Be concise."), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cb := NewContextBuilder(workspace, tools.NewRegistry(), memory.NewStore(workspace))
	prompt := cb.BuildSystemPrompt()

	if !strings.Contains(prompt, "Be concise.") {
		t.Fatalf("expected system prompt to include SOUL.md content, got: %s", prompt)
	}
	if !strings.Contains(prompt, "## SOUL.md") {
		t.Fatalf("expected a SOUL.md section heading, got: %s", prompt)
	}
}

func TestBuildSystemPromptOmitsMissingBootstrapFiles(t *testing.T) {
	workspace := t.TempDir()
	cb := NewContextBuilder(workspace, tools.NewRegistry(), memory.NewStore(workspace))
	prompt := cb.BuildSystemPrompt()

	for _, name := range bootstrapFiles {
		if strings.Contains(prompt, "## "+name) {
			t.Fatalf("expected no section for missing file %s, got: %s", name, prompt)
		}
	}
}

func TestBuildSystemPromptListsRegisteredTools(t *testing.T) {
	workspace := t.TempDir()
	registry := tools.NewRegistry()
	if err := registry.Register(echoTool{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	cb := NewContextBuilder(workspace, registry, memory.NewStore(workspace))
	prompt := cb.BuildSystemPrompt()

	if !strings.Contains(prompt, "echo") {
		t.Fatalf("expected the echo tool to be listed in the prompt, got: %s", prompt)
	}
}

func TestBuildMessagesAppendsHistoryThenCurrentTurn(t *testing.T) {
	workspace := t.TempDir()
	cb := NewContextBuilder(workspace, tools.NewRegistry(), memory.NewStore(workspace))

	history := []session.Message{
		session.NewMessage("user", "earlier question"),
		session.NewMessage("assistant", "earlier answer"),
	}

	messages := cb.BuildMessages(history, "", "current question", "cli", "user1")

	if messages[0].Role != "system" {
		t.Fatalf("expected first message to be the system prompt, got role %q", messages[0].Role)
	}
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages (system + 2 history + current), got %d", len(messages))
	}
	last := messages[len(messages)-1]
	if last.Role != "user" || last.Content != "current question" {
		t.Fatalf("expected the current turn to be appended last, got %+v", last)
	}
}

func TestBuildMessagesDropsOrphanedLeadingToolResult(t *testing.T) {
	workspace := t.TempDir()
	cb := NewContextBuilder(workspace, tools.NewRegistry(), memory.NewStore(workspace))

	history := []session.Message{
		session.ToolResultMessage("call-1", "orphaned result"),
		session.NewMessage("user", "a real question"),
	}

	messages := cb.BuildMessages(history, "", "current question", "cli", "user1")

	for _, m := range messages {
		if m.Content == "orphaned result" {
			t.Fatalf("expected the orphaned tool_result to be dropped, got messages: %+v", messages)
		}
	}
}

func TestBuildMessagesTranslatesToolResultRole(t *testing.T) {
	workspace := t.TempDir()
	cb := NewContextBuilder(workspace, tools.NewRegistry(), memory.NewStore(workspace))

	history := []session.Message{
		session.NewMessage("user", "run the echo tool"),
		session.ToolResultMessage("call-1", "ping"),
	}

	messages := cb.BuildMessages(history, "", "and then?", "cli", "user1")

	var found bool
	for _, m := range messages {
		if m.Role == "tool" && m.ToolCallID == "call-1" && m.Content == "ping" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the tool_result history entry to translate into a role=tool message")
	}
}
