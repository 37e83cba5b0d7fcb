package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mattdef/miniclaw/internal/memory"
)

func TestMemoryToolWritesLongTerm(t *testing.T) {
	store := memory.NewStore(t.TempDir())
	tool := NewMemoryTool(store)

	out, err := tool.Execute(context.Background(), map[string]interface{}{"content": "remember this"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Memory updated") {
		t.Fatalf("expected success message, got %q", out)
	}
}

func TestMemoryToolWritesDaily(t *testing.T) {
	store := memory.NewStore(t.TempDir())
	tool := NewMemoryTool(store)

	out, err := tool.Execute(context.Background(), map[string]interface{}{"content": "today", "type": "daily"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Daily note created") {
		t.Fatalf("expected success message, got %q", out)
	}
}

func TestMemoryToolRejectsInvalidType(t *testing.T) {
	store := memory.NewStore(t.TempDir())
	tool := NewMemoryTool(store)

	_, err := tool.Execute(context.Background(), map[string]interface{}{"content": "x", "type": "weekly"}, ExecutionContext{})
	if err == nil || err.Kind != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestRememberAndRecall(t *testing.T) {
	short := memory.NewShortTerm()
	remember := NewRememberTool(short)
	recall := NewRecallTool(short)

	if _, err := remember.Execute(context.Background(), map[string]interface{}{"content": "call back at 5pm"}, ExecutionContext{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := recall.Execute(context.Background(), map[string]interface{}{}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "call back at 5pm") {
		t.Fatalf("expected recall to include noted content, got %q", out)
	}
}
