package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/mattdef/miniclaw/internal/memory"
)

// RememberTool appends content to the unpersisted short-term memory buffer.
type RememberTool struct {
	short *memory.ShortTerm
}

// NewRememberTool builds a RememberTool backed by short.
func NewRememberTool(short *memory.ShortTerm) *RememberTool {
	return &RememberTool{short: short}
}

func (t *RememberTool) Name() string { return "remember" }
func (t *RememberTool) Description() string {
	return "Keep a short note in working memory for the rest of this conversation; it is not persisted to disk"
}
func (t *RememberTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{"type": "string", "description": "The note to remember for this conversation"},
		},
		"required": []interface{}{"content"},
	}
}

func (t *RememberTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	content, ok := requireStringArg(args, "content")
	if !ok || strings.TrimSpace(content) == "" {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'content'")
	}
	t.short.Add(content)
	return "Noted.", nil
}

// RecallTool lists the entries currently held in short-term memory.
type RecallTool struct {
	short *memory.ShortTerm
}

// NewRecallTool builds a RecallTool backed by short.
func NewRecallTool(short *memory.ShortTerm) *RecallTool {
	return &RecallTool{short: short}
}

func (t *RecallTool) Name() string        { return "recall" }
func (t *RecallTool) Description() string { return "List everything currently held in working memory for this conversation" }
func (t *RecallTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []interface{}{},
	}
}

func (t *RecallTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	entries := t.short.Entries()
	if len(entries) == 0 {
		return "Working memory is empty.", nil
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
