package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mattdef/miniclaw/internal/memory"
)

// MemoryTool lets the agent write to long-term memory (MEMORY.md) or a
// daily note.
type MemoryTool struct {
	store *memory.Store
}

// NewMemoryTool builds a MemoryTool backed by store.
func NewMemoryTool(store *memory.Store) *MemoryTool {
	return &MemoryTool{store: store}
}

func (t *MemoryTool) Name() string { return "write_memory" }
func (t *MemoryTool) Description() string {
	return "Write information to memory (long-term or daily notes)"
}
func (t *MemoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{"type": "string", "description": "The content to write to memory"},
			"type": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"long_term", "daily"},
				"description": "Type of memory to write (long_term for MEMORY.md, daily for YYYY-MM-DD.md)",
				"default":     "long_term",
			},
		},
		"required": []interface{}{"content"},
	}
}

func (t *MemoryTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	content, ok := requireStringArg(args, "content")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'content'")
	}

	kindStr, _ := requireStringArg(args, "type")
	if kindStr == "" {
		kindStr = "long_term"
	}

	var (
		path string
		err  *memory.StoreError
		msg  string
	)
	switch kindStr {
	case "long_term":
		path, err = t.store.AppendToMemory(content)
		msg = "Memory updated"
	case "daily":
		path, err = t.store.CreateDailyNote(content)
		msg = "Daily note created"
	default:
		return "", InvalidArgumentsError(t.Name(), fmt.Sprintf("invalid memory type: %q. Must be 'long_term' or 'daily'", kindStr))
	}

	if err != nil {
		return "", mapMemoryError(t.Name(), err)
	}

	response, _ := json.Marshal(map[string]interface{}{
		"success":   true,
		"message":   msg,
		"file_path": path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	return string(response), nil
}

func mapMemoryError(toolName string, err *memory.StoreError) *ToolError {
	switch err.Kind {
	case memory.ErrInvalidContent:
		return InvalidArgumentsError(toolName, err.Message)
	case memory.ErrPathValidationFailed:
		return PermissionDeniedError(toolName, err.Message)
	case memory.ErrFileNotFound:
		return ExecutionFailedError(toolName, err.Error())
	default:
		return ExecutionFailedError(toolName, err.Error())
	}
}
