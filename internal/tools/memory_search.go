package tools

import (
	"context"

	"github.com/mattdef/miniclaw/internal/memory"
)

// MemorySearchTool provides semantic search over past conversations and
// knowledge, backed by a VectorStore. It only exists when semantic search
// is enabled and an embedding function could be resolved from config.
type MemorySearchTool struct {
	store *memory.VectorStore
}

// NewMemorySearchTool builds a MemorySearchTool backed by store.
func NewMemorySearchTool(store *memory.VectorStore) *MemorySearchTool {
	return &MemorySearchTool{store: store}
}

func (t *MemorySearchTool) Name() string { return "search_memory" }
func (t *MemorySearchTool) Description() string {
	return "Search your memory of past conversations and knowledge about the user. Call this proactively whenever prior context might help, rather than waiting to be asked."
}
func (t *MemorySearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string", "description": "Natural language search query describing what to recall"},
			"limit": map[string]interface{}{"type": "integer", "description": "Maximum number of results to return (default: 5)"},
			"filter": map[string]interface{}{
				"type":        "string",
				"description": "Restrict results to one source",
				"enum":        []interface{}{"all", "conversations", "knowledge"},
			},
		},
		"required": []interface{}{"query"},
	}
}

func (t *MemorySearchTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	query, ok := requireStringArg(args, "query")
	if !ok || query == "" {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'query'")
	}

	limit := 5
	if l, ok := args["limit"].(float64); ok && int(l) > 0 {
		limit = int(l)
	}

	filter, _ := requireStringArg(args, "filter")
	if filter == "" {
		filter = "all"
	}

	results, err := t.store.Search(ctx, query, limit, filter)
	if err != nil {
		return "", ExecutionFailedRecoverableError(t.Name(), err.Error())
	}

	return memory.FormatResults(results), nil
}
