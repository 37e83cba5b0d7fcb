package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mattdef/miniclaw/internal/memory"
	"github.com/philippgille/chromem-go"
)

// stubEmbeddingFunc returns a fixed-length deterministic vector so tests
// never reach a real embedding API.
func stubEmbeddingFunc(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%len(vec)] += float32(r % 7)
	}
	return vec, nil
}

func newTestVectorStore(t *testing.T) *memory.VectorStore {
	t.Helper()
	store, err := memory.NewVectorStore(t.TempDir(), chromem.EmbeddingFunc(stubEmbeddingFunc))
	if err != nil {
		t.Fatalf("unexpected error building vector store: %v", err)
	}
	return store
}

func TestMemorySearchToolRequiresQuery(t *testing.T) {
	tool := NewMemorySearchTool(newTestVectorStore(t))

	_, err := tool.Execute(context.Background(), map[string]interface{}{}, ExecutionContext{})
	if err == nil || err.Kind != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestMemorySearchToolReturnsNoMemoriesWhenEmpty(t *testing.T) {
	tool := NewMemorySearchTool(newTestVectorStore(t))

	out, err := tool.Execute(context.Background(), map[string]interface{}{"query": "anything"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No memories found") {
		t.Fatalf("expected empty-result message, got %q", out)
	}
}

func TestMemorySearchToolFindsIndexedKnowledge(t *testing.T) {
	store := newTestVectorStore(t)
	if err := store.IndexKnowledge(context.Background(), "", "the user prefers dark mode", "preferences"); err != nil {
		t.Fatalf("unexpected error indexing knowledge: %v", err)
	}

	tool := NewMemorySearchTool(store)
	out, err := tool.Execute(context.Background(), map[string]interface{}{"query": "dark mode", "filter": "knowledge"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "dark mode") {
		t.Fatalf("expected result to mention indexed fact, got %q", out)
	}
}

func TestMemorySearchToolRejectsUnknownFilter(t *testing.T) {
	tool := NewMemorySearchTool(newTestVectorStore(t))

	_, err := tool.Execute(context.Background(), map[string]interface{}{"query": "x", "filter": "bogus"}, ExecutionContext{})
	if err == nil || err.Kind != ErrExecutionFailedRecoverable {
		t.Fatalf("expected ErrExecutionFailedRecoverable for unknown filter, got %v", err)
	}
}
