package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattdef/miniclaw/internal/logger"
	"github.com/philippgille/chromem-go"
)

// SearchResult is a single semantic-search hit from the vector store.
type SearchResult struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	Score     float32 `json:"score"`
	Timestamp string  `json:"timestamp"`
	Category  string  `json:"category,omitempty"`
	Source    string  `json:"source"` // "conversations" or "knowledge"
	Channel   string  `json:"channel,omitempty"`
}

// VectorStore backs semantic recall with chromem-go, embedding both
// conversation turns and standalone knowledge facts. It is optional:
// callers gate its construction behind config.Tools.Memory.SemanticSearch.
type VectorStore struct {
	db            *chromem.DB
	conversations *chromem.Collection
	knowledge     *chromem.Collection
}

// NewVectorStore opens (or creates) a persistent vector database under
// <workspace>/memory/vectors/.
func NewVectorStore(workspace string, embeddingFn chromem.EmbeddingFunc) (*VectorStore, error) {
	dbPath := filepath.Join(workspace, "memory", "vectors")
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return nil, fmt.Errorf("create vector store directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("open vector database: %w", err)
	}

	conversations, err := db.GetOrCreateCollection("conversations", nil, embeddingFn)
	if err != nil {
		return nil, fmt.Errorf("create conversations collection: %w", err)
	}
	knowledge, err := db.GetOrCreateCollection("knowledge", nil, embeddingFn)
	if err != nil {
		return nil, fmt.Errorf("create knowledge collection: %w", err)
	}

	logger.InfoCF("memory", "vector store initialized", map[string]interface{}{
		"path":                dbPath,
		"conversations_count": conversations.Count(),
		"knowledge_count":     knowledge.Count(),
	})

	return &VectorStore{db: db, conversations: conversations, knowledge: knowledge}, nil
}

// IndexConversation embeds one user/assistant turn into the conversations
// collection, best-effort: failures are logged, not returned, since a
// missed embedding should never fail the turn that produced it.
func (vs *VectorStore) IndexConversation(ctx context.Context, sessionID, channel, userMsg, assistantMsg string) {
	ts := time.Now()
	content := fmt.Sprintf("User: %s\nAssistant: %s", userMsg, assistantMsg)
	if runes := []rune(content); len(runes) > 8000 {
		content = string(runes[:8000])
	}

	doc := chromem.Document{
		ID:      fmt.Sprintf("%s:%d", sessionID, ts.UnixNano()),
		Content: content,
		Metadata: map[string]string{
			"session_id": sessionID,
			"channel":    channel,
			"timestamp":  ts.Format(time.RFC3339),
		},
	}

	if err := vs.conversations.AddDocument(ctx, doc); err != nil {
		logger.ErrorCF("memory", "failed to index conversation", map[string]interface{}{
			"error": err.Error(), "session_id": sessionID,
		})
	}
}

// IndexKnowledge adds or updates a standalone fact in the knowledge collection.
func (vs *VectorStore) IndexKnowledge(ctx context.Context, docID, fact, category string) error {
	if docID == "" {
		docID = fmt.Sprintf("k:%d", time.Now().UnixNano())
	}
	doc := chromem.Document{
		ID:      docID,
		Content: fact,
		Metadata: map[string]string{
			"category":   category,
			"updated_at": time.Now().Format(time.RFC3339),
		},
	}
	if err := vs.knowledge.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("index knowledge: %w", err)
	}
	return nil
}

// SearchConversations performs a semantic search over past conversation turns.
func (vs *VectorStore) SearchConversations(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return vs.search(ctx, vs.conversations, query, limit, "conversations")
}

// SearchKnowledge performs a semantic search over standalone facts.
func (vs *VectorStore) SearchKnowledge(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return vs.search(ctx, vs.knowledge, query, limit, "knowledge")
}

func (vs *VectorStore) search(ctx context.Context, col *chromem.Collection, query string, limit int, source string) ([]SearchResult, error) {
	if col.Count() == 0 {
		return nil, nil
	}
	if limit > col.Count() {
		limit = col.Count()
	}

	results, err := col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", source, err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		ts := r.Metadata["timestamp"]
		if ts == "" {
			ts = r.Metadata["updated_at"]
		}
		out = append(out, SearchResult{
			ID:        r.ID,
			Content:   r.Content,
			Score:     r.Similarity,
			Timestamp: ts,
			Category:  r.Metadata["category"],
			Source:    source,
			Channel:   r.Metadata["channel"],
		})
	}
	return out, nil
}

// Search queries both collections and returns the combined top-limit hits
// sorted by descending similarity. filter restricts to "conversations",
// "knowledge", or "" / "all" for both.
func (vs *VectorStore) Search(ctx context.Context, query string, limit int, filter string) ([]SearchResult, error) {
	switch filter {
	case "conversations":
		return vs.SearchConversations(ctx, query, limit)
	case "knowledge":
		return vs.SearchKnowledge(ctx, query, limit)
	case "", "all":
		conv, err := vs.SearchConversations(ctx, query, limit)
		if err != nil {
			logger.WarnCF("memory", "conversation search failed", map[string]interface{}{"error": err.Error()})
		}
		know, err := vs.SearchKnowledge(ctx, query, limit)
		if err != nil {
			logger.WarnCF("memory", "knowledge search failed", map[string]interface{}{"error": err.Error()})
		}
		all := append(conv, know...)
		sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })
		if len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	default:
		return nil, fmt.Errorf("unknown filter: %s (use: all, conversations, knowledge)", filter)
	}
}

// FormatResults renders search results as a human/LLM-readable block.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No memories found."
	}

	var sb strings.Builder
	for _, r := range results {
		date := "unknown"
		if t, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			date = t.Format("2006-01-02")
		}
		switch r.Source {
		case "knowledge":
			cat := ""
			if r.Category != "" {
				cat = fmt.Sprintf(" (%s)", r.Category)
			}
			sb.WriteString(fmt.Sprintf("- [%s]%s %s\n", date, cat, r.Content))
		default:
			ch := ""
			if r.Channel != "" {
				ch = ", " + r.Channel
			}
			sb.WriteString(fmt.Sprintf("- [%s%s] %s\n", date, ch, r.Content))
		}
	}
	return sb.String()
}
