package memory

import (
	"fmt"
	"strings"
)

// Store combines short-term (in-process) and long-term (file-backed)
// memory. Every long-term write is mirrored into short-term memory so the
// agent's immediate context reflects it without a file read.
type Store struct {
	short *ShortTerm
	long  *LongTerm
}

// NewStore creates a Store rooted at workspace.
func NewStore(workspace string) *Store {
	return &Store{
		short: NewShortTerm(),
		long:  NewLongTerm(workspace),
	}
}

// ShortTerm returns the short-term memory buffer.
func (s *Store) ShortTerm() *ShortTerm { return s.short }

// LongTerm returns the long-term memory manager.
func (s *Store) LongTerm() *LongTerm { return s.long }

// AppendToMemory writes to MEMORY.md and mirrors content into short-term memory.
func (s *Store) AppendToMemory(content string) (string, *StoreError) {
	path, err := s.long.AppendToMemory(content)
	if err != nil {
		return "", err
	}
	s.short.Add(content)
	return path, nil
}

// CreateDailyNote writes to today's daily note and mirrors content into
// short-term memory.
func (s *Store) CreateDailyNote(content string) (string, *StoreError) {
	path, err := s.long.CreateDailyNote(content)
	if err != nil {
		return "", err
	}
	s.short.Add(content)
	return path, nil
}

// Context renders recent short-term memory as a markdown block suitable for
// inclusion in the agent's system prompt. Returns "" if nothing has been
// recorded yet.
func (s *Store) Context() string {
	entries := s.short.Entries()
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Recent Memory\n\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "- [%s] %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Content)
	}
	return sb.String()
}
