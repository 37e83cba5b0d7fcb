package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattdef/miniclaw/internal/logger"
)

// FileSizeLimit is the size at which a long-term memory file earns a
// warning log on the next append. Writes are never refused outright.
const FileSizeLimit = 1024 * 1024

// LongTerm manages persistent memory files under <workspace>/memory/.
type LongTerm struct {
	workspace string
}

// NewLongTerm creates a LongTerm memory manager rooted at workspace.
func NewLongTerm(workspace string) *LongTerm {
	return &LongTerm{workspace: workspace}
}

func (l *LongTerm) dir() string {
	return filepath.Join(l.workspace, "memory")
}

// AppendToMemory appends content as a timestamped section to MEMORY.md,
// returning the file path.
func (l *LongTerm) AppendToMemory(content string) (string, *StoreError) {
	if strings.TrimSpace(content) == "" {
		return "", &StoreError{Kind: ErrInvalidContent, Message: "content cannot be empty"}
	}

	dir := l.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &StoreError{Kind: ErrStorageFailed, Operation: "create memory directory", Err: err}
	}

	path := filepath.Join(dir, "MEMORY.md")
	l.warnIfOversized(path)

	section := fmt.Sprintf("## %s\n\n%s\n\n---\n\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"), content)
	if err := appendFile(path, section); err != nil {
		return "", &StoreError{Kind: ErrStorageFailed, Operation: "write to memory file", Err: err}
	}

	return path, nil
}

// CreateDailyNote appends content to today's YYYY-MM-DD.md note, returning
// the file path.
func (l *LongTerm) CreateDailyNote(content string) (string, *StoreError) {
	if strings.TrimSpace(content) == "" {
		return "", &StoreError{Kind: ErrInvalidContent, Message: "content cannot be empty"}
	}

	dir := l.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &StoreError{Kind: ErrStorageFailed, Operation: "create memory directory", Err: err}
	}

	now := time.Now().UTC()
	path := filepath.Join(dir, now.Format("2006-01-02")+".md")
	l.warnIfOversized(path)

	section := fmt.Sprintf("## %s\n\n%s\n\n---\n\n", now.Format("15:04:05 UTC"), content)
	if err := appendFile(path, section); err != nil {
		return "", &StoreError{Kind: ErrStorageFailed, Operation: "write to daily note", Err: err}
	}

	return path, nil
}

func (l *LongTerm) warnIfOversized(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Size() > FileSizeLimit {
		logger.WarnCF("memory", "memory file exceeds size limit, consider maintenance", map[string]interface{}{
			"path":  path,
			"size":  info.Size(),
			"limit": FileSizeLimit,
		})
	}
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
