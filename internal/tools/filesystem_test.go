package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattdef/miniclaw/internal/security"
)

func newValidator(t *testing.T) *security.PathValidator {
	t.Helper()
	v, err := security.NewPathValidator(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}
	return v
}

func TestWriteThenReadFile(t *testing.T) {
	v := newValidator(t)
	w := NewWriteFileTool(v)
	r := NewReadFileTool(v)
	ctx := context.Background()

	if _, err := w.Execute(ctx, map[string]interface{}{"path": "note.txt", "content": "hello"}, ExecutionContext{}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out, err := r.Execute(ctx, map[string]interface{}{"path": "note.txt"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if out != "hello" {
		t.Fatalf("expected 'hello', got %q", out)
	}
}

func TestReadFileRejectsPathEscape(t *testing.T) {
	v := newValidator(t)
	r := NewReadFileTool(v)

	_, err := r.Execute(context.Background(), map[string]interface{}{"path": "../../etc/passwd"}, ExecutionContext{})
	if err == nil || err.Kind != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestListDirListsEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	v, err := security.NewPathValidator(dir)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}
	l := NewListDirTool(v)

	out, terr := l.Execute(context.Background(), map[string]interface{}{}, ExecutionContext{})
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if out != "a.txt\nsub/" {
		t.Fatalf("unexpected listing: %q", out)
	}
}

func TestWriteFileMissingArgsInvalid(t *testing.T) {
	v := newValidator(t)
	w := NewWriteFileTool(v)

	_, err := w.Execute(context.Background(), map[string]interface{}{"path": "x.txt"}, ExecutionContext{})
	if err == nil || err.Kind != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}
