package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mattdef/miniclaw/internal/security"
)

func TestExecRunsAllowedCommand(t *testing.T) {
	v, err := security.NewPathValidator(t.TempDir())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	e := NewExecTool(v)

	out, terr := e.Execute(context.Background(), map[string]interface{}{"command": "echo hello"}, ExecutionContext{})
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("expected 'hello', got %q", out)
	}
}

func TestExecBlocksBlacklistedCommand(t *testing.T) {
	v, err := security.NewPathValidator(t.TempDir())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	e := NewExecTool(v)

	_, terr := e.Execute(context.Background(), map[string]interface{}{"command": "rm -rf /"}, ExecutionContext{})
	if terr == nil || terr.Kind != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", terr)
	}
}

func TestExecRejectsBlankCommand(t *testing.T) {
	v, err := security.NewPathValidator(t.TempDir())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	e := NewExecTool(v)

	_, terr := e.Execute(context.Background(), map[string]interface{}{"command": "   "}, ExecutionContext{})
	if terr == nil || terr.Kind != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", terr)
	}
}
