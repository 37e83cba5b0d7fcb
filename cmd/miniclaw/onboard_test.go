package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveOnboardPathRejectsRelative(t *testing.T) {
	if _, err := resolveOnboardPath("relative/path"); err == nil {
		t.Fatal("expected an error for a relative path")
	}
}

func TestResolveOnboardPathAcceptsAbsolute(t *testing.T) {
	got, err := resolveOnboardPath("/tmp/some-workspace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/some-workspace" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestResolveOnboardPathDefaultsWhenEmpty(t *testing.T) {
	got, err := resolveOnboardPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != defaultConfigRoot() {
		t.Fatalf("expected default config root, got %q", got)
	}
}

func TestCreateWorkspaceStructureSeedsBootstrapFiles(t *testing.T) {
	base := t.TempDir()
	if err := createWorkspaceStructure(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name := range bootstrapTemplates {
		if _, err := os.Stat(filepath.Join(base, name)); err != nil {
			t.Fatalf("expected %s to be created: %v", name, err)
		}
	}
}

func TestCreateWorkspaceStructurePreservesExistingFile(t *testing.T) {
	base := t.TempDir()
	custom := "# My soul\n"
	if err := os.WriteFile(filepath.Join(base, "SOUL.md"), []byte(custom), 0o644); err != nil {
		t.Fatalf("unexpected error seeding file: %v", err)
	}

	if err := createWorkspaceStructure(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(base, "SOUL.md"))
	if err != nil {
		t.Fatalf("unexpected error reading file: %v", err)
	}
	if string(got) != custom {
		t.Fatalf("expected existing file to be preserved, got %q", got)
	}
}

func TestOnboardCommandWithYesSkipsPrompts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "workspace")

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"onboard", "--yes", "--path", base})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "config.json")); err != nil {
		t.Fatalf("expected config.json to be written: %v", err)
	}
	if !strings.Contains(out.String(), "Workspace initialized successfully") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}
