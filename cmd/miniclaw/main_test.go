package main

import (
	"bytes"
	"errors"
	"testing"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "miniclaw 0.1.0\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestAgentCommandWithoutMessageIsUsageError(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"agent"})
	root.SilenceErrors = true

	err := root.Execute()
	var usageErr *usageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("expected usageError, got %v", err)
	}
}

func TestDefaultConfigRootIsNonEmpty(t *testing.T) {
	if defaultConfigRoot() == "" {
		t.Fatal("expected a non-empty default config root")
	}
}
