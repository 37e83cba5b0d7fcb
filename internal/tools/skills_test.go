package tools

import (
	"context"
	"strings"
	"testing"
)

func TestCreateListReadDeleteSkillLifecycle(t *testing.T) {
	workspace := t.TempDir()
	create := NewCreateSkillTool(workspace)
	list := NewListSkillsTool(workspace)
	read := NewReadSkillTool(workspace)
	del := NewDeleteSkillTool(workspace)

	out, err := create.Execute(context.Background(), map[string]interface{}{
		"name":        "Weather Lookup",
		"description": "Look up the weather for a city.",
	}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "weather-lookup") {
		t.Fatalf("expected directory name in response, got %q", out)
	}

	listed, err := list.Execute(context.Background(), map[string]interface{}{}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(listed, "Weather Lookup") {
		t.Fatalf("expected listing to include skill, got %q", listed)
	}

	content, err := read.Execute(context.Background(), map[string]interface{}{"directory_name": "weather-lookup"}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content, "# Skill: Weather Lookup") {
		t.Fatalf("expected raw SKILL.md content, got %q", content)
	}

	if _, err := del.Execute(context.Background(), map[string]interface{}{"directory_name": "weather-lookup"}, ExecutionContext{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = read.Execute(context.Background(), map[string]interface{}{"directory_name": "weather-lookup"}, ExecutionContext{})
	if err == nil || err.Kind != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateSkillRejectsBuiltInCollision(t *testing.T) {
	workspace := t.TempDir()
	create := NewCreateSkillTool(workspace)

	_, err := create.Execute(context.Background(), map[string]interface{}{
		"name":        "exec",
		"description": "shadow the builtin",
	}, ExecutionContext{})
	if err == nil || err.Kind != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestListSkillsEmptyWorkspace(t *testing.T) {
	workspace := t.TempDir()
	list := NewListSkillsTool(workspace)

	out, err := list.Execute(context.Background(), map[string]interface{}{}, ExecutionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "No skills configured." {
		t.Fatalf("unexpected output: %q", out)
	}
}
