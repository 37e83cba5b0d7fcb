package tools

import (
	"context"
	"testing"
)

type echoTool struct{}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "echoes its input" }
func (t *echoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"s": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"s"},
	}
}
func (t *echoTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	s, _ := args["s"].(string)
	return s, nil
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&echoTool{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&echoTool{}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistryGetAndList(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&echoTool{})

	tool, ok := r.Get("echo")
	if !ok || tool.Name() != "echo" {
		t.Fatalf("expected to retrieve echo tool, got %v, %v", tool, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected missing tool to not be found")
	}

	list := r.ListTools()
	if len(list) != 1 || list[0].Name != "echo" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&echoTool{})

	defs := r.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0].Type != "function" || defs[0].Function.Name != "echo" {
		t.Fatalf("unexpected definition: %+v", defs[0])
	}
}

func TestValidateArgsAgainstSchemaMissingRequired(t *testing.T) {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"s": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"s"},
	}
	if err := ValidateArgsAgainstSchema(map[string]interface{}{}, schema, "echo"); err == nil {
		t.Fatal("expected missing required field error")
	}
	if err := ValidateArgsAgainstSchema(map[string]interface{}{"s": "x"}, schema, "echo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgsAgainstSchemaRejectsBadSchemaShape(t *testing.T) {
	err := ValidateArgsAgainstSchema(map[string]interface{}{}, map[string]interface{}{"type": "string"}, "echo")
	if err == nil || err.Kind != ErrExecutionFailed {
		t.Fatalf("expected ErrExecutionFailed for bad schema, got %v", err)
	}
}
