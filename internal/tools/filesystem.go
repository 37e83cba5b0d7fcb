package tools

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattdef/miniclaw/internal/security"
)

func pathValidationFailure(toolName string, err error) *ToolError {
	var pathErr *security.PathError
	if e, ok := err.(*security.PathError); ok {
		pathErr = e
	}
	if pathErr != nil && (pathErr.Kind == security.OutsideBaseDirectory || pathErr.Kind == security.SystemPathBlocked) {
		return PermissionDeniedError(toolName, pathErr.Error())
	}
	return ExecutionFailedError(toolName, fmt.Sprintf("resolving path: %v", err))
}

func requireStringArg(args map[string]interface{}, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok
}

// ReadFileTool reads the contents of a workspace-relative file.
type ReadFileTool struct {
	validator *security.PathValidator
}

// NewReadFileTool builds a ReadFileTool sandboxed to workspace.
func NewReadFileTool(validator *security.PathValidator) *ReadFileTool {
	return &ReadFileTool{validator: validator}
}

func (t *ReadFileTool) Name() string        { return "read_file" }
func (t *ReadFileTool) Description() string { return "Read the contents of a file in the workspace" }
func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string", "description": "Workspace-relative file path"},
		},
		"required": []interface{}{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	path, ok := requireStringArg(args, "path")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'path'")
	}

	resolved, err := t.validator.ValidatePath(path)
	if err != nil {
		return "", pathValidationFailure(t.Name(), err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ExecutionFailedError(t.Name(), fmt.Sprintf("file not found: %s", path))
		}
		return "", ExecutionFailedError(t.Name(), err.Error())
	}

	return string(data), nil
}

// WriteFileTool writes (overwriting) a workspace-relative file.
type WriteFileTool struct {
	validator *security.PathValidator
}

// NewWriteFileTool builds a WriteFileTool sandboxed to workspace.
func NewWriteFileTool(validator *security.PathValidator) *WriteFileTool {
	return &WriteFileTool{validator: validator}
}

func (t *WriteFileTool) Name() string        { return "write_file" }
func (t *WriteFileTool) Description() string { return "Write content to a file in the workspace, creating or overwriting it" }
func (t *WriteFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path":    map[string]interface{}{"type": "string", "description": "Workspace-relative file path"},
			"content": map[string]interface{}{"type": "string", "description": "Content to write"},
		},
		"required": []interface{}{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	path, ok := requireStringArg(args, "path")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'path'")
	}
	content, ok := requireStringArg(args, "content")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'content'")
	}

	resolved, err := t.validator.ValidatePath(path)
	if err != nil {
		return "", pathValidationFailure(t.Name(), err)
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return "", ExecutionFailedError(t.Name(), err.Error())
	}

	return fmt.Sprintf("Wrote %d bytes to %s", len(content), path), nil
}

// ListDirTool lists the entries of a workspace-relative directory.
type ListDirTool struct {
	validator *security.PathValidator
}

// NewListDirTool builds a ListDirTool sandboxed to workspace.
func NewListDirTool(validator *security.PathValidator) *ListDirTool {
	return &ListDirTool{validator: validator}
}

func (t *ListDirTool) Name() string        { return "list_dir" }
func (t *ListDirTool) Description() string { return "List the entries of a directory in the workspace" }
func (t *ListDirTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string", "description": "Workspace-relative directory path, empty for workspace root"},
		},
		"required": []interface{}{},
	}
}

func (t *ListDirTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	path, _ := requireStringArg(args, "path")

	resolved, err := t.validator.ValidatePath(path)
	if err != nil {
		return "", pathValidationFailure(t.Name(), err)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return "", ExecutionFailedError(t.Name(), err.Error())
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, "\n"), nil
}
