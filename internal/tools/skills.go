package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattdef/miniclaw/internal/skills"
)

func mapSkillsError(toolName string, err error) *ToolError {
	se, ok := err.(*skills.Error)
	if !ok {
		return ExecutionFailedError(toolName, err.Error())
	}
	switch se.Kind {
	case skills.ErrDirectoryNotFound, skills.ErrFileNotFound:
		return NotFoundError(toolName, se.Error())
	case skills.ErrInvalidFormat, skills.ErrMissingField:
		return InvalidArgumentsError(toolName, se.Error())
	default:
		return ExecutionFailedError(toolName, se.Error())
	}
}

// CreateSkillTool writes a new markdown skill package to the workspace.
type CreateSkillTool struct {
	workspace string
}

func NewCreateSkillTool(workspace string) *CreateSkillTool {
	return &CreateSkillTool{workspace: workspace}
}

func (t *CreateSkillTool) Name() string        { return "create_skill" }
func (t *CreateSkillTool) Description() string { return "Create a new named skill package" }
func (t *CreateSkillTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":        map[string]interface{}{"type": "string", "description": "Skill name"},
			"description": map[string]interface{}{"type": "string", "description": "What the skill does"},
		},
		"required": []interface{}{"name", "description"},
	}
}

func (t *CreateSkillTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	name, ok := requireStringArg(args, "name")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'name'")
	}
	description, ok := requireStringArg(args, "description")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'description'")
	}

	directoryName := slugify(name)
	skill, err := skills.Create(t.workspace, directoryName, name, description, nil)
	if err != nil {
		return "", mapSkillsError(t.Name(), err)
	}
	return fmt.Sprintf("Created skill %q at %s", skill.Name, directoryName), nil
}

// ListSkillsTool lists the skills currently available in the workspace.
type ListSkillsTool struct {
	workspace string
}

func NewListSkillsTool(workspace string) *ListSkillsTool {
	return &ListSkillsTool{workspace: workspace}
}

func (t *ListSkillsTool) Name() string       { return "list_skills" }
func (t *ListSkillsTool) Description() string { return "List the skill packages available in the workspace" }
func (t *ListSkillsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *ListSkillsTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	loaded, err := skills.LoadAll(t.workspace)
	if err != nil {
		if se, ok := err.(*skills.Error); ok && se.Kind == skills.ErrDirectoryNotFound {
			return "No skills configured.", nil
		}
		return "", mapSkillsError(t.Name(), err)
	}
	if len(loaded) == 0 {
		return "No skills configured.", nil
	}

	var sb strings.Builder
	for i, s := range loaded {
		fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, s.Name, s.DirectoryName, s.Description)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// ReadSkillTool returns the raw contents of a skill's SKILL.md.
type ReadSkillTool struct {
	workspace string
}

func NewReadSkillTool(workspace string) *ReadSkillTool {
	return &ReadSkillTool{workspace: workspace}
}

func (t *ReadSkillTool) Name() string       { return "read_skill" }
func (t *ReadSkillTool) Description() string { return "Read the full contents of a skill package" }
func (t *ReadSkillTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"directory_name": map[string]interface{}{"type": "string", "description": "Directory name of the skill"},
		},
		"required": []interface{}{"directory_name"},
	}
}

func (t *ReadSkillTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	directoryName, ok := requireStringArg(args, "directory_name")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'directory_name'")
	}

	skill, err := skills.Load(t.workspace, directoryName)
	if err != nil {
		return "", mapSkillsError(t.Name(), err)
	}
	return skill.Content, nil
}

// DeleteSkillTool removes a skill package from the workspace.
type DeleteSkillTool struct {
	workspace string
}

func NewDeleteSkillTool(workspace string) *DeleteSkillTool {
	return &DeleteSkillTool{workspace: workspace}
}

func (t *DeleteSkillTool) Name() string       { return "delete_skill" }
func (t *DeleteSkillTool) Description() string { return "Delete a skill package" }
func (t *DeleteSkillTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"directory_name": map[string]interface{}{"type": "string", "description": "Directory name of the skill"},
		},
		"required": []interface{}{"directory_name"},
	}
}

func (t *DeleteSkillTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	directoryName, ok := requireStringArg(args, "directory_name")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'directory_name'")
	}

	if err := skills.Delete(t.workspace, directoryName); err != nil {
		return "", mapSkillsError(t.Name(), err)
	}
	return fmt.Sprintf("Deleted skill %q", directoryName), nil
}

func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}
