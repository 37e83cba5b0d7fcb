// Package skills implements discovery and loading of user-defined skill
// packages: markdown files describing a capability the agent can draw on.
package skills

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a skill operation failure.
type ErrorKind int

const (
	ErrDirectoryNotFound ErrorKind = iota
	ErrFileNotFound
	ErrInvalidFormat
	ErrMissingField
	ErrReadFailed
	ErrWriteFailed
)

// Error is returned by skill loader/manager operations.
type Error struct {
	Kind   ErrorKind
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrDirectoryNotFound:
		return fmt.Sprintf("skill directory does not exist: %s", e.Path)
	case ErrFileNotFound:
		return fmt.Sprintf("skill file not found: %s", e.Path)
	case ErrInvalidFormat:
		return fmt.Sprintf("invalid skill format in %s: %s", e.Path, e.Detail)
	case ErrMissingField:
		return fmt.Sprintf("missing required field %q in skill %s", e.Detail, e.Path)
	case ErrReadFailed:
		return fmt.Sprintf("failed to read skill file %s: %v", e.Path, e.Err)
	case ErrWriteFailed:
		return fmt.Sprintf("failed to write skill file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("skill error: %s", e.Detail)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// BuiltInNames lists the capability names reserved by built-in tools; a
// skill may not be created or deleted under one of these names.
var BuiltInNames = map[string]struct{}{
	"read_file": {}, "write_file": {}, "list_dir": {}, "exec": {}, "message": {},
	"write_memory": {}, "remember": {}, "recall": {},
	"create_skill": {}, "list_skills": {}, "read_skill": {}, "delete_skill": {},
}

// IsBuiltIn reports whether name collides with a built-in tool name.
func IsBuiltIn(name string) bool {
	_, ok := BuiltInNames[strings.ToLower(name)]
	return ok
}

// Parameter describes one named argument a skill expects.
type Parameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"param_type"`
}

// NewParameter builds a Parameter.
func NewParameter(name, description string, required bool, paramType string) Parameter {
	return Parameter{Name: name, Description: description, Required: required, Type: paramType}
}

// Skill is a user-defined capability loaded from a SKILL.md file.
type Skill struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Parameters    []Parameter `json:"parameters"`
	Content       string      `json:"content"`
	DirectoryName string      `json:"directory_name"`
}

// New builds a Skill.
func New(name, description string, parameters []Parameter, content, directoryName string) Skill {
	return Skill{
		Name:          name,
		Description:   description,
		Parameters:    parameters,
		Content:       content,
		DirectoryName: directoryName,
	}
}

// IsValid reports whether the skill has the fields required to be usable.
func (s *Skill) IsValid() bool {
	return s.Name != "" && s.Description != ""
}

// ToContextString renders the skill as a markdown block suitable for
// inclusion in the agent's system prompt.
func (s *Skill) ToContextString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n%s\n\n", s.Name, s.Description)

	if len(s.Parameters) > 0 {
		sb.WriteString("**Parameters:**\n")
		for _, p := range s.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			fmt.Fprintf(&sb, "- `%s` (%s, %s): %s\n", p.Name, p.Type, required, p.Description)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Summary is the lightweight listing view of a Skill.
type Summary struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active"`
	DirectoryName string `json:"directory_name"`
}

// NewSummary builds a Summary.
func NewSummary(name, description string, isActive bool, directoryName string) Summary {
	return Summary{Name: name, Description: description, IsActive: isActive, DirectoryName: directoryName}
}
