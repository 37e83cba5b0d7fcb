package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattdef/miniclaw/internal/security"
)

// ExecDefaultTimeout bounds how long a spawned command may run before it is
// killed and the call folds into a (recoverable) timeout error.
const ExecDefaultTimeout = 30 * time.Second

// ExecTool runs a shell command under the workspace sandbox, rejecting
// anything on the command blacklist.
type ExecTool struct {
	validator *security.PathValidator
	timeout   time.Duration
}

// NewExecTool builds an ExecTool rooted at the workspace the validator
// scopes working directories to.
func NewExecTool(validator *security.PathValidator) *ExecTool {
	return &ExecTool{validator: validator, timeout: ExecDefaultTimeout}
}

func (t *ExecTool) Name() string { return "exec" }
func (t *ExecTool) Description() string {
	return "Run a shell command in the workspace. Dangerous commands (rm, sudo, dd, mkfs, shutdown, reboot, passwd, visudo) are blocked."
}
func (t *ExecTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{"type": "string", "description": "The command to run, e.g. 'ls -la'"},
			"cwd":     map[string]interface{}{"type": "string", "description": "Optional workspace-relative working directory"},
		},
		"required": []interface{}{"command"},
	}
}

func (t *ExecTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	command, ok := requireStringArg(args, "command")
	if !ok || strings.TrimSpace(command) == "" {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'command'")
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", InvalidArgumentsError(t.Name(), "command must not be blank")
	}
	if !security.IsCommandAllowed(fields[0]) {
		return "", PermissionDeniedError(t.Name(), fmt.Sprintf("command %q is blocked by the command blacklist", fields[0]))
	}

	workdir := t.validator.BaseDir()
	if cwd, ok := requireStringArg(args, "cwd"); ok && cwd != "" {
		resolved, err := t.validator.ValidatePath(cwd)
		if err != nil {
			return "", pathValidationFailure(t.Name(), err)
		}
		workdir = resolved
	}

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = workdir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", TimeoutError(t.Name(), uint64(t.timeout.Seconds()))
	}
	if err != nil {
		return "", ExecutionFailedRecoverableError(t.Name(), fmt.Sprintf("command failed: %v\nstderr: %s", err, stderr.String()))
	}

	return stdout.String(), nil
}
