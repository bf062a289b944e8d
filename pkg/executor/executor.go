package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	res, err := e.Run(ctx, Command{Name: name, Args: args})
	if err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(res.Stderr)
		if stderrStr != "" {
			return "", fmt.Errorf("%w\nstderr: %s", err, stderrStr)
		}
		return "", err
	}

	return res.Stdout, nil
}

// Run executes cmd, capturing stdout and stderr separately.
func (e *implExecutor) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		return res, fmt.Errorf("command '%s' failed: %w", c.Name, err)
	}

	return res, nil
}
