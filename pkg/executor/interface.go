package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs name with args and returns stdout. Stderr is folded into the error.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Run executes cmd and always returns whatever output was captured,
	// including when the command fails.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Command describes a single external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env entries are appended to the current process environment.
	Env []string
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
