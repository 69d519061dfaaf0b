package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type (
	Logger interface {
		Printf(format string, v ...any)
		Println(v ...any)
	}

	// Invoker runs an external program in dir and returns what it printed.
	Invoker interface {
		Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	}

	ExecInvoker struct {
		// Logger receives every command line and its output. Nil disables logging.
		Logger Logger
		Env    []string
	}

	CommandError struct {
		Err     error
		Command string
		Output  []byte
	}
)

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %s", e.Command, e.Err)

	if tail := lastLines(e.Output, 5); tail != "" {
		msg += "\n" + tail
	}

	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (i ExecInvoker) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	if i.Logger != nil {
		i.Logger.Printf("$ %s (in %s)", line, dir)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	if len(i.Env) > 0 {
		cmd.Env = append(cmd.Environ(), i.Env...)
	}

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	if i.Logger != nil && out.Len() > 0 {
		i.Logger.Println(strings.TrimRight(out.String(), "\n"))
	}

	if err != nil {
		return out.Bytes(), &CommandError{Command: line, Output: out.Bytes(), Err: err}
	}

	return out.Bytes(), nil
}

func lastLines(b []byte, n int) string {
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
