package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/utkarsh5026/optbench/internal/cpu"
	"github.com/utkarsh5026/optbench/internal/logging"
)

// NoCPU disables pinning in Cmd.CPU.
const NoCPU = -1

// Cmd is one shell command line and the environment it runs in.
type Cmd struct {
	Line string
	Dir  string
	// Env holds extra KEY=VALUE pairs on top of the current environment.
	Env []string
	// PathPrepend is put in front of PATH, first entry first.
	PathPrepend []string
	// CPU pins the process to one core. NoCPU leaves it unpinned.
	CPU int
	// Output also receives everything the command writes.
	Output io.Writer
}

// Outcome is what a finished command reports back.
type Outcome struct {
	ExitCode int
	Output   []byte
}

// Executor runs commands to completion.
//
// A non-zero exit status is reported in Outcome, not as an error. The error
// is reserved for commands that could not be started at all.
type Executor interface {
	Execute(ctx context.Context, c Cmd) (Outcome, error)
}

// ShellExecutor runs command lines through a POSIX shell.
type ShellExecutor struct {
	// Shell defaults to "sh".
	Shell string
}

// Execute starts c and waits for it. A cancelled ctx prevents the start but
// never interrupts a running command.
func (e ShellExecutor) Execute(ctx context.Context, c Cmd) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	shell := e.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.Command(shell, "-c", c.Line)
	cmd.Dir = c.Dir
	cmd.Env = Environ(os.Environ(), c.Env, c.PathPrepend)

	var buf bytes.Buffer
	var w io.Writer = &buf
	if c.Output != nil {
		w = io.MultiWriter(&buf, c.Output)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("start %q: %w", c.Line, err)
	}

	if c.CPU != NoCPU {
		if err := cpu.PinProcess(cmd.Process.Pid, c.CPU); err != nil {
			logging.FromContext(ctx).Warn("CPU pinning failed, continuing unpinned",
				"pid", cmd.Process.Pid, "cpu", c.CPU, "error", err)
		}
	}

	err := cmd.Wait()
	out := Outcome{Output: buf.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return out, fmt.Errorf("wait %q: %w", c.Line, err)
		}
		out.ExitCode = exitErr.ExitCode()
	}
	return out, nil
}

// Environ returns base with extra appended and dirs prepended to PATH.
// Later entries win for duplicate keys, as with exec.Cmd.Env.
func Environ(base, extra, dirs []string) []string {
	env := make([]string, 0, len(base)+len(extra)+1)
	env = append(env, base...)
	env = append(env, extra...)
	if len(dirs) == 0 {
		return env
	}

	current := ""
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			current = v
		}
	}

	parts := make([]string, 0, len(dirs)+1)
	for _, d := range dirs {
		if abs, err := filepath.Abs(d); err == nil {
			d = abs
		}
		parts = append(parts, d)
	}
	if current != "" {
		parts = append(parts, current)
	}
	return append(env, "PATH="+strings.Join(parts, string(os.PathListSeparator)))
}
