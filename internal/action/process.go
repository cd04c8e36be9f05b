package action

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/flo-at/minmon/internal/placeholder"
)

const (
	defaultStdoutMax = 4096
	defaultStderrMax = 4096
)

// Process spawns a child process as its side effect. A non-zero exit
// or signal termination is an error. Stdout and stderr are captured up
// to StdoutMax/StderrMax bytes; captured stderr is appended to the
// error message, captured stdout is discarded, and neither is exposed
// as a placeholder.
type Process struct {
	Path        string
	Arguments   []string
	Environment map[string]string
	WorkingDir  string
	UID         *uint32
	GID         *uint32
	StdoutMax   int
	StderrMax   int
}

func (p *Process) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	args := make([]string, len(p.Arguments))
	for i, a := range p.Arguments {
		args[i] = placeholder.Render(a, placeholders)
	}

	cmd := exec.CommandContext(ctx, p.Path, args...)
	for name, value := range p.Environment {
		name = placeholder.Render(name, placeholders)
		value = placeholder.Render(value, placeholders)
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", name, value))
	}
	if p.WorkingDir != "" {
		cmd.Dir = p.WorkingDir
	}
	if p.UID != nil || p.GID != nil {
		cred := &syscall.Credential{}
		if p.UID != nil {
			cred.Uid = *p.UID
		}
		if p.GID != nil {
			cred.Gid = *p.GID
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	}

	stdoutMax, stderrMax := p.StdoutMax, p.StderrMax
	if stdoutMax <= 0 {
		stdoutMax = defaultStdoutMax
	}
	if stderrMax <= 0 {
		stderrMax = defaultStderrMax
	}
	var stdout, stderr boundedBuffer
	stdout.max, stderr.max = stdoutMax, stderrMax
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !isExitError(err, &exitErr) {
		return fmt.Errorf("failed to run process: %w", err)
	}
	if exitErr.ProcessState.ExitCode() < 0 {
		return fmt.Errorf("process was terminated by a signal")
	}
	if stderr.Len() == 0 {
		return fmt.Errorf("process failed with code %d", exitErr.ProcessState.ExitCode())
	}
	return fmt.Errorf("process failed with code %d: %s", exitErr.ProcessState.ExitCode(), stderr.String())
}

func isExitError(err error, target **exec.ExitError) bool {
	if e, ok := err.(*exec.ExitError); ok {
		*target = e
		return true
	}
	return false
}

// boundedBuffer is an io.Writer that silently drops bytes past max,
// used to cap captured stdout/stderr the way spec.md's stdout_max /
// stderr_max configuration knobs require.
type boundedBuffer struct {
	bytes.Buffer
	max int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	total := len(p)
	remaining := b.max - b.Len()
	if remaining <= 0 {
		return total, nil
	}
	if len(p) > remaining {
		p = p[:remaining]
	}
	if _, err := b.Buffer.Write(p); err != nil {
		return 0, err
	}
	return total, nil
}
