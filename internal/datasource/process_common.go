package datasource

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
)

// ProcessConfig describes a process invocation shared by the
// process-output-based data sources (exit status, integer output,
// regex-match output).
type ProcessConfig struct {
	Path        string
	Arguments   []string
	Environment map[string]string
	WorkingDir  string
	UID         *uint32
	GID         *uint32
}

type processResult struct {
	code           int
	stdout, stderr string
}

func (p *ProcessConfig) run(ctx context.Context) (processResult, error) {
	cmd := exec.CommandContext(ctx, p.Path, p.Arguments...)
	for name, value := range p.Environment {
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
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return processResult{}, fmt.Errorf("failed to run process: %w", err)
		}
		code = exitErr.ExitCode()
	}
	return processResult{code: code, stdout: stdout.String(), stderr: stderr.String()}, nil
}
