package datasource

import (
	"context"

	"github.com/flo-at/minmon/internal/measurement"
)

// ProcessExitStatus reports a single configured process's exit code
// as a StatusCode on every tick.
type ProcessExitStatus struct {
	Process ProcessConfig

	id string
}

// NewProcessExitStatus derives the id from the process's binary path.
func NewProcessExitStatus(process ProcessConfig) *ProcessExitStatus {
	return &ProcessExitStatus{Process: process, id: baseName(process.Path)}
}

func (p *ProcessExitStatus) IDs() []string { return []string{p.id} }

func (p *ProcessExitStatus) Get(ctx context.Context) []Sample[measurement.StatusCode] {
	result, err := p.Process.run(ctx)
	if err != nil {
		return []Sample[measurement.StatusCode]{Failed[measurement.StatusCode](err)}
	}
	return []Sample[measurement.StatusCode]{Ok(measurement.NewStatusCode(uint8(result.code)))}
}
