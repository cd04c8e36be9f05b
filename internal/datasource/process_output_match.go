package datasource

import (
	"context"
	"regexp"

	"github.com/flo-at/minmon/internal/measurement"
)

// ProcessOutputMatch reports whether a process's output matches a
// regex, optionally inverted.
type ProcessOutputMatch struct {
	Process      ProcessConfig
	OutputSource OutputSource
	OutputRegex  *regexp.Regexp
	InvertMatch  bool

	id               string
	LastPlaceholders map[string]string
}

// NewProcessOutputMatch derives the id from the process's binary path.
func NewProcessOutputMatch(process ProcessConfig, source OutputSource, outputRegex *regexp.Regexp, invert bool) *ProcessOutputMatch {
	return &ProcessOutputMatch{Process: process, OutputSource: source, OutputRegex: outputRegex, InvertMatch: invert, id: baseName(process.Path)}
}

func (p *ProcessOutputMatch) IDs() []string { return []string{p.id} }

func (p *ProcessOutputMatch) Get(ctx context.Context) []Sample[measurement.BinaryState] {
	result, err := p.Process.run(ctx)
	if err != nil {
		return []Sample[measurement.BinaryState]{Failed[measurement.BinaryState](err)}
	}
	output := result.stdout
	if p.OutputSource == OutputStderr {
		output = result.stderr
	}

	placeholders := map[string]string{"stdout": result.stdout, "stderr": result.stderr}
	matched := false
	if match := p.OutputRegex.FindStringSubmatch(output); match != nil {
		matched = true
		for i, v := range match {
			if v != "" || i == 0 {
				placeholders[captureKey(i)] = v
			}
		}
	}
	p.LastPlaceholders = placeholders

	return []Sample[measurement.BinaryState]{Ok(measurement.NewBinaryState(matched != p.InvertMatch))}
}

func captureKey(i int) string {
	return "capture[" + itoa(i) + "]"
}
