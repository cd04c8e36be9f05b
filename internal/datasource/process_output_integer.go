package datasource

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/flo-at/minmon/internal/measurement"
)

// OutputSource selects which stream a process-output data source reads.
type OutputSource int

const (
	OutputStdout OutputSource = iota
	OutputStderr
)

// ProcessOutputInteger parses a process's output as an Integer. After
// each Get, LastPlaceholders holds that run's stdout/stderr (and
// regex_match when a regex matched). datasource.Source's contract does
// not carry these, and the check driver does not read LastPlaceholders,
// so they are not merged into alarm placeholders.
type ProcessOutputInteger struct {
	Process      ProcessConfig
	OutputSource OutputSource
	OutputRegex  *regexp.Regexp

	id               string
	LastPlaceholders map[string]string
}

// NewProcessOutputInteger validates the optional capture regex has
// exactly one capture group.
func NewProcessOutputInteger(process ProcessConfig, source OutputSource, outputRegex *regexp.Regexp) (*ProcessOutputInteger, error) {
	if outputRegex != nil && outputRegex.NumSubexp() != 1 {
		return nil, fmt.Errorf("output regex must have exactly one capture group")
	}
	return &ProcessOutputInteger{Process: process, OutputSource: source, OutputRegex: outputRegex, id: baseName(process.Path)}, nil
}

func (p *ProcessOutputInteger) IDs() []string { return []string{p.id} }

func (p *ProcessOutputInteger) Get(ctx context.Context) []Sample[measurement.Integer] {
	result, err := p.Process.run(ctx)
	if err != nil {
		return []Sample[measurement.Integer]{Failed[measurement.Integer](err)}
	}
	output := result.stdout
	if p.OutputSource == OutputStderr {
		output = result.stderr
	}

	placeholders := map[string]string{"stdout": result.stdout, "stderr": result.stderr}
	var numberStr string
	if p.OutputRegex != nil {
		match := p.OutputRegex.FindStringSubmatch(output)
		if match == nil {
			p.LastPlaceholders = placeholders
			return []Sample[measurement.Integer]{Failed[measurement.Integer](fmt.Errorf("output did not match the regex pattern"))}
		}
		placeholders["regex_match"] = match[0]
		numberStr = match[1]
	} else {
		numberStr = output
	}
	p.LastPlaceholders = placeholders

	n, err := strconv.ParseInt(strings.TrimSpace(numberStr), 10, 64)
	if err != nil {
		return []Sample[measurement.Integer]{Failed[measurement.Integer](fmt.Errorf("could not parse output string into integer: %w", err))}
	}
	return []Sample[measurement.Integer]{Ok(measurement.NewInteger(n))}
}
