package datasource

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/flo-at/minmon/internal/measurement"
)

const (
	pressureCPUPath    = "/proc/pressure/cpu"
	pressureIOPath     = "/proc/pressure/io"
	pressureMemoryPath = "/proc/pressure/memory"
)

const pressureParseError = "could not parse pressure file"

// PressureChoice selects which of PSI's "some"/"full" lines a resource
// contributes.
type PressureChoice int

const (
	PressureNone PressureChoice = iota
	PressureSome
	PressureFull
	PressureBoth
)

// PressureAverage reports Linux PSI (pressure stall information)
// averages for cpu/io/memory, each over a chosen window (avg10/60/300).
type PressureAverage struct {
	CPU            bool
	IO             PressureChoice
	Memory         PressureChoice
	Avg10          bool
	Avg60          bool
	Avg300         bool

	ids []string
}

// NewPressureAverage validates the resource and window selections and
// derives the ordered id list (matching pressure_average.rs's layout:
// cpu/{avg}, io/some|full/{avg}, memory/some|full/{avg}).
func NewPressureAverage(cpu bool, io, memory PressureChoice, avg10, avg60, avg300 bool) (*PressureAverage, error) {
	if !cpu && io == PressureNone && memory == PressureNone {
		return nil, fmt.Errorf("at least one of 'cpu', 'io', or 'memory' needs to be enabled")
	}
	if !avg10 && !avg60 && !avg300 {
		return nil, fmt.Errorf("at least one of 'avg10', 'avg60', or 'avg300' needs to be enabled")
	}

	var avgIDs []string
	if avg10 {
		avgIDs = append(avgIDs, "avg10")
	}
	if avg60 {
		avgIDs = append(avgIDs, "avg60")
	}
	if avg300 {
		avgIDs = append(avgIDs, "avg300")
	}

	var ids []string
	if cpu {
		for _, a := range avgIDs {
			ids = append(ids, "cpu/"+a)
		}
	}
	appendChoice := func(resource string, choice PressureChoice) {
		switch choice {
		case PressureSome:
			for _, a := range avgIDs {
				ids = append(ids, resource+"/some/"+a)
			}
		case PressureFull:
			for _, a := range avgIDs {
				ids = append(ids, resource+"/full/"+a)
			}
		case PressureBoth:
			for _, a := range avgIDs {
				ids = append(ids, resource+"/some/"+a)
			}
			for _, a := range avgIDs {
				ids = append(ids, resource+"/full/"+a)
			}
		}
	}
	appendChoice("io", io)
	appendChoice("memory", memory)

	return &PressureAverage{CPU: cpu, IO: io, Memory: memory, Avg10: avg10, Avg60: avg60, Avg300: avg300, ids: ids}, nil
}

func (p *PressureAverage) IDs() []string { return p.ids }

type pressureLine struct {
	full               bool
	avg10, avg60, avg300 uint8
}

func parsePressureLine(line string) (pressureLine, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return pressureLine{}, fmt.Errorf(pressureParseError)
	}
	var res pressureLine
	switch fields[0] {
	case "some":
		res.full = false
	case "full":
		res.full = true
	default:
		return pressureLine{}, fmt.Errorf(pressureParseError)
	}
	parseAvg := func(field, label string) (uint8, error) {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 || parts[0] != label {
			return 0, fmt.Errorf(pressureParseError)
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf(pressureParseError)
		}
		return uint8(v), nil
	}
	var err error
	if res.avg10, err = parseAvg(fields[1], "avg10"); err != nil {
		return pressureLine{}, err
	}
	if res.avg60, err = parseAvg(fields[2], "avg60"); err != nil {
		return pressureLine{}, err
	}
	if res.avg300, err = parseAvg(fields[3], "avg300"); err != nil {
		return pressureLine{}, err
	}
	return res, nil
}

type pressureFileContent struct {
	some pressureLine
	full *pressureLine
}

func parsePressureFile(path string) (pressureFileContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pressureFileContent{}, fmt.Errorf("could not open %s for reading: %w", path, err)
	}
	var content pressureFileContent
	var haveSome bool
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		parsed, err := parsePressureLine(line)
		if err != nil {
			return pressureFileContent{}, err
		}
		if parsed.full {
			p := parsed
			content.full = &p
		} else {
			content.some = parsed
			haveSome = true
		}
	}
	if !haveSome {
		return pressureFileContent{}, fmt.Errorf(pressureParseError)
	}
	return content, nil
}

func (p *PressureAverage) addFromLine(line pressureLine, res *[]Sample[measurement.Level]) {
	push := func(v uint8) {
		level, err := measurement.NewLevel(v)
		if err != nil {
			*res = append(*res, Failed[measurement.Level](err))
		} else {
			*res = append(*res, Ok(level))
		}
	}
	if p.Avg10 {
		push(line.avg10)
	}
	if p.Avg60 {
		push(line.avg60)
	}
	if p.Avg300 {
		push(line.avg300)
	}
}

func (p *PressureAverage) addFromError(err error, res *[]Sample[measurement.Level]) {
	if p.Avg10 {
		*res = append(*res, Failed[measurement.Level](err))
	}
	if p.Avg60 {
		*res = append(*res, Failed[measurement.Level](err))
	}
	if p.Avg300 {
		*res = append(*res, Failed[measurement.Level](err))
	}
}

func (p *PressureAverage) addFromFile(choice PressureChoice, path string, res *[]Sample[measurement.Level]) {
	if choice == PressureNone {
		return
	}
	content, err := parsePressureFile(path)
	if err != nil {
		p.addFromError(err, res)
		if choice == PressureBoth {
			p.addFromError(err, res)
		}
		return
	}
	if choice == PressureSome || choice == PressureBoth {
		p.addFromLine(content.some, res)
	}
	if choice == PressureFull || choice == PressureBoth {
		if content.full != nil {
			p.addFromLine(*content.full, res)
		} else {
			p.addFromError(fmt.Errorf(pressureParseError), res)
		}
	}
}

func (p *PressureAverage) Get(_ context.Context) []Sample[measurement.Level] {
	var res []Sample[measurement.Level]
	if p.CPU {
		p.addFromFile(PressureSome, pressureCPUPath, &res)
	}
	p.addFromFile(p.IO, pressureIOPath, &res)
	p.addFromFile(p.Memory, pressureMemoryPath, &res)
	return res
}
