package datasource

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/flo-at/minmon/internal/measurement"
)

const meminfoPath = "/proc/meminfo"

// MemoryUsage reports RAM and/or swap usage percentage, read from
// /proc/meminfo.
type MemoryUsage struct {
	Memory bool
	Swap   bool

	ids []string
}

// NewMemoryUsage validates that at least one of Memory/Swap is enabled.
func NewMemoryUsage(memory, swap bool) (*MemoryUsage, error) {
	if !memory && !swap {
		return nil, fmt.Errorf("either 'memory' or 'swap' or both need to be enabled")
	}
	var ids []string
	if memory {
		ids = append(ids, "Memory")
	}
	if swap {
		ids = append(ids, "Swap")
	}
	return &MemoryUsage{Memory: memory, Swap: swap, ids: ids}, nil
}

func (m *MemoryUsage) IDs() []string { return m.ids }

type meminfo struct {
	memTotal, memAvailable, swapTotal, swapFree uint64
}

func readMeminfo(path string) (meminfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return meminfo{}, fmt.Errorf("could not open %s for reading: %w", path, err)
	}
	defer f.Close()

	var info meminfo
	var haveTotal, haveAvailable, haveSwapTotal, haveSwapFree bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal"):
			info.memTotal, err = parseMeminfoValue(line)
			haveTotal = err == nil
		case strings.HasPrefix(line, "MemAvailable"):
			info.memAvailable, err = parseMeminfoValue(line)
			haveAvailable = err == nil
		case strings.HasPrefix(line, "SwapTotal"):
			info.swapTotal, err = parseMeminfoValue(line)
			haveSwapTotal = err == nil
		case strings.HasPrefix(line, "SwapFree"):
			info.swapFree, err = parseMeminfoValue(line)
			haveSwapFree = err == nil
		}
		if err != nil {
			return meminfo{}, fmt.Errorf("could not read %s from %s: %w", line, path, err)
		}
	}
	if !haveTotal || !haveAvailable || !haveSwapTotal || !haveSwapFree {
		return meminfo{}, fmt.Errorf("could not parse meminfo file")
	}
	return info, nil
}

func parseMeminfoValue(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed meminfo line %q", line)
	}
	return strconv.ParseUint(fields[1], 10, 64)
}

func (m *MemoryUsage) Get(_ context.Context) []Sample[measurement.Level] {
	info, err := readMeminfo(meminfoPath)
	if err != nil {
		res := make([]Sample[measurement.Level], 0, len(m.ids))
		for range m.ids {
			res = append(res, Failed[measurement.Level](err))
		}
		return res
	}

	var res []Sample[measurement.Level]
	if m.Memory {
		if info.memTotal == 0 {
			res = append(res, Failed[measurement.Level](fmt.Errorf("could not read memory usage")))
		} else {
			usage := (info.memTotal - info.memAvailable) * 100 / info.memTotal
			level, err := measurement.NewLevel(uint8(usage))
			if err != nil {
				res = append(res, Failed[measurement.Level](err))
			} else {
				res = append(res, Ok(level))
			}
		}
	}
	if m.Swap {
		if info.swapTotal == 0 {
			res = append(res, Failed[measurement.Level](fmt.Errorf("could not read swap usage")))
		} else {
			usage := (info.swapTotal - info.swapFree) * 100 / info.swapTotal
			level, err := measurement.NewLevel(uint8(usage))
			if err != nil {
				res = append(res, Failed[measurement.Level](err))
			} else {
				res = append(res, Ok(level))
			}
		}
	}
	return res
}
