// Package uptime tracks process and system uptime and renders them
// into the global placeholder map (spec.md §4.1a), grounded on
// uptime.rs's Once-guarded process/system start times.
package uptime

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flo-at/minmon/internal/placeholder"
)

const uptimePath = "/proc/uptime"

var (
	once             sync.Once
	processStart     time.Time
	systemUptimeBase time.Duration
	initErr          error
)

// Init records the process start instant and the system uptime as of
// that instant. It is safe to call repeatedly; only the first call
// takes effect, mirroring uptime.rs's sync.Once semantics.
func Init() error {
	once.Do(func() {
		processStart = time.Now()
		systemUptimeBase, initErr = readSystemUptime(uptimePath)
	})
	return initErr
}

// Process returns the time elapsed since Init was called.
func Process() time.Duration {
	return time.Since(processStart)
}

// System returns the host's total uptime: the uptime recorded at
// Init plus the elapsed process time since.
func System() time.Duration {
	return systemUptimeBase + Process()
}

func readSystemUptime(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("error reading from %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, fmt.Errorf("could not read from %s", path)
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return 0, fmt.Errorf("could not read uptime from %s", path)
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("could not read uptime from %s: %w", path, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Placeholders builds the global placeholder layer named by spec.md §3:
// minmon_uptime/system_uptime as whole seconds, plus their
// `_iso` ISO-8601 duration counterparts, matching the
// seconds-plus-ISO pairing internal/statemachine uses for
// alarm_last_duration/alarm_last_duration_iso.
func Placeholders() placeholder.Map {
	process, sys := Process(), System()
	return placeholder.Map{
		"minmon_uptime":     fmt.Sprintf("%d", int64(process.Seconds())),
		"minmon_uptime_iso": formatDuration(process),
		"system_uptime":     fmt.Sprintf("%d", int64(sys.Seconds())),
		"system_uptime_iso": formatDuration(sys),
	}
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int64(d.Seconds())
	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	var b strings.Builder
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	b.WriteString("T")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	fmt.Fprintf(&b, "%dS", seconds)
	return b.String()
}
