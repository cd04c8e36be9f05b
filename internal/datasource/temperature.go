package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flo-at/minmon/internal/measurement"
)

const hwmonRoot = "/sys/class/hwmon"

// SensorID names a hwmon temperature sensor by chip name and label
// (e.g. chip "coretemp" label "Package id 0"), matching the
// original's libsensors-based addressing without requiring a cgo
// binding to libsensors.
type SensorID struct {
	Chip  string
	Label string
}

func (s SensorID) String() string { return fmt.Sprintf("%s[%s]", s.Chip, s.Label) }

// Temperature reports the current reading of each configured sensor
// via the kernel's hwmon sysfs interface.
type Temperature struct {
	Sensors []SensorID

	ids []string
}

// NewTemperature derives the id list from the sensor addresses.
func NewTemperature(sensors []SensorID) *Temperature {
	ids := make([]string, len(sensors))
	for i, s := range sensors {
		ids[i] = s.String()
	}
	return &Temperature{Sensors: sensors, ids: ids}
}

func (t *Temperature) IDs() []string { return t.ids }

func (t *Temperature) Get(_ context.Context) []Sample[measurement.Temperature] {
	res := make([]Sample[measurement.Temperature], 0, len(t.Sensors))
	for _, s := range t.Sensors {
		res = append(res, readSensor(s))
	}
	return res
}

func readSensor(id SensorID) Sample[measurement.Temperature] {
	milliCelsius, err := findHwmonTempInput(id)
	if err != nil {
		return Failed[measurement.Temperature](err)
	}
	t, err := measurement.NewTemperature(int16(milliCelsius / 1000))
	if err != nil {
		return Failed[measurement.Temperature](err)
	}
	return Ok(t)
}

// findHwmonTempInput scans /sys/class/hwmon for a chip matching
// id.Chip, then its tempN_label files for one matching id.Label,
// returning the paired tempN_input value in milli-Celsius.
func findHwmonTempInput(id SensorID) (int64, error) {
	entries, err := os.ReadDir(hwmonRoot)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", hwmonRoot, err)
	}
	for _, entry := range entries {
		dir := filepath.Join(hwmonRoot, entry.Name())
		name, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil || strings.TrimSpace(string(name)) != id.Chip {
			continue
		}
		labels, _ := filepath.Glob(filepath.Join(dir, "temp*_label"))
		for _, labelPath := range labels {
			labelData, err := os.ReadFile(labelPath)
			if err != nil || strings.TrimSpace(string(labelData)) != id.Label {
				continue
			}
			inputPath := strings.TrimSuffix(labelPath, "_label") + "_input"
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return 0, fmt.Errorf("could not read temperature: %w", err)
			}
			return strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
		}
	}
	return 0, fmt.Errorf("sensor '%s' not found", id)
}
