// Package measurement defines the typed sample values MinMon's data
// sources produce and its sinks/filters consume.
package measurement

import (
	"fmt"
	"strconv"
	"strings"
)

// Measurement is a validated sample value carrying its own display unit.
type Measurement interface {
	fmt.Stringer
	Unit() string
}

// BinaryState is an on/off sample, e.g. a systemd unit's active state.
type BinaryState struct {
	data bool
}

// NewBinaryState constructs a BinaryState. It never fails.
func NewBinaryState(data bool) BinaryState { return BinaryState{data: data} }

func (b BinaryState) Data() bool    { return b.data }
func (b BinaryState) Unit() string  { return "" }
func (b BinaryState) String() string {
	if b.data {
		return "true"
	}
	return "false"
}

// DataSize is a byte count, e.g. filesystem usage or network throughput.
type DataSize struct {
	data uint64
}

// MaxDataSize is the largest representable DataSize.
var MaxDataSize = DataSize{data: ^uint64(0)}

// NewDataSize constructs a DataSize. It never fails.
func NewDataSize(data uint64) DataSize { return DataSize{data: data} }

func (d DataSize) Data() uint64  { return d.data }
func (d DataSize) Unit() string  { return "B" }
func (d DataSize) String() string {
	return strconv.FormatUint(d.data, 10) + d.Unit()
}

// Add returns the sum of two DataSize values.
func (d DataSize) Add(other DataSize) DataSize { return DataSize{data: d.data + other.data} }

// Sub returns d - other. The caller must ensure d >= other; wrap-around
// handling for monotonic counters lives in internal/datasource.
func (d DataSize) Sub(other DataSize) DataSize { return DataSize{data: d.data - other.data} }

const dataSizePrecision = 3

// AsStringBinary renders the value using 1024-based units (KiB/MiB/GiB).
func (d DataSize) AsStringBinary() string {
	return prettyDataSize(float64(d.data), d.Unit(), 1024, []string{"KiB", "MiB", "GiB"})
}

// AsStringDecimal renders the value using 1000-based units (kB/MB/GB).
func (d DataSize) AsStringDecimal() string {
	return prettyDataSize(float64(d.data), d.Unit(), 1000, []string{"kB", "MB", "GB"})
}

func prettyDataSize(bytes float64, baseUnit string, divisor float64, units []string) string {
	unit := baseUnit
	for _, testUnit := range units {
		if bytes >= divisor {
			bytes /= divisor
			unit = testUnit
		} else {
			break
		}
	}
	numString := strconv.FormatFloat(bytes, 'f', dataSizePrecision, 64)
	numString = strings.TrimRight(numString, "0")
	numString = strings.TrimRight(numString, ".")
	return numString + unit
}

// Level is a percentage sample, 0-100 inclusive.
type Level struct {
	data uint8
}

// NewLevel constructs a Level, rejecting values above 100.
func NewLevel(data uint8) (Level, error) {
	if data > 100 {
		return Level{}, fmt.Errorf("'level' cannot be greater than 100")
	}
	return Level{data: data}, nil
}

func (l Level) Data() uint8   { return l.data }
func (l Level) Unit() string  { return "%" }
func (l Level) String() string {
	return strconv.FormatUint(uint64(l.data), 10) + l.Unit()
}

// StatusCode is an opaque byte-sized status, e.g. a process exit code.
type StatusCode struct {
	data uint8
}

// NewStatusCode constructs a StatusCode. It never fails.
func NewStatusCode(data uint8) StatusCode { return StatusCode{data: data} }

func (s StatusCode) Data() uint8   { return s.data }
func (s StatusCode) Unit() string  { return "" }
func (s StatusCode) String() string {
	return strconv.FormatUint(uint64(s.data), 10)
}

// Temperature is a signed Celsius sample, physically bounded at -273.
type Temperature struct {
	data int16
}

// NewTemperature constructs a Temperature, rejecting values below absolute zero.
func NewTemperature(data int16) (Temperature, error) {
	if data < -273 {
		return Temperature{}, fmt.Errorf("'temperature' cannot be less than -273°C")
	}
	return Temperature{data: data}, nil
}

func (t Temperature) Data() int16  { return t.data }
func (t Temperature) Unit() string { return "°C" }
func (t Temperature) String() string {
	return strconv.FormatInt(int64(t.data), 10) + t.Unit()
}

// Integer is a generic signed sample, e.g. a process's stdout parsed as a number.
type Integer struct {
	data int64
}

// NewInteger constructs an Integer. It never fails.
func NewInteger(data int64) Integer { return Integer{data: data} }

func (i Integer) Data() int64   { return i.data }
func (i Integer) Unit() string  { return "" }
func (i Integer) String() string {
	return strconv.FormatInt(i.data, 10)
}

// Add returns the sum of two Integer values.
func (i Integer) Add(other Integer) Integer { return Integer{data: i.data + other.data} }

// Sub returns i - other.
func (i Integer) Sub(other Integer) Integer { return Integer{data: i.data - other.data} }
