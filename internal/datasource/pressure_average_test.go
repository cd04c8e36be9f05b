package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePressureLine(t *testing.T) {
	line, err := parsePressureLine("some avg10=1.00 avg60=2.00 avg300=3.99 total=4")
	require.NoError(t, err)
	assert.False(t, line.full)
	assert.Equal(t, uint8(1), line.avg10)
	assert.Equal(t, uint8(2), line.avg60)
	assert.Equal(t, uint8(3), line.avg300)

	line, err = parsePressureLine("full avg10=5.00 avg60=6.00 avg300=7.99 total=8")
	require.NoError(t, err)
	assert.True(t, line.full)
	assert.Equal(t, uint8(5), line.avg10)
}

func TestParsePressureFileRequiresSomeLine(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/pressure"
	require.NoError(t, writeTestFile(path, "full avg10=1.00 avg60=2.00 avg300=3.00 total=1\n"))
	_, err := parsePressureFile(path)
	require.Error(t, err)
}

func TestNewPressureAverageRequiresResource(t *testing.T) {
	_, err := NewPressureAverage(false, PressureNone, PressureNone, true, false, false)
	require.Error(t, err)
}

func TestNewPressureAverageRequiresWindow(t *testing.T) {
	_, err := NewPressureAverage(true, PressureNone, PressureNone, false, false, false)
	require.Error(t, err)
}

func TestNewPressureAverageIDLayout(t *testing.T) {
	p, err := NewPressureAverage(true, PressureBoth, PressureSome, true, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu/avg10", "io/some/avg10", "io/full/avg10", "memory/some/avg10"}, p.IDs())
}
