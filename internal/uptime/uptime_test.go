package uptime

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSystemUptimeParsesFirstField(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/uptime"
	require.NoError(t, os.WriteFile(path, []byte("12345.67 98765.43\n"), 0o644))

	d, err := readSystemUptime(path)
	require.NoError(t, err)
	assert.InDelta(t, 12345.67, d.Seconds(), 0.01)
}

func TestFormatDurationMatchesISO8601Shape(t *testing.T) {
	assert.Equal(t, "PT5S", formatDuration(5*time.Second))
	assert.Equal(t, "PT1M5S", formatDuration(65*time.Second))
	assert.Equal(t, "P1DT0S", formatDuration(24*time.Hour))
}

func TestInitIsIdempotent(t *testing.T) {
	err := Init()
	require.NoError(t, err)
	first := processStart
	err = Init()
	require.NoError(t, err)
	assert.Equal(t, first, processStart)
}

func TestPlaceholdersUsesSpecNames(t *testing.T) {
	require.NoError(t, Init())
	p := Placeholders()
	for _, key := range []string{"minmon_uptime", "minmon_uptime_iso", "system_uptime", "system_uptime_iso"} {
		assert.Contains(t, p, key)
	}
}
