package datasource

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMeminfoParsesFields(t *testing.T) {
	content := "MemTotal:           1234 kB\n" +
		"MemFree:            2345 kB\n" +
		"MemAvailable:       3456 kB\n" +
		"Cached:             4567 kB\n" +
		"SwapTotal:          5678 kB\n" +
		"SwapFree:           6789 kB\n"
	dir := t.TempDir()
	path := dir + "/meminfo"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := readMeminfo(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), info.memTotal)
	assert.Equal(t, uint64(3456), info.memAvailable)
	assert.Equal(t, uint64(5678), info.swapTotal)
	assert.Equal(t, uint64(6789), info.swapFree)
}

func TestNewMemoryUsageRequiresMemoryOrSwap(t *testing.T) {
	_, err := NewMemoryUsage(false, false)
	require.Error(t, err)
}
