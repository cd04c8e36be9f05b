package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/filter"
	"github.com/flo-at/minmon/internal/measurement"
)

func level(t *testing.T, v uint8) measurement.Level {
	t.Helper()
	l, err := measurement.NewLevel(v)
	require.NoError(t, err)
	return l
}

func TestAverageFilterRounding(t *testing.T) {
	f, err := filter.NewLevelAverage(5)
	require.NoError(t, err)

	assert.Equal(t, level(t, 1), f.Filter(level(t, 1)))   // identity
	assert.Equal(t, level(t, 6), f.Filter(level(t, 10)))  // even window, round up
	assert.Equal(t, level(t, 14), f.Filter(level(t, 30))) // odd window, round up
	assert.Equal(t, level(t, 11), f.Filter(level(t, 4)))  // even window, round down
	assert.Equal(t, level(t, 10), f.Filter(level(t, 3)))  // odd window, round up
}

func TestAverageFilterErrors(t *testing.T) {
	f, err := filter.NewLevelAverage(9)
	require.NoError(t, err)

	f.Error()
	assert.Equal(t, level(t, 1), f.Filter(level(t, 1)))
	f.Error()
	assert.Equal(t, level(t, 2), f.Filter(level(t, 3)))
	f.Error()
	assert.Equal(t, level(t, 3), f.Filter(level(t, 5)))
	f.Error()
	assert.Equal(t, level(t, 4), f.Filter(level(t, 7)))
	f.Error()
	assert.Equal(t, level(t, 5), f.Filter(level(t, 9)))
}

func TestAverageFilterWindow(t *testing.T) {
	f, err := filter.NewLevelAverage(3)
	require.NoError(t, err)

	assert.Equal(t, level(t, 1), f.Filter(level(t, 1)))
	f.Error()
	assert.Equal(t, level(t, 2), f.Filter(level(t, 2)))
	assert.Equal(t, level(t, 3), f.Filter(level(t, 3))) // rolls off 1
	assert.Equal(t, level(t, 3), f.Filter(level(t, 4)))
	f.Error() // rolls off 2
	assert.Equal(t, level(t, 5), f.Filter(level(t, 5)))
}

func TestPeakFilter(t *testing.T) {
	f, err := filter.NewLevelPeak(3)
	require.NoError(t, err)

	assert.Equal(t, level(t, 1), f.Filter(level(t, 1)))
	assert.Equal(t, level(t, 2), f.Filter(level(t, 2)))
	assert.Equal(t, level(t, 3), f.Filter(level(t, 3)))
	assert.Equal(t, level(t, 3), f.Filter(level(t, 2))) // rolls off 1
	assert.Equal(t, level(t, 3), f.Filter(level(t, 1))) // rolls off 2
	assert.Equal(t, level(t, 2), f.Filter(level(t, 2))) // rolls off 3
	f.Error()
	assert.Equal(t, level(t, 10), f.Filter(level(t, 10)))
	f.Error()
	assert.Equal(t, level(t, 10), f.Filter(level(t, 9)))
	assert.Equal(t, level(t, 9), f.Filter(level(t, 8)))
	f.Error()
	f.Error()
	assert.Equal(t, level(t, 1), f.Filter(level(t, 1)))
}

func TestSumFilter(t *testing.T) {
	f, err := filter.NewDataSizeSum(3)
	require.NoError(t, err)

	size := func(v uint64) measurement.DataSize { return measurement.NewDataSize(v) }

	assert.Equal(t, size(1), f.Filter(size(1)))
	assert.Equal(t, size(3), f.Filter(size(2)))
	assert.Equal(t, size(6), f.Filter(size(3)))
	assert.Equal(t, size(9), f.Filter(size(4))) // rolls off 1
	f.Error()
	assert.Equal(t, size(9), f.Filter(size(5))) // rolls off 3
	f.Error()
	assert.Equal(t, size(5), f.Filter(size(0)))
	assert.Equal(t, size(0), f.Filter(size(0))) // rolls off 5
}
