package measurement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/measurement"
)

func TestDataSizeAsStringBinary(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{999, "999B"},
		{9999, "9.765KiB"},
		{9999999, "9.537MiB"},
		{1024, "1KiB"},
		{1024 * 1024, "1MiB"},
		{1024 * 1024 * 1024, "1GiB"},
	}
	for _, c := range cases {
		got := measurement.NewDataSize(c.in).AsStringBinary()
		assert.Equal(t, c.want, got)
	}
}

func TestDataSizeAsStringDecimal(t *testing.T) {
	assert.Equal(t, "999B", measurement.NewDataSize(999).AsStringDecimal())
	assert.Equal(t, "1kB", measurement.NewDataSize(1000).AsStringDecimal())
	assert.Equal(t, "1MB", measurement.NewDataSize(1_000_000).AsStringDecimal())
}

func TestLevelRejectsAboveHundred(t *testing.T) {
	_, err := measurement.NewLevel(101)
	require.Error(t, err)

	l, err := measurement.NewLevel(100)
	require.NoError(t, err)
	assert.Equal(t, "100%", l.String())
}

func TestTemperatureRejectsBelowAbsoluteZero(t *testing.T) {
	_, err := measurement.NewTemperature(-274)
	require.Error(t, err)

	tmp, err := measurement.NewTemperature(-273)
	require.NoError(t, err)
	assert.Equal(t, "-273°C", tmp.String())
}

func TestDataSizeSubWrapsAreCallerResponsibility(t *testing.T) {
	a := measurement.NewDataSize(10)
	b := measurement.NewDataSize(3)
	assert.Equal(t, measurement.NewDataSize(7), a.Sub(b))
}

func TestIntegerAddSub(t *testing.T) {
	a := measurement.NewInteger(5)
	b := measurement.NewInteger(3)
	assert.Equal(t, measurement.NewInteger(8), a.Add(b))
	assert.Equal(t, measurement.NewInteger(2), a.Sub(b))
}
