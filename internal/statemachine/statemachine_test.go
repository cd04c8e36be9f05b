package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/statemachine"
)

func TestNewRejectsZeroCycles(t *testing.T) {
	_, err := statemachine.New(0, 0, 1, 0, "")
	require.Error(t, err)

	_, err = statemachine.New(1, 0, 0, 0, "")
	require.Error(t, err)
}

func TestTriggerAction(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)

	trigger, errRecover := sm.Bad()
	assert.True(t, trigger)
	assert.False(t, errRecover)
}

func TestTriggerActionRepeat(t *testing.T) {
	sm, err := statemachine.New(1, 7, 1, 0, "")
	require.NoError(t, err)

	trigger, _ := sm.Bad()
	assert.True(t, trigger)
	for i := 0; i < 6; i++ {
		trigger, _ = sm.Bad()
		assert.False(t, trigger)
	}
	trigger, _ = sm.Bad()
	assert.True(t, trigger)
}

func TestTriggerRecoverAction(t *testing.T) {
	sm, err := statemachine.New(1, 0, 5, 0, "")
	require.NoError(t, err)

	sm.Bad()
	for i := 0; i < 4; i++ {
		trigger, _ := sm.Good()
		assert.False(t, trigger)
	}
	trigger, _ := sm.Good()
	assert.True(t, trigger)
}

func TestTriggerErrorAction(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)
	assert.True(t, sm.Error())
}

func TestTriggerErrorActionRepeat(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 7, "")
	require.NoError(t, err)
	assert.True(t, sm.Error())
	for i := 0; i < 6; i++ {
		assert.False(t, sm.Error())
	}
	assert.True(t, sm.Error())
}

func TestTriggerErrorRecoverAction(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)
	sm.Error()
	trigger, errRecover := sm.Good()
	assert.False(t, trigger)
	assert.True(t, errRecover)
}

func TestAddPlaceholdersGood(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)
	p := sm.AddPlaceholders(placeholder.New())
	assert.Equal(t, "Good", p["alarm_state"])
	assert.NotEmpty(t, p["alarm_timestamp"])
	assert.Len(t, p, 2)
}

func TestAddPlaceholdersBad(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)
	sm.Bad()
	p := sm.AddPlaceholders(placeholder.New())
	assert.Equal(t, "Bad", p["alarm_state"])
	assert.NotEmpty(t, p["alarm_uuid"])
	assert.NotEmpty(t, p["alarm_last_duration"])
	assert.NotEmpty(t, p["alarm_last_duration_iso"])
}

func TestAddPlaceholdersErrorWithoutBad(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)
	sm.Error()
	p := sm.AddPlaceholders(placeholder.New())
	assert.Equal(t, "Error", p["alarm_state"])
	assert.NotEmpty(t, p["error_uuid"])
	assert.NotEmpty(t, p["error_timestamp"])
	assert.NotEmpty(t, p["alarm_last_duration"])
}

// Error-shadowing over Good: spec.md §8 scenario 4.
func TestErrorShadowedGood(t *testing.T) {
	sm, err := statemachine.New(2, 0, 1, 0, "")
	require.NoError(t, err)

	assert.True(t, sm.Error())
	trigger, errRecover := sm.Bad()
	assert.False(t, trigger) // absorbed by Good (cycles=2, first bad doesn't transition)
	assert.True(t, errRecover)
}

// Error-shadowing over Bad: spec.md §8 scenario 5.
func TestErrorShadowedBad(t *testing.T) {
	sm, err := statemachine.New(1, 0, 2, 0, "")
	require.NoError(t, err)

	trigger, _ := sm.Bad()
	assert.True(t, trigger)
	assert.True(t, sm.Error())
	trigger, errRecover := sm.Good()
	assert.False(t, trigger) // needs 2 goods to recover
	assert.True(t, errRecover)
}

// Single bad-then-good: spec.md §8 scenario 1.
func TestSingleBadThenGood(t *testing.T) {
	sm, err := statemachine.New(1, 0, 1, 0, "")
	require.NoError(t, err)

	trigger, _ := sm.Bad()
	require.True(t, trigger)
	badPlaceholders := sm.AddPlaceholders(placeholder.New())
	badUUID := badPlaceholders["alarm_uuid"]
	assert.NotEmpty(t, badUUID)

	trigger, _ = sm.Good()
	require.True(t, trigger)
	goodPlaceholders := sm.AddPlaceholders(placeholder.New())
	assert.Equal(t, "Good", goodPlaceholders["alarm_state"])
	assert.Equal(t, badUUID, goodPlaceholders["alarm_uuid"])
}

// Hysteresis: spec.md §8 scenario 3.
func TestHysteresis(t *testing.T) {
	sm, err := statemachine.New(1, 0, 5, 0, "")
	require.NoError(t, err)

	trigger, _ := sm.Bad()
	assert.True(t, trigger)
	for i := 0; i < 4; i++ {
		trigger, _ = sm.Good()
		assert.False(t, trigger)
	}
	trigger, _ = sm.Good()
	assert.True(t, trigger)
}
