package alarm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/alarm"
	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/sink"
	"github.com/flo-at/minmon/internal/statemachine"
)

type intSink struct{ threshold int }

func (s intSink) Classify(data int) sink.Decision {
	if data >= s.threshold {
		return sink.Bad
	}
	return sink.Good
}

func (s intSink) AddPlaceholders(data int, p placeholder.Map) placeholder.Map {
	return p
}

type countingAction struct {
	calls int
	last  placeholder.Map
}

func (c *countingAction) Trigger(_ context.Context, p placeholder.Map) error {
	c.calls++
	c.last = p
	return nil
}

func newAlarm(t *testing.T, cycles, repeat, recover, errorRepeat uint32) (*alarm.Alarm[int], *countingAction, *countingAction, *countingAction, *countingAction) {
	t.Helper()
	fsm, err := statemachine.New(cycles, repeat, recover, errorRepeat, "test")
	require.NoError(t, err)

	badAct := &countingAction{}
	recoverAct := &countingAction{}
	errorAct := &countingAction{}
	errorRecoverAct := &countingAction{}

	a := &alarm.Alarm[int]{
		Name:               "test-alarm",
		ID:                 "id-1",
		Placeholders:       placeholder.New(),
		Sink:               intSink{threshold: 80},
		FSM:                fsm,
		Action:             action.NewBase("bad", placeholder.New(), time.Second, badAct),
		RecoverAction:      action.NewBase("recover", placeholder.New(), time.Second, recoverAct),
		ErrorAction:        action.NewBase("error", placeholder.New(), time.Second, errorAct),
		ErrorRecoverAction: action.NewBase("error-recover", placeholder.New(), time.Second, errorRecoverAct),
	}
	return a, badAct, recoverAct, errorAct, errorRecoverAct
}

func TestPutDataTriggersBadThenRecover(t *testing.T) {
	a, bad, recover, _, _ := newAlarm(t, 1, 0, 1, 0)

	a.PutData(context.Background(), 90, placeholder.New())
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, "id-1", bad.last["check_id"])
	assert.Equal(t, "Bad", bad.last["alarm_state"])

	a.PutData(context.Background(), 10, placeholder.New())
	assert.Equal(t, 1, recover.calls)
	assert.Equal(t, "Good", recover.last["alarm_state"])
}

func TestPutErrorTriggersErrorThenErrorRecover(t *testing.T) {
	a, _, _, errorAct, errorRecoverAct := newAlarm(t, 1, 0, 1, 0)

	a.PutError(context.Background(), "boom", placeholder.New())
	assert.Equal(t, 1, errorAct.calls)
	assert.Equal(t, "boom", errorAct.last["check_error"])

	a.PutData(context.Background(), 10, placeholder.New())
	assert.Equal(t, 1, errorRecoverAct.calls)
}

func TestInvertFlipsDecision(t *testing.T) {
	a, bad, _, _, _ := newAlarm(t, 1, 0, 1, 0)
	a.Invert = true

	a.PutData(context.Background(), 10, placeholder.New()) // Good sink result, inverted to Bad
	assert.Equal(t, 1, bad.calls)
}

func TestNilActionsAreSkippedSafely(t *testing.T) {
	fsm, err := statemachine.New(1, 0, 1, 0, "test")
	require.NoError(t, err)
	a := &alarm.Alarm[int]{
		Name: "no-actions",
		ID:   "id-1",
		Sink: intSink{threshold: 80},
		FSM:  fsm,
	}
	a.PutData(context.Background(), 90, placeholder.New())
}
