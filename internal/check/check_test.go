package check_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/alarm"
	"github.com/flo-at/minmon/internal/check"
	"github.com/flo-at/minmon/internal/datasource"
	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/sink"
	"github.com/flo-at/minmon/internal/statemachine"
)

type fakeSource struct {
	ids     []string
	samples []datasource.Sample[int]
}

func (f *fakeSource) IDs() []string { return f.ids }
func (f *fakeSource) Get(_ context.Context) []datasource.Sample[int] { return f.samples }

type alwaysBad struct{}

func (alwaysBad) Classify(int) sink.Decision                          { return sink.Bad }
func (alwaysBad) AddPlaceholders(int, placeholder.Map) placeholder.Map { return placeholder.New() }

type countingAction struct{ calls int }

func (c *countingAction) Trigger(context.Context, placeholder.Map) error { c.calls++; return nil }

func newTestAlarm(t *testing.T) (*alarm.Alarm[int], *countingAction, *countingAction) {
	t.Helper()
	fsm, err := statemachine.New(1, 0, 1, 0, "t")
	require.NoError(t, err)
	bad := &countingAction{}
	errAct := &countingAction{}
	return &alarm.Alarm[int]{
		Name:        "a",
		ID:          "id-1",
		Sink:        alwaysBad{},
		FSM:         fsm,
		Action:      action.NewBase("bad", placeholder.New(), time.Second, bad),
		ErrorAction: action.NewBase("error", placeholder.New(), time.Second, errAct),
	}, bad, errAct
}

func TestCheckRunDispatchesDataToAlarm(t *testing.T) {
	a, bad, _ := newTestAlarm(t)
	src := &fakeSource{ids: []string{"id-1"}, samples: []datasource.Sample[int]{datasource.Ok(90)}}
	c := &check.Base[int]{CheckName: "c", CheckInterval: time.Second, Timeout: time.Second, Source: src, Alarms: [][]*alarm.Alarm[int]{{a}}}

	c.Run(context.Background(), placeholder.New())
	assert.Equal(t, 1, bad.calls)
}

func TestCheckRunRoutesErrorsToPutError(t *testing.T) {
	a, _, errAct := newTestAlarm(t)
	src := &fakeSource{ids: []string{"id-1"}, samples: []datasource.Sample[int]{datasource.Failed[int](fmt.Errorf("boom"))}}
	c := &check.Base[int]{CheckName: "c", CheckInterval: time.Second, Timeout: time.Second, Source: src, Alarms: [][]*alarm.Alarm[int]{{a}}}

	c.Run(context.Background(), placeholder.New())
	assert.Equal(t, 1, errAct.calls)
}

func TestCheckRunSkipsAbsentSamples(t *testing.T) {
	a, bad, errAct := newTestAlarm(t)
	src := &fakeSource{ids: []string{"id-1"}, samples: []datasource.Sample[int]{datasource.Skip[int]()}}
	c := &check.Base[int]{CheckName: "c", CheckInterval: time.Second, Timeout: time.Second, Source: src, Alarms: [][]*alarm.Alarm[int]{{a}}}

	c.Run(context.Background(), placeholder.New())
	assert.Equal(t, 0, bad.calls)
	assert.Equal(t, 0, errAct.calls)
}

func TestCheckRunTimesOutWhenSourceBlocks(t *testing.T) {
	a, _, errAct := newTestAlarm(t)
	src := &blockingSource{ids: []string{"id-1"}}
	c := &check.Base[int]{CheckName: "c", CheckInterval: time.Second, Timeout: 10 * time.Millisecond, Source: src, Alarms: [][]*alarm.Alarm[int]{{a}}}

	c.Run(context.Background(), placeholder.New())
	assert.Equal(t, 1, errAct.calls)
}

type blockingSource struct{ ids []string }

func (b *blockingSource) IDs() []string { return b.ids }
func (b *blockingSource) Get(ctx context.Context) []datasource.Sample[int] {
	<-ctx.Done()
	return nil
}
