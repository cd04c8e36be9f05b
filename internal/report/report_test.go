package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/report"
)

func TestNewWhenRejectsBothIntervalAndCron(t *testing.T) {
	_, err := report.NewWhen(60, true, "* * * * *")
	require.Error(t, err)
}

func TestNewWhenRejectsZeroInterval(t *testing.T) {
	_, err := report.NewWhen(0, true, "")
	require.Error(t, err)
}

func TestNewWhenDefaultsToWeeklyInterval(t *testing.T) {
	w, err := report.NewWhen(0, false, "")
	require.NoError(t, err)
	assert.Equal(t, 604800*time.Second, w.Interval)
}

func TestNewEventRejectsEmptyName(t *testing.T) {
	_, err := report.NewEvent("", placeholder.New(), nil)
	require.Error(t, err)
}

type recordingAction struct{ got placeholder.Map }

func (r *recordingAction) Trigger(_ context.Context, p placeholder.Map) error {
	r.got = p
	return nil
}

func TestReportTriggerFansOutToEvents(t *testing.T) {
	inner := &recordingAction{}
	act := action.NewBase("a", placeholder.New(), time.Second, inner)
	ev, err := report.NewEvent("weekly-summary", placeholder.New(), act)
	require.NoError(t, err)

	r := &report.Report{Name: "r", Events: []*report.Event{ev}}
	r.Trigger(context.Background(), placeholder.New())
	assert.Equal(t, "weekly-summary", inner.got["event_name"])
}
