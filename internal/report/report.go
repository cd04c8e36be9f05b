// Package report implements spec.md's C11: a named group of events,
// each dispatching one action, fired on an interval or cron schedule.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/placeholder"
)

// When selects a report's firing schedule: exactly one of Interval or
// Schedule is set (report.rs's ReportWhen enum).
type When struct {
	Interval time.Duration
	Schedule cron.Schedule
}

// NewWhen validates that interval and cron aren't both set and parses
// the cron expression if given, grounded on report.rs's Report::new.
func NewWhen(intervalSeconds uint32, intervalSet bool, cronExpr string) (When, error) {
	cronSet := cronExpr != ""
	switch {
	case intervalSet && cronSet:
		return When{}, fmt.Errorf("'interval' and 'cron' cannot be set both")
	case intervalSet && intervalSeconds == 0:
		return When{}, fmt.Errorf("'interval' cannot be 0")
	case cronSet:
		schedule, err := cron.ParseStandard(cronExpr)
		if err != nil {
			return When{}, fmt.Errorf("could not parse cron expression: %w", err)
		}
		return When{Schedule: schedule}, nil
	case intervalSet:
		return When{Interval: time.Duration(intervalSeconds) * time.Second}, nil
	default:
		return When{Interval: time.Duration(defaultIntervalSeconds) * time.Second}, nil
	}
}

const defaultIntervalSeconds = 604800 // one week, matching config::default::report_interval

// Next returns the next time this schedule should fire after from.
func (w When) Next(from time.Time) time.Time {
	if w.Schedule != nil {
		return w.Schedule.Next(from)
	}
	return from.Add(w.Interval)
}

// Event binds one named action invocation within a report.
type Event struct {
	Name         string
	Placeholders placeholder.Map
	Action       *action.Base
}

// NewEvent validates the event has a non-empty name.
func NewEvent(name string, placeholders placeholder.Map, act *action.Base) (*Event, error) {
	if name == "" {
		return nil, fmt.Errorf("'name' cannot be empty")
	}
	return &Event{Name: name, Placeholders: placeholders, Action: act}, nil
}

func (e *Event) trigger(ctx context.Context, p placeholder.Map) error {
	p = placeholder.Merge(p, placeholder.Map{"event_name": e.Name}, e.Placeholders)
	return e.Action.Trigger(ctx, p)
}

// Report is the [report] configuration table: a schedule plus the
// events it fires.
type Report struct {
	Name         string
	When         When
	Placeholders placeholder.Map
	Events       []*Event

	// OnEventError reports a swallowed event dispatch failure.
	OnEventError func(eventName, err string)
}

// Trigger fires every event in configured order; failures are logged
// and swallowed, matching report.rs's trigger loop.
func (r *Report) Trigger(ctx context.Context, globalPlaceholders placeholder.Map) {
	p := placeholder.Merge(globalPlaceholders, r.Placeholders)
	for _, e := range r.Events {
		if err := e.trigger(ctx, p); err != nil && r.OnEventError != nil {
			r.OnEventError(e.Name, err.Error())
		}
	}
}
