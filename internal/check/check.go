// Package check implements spec.md's C10: the driver that binds a
// data source to its per-id optional filter and per-id alarms, and
// runs one sampling cycle per tick (spec.md §4.5). Per spec.md §4.2,
// the check calls filter(value)/error() and the bound alarms only ever
// see the (possibly reduced) post-filter value.
package check

import (
	"context"
	"fmt"
	"time"

	"github.com/flo-at/minmon/internal/alarm"
	"github.com/flo-at/minmon/internal/datasource"
	"github.com/flo-at/minmon/internal/filter"
	"github.com/flo-at/minmon/internal/placeholder"
)

// Check is the type-erased interface the scheduler drives; each
// concrete Base[T] implements it for its measurement kind.
type Check interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context, globalPlaceholders placeholder.Map)
}

// Base binds one datasource.Source[T], an optional per-id filter, and
// a per-id list of alarms into a runnable Check.
type Base[T any] struct {
	CheckName    string
	CheckInterval time.Duration
	Timeout      time.Duration
	Placeholders placeholder.Map

	Source  datasource.Source[T]
	Filters []filter.Filter[T] // one per id, parallel to Source.IDs(); nil entries mean "no filter for this id"
	Alarms  [][]*alarm.Alarm[T] // one slice per id, parallel to Source.IDs()

	// OnError reports check-level failures (a data source call that
	// timed out); used for logging by the caller.
	OnError func(err string)
}

func (c *Base[T]) Name() string             { return c.CheckName }
func (c *Base[T]) Interval() time.Duration  { return c.CheckInterval }

// Run executes exactly one tick: bounded data-source call, optional
// per-id filter pass, then per-id alarm fan-out, in the order spec.md
// §4.5 describes. It never returns an error; all failures are routed
// to the bound alarms' PutError or to OnError.
func (c *Base[T]) Run(ctx context.Context, globalPlaceholders placeholder.Map) {
	basePlaceholders := placeholder.Merge(globalPlaceholders, c.Placeholders, placeholder.Map{"check_name": c.CheckName})

	samples := c.getWithTimeout(ctx)

	ids := c.Source.IDs()
	for i, sample := range samples {
		if i >= len(ids) {
			break
		}
		if !sample.Present && sample.Err == nil {
			continue // no value yet this tick (e.g. a monotonic counter's first reading)
		}

		var f filter.Filter[T]
		if i < len(c.Filters) {
			f = c.Filters[i]
		}

		var alarms []*alarm.Alarm[T]
		if i < len(c.Alarms) {
			alarms = c.Alarms[i]
		}

		if sample.Err != nil {
			if f != nil {
				f.Error()
			}
			for _, a := range alarms {
				a.PutError(ctx, sample.Err.Error(), basePlaceholders)
			}
			continue
		}

		value := sample.Value
		if f != nil {
			value = f.Filter(value)
		}
		for _, a := range alarms {
			a.PutData(ctx, value, basePlaceholders)
		}
	}
}

// getWithTimeout invokes the data source bounded by c.Timeout. If the
// call does not return before the timeout expires, every id gets a
// timeout error sample (spec.md §4.5 step 2) — the underlying call is
// left to exit on its own via ctx cancellation.
func (c *Base[T]) getWithTimeout(ctx context.Context) []datasource.Sample[T] {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	ch := make(chan []datasource.Sample[T], 1)
	go func() { ch <- c.Source.Get(ctx) }()

	select {
	case samples := <-ch:
		return samples
	case <-ctx.Done():
		ids := c.Source.IDs()
		samples := make([]datasource.Sample[T], len(ids))
		for i := range samples {
			samples[i] = datasource.Failed[T](fmt.Errorf("failed to get data: %w", ctx.Err()))
		}
		if c.OnError != nil {
			c.OnError(fmt.Sprintf("check %q: data source call timed out", c.CheckName))
		}
		return samples
	}
}
