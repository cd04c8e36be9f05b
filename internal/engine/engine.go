package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/check"
	"github.com/flo-at/minmon/internal/config"
	"github.com/flo-at/minmon/internal/logging"
	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/report"
	"github.com/flo-at/minmon/internal/uptime"
)

// Engine is the fully wired daemon: a live action registry (kept
// alive only through the checks/report that reference it), the
// checks to run, and the optional report to fire — plus the
// scheduling loop of spec.md §5.
type Engine struct {
	checks []check.Check
	report *report.Report
	logger zerolog.Logger
}

// Build resolves a parsed config.Config into an Engine, wiring actions
// first, then checks, then the report — mirroring lib.rs's
// init_actions/init_checks/from_config call order.
func Build(cfg *config.Config, root zerolog.Logger) (*Engine, error) {
	if err := uptime.Init(); err != nil {
		return nil, err
	}

	actions, err := buildActions(cfg.Actions, root)
	if err != nil {
		return nil, err
	}

	checks, err := buildChecks(cfg.Checks, actions, root)
	if err != nil {
		return nil, err
	}

	rep, err := buildReport(cfg.Report, actions, root)
	if err != nil {
		return nil, err
	}

	return &Engine{
		checks: checks,
		report: rep,
		logger: logging.Component(root, "engine"),
	}, nil
}

// Run drives every check and the report until ctx is cancelled
// (SIGINT/SIGTERM per spec.md §6), then waits for all of them to
// observe the cancellation and return. Each check and the report get
// their own goroutine; per spec.md §5 a check never runs two ticks of
// itself concurrently, so each goroutine runs a plain
// jittered-start-then-sequential-tick loop rather than a free-running
// ticker.
func (e *Engine) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, c := range e.checks {
		wg.Add(1)
		go func(c check.Check) {
			defer wg.Done()
			e.runCheck(ctx, c)
		}(c)
	}

	if e.report != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.runReport(ctx, e.report)
		}()
	}

	wg.Wait()
	e.logger.Info().Msg("engine stopped")
}

func (e *Engine) runCheck(ctx context.Context, c check.Check) {
	interval := c.Interval()
	if interval <= 0 {
		e.logger.Error().Str("check", c.Name()).Msg("check interval must be > 0, skipping")
		return
	}

	jitter := time.Duration(rand.Int63n(int64(interval)))
	select {
	case <-ctx.Done():
		return
	case <-time.After(jitter):
	}

	for {
		c.Run(ctx, globalPlaceholders())

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (e *Engine) runReport(ctx context.Context, r *report.Report) {
	next := r.When.Next(time.Now())
	for {
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		r.Trigger(ctx, globalPlaceholders())
		next = r.When.Next(time.Now())
	}
}

// globalPlaceholders builds the top-level placeholder layer (spec.md
// §3's process/system uptime pair) fresh on every tick, since it's a
// live clock reading rather than a fixed config value.
func globalPlaceholders() placeholder.Map {
	return uptime.Placeholders()
}
