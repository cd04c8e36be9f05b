package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/config"
	"github.com/flo-at/minmon/internal/logging"
	"github.com/flo-at/minmon/internal/report"
)

// buildReport resolves cfg.Report into a runnable *report.Report, or
// nil if reporting is disabled — mirroring lib.rs's from_config, which
// only wires a Report when the top-level [report] table isn't
// disabled.
func buildReport(cfg config.Report, actions *action.Registry, root zerolog.Logger) (*report.Report, error) {
	logger := logging.Component(root, "engine")

	if cfg.Disable {
		logger.Info().Msg("reporting is disabled")
		return nil, nil
	}

	when, err := report.NewWhen(cfg.Interval, cfg.Cron == "", cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	reportLogger := logging.Component(root, "report")

	var events []*report.Event
	for _, ec := range cfg.Events {
		if ec.Disable {
			logger.Info().Str("event", ec.Name).Msg("report event is disabled")
			continue
		}
		act, err := resolveAction(actions, ec.Action, false)
		if err != nil {
			return nil, fmt.Errorf("report event %q: %w", ec.Name, err)
		}
		event, err := report.NewEvent(ec.Name, ec.Placeholders, act)
		if err != nil {
			return nil, fmt.Errorf("report event %q: %w", ec.Name, err)
		}
		events = append(events, event)
	}

	logger.Info().Int("events", len(events)).Msg("report initialized")
	return &report.Report{
		Name:         "report",
		When:         when,
		Placeholders: cfg.Placeholders,
		Events:       events,
		OnEventError: func(eventName, errText string) {
			reportLogger.Error().Str("event", eventName).Msg(errText)
		},
	}, nil
}
