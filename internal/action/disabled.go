package action

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/placeholder"
)

// Disabled is the no-op action bound to `Action.disable = true`
// (spec.md §4.6): it only writes a debug line, matching the teacher's
// own "triggered but is disabled" log line shape.
type Disabled struct {
	Logger zerolog.Logger
	Name   string
}

func (d *Disabled) Trigger(_ context.Context, _ placeholder.Map) error {
	d.Logger.Debug().Str("action", d.Name).Msg("action is disabled, skipping")
	return nil
}
