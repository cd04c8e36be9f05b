package action

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/placeholder"
)

// Log renders its template against placeholders and writes it at a
// configured level. It never fails.
type Log struct {
	Logger   zerolog.Logger
	Level    zerolog.Level
	Template string
}

func (l *Log) Trigger(_ context.Context, placeholders placeholder.Map) error {
	text := placeholder.Render(l.Template, placeholders)
	l.Logger.WithLevel(l.Level).Msg(text)
	return nil
}
