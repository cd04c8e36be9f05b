// Package logging builds MinMon's component loggers: a zerolog.Logger
// per named component (check, report, action, engine, ...), writing to
// stdout, stderr, or the systemd journal per spec.md §6's [log]
// section. Grounded on the structured-logger shape of
// jhkimqd-chaos-utils/pkg/reporting/logger.go, adapted from zerolog's
// console/JSON writers to this daemon's three-target model.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

// Level mirrors spec.md §6's log.level enum.
type Level string

const (
	LevelDebug   Level = "Debug"
	LevelInfo    Level = "Info"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// ZerologLevel exposes the Debug/Info/Warning/Error → zerolog.Level
// mapping to callers outside this package (internal/engine, wiring a
// Log action's configured level).
func (l Level) ZerologLevel() zerolog.Level { return l.zerologLevel() }

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarning:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Target mirrors spec.md §6's log.target enum.
type Target string

const (
	TargetStdout  Target = "Stdout"
	TargetStderr  Target = "Stderr"
	TargetJournal Target = "Journal"
)

// Root builds the base logger all component loggers derive from.
func Root(level Level, target Target) zerolog.Logger {
	var w io.Writer
	switch target {
	case TargetStderr:
		w = os.Stderr
	case TargetJournal:
		w = journalWriter{}
	default:
		w = os.Stdout
	}
	return zerolog.New(w).Level(level.zerologLevel()).With().Timestamp().Logger()
}

// Component returns a child logger tagged with a "component" field,
// the way a running daemon names its check/report/action/engine
// sub-loggers.
func Component(root zerolog.Logger, name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

// journalWriter adapts the systemd journal's send-a-record API
// (journal.Send) to zerolog's LevelWriter so each record carries the
// matching journal priority instead of always logging at INFO.
type journalWriter struct{}

func (journalWriter) Write(p []byte) (int, error) {
	return journalWriter{}.WriteLevel(zerolog.NoLevel, p)
}

func (journalWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if err := journal.Send(string(p), journalPriority(level), nil); err != nil {
		return 0, fmt.Errorf("could not write to journal: %w", err)
	}
	return len(p), nil
}

func journalPriority(level zerolog.Level) journal.Priority {
	switch level {
	case zerolog.DebugLevel:
		return journal.PriDebug
	case zerolog.WarnLevel:
		return journal.PriWarning
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return journal.PriErr
	default:
		return journal.PriInfo
	}
}
