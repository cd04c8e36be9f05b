// Command minmon boots the daemon: load the TOML config named on the
// command line, wire the engine, notify the supervisor, and run until
// SIGINT/SIGTERM. Grounded on reference_teacher/main.go's
// signal.Notify-plus-select-loop shape, adapted to context
// cancellation and zerolog instead of the teacher's log package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flo-at/minmon/internal/config"
	"github.com/flo-at/minmon/internal/engine"
	"github.com/flo-at/minmon/internal/logging"
	"github.com/flo-at/minmon/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <config.toml>", os.Args[0])
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	root := logging.Root(cfg.Log.Level, cfg.Log.Target)
	root.Info().Str("config", os.Args[1]).Msg("starting minmon")

	eng, err := engine.Build(cfg, root)
	if err != nil {
		root.Error().Err(err).Msg("failed to initialize engine")
		return err
	}

	if err := supervisor.NotifyReady(); err != nil {
		root.Warn().Err(err).Msg("could not notify supervisor of readiness")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interval, enabled, err := supervisor.WatchdogInterval(); err != nil {
		root.Warn().Err(err).Msg("could not read watchdog interval")
	} else if enabled {
		go supervisor.RunWatchdog(ctx, interval)
	}

	eng.Run(ctx)

	if err := supervisor.NotifyStopping(); err != nil {
		root.Warn().Err(err).Msg("could not notify supervisor of shutdown")
	}
	root.Info().Msg("minmon stopped")
	return nil
}
