// Package supervisor implements spec.md's systemd/sd_notify
// integration: a READY=1 datagram on start, and WATCHDOG=1 keepalives
// at half the supervisor's configured watchdog interval (spec.md §6
// "Supervisor integration").
package supervisor

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// NotifyReady sends READY=1 if the process was launched under a
// supervisor (NOTIFY_SOCKET set); it is a no-op otherwise.
func NotifyReady() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	return err
}

// NotifyStopping sends STOPPING=1, used during orderly shutdown.
func NotifyStopping() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	return err
}

// WatchdogInterval returns the supervisor's configured watchdog
// timeout and whether the watchdog is enabled for this process.
func WatchdogInterval() (time.Duration, bool, error) {
	return daemon.SdWatchdogEnabled(false)
}

// RunWatchdog sends WATCHDOG=1 every interval/2 until ctx is done, as
// required to keep a systemd watchdog-enabled unit alive. Callers
// should only start this when WatchdogInterval reports enabled=true.
func RunWatchdog(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
