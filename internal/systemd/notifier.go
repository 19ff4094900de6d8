package systemd

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports readiness, status and watchdog pings to the service
// manager over NOTIFY_SOCKET. Without a socket every call is a no-op.
type Notifier struct {
	logger   *slog.Logger
	notify   func(state string) (bool, error)
	now      func() time.Time
	interval time.Duration

	mu       sync.Mutex
	lastPing time.Time
	status   string
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithWatchdogInterval overrides the ping interval read from WATCHDOG_USEC.
func WithWatchdogInterval(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.interval = d
	}
}

// withNotify replaces the socket writer and clock.
func withNotify(notify func(string) (bool, error), now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		n.notify = notify
		n.now = now
	}
}

// NewNotifier creates a notifier. When the unit has WatchdogSec set, pings
// are sent at half the configured timeout.
func NewNotifier(logger *slog.Logger, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		logger: logger,
		notify: func(state string) (bool, error) { return daemon.SdNotify(false, state) },
		now:    time.Now,
	}
	if timeout, err := daemon.SdWatchdogEnabled(false); err != nil {
		logger.Warn("Invalid watchdog settings", "error", err)
	} else if timeout > 0 {
		n.interval = timeout / 2
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WatchdogInterval returns the ping interval, zero when the watchdog is off.
func (n *Notifier) WatchdogInterval() time.Duration {
	return n.interval
}

// Ready tells the service manager that startup finished.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping tells the service manager that shutdown began.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Status publishes a one-line status text. Repeated text is not resent.
func (n *Notifier) Status(text string) {
	n.mu.Lock()
	if text == n.status {
		n.mu.Unlock()
		return
	}
	n.status = text
	n.mu.Unlock()
	n.send(fmt.Sprintf("STATUS=%s", text))
}

// Heartbeat pings the watchdog at most once per interval. It is called
// from the frame loop, so a stalled loop stops the pings.
func (n *Notifier) Heartbeat() {
	if n.interval <= 0 {
		return
	}
	now := n.now()
	n.mu.Lock()
	if !n.lastPing.IsZero() && now.Sub(n.lastPing) < n.interval {
		n.mu.Unlock()
		return
	}
	n.lastPing = now
	n.mu.Unlock()
	n.send(daemon.SdNotifyWatchdog)
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(state)
	if err != nil {
		n.logger.Warn("Failed to notify service manager", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("Notified service manager", "state", state)
	}
}
