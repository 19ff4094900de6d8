package systemd

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recorder struct {
	states []string
	err    error
}

func (r *recorder) notify(state string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.states = append(r.states, state)
	return true, nil
}

func TestNotifier_WatchdogFromEnv(t *testing.T) {
	t.Setenv("WATCHDOG_USEC", "2000000")
	t.Setenv("WATCHDOG_PID", "")

	n := NewNotifier(testLogger())
	if got := n.WatchdogInterval(); got != time.Second {
		t.Errorf("WatchdogInterval() = %s, want 1s", got)
	}
}

func TestNotifier_NoWatchdog(t *testing.T) {
	t.Setenv("WATCHDOG_USEC", "")

	rec := &recorder{}
	n := NewNotifier(testLogger(), withNotify(rec.notify, time.Now))
	n.Heartbeat()
	n.Heartbeat()
	if len(rec.states) != 0 {
		t.Errorf("heartbeat without watchdog sent %v", rec.states)
	}
}

func TestNotifier_HeartbeatRateLimited(t *testing.T) {
	t.Setenv("WATCHDOG_USEC", "")

	now := time.Unix(0, 0)
	rec := &recorder{}
	n := NewNotifier(testLogger(),
		WithWatchdogInterval(time.Second),
		withNotify(rec.notify, func() time.Time { return now }))

	// 30 fps for 2.5s
	for range 75 {
		n.Heartbeat()
		now = now.Add(time.Second / 30)
	}

	if got := len(rec.states); got != 3 {
		t.Errorf("sent %d pings, want 3", got)
	}
	for _, s := range rec.states {
		if s != "WATCHDOG=1" {
			t.Errorf("state = %q, want WATCHDOG=1", s)
		}
	}
}

func TestNotifier_Lifecycle(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(testLogger(), withNotify(rec.notify, time.Now))

	n.Ready()
	n.Status("idle")
	n.Status("idle")
	n.Status("amplify")
	n.Stopping()

	want := []string{"READY=1", "STATUS=idle", "STATUS=amplify", "STOPPING=1"}
	if !slices.Equal(rec.states, want) {
		t.Errorf("states = %v, want %v", rec.states, want)
	}
}

func TestNotifier_ErrorIsLogged(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	n := NewNotifier(testLogger(), withNotify(rec.notify, time.Now))
	n.Ready()
	n.Stopping()
}

func TestNotifier_Socket(t *testing.T) {
	dir, err := os.MkdirTemp("", "sd")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Skipf("unixgram sockets unavailable: %v", err)
	}
	defer conn.Close()

	t.Setenv("NOTIFY_SOCKET", path)
	t.Setenv("WATCHDOG_USEC", "")

	NewNotifier(testLogger()).Ready()

	buf := make([]byte, 64)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	nr, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:nr]); got != "READY=1" {
		t.Errorf("received %q, want READY=1", got)
	}
}
