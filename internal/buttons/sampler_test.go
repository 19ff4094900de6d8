package buttons

import (
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

type fakeDriver struct {
	openErr error
	levels  map[int]bool
	bad     map[int]bool
	pulls   map[int]Pull
	closed  bool
}

func (f *fakeDriver) name() string { return "fake" }
func (f *fakeDriver) open() error  { return f.openErr }
func (f *fakeDriver) close() error { f.closed = true; return nil }

func (f *fakeDriver) input(pin int, pull Pull) (func() bool, error) {
	if f.bad[pin] {
		return nil, errors.New("busy")
	}
	if f.pulls == nil {
		f.pulls = map[int]Pull{}
	}
	f.pulls[pin] = pull
	return func() bool { return f.levels[pin] }, nil
}

func TestGPIO_ActiveLevels(t *testing.T) {
	drv := &fakeDriver{levels: map[int]bool{4: true, 5: false}}

	high := newGPIO([]int{4, 5}, PullDown, true, drv, testLogger())
	if err := high.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := high.Sample(); !slices.Equal(got, []bool{true, false}) {
		t.Errorf("active high sample = %v", got)
	}
	if drv.pulls[4] != PullDown {
		t.Errorf("pull = %q, want down", drv.pulls[4])
	}

	low := newGPIO([]int{4, 5}, PullUp, false, drv, testLogger())
	if err := low.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := low.Sample(); !slices.Equal(got, []bool{false, true}) {
		t.Errorf("active low sample = %v", got)
	}
}

func TestGPIO_Degrades(t *testing.T) {
	t.Run("driver unavailable", func(t *testing.T) {
		drv := &fakeDriver{openErr: errors.New("no gpiomem"), levels: map[int]bool{4: true}}
		g := newGPIO([]int{4}, PullOff, true, drv, testLogger())
		if err := g.Setup(); err != nil {
			t.Fatalf("Setup returned %v, want nil", err)
		}
		if got := g.Sample(); got[0] {
			t.Error("unavailable GPIO reads as pressed")
		}
		if err := g.Close(); err != nil || drv.closed {
			t.Errorf("Close closed a driver that never opened")
		}
	})

	t.Run("single pin unavailable", func(t *testing.T) {
		drv := &fakeDriver{levels: map[int]bool{4: true, 5: true}, bad: map[int]bool{5: true}}
		g := newGPIO([]int{4, 5}, PullOff, true, drv, testLogger())
		if err := g.Setup(); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		if got := g.Sample(); !slices.Equal(got, []bool{true, false}) {
			t.Errorf("Sample = %v, want [true false]", got)
		}
		if err := g.Close(); err != nil || !drv.closed {
			t.Error("Close did not release the driver")
		}
	})
}

func TestHybrid_OR(t *testing.T) {
	gpio := &scripted{count: 4, samples: [][]bool{{false, true, false, true}}}
	keys := &scripted{count: 2, samples: [][]bool{{false, false}, {true, true}}}
	h := NewHybrid(gpio, keys)

	if h.Count() != 4 {
		t.Errorf("Count = %d, want 4", h.Count())
	}
	if got := h.Sample(); !slices.Equal(got, []bool{false, true, false, true}) {
		t.Errorf("first sample = %v", got)
	}
	if got := h.Sample(); !slices.Equal(got, []bool{true, true, false, true}) {
		t.Errorf("second sample = %v", got)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !gpio.closed || !keys.closed {
		t.Error("Close did not close both samplers")
	}
}

func TestToggles(t *testing.T) {
	tg := newToggles(3)

	if on, ok := tg.press(1); !ok || !on {
		t.Errorf("first press = %v,%v", on, ok)
	}
	if on, ok := tg.press(1); !ok || on {
		t.Errorf("second press = %v,%v", on, ok)
	}
	if _, ok := tg.press(7); ok {
		t.Error("press outside range accepted")
	}
	if got := tg.snapshot(); slices.Contains(got, true) {
		t.Errorf("pair of presses left %v", got)
	}
}

func TestKeyboard_LineModeFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	k, err := NewKeyboard(10, KeyModeLine, r, testLogger())
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}
	if err := k.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if got := k.Sample(); slices.Contains(got, true) {
		t.Errorf("idle sample = %v", got)
	}

	w.Write([]byte("7\n"))
	got := k.Sample()
	if !got[7] {
		t.Errorf("button 7 not toggled on: %v", got)
	}

	w.Write([]byte("77x\n"))
	if got := k.Sample(); !got[7] {
		t.Error("pair of toggles changed button 7")
	}

	w.Write([]byte("7\n"))
	if got := k.Sample(); got[7] {
		t.Error("button 7 still on after toggling off")
	}

	w.Close()
	k.Sample()
	if k.available {
		t.Error("sampler still polling after EOF")
	}
	if err := k.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestKeyboard_RawModeWithoutTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	k, err := NewKeyboard(4, KeyModeRaw, r, testLogger())
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}
	if err := k.Setup(); err != nil {
		t.Fatalf("Setup returned %v, want degraded sampler", err)
	}

	w.Write([]byte("0"))
	if got := k.Sample(); !slices.Equal(got, []bool{false, false, false, false}) {
		t.Errorf("degraded sample = %v", got)
	}
}

func TestKeyboard_RawModeOnTerminal(t *testing.T) {
	ptm, pts, err := termios.Pty()
	if err != nil {
		t.Skipf("no pseudo terminal available: %v", err)
	}
	defer ptm.Close()
	defer pts.Close()

	k, err := NewKeyboard(4, KeyModeRaw, pts, testLogger())
	if err != nil {
		t.Fatalf("NewKeyboard: %v", err)
	}
	if err := k.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !k.available {
		t.Fatal("raw sampler disabled on a terminal")
	}

	var attr unix.Termios
	if err := termios.Tcgetattr(pts.Fd(), &attr); err != nil {
		t.Fatalf("Tcgetattr: %v", err)
	}
	if attr.Lflag&unix.ICANON != 0 {
		t.Error("terminal still canonical after Setup")
	}

	// No newline: cbreak delivers the key on its own.
	if _, err := ptm.Write([]byte("2")); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	var got []bool
	for time.Now().Before(deadline) {
		if got = k.Sample(); got[2] {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !slices.Equal(got, []bool{false, false, true, false}) {
		t.Errorf("sample = %v, want button 2 toggled on", got)
	}

	if err := k.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := termios.Tcgetattr(pts.Fd(), &attr); err != nil {
		t.Fatalf("Tcgetattr: %v", err)
	}
	if attr.Lflag&unix.ICANON == 0 {
		t.Error("terminal mode not restored by Close")
	}
}

func TestNewKeyboard_Limits(t *testing.T) {
	if _, err := NewKeyboard(11, KeyModeLine, os.Stdin, testLogger()); err == nil {
		t.Error("accepted 11 keyboard buttons")
	}
	if _, err := NewKeyboard(0, KeyModeLine, os.Stdin, testLogger()); err == nil {
		t.Error("accepted zero keyboard buttons")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gpio default", Config{Pins: []int{4, 5}}, false},
		{"rpio", Config{Sampler: "gpio", Driver: "rpio", Pins: []int{4}}, false},
		{"line", Config{Sampler: "keyboard-line", Count: 4}, false},
		{"hybrid", Config{Sampler: "hybrid", Pins: []int{4, 5}}, false},
		{"no buttons", Config{Sampler: "keyboard"}, true},
		{"bad pull", Config{Pins: []int{4}, Pull: "sideways"}, true},
		{"bad driver", Config{Pins: []int{4}, Driver: "gpiod"}, true},
		{"bad sampler", Config{Sampler: "mouse", Pins: []int{4}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, os.Stdin, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Count() != tt.cfg.ButtonCount() {
				t.Errorf("Count = %d, want %d", s.Count(), tt.cfg.ButtonCount())
			}
		})
	}
}

func TestParsePull(t *testing.T) {
	for in, want := range map[string]Pull{"": PullOff, "UP": PullUp, "down": PullDown, "float": PullOff} {
		got, err := ParsePull(in)
		if err != nil || got != want {
			t.Errorf("ParsePull(%q) = %q, %v", in, got, err)
		}
	}
}
