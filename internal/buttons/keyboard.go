package buttons

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// KeyMode selects how the keyboard sampler reads stdin.
type KeyMode string

// Keyboard modes.
const (
	// KeyModeRaw switches the terminal to cbreak so keys arrive without Enter.
	KeyModeRaw KeyMode = "raw"
	// KeyModeLine leaves the terminal alone; digits arrive when a line ends.
	KeyModeLine KeyMode = "line"
)

// maxReadsPerSample bounds how much input one Sample drains.
const maxReadsPerSample = 16

// toggles is the latched on/off table driven by digit keys.
type toggles struct {
	state []bool
}

func newToggles(n int) *toggles {
	return &toggles{state: make([]bool, n)}
}

// press flips button i and returns its new state. ok is false when i does
// not name a button.
func (t *toggles) press(i int) (on, ok bool) {
	if i < 0 || i >= len(t.state) {
		return false, false
	}
	t.state[i] = !t.state[i]
	return t.state[i], true
}

func (t *toggles) snapshot() []bool {
	return append([]bool(nil), t.state...)
}

func (t *toggles) reset() {
	clear(t.state)
}

// Keyboard emulates buttons with digit keys: pressing '0'..'9' toggles the
// matching button.
type Keyboard struct {
	count     int
	mode      KeyMode
	input     *os.File
	fd        uintptr
	table     *toggles
	available bool
	saved     *unix.Termios
	buf       []byte
	logger    *slog.Logger
}

// NewKeyboard creates a keyboard sampler reading from input (usually os.Stdin).
func NewKeyboard(count int, mode KeyMode, input *os.File, logger *slog.Logger) (*Keyboard, error) {
	if count < 1 || count > MaxKeyboardButtons {
		return nil, fmt.Errorf("keyboard sampler supports 1..%d buttons, got %d", MaxKeyboardButtons, count)
	}
	if mode != KeyModeRaw && mode != KeyModeLine {
		return nil, fmt.Errorf("unknown keyboard mode %q", mode)
	}
	return &Keyboard{
		count:  count,
		mode:   mode,
		input:  input,
		fd:     input.Fd(),
		table:  newToggles(count),
		buf:    make([]byte, 64),
		logger: logger,
	}, nil
}

// Count returns the number of emulated buttons.
func (k *Keyboard) Count() int {
	return k.count
}

// Setup prepares stdin. In raw mode a non-terminal input disables the
// sampler with a warning rather than failing.
func (k *Keyboard) Setup() error {
	if k.mode == KeyModeRaw {
		if !isatty.IsTerminal(k.fd) {
			k.logger.Warn("Keyboard input is not a terminal, keyboard buttons disabled")
			return nil
		}
		var saved unix.Termios
		if err := termios.Tcgetattr(k.fd, &saved); err != nil {
			k.logger.Warn("Failed to read terminal attributes, keyboard buttons disabled", "error", err)
			return nil
		}
		cbreak := saved
		termios.Cfmakecbreak(&cbreak)
		if err := termios.Tcsetattr(k.fd, termios.TCSANOW, &cbreak); err != nil {
			k.logger.Warn("Failed to switch terminal to cbreak, keyboard buttons disabled", "error", err)
			return nil
		}
		k.saved = &saved
	}

	k.available = true
	k.logger.Info("Keyboard buttons enabled",
		"mode", string(k.mode),
		"keys", fmt.Sprintf("0-%d", k.count-1))
	return nil
}

// Sample drains pending keystrokes without blocking and returns the toggle table.
func (k *Keyboard) Sample() []bool {
	k.drain()
	return k.table.snapshot()
}

func (k *Keyboard) drain() {
	for range maxReadsPerSample {
		if !k.available {
			return
		}
		ready, err := pollReadable(k.fd)
		if err != nil {
			k.logger.Warn("Keyboard poll failed, keyboard buttons disabled", "error", err)
			k.available = false
			return
		}
		if !ready {
			return
		}

		n, err := k.input.Read(k.buf)
		k.handle(k.buf[:n])
		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			k.logger.Info("Keyboard input closed")
			k.available = false
			return
		}
		if err != nil {
			k.logger.Warn("Keyboard read failed, keyboard buttons disabled", "error", err)
			k.available = false
			return
		}
	}
}

func (k *Keyboard) handle(keys []byte) {
	for _, b := range keys {
		if b < '0' || b > '9' {
			continue
		}
		button := int(b - '0')
		on, ok := k.table.press(button)
		if !ok {
			continue
		}
		k.logger.Debug("Keyboard toggled button", "button", button, "pressed", on)
	}
}

// Close restores the terminal and clears the toggle table.
func (k *Keyboard) Close() error {
	k.available = false
	k.table.reset()
	if k.saved == nil {
		return nil
	}
	saved := k.saved
	k.saved = nil
	if err := termios.Tcsetattr(k.fd, termios.TCSANOW, saved); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}

// pollReadable reports whether fd has input (or a hangup) pending.
func pollReadable(fd uintptr) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
}
