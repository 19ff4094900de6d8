package led

import (
	"os"
	"strings"

	"github.com/smazurov/amplifier/internal/logging"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// board maps logical LED names to sysfs names for one board family.
type board struct {
	match string
	leds  map[string]string
}

var boards = []board{
	{match: "Raspberry Pi", leds: map[string]string{StatusLED: "ACT", "power": "PWR"}},
	{match: "NanoPC-T6", leds: map[string]string{StatusLED: "sys_led", "user": "usr_led"}},
	{match: "Orange Pi", leds: map[string]string{StatusLED: "green_led", "blue": "blue_led"}},
}

// New creates a new LED controller based on board detection
// Falls back to no-op controller if LEDs are not available.
func New(logger logging.Logger) Controller {
	return newForModel(detectBoard(), sysfsLEDPath, logger)
}

func newForModel(model, root string, logger logging.Logger) Controller {
	if logger != nil {
		logger.Info("Detecting board for LED control", "board_model", model)
	}

	for _, b := range boards {
		if strings.Contains(model, b.match) {
			if logger != nil {
				logger.Info("Using sysfs LED controller", "board", b.match, "status_led", b.leds[StatusLED])
			}
			return newSysfs(root, b.leds)
		}
	}

	if logger != nil {
		logger.Info("No LED support detected, using no-op controller", "board_model", model)
	}
	return newNoop(logger)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
