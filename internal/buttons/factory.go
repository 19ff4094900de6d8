package buttons

import (
	"fmt"
	"log/slog"
	"os"
)

// New builds the sampler selected by cfg.Sampler. Keyboard samplers read from
// input. An empty sampler kind means GPIO.
func New(cfg Config, input *os.File, logger *slog.Logger) (Sampler, error) {
	kind := Kind(cfg.Sampler)
	if kind == "" {
		kind = KindGPIO
	}

	count := cfg.ButtonCount()
	if count < 1 {
		return nil, fmt.Errorf("no buttons configured")
	}

	switch kind {
	case KindGPIO:
		return newGPIOFromConfig(cfg, logger)
	case KindKeyboard:
		return NewKeyboard(count, KeyModeRaw, input, logger)
	case KindKeyboardLine:
		return NewKeyboard(count, KeyModeLine, input, logger)
	case KindHybrid:
		g, err := newGPIOFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		keys, err := NewKeyboard(min(count, MaxKeyboardButtons), KeyModeRaw, input, logger)
		if err != nil {
			return nil, err
		}
		return NewHybrid(g, keys), nil
	default:
		return nil, fmt.Errorf("unknown sampler %q", cfg.Sampler)
	}
}

func newGPIOFromConfig(cfg Config, logger *slog.Logger) (*GPIO, error) {
	if len(cfg.Pins) == 0 {
		return nil, fmt.Errorf("GPIO sampler needs at least one pin")
	}
	pull, err := ParsePull(cfg.Pull)
	if err != nil {
		return nil, err
	}
	driver, err := driverByName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return newGPIO(cfg.Pins, pull, cfg.ActiveHigh(), driver, logger), nil
}
