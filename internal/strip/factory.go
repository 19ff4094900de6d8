package strip

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Driver selects the output device of a strip.
type Driver string

// Supported drivers.
const (
	DriverSPI     Driver = "spi"     // WS281x over SPI via periph.io nrzled
	DriverConsole Driver = "console" // colored blocks on a terminal
	DriverNone    Driver = "none"    // memory only
)

// Config describes one physical strip.
type Config struct {
	Name       string `toml:"name"`
	Driver     string `toml:"driver"`
	Device     string `toml:"device"`
	Count      int    `toml:"count"`
	Brightness int    `toml:"brightness"`
	FreqKHz    int    `toml:"freq_khz"`
	RefreshMs  int    `toml:"refresh_ms"`
}

// New opens the strip described by cfg.
func New(cfg Config, logger *slog.Logger) (Strip, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("strip %q: LED count must be positive, got %d", cfg.Name, cfg.Count)
	}

	switch Driver(cfg.Driver) {
	case DriverSPI, "":
		s, err := newNRZ(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SPI LED strip",
			"strip", cfg.Name,
			"device", cfg.Device,
			"count", cfg.Count,
			"brightness", cfg.Brightness)
		return s, nil

	case DriverConsole:
		refresh := time.Duration(cfg.RefreshMs) * time.Millisecond
		logger.Info("Using console LED preview", "strip", cfg.Name, "count", cfg.Count, "refresh", refresh)
		return newConsole(cfg.Name, cfg.Count, os.Stderr, refresh), nil

	case DriverNone:
		logger.Info("Using memory-only LED strip", "strip", cfg.Name, "count", cfg.Count)
		return NewMemory(cfg.Name, cfg.Count), nil

	default:
		return nil, fmt.Errorf("strip %q: unknown driver %q", cfg.Name, cfg.Driver)
	}
}

// OpenChain opens every configured strip and concatenates them. Strips opened
// before a failure are closed again.
func OpenChain(cfgs []Config, logger *slog.Logger) (*Chain, error) {
	strips := make([]Strip, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := New(cfg, logger)
		if err != nil {
			for _, opened := range strips {
				_ = opened.Close()
			}
			return nil, err
		}
		strips = append(strips, s)
	}
	return NewChain(strips...), nil
}
