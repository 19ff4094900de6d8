package buttons

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// pinDriver abstracts the GPIO library. input returns a level reader that
// reports true for a high level.
type pinDriver interface {
	name() string
	open() error
	input(pin int, pull Pull) (func() bool, error)
	close() error
}

// GPIO samples buttons wired to GPIO pins addressed by BCM number.
type GPIO struct {
	pins       []int
	pull       Pull
	activeHigh bool
	driver     pinDriver
	readers    []func() bool
	opened     bool
	logger     *slog.Logger
}

func newGPIO(pins []int, pull Pull, activeHigh bool, driver pinDriver, logger *slog.Logger) *GPIO {
	return &GPIO{
		pins:       append([]int(nil), pins...),
		pull:       pull,
		activeHigh: activeHigh,
		driver:     driver,
		readers:    make([]func() bool, len(pins)),
		logger:     logger,
	}
}

// Count returns the number of configured pins.
func (g *GPIO) Count() int {
	return len(g.pins)
}

// Setup opens the GPIO driver and configures every pin as an input. Pins that
// cannot be configured read as released.
func (g *GPIO) Setup() error {
	if err := g.driver.open(); err != nil {
		g.logger.Warn("GPIO not available, buttons will read as released",
			"driver", g.driver.name(),
			"error", err)
		return nil
	}
	g.opened = true

	mapping := make([]string, 0, len(g.pins))
	for i, pin := range g.pins {
		read, err := g.driver.input(pin, g.pull)
		if err != nil {
			g.logger.Warn("GPIO pin not available, button will read as released",
				"button", i,
				"pin", pin,
				"error", err)
			continue
		}
		g.readers[i] = read
		mapping = append(mapping, fmt.Sprintf("Btn%d=GPIO%d", i, pin))
	}

	g.logger.Info("GPIO sampler initialized",
		"driver", g.driver.name(),
		"pins", len(g.pins),
		"pull", string(g.pull),
		"active_high", g.activeHigh,
		"mapping", strings.Join(mapping, ", "))
	return nil
}

// Sample reads every pin.
func (g *GPIO) Sample() []bool {
	out := make([]bool, len(g.pins))
	for i, read := range g.readers {
		if read != nil {
			out[i] = read() == g.activeHigh
		}
	}
	return out
}

// Close releases the driver.
func (g *GPIO) Close() error {
	if !g.opened {
		return nil
	}
	g.opened = false
	for i := range g.readers {
		g.readers[i] = nil
	}
	return g.driver.close()
}

// periphDriver uses periph.io, which works on every Raspberry Pi model and
// most other SBCs.
type periphDriver struct{}

func (periphDriver) name() string { return "periph" }

func (periphDriver) open() error {
	_, err := host.Init()
	return err
}

func (periphDriver) input(pin int, pull Pull) (func() bool, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d not found", pin)
	}

	var pp gpio.Pull
	switch pull {
	case PullUp:
		pp = gpio.PullUp
	case PullDown:
		pp = gpio.PullDown
	default:
		pp = gpio.Float
	}

	if err := p.In(pp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure GPIO%d as input: %w", pin, err)
	}
	return func() bool { return p.Read() == gpio.High }, nil
}

func (periphDriver) close() error { return nil }

// rpioDriver uses go-rpio, which maps /dev/gpiomem directly.
type rpioDriver struct{}

func (rpioDriver) name() string { return "rpio" }

func (rpioDriver) open() error {
	return rpio.Open()
}

func (rpioDriver) input(pin int, pull Pull) (func() bool, error) {
	if pin < 0 || pin > 53 {
		return nil, fmt.Errorf("GPIO%d out of range", pin)
	}
	p := rpio.Pin(pin)
	p.Input()
	switch pull {
	case PullUp:
		p.PullUp()
	case PullDown:
		p.PullDown()
	default:
		p.PullOff()
	}
	return func() bool { return p.Read() == rpio.High }, nil
}

func (rpioDriver) close() error {
	return rpio.Close()
}

func driverByName(name string) (pinDriver, error) {
	switch strings.ToLower(name) {
	case "", "periph":
		return periphDriver{}, nil
	case "rpio":
		return rpioDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown GPIO driver %q", name)
	}
}
