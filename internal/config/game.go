package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/amplifier/internal/audio"
	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/game"
	"github.com/smazurov/amplifier/internal/sequence"
	"github.com/smazurov/amplifier/internal/strip"
)

// Defaults for the hardware and game sections.
var (
	// DefaultPins avoids the SPI0 and SPI1 pins used by the strips.
	DefaultPins = []int{4, 5, 6, 12, 13, 22, 23, 24, 25, 26}

	defaultStrips = []strip.Config{
		{Name: "strip0", Driver: "spi", Device: "SPI0.0", Count: 300, Brightness: 26},
		{Name: "strip1", Driver: "spi", Device: "SPI1.0", Count: 300, Brightness: 26},
	}

	defaultRules = []sequence.Rule{
		{Name: "test-mode", Button: 7, Count: 3, Timeout: 1500 * time.Millisecond, Target: string(game.Test)},
	}
)

const (
	defaultBrightness    = 26
	defaultLEDsPerButton = 30
	defaultPartyDuration = 30 * time.Second
	minPin, maxPin       = 2, 27
	maxFPS               = 240

	defaultSampleRate  = 44100
	defaultCodeLength  = 5
	defaultCodeTimeout = 5 * time.Second
	maxCodeLength      = 8
	specialTimeLayout  = "2006-01-02 15:04"
)

// Audio configures background music and song codes.
type Audio struct {
	Enabled     bool
	SongsDir    string
	SoundsDir   string
	SampleRate  int
	CodeLength  int // 0 disables song codes
	CodeTimeout time.Duration
	Schedule    audio.Schedule
}

// Game is the hardware mapping and game tuning read from the config file.
// It is loaded once at startup and never reloaded.
type Game struct {
	Buttons       buttons.Config
	Strips        []strip.Config
	Rules         []sequence.Rule
	FPS           int
	LEDsPerButton int
	PartyEnabled  bool
	PartyDuration time.Duration
	Audio         Audio
}

// LEDCount returns the total number of LEDs across all strips.
func (g Game) LEDCount() int {
	n := 0
	for _, s := range g.Strips {
		n += s.Count
	}
	return n
}

// Env returns the state environment described by the config.
func (g Game) Env() game.Env {
	return game.Env{
		ButtonCount:   g.Buttons.ButtonCount(),
		LEDCount:      g.LEDCount(),
		LEDsPerButton: g.LEDsPerButton,
		PartyEnabled:  g.PartyEnabled,
		PartyDuration: g.PartyDuration,
	}
}

// DefaultGame returns the built-in configuration: ten GPIO buttons and two
// strips of 300 LEDs.
func DefaultGame() Game {
	return Game{
		Buttons: buttons.Config{
			Sampler:     string(buttons.KindGPIO),
			Driver:      "periph",
			Pins:        slices.Clone(DefaultPins),
			Pull:        string(buttons.PullOff),
			ActiveLevel: "high",
		},
		Strips:        slices.Clone(defaultStrips),
		Rules:         slices.Clone(defaultRules),
		FPS:           game.DefaultFPS,
		LEDsPerButton: defaultLEDsPerButton,
		PartyEnabled:  true,
		PartyDuration: defaultPartyDuration,
		Audio: Audio{
			SongsDir:    "songs",
			SoundsDir:   "sounds",
			SampleRate:  defaultSampleRate,
			CodeLength:  defaultCodeLength,
			CodeTimeout: defaultCodeTimeout,
		},
	}
}

// gameFile mirrors the TOML layout. Pointers distinguish absent keys.
type gameFile struct {
	Buttons   buttonsSection    `toml:"buttons"`
	Strips    []stripSection    `toml:"strips"`
	Sequences []sequenceSection `toml:"sequences"`
	Game      gameSection       `toml:"game"`
	Audio     audioSection      `toml:"audio"`
}

type buttonsSection struct {
	Sampler     *string `toml:"sampler"`
	Driver      *string `toml:"gpio_driver"`
	Pins        []int   `toml:"pins"`
	Count       *int    `toml:"count"`
	Pull        *string `toml:"pull"`
	ActiveLevel *string `toml:"active_level"`
}

type stripSection struct {
	Name       string `toml:"name"`
	Driver     string `toml:"driver"`
	Device     string `toml:"device"`
	Count      int    `toml:"count"`
	Brightness *int   `toml:"brightness"`
	FreqKHz    int    `toml:"freq_khz"`
	RefreshMs  int    `toml:"refresh_ms"`
}

type sequenceSection struct {
	Name         string `toml:"name"`
	Button       int    `toml:"button"`
	Count        int    `toml:"count"`
	Timeout      string `toml:"timeout"`
	Target       string `toml:"target"`
	ResetOnOther bool   `toml:"reset_on_other"`
}

type gameSection struct {
	FPS           *int    `toml:"fps"`
	LEDsPerButton *int    `toml:"leds_per_button"`
	Party         *bool   `toml:"party"`
	PartyDuration *string `toml:"party_duration"`
}

type audioSection struct {
	Enabled     *bool            `toml:"enabled"`
	SongsDir    *string          `toml:"songs_dir"`
	SoundsDir   *string          `toml:"sounds_dir"`
	SampleRate  *int             `toml:"sample_rate"`
	CodeLength  *int             `toml:"code_length"`
	CodeTimeout *string          `toml:"code_timeout"`
	Daily       []dailySection   `toml:"daily"`
	Special     []specialSection `toml:"special"`
}

type dailySection struct {
	At          string   `toml:"at"`
	Collections []string `toml:"collections"`
}

type specialSection struct {
	Start       string   `toml:"start"`
	End         string   `toml:"end"`
	Collections []string `toml:"collections"`
}

// LoadGame reads the hardware and game sections of the config file at path
// and applies defaults for everything absent. A missing file yields the
// defaults. The result is validated.
func LoadGame(path string) (Game, error) {
	g := DefaultGame()
	if path == "" {
		return g, g.Validate()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return g, g.Validate()
	}
	if err != nil {
		return g, NewConfigError(ErrCodeParse, "failed to read config file", err)
	}

	g, err = ParseGame(data)
	if err != nil {
		return g, err
	}
	return g, g.Validate()
}

// ParseGame decodes TOML data over the defaults without validating.
func ParseGame(data []byte) (Game, error) {
	g := DefaultGame()

	var file gameFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return g, NewConfigError(ErrCodeParse, "failed to parse TOML config", err)
	}

	b := file.Buttons
	setIf(&g.Buttons.Sampler, b.Sampler)
	setIf(&g.Buttons.Driver, b.Driver)
	setIf(&g.Buttons.Pull, b.Pull)
	setIf(&g.Buttons.ActiveLevel, b.ActiveLevel)
	setIf(&g.Buttons.Count, b.Count)
	switch {
	case b.Pins != nil:
		g.Buttons.Pins = b.Pins
	case b.Count != nil && !buttons.Kind(g.Buttons.Sampler).UsesGPIO():
		// keyboard-only setups size themselves from count
		g.Buttons.Pins = nil
	}

	if file.Strips != nil {
		g.Strips = make([]strip.Config, len(file.Strips))
		for i, s := range file.Strips {
			cfg := strip.Config{
				Name:       s.Name,
				Driver:     s.Driver,
				Device:     s.Device,
				Count:      s.Count,
				Brightness: defaultBrightness,
				FreqKHz:    s.FreqKHz,
				RefreshMs:  s.RefreshMs,
			}
			if cfg.Name == "" {
				cfg.Name = fmt.Sprintf("strip%d", i)
			}
			if cfg.Driver == "" {
				cfg.Driver = string(strip.DriverSPI)
			}
			setIf(&cfg.Brightness, s.Brightness)
			g.Strips[i] = cfg
		}
	}

	if file.Sequences != nil {
		g.Rules = make([]sequence.Rule, len(file.Sequences))
		for i, s := range file.Sequences {
			timeout, err := time.ParseDuration(s.Timeout)
			if err != nil {
				return g, NewConfigError(ErrCodeInvalidSequence, fmt.Sprintf("sequence %q: invalid timeout %q", s.Name, s.Timeout), err)
			}
			g.Rules[i] = sequence.Rule{
				Name:         s.Name,
				Button:       s.Button,
				Count:        s.Count,
				Timeout:      timeout,
				Target:       s.Target,
				ResetOnOther: s.ResetOnOther,
			}
		}
	}

	gs := file.Game
	setIf(&g.FPS, gs.FPS)
	setIf(&g.LEDsPerButton, gs.LEDsPerButton)
	setIf(&g.PartyEnabled, gs.Party)
	if gs.PartyDuration != nil {
		d, err := time.ParseDuration(*gs.PartyDuration)
		if err != nil {
			return g, NewConfigError(ErrCodeInvalidGame, fmt.Sprintf("invalid party_duration %q", *gs.PartyDuration), err)
		}
		g.PartyDuration = d
	}

	if err := parseAudio(&g.Audio, file.Audio); err != nil {
		return g, err
	}
	return g, nil
}

func parseAudio(a *Audio, s audioSection) error {
	setIf(&a.Enabled, s.Enabled)
	setIf(&a.SongsDir, s.SongsDir)
	setIf(&a.SoundsDir, s.SoundsDir)
	setIf(&a.SampleRate, s.SampleRate)
	setIf(&a.CodeLength, s.CodeLength)
	if s.CodeTimeout != nil {
		d, err := time.ParseDuration(*s.CodeTimeout)
		if err != nil {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("invalid code_timeout %q", *s.CodeTimeout), err)
		}
		a.CodeTimeout = d
	}

	for i, d := range s.Daily {
		at, err := audio.ParseTimeOfDay(d.At)
		if err != nil {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("daily entry %d", i), err)
		}
		a.Schedule.Daily = append(a.Schedule.Daily, audio.Daily{At: at, Collections: d.Collections})
	}
	for i, sp := range s.Special {
		start, err := time.ParseInLocation(specialTimeLayout, sp.Start, time.Local)
		if err != nil {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("special entry %d: start must look like %q", i, specialTimeLayout), err)
		}
		end, err := time.ParseInLocation(specialTimeLayout, sp.End, time.Local)
		if err != nil {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("special entry %d: end must look like %q", i, specialTimeLayout), err)
		}
		a.Schedule.Special = append(a.Schedule.Special, audio.Special{Start: start, End: end, Collections: sp.Collections})
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks the whole configuration and returns the first problem as
// a *ConfigError.
func (g Game) Validate() error {
	if err := g.validateButtons(); err != nil {
		return err
	}
	if err := g.validateStrips(); err != nil {
		return err
	}
	if err := g.validateRules(); err != nil {
		return err
	}
	if err := g.validateGame(); err != nil {
		return err
	}
	return g.validateAudio()
}

func (g Game) validateButtons() error {
	b := g.Buttons
	kind := buttons.Kind(b.Sampler)
	switch kind {
	case buttons.KindGPIO, buttons.KindKeyboard, buttons.KindKeyboardLine, buttons.KindHybrid:
	default:
		return NewConfigError(ErrCodeInvalidButtons, fmt.Sprintf("unknown sampler %q", b.Sampler), nil)
	}

	n := b.ButtonCount()
	if n < 1 {
		return NewConfigError(ErrCodeInvalidButtons, "no buttons configured", nil)
	}
	if kind.UsesKeyboard() && n > buttons.MaxKeyboardButtons {
		return NewConfigError(ErrCodeInvalidButtons,
			fmt.Sprintf("%d buttons configured but keyboard input supports at most %d", n, buttons.MaxKeyboardButtons), nil)
	}

	if kind.UsesGPIO() {
		if len(b.Pins) == 0 {
			return NewConfigError(ErrCodeInvalidButtons, "GPIO sampler needs pins", nil)
		}
		seen := make(map[int]int, len(b.Pins))
		for i, pin := range b.Pins {
			if pin < minPin || pin > maxPin {
				return NewConfigError(ErrCodeInvalidButtons,
					fmt.Sprintf("button %d: GPIO%d outside %d..%d", i, pin, minPin, maxPin), nil)
			}
			if prev, dup := seen[pin]; dup {
				return NewConfigError(ErrCodeInvalidButtons,
					fmt.Sprintf("buttons %d and %d share GPIO%d", prev, i, pin), nil)
			}
			seen[pin] = i
		}
		switch strings.ToLower(b.Driver) {
		case "", "periph", "rpio":
		default:
			return NewConfigError(ErrCodeInvalidButtons, fmt.Sprintf("unknown GPIO driver %q", b.Driver), nil)
		}
	}

	if _, err := buttons.ParsePull(b.Pull); err != nil {
		return NewConfigError(ErrCodeInvalidButtons, "invalid pull mode", err)
	}
	switch strings.ToLower(b.ActiveLevel) {
	case "", "high", "low":
	default:
		return NewConfigError(ErrCodeInvalidButtons, fmt.Sprintf("active_level must be high or low, got %q", b.ActiveLevel), nil)
	}
	return nil
}

func (g Game) validateStrips() error {
	if len(g.Strips) == 0 {
		return NewConfigError(ErrCodeInvalidStrips, "no LED strips configured", nil)
	}

	names := make(map[string]bool, len(g.Strips))
	devices := make(map[string]string, len(g.Strips))
	for _, s := range g.Strips {
		if names[s.Name] {
			return NewConfigError(ErrCodeInvalidStrips, fmt.Sprintf("duplicate strip name %q", s.Name), nil)
		}
		names[s.Name] = true

		if s.Count <= 0 {
			return NewConfigError(ErrCodeInvalidStrips, fmt.Sprintf("strip %q: count must be positive, got %d", s.Name, s.Count), nil)
		}
		if s.Brightness < 0 || s.Brightness > 255 {
			return NewConfigError(ErrCodeInvalidStrips, fmt.Sprintf("strip %q: brightness must be 0..255, got %d", s.Name, s.Brightness), nil)
		}

		switch strip.Driver(s.Driver) {
		case strip.DriverSPI, "":
			if s.Device == "" {
				return NewConfigError(ErrCodeInvalidStrips, fmt.Sprintf("strip %q: SPI device is empty", s.Name), nil)
			}
			if other, dup := devices[s.Device]; dup {
				return NewConfigError(ErrCodeInvalidStrips,
					fmt.Sprintf("strips %q and %q share SPI device %s", other, s.Name, s.Device), nil)
			}
			devices[s.Device] = s.Name
		case strip.DriverConsole, strip.DriverNone:
		default:
			return NewConfigError(ErrCodeInvalidStrips, fmt.Sprintf("strip %q: unknown driver %q", s.Name, s.Driver), nil)
		}
	}
	return nil
}

func (g Game) validateRules() error {
	n := g.Buttons.ButtonCount()
	names := make(map[string]bool, len(g.Rules))
	for _, r := range g.Rules {
		if err := r.Validate(n); err != nil {
			return NewConfigError(ErrCodeInvalidSequence, "invalid sequence rule", err)
		}
		if names[r.Name] {
			return NewConfigError(ErrCodeInvalidSequence, fmt.Sprintf("duplicate sequence name %q", r.Name), nil)
		}
		names[r.Name] = true
		if _, err := game.ParseStateID(r.Target); err != nil {
			return NewConfigError(ErrCodeInvalidSequence, fmt.Sprintf("sequence %q", r.Name), err)
		}
	}
	return nil
}

func (g Game) validateGame() error {
	if g.FPS < 1 || g.FPS > maxFPS {
		return NewConfigError(ErrCodeInvalidGame, fmt.Sprintf("fps must be 1..%d, got %d", maxFPS, g.FPS), nil)
	}
	if g.LEDsPerButton < 1 {
		return NewConfigError(ErrCodeInvalidGame, fmt.Sprintf("leds_per_button must be positive, got %d", g.LEDsPerButton), nil)
	}
	if need, have := g.LEDsPerButton*g.Buttons.ButtonCount(), g.LEDCount(); need > have {
		return NewConfigError(ErrCodeInvalidGame,
			fmt.Sprintf("%d buttons x %d LEDs need %d LEDs but strips have %d", g.Buttons.ButtonCount(), g.LEDsPerButton, need, have), nil)
	}
	if g.PartyDuration < 0 {
		return NewConfigError(ErrCodeInvalidGame, "party_duration must not be negative", nil)
	}
	return nil
}

// validateAudio only checks the section when audio is enabled. The song
// folders themselves are checked when the library loads.
func (g Game) validateAudio() error {
	a := g.Audio
	if !a.Enabled {
		return nil
	}
	if a.SongsDir == "" {
		return NewConfigError(ErrCodeInvalidAudio, "songs_dir is empty", nil)
	}
	if a.SampleRate <= 0 {
		return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("sample_rate must be positive, got %d", a.SampleRate), nil)
	}
	if a.CodeLength < 0 || a.CodeLength > maxCodeLength {
		return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("code_length must be 0..%d, got %d", maxCodeLength, a.CodeLength), nil)
	}
	if a.CodeLength > 0 && a.CodeTimeout <= 0 {
		return NewConfigError(ErrCodeInvalidAudio, "code_timeout must be positive", nil)
	}
	for i, d := range a.Schedule.Daily {
		if len(d.Collections) == 0 {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("daily entry %d has no collections", i), nil)
		}
	}
	for i, sp := range a.Schedule.Special {
		if len(sp.Collections) == 0 {
			return NewConfigError(ErrCodeInvalidAudio, fmt.Sprintf("special entry %d has no collections", i), nil)
		}
	}
	if err := a.Schedule.Validate(); err != nil {
		return NewConfigError(ErrCodeInvalidAudio, "invalid schedule", err)
	}
	return nil
}

// Summary describes the mapping in one line per item for the check command.
func (g Game) Summary() []string {
	lines := []string{
		fmt.Sprintf("sampler: %s (driver %s, pull %s, active %s)", g.Buttons.Sampler, g.Buttons.Driver, g.Buttons.Pull, g.Buttons.ActiveLevel),
	}
	for i := range g.Buttons.ButtonCount() {
		seg := fmt.Sprintf("LEDs %d-%d", i*g.LEDsPerButton, (i+1)*g.LEDsPerButton-1)
		if i < len(g.Buttons.Pins) {
			lines = append(lines, fmt.Sprintf("button %d: GPIO%d, %s", i, g.Buttons.Pins[i], seg))
		} else {
			lines = append(lines, fmt.Sprintf("button %d: key %d, %s", i, i, seg))
		}
	}
	for _, s := range g.Strips {
		lines = append(lines, fmt.Sprintf("strip %s: %d LEDs on %s %s, brightness %d", s.Name, s.Count, s.Driver, s.Device, s.Brightness))
	}
	for _, r := range g.Rules {
		lines = append(lines, fmt.Sprintf("sequence %s: button %d x%d within %s -> %s", r.Name, r.Button, r.Count, r.Timeout, r.Target))
	}
	lines = append(lines, fmt.Sprintf("game: %d fps, %d LEDs per button, party %t for %s", g.FPS, g.LEDsPerButton, g.PartyEnabled, g.PartyDuration))
	if a := g.Audio; a.Enabled {
		lines = append(lines, fmt.Sprintf("audio: songs in %s, effects in %s, %d Hz, %d-digit codes within %s, %d daily and %d special schedule entries",
			a.SongsDir, a.SoundsDir, a.SampleRate, a.CodeLength, a.CodeTimeout, len(a.Schedule.Daily), len(a.Schedule.Special)))
	}
	return lines
}
