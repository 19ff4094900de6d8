package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/amplifier/cmd"
	"github.com/smazurov/amplifier/internal/api"
	"github.com/smazurov/amplifier/internal/audio"
	"github.com/smazurov/amplifier/internal/audio/speaker"
	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/config"
	"github.com/smazurov/amplifier/internal/events"
	"github.com/smazurov/amplifier/internal/game"
	"github.com/smazurov/amplifier/internal/led"
	"github.com/smazurov/amplifier/internal/logging"
	"github.com/smazurov/amplifier/internal/metrics/exporters"
	"github.com/smazurov/amplifier/internal/sequence"
	"github.com/smazurov/amplifier/internal/strip"
	"github.com/smazurov/amplifier/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"amplifier.toml"`

	// Game overrides
	Sampler string `help:"Button sampler (gpio, keyboard, keyboard-line, hybrid), overrides [buttons] sampler" short:"s" env:"SAMPLER"`
	FPS     int    `help:"Frame rate, overrides [game] fps" env:"FPS"`

	// Server settings
	Listen       string `help:"Status API address, empty disables the API" short:"l" default:":8090" toml:"server.listen" env:"SERVER_LISTEN"`
	AuthUsername string `help:"Basic auth username" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	StatusLED   bool `help:"Mirror the game state on the board status LED" default:"true" toml:"features.status_led" env:"FEATURES_STATUS_LED"`
	WatchConfig bool `help:"Reload logging levels when the config file changes" default:"true" toml:"features.watch_config" env:"FEATURES_WATCH_CONFIG"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingButtons  string `help:"Buttons logging level" toml:"logging.buttons" env:"LOGGING_BUTTONS"`
	LoggingSequence string `help:"Sequence detector logging level" toml:"logging.sequence" env:"LOGGING_SEQUENCE"`
	LoggingGame     string `help:"Game loop logging level" toml:"logging.game" env:"LOGGING_GAME"`
	LoggingStrip    string `help:"LED strip logging level" toml:"logging.strip" env:"LOGGING_STRIP"`
	LoggingLed      string `help:"Status LED logging level" toml:"logging.led" env:"LOGGING_LED"`
	LoggingAPI      string `help:"API logging level" toml:"logging.api" env:"LOGGING_API"`
	LoggingConfig   string `help:"Config watcher logging level" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingAudio    string `help:"Music and song library logging level" toml:"logging.audio" env:"LOGGING_AUDIO"`
}

// loggingConfig builds the logging config. Unset module levels follow the
// global level.
func (o *Options) loggingConfig() logging.Config {
	modules := map[string]string{}
	for module, level := range map[string]string{
		"buttons":  o.LoggingButtons,
		"sequence": o.LoggingSequence,
		"game":     o.LoggingGame,
		"strip":    o.LoggingStrip,
		"led":      o.LoggingLed,
		"api":      o.LoggingAPI,
		"config":   o.LoggingConfig,
		"audio":    o.LoggingAudio,
	} {
		if level != "" {
			modules[module] = level
		}
	}
	return logging.Config{
		Level:   o.LoggingLevel,
		Format:  o.LoggingFormat,
		Modules: modules,
	}
}

const shutdownTimeout = 5 * time.Second

func main() {
	settings := &cmd.Settings{}

	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		settings.Config = opts.Config
		settings.Sampler = opts.Sampler
		settings.FPS = opts.FPS

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		hooks.OnStart(func() {
			defer close(done)
			if err := run(ctx, opts, settings); err != nil {
				logger.Error("Amplifier failed", "error", err)
				var cfgErr *config.ConfigError
				if errors.As(err, &cfgErr) {
					logger.Error("Fix the configuration and restart", "code", cfgErr.Code, "config", opts.Config)
				}
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			select {
			case <-done:
			case <-time.After(shutdownTimeout):
				logger.Warn("Game loop did not stop in time", "timeout", shutdownTimeout)
			}
		})
	})

	cli.Root().AddCommand(
		cmd.CreateCheckCmd(settings),
		cmd.CreateButtonsCmd(settings),
		cmd.CreateStripsCmd(settings),
		cmd.CreateSongsCmd(settings),
		cmd.CreateVersionCmd(),
	)

	cli.Run()
}

// run wires the game and blocks until ctx is cancelled. Teardown order:
// the loop blanks the strips, then the terminal is restored, then the
// service manager is told we are stopping.
func run(ctx context.Context, opts *Options, settings *cmd.Settings) error {
	logger := logging.GetLogger("main")

	g, err := cmd.LoadGame(settings)
	if err != nil {
		return err
	}
	for _, line := range g.Summary() {
		logger.Debug("Config", "mapping", line)
	}

	notifier := systemd.NewNotifier(logger)
	defer notifier.Stopping()

	buttonLogger := logging.GetLogger("buttons")
	sampler, err := buttons.New(g.Buttons, os.Stdin, buttonLogger)
	if err != nil {
		return err
	}
	reader := buttons.NewReader(sampler, buttonLogger)
	if setupErr := reader.Setup(); setupErr != nil {
		logger.Warn("Button input unavailable, continuing without it", "error", setupErr)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logger.Warn("Failed to release button input", "error", closeErr)
		}
	}()

	chain, err := strip.OpenChain(g.Strips, logging.GetLogger("strip"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := chain.Close(); closeErr != nil {
			logger.Warn("Failed to close LED strips", "error", closeErr)
		}
	}()

	eventBus := events.New()

	controller := game.NewController(
		reader,
		sequence.NewDetector(g.Rules...),
		chain,
		g.Env(),
		g.FPS,
		logging.GetLogger("game"),
		game.WithBus(eventBus),
		game.WithHeartbeat(notifier.Heartbeat),
	)

	unsubscribe := eventBus.Subscribe(func(e events.StateChangedEvent) {
		notifier.Status("state: " + e.To)
	})
	defer unsubscribe()

	var audioStatus api.AudioProvider
	if g.Audio.Enabled {
		if jukebox := startAudio(g, eventBus); jukebox != nil {
			defer jukebox.Stop()
			audioStatus = jukebox
		}
	}

	var ledManager *led.Manager
	if opts.StatusLED {
		ledLogger := logging.GetLogger("led")
		ledManager = led.NewManager(led.New(ledLogger), eventBus, ledLogger)
		ledManager.Start()
		defer ledManager.Stop()
	}

	if opts.Listen != "" {
		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Status:            controller,
			EventBus:          eventBus,
			LEDManager:        ledManager,
			Audio:             audioStatus,
			PrometheusHandler: exporters.HTTPHandler(),
		})
		go func() {
			if startErr := server.Start(opts.Listen); startErr != nil {
				logger.Error("API server failed", "addr", opts.Listen, "error", startErr)
			}
		}()
		defer func() {
			if stopErr := server.Stop(); stopErr != nil {
				logger.Warn("Error stopping API server", "error", stopErr)
			}
		}()
	}

	if opts.WatchConfig {
		watcher := config.NewConfigWatcher(opts.Config, config.LoadLoggingConfig, logging.GetLogger("config"))
		watcher.OnReload(func(cfg logging.Config) {
			logging.SetLevels(cfg)
			logger.Info("Logging levels reloaded", "levels", logging.Levels())
		})
		if watchErr := watcher.Start(); watchErr != nil {
			logger.Warn("Failed to start config watcher, hot-reload disabled", "error", watchErr)
		} else {
			defer func() { _ = watcher.Stop() }()
		}
	}

	notifier.Ready()
	logger.Info("Amplifier started",
		"buttons", g.Buttons.ButtonCount(),
		"sampler", g.Buttons.Sampler,
		"leds", chain.Len(),
		"fps", g.FPS)

	return controller.Run(ctx)
}

// startAudio loads the song library and opens the sound card. Music is an
// extra: any failure is logged and the game runs silent.
func startAudio(g config.Game, bus *events.Bus) *audio.Jukebox {
	logger := logging.GetLogger("audio")
	a := g.Audio

	library, err := audio.NewLibrary(a.SongsDir, a.CodeLength, a.Schedule, audio.ReadMP3Info, logger)
	if err != nil {
		logger.Warn("Song library unavailable, running without music", "error", err)
		return nil
	}
	effects, err := audio.LoadEffects(a.SoundsDir)
	if err != nil {
		logger.Warn("Failed to read sound effects", "dir", a.SoundsDir, "error", err)
	}
	out, err := speaker.New(a.SampleRate)
	if err != nil {
		logger.Warn("Sound card unavailable, running without music", "error", err)
		return nil
	}

	jukebox := audio.NewJukebox(library, out, g.Buttons.ButtonCount(), a.CodeLength, a.CodeTimeout, logger,
		audio.WithEffects(effects))
	jukebox.Start(bus)
	return jukebox
}
