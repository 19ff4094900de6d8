// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//   - Keeps the most recent entries in a ring buffer served by /api/logs
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"game":    "debug", // Per-module overrides
//			"api":     "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("game")
//	logger.Info("Game loop started", "fps", 30)
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("strip").With("strip", name)
//	logger.Info("Strip opened")  // Includes strip in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// # Output Destinations
//
// The system automatically detects available outputs:
//
//	Journal available + stdout available → both, plus the ring buffer
//	Journal available only              → JournalHandler and the ring buffer
//	Stdout available only               → TextHandler or JSONHandler and the ring buffer
//
// Loggers returned by GetLogger before Initialize stay valid: Initialize
// rebuilds their outputs in place.
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t amplifier              # All amplifier logs
//	journalctl -t amplifier -f           # Follow live
//	journalctl -t amplifier --since "5m" # Last 5 minutes
//	journalctl -t amplifier -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t amplifier MODULE=game
//	journalctl -t amplifier RULE=test-mode
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	buttons = "debug"
//	api = "warn"
//	strip = "error"
//
// Levels are re-applied at runtime with SetLevels when the config file
// changes; the format is fixed at startup.
package logging
