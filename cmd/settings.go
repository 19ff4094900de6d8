// Package cmd holds the diagnostic subcommands.
package cmd

import (
	"os"

	"github.com/smazurov/amplifier/internal/config"
)

// Settings carries the parsed global options into subcommands. The root
// command fills it before any subcommand runs.
type Settings struct {
	Config  string
	Sampler string
	FPS     int
	Input   *os.File // keyboard samplers read here, os.Stdin when nil
}

func (s *Settings) input() *os.File {
	if s.Input != nil {
		return s.Input
	}
	return os.Stdin
}

// LoadGame loads the game file named by s.Config and applies the sampler and
// frame rate overrides given on the command line.
func LoadGame(s *Settings) (config.Game, error) {
	g, err := config.LoadGame(s.Config)
	if err != nil {
		return g, err
	}
	if s.Sampler == "" && s.FPS <= 0 {
		return g, nil
	}
	if s.Sampler != "" {
		g.Buttons.Sampler = s.Sampler
	}
	if s.FPS > 0 {
		g.FPS = s.FPS
	}
	return g, g.Validate()
}
