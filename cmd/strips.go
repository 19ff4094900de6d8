package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/amplifier/internal/logging"
	"github.com/smazurov/amplifier/internal/strip"
	"github.com/spf13/cobra"
)

// stripTestColors is the cycle shown by the strips command.
var stripTestColors = []struct {
	name  string
	color strip.Color
}{
	{"red", strip.RGB(255, 0, 0)},
	{"green", strip.RGB(0, 255, 0)},
	{"blue", strip.RGB(0, 0, 255)},
	{"off", strip.Black},
}

// CreateStripsCmd creates the strips command.
func CreateStripsCmd(s *Settings) *cobra.Command {
	var (
		cycles   int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "strips",
		Short: "Cycle every LED strip through red, green, blue and off",
		Long:  `Opens every configured strip and shows red, green, blue and off in turn to check wiring and color order.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			g, err := LoadGame(s)
			if err != nil {
				return err
			}

			chain, err := strip.OpenChain(g.Strips, logging.GetLogger("strip"))
			if err != nil {
				return err
			}
			defer chain.Close()

			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := c.OutOrStdout()
			err = runStripCycle(ctx, chain, cycles, interval, func(name string) {
				fmt.Fprintf(out, "%d LEDs %s\n", chain.Len(), name)
			})
			if blankErr := chain.Blank(); blankErr != nil && err == nil {
				err = blankErr
			}
			return err
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 1, "Number of color cycles (0 repeats until interrupted)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "How long each color is shown")
	return cmd
}

func runStripCycle(ctx context.Context, chain *strip.Chain, cycles int, interval time.Duration, report func(string)) error {
	for n := 0; cycles <= 0 || n < cycles; n++ {
		for _, step := range stripTestColors {
			chain.Fill(step.color)
			if err := chain.Show(); err != nil {
				return err
			}
			report(step.name)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
	}
	return nil
}
