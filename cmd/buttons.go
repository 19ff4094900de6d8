package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/logging"
	"github.com/smazurov/amplifier/internal/sequence"
	"github.com/spf13/cobra"
)

// CreateButtonsCmd creates the buttons command.
func CreateButtonsCmd(s *Settings) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "buttons",
		Short: "Print button edges and sequence matches",
		Long: `Runs only the button sampler, reader and sequence detector at the game frame rate and prints ` +
			`every change until interrupted. LED strips are not touched.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			g, err := LoadGame(s)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("buttons")

			sampler, err := buttons.New(g.Buttons, s.input(), logger)
			if err != nil {
				return fmt.Errorf("failed to create %s sampler: %w", g.Buttons.Sampler, err)
			}
			reader := buttons.NewReader(sampler, logger)
			if err := reader.Setup(); err != nil {
				return fmt.Errorf("failed to set up buttons: %w", err)
			}
			defer reader.Close()

			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			detector := sequence.NewDetector(g.Rules...)
			out := c.OutOrStdout()
			fmt.Fprintf(out, "watching %d buttons with the %s sampler\n", reader.Count(), g.Buttons.Sampler)

			ticker := time.NewTicker(time.Second / time.Duration(g.FPS))
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case now := <-ticker.C:
					st := reader.Read()
					if !st.Changed() {
						continue
					}
					fmt.Fprintln(out, st)
					for _, id := range st.Rising {
						for _, rule := range detector.Feed(id, now) {
							fmt.Fprintf(out, "sequence %s matched -> %s\n", rule.Name, rule.Target)
						}
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	return cmd
}
