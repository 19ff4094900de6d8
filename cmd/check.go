package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateCheckCmd creates the check command.
func CreateCheckCmd(s *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		Long:  `Loads the hardware and game sections of the configuration file, validates them and prints the button to LED mapping.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			g, err := LoadGame(s)
			if err != nil {
				return fmt.Errorf("invalid configuration %s: %w", s.Config, err)
			}
			out := c.OutOrStdout()
			for _, line := range g.Summary() {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, "configuration OK")
			return nil
		},
	}
}
