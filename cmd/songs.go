package cmd

import (
	"encoding/csv"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/smazurov/amplifier/internal/audio"
	"github.com/smazurov/amplifier/internal/logging"
	"github.com/spf13/cobra"
)

// songInfo is swapped in tests.
var songInfo audio.InfoReader = audio.ReadMP3Info

// CreateSongsCmd creates the songs command.
func CreateSongsCmd(s *Settings) *cobra.Command {
	var (
		asCSV    bool
		codeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List the song library and the codes that play each song",
		Long:  `Scans the configured songs directory, checks the schedule against its collections and prints every playable song with its code.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			g, err := LoadGame(s)
			if err != nil {
				return err
			}
			a := g.Audio
			lib, err := audio.NewLibrary(a.SongsDir, a.CodeLength, a.Schedule, songInfo, logging.GetLogger("audio"))
			if err != nil {
				return err
			}

			var songs []audio.Song
			for _, song := range lib.Songs() {
				if !codeOnly || song.Code != "" {
					songs = append(songs, song)
				}
			}

			out := c.OutOrStdout()
			if asCSV {
				w := csv.NewWriter(out)
				_ = w.Write([]string{"code", "collection", "name"})
				for _, song := range songs {
					_ = w.Write([]string{song.Code, song.Collection, song.Name})
				}
				w.Flush()
				return w.Error()
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tCOLLECTION\tLENGTH\tNAME")
			for _, song := range songs {
				code := song.Code
				if code == "" {
					code = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", code, song.Collection, song.Length.Round(time.Second), song.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print CSV for printing code cards")
	cmd.Flags().BoolVar(&codeOnly, "codes", false, "Only list songs that have a code")
	return cmd
}
