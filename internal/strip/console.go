package strip

import (
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

const consoleCells = 60

// console previews a strip as a row of colored blocks on a terminal. Each
// block averages a run of neighbouring pixels.
type console struct {
	*Buffer
	out      *termenv.Output
	refresh  time.Duration
	lastDraw time.Time
	now      func() time.Time
}

func newConsole(name string, n int, w io.Writer, refresh time.Duration) *console {
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	return &console{
		Buffer:  NewBuffer(name, n),
		out:     termenv.NewOutput(w, termenv.WithProfile(termenv.TrueColor)),
		refresh: refresh,
		now:     time.Now,
	}
}

// Show draws at most once per refresh interval.
func (c *console) Show() error {
	now := c.now()
	if !c.lastDraw.IsZero() && now.Sub(c.lastDraw) < c.refresh {
		return nil
	}
	c.lastDraw = now

	var sb strings.Builder
	sb.WriteString(c.Name())
	sb.WriteString(" ")
	for _, col := range downsample(c.Pixels(), consoleCells) {
		sb.WriteString(c.out.String("█").Foreground(c.out.Color(col.Hex())).String())
	}
	sb.WriteString("\n")

	_, err := io.WriteString(c.out, sb.String())
	return err
}

func (c *console) Close() error {
	return nil
}

// downsample averages pixels into at most cells colors.
func downsample(pixels []Color, cells int) []Color {
	if len(pixels) <= cells {
		return pixels
	}
	out := make([]Color, cells)
	for cell := range out {
		start := cell * len(pixels) / cells
		end := (cell + 1) * len(pixels) / cells
		var r, g, b int
		for _, p := range pixels[start:end] {
			r += int(p.R)
			g += int(p.G)
			b += int(p.B)
		}
		n := end - start
		out[cell] = Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
	}
	return out
}
