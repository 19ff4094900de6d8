package strip

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestColor_Scale(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want Color
	}{
		{"zero", 0, Black},
		{"negative", -1, Black},
		{"half", 0.5, Color{100, 50, 0}},
		{"full", 1, Color{200, 100, 0}},
		{"over", 2, Color{200, 100, 0}},
	}

	base := Color{200, 100, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Scale(tt.f); got != tt.want {
				t.Errorf("Scale(%v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestColor_Dim(t *testing.T) {
	if got := White.dim(255); got != White {
		t.Errorf("dim(255) = %v, want white", got)
	}
	if got := White.dim(0); got != Black {
		t.Errorf("dim(0) = %v, want black", got)
	}
	if got := White.dim(127); got != (Color{127, 127, 127}) {
		t.Errorf("dim(127) = %v, want rgb(127,127,127)", got)
	}
}

func TestColor_Hex(t *testing.T) {
	if got := OrangeRed.Hex(); got != "#ff4500" {
		t.Errorf("Hex() = %q, want #ff4500", got)
	}
}

func TestDownsample(t *testing.T) {
	pixels := []Color{{0, 0, 0}, {200, 0, 0}, {0, 100, 0}, {0, 100, 0}}

	out := downsample(pixels, 2)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0] != (Color{100, 0, 0}) {
		t.Errorf("cell 0 = %v, want rgb(100,0,0)", out[0])
	}
	if out[1] != (Color{0, 100, 0}) {
		t.Errorf("cell 1 = %v, want rgb(0,100,0)", out[1])
	}

	if short := downsample(pixels, 10); len(short) != len(pixels) {
		t.Errorf("short input resized to %d", len(short))
	}
}

func TestConsole_ShowThrottles(t *testing.T) {
	var buf bytes.Buffer
	c := newConsole("preview", 10, &buf, 100*time.Millisecond)

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Fill(Red)

	if err := c.Show(); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	first := buf.Len()
	if first == 0 || !strings.HasPrefix(buf.String(), "preview ") {
		t.Fatalf("first Show wrote %q", buf.String())
	}

	now = now.Add(50 * time.Millisecond)
	_ = c.Show()
	if buf.Len() != first {
		t.Error("Show within refresh interval should not draw")
	}

	now = now.Add(60 * time.Millisecond)
	_ = c.Show()
	if buf.Len() == first {
		t.Error("Show after refresh interval should draw")
	}
}

func TestNew_Drivers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := New(Config{Name: "mem", Driver: "none", Count: 12}, logger)
	if err != nil {
		t.Fatalf("New(none) error: %v", err)
	}
	if s.Len() != 12 {
		t.Errorf("Len() = %d, want 12", s.Len())
	}

	if _, err := New(Config{Name: "x", Driver: "laser", Count: 1}, logger); err == nil {
		t.Error("New with unknown driver should fail")
	}
	if _, err := New(Config{Name: "x", Driver: "none", Count: 0}, logger); err == nil {
		t.Error("New with zero count should fail")
	}
}

func TestOpenChain(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	chain, err := OpenChain([]Config{
		{Name: "left", Driver: "none", Count: 300},
		{Name: "right", Driver: "none", Count: 300},
	}, logger)
	if err != nil {
		t.Fatalf("OpenChain() error: %v", err)
	}
	if chain.Len() != 600 {
		t.Errorf("Len() = %d, want 600", chain.Len())
	}

	if _, err := OpenChain([]Config{
		{Name: "left", Driver: "none", Count: 300},
		{Name: "broken", Driver: "bogus", Count: 300},
	}, logger); err == nil {
		t.Error("OpenChain should fail when one strip fails")
	}
}
