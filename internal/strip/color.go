package strip

import "fmt"

// Color is a 24-bit RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black     = Color{}
	White     = Color{255, 255, 255}
	Red       = Color{255, 0, 0}
	Green     = Color{0, 255, 0}
	Blue      = Color{0, 0, 255}
	OrangeRed = Color{255, 69, 0}
)

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Scale multiplies every channel by f, clamped to [0, 1].
func (c Color) Scale(f float64) Color {
	switch {
	case f <= 0:
		return Black
	case f >= 1:
		return c
	}
	return Color{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// dim applies an 8-bit global brightness the way ws281x drivers do.
func (c Color) dim(brightness uint8) Color {
	scale := uint16(brightness) + 1
	return Color{
		R: uint8(uint16(c.R) * scale >> 8),
		G: uint8(uint16(c.G) * scale >> 8),
		B: uint8(uint16(c.B) * scale >> 8),
	}
}

// IsBlack reports whether every channel is zero.
func (c Color) IsBlack() bool {
	return c == Black
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
