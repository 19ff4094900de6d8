// Package strip models addressable LED strips: an in-memory pixel buffer per
// strip, a device flush, and a Chain that addresses several strips as one
// contiguous LED index space.
package strip

// Strip is a fixed-length addressable pixel buffer bound to an output device.
type Strip interface {
	// Name identifies the strip in logs and metrics.
	Name() string
	// Len returns the number of pixels.
	Len() int
	// Get returns the buffered color at i, or Black when i is out of range.
	Get(i int) Color
	// Set buffers a color at i. Out of range indices are ignored.
	Set(i int, c Color)
	// Fill buffers the same color on every pixel.
	Fill(c Color)
	// Show pushes the buffer to the device. It may take several milliseconds.
	Show() error
	// Close releases the device.
	Close() error
}

// Buffer holds the pixel data of one strip. Drivers embed it and add Show and Close.
type Buffer struct {
	name   string
	pixels []Color
}

// NewBuffer creates a black buffer of n pixels.
func NewBuffer(name string, n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{
		name:   name,
		pixels: make([]Color, n),
	}
}

// Name returns the strip name.
func (b *Buffer) Name() string {
	return b.name
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return len(b.pixels)
}

// Get returns the color at i.
func (b *Buffer) Get(i int) Color {
	if i < 0 || i >= len(b.pixels) {
		return Black
	}
	return b.pixels[i]
}

// Set stores a color at i.
func (b *Buffer) Set(i int, c Color) {
	if i < 0 || i >= len(b.pixels) {
		return
	}
	b.pixels[i] = c
}

// Fill stores c on every pixel.
func (b *Buffer) Fill(c Color) {
	for i := range b.pixels {
		b.pixels[i] = c
	}
}

// Pixels exposes the underlying slice to drivers. Callers must not resize it.
func (b *Buffer) Pixels() []Color {
	return b.pixels
}
