package strip

// Memory is a strip without a device. Show only counts flushes.
type Memory struct {
	*Buffer
	shows int
}

// NewMemory creates a memory-only strip of n pixels.
func NewMemory(name string, n int) *Memory {
	return &Memory{Buffer: NewBuffer(name, n)}
}

// Show records the flush.
func (m *Memory) Show() error {
	m.shows++
	return nil
}

// Shows returns how many times Show was called.
func (m *Memory) Shows() int {
	return m.shows
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
