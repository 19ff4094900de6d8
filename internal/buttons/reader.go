package buttons

import "log/slog"

// Reader turns raw samples into edge-annotated States. It can be told to
// ignore buttons that are currently held until they are released, so a
// press that caused a state change is not seen again by the next state.
type Reader struct {
	sampler  Sampler
	previous []bool
	ignored  []bool
	logger   *slog.Logger
}

// NewReader wraps a sampler.
func NewReader(sampler Sampler, logger *slog.Logger) *Reader {
	n := sampler.Count()
	return &Reader{
		sampler:  sampler,
		previous: make([]bool, n),
		ignored:  make([]bool, n),
		logger:   logger,
	}
}

// Setup initializes the sampler.
func (r *Reader) Setup() error {
	return r.sampler.Setup()
}

// Count returns the number of buttons.
func (r *Reader) Count() int {
	return len(r.previous)
}

// Read samples once and computes edges against the previous read. Ignored
// buttons read as released until the sampler reports them released.
func (r *Reader) Read() State {
	raw := r.sampler.Sample()
	n := len(r.previous)

	st := State{Pressed: make([]bool, n)}
	for i := range n {
		pressed := i < len(raw) && raw[i]
		if r.ignored[i] {
			if pressed {
				pressed = false
			} else {
				r.ignored[i] = false
			}
		}
		st.Pressed[i] = pressed

		switch {
		case pressed && !r.previous[i]:
			st.Rising = append(st.Rising, i)
			r.logger.Info("Button pressed", "button", i)
		case !pressed && r.previous[i]:
			st.Falling = append(st.Falling, i)
			r.logger.Debug("Button released", "button", i)
		}
		r.previous[i] = pressed
	}
	return st
}

// IgnorePressedUntilReleased masks every button held at the last read. The
// mask clears per button on its next released sample.
func (r *Reader) IgnorePressedUntilReleased() {
	for i, p := range r.previous {
		if p {
			r.ignored[i] = true
			r.previous[i] = false
		}
	}
}

// Close releases the sampler.
func (r *Reader) Close() error {
	return r.sampler.Close()
}
