package buttons

import "errors"

// Hybrid ORs a primary sampler (normally GPIO) with keyboard toggles, so a
// button reads pressed when either source says so.
type Hybrid struct {
	primary Sampler
	keys    Sampler
}

// NewHybrid combines primary and keys. keys may cover fewer buttons than primary.
func NewHybrid(primary, keys Sampler) *Hybrid {
	return &Hybrid{primary: primary, keys: keys}
}

func (h *Hybrid) Count() int {
	return h.primary.Count()
}

func (h *Hybrid) Setup() error {
	if err := h.primary.Setup(); err != nil {
		return err
	}
	return h.keys.Setup()
}

func (h *Hybrid) Sample() []bool {
	out := h.primary.Sample()
	keys := h.keys.Sample()
	for i := range out {
		if i < len(keys) && keys[i] {
			out[i] = true
		}
	}
	return out
}

func (h *Hybrid) Close() error {
	return errors.Join(h.primary.Close(), h.keys.Close())
}
