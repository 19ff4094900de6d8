package api

import (
	"sync"

	"github.com/smazurov/amplifier/internal/events"
)

const defaultHistorySize = 50

// history keeps the most recent state transitions for the API.
type history struct {
	mu          sync.RWMutex
	entries     []events.StateChangedEvent
	size        int
	unsubscribe func()
	done        chan struct{}
	stopOnce    sync.Once
}

func newHistory(bus *events.Bus, size int) *history {
	if size <= 0 {
		size = defaultHistorySize
	}
	h := &history{
		size: size,
		done: make(chan struct{}),
	}

	eventCh := make(chan any, 16)
	h.unsubscribe = events.SubscribeToChannel[events.StateChangedEvent](bus, eventCh)
	go func() {
		for {
			select {
			case <-h.done:
				return
			case ev := <-eventCh:
				if e, ok := ev.(events.StateChangedEvent); ok {
					h.add(e)
				}
			}
		}
	}()
	return h
}

func (h *history) add(e events.StateChangedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.size; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

func (h *history) list() []events.StateChangedEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]events.StateChangedEvent(nil), h.entries...)
}

func (h *history) stop() {
	h.stopOnce.Do(func() {
		h.unsubscribe()
		close(h.done)
	})
}
