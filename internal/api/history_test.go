package api

import (
	"testing"

	"github.com/smazurov/amplifier/internal/events"
)

func TestHistoryTrims(t *testing.T) {
	h := &history{size: 3}
	for _, to := range []string{"amplify", "idle", "party", "idle", "test"} {
		h.add(events.StateChangedEvent{To: to})
	}

	got := h.list()
	if len(got) != 3 {
		t.Fatalf("kept %d entries, want 3", len(got))
	}
	for i, want := range []string{"party", "idle", "test"} {
		if got[i].To != want {
			t.Errorf("entry %d = %q, want %q", i, got[i].To, want)
		}
	}

	got[0].To = "changed"
	if h.list()[0].To != "party" {
		t.Error("list returned the internal slice")
	}
}

func TestHistoryStopTwice(t *testing.T) {
	h := newHistory(events.New(), 0)
	if h.size != defaultHistorySize {
		t.Errorf("size = %d, want %d", h.size, defaultHistorySize)
	}
	h.stop()
	h.stop()
}
