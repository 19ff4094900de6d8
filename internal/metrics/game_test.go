package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFrame(t *testing.T) {
	before := testutil.ToFloat64(frameOverruns)
	framesBefore := testutil.ToFloat64(frames)

	ObserveFrame(5*time.Millisecond, false)
	ObserveFrame(50*time.Millisecond, true)

	if got := testutil.ToFloat64(frameOverruns) - before; got != 1 {
		t.Errorf("overruns delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(frames) - framesBefore; got != 2 {
		t.Errorf("frames delta = %v, want 2", got)
	}
}

func TestRecordTransition(t *testing.T) {
	SetState("", "idle")
	RecordTransition("idle", "amplify")

	if got := testutil.ToFloat64(transitions.WithLabelValues("idle", "amplify")); got < 1 {
		t.Errorf("transitions{idle,amplify} = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(currentState.WithLabelValues("idle")); got != 0 {
		t.Errorf("state{idle} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(currentState.WithLabelValues("amplify")); got != 1 {
		t.Errorf("state{amplify} = %v, want 1", got)
	}
}

func TestCounters(t *testing.T) {
	IncSequenceMatch("metrics-test")
	IncButtonPress(9)
	IncFlushError("metrics-test")

	if got := testutil.ToFloat64(sequenceMatches.WithLabelValues("metrics-test")); got != 1 {
		t.Errorf("sequence matches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(buttonPresses.WithLabelValues("9")); got < 1 {
		t.Errorf("button presses = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(flushErrors.WithLabelValues("metrics-test")); got != 1 {
		t.Errorf("flush errors = %v, want 1", got)
	}
}

func TestAudioMetrics(t *testing.T) {
	before := testutil.ToFloat64(songsStarted.WithLabelValues("code"))
	IncSongStarted("code")
	SetMusicVolume(0.25)

	if got := testutil.ToFloat64(songsStarted.WithLabelValues("code")) - before; got != 1 {
		t.Errorf("songs started delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(musicVolume); got != 0.25 {
		t.Errorf("music volume = %v, want 0.25", got)
	}
}
