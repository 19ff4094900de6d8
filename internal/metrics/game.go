// Package metrics provides Prometheus metrics for the game loop, inputs, audio and LED strips.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "amplifier"

var (
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "loop",
		Name:      "frame_duration_seconds",
		Help:      "Time spent on one frame's work, excluding the pacing sleep",
		Buckets:   []float64{.001, .0025, .005, .01, .02, .033, .05, .1, .25},
	})

	frameOverruns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loop",
		Name:      "frame_overruns_total",
		Help:      "Frames whose work exceeded the frame period",
	})

	frames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loop",
		Name:      "frames_total",
		Help:      "Frames processed",
	})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "game",
		Name:      "transitions_total",
		Help:      "Game state transitions",
	}, []string{"from", "to"})

	currentState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "game",
		Name:      "state",
		Help:      "1 for the current game state, 0 otherwise",
	}, []string{"state"})

	sequenceMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "game",
		Name:      "sequence_matches_total",
		Help:      "Button sequences that fired",
	}, []string{"rule"})

	buttonPresses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "buttons",
		Name:      "presses_total",
		Help:      "Rising edges per button",
	}, []string{"button"})

	songsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audio",
		Name:      "songs_started_total",
		Help:      "Songs started, by how they were chosen",
	}, []string{"source"})

	musicVolume = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "audio",
		Name:      "music_volume",
		Help:      "Background music volume, 0 when silent",
	})

	flushErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "strip",
		Name:      "flush_errors_total",
		Help:      "Failed strip flushes",
	}, []string{"strip"})
)

// ObserveFrame records one frame's work time and whether it overran.
func ObserveFrame(work time.Duration, overrun bool) {
	frames.Inc()
	frameDuration.Observe(work.Seconds())
	if overrun {
		frameOverruns.Inc()
	}
}

// RecordTransition counts a transition and moves the state gauge.
func RecordTransition(from, to string) {
	transitions.WithLabelValues(from, to).Inc()
	SetState(from, to)
}

// SetState clears the gauge of the previous state and sets the current one.
// previous may be empty.
func SetState(previous, current string) {
	if previous != "" {
		currentState.WithLabelValues(previous).Set(0)
	}
	currentState.WithLabelValues(current).Set(1)
}

// IncSequenceMatch counts a fired sequence rule.
func IncSequenceMatch(rule string) {
	sequenceMatches.WithLabelValues(rule).Inc()
}

// IncButtonPress counts a rising edge.
func IncButtonPress(button int) {
	buttonPresses.WithLabelValues(strconv.Itoa(button)).Inc()
}

// IncFlushError counts a failed flush of a strip.
func IncFlushError(strip string) {
	flushErrors.WithLabelValues(strip).Inc()
}

// IncSongStarted counts a started song. source is "random" or "code".
func IncSongStarted(source string) {
	songsStarted.WithLabelValues(source).Inc()
}

// SetMusicVolume records the background music volume.
func SetMusicVolume(v float64) {
	musicVolume.Set(v)
}
