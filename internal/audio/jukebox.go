package audio

import (
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/amplifier/internal/events"
	"github.com/smazurov/amplifier/internal/game"
	"github.com/smazurov/amplifier/internal/metrics"
	"github.com/smazurov/amplifier/internal/sequence"
)

// Song sources.
const (
	SourceRandom = "random"
	SourceCode   = "code"
)

const (
	tickInterval = 250 * time.Millisecond
	eventBuffer  = 64
)

// Output opens audio files for playback.
type Output interface {
	Open(path string) (Track, error)
}

// Track is one opened file. Play starts it from the beginning.
type Track interface {
	Play()
	SetVolume(v float64)
	Playing() bool
	Close() error
}

// Effects are the short sounds played over the music.
type Effects struct {
	Win  string   // played when the party starts
	Fail []string // one is picked when an amplify round collapses back to idle
}

// LoadEffects finds win.mp3 and fail*.mp3 in dir. Missing files leave the
// matching effect silent.
func LoadEffects(dir string) (Effects, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return Effects{}, nil
	}
	if err != nil {
		return Effects{}, err
	}
	var fx Effects
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if e.IsDir() || filepath.Ext(name) != ".mp3" {
			continue
		}
		switch {
		case name == "win.mp3":
			fx.Win = filepath.Join(dir, e.Name())
		case strings.HasPrefix(name, "fail"):
			fx.Fail = append(fx.Fail, filepath.Join(dir, e.Name()))
		}
	}
	return fx, nil
}

// MusicVolume maps held buttons to the music volume. The curve starts
// audible with nothing held and reaches 1 when every button is held.
func MusicVolume(held, total int) float64 {
	if total <= 0 {
		return 1
	}
	held = min(max(held, 0), total)
	return math.Pow(float64(held+2)/float64(total+2), 2)
}

// Status is a snapshot of what the jukebox is doing.
type Status struct {
	Song        *Song    `json:"song,omitempty" doc:"Song currently playing"`
	Source      string   `json:"source,omitempty" example:"random" doc:"How the song was chosen: random or code"`
	Volume      float64  `json:"volume" example:"0.36" doc:"Music volume, 0 to 1"`
	State       string   `json:"state" example:"amplify" doc:"Last game state seen"`
	Collections []string `json:"collections" example:"[\"day\"]" doc:"Collections the schedule currently allows"`
	Typed       string   `json:"typed" example:"345" doc:"Most recent presses as code keys"`
}

// Option configures a Jukebox.
type Option func(*Jukebox)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(j *Jukebox) {
		j.now = now
	}
}

// WithPicker replaces the random choice of songs and effects. pick(n) must
// return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(j *Jukebox) {
		j.pick = pick
	}
}

// WithEffects sets the sound effects.
func WithEffects(fx Effects) Option {
	return func(j *Jukebox) {
		j.effects = fx
	}
}

// Jukebox plays background music that follows the game: a random song from
// the scheduled collections while players amplify, louder the more buttons
// are held, full volume for the party and silence when idle. Typing a song
// code on the buttons plays that song at full volume until it ends.
type Jukebox struct {
	library     *Library
	output      Output
	effects     Effects
	total       int
	codeLength  int
	codeTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
	pick        func(n int) int

	state   game.StateID
	held    int
	music   Track
	song    Song
	source  string
	volume  float64
	sounds  []Track
	typed   *sequence.Tracker
	started bool

	mu     sync.Mutex
	status Status

	unsubscribe []func()
	done        chan struct{}
	stopped     chan struct{}
	stopOnce    sync.Once
}

// NewJukebox creates a jukebox for a game with total buttons.
func NewJukebox(library *Library, output Output, total, codeLength int, codeTimeout time.Duration, logger *slog.Logger, opts ...Option) *Jukebox {
	j := &Jukebox{
		library:     library,
		output:      output,
		total:       total,
		codeLength:  codeLength,
		codeTimeout: codeTimeout,
		logger:      logger,
		now:         time.Now,
		pick:        rand.IntN,
		state:       game.Idle,
		typed:       sequence.NewTracker(max(codeLength, 1) * 2),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.library.Refresh(j.now())
	j.snapshot()
	return j
}

// Start subscribes to bus and plays in the background until Stop.
func (j *Jukebox) Start(bus *events.Bus) {
	ch := make(chan any, eventBuffer)
	j.unsubscribe = []func(){
		events.SubscribeToChannel[events.StateChangedEvent](bus, ch),
		events.SubscribeToChannel[events.ButtonsChangedEvent](bus, ch),
		events.SubscribeToChannel[events.ButtonPressedEvent](bus, ch),
	}
	j.started = true

	go func() {
		defer close(j.stopped)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-j.done:
				j.silence()
				return
			case ev := <-ch:
				j.handle(ev, j.now())
			case <-ticker.C:
				j.tick(j.now())
			}
		}
	}()
	j.logger.Info("Jukebox started", "buttons", j.total, "code_length", j.codeLength)
}

// Stop unsubscribes, silences every track and waits for the player
// goroutine to exit.
func (j *Jukebox) Stop() {
	j.stopOnce.Do(func() {
		for _, unsub := range j.unsubscribe {
			unsub()
		}
		close(j.done)
		if j.started {
			<-j.stopped
		} else {
			j.silence()
		}
		j.logger.Info("Jukebox stopped")
	})
}

// Status returns the latest snapshot.
func (j *Jukebox) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := j.status
	s.Collections = slices.Clone(s.Collections)
	return s
}

func (j *Jukebox) handle(ev any, now time.Time) {
	switch e := ev.(type) {
	case events.StateChangedEvent:
		j.onState(game.StateID(e.To))
	case events.ButtonsChangedEvent:
		j.onHeld(len(e.Pressed))
	case events.ButtonPressedEvent:
		j.onPress(e.Button, now)
	}
	j.snapshot()
}

func (j *Jukebox) onState(to game.StateID) {
	from := j.state
	j.state = to
	if from == to {
		return
	}
	j.logger.Debug("Game state changed", "from", string(from), "to", string(to))

	if to == game.Party {
		j.effect(j.effects.Win)
	}
	if from == game.Amplify && to == game.Idle && len(j.effects.Fail) > 0 {
		j.effect(j.effects.Fail[j.pick(len(j.effects.Fail))])
	}
	if j.source == SourceCode {
		return
	}

	switch to {
	case game.Amplify, game.Party:
		v := j.stateVolume()
		if j.music == nil {
			j.playRandom(v)
		}
		j.setVolume(v)
	default:
		j.stopMusic()
	}
}

func (j *Jukebox) onHeld(held int) {
	j.held = held
	if j.state == game.Amplify && j.source == SourceRandom {
		j.setVolume(MusicVolume(held, j.total))
	}
}

func (j *Jukebox) onPress(button int, now time.Time) {
	if j.codeLength <= 0 {
		return
	}
	j.typed.Add(button, now)
	span, ok := j.typed.Span(j.codeLength)
	if !ok || span > j.codeTimeout {
		return
	}
	code := j.typed.Last(j.codeLength)
	song, found := j.library.ByCode(code)
	if !found {
		return
	}
	j.typed.Reset()
	j.logger.Info("Song code entered", "code", code, "song", song.Name)
	j.play(song, SourceCode, 1)
}

// tick advances the schedule, moves on when a song ends and releases
// finished effects.
func (j *Jukebox) tick(now time.Time) {
	j.library.Refresh(now)

	j.sounds = slices.DeleteFunc(j.sounds, func(t Track) bool {
		if t.Playing() {
			return false
		}
		j.closeTrack(t)
		return true
	})

	if j.music != nil && !j.music.Playing() {
		j.logger.Debug("Song finished", "song", j.song.Name, "source", j.source)
		j.stopMusic()
		if j.state == game.Amplify || j.state == game.Party {
			j.playRandom(j.stateVolume())
		}
	}
	j.snapshot()
}

// stateVolume is the music volume for the current state and held buttons.
func (j *Jukebox) stateVolume() float64 {
	if j.state == game.Party {
		return 1
	}
	return MusicVolume(j.held, j.total)
}

func (j *Jukebox) playRandom(volume float64) {
	song, ok := j.library.Pick(j.pick)
	if !ok {
		j.logger.Warn("No songs in the scheduled collections", "collections", j.library.Active())
		return
	}
	j.play(song, SourceRandom, volume)
}

func (j *Jukebox) play(song Song, source string, volume float64) {
	j.stopMusic()
	track, err := j.output.Open(song.Path)
	if err != nil {
		j.logger.Warn("Failed to open song", "song", song.Name, "error", err)
		return
	}
	j.music = track
	j.song = song
	j.source = source
	j.setVolume(volume)
	track.Play()
	metrics.IncSongStarted(source)
	j.logger.Info("Song started", "song", song.Name, "collection", song.Collection, "source", source)
}

func (j *Jukebox) setVolume(v float64) {
	j.volume = v
	if j.music != nil {
		j.music.SetVolume(v)
		metrics.SetMusicVolume(v)
	}
}

func (j *Jukebox) stopMusic() {
	if j.music == nil {
		return
	}
	j.closeTrack(j.music)
	j.music = nil
	j.song = Song{}
	j.source = ""
	metrics.SetMusicVolume(0)
}

func (j *Jukebox) effect(path string) {
	if path == "" {
		return
	}
	track, err := j.output.Open(path)
	if err != nil {
		j.logger.Warn("Failed to open sound effect", "path", path, "error", err)
		return
	}
	track.SetVolume(1)
	track.Play()
	j.sounds = append(j.sounds, track)
}

func (j *Jukebox) silence() {
	j.stopMusic()
	for _, t := range j.sounds {
		j.closeTrack(t)
	}
	j.sounds = nil
	j.snapshot()
}

func (j *Jukebox) closeTrack(t Track) {
	if err := t.Close(); err != nil {
		j.logger.Warn("Failed to close track", "error", err)
	}
}

func (j *Jukebox) snapshot() {
	s := Status{
		Source:      j.source,
		State:       string(j.state),
		Collections: slices.Clone(j.library.Active()),
		Typed:       j.typed.String(),
	}
	if j.music != nil {
		song := j.song
		s.Song = &song
		s.Volume = j.volume
	}
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}
