// Package speaker plays MP3 files on the default sound card through oto.
// It needs cgo and ALSA on Linux, so it is kept apart from package audio.
package speaker

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"

	"github.com/smazurov/amplifier/internal/audio"
)

// go-mp3 decodes to interleaved 16-bit stereo.
const channels = 2

var _ audio.Output = (*Speaker)(nil)

// Speaker owns the process-wide oto context.
type Speaker struct {
	ctx  *oto.Context
	rate int
}

// New opens the sound card at sampleRate and waits until it is ready.
func New(sampleRate int) (*Speaker, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound card: %w", err)
	}
	<-ready
	return &Speaker{ctx: ctx, rate: sampleRate}, nil
}

// Open decodes path for playback. Files recorded at another sample rate are
// rejected since oto does not resample.
func (s *Speaker) Open(path string) (audio.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := mp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if d.SampleRate() != s.rate {
		_ = f.Close()
		return nil, fmt.Errorf("%s: sample rate %d Hz, sound card runs at %d Hz", path, d.SampleRate(), s.rate)
	}
	return &track{player: s.ctx.NewPlayer(d), file: f}, nil
}

type track struct {
	player oto.Player
	file   *os.File
}

func (t *track) Play()               { t.player.Play() }
func (t *track) SetVolume(v float64) { t.player.SetVolume(v) }
func (t *track) Playing() bool       { return t.player.IsPlaying() }

func (t *track) Close() error {
	return errors.Join(t.player.Close(), t.file.Close())
}
