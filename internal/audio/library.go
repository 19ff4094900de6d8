package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// scheduleCheckInterval bounds how often the schedule is re-evaluated.
const scheduleCheckInterval = time.Minute

// ErrNoSongs is returned when the songs directory holds no playable file.
var ErrNoSongs = errors.New("no playable songs found")

// Song is one playable file of a collection.
type Song struct {
	Path       string        `json:"-"`
	Name       string        `json:"name" example:"34512 Dancing Queen" doc:"File name without extension"`
	Collection string        `json:"collection" example:"party" doc:"Collection (songs sub-directory)"`
	Code       string        `json:"code,omitempty" example:"34512" doc:"Code that plays this song when typed on the buttons"`
	Length     time.Duration `json:"-"`
	SampleRate int           `json:"-"`
}

// Info describes a decoded song file.
type Info struct {
	Length     time.Duration
	SampleRate int
}

// InfoReader inspects a song file. Files it rejects are left out of the library.
type InfoReader func(path string) (Info, error)

// ReadMP3Info decodes the MP3 headers of path to find its length and rate.
func ReadMP3Info(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	info := Info{SampleRate: d.SampleRate()}
	// go-mp3 always produces 16-bit stereo: four bytes per sample frame.
	if n := d.Length(); n > 0 && info.SampleRate > 0 {
		info.Length = time.Duration(n/4) * time.Second / time.Duration(info.SampleRate)
	}
	return info, nil
}

// Library indexes the songs directory. Each sub-directory is a collection;
// a file whose name starts with a code (for example "34512 Title.mp3") can
// be played by typing that code. It is not safe for concurrent use.
type Library struct {
	dir        string
	codeLength int
	schedule   Schedule
	readInfo   InfoReader
	logger     *slog.Logger

	collections []string
	songs       []Song
	codes       map[string]Song

	active  []string
	basket  []Song
	loaded  bool
	checked time.Time
}

// NewLibrary scans dir. Every collection referenced by the schedule must
// exist, and at least one song must be playable.
func NewLibrary(dir string, codeLength int, schedule Schedule, readInfo InfoReader, logger *slog.Logger) (*Library, error) {
	if readInfo == nil {
		readInfo = ReadMP3Info
	}
	l := &Library{
		dir:        dir,
		codeLength: codeLength,
		schedule:   schedule,
		readInfo:   readInfo,
		logger:     logger,
		codes:      make(map[string]Song),
	}
	if err := l.scan(); err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range schedule.Referenced() {
		if !slices.Contains(l.collections, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("schedule references missing collections %v in %s", missing, dir)
	}
	if len(l.songs) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSongs)
	}

	logger.Info("Song library loaded",
		"dir", dir,
		"collections", l.collections,
		"songs", len(l.songs),
		"codes", len(l.codes))
	return l, nil
}

func (l *Library) scan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read songs directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		l.collections = append(l.collections, e.Name())
		if err := l.scanCollection(e.Name()); err != nil {
			l.logger.Warn("Skipping unreadable collection", "collection", e.Name(), "error", err)
		}
	}
	return nil
}

func (l *Library) scanCollection(collection string) error {
	files, err := os.ReadDir(filepath.Join(l.dir, collection))
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".mp3") {
			continue
		}
		path := filepath.Join(l.dir, collection, f.Name())
		info, err := l.readInfo(path)
		if err != nil {
			l.logger.Warn("Skipping unplayable song", "path", path, "error", err)
			continue
		}

		song := Song{
			Path:       path,
			Name:       strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())),
			Collection: collection,
			Code:       songCode(f.Name(), l.codeLength),
			Length:     info.Length,
			SampleRate: info.SampleRate,
		}
		if song.Code != "" {
			if prev, dup := l.codes[song.Code]; dup {
				l.logger.Error("Duplicate song code, keeping the first file",
					"code", song.Code, "path", path, "kept", prev.Path)
				song.Code = ""
			} else {
				l.codes[song.Code] = song
			}
		}
		l.songs = append(l.songs, song)
	}
	return nil
}

// songCode returns the leading digits of name when they form a valid code:
// exactly length digits, not starting with 0.
func songCode(name string, length int) string {
	n := 0
	for n < len(name) && name[n] >= '0' && name[n] <= '9' {
		n++
	}
	if n != length || length == 0 || name[0] == '0' {
		return ""
	}
	return name[:n]
}

// Collections returns the collection names, sorted.
func (l *Library) Collections() []string {
	return l.collections
}

// Songs returns every song in collection then file order.
func (l *Library) Songs() []Song {
	return l.songs
}

// ByCode returns the song typed as code.
func (l *Library) ByCode(code string) (Song, bool) {
	s, ok := l.codes[code]
	return s, ok
}

// Active returns the collections currently allowed by the schedule.
func (l *Library) Active() []string {
	return l.active
}

// Refresh re-evaluates the schedule, at most once per minute. It reports
// whether the playable collections changed.
func (l *Library) Refresh(now time.Time) bool {
	if !l.checked.IsZero() && now.Sub(l.checked) < scheduleCheckInterval {
		return false
	}
	l.checked = now

	active := l.schedule.At(now, l.collections)
	if l.loaded && slices.Equal(active, l.active) {
		return false
	}
	l.loaded = true
	l.active = active
	l.basket = nil
	for _, s := range l.songs {
		if slices.Contains(active, s.Collection) {
			l.basket = append(l.basket, s)
		}
	}
	l.logger.Info("Playable collections updated", "collections", active, "songs", len(l.basket))
	return true
}

// Pick returns a song from the active collections using pick(n), which must
// return a value in [0, n).
func (l *Library) Pick(pick func(n int) int) (Song, bool) {
	if len(l.basket) == 0 {
		return Song{}, false
	}
	return l.basket[pick(len(l.basket))], true
}
