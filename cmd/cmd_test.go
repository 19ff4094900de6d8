package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/amplifier/internal/audio"
	"github.com/smazurov/amplifier/internal/config"
)

const memoryStrips = `
[[strips]]
name = "a"
driver = "none"
count = 150

[[strips]]
name = "b"
driver = "none"
count = 150
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amplifier.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGameOverrides(t *testing.T) {
	path := writeConfig(t, memoryStrips)

	g, err := LoadGame(&Settings{Config: path, Sampler: "keyboard-line", FPS: 60})
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if g.Buttons.Sampler != "keyboard-line" || g.FPS != 60 {
		t.Errorf("sampler/fps = %s/%d, want keyboard-line/60", g.Buttons.Sampler, g.FPS)
	}

	_, err = LoadGame(&Settings{Config: path, Sampler: "midi"})
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != config.ErrCodeInvalidButtons {
		t.Errorf("err = %v, want %s", err, config.ErrCodeInvalidButtons)
	}
}

func TestCheckCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := CreateCheckCmd(&Settings{Config: writeConfig(t, memoryStrips)})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	for _, want := range []string{"button 9: GPIO26, LEDs 270-299", "strip a: 150 LEDs on none", "configuration OK"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckCmdInvalid(t *testing.T) {
	var out bytes.Buffer
	cmd := CreateCheckCmd(&Settings{Config: writeConfig(t, "[game]\nleds_per_button = 100\n")})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), config.ErrCodeInvalidGame) {
		t.Errorf("err = %v, want %s", err, config.ErrCodeInvalidGame)
	}
}

func TestButtonsCmd(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := w.WriteString("7\n7\n7\n"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := CreateButtonsCmd(&Settings{Config: writeConfig(t, memoryStrips), Sampler: "keyboard-line", Input: r})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--duration", "300ms"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("buttons failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "watching 10 buttons with the keyboard-line sampler") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "rising=[7]") {
		t.Errorf("missing press of button 7:\n%s", got)
	}
}

func TestStripsCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := CreateStripsCmd(&Settings{Config: writeConfig(t, memoryStrips)})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--interval", "1ms", "--cycles", "2"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("strips failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out.String())
	}
	if lines[0] != "300 LEDs red" || lines[3] != "300 LEDs off" {
		t.Errorf("lines = %q", lines)
	}
}

func TestSongsCmd(t *testing.T) {
	songInfo = func(string) (audio.Info, error) {
		return audio.Info{Length: 185 * time.Second, SampleRate: 44100}, nil
	}
	t.Cleanup(func() { songInfo = audio.ReadMP3Info })

	dir := t.TempDir()
	for _, f := range []string{"day/12345 Sunrise.mp3", "day/Jingle.mp3"} {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := writeConfig(t, memoryStrips+"\n[audio]\nsongs_dir = \""+filepath.ToSlash(dir)+"\"\n")

	tests := []struct {
		args []string
		want []string
	}{
		{nil, []string{"12345  day", "3m5s", "-      day"}},
		{[]string{"--csv", "--codes"}, []string{"code,collection,name\n12345,day,12345 Sunrise\n"}},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		cmd := CreateSongsCmd(&Settings{Config: cfg})
		cmd.SetOut(&out)
		cmd.SetArgs(tt.args)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("songs %v failed: %v", tt.args, err)
		}
		for _, want := range tt.want {
			if !strings.Contains(out.String(), want) {
				t.Errorf("songs %v output missing %q:\n%s", tt.args, want, out.String())
			}
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := CreateVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "amplifier ") {
		t.Errorf("output = %q", out.String())
	}
}
