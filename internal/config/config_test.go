package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cutroom/cutroom/internal/export"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cutroom.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Export.DefaultPreset != "1080p" {
		t.Errorf("DefaultPreset = %q, want 1080p", cfg.Export.DefaultPreset)
	}
	if cfg.Playback.SampleIntervalMs != 100 {
		t.Errorf("SampleIntervalMs = %d, want 100", cfg.Playback.SampleIntervalMs)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[history]
max_entries = 25

[export]
default_preset = "720p"
workers = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.History.MaxEntries != 25 {
		t.Errorf("MaxEntries = %d, want 25", cfg.History.MaxEntries)
	}
	if cfg.Export.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Export.Workers)
	}
	// Untouched sections keep their defaults.
	if cfg.Export.FFmpegBin != "ffmpeg" {
		t.Errorf("FFmpegBin = %q, want ffmpeg", cfg.Export.FFmpegBin)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad log level", "[log]\nlevel = \"chatty\"\n"},
		{"zero history", "[history]\nmax_entries = 0\n"},
		{"negative workers", "[export]\nworkers = -1\n"},
		{"nameless preset", "[[presets]]\nwidth = 640\nheight = 480\nbitrate_k = 1000\nframe_rate = 30\ncontainer = \"mp4\"\n"},
		{"odd preset width", "[[presets]]\nname = \"odd\"\nwidth = 641\nheight = 480\nbitrate_k = 1000\nframe_rate = 30\ncontainer = \"mp4\"\n"},
		{"not toml", "log = {{{{\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestResolvePreset(t *testing.T) {
	path := writeConfig(t, `
[[presets]]
name = "vertical"
width = 1080
height = 1920
bitrate_k = 6000
frame_rate = 30
container = "mp4"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := cfg.ResolvePreset("vertical")
	if err != nil {
		t.Fatalf("ResolvePreset(vertical): %v", err)
	}
	if got.Width != 1080 || got.Height != 1920 {
		t.Errorf("vertical = %dx%d, want 1080x1920", got.Width, got.Height)
	}

	// Empty name resolves the configured default out of the catalog.
	got, err = cfg.ResolvePreset("")
	if err != nil {
		t.Fatalf("ResolvePreset(\"\"): %v", err)
	}
	if got.Name != "1080p" {
		t.Errorf("default preset = %q, want 1080p", got.Name)
	}

	if _, err := cfg.ResolvePreset("no-such"); !errors.Is(err, export.ErrExportConfig) {
		t.Errorf("unknown preset err = %v, want ErrExportConfig", err)
	}
}

func TestOverrideShadowsBuiltin(t *testing.T) {
	path := writeConfig(t, `
[[presets]]
name = "720p"
width = 1280
height = 720
bitrate_k = 9000
frame_rate = 60
container = "mp4"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := cfg.ResolvePreset("720p")
	if err != nil {
		t.Fatalf("ResolvePreset: %v", err)
	}
	if got.BitrateK != 9000 || got.FrameRate != 60 {
		t.Errorf("override not applied: %+v", got)
	}
}
