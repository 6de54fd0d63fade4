// Package config loads application configuration from a TOML file. A missing
// file is not an error; every field has a usable default so the editor runs
// with no configuration at all.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/cutroom/cutroom/internal/export"
	"github.com/cutroom/cutroom/internal/session"
)

// ErrInvalidConfig wraps every validation failure in this package.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full application configuration.
type Config struct {
	Log      Log              `toml:"log"`
	History  HistoryConfig    `toml:"history"`
	Playback Playback         `toml:"playback"`
	Export   Export           `toml:"export"`
	Presets  []PresetOverride `toml:"presets"`
}

// Log configures the application logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// Playback configures the preview sampler.
type Playback struct {
	SampleIntervalMs int64 `toml:"sample_interval_ms"`
}

// Export configures the export pipeline defaults.
type Export struct {
	DefaultPreset string `toml:"default_preset"`
	OutputDir     string `toml:"output_dir"`
	// Workers caps parallel segment encoders; 0 means size from the host.
	Workers   int    `toml:"workers"`
	FFmpegBin string `toml:"ffmpeg_bin"`
	TempDir   string `toml:"temp_dir"`
}

// PresetOverride declares an extra export preset, or redefines a built-in
// one by reusing its name.
type PresetOverride struct {
	Name      string `toml:"name"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	BitrateK  int    `toml:"bitrate_k"`
	FrameRate int    `toml:"frame_rate"`
	Container string `toml:"container"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log:      Log{Level: "info"},
		History:  HistoryConfig{MaxEntries: session.DefaultMaxEntries},
		Playback: Playback{SampleIntervalMs: 100},
		Export: Export{
			DefaultPreset: "1080p",
			OutputDir:     ".",
			FFmpegBin:     "ffmpeg",
		},
	}
}

// Load reads the configuration at path, layered over Default. A missing
// file yields the defaults; a present but unreadable or invalid file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and the preset overrides.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("%w: history.max_entries must be positive", ErrInvalidConfig)
	}
	if c.Playback.SampleIntervalMs < 1 {
		return fmt.Errorf("%w: playback.sample_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.Export.Workers < 0 {
		return fmt.Errorf("%w: export.workers must not be negative", ErrInvalidConfig)
	}
	for _, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset override missing name", ErrInvalidConfig)
		}
		if err := p.preset().Validate(); err != nil {
			return fmt.Errorf("%w: preset %q: %v", ErrInvalidConfig, p.Name, err)
		}
	}
	return nil
}

func (p PresetOverride) preset() export.Preset {
	return export.Preset{
		Name:      p.Name,
		Width:     p.Width,
		Height:    p.Height,
		BitrateK:  p.BitrateK,
		FrameRate: p.FrameRate,
		Container: export.Container(p.Container),
	}
}

// ResolvePreset looks up a preset by name, consulting the overrides first
// and the built-in catalog second. An empty name resolves the configured
// default preset.
func (c Config) ResolvePreset(name string) (export.Preset, error) {
	if name == "" {
		name = c.Export.DefaultPreset
	}
	for _, p := range c.Presets {
		if p.Name == name {
			return p.preset(), nil
		}
	}
	preset, ok := export.PresetByName(name)
	if !ok {
		return export.Preset{}, fmt.Errorf("%w: unknown preset %q", export.ErrExportConfig, name)
	}
	return preset, nil
}
