// Package export compiles a composition and a preset into an output media
// file, emitting a cancelable, monotone progress stream. The pipeline works
// against a deep copy of the session, so edits made after an export starts
// never affect the in-flight export.
package export

import (
	"errors"
	"fmt"
)

// Errors returned by the export pipeline.
var (
	// ErrExportConfig indicates an unknown or unsupported preset combination.
	ErrExportConfig = errors.New("invalid export configuration")

	// ErrExportCanceled indicates the export was canceled by the caller.
	ErrExportCanceled = errors.New("export canceled")
)

// ExportError is the terminal failure of an export task, carrying the
// stage that failed and the underlying cause.
type ExportError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error { return e.Err }

// Container is the output file format.
type Container string

const (
	// ContainerMP4 is an MPEG-4 container with H.264 video.
	ContainerMP4 Container = "mp4"
	// ContainerMOV is a QuickTime container.
	ContainerMOV Container = "mov"
	// ContainerWebM is a WebM container with VP9 video.
	ContainerWebM Container = "webm"
)

// Preset is a named bundle of encoding parameters selected by the caller.
type Preset struct {
	Name      string
	Width     int
	Height    int
	BitrateK  int
	FrameRate int
	Container Container
}

// presets is the built-in catalog, keyed by name.
var presets = map[string]Preset{
	"1080p": {Name: "1080p", Width: 1920, Height: 1080, BitrateK: 8000, FrameRate: 30, Container: ContainerMP4},
	"720p":  {Name: "720p", Width: 1280, Height: 720, BitrateK: 5000, FrameRate: 30, Container: ContainerMP4},
	"480p":  {Name: "480p", Width: 854, Height: 480, BitrateK: 2500, FrameRate: 30, Container: ContainerMP4},
	"square": {Name: "square", Width: 1080, Height: 1080, BitrateK: 6000, FrameRate: 30, Container: ContainerMP4},
	"web":    {Name: "web", Width: 1280, Height: 720, BitrateK: 4000, FrameRate: 30, Container: ContainerWebM},
}

// PresetByName looks up a built-in preset.
func PresetByName(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns the catalog's preset names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

// Validate rejects unsupported parameter combinations as a configuration
// error rather than letting the encoder crash on them.
func (p Preset) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrExportConfig, p.Width, p.Height)
	}
	if p.Width%2 != 0 || p.Height%2 != 0 {
		return fmt.Errorf("%w: odd dimensions %dx%d", ErrExportConfig, p.Width, p.Height)
	}
	if p.BitrateK <= 0 {
		return fmt.Errorf("%w: bitrate %dk", ErrExportConfig, p.BitrateK)
	}
	if p.FrameRate <= 0 || p.FrameRate > 120 {
		return fmt.Errorf("%w: frame rate %d", ErrExportConfig, p.FrameRate)
	}
	switch p.Container {
	case ContainerMP4, ContainerMOV, ContainerWebM:
	default:
		return fmt.Errorf("%w: container %q", ErrExportConfig, p.Container)
	}
	return nil
}
