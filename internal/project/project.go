// Package project persists editing sessions as versioned YAML project files,
// so a composition survives app restarts and can be handed to the headless
// export command.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cutroom/cutroom/internal/timeline"
)

// FormatVersion is the current project file format version.
const FormatVersion = 1

var (
	// ErrUnknownVersion is returned when loading a project written by a
	// newer format than this build understands.
	ErrUnknownVersion = errors.New("project: unknown format version")
	// ErrMalformed is returned when a project file fails validation after
	// decoding.
	ErrMalformed = errors.New("project: malformed project file")
)

// File is the on-disk shape of a project. All times are milliseconds.
type File struct {
	Version     int          `yaml:"version"`
	Name        string       `yaml:"name,omitempty"`
	Clips       []Clip       `yaml:"clips"`
	Tracks      []Track      `yaml:"tracks,omitempty"`
	Transitions []Transition `yaml:"transitions,omitempty"`
	Markers     []Marker     `yaml:"markers,omitempty"`
}

// Clip is the serialized form of a video clip.
type Clip struct {
	ID        string  `yaml:"id"`
	Source    string  `yaml:"source"`
	StartTime int64   `yaml:"start_time"`
	EndTime   int64   `yaml:"end_time"`
	Position  int64   `yaml:"position"`
	Speed     float64 `yaml:"speed"`
}

// Track is the serialized form of an audio track.
type Track struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name,omitempty"`
	Clips []AudioClip `yaml:"clips"`
}

// AudioClip is the serialized form of an audio clip.
type AudioClip struct {
	ID        string     `yaml:"id"`
	Source    string     `yaml:"source"`
	StartTime int64      `yaml:"start_time"`
	EndTime   int64      `yaml:"end_time"`
	Position  int64      `yaml:"position"`
	Volume    float64    `yaml:"volume"`
	Muted     bool       `yaml:"muted,omitempty"`
	FadeIn    int64      `yaml:"fade_in,omitempty"`
	FadeOut   int64      `yaml:"fade_out,omitempty"`
	Keyframes []Keyframe `yaml:"keyframes,omitempty"`
}

// Keyframe is the serialized form of a volume automation point.
type Keyframe struct {
	Time  int64   `yaml:"time"`
	Value float64 `yaml:"value"`
}

// Transition is the serialized form of a boundary effect.
type Transition struct {
	Position int64  `yaml:"position"`
	Type     string `yaml:"type"`
	Duration int64  `yaml:"duration"`
}

// Marker is the serialized form of a timeline annotation.
type Marker struct {
	Time  int64  `yaml:"time"`
	Label string `yaml:"label"`
}

// FromSession converts a session into its serialized form.
func FromSession(name string, sess timeline.Session) File {
	f := File{Version: FormatVersion, Name: name}
	for _, c := range sess.Clips {
		f.Clips = append(f.Clips, Clip{
			ID:        c.ID,
			Source:    string(c.Source),
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Position:  c.Position,
			Speed:     c.Speed,
		})
	}
	for _, tr := range sess.Tracks {
		t := Track{ID: tr.ID, Name: tr.Name}
		for _, c := range tr.Clips {
			ac := AudioClip{
				ID:        c.ID,
				Source:    string(c.Source),
				StartTime: c.StartTime,
				EndTime:   c.EndTime,
				Position:  c.Position,
				Volume:    c.Volume,
				Muted:     c.Muted,
				FadeIn:    c.FadeIn,
				FadeOut:   c.FadeOut,
			}
			for _, kf := range c.Keyframes {
				ac.Keyframes = append(ac.Keyframes, Keyframe{Time: kf.Time, Value: kf.Value})
			}
			t.Clips = append(t.Clips, ac)
		}
		f.Tracks = append(f.Tracks, t)
	}
	for _, tn := range sess.Transitions {
		f.Transitions = append(f.Transitions, Transition{
			Position: tn.Position,
			Type:     tn.Type.String(),
			Duration: tn.Duration,
		})
	}
	for _, m := range sess.Markers {
		f.Markers = append(f.Markers, Marker{Time: m.Time, Label: m.Label})
	}
	return f
}

// Session rebuilds the in-memory session from the serialized form.
func (f File) Session() (timeline.Session, error) {
	if f.Version > FormatVersion {
		return timeline.Session{}, fmt.Errorf("%w: %d", ErrUnknownVersion, f.Version)
	}

	var sess timeline.Session
	for i, c := range f.Clips {
		if c.ID == "" || c.Source == "" {
			return timeline.Session{}, fmt.Errorf("%w: clip %d missing id or source", ErrMalformed, i)
		}
		speed := c.Speed
		if speed <= 0 {
			speed = 1
		}
		sess.Clips = append(sess.Clips, timeline.VideoClip{
			ID:        c.ID,
			Source:    timeline.SourceRef(c.Source),
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Position:  c.Position,
			Speed:     speed,
		})
	}
	for ti, tr := range f.Tracks {
		if tr.ID == "" {
			return timeline.Session{}, fmt.Errorf("%w: track %d missing id", ErrMalformed, ti)
		}
		track := timeline.AudioTrack{ID: tr.ID, Name: tr.Name}
		for ci, c := range tr.Clips {
			if c.ID == "" || c.Source == "" {
				return timeline.Session{}, fmt.Errorf("%w: track %d clip %d missing id or source", ErrMalformed, ti, ci)
			}
			ac := timeline.AudioClip{
				ID:        c.ID,
				Source:    timeline.SourceRef(c.Source),
				StartTime: c.StartTime,
				EndTime:   c.EndTime,
				Position:  c.Position,
				Volume:    c.Volume,
				Muted:     c.Muted,
				FadeIn:    c.FadeIn,
				FadeOut:   c.FadeOut,
			}
			for _, kf := range c.Keyframes {
				ac = ac.WithKeyframe(timeline.VolumeKeyframe{Time: kf.Time, Value: kf.Value})
			}
			track.Clips = append(track.Clips, ac)
		}
		sess.Tracks = append(sess.Tracks, track)
	}
	for i, tn := range f.Transitions {
		kind, ok := transitionTypeFromName(tn.Type)
		if !ok {
			return timeline.Session{}, fmt.Errorf("%w: transition %d has unknown type %q", ErrMalformed, i, tn.Type)
		}
		sess.Transitions = append(sess.Transitions, timeline.Transition{
			Position: tn.Position,
			Type:     kind,
			Duration: tn.Duration,
		})
	}
	for _, m := range f.Markers {
		sess.Markers = append(sess.Markers, timeline.Marker{Time: m.Time, Label: m.Label})
	}

	timeline.SortClips(sess.Clips)
	return sess, nil
}

func transitionTypeFromName(name string) (timeline.TransitionType, bool) {
	for _, kind := range []timeline.TransitionType{
		timeline.TransitionNone,
		timeline.TransitionCrossfade,
		timeline.TransitionFadeToBlack,
		timeline.TransitionWipe,
		timeline.TransitionSlide,
	} {
		if kind.String() == name {
			return kind, true
		}
	}
	return timeline.TransitionNone, false
}

// Save writes the session to path as YAML, creating parent directories as
// needed. The write goes through a temp file and rename so a crash cannot
// leave a truncated project behind.
func Save(path, name string, sess timeline.Session) error {
	data, err := yaml.Marshal(FromSession(name, sess))
	if err != nil {
		return fmt.Errorf("project: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("project: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".project-*.yaml")
	if err != nil {
		return fmt.Errorf("project: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("project: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("project: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("project: rename: %w", err)
	}
	return nil
}

// Load reads a project file and rebuilds its session.
func Load(path string) (timeline.Session, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Session{}, "", fmt.Errorf("project: read: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return timeline.Session{}, "", fmt.Errorf("project: decode: %w", err)
	}

	sess, err := f.Session()
	if err != nil {
		return timeline.Session{}, "", err
	}
	return sess, f.Name, nil
}
