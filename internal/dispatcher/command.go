// Package dispatcher routes editing commands from the UI layer to the
// matching editor and coordinates undo/redo, transport, and UI-only state.
// The command set is a closed union: every intent is one variant with named
// fields, dispatched through a single exhaustive switch.
package dispatcher

import "github.com/cutroom/cutroom/internal/timeline"

// Command is one editing intent from the UI layer. The set is closed; only
// types in this package implement it.
type Command interface {
	isCommand()
}

// TrimClip replaces a video clip's source window.
type TrimClip struct {
	ClipID    string
	StartTime int64
	EndTime   int64
}

// SplitClip cuts a video clip at an offset into its source window.
type SplitClip struct {
	ClipID string
	Offset int64
}

// DeleteClipRange ripple-deletes a sub-window of a video clip's source.
type DeleteClipRange struct {
	ClipID    string
	StartTime int64
	EndTime   int64
}

// DeleteClip ripple-deletes a whole video clip.
type DeleteClip struct {
	ClipID string
}

// MoveClip reassigns a video clip's absolute position.
type MoveClip struct {
	ClipID      string
	NewPosition int64
}

// CopyClip duplicates a video clip after its own end.
type CopyClip struct {
	ClipID string
}

// SetClipSpeed changes a video clip's playback rate.
type SetClipSpeed struct {
	ClipID string
	Speed  float64
}

// TrimAudio replaces an audio clip's source window.
type TrimAudio struct {
	TrackID   string
	ClipID    string
	StartTime int64
	EndTime   int64
}

// MoveAudio reassigns an audio clip's absolute position.
type MoveAudio struct {
	TrackID     string
	ClipID      string
	NewPosition int64
}

// DeleteAudio ripple-deletes an audio clip within its track.
type DeleteAudio struct {
	TrackID string
	ClipID  string
}

// CopyAudio duplicates an audio clip after its own end.
type CopyAudio struct {
	TrackID string
	ClipID  string
}

// SplitAudio cuts an audio clip at an offset into its source window.
type SplitAudio struct {
	TrackID string
	ClipID  string
	Offset  int64
}

// MuteAudioRange sets an audio clip's mute flag.
type MuteAudioRange struct {
	TrackID string
	ClipID  string
	Muted   bool
}

// ToggleAudioMute flips an audio clip's mute flag.
type ToggleAudioMute struct {
	TrackID string
	ClipID  string
}

// ReplaceAudio swaps an audio clip's media reference in place.
type ReplaceAudio struct {
	TrackID string
	ClipID  string
	Source  timeline.SourceRef
}

// SetAudioVolume sets an audio clip's base gain.
type SetAudioVolume struct {
	TrackID string
	ClipID  string
	Volume  float64
}

// AddVolumeKeyframe inserts or overwrites a gain automation point.
type AddVolumeKeyframe struct {
	TrackID string
	ClipID  string
	Time    int64
	Value   float64
}

// RemoveVolumeKeyframe removes the automation point at an exact time.
type RemoveVolumeKeyframe struct {
	TrackID string
	ClipID  string
	Time    int64
}

// AddFade sets an audio clip's fade-in or fade-out duration.
type AddFade struct {
	TrackID  string
	ClipID   string
	Fade     timeline.FadeType
	Duration int64
}

// AddAudioTrack creates a track seeded with one clip.
type AddAudioTrack struct {
	Name     string
	Source   timeline.SourceRef
	Duration int64
	Position int64
}

// AddTransition places a boundary effect at a timeline position.
type AddTransition struct {
	Position int64
	Type     timeline.TransitionType
	Duration int64
}

// RemoveTransition clears the boundary effect at a timeline position.
type RemoveTransition struct {
	Position int64
}

// AddMarker annotates a timeline position.
type AddMarker struct {
	Time  int64
	Label string
}

// RemoveMarker deletes the markers at an exact time.
type RemoveMarker struct {
	Time int64
}

// RenameMarker relabels the markers at an exact time.
type RenameMarker struct {
	Time  int64
	Label string
}

// Play starts playback.
type Play struct{}

// Pause halts playback.
type Pause struct{}

// Seek moves the playhead to an absolute composition time.
type Seek struct {
	Position int64
}

// Undo restores the previous session snapshot.
type Undo struct{}

// Redo restores the most recently undone snapshot.
type Redo struct{}

// SelectClip marks a clip as selected. UI-only; no session mutation.
type SelectClip struct {
	ClipID string
}

// ZoomRange focuses the timeline view on a range. UI-only; no session
// mutation.
type ZoomRange struct {
	Range timeline.TimeRange
}

func (TrimClip) isCommand()             {}
func (SplitClip) isCommand()            {}
func (DeleteClipRange) isCommand()      {}
func (DeleteClip) isCommand()           {}
func (MoveClip) isCommand()             {}
func (CopyClip) isCommand()             {}
func (SetClipSpeed) isCommand()         {}
func (TrimAudio) isCommand()            {}
func (MoveAudio) isCommand()            {}
func (DeleteAudio) isCommand()          {}
func (CopyAudio) isCommand()            {}
func (SplitAudio) isCommand()           {}
func (MuteAudioRange) isCommand()       {}
func (ToggleAudioMute) isCommand()      {}
func (ReplaceAudio) isCommand()         {}
func (SetAudioVolume) isCommand()       {}
func (AddVolumeKeyframe) isCommand()    {}
func (RemoveVolumeKeyframe) isCommand() {}
func (AddFade) isCommand()              {}
func (AddAudioTrack) isCommand()        {}
func (AddTransition) isCommand()        {}
func (RemoveTransition) isCommand()     {}
func (AddMarker) isCommand()            {}
func (RemoveMarker) isCommand()         {}
func (RenameMarker) isCommand()         {}
func (Play) isCommand()                 {}
func (Pause) isCommand()                {}
func (Seek) isCommand()                 {}
func (Undo) isCommand()                 {}
func (Redo) isCommand()                 {}
func (SelectClip) isCommand()           {}
func (ZoomRange) isCommand()            {}
