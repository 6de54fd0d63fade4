package dispatcher

import (
	"fmt"

	"github.com/cutroom/cutroom/internal/editor"
	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// Status classifies the outcome of a dispatched command.
type Status uint8

const (
	// StatusOK means the command ran and changed something.
	StatusOK Status = iota
	// StatusNoOp means the command was valid but had nothing to do, such
	// as an undo with an empty history.
	StatusNoOp
	// StatusError means the command failed; Result.Err carries the cause.
	StatusError
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "noop"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", s)
	}
}

// Result reports the outcome of a single Dispatch call.
type Result struct {
	Status Status
	Err    error
}

// OK reports whether the command completed without error.
func (r Result) OK() bool { return r.Status != StatusError }

func ok() Result   { return Result{Status: StatusOK} }
func noOp() Result { return Result{Status: StatusNoOp} }

func fail(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Transport is the playback surface the dispatcher drives. Implementations
// wrap the platform player; a no-op transport is used in headless runs.
type Transport interface {
	Play()
	Pause()
	Seek(positionMs int64)
}

// NopTransport ignores all transport commands.
type NopTransport struct{}

func (NopTransport) Play()      {}
func (NopTransport) Pause()     {}
func (NopTransport) Seek(int64) {}

// Dispatcher routes commands to the editors that own them. It also holds
// the UI-only selection and zoom state, which never touches the session
// store and is therefore invisible to undo.
type Dispatcher struct {
	store       *session.Store
	clips       *editor.ClipEditor
	audio       *editor.AudioEditor
	transitions *editor.TransitionEditor
	markers     *editor.MarkerEditor
	transport   Transport

	selected string
	zoom     timeline.TimeRange
	zoomed   bool
}

// New builds a dispatcher over a session store. A nil transport defaults to
// NopTransport.
func New(store *session.Store, transport Transport) *Dispatcher {
	if transport == nil {
		transport = NopTransport{}
	}
	return &Dispatcher{
		store:       store,
		clips:       editor.NewClipEditor(store),
		audio:       editor.NewAudioEditor(store),
		transitions: editor.NewTransitionEditor(store),
		markers:     editor.NewMarkerEditor(store),
		transport:   transport,
	}
}

// SelectedClip returns the currently selected clip id, or "" when nothing
// is selected.
func (d *Dispatcher) SelectedClip() string { return d.selected }

// Zoom returns the focused timeline range and whether one is set.
func (d *Dispatcher) Zoom() (timeline.TimeRange, bool) { return d.zoom, d.zoomed }

// Dispatch executes one command. Every variant of the Command union is
// handled here; an unknown type can only come from another package breaking
// the seal and is reported as an error rather than a panic.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	switch c := cmd.(type) {
	case TrimClip:
		return d.edit(d.clips.Trim(c.ClipID, c.StartTime, c.EndTime))
	case SplitClip:
		return d.edit(d.clips.Split(c.ClipID, c.Offset))
	case DeleteClipRange:
		return d.edit(d.clips.DeleteRange(c.ClipID, c.StartTime, c.EndTime))
	case DeleteClip:
		return d.edit(d.clips.Delete(c.ClipID))
	case MoveClip:
		return d.edit(d.clips.Move(c.ClipID, c.NewPosition))
	case CopyClip:
		return d.edit(d.clips.Copy(c.ClipID))
	case SetClipSpeed:
		return d.edit(d.clips.SetSpeed(c.ClipID, c.Speed))

	case TrimAudio:
		return d.edit(d.audio.Trim(c.TrackID, c.ClipID, c.StartTime, c.EndTime))
	case MoveAudio:
		return d.edit(d.audio.Move(c.TrackID, c.ClipID, c.NewPosition))
	case DeleteAudio:
		return d.edit(d.audio.Delete(c.TrackID, c.ClipID))
	case CopyAudio:
		return d.edit(d.audio.Copy(c.TrackID, c.ClipID))
	case SplitAudio:
		return d.edit(d.audio.Split(c.TrackID, c.ClipID, c.Offset))
	case MuteAudioRange:
		return d.edit(d.audio.MuteRange(c.TrackID, c.ClipID, c.Muted))
	case ToggleAudioMute:
		return d.edit(d.audio.ToggleMute(c.TrackID, c.ClipID))
	case ReplaceAudio:
		return d.edit(d.audio.ReplaceAudio(c.TrackID, c.ClipID, c.Source))
	case SetAudioVolume:
		return d.edit(d.audio.SetVolume(c.TrackID, c.ClipID, c.Volume))
	case AddVolumeKeyframe:
		return d.edit(d.audio.AddVolumeKeyframe(c.TrackID, c.ClipID, c.Time, c.Value))
	case RemoveVolumeKeyframe:
		return d.edit(d.audio.RemoveVolumeKeyframe(c.TrackID, c.ClipID, c.Time))
	case AddFade:
		return d.edit(d.audio.AddFade(c.TrackID, c.ClipID, c.Fade, c.Duration))
	case AddAudioTrack:
		return d.edit(d.audio.AddTrack(c.Name, c.Source, c.Duration, c.Position))

	case AddTransition:
		return d.edit(d.transitions.Add(c.Position, c.Type, c.Duration))
	case RemoveTransition:
		return d.edit(d.transitions.Remove(c.Position))

	case AddMarker:
		return d.edit(d.markers.Add(c.Time, c.Label))
	case RemoveMarker:
		return d.edit(d.markers.Remove(c.Time))
	case RenameMarker:
		return d.edit(d.markers.Rename(c.Time, c.Label))

	case Play:
		d.transport.Play()
		return ok()
	case Pause:
		d.transport.Pause()
		return ok()
	case Seek:
		d.transport.Seek(c.Position)
		return ok()

	case Undo:
		if _, undone := d.store.Undo(); !undone {
			return noOp()
		}
		return ok()
	case Redo:
		if _, redone := d.store.Redo(); !redone {
			return noOp()
		}
		return ok()

	case SelectClip:
		d.selected = c.ClipID
		return ok()
	case ZoomRange:
		d.zoom = c.Range
		d.zoomed = true
		return ok()

	default:
		return fail(fmt.Errorf("dispatcher: unknown command %T", cmd))
	}
}

func (d *Dispatcher) edit(_ timeline.Session, err error) Result {
	if err != nil {
		return fail(err)
	}
	return ok()
}
