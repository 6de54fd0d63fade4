package editor

import (
	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// ClipEditor performs ripple-aware operations on the video track. Each
// operation is total: it either commits a fully computed session or leaves
// the store untouched and returns an error.
type ClipEditor struct {
	store *session.Store
}

// NewClipEditor creates a clip editor over the given store.
func NewClipEditor(store *session.Store) *ClipEditor {
	return &ClipEditor{store: store}
}

// read returns the current session and the index of the named clip.
func (e *ClipEditor) read(clipID string) (timeline.Session, int, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, -1, ErrNoActiveSession
	}
	idx := sess.ClipIndex(clipID)
	if idx < 0 {
		return timeline.Session{}, -1, ErrClipNotFound
	}
	return sess, idx, nil
}

// Trim replaces the target clip's source window. Other clips do not move;
// the caller keeps startTime at or below endTime.
func (e *ClipEditor) Trim(clipID string, startTime, endTime int64) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}

	clips := cloneClips(sess.Clips)
	clips[idx] = clips[idx].WithTrim(startTime, endTime)

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// Split cuts the clip at offset milliseconds into its source window,
// producing two clips that together cover the original window. The second
// half gets a fresh identity and starts where the first half's timeline
// span begins plus the offset. Total length is unchanged, so nothing
// ripples.
func (e *ClipEditor) Split(clipID string, offset int64) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clip := sess.Clips[idx]

	first := clip.WithTrim(clip.StartTime, clip.StartTime+offset)
	second := clip.Clone().
		WithTrim(clip.StartTime+offset, clip.EndTime).
		WithPosition(clip.Position + offset)

	clips := make([]timeline.VideoClip, 0, len(sess.Clips)+1)
	clips = append(clips, sess.Clips[:idx]...)
	clips = append(clips, first, second)
	clips = append(clips, sess.Clips[idx+1:]...)

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// DeleteRange removes the sub-window [startTime, endTime) from the clip's
// source window and ripples every later clip backward by the removed
// length, keeping the timeline gapless. Exact full-window matches remove
// the clip; head or tail matches shrink it; interior matches split it in
// two around the removed span.
func (e *ClipEditor) DeleteRange(clipID string, startTime, endTime int64) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clip := sess.Clips[idx]
	deleteLen := endTime - startTime

	var replacement []timeline.VideoClip
	switch {
	case startTime == clip.StartTime && endTime == clip.EndTime:
		// Whole window removed.
	case startTime == clip.StartTime:
		replacement = []timeline.VideoClip{clip.WithTrim(endTime, clip.EndTime)}
	case endTime == clip.EndTime:
		replacement = []timeline.VideoClip{clip.WithTrim(clip.StartTime, startTime)}
	default:
		first := clip.WithTrim(clip.StartTime, startTime)
		second := clip.Clone().
			WithTrim(endTime, clip.EndTime).
			WithPosition(clip.Position + timeline.ScaleDuration(startTime-clip.StartTime, clip.Speed))
		replacement = []timeline.VideoClip{first, second}
	}

	clips := make([]timeline.VideoClip, 0, len(sess.Clips)+1)
	clips = append(clips, sess.Clips[:idx]...)
	clips = append(clips, replacement...)
	for _, c := range sess.Clips[idx+1:] {
		if c.Position > clip.Position {
			c = c.WithPosition(c.Position - deleteLen)
		}
		clips = append(clips, c)
	}

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// Delete removes the clip entirely and ripples every clip positioned after
// it backward by the removed clip's duration.
func (e *ClipEditor) Delete(clipID string) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clip := sess.Clips[idx]
	dur := clip.Duration()

	clips := make([]timeline.VideoClip, 0, len(sess.Clips)-1)
	for i, c := range sess.Clips {
		if i == idx {
			continue
		}
		if c.Position > clip.Position {
			c = c.WithPosition(c.Position - dur)
		}
		clips = append(clips, c)
	}

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// Move reassigns the clip's absolute position and re-sorts the track.
// Neighbors do not ripple and overlap is not prevented; overlapping clips
// are reported by Session.Overlaps for the UI to resolve.
func (e *ClipEditor) Move(clipID string, newPosition int64) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}

	clips := cloneClips(sess.Clips)
	clips[idx] = clips[idx].WithPosition(newPosition)

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// Copy appends a clone of the clip, under a fresh identity, immediately
// after the original's current end. Nothing ripples.
func (e *ClipEditor) Copy(clipID string) (timeline.Session, error) {
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clip := sess.Clips[idx]
	dup := clip.Clone().WithPosition(clip.Position + clip.Duration())

	clips := cloneClips(sess.Clips)
	clips = append(clips, dup)

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

// SetSpeed changes the clip's playback rate without recomputing positions,
// so a grown duration may overlap the following clip; see Move.
func (e *ClipEditor) SetSpeed(clipID string, speed float64) (timeline.Session, error) {
	if speed <= 0 {
		return timeline.Session{}, ErrInvalidSpeed
	}
	sess, idx, err := e.read(clipID)
	if err != nil {
		return timeline.Session{}, err
	}

	clips := cloneClips(sess.Clips)
	clips[idx] = clips[idx].WithSpeed(speed)

	next := sess.WithClips(clips)
	e.store.Commit(next)
	return next, nil
}

func cloneClips(clips []timeline.VideoClip) []timeline.VideoClip {
	out := make([]timeline.VideoClip, len(clips))
	copy(out, clips)
	return out
}
