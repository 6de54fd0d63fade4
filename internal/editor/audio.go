package editor

import (
	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// AudioEditor mirrors ClipEditor at audio-clip granularity, scoped by
// (trackID, clipID), and adds volume automation and fades. Ripple edits
// shift clips only within the affected track.
type AudioEditor struct {
	store *session.Store
}

// NewAudioEditor creates an audio editor over the given store.
func NewAudioEditor(store *session.Store) *AudioEditor {
	return &AudioEditor{store: store}
}

func (e *AudioEditor) read(trackID, clipID string) (timeline.Session, int, int, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, -1, -1, ErrNoActiveSession
	}
	ti := sess.TrackIndex(trackID)
	if ti < 0 {
		return timeline.Session{}, -1, -1, ErrTrackNotFound
	}
	ci := sess.Tracks[ti].ClipIndex(clipID)
	if ci < 0 {
		return timeline.Session{}, -1, -1, ErrClipNotFound
	}
	return sess, ti, ci, nil
}

// commitTrack swaps one track's clip list and commits the result.
func (e *AudioEditor) commitTrack(sess timeline.Session, ti int, clips []timeline.AudioClip) timeline.Session {
	timeline.SortAudioClips(clips)

	tracks := make([]timeline.AudioTrack, len(sess.Tracks))
	copy(tracks, sess.Tracks)
	tracks[ti] = tracks[ti].WithClips(clips)

	next := sess.WithTracks(tracks)
	e.store.Commit(next)
	return next
}

// Trim replaces the clip's source window without moving other clips.
func (e *AudioEditor) Trim(trackID, clipID string, startTime, endTime int64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithTrim(startTime, endTime)
	return e.commitTrack(sess, ti, clips), nil
}

// Move reassigns the clip's absolute position within its track. Neighbors
// do not ripple.
func (e *AudioEditor) Move(trackID, clipID string, newPosition int64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithPosition(newPosition)
	return e.commitTrack(sess, ti, clips), nil
}

// Delete removes the clip and ripples every later clip in the same track
// backward by the removed clip's duration.
func (e *AudioEditor) Delete(trackID, clipID string) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	track := sess.Tracks[ti]
	clip := track.Clips[ci]
	dur := clip.Duration()

	clips := make([]timeline.AudioClip, 0, len(track.Clips)-1)
	for i, c := range track.Clips {
		if i == ci {
			continue
		}
		if c.Position > clip.Position {
			c = c.WithPosition(c.Position - dur)
		}
		clips = append(clips, c)
	}
	return e.commitTrack(sess, ti, clips), nil
}

// Copy appends a clone of the clip immediately after the original's end.
func (e *AudioEditor) Copy(trackID, clipID string) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clip := sess.Tracks[ti].Clips[ci]
	dup := clip.Clone().WithPosition(clip.Position + clip.Duration())

	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips = append(clips, dup)
	return e.commitTrack(sess, ti, clips), nil
}

// Split cuts the clip at offset milliseconds into its source window; the
// second half gets a fresh identity. Total length is unchanged.
func (e *AudioEditor) Split(trackID, clipID string, offset int64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	track := sess.Tracks[ti]
	clip := track.Clips[ci]

	first := clip.WithTrim(clip.StartTime, clip.StartTime+offset)
	second := clip.Clone().
		WithTrim(clip.StartTime+offset, clip.EndTime).
		WithPosition(clip.Position + offset)

	clips := make([]timeline.AudioClip, 0, len(track.Clips)+1)
	clips = append(clips, track.Clips[:ci]...)
	clips = append(clips, first, second)
	clips = append(clips, track.Clips[ci+1:]...)
	return e.commitTrack(sess, ti, clips), nil
}

// MuteRange sets the clip's mute flag without altering geometry.
func (e *AudioEditor) MuteRange(trackID, clipID string, muted bool) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithMuted(muted)
	return e.commitTrack(sess, ti, clips), nil
}

// ToggleMute flips the clip's mute flag.
func (e *AudioEditor) ToggleMute(trackID, clipID string) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithMuted(!clips[ci].Muted)
	return e.commitTrack(sess, ti, clips), nil
}

// ReplaceAudio swaps the clip's media reference, preserving identity and
// geometry.
func (e *AudioEditor) ReplaceAudio(trackID, clipID string, source timeline.SourceRef) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithSource(source)
	return e.commitTrack(sess, ti, clips), nil
}

// SetVolume sets the clip's base gain.
func (e *AudioEditor) SetVolume(trackID, clipID string, volume float64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithVolume(volume)
	return e.commitTrack(sess, ti, clips), nil
}

// AddVolumeKeyframe inserts a gain automation point. A keyframe at an
// existing time overwrites it.
func (e *AudioEditor) AddVolumeKeyframe(trackID, clipID string, time int64, value float64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithKeyframe(timeline.VolumeKeyframe{Time: time, Value: value})
	return e.commitTrack(sess, ti, clips), nil
}

// RemoveVolumeKeyframe removes the keyframe at the given time.
func (e *AudioEditor) RemoveVolumeKeyframe(trackID, clipID string, time int64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	updated, found := clips[ci].WithoutKeyframe(time)
	if !found {
		return timeline.Session{}, ErrKeyframeNotFound
	}
	clips[ci] = updated
	return e.commitTrack(sess, ti, clips), nil
}

// AddFade sets the fade-in or fade-out duration depending on fade.
func (e *AudioEditor) AddFade(trackID, clipID string, fade timeline.FadeType, duration int64) (timeline.Session, error) {
	sess, ti, ci, err := e.read(trackID, clipID)
	if err != nil {
		return timeline.Session{}, err
	}
	clips := cloneAudioClips(sess.Tracks[ti].Clips)
	clips[ci] = clips[ci].WithFade(fade, duration)
	return e.commitTrack(sess, ti, clips), nil
}

// AddTrack appends a new audio track seeded with one clip reading the
// whole source window at the given position.
func (e *AudioEditor) AddTrack(name string, source timeline.SourceRef, duration, position int64) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	tracks := make([]timeline.AudioTrack, 0, len(sess.Tracks)+1)
	tracks = append(tracks, sess.Tracks...)
	tracks = append(tracks, timeline.NewAudioTrack(name, source, duration, position))

	next := sess.WithTracks(tracks)
	e.store.Commit(next)
	return next, nil
}

func cloneAudioClips(clips []timeline.AudioClip) []timeline.AudioClip {
	out := make([]timeline.AudioClip, len(clips))
	copy(out, clips)
	return out
}
