// Package player holds the playback-facing view of a composition: the
// absolute-time-to-window mapper used for seeking, the periodic position
// sampler, and the audio mixing contract toward the external decode/render
// engine.
package player

import (
	"errors"
	"sync"

	"github.com/cutroom/cutroom/internal/timeline"
)

// ErrWindowOutOfRange indicates a window index outside the current clip list.
var ErrWindowOutOfRange = errors.New("window index out of range")

// Window addresses a playable position as a clip index plus an offset into
// that clip, in timeline milliseconds. This is the form the playback engine
// consumes; absolute composition time is the form the UI consumes.
type Window struct {
	ClipIndex int
	Offset    int64
}

// Mapper converts between absolute composition time and concrete playback
// windows. It holds a read-only snapshot of the video clips, sorted by
// position, and must be rebuilt after every commit that changes clip
// geometry: stale indices must never survive a resize.
type Mapper struct {
	mu    sync.RWMutex
	clips []timeline.VideoClip
}

// NewMapper creates an empty mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Rebuild replaces the mapper's view with the session's current clips.
func (m *Mapper) Rebuild(sess timeline.Session) {
	clips := make([]timeline.VideoClip, len(sess.Clips))
	copy(clips, sess.Clips)
	timeline.SortClips(clips)

	m.mu.Lock()
	m.clips = clips
	m.mu.Unlock()
}

// Len returns the number of clips in the current view.
func (m *Mapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clips)
}

// ToWindow maps an absolute time to the clip containing it. Times before
// the first clip clamp to the first clip at offset 0; times past the last
// clip's end clamp to the last clip at its final millisecond. With no clips
// at all the raw time is passed through as the offset. The returned offset
// never selects past the clip's end.
func (m *Mapper) ToWindow(absMs int64) Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.clips) == 0 {
		return Window{ClipIndex: 0, Offset: absMs}
	}

	for i, c := range m.clips {
		if absMs < c.Position+c.Duration() {
			return Window{ClipIndex: i, Offset: clampOffset(absMs-c.Position, c.Duration())}
		}
	}

	last := len(m.clips) - 1
	dur := m.clips[last].Duration()
	return Window{ClipIndex: last, Offset: clampOffset(dur-1, dur)}
}

// ToAbsolute converts a playback window back into absolute composition
// time, for position display while playing.
func (m *Mapper) ToAbsolute(clipIndex int, offsetMs int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if clipIndex < 0 || clipIndex >= len(m.clips) {
		return 0, ErrWindowOutOfRange
	}
	return m.clips[clipIndex].Position + offsetMs, nil
}

// Clip returns the clip at the given window index.
func (m *Mapper) Clip(clipIndex int) (timeline.VideoClip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if clipIndex < 0 || clipIndex >= len(m.clips) {
		return timeline.VideoClip{}, ErrWindowOutOfRange
	}
	return m.clips[clipIndex], nil
}

// clampOffset keeps an intra-clip offset inside [0, dur-1].
func clampOffset(offset, dur int64) int64 {
	if offset < 0 {
		return 0
	}
	if dur > 0 && offset > dur-1 {
		return dur - 1
	}
	if dur <= 0 {
		return 0
	}
	return offset
}
