package timeline

import "github.com/google/uuid"

// AudioTrack is an ordered lane of audio clips mixed alongside the video
// track. Clips are kept ordered by Position.
type AudioTrack struct {
	ID    string
	Name  string
	Clips []AudioClip
}

// NewAudioTrack creates a track with a fresh identity and one seed clip.
func NewAudioTrack(name string, source SourceRef, duration, position int64) AudioTrack {
	return AudioTrack{
		ID:    uuid.NewString(),
		Name:  name,
		Clips: []AudioClip{NewAudioClip(source, 0, duration, position)},
	}
}

// ClipIndex returns the index of the clip with the given id, or -1.
func (t AudioTrack) ClipIndex(clipID string) int {
	for i, c := range t.Clips {
		if c.ID == clipID {
			return i
		}
	}
	return -1
}

// WithClips returns a copy of the track holding the given clip list.
func (t AudioTrack) WithClips(clips []AudioClip) AudioTrack {
	t.Clips = clips
	return t
}
