package timeline

import (
	"fmt"
	"sort"
)

// Session is the full in-memory composition: the ordered video clip list,
// the audio tracks, and the transition and marker sets. A Session value is
// never mutated after construction; editors derive changed copies via the
// With* methods.
type Session struct {
	Clips       []VideoClip
	Tracks      []AudioTrack
	Transitions []Transition
	Markers     []Marker
}

// NewSession seeds a composition from source windows laid end-to-end: one
// clip per source, positioned at the running sum of previous durations.
func NewSession(sources []SourceRef, durations []int64) Session {
	clips := make([]VideoClip, 0, len(sources))
	var cursor int64
	for i, src := range sources {
		var dur int64
		if i < len(durations) {
			dur = durations[i]
		}
		clips = append(clips, NewVideoClip(src, 0, dur, cursor, 1))
		cursor += dur
	}
	return Session{Clips: clips}
}

// Duration returns the absolute end of the composition: the largest clip
// end across the video track, or 0 for an empty session.
func (s Session) Duration() int64 {
	var end int64
	for _, c := range s.Clips {
		if e := c.Position + c.Duration(); e > end {
			end = e
		}
	}
	return end
}

// ClipIndex returns the index of the video clip with the given id, or -1.
func (s Session) ClipIndex(clipID string) int {
	for i, c := range s.Clips {
		if c.ID == clipID {
			return i
		}
	}
	return -1
}

// TrackIndex returns the index of the audio track with the given id, or -1.
func (s Session) TrackIndex(trackID string) int {
	for i, t := range s.Tracks {
		if t.ID == trackID {
			return i
		}
	}
	return -1
}

// WithClips returns a copy holding clips sorted by position (stable by id
// on ties).
func (s Session) WithClips(clips []VideoClip) Session {
	SortClips(clips)
	s.Clips = clips
	return s
}

// WithTracks returns a copy holding the given audio tracks.
func (s Session) WithTracks(tracks []AudioTrack) Session {
	s.Tracks = tracks
	return s
}

// WithTransitions returns a copy holding the given transitions.
func (s Session) WithTransitions(transitions []Transition) Session {
	s.Transitions = transitions
	return s
}

// WithMarkers returns a copy holding the given markers.
func (s Session) WithMarkers(markers []Marker) Session {
	s.Markers = markers
	return s
}

// SortClips orders clips by position, breaking ties by id so the order is
// deterministic.
func SortClips(clips []VideoClip) {
	sort.SliceStable(clips, func(i, j int) bool {
		if clips[i].Position != clips[j].Position {
			return clips[i].Position < clips[j].Position
		}
		return clips[i].ID < clips[j].ID
	})
}

// SortAudioClips orders audio clips by position, breaking ties by id.
func SortAudioClips(clips []AudioClip) {
	sort.SliceStable(clips, func(i, j int) bool {
		if clips[i].Position != clips[j].Position {
			return clips[i].Position < clips[j].Position
		}
		return clips[i].ID < clips[j].ID
	})
}

// Overlap describes two video clips whose timeline ranges intersect.
// Free placement (move, speed changes) may produce overlaps; they are
// surfaced for the UI to resolve rather than silently dropped.
type Overlap struct {
	FirstID  string
	SecondID string
	Range    TimeRange
}

// Overlaps returns every pair of adjacent video clips whose occupied
// ranges intersect, in timeline order.
func (s Session) Overlaps() []Overlap {
	var out []Overlap
	for i := 1; i < len(s.Clips); i++ {
		prev, cur := s.Clips[i-1], s.Clips[i]
		pr, cr := prev.Range(), cur.Range()
		if pr.Overlaps(cr) {
			end := pr.End
			if cr.End < end {
				end = cr.End
			}
			out = append(out, Overlap{
				FirstID:  prev.ID,
				SecondID: cur.ID,
				Range:    TimeRange{Start: cr.Start, End: end},
			})
		}
	}
	return out
}

// Validate checks the structural invariants: unique clip ids, non-negative
// positions, positive speeds, and ordered source windows across both the
// video track and every audio track.
func (s Session) Validate() error {
	seen := make(map[string]struct{}, len(s.Clips))
	for _, c := range s.Clips {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate clip id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Position < 0 {
			return fmt.Errorf("clip %s: negative position %d", c.ID, c.Position)
		}
		if c.Speed <= 0 {
			return fmt.Errorf("clip %s: non-positive speed %g", c.ID, c.Speed)
		}
		if c.EndTime < c.StartTime {
			return fmt.Errorf("clip %s: reversed source window [%d, %d]", c.ID, c.StartTime, c.EndTime)
		}
	}
	for _, t := range s.Tracks {
		for _, c := range t.Clips {
			if c.Position < 0 {
				return fmt.Errorf("audio clip %s: negative position %d", c.ID, c.Position)
			}
			if c.EndTime < c.StartTime {
				return fmt.Errorf("audio clip %s: reversed source window [%d, %d]", c.ID, c.StartTime, c.EndTime)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the session. Slices are duplicated so the
// copy shares no mutable storage with the original; export isolation
// depends on this.
func (s Session) Clone() Session {
	out := Session{}
	if s.Clips != nil {
		out.Clips = make([]VideoClip, len(s.Clips))
		copy(out.Clips, s.Clips)
	}
	if s.Tracks != nil {
		out.Tracks = make([]AudioTrack, len(s.Tracks))
		for i, t := range s.Tracks {
			clips := make([]AudioClip, len(t.Clips))
			for j, c := range t.Clips {
				clips[j] = c.withClonedKeyframes()
			}
			t.Clips = clips
			out.Tracks[i] = t
		}
	}
	if s.Transitions != nil {
		out.Transitions = make([]Transition, len(s.Transitions))
		copy(out.Transitions, s.Transitions)
	}
	if s.Markers != nil {
		out.Markers = make([]Marker, len(s.Markers))
		copy(out.Markers, s.Markers)
	}
	return out
}
