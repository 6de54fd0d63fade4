package player

import (
	"errors"
	"testing"

	"github.com/cutroom/cutroom/internal/timeline"
)

// threeClipSession is A[0,1000) B[1000,1500) C[1500,2500).
func threeClipSession() timeline.Session {
	a := timeline.NewVideoClip("media://a", 0, 1000, 0, 1)
	b := timeline.NewVideoClip("media://b", 0, 500, 1000, 1)
	c := timeline.NewVideoClip("media://c", 0, 1000, 1500, 1)
	return timeline.Session{}.WithClips([]timeline.VideoClip{a, b, c})
}

func TestMapperToWindow(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())

	tests := []struct {
		name string
		abs  int64
		want Window
	}{
		{"start of first clip", 0, Window{0, 0}},
		{"interior of first clip", 400, Window{0, 400}},
		{"boundary belongs to second clip", 1000, Window{1, 0}},
		{"interior of second clip", 1200, Window{1, 200}},
		{"interior of last clip", 2000, Window{2, 500}},
		{"past the end clamps to last ms", 9999, Window{2, 999}},
		{"negative clamps to clip zero", -50, Window{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ToWindow(tt.abs); got != tt.want {
				t.Errorf("ToWindow(%d) = %+v, want %+v", tt.abs, got, tt.want)
			}
		})
	}
}

func TestMapperToWindowNoClips(t *testing.T) {
	m := NewMapper()
	m.Rebuild(timeline.Session{})

	if got := m.ToWindow(1234); got != (Window{0, 1234}) {
		t.Errorf("ToWindow with no clips = %+v, want raw passthrough", got)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())

	// toWindow(toAbsolute(i, o)) == (i, o) for valid pairs.
	cases := []Window{{0, 0}, {0, 500}, {0, 999}, {1, 0}, {1, 499}, {2, 1}, {2, 999}}
	for _, w := range cases {
		abs, err := m.ToAbsolute(w.ClipIndex, w.Offset)
		if err != nil {
			t.Fatalf("ToAbsolute(%+v) failed: %v", w, err)
		}
		if got := m.ToWindow(abs); got != w {
			t.Errorf("round trip %+v -> %d -> %+v", w, abs, got)
		}
	}
}

func TestMapperToAbsoluteOutOfRange(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())

	if _, err := m.ToAbsolute(3, 0); !errors.Is(err, ErrWindowOutOfRange) {
		t.Errorf("error = %v, want ErrWindowOutOfRange", err)
	}
	if _, err := m.ToAbsolute(-1, 0); !errors.Is(err, ErrWindowOutOfRange) {
		t.Errorf("error = %v, want ErrWindowOutOfRange", err)
	}
}

func TestMapperRebuildTracksGeometryChanges(t *testing.T) {
	m := NewMapper()
	sess := threeClipSession()
	m.Rebuild(sess)

	if got := m.ToWindow(1200); got.ClipIndex != 1 {
		t.Fatalf("before rebuild: %+v", got)
	}

	// Drop the first clip and ripple, as a delete would.
	clips := []timeline.VideoClip{
		sess.Clips[1].WithPosition(0),
		sess.Clips[2].WithPosition(500),
	}
	m.Rebuild(timeline.Session{}.WithClips(clips))

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if got := m.ToWindow(1200); got.ClipIndex != 1 || got.Offset != 700 {
		t.Errorf("after rebuild ToWindow(1200) = %+v, want clip 1 offset 700", got)
	}
	// Indices past the new clip count must not be dereferenceable.
	if _, err := m.ToAbsolute(2, 0); err == nil {
		t.Error("stale window index survived the rebuild")
	}
}

func TestMapperSpeedAffectsWindows(t *testing.T) {
	// A 1000 ms source window at 2x occupies 500 ms of timeline.
	a := timeline.NewVideoClip("media://a", 0, 1000, 0, 2)
	b := timeline.NewVideoClip("media://b", 0, 500, 500, 1)
	m := NewMapper()
	m.Rebuild(timeline.Session{}.WithClips([]timeline.VideoClip{a, b}))

	if got := m.ToWindow(499); got.ClipIndex != 0 {
		t.Errorf("ToWindow(499) = %+v, want clip 0", got)
	}
	if got := m.ToWindow(500); got.ClipIndex != 1 {
		t.Errorf("ToWindow(500) = %+v, want clip 1", got)
	}
}
