package player

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock reports a fixed window and play state.
type fakeClock struct {
	mu      sync.Mutex
	window  Window
	playing bool
}

func (c *fakeClock) Window() Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

func (c *fakeClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func TestSamplerReportsAbsolutePosition(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())
	clock := &fakeClock{window: Window{ClipIndex: 1, Offset: 200}, playing: true}

	positions := make(chan int64, 64)
	s := NewSampler(m, clock, time.Millisecond, func(abs int64) {
		select {
		case positions <- abs:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	select {
	case abs := <-positions:
		if abs != 1200 {
			t.Errorf("reported position = %d, want 1200", abs)
		}
	case <-time.After(time.Second):
		t.Fatal("sampler never reported a position")
	}

	cancel()
	<-done
}

func TestSamplerSilentWhilePaused(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())
	clock := &fakeClock{window: Window{ClipIndex: 0, Offset: 0}, playing: false}

	var mu sync.Mutex
	count := 0
	s := NewSampler(m, clock, time.Millisecond, func(int64) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("sampler reported %d positions while paused", count)
	}
}

func TestSamplerSkipsStaleWindows(t *testing.T) {
	m := NewMapper()
	m.Rebuild(threeClipSession())
	// Clip index 5 does not exist; a commit shrank the clip list.
	clock := &fakeClock{window: Window{ClipIndex: 5, Offset: 0}, playing: true}

	var mu sync.Mutex
	count := 0
	s := NewSampler(m, clock, time.Millisecond, func(int64) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("sampler dereferenced a stale window %d times", count)
	}
}

func TestSamplerDefaultInterval(t *testing.T) {
	s := NewSampler(NewMapper(), &fakeClock{}, 0, nil)
	if s.interval != DefaultSampleInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultSampleInterval)
	}
}

func TestThreeClipSessionShape(t *testing.T) {
	// Guard the fixture other tests depend on.
	sess := threeClipSession()
	if sess.Duration() != 2500 {
		t.Fatalf("fixture duration = %d, want 2500", sess.Duration())
	}
	if err := sess.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
}

var _ Sink = (*Mixer)(nil)
