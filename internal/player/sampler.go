package player

import (
	"context"
	"time"
)

// DefaultSampleInterval is how often the sampler polls the playback clock.
const DefaultSampleInterval = 100 * time.Millisecond

// Clock is the narrow view of the playback engine the sampler reads: the
// window currently being presented and whether playback is running.
type Clock interface {
	Window() Window
	Playing() bool
}

// Sampler periodically converts the player's window-relative position back
// into absolute composition time and hands it to the position callback.
// It runs independently of the edit path; it only ever reads the mapper's
// current view.
type Sampler struct {
	mapper     *Mapper
	clock      Clock
	interval   time.Duration
	onPosition func(absMs int64)
}

// NewSampler creates a sampler. A non-positive interval selects the
// default. onPosition may be nil, which disables reporting.
func NewSampler(mapper *Mapper, clock Clock, interval time.Duration, onPosition func(int64)) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		mapper:     mapper,
		clock:      clock,
		interval:   interval,
		onPosition: onPosition,
	}
}

// Run samples until the context is canceled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample reports the current absolute position if playing. A window index
// invalidated by a concurrent commit is skipped; the next tick sees the
// rebuilt mapping.
func (s *Sampler) sample() {
	if s.onPosition == nil || !s.clock.Playing() {
		return
	}
	w := s.clock.Window()
	abs, err := s.mapper.ToAbsolute(w.ClipIndex, w.Offset)
	if err != nil {
		return
	}
	s.onPosition(abs)
}
