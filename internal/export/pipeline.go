package export

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cutroom/cutroom/internal/timeline"
)

// Progress is a completion percentage in [0, 100]. The stream a pipeline
// emits is monotonically non-decreasing and terminal at 100.
type Progress int

// Segment is one unit of render work handed to the encoder: a video clip
// plus the audio clips overlapping its timeline span.
type Segment struct {
	Index  int
	Clip   timeline.VideoClip
	Audio  []timeline.AudioClip
	Preset Preset
}

// Encoder is the narrow contract toward the render/mux engine. Both calls
// must honor context cancellation promptly.
type Encoder interface {
	// EncodeSegment renders one segment to intermediate storage.
	EncodeSegment(ctx context.Context, seg Segment) error

	// Mux assembles the encoded segments, transitions included, into the
	// output file.
	Mux(ctx context.Context, sess timeline.Session, preset Preset, outPath string) error
}

// muxShare is the share of total progress reserved for the mux stage;
// segment encoding covers the rest.
const muxShare = 10

// Pipeline compiles sessions into media files.
type Pipeline struct {
	enc     Encoder
	workers int
}

// Option configures a pipeline.
type Option func(*Pipeline)

// WithWorkers overrides the encode worker count.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewPipeline creates a pipeline over the given encoder. The worker count
// defaults to a host-derived value.
func NewPipeline(enc Encoder, opts ...Option) *Pipeline {
	p := &Pipeline{enc: enc, workers: encodeWorkers()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Export starts an export task against a deep copy of sess. It returns a
// progress stream and an error stream: exactly one of "progress reaches
// 100" or "one terminal error" happens, then both channels close. Progress
// values are monotone; after cancellation no further progress is emitted.
// Export never blocks the caller; timeouts are the caller's concern via ctx.
func (p *Pipeline) Export(ctx context.Context, sess timeline.Session, preset Preset, outPath string) (<-chan Progress, <-chan error) {
	progressCh := make(chan Progress, 128)
	errCh := make(chan error, 1)

	if err := preset.Validate(); err != nil {
		errCh <- err
		close(progressCh)
		close(errCh)
		return progressCh, errCh
	}

	snapshot := sess.Clone()

	go func() {
		defer close(progressCh)
		defer close(errCh)

		if err := p.run(ctx, snapshot, preset, outPath, progressCh); err != nil {
			errCh <- err
		}
	}()

	return progressCh, errCh
}

func (p *Pipeline) run(ctx context.Context, sess timeline.Session, preset Preset, outPath string, progressCh chan<- Progress) error {
	segments := buildSegments(sess, preset)
	emit := newProgressEmitter(ctx, progressCh)
	emit.send(0)

	total := len(segments)
	if total > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		var mu sync.Mutex
		done := 0
		for _, seg := range segments {
			g.Go(func() error {
				if err := p.enc.EncodeSegment(gctx, seg); err != nil {
					return &ExportError{Stage: "encode", Err: err}
				}
				mu.Lock()
				done++
				pct := done * (100 - muxShare) / total
				mu.Unlock()
				emit.send(Progress(pct))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if ctx.Err() != nil {
				return ErrExportCanceled
			}
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return ErrExportCanceled
	}

	if err := p.enc.Mux(ctx, sess, preset, outPath); err != nil {
		if ctx.Err() != nil {
			return ErrExportCanceled
		}
		return &ExportError{Stage: "mux", Err: err}
	}

	emit.send(100)
	return nil
}

// buildSegments slices the composition into per-clip render units in
// timeline order, attaching the overlapping audio clips to each.
func buildSegments(sess timeline.Session, preset Preset) []Segment {
	segments := make([]Segment, 0, len(sess.Clips))
	for i, clip := range sess.Clips {
		seg := Segment{Index: i, Clip: clip, Preset: preset}
		span := clip.Range()
		for _, track := range sess.Tracks {
			for _, ac := range track.Clips {
				if !ac.Muted && ac.Range().Overlaps(span) {
					seg.Audio = append(seg.Audio, ac)
				}
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// progressEmitter keeps the emitted stream monotone and stops emitting the
// moment the context is canceled.
type progressEmitter struct {
	ctx context.Context
	ch  chan<- Progress

	mu   sync.Mutex
	last Progress
	sent bool
}

func newProgressEmitter(ctx context.Context, ch chan<- Progress) *progressEmitter {
	return &progressEmitter{ctx: ctx, ch: ch, last: -1}
}

func (e *progressEmitter) send(p Progress) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx.Err() != nil || p <= e.last {
		return
	}
	e.last = p

	select {
	case e.ch <- p:
	case <-e.ctx.Done():
	}
}
