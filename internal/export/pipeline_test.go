package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cutroom/cutroom/internal/timeline"
)

// fakeEncoder counts calls and can fail or block.
type fakeEncoder struct {
	mu       sync.Mutex
	segments []Segment
	muxed    int

	encodeErr error
	muxErr    error
	delay     time.Duration
	started   chan struct{} // closed once the first segment starts
	startOnce sync.Once
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{started: make(chan struct{})}
}

func (f *fakeEncoder) EncodeSegment(ctx context.Context, seg Segment) error {
	f.startOnce.Do(func() { close(f.started) })
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.encodeErr != nil {
		return f.encodeErr
	}
	f.mu.Lock()
	f.segments = append(f.segments, seg)
	f.mu.Unlock()
	return nil
}

func (f *fakeEncoder) Mux(ctx context.Context, sess timeline.Session, preset Preset, outPath string) error {
	if f.muxErr != nil {
		return f.muxErr
	}
	f.mu.Lock()
	f.muxed++
	f.mu.Unlock()
	return nil
}

func exportSession(clipCount int) timeline.Session {
	sources := make([]timeline.SourceRef, clipCount)
	durations := make([]int64, clipCount)
	for i := range sources {
		sources[i] = timeline.SourceRef("media://clip")
		durations[i] = 1000
	}
	return timeline.NewSession(sources, durations)
}

func mustPreset(t *testing.T, name string) Preset {
	t.Helper()
	p, ok := PresetByName(name)
	if !ok {
		t.Fatalf("preset %q missing from catalog", name)
	}
	return p
}

func drain(t *testing.T, progressCh <-chan Progress, errCh <-chan error) ([]Progress, error) {
	t.Helper()
	var seen []Progress
	for progressCh != nil || errCh != nil {
		select {
		case p, ok := <-progressCh:
			if !ok {
				progressCh = nil
				continue
			}
			seen = append(seen, p)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return seen, err
			}
		case <-time.After(5 * time.Second):
			t.Fatal("export did not finish")
		}
	}
	return seen, nil
}

func TestExportCompletesWithMonotoneProgress(t *testing.T) {
	enc := newFakeEncoder()
	p := NewPipeline(enc, WithWorkers(2))

	progressCh, errCh := p.Export(context.Background(), exportSession(4), mustPreset(t, "720p"), "out.mp4")
	seen, err := drain(t, progressCh, errCh)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if len(seen) == 0 || seen[len(seen)-1] != 100 {
		t.Fatalf("progress = %v, want terminal 100", seen)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress regressed: %v", seen)
		}
	}
	for _, v := range seen {
		if v < 0 || v > 100 {
			t.Fatalf("progress out of range: %v", seen)
		}
	}

	if len(enc.segments) != 4 || enc.muxed != 1 {
		t.Errorf("encoder saw %d segments, %d mux calls", len(enc.segments), enc.muxed)
	}
}

func TestExportEmptySessionStillCompletes(t *testing.T) {
	enc := newFakeEncoder()
	p := NewPipeline(enc, WithWorkers(1))

	progressCh, errCh := p.Export(context.Background(), timeline.Session{}, mustPreset(t, "480p"), "out.mp4")
	seen, err := drain(t, progressCh, errCh)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(seen) == 0 || seen[len(seen)-1] != 100 {
		t.Errorf("progress = %v, want terminal 100", seen)
	}
}

func TestExportInvalidPreset(t *testing.T) {
	p := NewPipeline(newFakeEncoder())
	bad := Preset{Name: "bad", Width: 0, Height: 1080, BitrateK: 100, FrameRate: 30, Container: ContainerMP4}

	progressCh, errCh := p.Export(context.Background(), exportSession(1), bad, "out.mp4")
	seen, err := drain(t, progressCh, errCh)
	if !errors.Is(err, ErrExportConfig) {
		t.Fatalf("error = %v, want ErrExportConfig", err)
	}
	if len(seen) != 0 {
		t.Errorf("invalid preset emitted progress %v", seen)
	}
}

func TestExportEncodeFailure(t *testing.T) {
	enc := newFakeEncoder()
	enc.encodeErr = errors.New("codec exploded")
	p := NewPipeline(enc, WithWorkers(1))

	progressCh, errCh := p.Export(context.Background(), exportSession(2), mustPreset(t, "720p"), "out.mp4")
	seen, err := drain(t, progressCh, errCh)

	var xerr *ExportError
	if !errors.As(err, &xerr) {
		t.Fatalf("error = %v, want *ExportError", err)
	}
	if xerr.Stage != "encode" || !errors.Is(err, enc.encodeErr) {
		t.Errorf("ExportError = %+v, want encode stage wrapping the cause", xerr)
	}
	for _, v := range seen {
		if v == 100 {
			t.Error("failed export reached terminal progress")
		}
	}
}

func TestExportMuxFailure(t *testing.T) {
	enc := newFakeEncoder()
	enc.muxErr = errors.New("container refused")
	p := NewPipeline(enc, WithWorkers(1))

	progressCh, errCh := p.Export(context.Background(), exportSession(1), mustPreset(t, "720p"), "out.mp4")
	_, err := drain(t, progressCh, errCh)

	var xerr *ExportError
	if !errors.As(err, &xerr) || xerr.Stage != "mux" {
		t.Fatalf("error = %v, want mux-stage ExportError", err)
	}
}

func TestExportCancellation(t *testing.T) {
	enc := newFakeEncoder()
	enc.delay = time.Second
	p := NewPipeline(enc, WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	progressCh, errCh := p.Export(ctx, exportSession(4), mustPreset(t, "720p"), "out.mp4")

	<-enc.started
	cancel()

	seen, err := drain(t, progressCh, errCh)
	if !errors.Is(err, ErrExportCanceled) {
		t.Fatalf("error = %v, want ErrExportCanceled", err)
	}
	for _, v := range seen {
		if v == 100 {
			t.Error("canceled export reached terminal progress")
		}
	}
}

func TestExportUsesSnapshot(t *testing.T) {
	enc := newFakeEncoder()
	enc.delay = 50 * time.Millisecond
	p := NewPipeline(enc, WithWorkers(1))

	sess := exportSession(3)
	progressCh, errCh := p.Export(context.Background(), sess, mustPreset(t, "720p"), "out.mp4")

	// Mutate the caller's copy while the export runs.
	<-enc.started
	sess.Clips[0].Position = 999999
	sess.Clips = sess.Clips[:1]

	if _, err := drain(t, progressCh, errCh); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(enc.segments) != 3 {
		t.Errorf("encoder saw %d segments, want the snapshot's 3", len(enc.segments))
	}
	for _, seg := range enc.segments {
		if seg.Clip.Position == 999999 {
			t.Error("in-flight export observed a concurrent edit")
		}
	}
}

func TestExportAttachesOverlappingAudio(t *testing.T) {
	sess := exportSession(2) // clips at [0,1000) and [1000,2000)
	voice := timeline.NewAudioClip("media://vo", 0, 1500, 250)
	muted := timeline.NewAudioClip("media://mute", 0, 500, 0).WithMuted(true)
	sess = sess.WithTracks([]timeline.AudioTrack{
		{ID: "t1", Name: "voice", Clips: []timeline.AudioClip{voice, muted}},
	})

	segs := buildSegments(sess, mustPreset(t, "720p"))
	if len(segs) != 2 {
		t.Fatalf("segment count = %d, want 2", len(segs))
	}
	if len(segs[0].Audio) != 1 || segs[0].Audio[0].ID != voice.ID {
		t.Errorf("segment 0 audio = %+v, want the voice clip only", segs[0].Audio)
	}
	// Voice spans into the second clip's range too.
	if len(segs[1].Audio) != 1 {
		t.Errorf("segment 1 audio count = %d, want 1", len(segs[1].Audio))
	}
}

func TestPresetValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Preset)
		wantErr bool
	}{
		{"catalog preset is valid", func(p *Preset) {}, false},
		{"zero width", func(p *Preset) { p.Width = 0 }, true},
		{"odd height", func(p *Preset) { p.Height = 721 }, true},
		{"zero bitrate", func(p *Preset) { p.BitrateK = 0 }, true},
		{"absurd frame rate", func(p *Preset) { p.FrameRate = 500 }, true},
		{"unknown container", func(p *Preset) { p.Container = "avi" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPreset(t, "720p")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && !errors.Is(err, ErrExportConfig) {
				t.Errorf("error = %v, want ErrExportConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPresetCatalog(t *testing.T) {
	if len(PresetNames()) == 0 {
		t.Fatal("empty preset catalog")
	}
	for _, name := range PresetNames() {
		p, ok := PresetByName(name)
		if !ok {
			t.Fatalf("catalog lists %q but lookup failed", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("catalog preset %q invalid: %v", name, err)
		}
	}
	if _, ok := PresetByName("betamax"); ok {
		t.Error("unknown preset resolved")
	}
}

func TestWithWorkers(t *testing.T) {
	p := NewPipeline(newFakeEncoder(), WithWorkers(3))
	if p.workers != 3 {
		t.Errorf("workers = %d, want 3", p.workers)
	}
	p = NewPipeline(newFakeEncoder(), WithWorkers(0))
	if p.workers < 1 {
		t.Errorf("workers = %d, want host default >= 1", p.workers)
	}
}
