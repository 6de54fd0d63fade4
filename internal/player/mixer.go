package player

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cutroom/cutroom/internal/timeline"
)

// Errors returned by the mixer.
var (
	// ErrUnsupportedFormat indicates a sample format the mixer cannot produce.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrNotConfigured indicates HandleBuffer was called before Configure.
	ErrNotConfigured = errors.New("mixer not configured")
)

// Format describes the common PCM format every active clip is decoded into
// before summation. Samples are interleaved float32 in [-1, 1].
type Format struct {
	SampleRate int
	Channels   int
}

// Sink is the capability interface the playback engine drives for audio
// routing. The engine negotiates a format, then repeatedly asks for mixed
// buffers at presentation timestamps; Flush discards buffered state on
// seeks and IsEnded lets the playback clock stop advancing.
type Sink interface {
	SupportsFormat(f Format) bool
	Configure(f Format) error
	HandleBuffer(pts int64, frames int) ([]float32, error)
	Flush()
	IsEnded() bool
}

// Decoder is the narrow decode contract toward the external media engine:
// it produces interleaved PCM for a window of a source, already in the
// requested format. Implementations live outside this module.
type Decoder interface {
	ReadPCM(source timeline.SourceRef, sourceOffsetMs int64, frames int, f Format) ([]float32, error)
}

// Mixer produces a single mixed PCM stream from every audio clip active at
// a presentation timestamp, honoring volume, fades, keyframe automation,
// and mute state. It implements Sink.
//
// A clip whose decode fails is latched to silence rather than aborting
// playback of the whole timeline; Flush clears the latch.
type Mixer struct {
	mu      sync.Mutex
	format  Format
	ready   bool
	dec     Decoder
	session timeline.Session

	ended    bool
	buffered int
	failed   map[string]struct{}
}

// NewMixer creates a mixer reading clip PCM through dec.
func NewMixer(dec Decoder) *Mixer {
	return &Mixer{
		dec:    dec,
		failed: make(map[string]struct{}),
	}
}

// Update replaces the mixer's session snapshot. Called on every commit.
func (m *Mixer) Update(sess timeline.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess
	m.ended = false
}

// SupportsFormat reports whether the mixer can produce the format: mono or
// stereo at a standard rate.
func (m *Mixer) SupportsFormat(f Format) bool {
	switch f.SampleRate {
	case 8000, 16000, 22050, 44100, 48000:
	default:
		return false
	}
	return f.Channels == 1 || f.Channels == 2
}

// Configure fixes the output format for subsequent HandleBuffer calls.
func (m *Mixer) Configure(f Format) error {
	if !m.SupportsFormat(f) {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, f.SampleRate, f.Channels)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.format = f
	m.ready = true
	return nil
}

// HandleBuffer mixes frames output frames starting at presentation
// timestamp pts (absolute composition milliseconds). Past the end of the
// composition it returns silence and latches the ended state.
func (m *Mixer) HandleBuffer(pts int64, frames int) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return nil, ErrNotConfigured
	}

	out := make([]float32, frames*m.format.Channels)
	if pts >= m.session.Duration() {
		m.ended = true
		return out, nil
	}

	speed := m.governingSpeed(pts)
	for ti := range m.session.Tracks {
		for _, clip := range m.session.Tracks[ti].Clips {
			if clip.Muted || !clip.Range().Contains(pts) {
				continue
			}
			if _, dead := m.failed[clip.ID]; dead {
				continue
			}
			if err := m.mixClip(out, clip, pts, frames, speed); err != nil {
				// Decode failure degrades this clip to silence.
				m.failed[clip.ID] = struct{}{}
			}
		}
	}

	clamp(out)
	m.buffered += frames
	return out, nil
}

// mixClip decodes one clip's span, applies the per-sample gain envelope,
// and accumulates into out.
func (m *Mixer) mixClip(out []float32, clip timeline.AudioClip, pts int64, frames int, speed float64) error {
	clipOffset := pts - clip.Position
	srcOffset := clip.StartTime + clipOffset

	srcFrames := frames
	if speed != 1 {
		srcFrames = int(math.Ceil(float64(frames) * speed))
		if srcFrames < 1 {
			srcFrames = 1
		}
	}

	pcm, err := m.dec.ReadPCM(clip.Source, srcOffset, srcFrames, m.format)
	if err != nil {
		return err
	}
	if speed != 1 {
		pcm = resampleLinear(pcm, frames, m.format.Channels)
	}

	msPerFrame := 1000.0 / float64(m.format.SampleRate)
	ch := m.format.Channels
	n := frames
	if avail := len(pcm) / ch; avail < n {
		n = avail
	}
	for i := 0; i < n; i++ {
		at := clipOffset + int64(math.Round(float64(i)*msPerFrame))
		gain := float32(clip.GainAt(at))
		for c := 0; c < ch; c++ {
			out[i*ch+c] += pcm[i*ch+c] * gain
		}
	}
	return nil
}

// governingSpeed returns the speed of the video clip containing pts, or 1
// when no clip governs the timestamp.
func (m *Mixer) governingSpeed(pts int64) float64 {
	for _, c := range m.session.Clips {
		if c.Range().Contains(pts) {
			return c.Speed
		}
	}
	return 1
}

// Flush discards buffered state without side effects on the session:
// counters, the ended latch, and the per-clip failure latches all reset.
func (m *Mixer) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffered = 0
	m.ended = false
	m.failed = make(map[string]struct{})
}

// IsEnded reports whether the last requested buffer lay past the end of
// the composition.
func (m *Mixer) IsEnded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

// BufferedFrames reports how many frames have been mixed since the last
// flush, for the playback clock.
func (m *Mixer) BufferedFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffered
}

// resampleLinear stretches or compresses interleaved PCM to outFrames
// frames with linear interpolation.
func resampleLinear(pcm []float32, outFrames, channels int) []float32 {
	inFrames := len(pcm) / channels
	out := make([]float32, outFrames*channels)
	if inFrames == 0 || outFrames == 0 {
		return out
	}
	if inFrames == 1 {
		for i := 0; i < outFrames; i++ {
			copy(out[i*channels:(i+1)*channels], pcm[:channels])
		}
		return out
	}

	step := float64(inFrames-1) / float64(outFrames-1)
	if outFrames == 1 {
		step = 0
	}
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		if j >= inFrames-1 {
			j = inFrames - 2
		}
		frac := float32(pos - float64(j))
		for c := 0; c < channels; c++ {
			a := pcm[j*channels+c]
			b := pcm[(j+1)*channels+c]
			out[i*channels+c] = a + (b-a)*frac
		}
	}
	return out
}

// clamp hard-limits samples to [-1, 1] so summation never wraps.
func clamp(pcm []float32) {
	for i, s := range pcm {
		if s > 1 {
			pcm[i] = 1
		} else if s < -1 {
			pcm[i] = -1
		}
	}
}
