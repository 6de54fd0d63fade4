package timeline

import (
	"sort"

	"github.com/google/uuid"
)

// FadeType selects which edge of a clip a fade applies to.
type FadeType uint8

const (
	// FadeIn ramps gain up from silence at the clip head.
	FadeIn FadeType = iota
	// FadeOut ramps gain down to silence at the clip tail.
	FadeOut
)

// String returns a string representation of the fade type.
func (f FadeType) String() string {
	switch f {
	case FadeIn:
		return "in"
	case FadeOut:
		return "out"
	default:
		return "unknown"
	}
}

// VolumeKeyframe is one gain automation control point. Time is measured
// from the clip's own start in timeline milliseconds; Value is a gain
// factor, normally in [0, 1].
type VolumeKeyframe struct {
	Time  int64
	Value float64
}

// AudioClip is one audio segment on a track. Geometry fields mirror
// VideoClip (without a speed multiplier); the remaining fields describe
// the clip's gain state.
type AudioClip struct {
	ID        string
	Source    SourceRef
	StartTime int64
	EndTime   int64
	Position  int64
	Volume    float64
	Muted     bool
	FadeIn    int64
	FadeOut   int64
	// Keyframes is ordered by Time; times are unique within a clip.
	Keyframes []VolumeKeyframe
}

// NewAudioClip creates a clip with a fresh identity and unity gain.
func NewAudioClip(source SourceRef, startTime, endTime, position int64) AudioClip {
	return AudioClip{
		ID:        uuid.NewString(),
		Source:    source,
		StartTime: startTime,
		EndTime:   endTime,
		Position:  position,
		Volume:    1,
	}
}

// Duration returns the clip's length in timeline milliseconds.
func (c AudioClip) Duration() int64 {
	return c.EndTime - c.StartTime
}

// Range returns the clip's occupied span in absolute composition time.
func (c AudioClip) Range() TimeRange {
	return TimeRange{Start: c.Position, End: c.Position + c.Duration()}
}

// WithTrim returns a copy with a replaced source window.
func (c AudioClip) WithTrim(startTime, endTime int64) AudioClip {
	c.StartTime = startTime
	c.EndTime = endTime
	return c.withClonedKeyframes()
}

// WithPosition returns a copy placed at a new absolute position.
func (c AudioClip) WithPosition(position int64) AudioClip {
	c.Position = position
	return c.withClonedKeyframes()
}

// WithSource returns a copy reading from a different media reference,
// preserving identity and geometry.
func (c AudioClip) WithSource(source SourceRef) AudioClip {
	c.Source = source
	return c.withClonedKeyframes()
}

// WithVolume returns a copy with a new base gain.
func (c AudioClip) WithVolume(volume float64) AudioClip {
	c.Volume = volume
	return c.withClonedKeyframes()
}

// WithMuted returns a copy with the mute flag set.
func (c AudioClip) WithMuted(muted bool) AudioClip {
	c.Muted = muted
	return c.withClonedKeyframes()
}

// WithFade returns a copy with the named fade duration set.
func (c AudioClip) WithFade(fade FadeType, duration int64) AudioClip {
	switch fade {
	case FadeIn:
		c.FadeIn = duration
	case FadeOut:
		c.FadeOut = duration
	}
	return c.withClonedKeyframes()
}

// WithKeyframe returns a copy with kf inserted in time order. A keyframe
// at an existing time overwrites that keyframe.
func (c AudioClip) WithKeyframe(kf VolumeKeyframe) AudioClip {
	kfs := make([]VolumeKeyframe, 0, len(c.Keyframes)+1)
	replaced := false
	for _, k := range c.Keyframes {
		if k.Time == kf.Time {
			kfs = append(kfs, kf)
			replaced = true
			continue
		}
		kfs = append(kfs, k)
	}
	if !replaced {
		kfs = append(kfs, kf)
		sort.Slice(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
	}
	c.Keyframes = kfs
	return c
}

// WithoutKeyframe returns a copy with the keyframe at time removed and
// reports whether one existed.
func (c AudioClip) WithoutKeyframe(time int64) (AudioClip, bool) {
	kfs := make([]VolumeKeyframe, 0, len(c.Keyframes))
	found := false
	for _, k := range c.Keyframes {
		if k.Time == time {
			found = true
			continue
		}
		kfs = append(kfs, k)
	}
	c.Keyframes = kfs
	return c, found
}

// Clone returns a copy under a fresh identity.
func (c AudioClip) Clone() AudioClip {
	c.ID = uuid.NewString()
	return c.withClonedKeyframes()
}

// withClonedKeyframes detaches the keyframe slice so copies never alias.
func (c AudioClip) withClonedKeyframes() AudioClip {
	if len(c.Keyframes) > 0 {
		kfs := make([]VolumeKeyframe, len(c.Keyframes))
		copy(kfs, c.Keyframes)
		c.Keyframes = kfs
	}
	return c
}

// KeyframeGainAt returns the automation gain at offset milliseconds from
// the clip start. Interpolation is linear between neighboring keyframes
// and constant outside the keyframe range; a clip with no keyframes has
// automation gain 1.
func (c AudioClip) KeyframeGainAt(offset int64) float64 {
	if len(c.Keyframes) == 0 {
		return 1
	}
	first := c.Keyframes[0]
	if offset <= first.Time {
		return first.Value
	}
	last := c.Keyframes[len(c.Keyframes)-1]
	if offset >= last.Time {
		return last.Value
	}
	for i := 1; i < len(c.Keyframes); i++ {
		b := c.Keyframes[i]
		if offset > b.Time {
			continue
		}
		a := c.Keyframes[i-1]
		span := float64(b.Time - a.Time)
		if span == 0 {
			return b.Value
		}
		frac := float64(offset-a.Time) / span
		return a.Value + (b.Value-a.Value)*frac
	}
	return last.Value
}

// FadeGainAt returns the fade envelope gain at offset milliseconds from
// the clip start: a linear ramp from 0 across the fade-in window and a
// linear ramp to 0 across the fade-out window.
func (c AudioClip) FadeGainAt(offset int64) float64 {
	gain := 1.0
	if c.FadeIn > 0 && offset < c.FadeIn {
		if offset < 0 {
			offset = 0
		}
		gain *= float64(offset) / float64(c.FadeIn)
	}
	dur := c.Duration()
	if c.FadeOut > 0 && offset > dur-c.FadeOut {
		remaining := dur - offset
		if remaining < 0 {
			remaining = 0
		}
		gain *= float64(remaining) / float64(c.FadeOut)
	}
	return gain
}

// GainAt returns the effective gain at offset milliseconds from the clip
// start: base volume scaled by the fade envelope and the keyframe
// automation curve. A muted clip always has gain 0.
func (c AudioClip) GainAt(offset int64) float64 {
	if c.Muted {
		return 0
	}
	return c.Volume * c.FadeGainAt(offset) * c.KeyframeGainAt(offset)
}
