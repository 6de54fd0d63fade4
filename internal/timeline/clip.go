package timeline

import (
	"math"

	"github.com/google/uuid"
)

// SourceRef is an opaque reference to a piece of source media. The core
// never interprets it; decoding is the playback/export engine's concern.
type SourceRef string

// VideoClip is one video segment on the timeline. StartTime/EndTime select
// the decodable window in source-native milliseconds; Position places the
// clip in absolute composition time; Speed is a playback-rate multiplier.
type VideoClip struct {
	ID        string
	Source    SourceRef
	StartTime int64
	EndTime   int64
	Position  int64
	Speed     float64
}

// NewVideoClip creates a clip with a fresh identity. A non-positive speed
// is normalized to 1.
func NewVideoClip(source SourceRef, startTime, endTime, position int64, speed float64) VideoClip {
	if speed <= 0 {
		speed = 1
	}
	return VideoClip{
		ID:        uuid.NewString(),
		Source:    source,
		StartTime: startTime,
		EndTime:   endTime,
		Position:  position,
		Speed:     speed,
	}
}

// Duration returns the clip's length in timeline milliseconds, accounting
// for the speed multiplier.
func (c VideoClip) Duration() int64 {
	return ScaleDuration(c.EndTime-c.StartTime, c.Speed)
}

// Range returns the clip's occupied span in absolute composition time.
func (c VideoClip) Range() TimeRange {
	return TimeRange{Start: c.Position, End: c.Position + c.Duration()}
}

// WithTrim returns a copy with a replaced source window.
func (c VideoClip) WithTrim(startTime, endTime int64) VideoClip {
	c.StartTime = startTime
	c.EndTime = endTime
	return c
}

// WithPosition returns a copy placed at a new absolute position.
func (c VideoClip) WithPosition(position int64) VideoClip {
	c.Position = position
	return c
}

// WithSpeed returns a copy with a new playback rate.
func (c VideoClip) WithSpeed(speed float64) VideoClip {
	c.Speed = speed
	return c
}

// Clone returns a copy under a fresh identity.
func (c VideoClip) Clone() VideoClip {
	c.ID = uuid.NewString()
	return c
}

// ScaleDuration converts a source-time length to timeline time under a
// playback-rate multiplier, rounding to the nearest millisecond.
func ScaleDuration(sourceLen int64, speed float64) int64 {
	if speed <= 0 {
		speed = 1
	}
	return int64(math.Round(float64(sourceLen) / speed))
}
