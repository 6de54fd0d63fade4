// Package timeline defines the value model for a composition: time ranges,
// video clips, audio tracks, transitions, markers, and the session that
// groups them. All types are plain values; mutation happens by constructing
// a changed copy, never in place.
package timeline

// TimeRange is a half-open span [Start, End) in composition milliseconds.
// Start must not exceed End.
type TimeRange struct {
	Start int64
	End   int64
}

// NewTimeRange creates a range, swapping the bounds if they are reversed.
func NewTimeRange(start, end int64) TimeRange {
	if end < start {
		start, end = end, start
	}
	return TimeRange{Start: start, End: end}
}

// Duration returns the length of the range in milliseconds.
func (r TimeRange) Duration() int64 {
	return r.End - r.Start
}

// Contains reports whether t lies within [Start, End).
func (r TimeRange) Contains(t int64) bool {
	return t >= r.Start && t < r.End
}

// Overlaps reports whether two ranges share any instant.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// IsEmpty reports whether the range spans no time.
func (r TimeRange) IsEmpty() bool {
	return r.End <= r.Start
}
