package editor

import (
	"sort"

	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// MarkerEditor manages timeline annotations. Labels may repeat; removal
// and renaming match on the exact time.
type MarkerEditor struct {
	store *session.Store
}

// NewMarkerEditor creates a marker editor over the given store.
func NewMarkerEditor(store *session.Store) *MarkerEditor {
	return &MarkerEditor{store: store}
}

// Add places a marker at the given absolute time.
func (e *MarkerEditor) Add(time int64, label string) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	markers := make([]timeline.Marker, 0, len(sess.Markers)+1)
	markers = append(markers, sess.Markers...)
	markers = append(markers, timeline.Marker{Time: time, Label: label})
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].Time < markers[j].Time })

	next := sess.WithMarkers(markers)
	e.store.Commit(next)
	return next, nil
}

// Remove deletes every marker at the exact time. Removing an empty time is
// a no-op.
func (e *MarkerEditor) Remove(time int64) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	markers := make([]timeline.Marker, 0, len(sess.Markers))
	for _, m := range sess.Markers {
		if m.Time == time {
			continue
		}
		markers = append(markers, m)
	}

	next := sess.WithMarkers(markers)
	e.store.Commit(next)
	return next, nil
}

// Rename relabels every marker at the exact time.
func (e *MarkerEditor) Rename(time int64, label string) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	markers := make([]timeline.Marker, len(sess.Markers))
	copy(markers, sess.Markers)
	for i := range markers {
		if markers[i].Time == time {
			markers[i].Label = label
		}
	}

	next := sess.WithMarkers(markers)
	e.store.Commit(next)
	return next, nil
}

// MarkersBetween returns the markers inside the given range in time order.
// It is a read-only query and does not commit.
func (e *MarkerEditor) MarkersBetween(r timeline.TimeRange) ([]timeline.Marker, error) {
	sess, ok := e.store.Current()
	if !ok {
		return nil, ErrNoActiveSession
	}

	var out []timeline.Marker
	for _, m := range sess.Markers {
		if r.Contains(m.Time) {
			out = append(out, m)
		}
	}
	return out, nil
}
