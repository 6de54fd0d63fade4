// Package event provides the pub/sub bus that carries state changes from the
// editing core to observers such as the preview mapper, the audio mixer, and
// UI bindings. Delivery is synchronous and in publish order, so observers see
// session snapshots in exactly the order they were committed.
package event

import "github.com/cutroom/cutroom/internal/timeline"

// Topic names a class of events on the bus.
type Topic string

const (
	// TopicSessionCommitted fires after every store commit, load, undo, or
	// redo, carrying the new current session.
	TopicSessionCommitted Topic = "session.committed"
	// TopicSessionCleared fires when the active session is discarded.
	TopicSessionCleared Topic = "session.cleared"
	// TopicPlaybackChanged fires when transport state changes.
	TopicPlaybackChanged Topic = "playback.changed"
	// TopicExportProgress carries export completion percentages.
	TopicExportProgress Topic = "export.progress"
	// TopicExportFinished fires once per export, with its terminal error
	// if any.
	TopicExportFinished Topic = "export.finished"
)

// SessionCommitted is published on TopicSessionCommitted.
type SessionCommitted struct {
	Session timeline.Session
}

// EventTopic implements TopicProvider.
func (SessionCommitted) EventTopic() Topic { return TopicSessionCommitted }

// SessionCleared is published on TopicSessionCleared.
type SessionCleared struct{}

// EventTopic implements TopicProvider.
func (SessionCleared) EventTopic() Topic { return TopicSessionCleared }

// PlaybackChanged is published on TopicPlaybackChanged.
type PlaybackChanged struct {
	Playing  bool
	Position int64
}

// EventTopic implements TopicProvider.
func (PlaybackChanged) EventTopic() Topic { return TopicPlaybackChanged }

// ExportProgress is published on TopicExportProgress.
type ExportProgress struct {
	Percent int
}

// EventTopic implements TopicProvider.
func (ExportProgress) EventTopic() Topic { return TopicExportProgress }

// ExportFinished is published on TopicExportFinished. Err is nil on success.
type ExportFinished struct {
	Err error
}

// EventTopic implements TopicProvider.
func (ExportFinished) EventTopic() Topic { return TopicExportFinished }

// TopicProvider lets an event announce its own topic. All events published
// on the bus implement it.
type TopicProvider interface {
	EventTopic() Topic
}
