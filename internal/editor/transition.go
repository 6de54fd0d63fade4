package editor

import (
	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// TransitionEditor manages boundary effects between clips. A boundary is
// identified by its absolute timeline position; adding at an occupied
// position replaces the existing transition.
type TransitionEditor struct {
	store *session.Store
}

// NewTransitionEditor creates a transition editor over the given store.
func NewTransitionEditor(store *session.Store) *TransitionEditor {
	return &TransitionEditor{store: store}
}

// Add places a transition at the given boundary position.
func (e *TransitionEditor) Add(position int64, kind timeline.TransitionType, duration int64) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	transitions := make([]timeline.Transition, 0, len(sess.Transitions)+1)
	for _, tr := range sess.Transitions {
		if tr.Position == position {
			continue
		}
		transitions = append(transitions, tr)
	}
	transitions = append(transitions, timeline.Transition{Position: position, Type: kind, Duration: duration})

	next := sess.WithTransitions(transitions)
	e.store.Commit(next)
	return next, nil
}

// Remove deletes the transition at the given boundary position. Removing
// an empty boundary is a no-op.
func (e *TransitionEditor) Remove(position int64) (timeline.Session, error) {
	sess, ok := e.store.Current()
	if !ok {
		return timeline.Session{}, ErrNoActiveSession
	}

	transitions := make([]timeline.Transition, 0, len(sess.Transitions))
	for _, tr := range sess.Transitions {
		if tr.Position == position {
			continue
		}
		transitions = append(transitions, tr)
	}

	next := sess.WithTransitions(transitions)
	e.store.Commit(next)
	return next, nil
}
