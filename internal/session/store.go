package session

import (
	"sync"

	"github.com/cutroom/cutroom/internal/timeline"
)

// Observer is notified with the new session snapshot after every commit,
// in commit order.
type Observer func(timeline.Session)

// Store guards the single shared composition. Each edit command reads the
// current snapshot, computes a new one, and commits it in one critical
// section, so a reader never observes a partially updated session and no
// edit blocks another across multiple steps.
type Store struct {
	mu      sync.RWMutex
	current timeline.Session
	active  bool
	seq     uint64

	history *History

	notifyMu  sync.Mutex
	delivered uint64
	observers []Observer
}

// NewStore creates an empty store with a bounded history.
func NewStore(maxHistory int) *Store {
	return &Store{history: NewHistory(maxHistory)}
}

// Load replaces the composition wholesale and drops any existing history.
// Loading is not itself undoable.
func (s *Store) Load(sess timeline.Session) {
	s.mu.Lock()
	s.current = sess
	s.active = true
	s.history.Clear()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq, sess)
}

// Current returns the current snapshot. The second return is false when no
// session is loaded.
func (s *Store) Current() (timeline.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.active
}

// Commit atomically replaces the composition with next, recording the
// previous snapshot for undo. A commit with no loaded session behaves like
// Load.
func (s *Store) Commit(next timeline.Session) {
	s.mu.Lock()
	if s.active {
		s.history.Push(s.current)
	}
	s.current = next
	s.active = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq, next)
}

// Undo restores the immediately prior session value. Undo with an empty
// history (or no session) is a no-op and returns false.
func (s *Store) Undo() (timeline.Session, bool) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return timeline.Session{}, false
	}
	restored, ok := s.history.Undo(s.current)
	if !ok {
		s.mu.Unlock()
		return timeline.Session{}, false
	}
	s.current = restored
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq, restored)
	return restored, true
}

// Redo restores the most recently undone session value. Redo with an empty
// redo stack is a no-op and returns false.
func (s *Store) Redo() (timeline.Session, bool) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return timeline.Session{}, false
	}
	restored, ok := s.history.Redo(s.current)
	if !ok {
		s.mu.Unlock()
		return timeline.Session{}, false
	}
	s.current = restored
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq, restored)
	return restored, true
}

// CanUndo returns true if an undo step is available.
func (s *Store) CanUndo() bool { return s.history.CanUndo() }

// CanRedo returns true if a redo step is available.
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Clear discards the composition and all history; the store returns to the
// no-session state. Playback resources holding the old session are expected
// to observe the cleared state via their own subscription.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = timeline.Session{}
	s.active = false
	s.history.Clear()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq, timeline.Session{})
}

// Subscribe registers an observer called after every commit, undo, redo,
// load, and clear. Observers run synchronously on the committing goroutine.
// Under concurrent committers an observer may miss intermediate snapshots,
// but snapshots are never delivered out of commit order and the final
// delivery always carries the newest state.
func (s *Store) Subscribe(fn Observer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, fn)
}

// notify delivers one snapshot. Each state swap is stamped with a sequence
// number inside the store's critical section; a delivery that lost the race
// to a newer one is dropped rather than delivered out of order.
func (s *Store) notify(seq uint64, sess timeline.Session) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq < s.delivered {
		return
	}
	s.delivered = seq
	for _, fn := range s.observers {
		fn(sess)
	}
}
