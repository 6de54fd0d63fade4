// Package session owns the single current composition and its undo/redo
// history. All mutation is by whole-session replacement: editors compute a
// new session value and commit it here atomically.
package session

import (
	"sync"

	"github.com/cutroom/cutroom/internal/timeline"
)

// DefaultMaxEntries bounds the undo stack when no explicit limit is given.
const DefaultMaxEntries = 100

// History manages undo/redo state as two stacks of immutable session
// snapshots. Every committed mutation pushes the pre-mutation snapshot
// onto undo and clears redo.
type History struct {
	mu sync.Mutex

	undoStack []timeline.Session
	redoStack []timeline.Session

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records the pre-mutation snapshot and clears the redo stack.
func (h *History) Push(snapshot timeline.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, snapshot)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// The second return is false when there is nothing to undo.
func (h *History) Undo(current timeline.Session) (timeline.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return timeline.Session{}, false
	}
	restored := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return restored, true
}

// Redo pops the most recently undone snapshot, pushing current back onto
// the undo stack. The second return is false when there is nothing to redo.
func (h *History) Redo(current timeline.Session) (timeline.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return timeline.Session{}, false
	}
	restored := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return restored, true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}
