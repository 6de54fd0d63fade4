// Package editor implements the editing surface over the session store:
// ripple-aware video clip operations, audio clip and automation operations,
// and transition/marker management. Every operation reads the current
// session, computes a new session value, and commits it atomically; nothing
// is mutated in place.
package editor

import "errors"

// Errors returned by editing operations.
var (
	// ErrNoActiveSession indicates no composition is loaded.
	ErrNoActiveSession = errors.New("no active session")

	// ErrClipNotFound indicates the named clip does not exist.
	ErrClipNotFound = errors.New("clip not found")

	// ErrTrackNotFound indicates the named audio track does not exist.
	ErrTrackNotFound = errors.New("track not found")

	// ErrKeyframeNotFound indicates no keyframe exists at the named time.
	ErrKeyframeNotFound = errors.New("keyframe not found")

	// ErrInvalidSpeed indicates a non-positive playback rate.
	ErrInvalidSpeed = errors.New("speed must be positive")
)
