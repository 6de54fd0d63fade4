package timeline

// TransitionType identifies a boundary effect between adjacent clips.
type TransitionType uint8

const (
	// TransitionNone is the absence of a boundary effect.
	TransitionNone TransitionType = iota
	// TransitionCrossfade dissolves the outgoing clip into the incoming one.
	TransitionCrossfade
	// TransitionFadeToBlack fades out through black and back in.
	TransitionFadeToBlack
	// TransitionWipe reveals the incoming clip along a moving edge.
	TransitionWipe
	// TransitionSlide pushes the incoming clip over the outgoing one.
	TransitionSlide
)

// String returns a string representation of the transition type.
func (t TransitionType) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionCrossfade:
		return "crossfade"
	case TransitionFadeToBlack:
		return "fade-to-black"
	case TransitionWipe:
		return "wipe"
	case TransitionSlide:
		return "slide"
	default:
		return "unknown"
	}
}

// Transition is a boundary effect applied at an absolute timeline position,
// normally the junction between two clips.
type Transition struct {
	Position int64
	Type     TransitionType
	Duration int64
}

// Marker is a named annotation at an absolute timeline position. Labels
// may repeat; removal matches on the exact time.
type Marker struct {
	Time  int64
	Label string
}
