// Package gesture converts raw pointer events into recognized gestures.
//
// The package is deliberately small: a pointer vocabulary, a Recognizer
// contract with the coexistence policy queries a gesture arena needs, a
// Router that implements those arena semantics for a single surface, and
// the one recognizer the interaction engine uses, PanRecognizer.
//
// Everything here is bound to the session event loop; nothing is safe for
// concurrent use.
package gesture

import "github.com/swipekit-dev/swipekit/pkg/geom"

// Phase is the lifecycle phase of a pointer event.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "Down"
	case PhaseMove:
		return "Move"
	case PhaseUp:
		return "Up"
	case PhaseCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// PointerEvent is a single pointer sample delivered to a surface.
type PointerEvent struct {
	Phase    Phase
	Position geom.Vector
}

// Recognizer consumes pointer events and recognizes a gesture. The three
// policy queries describe how the recognizer coexists with others attached
// to the same surface; Router consults them when routing events.
type Recognizer interface {
	// HandlePointer feeds one pointer event to the recognizer.
	HandlePointer(ev PointerEvent)

	// Failed reports whether the recognizer has declined the current
	// pointer sequence. A failed recognizer stops blocking others until
	// the next PhaseDown resets it.
	Failed() bool

	// Reset abandons any in-progress recognition.
	Reset()

	// RecognizesSimultaneouslyWith reports whether this recognizer can
	// receive events at the same time as other.
	RecognizesSimultaneouslyWith(other Recognizer) bool

	// RequiresFailureOf reports whether this recognizer refuses to begin
	// until other has failed.
	RequiresFailureOf(other Recognizer) bool

	// ShouldBeFailedBefore reports whether this recognizer must fail
	// before other may win the current sequence.
	ShouldBeFailedBefore(other Recognizer) bool
}

// Surface is a gesture target that recognizers can be attached to.
type Surface interface {
	AddRecognizer(r Recognizer)
	RemoveRecognizer(r Recognizer)
}
