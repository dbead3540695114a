// Package swipe implements the drag-to-reveal interaction engine: a
// controller that binds a pan gesture to a draggable view, tracks a single
// active horizontal drag, and reveals a side panel as the user drags.
//
// The controller owns no views and renders nothing. It drives a Host — the
// capability set the embedding UI provides — through reveal requests, drag
// progress notifications, release-policy queries, and completion cleanup.
// All controller methods must run on the single event loop that owns the
// session's UI state; see the anim package for the scheduler contract.
package swipe

// Side identifies which edge of the row is being revealed.
type Side uint8

const (
	Left Side = iota
	Right
)

// Unit returns the sign multiplier used in translation math: +1 for Left,
// -1 for Right.
func (s Side) Unit() float64 {
	if s == Left {
		return 1
	}
	return -1
}

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// SideForTranslation returns the side a horizontal translation reveals:
// Left for positive x, Right otherwise.
func SideForTranslation(x float64) Side {
	if x > 0 {
		return Left
	}
	return Right
}
