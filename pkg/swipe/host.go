package swipe

import "github.com/swipekit-dev/swipekit/pkg/geom"

// ReleaseAction is the host's policy decision when a drag is released.
type ReleaseAction uint8

const (
	// ReleaseClose settles the drag view back to rest.
	ReleaseClose ReleaseAction = iota

	// ReleaseOpen snaps the drag view open at the side's edge width.
	// Falls back to ReleaseComplete when the side has no edge width.
	ReleaseOpen

	// ReleaseComplete slides the drag view fully across and runs the
	// host's completion cleanup.
	ReleaseComplete
)

// String returns the string representation of the release action.
func (a ReleaseAction) String() string {
	switch a {
	case ReleaseClose:
		return "Close"
	case ReleaseOpen:
		return "Open"
	case ReleaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// View is the controller's handle to a platform view. Implementations
// typically also implement gesture.Surface on the tracking view so the
// controller can attach its pan recognizer.
type View interface {
	// SetTransform applies a transform to the view.
	SetTransform(t geom.Transform)

	// SetInteractionEnabled toggles user interaction on the view.
	SetInteractionEnabled(enabled bool)

	// Frame returns the view's frame, if it has one.
	Frame() (geom.Rect, bool)

	// Detach removes the view from its hierarchy.
	Detach()
}

// Host is the capability set the embedding UI provides to a Controller.
// The controller treats its host as a non-owning handle: the host may go
// away mid-interaction, and every controller step that needs it silently
// aborts when it has been released.
//
// View accessors may return nil to signal the view is unavailable.
type Host interface {
	// TrackingView is the surface gestures are recognized against.
	TrackingView() View

	// DragView is the view translated to produce the reveal visual.
	DragView() View

	// RevealView creates (or returns) the revealed view for side.
	// Returning nil declines the reveal.
	RevealView(side Side) View

	// EdgeWidth returns the maximum reveal distance for side, if one is
	// defined.
	EdgeWidth(side Side) (float64, bool)

	// MayPassEdge reports whether drag may travel beyond the side's edge
	// width without elastic damping.
	MayPassEdge(drag *DragInstance) bool

	// Dragged notifies the host of drag progress. translation is the
	// applied translation; percentage is the revealed fraction of the
	// edge width, or nil when no edge width is defined or the drag is
	// terminally completing.
	Dragged(drag *DragInstance, translation geom.Vector, percentage *float64)

	// ReleaseAction decides what happens to drag when the gesture ends.
	ReleaseAction(drag *DragInstance) ReleaseAction

	// FinishCompletion runs the host's own completion cleanup (e.g. a
	// row collapse) and must call done exactly once when finished. The
	// interaction stays in Completing until done fires.
	FinishCompletion(drag *DragInstance, done func())

	// Transitioned is called after every state assignment's side
	// effects, including self-transitions.
	Transitioned(old, next State)
}

// BeginPolicy is an optional global gate consulted before any interaction
// begins and before a side starts being revealed.
type BeginPolicy interface {
	ShouldBegin() bool
	ShouldReveal(side Side) bool
}
