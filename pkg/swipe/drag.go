package swipe

import "github.com/swipekit-dev/swipekit/pkg/geom"

// RevealedViewInstance pairs a revealed side with a non-owning handle to
// the view the host created for it. The host owns the view's lifetime; the
// controller keeps the handle only so it can ask the view to detach itself,
// which it does exactly once, at the terminal edge of Settling or
// Completing.
type RevealedViewInstance struct {
	Side Side

	view     View
	detached bool
}

// NewRevealedViewInstance wraps a host-created view for side.
func NewRevealedViewInstance(side Side, view View) *RevealedViewInstance {
	return &RevealedViewInstance{Side: side, view: view}
}

// View resolves the revealed view handle. It returns false once the view
// has been detached or when no view was ever provided.
func (r *RevealedViewInstance) View() (View, bool) {
	if r == nil || r.detached || r.view == nil {
		return nil, false
	}
	return r.view, true
}

// detach removes the revealed view. Safe to call more than once; only the
// first call reaches the view.
func (r *RevealedViewInstance) detach() {
	if r == nil || r.detached {
		return
	}
	r.detached = true
	if r.view != nil {
		r.view.Detach()
	}
}

// DragInstance is one drag against a revealed side. Translation is
// cumulative from gesture start plus any carried-over open offset.
// Velocity is the gesture's raw translation reading, used as an
// approximate would-be velocity signal; it is a translation delta, not a
// time-derived velocity.
type DragInstance struct {
	Revealed    *RevealedViewInstance
	Translation geom.Vector
	Velocity    geom.Vector
}
