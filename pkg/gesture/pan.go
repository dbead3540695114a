package gesture

import (
	"math"

	"github.com/swipekit-dev/swipekit/pkg/geom"
)

// PanHandler receives recognized pan gestures. Translations are cumulative
// from the position of the initiating PhaseDown event.
type PanHandler interface {
	// PanShouldBegin is consulted once per pointer sequence, with the
	// first non-zero translation, before the pan begins. Returning false
	// fails the recognizer for the rest of the sequence.
	PanShouldBegin(translation geom.Vector) bool

	// PanChanged is called for every pointer move after the pan began.
	PanChanged(translation geom.Vector)

	// PanEnded is called when the pointer lifts (or the sequence is
	// cancelled) after the pan began.
	PanEnded(translation geom.Vector)
}

// PanRecognizer recognizes a single-pointer horizontal-leaning pan.
//
// Admission is two-staged: the gesture's first movement must be at least
// as horizontal as it is vertical (primarily vertical sequences are ceded
// to other recognizers, e.g. list scrolling), and the handler's
// PanShouldBegin must approve. A sequence that fails admission stays
// failed until the next PhaseDown.
//
// Coexistence: a pan runs simultaneously with any non-pan recognizer,
// never waits for another recognizer to fail, but must itself fail before
// another pan on the same surface may win.
type PanRecognizer struct {
	handler PanHandler

	origin   geom.Vector
	tracking bool
	began    bool
	declined bool
}

// NewPanRecognizer returns a pan recognizer delivering to handler.
func NewPanRecognizer(handler PanHandler) *PanRecognizer {
	return &PanRecognizer{handler: handler}
}

// HandlePointer implements Recognizer.
func (r *PanRecognizer) HandlePointer(ev PointerEvent) {
	switch ev.Phase {
	case PhaseDown:
		r.origin = ev.Position
		r.tracking = true
		r.began = false
		r.declined = false

	case PhaseMove:
		if !r.tracking || r.declined {
			return
		}
		t := translation(r.origin, ev.Position)
		if !r.began {
			if t.IsZero() {
				return
			}
			if !r.admit(t) {
				r.declined = true
				return
			}
			r.began = true
		}
		r.handler.PanChanged(t)

	case PhaseUp, PhaseCancel:
		if r.began {
			r.handler.PanEnded(translation(r.origin, ev.Position))
		}
		r.Reset()
	}
}

// admit applies the admission policy to the first movement of a sequence.
func (r *PanRecognizer) admit(t geom.Vector) bool {
	if math.Abs(t.X) < math.Abs(t.Y) {
		return false
	}
	if r.handler != nil && !r.handler.PanShouldBegin(t) {
		return false
	}
	return true
}

// Failed implements Recognizer.
func (r *PanRecognizer) Failed() bool {
	return r.declined
}

// Reset implements Recognizer.
func (r *PanRecognizer) Reset() {
	r.tracking = false
	r.began = false
	r.declined = false
	r.origin = geom.Zero
}

// Began reports whether the pan is currently recognized.
func (r *PanRecognizer) Began() bool {
	return r.began
}

// RecognizesSimultaneouslyWith implements Recognizer: pans coexist with
// anything that is not another pan.
func (r *PanRecognizer) RecognizesSimultaneouslyWith(other Recognizer) bool {
	_, isPan := other.(*PanRecognizer)
	return !isPan
}

// RequiresFailureOf implements Recognizer: a pan never waits for another
// recognizer to fail before beginning.
func (r *PanRecognizer) RequiresFailureOf(other Recognizer) bool {
	return false
}

// ShouldBeFailedBefore implements Recognizer: another pan may only win
// after this one has failed.
func (r *PanRecognizer) ShouldBeFailedBefore(other Recognizer) bool {
	_, isPan := other.(*PanRecognizer)
	return isPan
}

func translation(origin, pos geom.Vector) geom.Vector {
	return geom.Vector{X: pos.X - origin.X, Y: pos.Y - origin.Y}
}
