package gesture

// Router is a concrete Surface that dispatches pointer events to attached
// recognizers, honoring their coexistence policies. Attachment order
// matters: when two recognizers refuse to run simultaneously, the earlier
// one wins until it fails.
type Router struct {
	recognizers []Recognizer
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// AddRecognizer attaches r. Attaching the same recognizer twice is a no-op.
func (rt *Router) AddRecognizer(r Recognizer) {
	for _, existing := range rt.recognizers {
		if existing == r {
			return
		}
	}
	rt.recognizers = append(rt.recognizers, r)
}

// RemoveRecognizer detaches r and resets it.
func (rt *Router) RemoveRecognizer(r Recognizer) {
	for i, existing := range rt.recognizers {
		if existing == r {
			rt.recognizers = append(rt.recognizers[:i], rt.recognizers[i+1:]...)
			r.Reset()
			return
		}
	}
}

// Recognizers returns the attached recognizers in attachment order.
func (rt *Router) Recognizers() []Recognizer {
	return rt.recognizers
}

// Dispatch delivers ev to every attached recognizer that is not blocked by
// another recognizer's coexistence policy.
func (rt *Router) Dispatch(ev PointerEvent) {
	for i, rec := range rt.recognizers {
		if rt.blocked(rec, i) {
			continue
		}
		rec.HandlePointer(ev)
	}
}

// blocked reports whether rec may not receive events right now.
func (rt *Router) blocked(rec Recognizer, idx int) bool {
	for i, other := range rt.recognizers {
		if other == rec || other.Failed() {
			continue
		}
		// rec demands other fail first, regardless of order.
		if rec.RequiresFailureOf(other) {
			return true
		}
		// An earlier recognizer that neither runs simultaneously with
		// rec nor has failed holds the sequence.
		if i < idx && !other.RecognizesSimultaneouslyWith(rec) && other.ShouldBeFailedBefore(rec) {
			return true
		}
	}
	return false
}
