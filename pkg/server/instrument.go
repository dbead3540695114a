package server

import (
	"github.com/swipekit-dev/swipekit/pkg/protocol"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// EventHandler processes one decoded client event on the session loop.
type EventHandler func(s *Session, ev *protocol.Event)

// EventMiddleware wraps event dispatch.
type EventMiddleware func(next EventHandler) EventHandler

// Instrumentation is the set of observation hooks a session reports into.
// Any field may be nil. Middleware packages construct these; Server.Use
// composes them.
type Instrumentation struct {
	// Event wraps the session's event dispatch.
	Event EventMiddleware

	// Transition observes every controller state assignment.
	Transition func(old, next swipe.StateKind)

	// Release observes the host's release decision for a drag.
	Release func(action swipe.ReleaseAction)

	// SessionOpened and SessionClosed observe session lifecycle.
	SessionOpened func()
	SessionClosed func()

	// PatchesSent observes each flushed patch batch size.
	PatchesSent func(n int)

	// WSError observes read/write/decode errors by kind.
	WSError func(kind string)
}

// merge composes a list of instrumentations into one. Event middleware
// applies in registration order (first registered is outermost); the other
// hooks fan out.
func merge(ins []*Instrumentation) *Instrumentation {
	out := &Instrumentation{}
	for _, in := range ins {
		if in == nil {
			continue
		}
		i := in
		if i.Event != nil {
			if out.Event == nil {
				out.Event = i.Event
			} else {
				prev := out.Event
				out.Event = func(next EventHandler) EventHandler {
					return prev(i.Event(next))
				}
			}
		}
		out.Transition = fanOut2(out.Transition, i.Transition)
		out.Release = fanOut1(out.Release, i.Release)
		out.SessionOpened = fanOut0(out.SessionOpened, i.SessionOpened)
		out.SessionClosed = fanOut0(out.SessionClosed, i.SessionClosed)
		out.PatchesSent = fanOutInt(out.PatchesSent, i.PatchesSent)
		out.WSError = fanOutStr(out.WSError, i.WSError)
	}
	return out
}

func fanOut0(a, b func()) func() {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func() { a(); b() }
}

func fanOut1(a, b func(swipe.ReleaseAction)) func(swipe.ReleaseAction) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(v swipe.ReleaseAction) { a(v); b(v) }
}

func fanOut2(a, b func(old, next swipe.StateKind)) func(old, next swipe.StateKind) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(old, next swipe.StateKind) { a(old, next); b(old, next) }
}

func fanOutInt(a, b func(int)) func(int) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(v int) { a(v); b(v) }
}

func fanOutStr(a, b func(string)) func(string) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(v string) { a(v); b(v) }
}
