package swipe

// StateKind identifies the active interaction state.
type StateKind uint8

const (
	// StateStart is the rest state: no interaction, identity transform,
	// tracking view interaction enabled.
	StateStart StateKind = iota

	// StateHolding means a touch is active but no revealed side could be
	// created (the host declined or had nothing to reveal).
	StateHolding

	// StateDragging means a side is actively being revealed and the
	// transform follows the finger.
	StateDragging

	// StateOpen means the drag view is snapped open at a defined edge
	// width.
	StateOpen

	// StateSettling means the drag view is animating back to rest.
	StateSettling

	// StateCompleting means the drag view is animating fully across and
	// the host's own completion cleanup follows.
	StateCompleting
)

// String returns the string representation of the state kind.
func (k StateKind) String() string {
	switch k {
	case StateStart:
		return "Start"
	case StateHolding:
		return "Holding"
	case StateDragging:
		return "Dragging"
	case StateOpen:
		return "Open"
	case StateSettling:
		return "Settling"
	case StateCompleting:
		return "Completing"
	default:
		return "Unknown"
	}
}

// State is the interaction state as a tagged union. Exactly one state is
// active at a time. Drag is non-nil for Dragging, Open, Settling, and
// Completing; OpenWidth is meaningful only for Open. The done callback
// carried by Settling and Completing is single-shot: the transition
// dispatcher moves it out of the value and invokes it at most once.
type State struct {
	Kind      StateKind
	Drag      *DragInstance
	OpenWidth float64

	done func()
}

// Start returns the rest state.
func Start() State {
	return State{Kind: StateStart}
}

// Holding returns the holding state.
func Holding() State {
	return State{Kind: StateHolding}
}

// Dragging returns an active-drag state for drag.
func Dragging(drag *DragInstance) State {
	return State{Kind: StateDragging, Drag: drag}
}

// Open returns a snapped-open state at width.
func Open(drag *DragInstance, width float64) State {
	return State{Kind: StateOpen, Drag: drag, OpenWidth: width}
}

// Settling returns a settling state. done, if non-nil, runs once the
// settle animation and cleanup have finished.
func Settling(drag *DragInstance, done func()) State {
	return State{Kind: StateSettling, Drag: drag, done: done}
}

// Completing returns a completing state. done, if non-nil, runs once the
// transform animation and the host's own completion cleanup have finished.
func Completing(drag *DragInstance, done func()) State {
	return State{Kind: StateCompleting, Drag: drag, done: done}
}

// takeDone moves the single-shot callback out of the state.
func (s *State) takeDone() func() {
	done := s.done
	s.done = nil
	return done
}
