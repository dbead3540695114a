package swipe

import "testing"

func TestSideForTranslation(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want Side
	}{
		{"positive reveals left", 10, Left},
		{"negative reveals right", -10, Right},
		{"zero defaults right", 0, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideForTranslation(tt.x); got != tt.want {
				t.Errorf("SideForTranslation(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestSideUnit(t *testing.T) {
	if got := Left.Unit(); got != 1 {
		t.Errorf("Left.Unit() = %v, want 1", got)
	}
	if got := Right.Unit(); got != -1 {
		t.Errorf("Right.Unit() = %v, want -1", got)
	}
}

func TestStateKindString(t *testing.T) {
	kinds := map[StateKind]string{
		StateStart:      "Start",
		StateHolding:    "Holding",
		StateDragging:   "Dragging",
		StateOpen:       "Open",
		StateSettling:   "Settling",
		StateCompleting: "Completing",
		StateKind(99):   "Unknown",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestStateTakeDoneIsSingleShot(t *testing.T) {
	calls := 0
	s := Settling(nil, func() { calls++ })

	first := s.takeDone()
	if first == nil {
		t.Fatal("takeDone() = nil on first call, want callback")
	}
	if second := s.takeDone(); second != nil {
		t.Error("takeDone() returned a callback twice")
	}
	first()
	if calls != 1 {
		t.Errorf("done ran %d times, want 1", calls)
	}
}

func TestRevealedViewInstanceDetachOnce(t *testing.T) {
	view := &fakeView{}
	inst := NewRevealedViewInstance(Left, view)

	if _, ok := inst.View(); !ok {
		t.Fatal("View() not resolvable before detach")
	}

	inst.detach()
	inst.detach()

	if !view.detached {
		t.Error("view not detached")
	}
	if _, ok := inst.View(); ok {
		t.Error("View() still resolvable after detach")
	}
}
