package swipe

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/swipekit-dev/swipekit/pkg/anim"
	"github.com/swipekit-dev/swipekit/pkg/geom"
	"github.com/swipekit-dev/swipekit/pkg/gesture"
)

// fakeScheduler is a hand-cranked anim.Scheduler. Tests advance it
// explicitly so animation and deferral ordering is observable.
type fakeScheduler struct {
	deferred []func()
	timers   []*fakeTimer
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (s *fakeScheduler) Defer(fn func()) {
	s.deferred = append(s.deferred, fn)
}

func (s *fakeScheduler) After(d time.Duration, fn func()) func() {
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.stopped = true }
}

// fireTimer runs the earliest pending timer. Returns false when none is
// pending.
func (s *fakeScheduler) fireTimer() bool {
	for i, t := range s.timers {
		if t.stopped {
			continue
		}
		s.timers = append(s.timers[:i], s.timers[i+1:]...)
		t.fn()
		return true
	}
	s.timers = nil
	return false
}

// runDeferred runs the currently queued deferrals, not ones they enqueue.
func (s *fakeScheduler) runDeferred() int {
	queued := s.deferred
	s.deferred = nil
	for _, fn := range queued {
		fn()
	}
	return len(queued)
}

// settle cranks timers and deferrals until the loop is quiescent.
func (s *fakeScheduler) settle() {
	for {
		if s.runDeferred() > 0 {
			continue
		}
		if !s.fireTimer() {
			return
		}
	}
}

type fakeView struct {
	transform   geom.Transform
	interaction []bool
	frame       geom.Rect
	hasFrame    bool
	detached    bool
}

func (v *fakeView) SetTransform(t geom.Transform)        { v.transform = t }
func (v *fakeView) SetInteractionEnabled(enabled bool)   { v.interaction = append(v.interaction, enabled) }
func (v *fakeView) Frame() (geom.Rect, bool)             { return v.frame, v.hasFrame }
func (v *fakeView) Detach()                              { v.detached = true }
func (v *fakeView) lastInteraction() (bool, bool) {
	if len(v.interaction) == 0 {
		return false, false
	}
	return v.interaction[len(v.interaction)-1], true
}

// fakeSurface is a tracking view with gesture support.
type fakeSurface struct {
	fakeView
	*gesture.Router
}

type draggedCall struct {
	translation geom.Vector
	percentage  *float64
}

type fakeHost struct {
	tracking *fakeSurface
	drag     *fakeView

	reveals        map[Side]*fakeView
	revealRequests []Side

	edges   map[Side]float64
	mayPass bool
	release ReleaseAction

	dragged     []draggedCall
	transitions [][2]StateKind

	finishCalls int
	finishDone  func()
	autoFinish  bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		tracking: &fakeSurface{Router: gesture.NewRouter()},
		drag:     &fakeView{},
		reveals: map[Side]*fakeView{
			Left:  {frame: geom.Rect{W: 360, H: 56}, hasFrame: true},
			Right: {frame: geom.Rect{W: 360, H: 56}, hasFrame: true},
		},
		edges: map[Side]float64{Left: 100, Right: 100},
	}
}

func (h *fakeHost) TrackingView() View {
	if h.tracking == nil {
		return nil
	}
	return h.tracking
}

func (h *fakeHost) DragView() View {
	if h.drag == nil {
		return nil
	}
	return h.drag
}

func (h *fakeHost) RevealView(side Side) View {
	h.revealRequests = append(h.revealRequests, side)
	v, ok := h.reveals[side]
	if !ok {
		return nil
	}
	return v
}

func (h *fakeHost) EdgeWidth(side Side) (float64, bool) {
	w, ok := h.edges[side]
	return w, ok
}

func (h *fakeHost) MayPassEdge(drag *DragInstance) bool { return h.mayPass }

func (h *fakeHost) Dragged(drag *DragInstance, translation geom.Vector, percentage *float64) {
	h.dragged = append(h.dragged, draggedCall{translation: translation, percentage: percentage})
}

func (h *fakeHost) ReleaseAction(drag *DragInstance) ReleaseAction { return h.release }

func (h *fakeHost) FinishCompletion(drag *DragInstance, done func()) {
	h.finishCalls++
	if h.autoFinish {
		done()
		return
	}
	h.finishDone = done
}

func (h *fakeHost) Transitioned(old, next State) {
	h.transitions = append(h.transitions, [2]StateKind{old.Kind, next.Kind})
}

type fakeGate struct {
	begin  bool
	reveal bool
}

func (g *fakeGate) ShouldBegin() bool           { return g.begin }
func (g *fakeGate) ShouldReveal(side Side) bool { return g.reveal }

func newTestController(host *fakeHost) (*Controller, *fakeScheduler) {
	sched := &fakeScheduler{}
	c := NewController(host, Config{
		Animator: anim.NewAnimator(sched),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return c, sched
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestControllerDragTranslation(t *testing.T) {
	tests := []struct {
		name        string
		translation float64
		mayPass     bool
		noEdge      bool
		wantX       float64
		wantPct     float64
		wantNilPct  bool
	}{
		{"within edge", 50, false, false, 50, 0.5, false},
		{"at edge", 100, false, false, 100, 1.0, false},
		{"beyond edge damped", 150, false, false, 115, 1.15, false},
		{"beyond edge pass allowed", 150, true, false, 150, 1.5, false},
		{"leftward drag damped", -150, false, false, -115, 1.15, false},
		{"no edge width", 150, false, true, 150, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			host.mayPass = tt.mayPass
			if tt.noEdge {
				host.edges = map[Side]float64{}
			}
			c, _ := newTestController(host)

			c.PanChanged(geom.Vector{X: tt.translation})

			if c.State().Kind != StateDragging {
				t.Fatalf("state = %v, want Dragging", c.State().Kind)
			}
			if got := host.drag.transform.TX; !approxEqual(got, tt.wantX) {
				t.Errorf("drag view TX = %v, want %v", got, tt.wantX)
			}
			if len(host.dragged) != 1 {
				t.Fatalf("Dragged called %d times, want 1", len(host.dragged))
			}
			call := host.dragged[0]
			if !approxEqual(call.translation.X, tt.wantX) {
				t.Errorf("Dragged translation = %v, want %v", call.translation.X, tt.wantX)
			}
			if tt.wantNilPct {
				if call.percentage != nil {
					t.Errorf("Dragged percentage = %v, want nil", *call.percentage)
				}
			} else {
				if call.percentage == nil {
					t.Fatal("Dragged percentage = nil, want value")
				}
				if !approxEqual(*call.percentage, tt.wantPct) {
					t.Errorf("Dragged percentage = %v, want %v", *call.percentage, tt.wantPct)
				}
			}
		})
	}
}

func TestControllerSideSwitchDetachesOldPanel(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	c.PanChanged(geom.Vector{X: 40})
	if got := c.State().Drag.Revealed.Side; got != Left {
		t.Fatalf("revealed side = %v, want Left", got)
	}
	left := host.reveals[Left]

	c.PanChanged(geom.Vector{X: -40})
	if got := c.State().Drag.Revealed.Side; got != Right {
		t.Fatalf("revealed side = %v, want Right", got)
	}
	if !left.detached {
		t.Error("left panel not detached after side switch")
	}
	want := []Side{Left, Right}
	if len(host.revealRequests) != len(want) {
		t.Fatalf("reveal requests = %v, want %v", host.revealRequests, want)
	}
	for i, side := range want {
		if host.revealRequests[i] != side {
			t.Errorf("reveal request %d = %v, want %v", i, host.revealRequests[i], side)
		}
	}
}

func TestControllerSameSideReusesPanel(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	c.PanChanged(geom.Vector{X: 40})
	c.PanChanged(geom.Vector{X: 60})

	if len(host.revealRequests) != 1 {
		t.Errorf("reveal requests = %d, want 1", len(host.revealRequests))
	}
	if host.reveals[Left].detached {
		t.Error("panel detached during same-side drag")
	}
}

func TestControllerHoldsWhenHostDeclines(t *testing.T) {
	host := newFakeHost()
	host.reveals = map[Side]*fakeView{}
	c, _ := newTestController(host)

	c.PanChanged(geom.Vector{X: 40})

	if c.State().Kind != StateHolding {
		t.Fatalf("state = %v, want Holding", c.State().Kind)
	}
	if !host.drag.transform.IsIdentity() {
		t.Errorf("drag view TX = %v, want identity", host.drag.transform.TX)
	}
}

func TestControllerGate(t *testing.T) {
	host := newFakeHost()
	sched := &fakeScheduler{}
	gate := &fakeGate{begin: false, reveal: false}
	c := NewController(host, Config{
		Animator: anim.NewAnimator(sched),
		Gate:     gate,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	if c.PanShouldBegin(geom.Vector{X: 10}) {
		t.Error("PanShouldBegin = true with closed gate, want false")
	}

	gate.begin = true
	if !c.PanShouldBegin(geom.Vector{X: 10}) {
		t.Error("PanShouldBegin = false with open gate, want true")
	}

	c.PanChanged(geom.Vector{X: 40})
	if c.State().Kind != StateHolding {
		t.Errorf("state = %v with reveal gate closed, want Holding", c.State().Kind)
	}
	if len(host.revealRequests) != 0 {
		t.Errorf("host asked for a reveal view %d times, want 0", len(host.revealRequests))
	}

	gate.reveal = true
	c.PanChanged(geom.Vector{X: 40})
	if c.State().Kind != StateDragging {
		t.Errorf("state = %v with reveal gate open, want Dragging", c.State().Kind)
	}
}

func TestControllerReleaseClose(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseClose
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 50})
	c.PanEnded(geom.Vector{X: 50})

	if c.State().Kind != StateSettling {
		t.Fatalf("state = %v, want Settling", c.State().Kind)
	}
	if enabled, ok := host.tracking.lastInteraction(); !ok || enabled {
		t.Error("tracking view interaction not disabled while settling")
	}

	sched.settle()

	if c.State().Kind != StateStart {
		t.Fatalf("state = %v after settle, want Start", c.State().Kind)
	}
	if !host.drag.transform.IsIdentity() {
		t.Errorf("drag view TX = %v, want identity", host.drag.transform.TX)
	}
	if !host.reveals[Left].detached {
		t.Error("panel not detached after settle")
	}
	if enabled, ok := host.tracking.lastInteraction(); !ok || !enabled {
		t.Error("tracking view interaction not re-enabled at rest")
	}
	last := host.dragged[len(host.dragged)-1]
	if last.percentage == nil || *last.percentage != 0 {
		t.Errorf("final Dragged percentage = %v, want 0", last.percentage)
	}
}

func TestControllerReleaseOpen(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseOpen
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 80})
	c.PanEnded(geom.Vector{X: 80})

	if c.State().Kind != StateOpen {
		t.Fatalf("state = %v, want Open", c.State().Kind)
	}
	if got := c.State().OpenWidth; got != 100 {
		t.Errorf("open width = %v, want 100", got)
	}

	sched.settle()

	if got := host.drag.transform.TX; !approxEqual(got, 100) {
		t.Errorf("drag view TX = %v after open animation, want 100", got)
	}
	if enabled, ok := host.tracking.lastInteraction(); !ok || !enabled {
		t.Error("tracking view interaction not re-enabled after open animation")
	}

	// A new drag from Open carries the open offset forward.
	c.PanChanged(geom.Vector{X: 20})
	drag := c.State().Drag
	if !approxEqual(drag.Translation.X, 120) {
		t.Errorf("carried translation = %v, want 120", drag.Translation.X)
	}
	if !approxEqual(drag.Velocity.X, 20) {
		t.Errorf("velocity = %v, want raw gesture reading 20", drag.Velocity.X)
	}
	if len(host.revealRequests) != 1 {
		t.Errorf("reveal requests = %d, want 1 (open panel reused)", len(host.revealRequests))
	}
}

func TestControllerReleaseOpenWithoutEdgeCompletes(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseOpen
	host.edges = map[Side]float64{}
	host.autoFinish = true
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 80})
	c.PanEnded(geom.Vector{X: 80})

	if c.State().Kind != StateCompleting {
		t.Fatalf("state = %v, want Completing", c.State().Kind)
	}

	sched.settle()

	if host.finishCalls != 1 {
		t.Errorf("FinishCompletion called %d times, want 1", host.finishCalls)
	}
	if c.State().Kind != StateStart {
		t.Errorf("state = %v after completion, want Start", c.State().Kind)
	}
}

func TestControllerReleaseComplete(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseComplete
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 250})
	c.PanEnded(geom.Vector{X: 250})

	if c.State().Kind != StateCompleting {
		t.Fatalf("state = %v, want Completing", c.State().Kind)
	}

	sched.settle()

	if host.finishCalls != 1 {
		t.Fatalf("FinishCompletion called %d times, want 1", host.finishCalls)
	}
	// The drag view slides the full panel frame width.
	if got := host.drag.transform.TX; !approxEqual(got, 360) {
		t.Errorf("drag view TX = %v, want 360", got)
	}
	// The interaction stays in Completing until the host reports done.
	if c.State().Kind != StateCompleting {
		t.Fatalf("state = %v while host cleanup pending, want Completing", c.State().Kind)
	}

	host.finishDone()
	if c.State().Kind != StateStart {
		t.Errorf("state = %v after host cleanup, want Start", c.State().Kind)
	}
	if !host.reveals[Left].detached {
		t.Error("panel not detached after completion")
	}
}

func TestControllerCloseOnlyWhenOpen(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	called := false
	c.Close(false, func() { called = true })

	if c.State().Kind != StateStart {
		t.Errorf("state = %v, want Start", c.State().Kind)
	}
	if called {
		t.Error("done called for a Close outside Open")
	}
}

func TestControllerClose(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseOpen
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 80})
	c.PanEnded(geom.Vector{X: 80})
	sched.settle()

	called := 0
	c.Close(false, func() { called++ })

	if c.State().Kind != StateSettling {
		t.Fatalf("state = %v, want Settling", c.State().Kind)
	}

	sched.settle()

	if c.State().Kind != StateStart {
		t.Fatalf("state = %v after close, want Start", c.State().Kind)
	}
	if called != 1 {
		t.Errorf("done called %d times, want 1", called)
	}
	if !host.drag.transform.IsIdentity() {
		t.Errorf("drag view TX = %v, want identity", host.drag.transform.TX)
	}
	if !host.reveals[Left].detached {
		t.Error("panel not detached after close")
	}
}

func TestControllerCloseSuppressedAppliesInstantly(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseOpen
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 80})
	c.PanEnded(geom.Vector{X: 80})
	sched.settle()

	called := false
	c.Close(true, func() { called = true })

	// The transform snaps without any timer firing.
	if !host.drag.transform.IsIdentity() {
		t.Fatalf("drag view TX = %v immediately after suppressed close, want identity", host.drag.transform.TX)
	}
	if c.State().Kind != StateSettling {
		t.Fatalf("state = %v, want Settling", c.State().Kind)
	}
	if called {
		t.Error("done called before the cleanup tick")
	}

	// Cleanup still waits for the next loop tick.
	if n := sched.runDeferred(); n == 0 {
		t.Fatal("no deferred cleanup queued")
	}
	if c.State().Kind != StateStart {
		t.Errorf("state = %v after cleanup tick, want Start", c.State().Kind)
	}
	if !called {
		t.Error("done not called after cleanup tick")
	}
}

func TestControllerCompleteOnlyWhenOpen(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	c.Complete(nil)
	if c.State().Kind != StateStart {
		t.Errorf("state = %v, want Start", c.State().Kind)
	}
	if host.finishCalls != 0 {
		t.Errorf("FinishCompletion called %d times, want 0", host.finishCalls)
	}
}

func TestControllerComplete(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseOpen
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 80})
	c.PanEnded(geom.Vector{X: 80})
	sched.settle()

	called := 0
	c.Complete(func() { called++ })

	if c.State().Kind != StateCompleting {
		t.Fatalf("state = %v, want Completing", c.State().Kind)
	}

	sched.settle()
	if host.finishCalls != 1 {
		t.Fatalf("FinishCompletion called %d times, want 1", host.finishCalls)
	}
	if called != 0 {
		t.Error("done called before host cleanup finished")
	}

	host.finishDone()
	if called != 1 {
		t.Errorf("done called %d times, want 1", called)
	}
	if c.State().Kind != StateStart {
		t.Errorf("state = %v, want Start", c.State().Kind)
	}
}

func TestControllerSetEnabled(t *testing.T) {
	t.Run("no tracking view", func(t *testing.T) {
		host := newFakeHost()
		host.tracking = nil
		c, _ := newTestController(host)

		c.SetEnabled(true)
		if c.Enabled() {
			t.Error("Enabled() = true with no tracking view, want false")
		}
	})

	t.Run("attach and detach", func(t *testing.T) {
		host := newFakeHost()
		c, _ := newTestController(host)

		c.SetEnabled(true)
		if !c.Enabled() {
			t.Fatal("Enabled() = false, want true")
		}
		if got := len(host.tracking.Recognizers()); got != 1 {
			t.Fatalf("tracking surface has %d recognizers, want 1", got)
		}

		c.SetEnabled(true)
		if got := len(host.tracking.Recognizers()); got != 1 {
			t.Errorf("re-enabling attached %d recognizers, want 1", got)
		}

		c.SetEnabled(false)
		if c.Enabled() {
			t.Error("Enabled() = true after disable, want false")
		}
		if got := len(host.tracking.Recognizers()); got != 0 {
			t.Errorf("tracking surface has %d recognizers after disable, want 0", got)
		}
	})
}

func TestControllerReleasedHostAborts(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	c.PanChanged(geom.Vector{X: 60})
	c.ReleaseHost()

	c.PanChanged(geom.Vector{X: 80})
	if c.State().Kind != StateDragging {
		t.Errorf("state = %v after move on released host, want unchanged Dragging", c.State().Kind)
	}
	if len(host.dragged) != 1 {
		t.Errorf("Dragged called %d times, want 1", len(host.dragged))
	}

	c.PanEnded(geom.Vector{X: 80})
	if c.State().Kind != StateStart {
		t.Errorf("state = %v after release on released host, want Start", c.State().Kind)
	}
}

func TestControllerTransitionedAlwaysFires(t *testing.T) {
	host := newFakeHost()
	c, _ := newTestController(host)

	c.PanChanged(geom.Vector{X: 40})
	c.PanChanged(geom.Vector{X: 50})

	want := [][2]StateKind{
		{StateStart, StateDragging},
		{StateDragging, StateDragging},
	}
	if len(host.transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", host.transitions, want)
	}
	for i := range want {
		if host.transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, host.transitions[i], want[i])
		}
	}
}

func TestControllerSettleCleanupWaitsATick(t *testing.T) {
	host := newFakeHost()
	host.release = ReleaseClose
	c, sched := newTestController(host)

	c.PanChanged(geom.Vector{X: 50})
	c.PanEnded(geom.Vector{X: 50})

	// Drive the settle animation to completion without running deferrals.
	for sched.fireTimer() {
	}
	if c.State().Kind != StateSettling {
		t.Fatalf("state = %v after animation, want Settling until the cleanup tick", c.State().Kind)
	}
	if host.reveals[Left].detached {
		t.Error("panel detached before the cleanup tick")
	}

	sched.runDeferred()
	if c.State().Kind != StateStart {
		t.Errorf("state = %v after cleanup tick, want Start", c.State().Kind)
	}
	if !host.reveals[Left].detached {
		t.Error("panel not detached after cleanup tick")
	}
}
