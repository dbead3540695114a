package swipe

import (
	"log/slog"
	"math"

	"github.com/swipekit-dev/swipekit/pkg/anim"
	"github.com/swipekit-dev/swipekit/pkg/geom"
	"github.com/swipekit-dev/swipekit/pkg/gesture"
)

// EdgeFollowThrough is the marginal rate at which a drag travels beyond a
// disallowed edge: 30% follow-through past the edge width.
const EdgeFollowThrough = 0.3

// Config configures a Controller.
type Config struct {
	// Animator drives transform animations and next-tick deferrals.
	// Required.
	Animator *anim.Animator

	// Gate optionally gates whether interactions begin at all.
	Gate BeginPolicy

	// Logger receives transition logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Controller reconciles continuous gesture deltas against a host view and
// reveals a side panel as the user drags. One controller serves one host.
//
// Every state change, including a self-transition, passes through the
// transition dispatcher and triggers its side effects. All methods must be
// called on the event loop that owns the animator's scheduler.
type Controller struct {
	host Host
	gate BeginPolicy

	animator *anim.Animator
	logger   *slog.Logger

	recognizer *gesture.PanRecognizer
	enabled    bool

	state      State
	dragOffset geom.Vector
	transform  geom.Transform

	// suppressAnimations is set transiently around a programmatic Close
	// so the settle applies instantly.
	suppressAnimations bool
}

// NewController returns a controller for host. The controller starts in
// Start and disabled; call SetEnabled(true) to attach the pan recognizer
// to the host's tracking view.
func NewController(host Host, cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		host:     host,
		gate:     cfg.Gate,
		animator: cfg.Animator,
		logger:   logger,
		state:    Start(),
	}
	c.recognizer = gesture.NewPanRecognizer(c)
	return c
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// Recognizer returns the controller's pan recognizer.
func (c *Controller) Recognizer() *gesture.PanRecognizer {
	return c.recognizer
}

// ReleaseHost drops the controller's host reference. Subsequent steps that
// need the host silently abort; the controller never faults on a released
// host.
func (c *Controller) ReleaseHost() {
	c.host = nil
}

// Enabled reports whether the pan recognizer is attached to the tracking
// view.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// SetEnabled attaches or detaches the pan recognizer from the host's
// tracking view. Setting the current value is a no-op. When no tracking
// view (or one without gesture support) is available, the flag flip
// silently reverts in either direction.
func (c *Controller) SetEnabled(enabled bool) {
	if enabled == c.enabled {
		return
	}
	surface := c.trackingSurface()
	if surface == nil {
		return
	}
	if enabled {
		surface.AddRecognizer(c.recognizer)
	} else {
		surface.RemoveRecognizer(c.recognizer)
	}
	c.enabled = enabled
}

// Close settles an open reveal back to rest, then calls done. It is a
// no-op unless the current state is Open. With suppressAnimations the
// transform applies instantly; the cleanup still runs on the next
// scheduler tick.
func (c *Controller) Close(suppressAnimations bool, done func()) {
	if c.state.Kind != StateOpen {
		return
	}
	if suppressAnimations {
		c.suppressAnimations = true
	}
	c.setState(Settling(c.state.Drag, done))
	c.suppressAnimations = false
}

// Complete slides an open reveal fully across and runs the host's
// completion cleanup, then calls done. It is a no-op unless the current
// state is Open.
func (c *Controller) Complete(done func()) {
	if c.state.Kind != StateOpen {
		return
	}
	c.setState(Completing(c.state.Drag, done))
}

// PanShouldBegin implements gesture.PanHandler: the global gate decides
// whether any interaction begins.
func (c *Controller) PanShouldBegin(translation geom.Vector) bool {
	if c.gate != nil && !c.gate.ShouldBegin() {
		return false
	}
	return true
}

// PanChanged implements gesture.PanHandler. raw is the gesture translation
// since gesture start; the drag translation additionally carries any open
// offset inherited from a prior Open state.
func (c *Controller) PanChanged(raw geom.Vector) {
	if c.host == nil {
		return
	}
	translation := raw.Add(c.dragOffset)
	velocity := raw
	side := SideForTranslation(translation.X)

	inst := c.resolveRevealed(side)
	if inst == nil {
		c.setState(Holding())
		return
	}
	c.setState(Dragging(&DragInstance{
		Revealed:    inst,
		Translation: translation,
		Velocity:    velocity,
	}))
}

// PanEnded implements gesture.PanHandler. A release while Dragging asks
// the host for its release action; any other release returns to Start.
func (c *Controller) PanEnded(raw geom.Vector) {
	if c.state.Kind != StateDragging {
		c.setState(Start())
		return
	}
	host := c.host
	drag := c.state.Drag
	if host == nil || drag == nil {
		c.setState(Start())
		return
	}
	switch host.ReleaseAction(drag) {
	case ReleaseComplete:
		c.setState(Completing(drag, nil))
	case ReleaseOpen:
		if width, ok := host.EdgeWidth(drag.Revealed.Side); ok && width > 0 {
			c.setState(Open(drag, width))
		} else {
			c.setState(Completing(drag, nil))
		}
	default:
		c.setState(Settling(drag, nil))
	}
}

// resolveRevealed returns the revealed instance for side, reusing the
// current one when the side matches and otherwise tearing down the old
// reveal and requesting a fresh view from the host. Returns nil when the
// gate or the host declines.
func (c *Controller) resolveRevealed(side Side) *RevealedViewInstance {
	if cur := c.state.Drag; cur != nil && cur.Revealed != nil {
		if cur.Revealed.Side == side {
			return cur.Revealed
		}
		cur.Revealed.detach()
	}
	if c.gate != nil && !c.gate.ShouldReveal(side) {
		return nil
	}
	view := c.host.RevealView(side)
	if view == nil {
		return nil
	}
	return NewRevealedViewInstance(side, view)
}

// setState assigns the next state and runs the transition dispatcher.
// The dispatcher always runs, even for a self-transition, because the
// transition side effects are the mechanism, not a diff.
func (c *Controller) setState(next State) {
	old := c.state
	done := next.takeDone()
	c.state = next
	c.logger.Debug("swipe transition", "from", old.Kind, "to", next.Kind)
	c.dispatch(next, done)
	if host := c.host; host != nil {
		host.Transitioned(old, next)
	}
}

// dispatch applies the side effects of entering next.
func (c *Controller) dispatch(next State, done func()) {
	switch next.Kind {
	case StateStart:
		c.enterStart()
	case StateHolding:
		c.enterHolding()
	case StateDragging:
		c.enterDragging(next.Drag)
	case StateOpen:
		c.enterOpen(next.Drag, next.OpenWidth)
	case StateSettling:
		c.enterSettling(next.Drag, done)
	case StateCompleting:
		c.enterCompleting(next.Drag, done)
	}
}

func (c *Controller) enterStart() {
	c.animator.Stop()
	c.dragOffset = geom.Zero
	if tv := c.trackingView(); tv != nil {
		tv.SetInteractionEnabled(true)
	}
	if dv := c.dragView(); dv != nil {
		c.applyTransform(dv, geom.Identity())
	}
}

func (c *Controller) enterHolding() {
	c.animator.Stop()
	if dv := c.dragView(); dv != nil {
		c.applyTransform(dv, geom.Identity())
	}
}

func (c *Controller) enterDragging(drag *DragInstance) {
	c.animator.Stop()
	host := c.host
	if host == nil || drag == nil || drag.Revealed == nil {
		return
	}
	side := drag.Revealed.Side
	unit := side.Unit()
	magnitude := math.Abs(drag.Translation.X)

	var x float64
	var percentage *float64
	if width, ok := host.EdgeWidth(side); ok && width > 0 {
		revealed := magnitude / width
		if revealed > 1.0 && !host.MayPassEdge(drag) {
			x = width*unit + (magnitude-width)*unit*EdgeFollowThrough
		} else {
			x = magnitude * unit
		}
		p := math.Abs(x / width)
		percentage = &p
	} else {
		x = magnitude * unit
	}

	if dv := c.dragView(); dv != nil {
		c.applyTransform(dv, geom.Translation(x))
	}
	host.Dragged(drag, geom.Vector{X: x}, percentage)
}

func (c *Controller) enterOpen(drag *DragInstance, width float64) {
	if drag == nil || drag.Revealed == nil {
		return
	}
	if tv := c.trackingView(); tv != nil {
		tv.SetInteractionEnabled(false)
	}
	x := width * drag.Revealed.Side.Unit()
	// Restarting a drag from Open carries this offset forward.
	c.dragOffset = geom.Vector{X: x}

	percentage := 1.0
	c.animateTransform(geom.Translation(x), func() {
		if host := c.host; host != nil {
			host.Dragged(drag, geom.Vector{X: x}, &percentage)
		}
	}, func() {
		if tv := c.trackingView(); tv != nil {
			tv.SetInteractionEnabled(true)
		}
	})
}

func (c *Controller) enterSettling(drag *DragInstance, done func()) {
	if tv := c.trackingView(); tv != nil {
		tv.SetInteractionEnabled(false)
	}
	percentage := 0.0
	cleanup := func() {
		// Deferred a tick so the view hierarchy never mutates during
		// the triggering call stack.
		c.animator.Defer(func() {
			if drag != nil {
				drag.Revealed.detach()
			}
			c.setState(Start())
			if done != nil {
				done()
			}
		})
	}
	c.animateTransform(geom.Identity(), func() {
		if host := c.host; host != nil {
			host.Dragged(drag, geom.Zero, &percentage)
		}
	}, cleanup)
}

func (c *Controller) enterCompleting(drag *DragInstance, done func()) {
	if tv := c.trackingView(); tv != nil {
		tv.SetInteractionEnabled(false)
	}
	var x float64
	if drag != nil && drag.Revealed != nil {
		if view, ok := drag.Revealed.View(); ok {
			if frame, ok := view.Frame(); ok {
				x = frame.W * drag.Revealed.Side.Unit()
			}
		}
	}
	c.animateTransform(geom.Translation(x), func() {
		if host := c.host; host != nil {
			// nil percentage: terminal completion, not a reveal.
			host.Dragged(drag, geom.Vector{X: x}, nil)
		}
	}, func() {
		host := c.host
		if host == nil {
			return
		}
		host.FinishCompletion(drag, func() {
			if drag != nil {
				drag.Revealed.detach()
			}
			c.setState(Start())
			if done != nil {
				done()
			}
		})
	})
}

// animateTransform animates the drag view's transform to target over the
// reveal duration with an ease-out curve, or applies it instantly when
// animations are suppressed. during runs once as the animation starts;
// completed runs when it finishes. Starting a new animation supersedes an
// in-flight one.
func (c *Controller) animateTransform(target geom.Transform, during, completed func()) {
	dv := c.dragView()
	if dv == nil {
		if during != nil {
			during()
		}
		if completed != nil {
			completed()
		}
		return
	}
	if c.suppressAnimations {
		c.animator.Stop()
		c.applyTransform(dv, target)
		if during != nil {
			during()
		}
		if completed != nil {
			completed()
		}
		return
	}
	from := c.transform
	if during != nil {
		during()
	}
	c.animator.Animate(anim.RevealDuration, anim.EaseOut, func(p float64) {
		if view := c.dragView(); view != nil {
			c.applyTransform(view, geom.Lerp(from, target, p))
		}
	}, completed)
}

func (c *Controller) applyTransform(view View, t geom.Transform) {
	c.transform = t
	view.SetTransform(t)
}

// trackingView resolves the host's tracking view, nil-safe.
func (c *Controller) trackingView() View {
	if c.host == nil {
		return nil
	}
	return c.host.TrackingView()
}

// trackingSurface resolves the tracking view as a gesture surface.
func (c *Controller) trackingSurface() gesture.Surface {
	tv := c.trackingView()
	if tv == nil {
		return nil
	}
	surface, ok := tv.(gesture.Surface)
	if !ok {
		return nil
	}
	return surface
}

// dragView resolves the host's drag view, nil-safe.
func (c *Controller) dragView() View {
	if c.host == nil {
		return nil
	}
	return c.host.DragView()
}
