package server

import (
	"fmt"
	"math"

	"github.com/swipekit-dev/swipekit/pkg/anim"
	"github.com/swipekit-dev/swipekit/pkg/geom"
	"github.com/swipekit-dev/swipekit/pkg/gesture"
	"github.com/swipekit-dev/swipekit/pkg/protocol"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// RowConfig describes one swipeable row. Dimensions are CSS pixels as
// rendered by the client.
type RowConfig struct {
	// Width is the row's full width. Revealed panels span it, so a
	// completing drag travels the whole row.
	Width float64

	// Height is the row's height, used by the completion collapse.
	Height float64

	// LeftWidth and RightWidth are the edge widths for each side; 0
	// leaves the side unrevealable.
	LeftWidth  float64
	RightWidth float64

	// AllowPassEdge lets drags travel beyond the edge width without
	// elastic damping.
	AllowPassEdge bool

	// CompleteLeft and CompleteRight allow the full-swipe completion
	// gesture on each side (e.g. swipe-to-delete).
	CompleteLeft  bool
	CompleteRight bool

	// OpenFraction of the edge width a release must have revealed to
	// snap open. Default: 0.5.
	OpenFraction float64

	// CompleteFraction of the row width a release must have travelled
	// to complete. Default: 0.6.
	CompleteFraction float64

	// FlickDistance is the outward velocity-proxy reading above which a
	// release snaps open regardless of distance. Default: 60.
	FlickDistance float64
}

// withDefaults fills unset policy fields.
func (c RowConfig) withDefaults() RowConfig {
	if c.OpenFraction <= 0 {
		c.OpenFraction = 0.5
	}
	if c.CompleteFraction <= 0 {
		c.CompleteFraction = 0.6
	}
	if c.FlickDistance <= 0 {
		c.FlickDistance = 60
	}
	return c
}

// Row is one swipeable list row managed by a session: a tracking surface
// receiving pointer events, a content view the controller translates, and
// the host wiring between the two.
type Row struct {
	ID string

	session    *Session
	cfg        RowConfig
	tracking   *surfaceView
	drag       *remoteView
	controller *swipe.Controller
	cleanup    *anim.Animator
	panelSeq   int

	// Optional application hooks. Set them right after AddRow, on the
	// session loop.
	OnProgress   func(side swipe.Side, translation float64, percentage *float64)
	OnRelease    func(action swipe.ReleaseAction)
	OnComplete   func(side swipe.Side)
	OnTransition func(old, next swipe.State)
}

// AddRow registers a swipeable row with the session and enables its
// controller. Loop goroutine only.
func (s *Session) AddRow(id string, cfg RowConfig) *Row {
	cfg = cfg.withDefaults()
	row := &Row{
		ID:      id,
		session: s,
		cfg:     cfg,
		tracking: &surfaceView{
			remoteView: &remoteView{session: s, id: id, width: cfg.Width, height: cfg.Height},
			Router:     gesture.NewRouter(),
		},
		drag:    &remoteView{session: s, id: id + "/content", width: cfg.Width, height: cfg.Height},
		cleanup: anim.NewAnimator(s),
	}
	row.controller = s.registry.For(id, &rowHost{row: row})
	row.controller.SetEnabled(true)
	s.rows[id] = row
	return row
}

// RemoveRow releases a row's controller and forgets the row.
func (s *Session) RemoveRow(id string) {
	if _, ok := s.rows[id]; !ok {
		return
	}
	s.registry.Release(id)
	delete(s.rows, id)
}

// Row returns the row with the given ID.
func (s *Session) Row(id string) (*Row, bool) {
	row, ok := s.rows[id]
	return row, ok
}

// Controller returns the row's interaction controller.
func (r *Row) Controller() *swipe.Controller {
	return r.controller
}

// handlePointer feeds a pointer event to the row's gesture surface.
func (r *Row) handlePointer(ev gesture.PointerEvent) {
	r.tracking.Dispatch(ev)
}

func (r *Row) edgeWidth(side swipe.Side) float64 {
	if side == swipe.Left {
		return r.cfg.LeftWidth
	}
	return r.cfg.RightWidth
}

func (r *Row) completeAllowed(side swipe.Side) bool {
	if side == swipe.Left {
		return r.cfg.CompleteLeft
	}
	return r.cfg.CompleteRight
}

// rowHost adapts a Row to the swipe.Host capability set, emitting
// protocol patches for every visual side effect.
type rowHost struct {
	row *Row
}

func (h *rowHost) TrackingView() swipe.View {
	return h.row.tracking
}

func (h *rowHost) DragView() swipe.View {
	return h.row.drag
}

func (h *rowHost) RevealView(side swipe.Side) swipe.View {
	row := h.row
	width := row.edgeWidth(side)
	if width <= 0 {
		return nil
	}
	row.panelSeq++
	panelID := fmt.Sprintf("%s/panel/%d", row.ID, row.panelSeq)

	sideByte := protocol.PanelLeft
	if side == swipe.Right {
		sideByte = protocol.PanelRight
	}
	row.session.queuePatch(protocol.Patch{
		Op:     protocol.PatchAttachPanel,
		Target: row.ID,
		Panel:  panelID,
		Side:   sideByte,
		Value:  width,
	})
	// The panel spans the row so completion travels the full width.
	return &remoteView{
		session:    row.session,
		id:         panelID,
		width:      row.cfg.Width,
		height:     row.cfg.Height,
		detachable: true,
	}
}

func (h *rowHost) EdgeWidth(side swipe.Side) (float64, bool) {
	width := h.row.edgeWidth(side)
	return width, width > 0
}

func (h *rowHost) MayPassEdge(drag *swipe.DragInstance) bool {
	return h.row.cfg.AllowPassEdge
}

func (h *rowHost) Dragged(drag *swipe.DragInstance, translation geom.Vector, percentage *float64) {
	row := h.row
	if row.OnProgress != nil && drag != nil && drag.Revealed != nil {
		row.OnProgress(drag.Revealed.Side, translation.X, percentage)
	}
}

// ReleaseAction decides the outcome of a released drag: far enough across
// the row completes (when the side allows it), past the open threshold or
// an outward flick opens, anything else closes.
func (h *rowHost) ReleaseAction(drag *swipe.DragInstance) swipe.ReleaseAction {
	row := h.row
	cfg := row.cfg
	side := drag.Revealed.Side
	magnitude := math.Abs(drag.Translation.X)

	action := swipe.ReleaseClose
	switch {
	case row.completeAllowed(side) && cfg.Width > 0 && magnitude >= cfg.CompleteFraction*cfg.Width:
		action = swipe.ReleaseComplete
	case magnitude >= row.edgeWidth(side)*cfg.OpenFraction,
		drag.Velocity.X*side.Unit() >= cfg.FlickDistance:
		action = swipe.ReleaseOpen
	}

	if hooks := row.session.hooks; hooks.Release != nil {
		hooks.Release(action)
	}
	if row.OnRelease != nil {
		row.OnRelease(action)
	}
	return action
}

// FinishCompletion collapses the row, removes it, and reports done.
func (h *rowHost) FinishCompletion(drag *swipe.DragInstance, done func()) {
	row := h.row
	s := row.session

	var side swipe.Side
	if drag != nil && drag.Revealed != nil {
		side = drag.Revealed.Side
	}
	finish := func() {
		s.queuePatch(protocol.Patch{Op: protocol.PatchRemoveRow, Target: row.ID})
		if row.OnComplete != nil {
			row.OnComplete(side)
		}
		done()
		s.RemoveRow(row.ID)
	}
	height := row.cfg.Height
	if height <= 0 {
		finish()
		return
	}
	row.cleanup.Animate(anim.RevealDuration, anim.EaseOut, func(p float64) {
		s.queuePatch(protocol.Patch{
			Op:     protocol.PatchSetHeight,
			Target: row.ID,
			Value:  height * (1 - p),
		})
	}, finish)
}

func (h *rowHost) Transitioned(old, next swipe.State) {
	row := h.row
	if hooks := row.session.hooks; hooks.Transition != nil {
		hooks.Transition(old.Kind, next.Kind)
	}
	if row.OnTransition != nil {
		row.OnTransition(old, next)
	}
}

// remoteView is a view handle whose state lives on the client; every
// mutation becomes a patch.
type remoteView struct {
	session    *Session
	id         string
	width      float64
	height     float64
	detachable bool
}

func (v *remoteView) SetTransform(t geom.Transform) {
	v.session.queuePatch(protocol.Patch{
		Op:     protocol.PatchSetTransform,
		Target: v.id,
		Value:  t.TX,
	})
}

func (v *remoteView) SetInteractionEnabled(enabled bool) {
	v.session.queuePatch(protocol.Patch{
		Op:      protocol.PatchSetInteraction,
		Target:  v.id,
		Enabled: enabled,
	})
}

func (v *remoteView) Frame() (geom.Rect, bool) {
	if v.width <= 0 {
		return geom.Rect{}, false
	}
	return geom.Rect{W: v.width, H: v.height}, true
}

func (v *remoteView) Detach() {
	if !v.detachable {
		return
	}
	v.session.queuePatch(protocol.Patch{
		Op:     protocol.PatchDetachPanel,
		Target: v.id,
	})
}

// surfaceView is a remoteView that also accepts gesture recognizers.
type surfaceView struct {
	*remoteView
	*gesture.Router
}

// phaseForEvent maps protocol event types to gesture phases.
func phaseForEvent(et protocol.EventType) gesture.Phase {
	switch et {
	case protocol.EventPointerDown:
		return gesture.PhaseDown
	case protocol.EventPointerMove:
		return gesture.PhaseMove
	case protocol.EventPointerUp:
		return gesture.PhaseUp
	default:
		return gesture.PhaseCancel
	}
}

func pointerPosition(ev *protocol.Event) geom.Vector {
	return geom.Vector{X: ev.X, Y: ev.Y}
}
