// Package server hosts the SwipeKit interaction engine behind a WebSocket:
// each session runs one event-loop goroutine that owns all of its
// controllers' state, decodes pointer events from the client, and streams
// view patches back.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/swipekit-dev/swipekit/pkg/anim"
	"github.com/swipekit-dev/swipekit/pkg/gesture"
	"github.com/swipekit-dev/swipekit/pkg/protocol"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// Session is one WebSocket connection and the single-threaded "UI loop"
// that owns its rows and controllers. The read loop goroutine only decodes
// and enqueues; all interaction logic, animation steps, and patch emission
// happen on the Loop goroutine. Session implements anim.Scheduler.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  atomic.Bool

	config *SessionConfig
	logger *slog.Logger
	hooks  *Instrumentation
	gate   swipe.BeginPolicy

	events   chan *protocol.Event
	dispatch chan func()
	done     chan struct{}

	// Loop-owned state. Only touched on the Loop goroutine.
	rows     map[string]*Row
	registry *swipe.Registry
	patches  []protocol.Patch
	deferred []func()
	handler  EventHandler

	ctx        context.Context
	lastActive atomic.Int64

	sendSeq    atomic.Uint64
	eventCount atomic.Uint64
	bytesSent  atomic.Uint64
	bytesRecv  atomic.Uint64
}

// generateSessionID returns a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession creates a session over conn.
func newSession(ctx context.Context, conn *websocket.Conn, cfg *Config) *Session {
	id := generateSessionID()
	sc := cfg.Session
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		config:    sc,
		logger:    cfg.Logger.With("session_id", id),
		hooks:     &Instrumentation{},
		gate:      cfg.Gate,
		events:    make(chan *protocol.Event, sc.EventQueueSize),
		dispatch:  make(chan func(), sc.EventQueueSize),
		done:      make(chan struct{}),
		rows:      make(map[string]*Row),
		ctx:       ctx,
	}
	s.registry = swipe.NewRegistry(func(key any, host swipe.Host) *swipe.Controller {
		return swipe.NewController(host, swipe.Config{
			Animator: anim.NewAnimator(s),
			Gate:     s.gate,
			Logger:   s.logger,
		})
	})
	s.handler = s.routeEvent
	s.lastActive.Store(time.Now().UnixNano())
	if conn != nil {
		conn.SetReadLimit(sc.MaxMessageSize)
	}
	return s
}

// Context returns the session's base context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// use installs the composed instrumentation and wraps the event handler.
func (s *Session) use(in *Instrumentation) {
	s.hooks = in
	if in.Event != nil {
		s.handler = in.Event(s.routeEvent)
	}
}

// ReadLoop reads messages from the connection, decodes frames, and feeds
// the event loop. It blocks until the connection closes.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.wsError("read")
			}
			return
		}
		s.lastActive.Store(time.Now().UnixNano())
		s.bytesRecv.Add(uint64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.wsError("frame_decode")
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Payload)
		case protocol.FrameControl:
			s.handleControlFrame(frame.Payload)
		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleEventFrame decodes and enqueues a pointer event.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		s.wsError("event_decode")
		s.sendErrorMessage(protocol.ErrCodeInvalidEvent, "invalid event format")
		return
	}
	select {
	case s.events <- ev:
	default:
		s.sendErrorMessage(protocol.ErrCodeRateLimited, "event queue full")
	}
}

// handleControlFrame answers pings and honors client closes.
func (s *Session) handleControlFrame(payload []byte) {
	ct, _, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Error("control decode error", "error", err)
		return
	}
	switch ct {
	case protocol.ControlPing:
		s.writeFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPong, nil))
	case protocol.ControlClose:
		s.Close()
	}
}

// Loop runs the session event loop until the session closes. All
// controller state is owned by this goroutine.
func (s *Session) Loop() {
	heartbeat := time.NewTicker(s.config.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev := <-s.events:
			s.safeHandle(ev)
		case fn := <-s.dispatch:
			s.safeRun(fn)
		case <-heartbeat.C:
			s.heartbeat()
		case <-s.done:
			return
		}
		s.runDeferred()
		s.flushPatches()
	}
}

// safeHandle dispatches one event with panic recovery.
func (s *Session) safeHandle(ev *protocol.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic",
				"panic", r,
				"event", ev.Type.String(),
				"target", ev.Target,
				"stack", string(debug.Stack()))
			s.wsError("handler_panic")
		}
	}()
	s.eventCount.Add(1)
	s.handler(s, ev)
}

// safeRun runs a dispatched function with panic recovery.
func (s *Session) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// routeEvent is the innermost event handler: it routes the pointer event
// to the target row's gesture surface.
func (s *Session) routeEvent(_ *Session, ev *protocol.Event) {
	row, ok := s.rows[ev.Target]
	if !ok {
		s.logger.Debug("event for unknown row", "target", ev.Target)
		return
	}
	row.handlePointer(gesture.PointerEvent{
		Phase:    phaseForEvent(ev.Type),
		Position: pointerPosition(ev),
	})
}

// runDeferred drains the loop-local deferred queue. Functions deferred
// while draining run in a later round of the same drain, after the
// scheduling call stack has fully unwound.
func (s *Session) runDeferred() {
	for len(s.deferred) > 0 {
		batch := s.deferred
		s.deferred = nil
		for _, fn := range batch {
			s.safeRun(fn)
		}
	}
}

// queuePatch buffers a patch for the next flush. Loop goroutine only.
func (s *Session) queuePatch(p protocol.Patch) {
	s.patches = append(s.patches, p)
}

// flushPatches sends buffered patches as one frame.
func (s *Session) flushPatches() {
	if len(s.patches) == 0 {
		return
	}
	payload := protocol.EncodePatches(s.patches)
	n := len(s.patches)
	s.patches = s.patches[:0]
	if s.writeFrame(protocol.FramePatches, payload) == nil {
		s.sendSeq.Add(1)
		if s.hooks.PatchesSent != nil {
			s.hooks.PatchesSent(n)
		}
	}
}

// Defer implements anim.Scheduler. Must be called on the Loop goroutine;
// fn runs after the current work item's call stack has unwound.
func (s *Session) Defer(fn func()) {
	s.deferred = append(s.deferred, fn)
}

// After implements anim.Scheduler: fn runs on the Loop goroutine after d.
func (s *Session) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		s.Dispatch(fn)
	})
	return func() { t.Stop() }
}

// Dispatch runs fn on the Loop goroutine. Safe to call from any goroutine.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatch <- fn:
	case <-s.done:
	}
}

// heartbeat pings the client and enforces the idle timeout.
func (s *Session) heartbeat() {
	idle := time.Since(time.Unix(0, s.lastActive.Load()))
	if idle > s.config.IdleTimeout {
		s.logger.Info("closing idle session", "idle", idle)
		s.closeWithReason(protocol.CloseIdleTimeout)
		return
	}
	s.writeFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPing, nil))
}

// writeFrame writes one frame to the connection.
func (s *Session) writeFrame(ft protocol.FrameType, payload []byte) error {
	if s.closed.Load() || s.conn == nil {
		return websocket.ErrCloseSent
	}
	msg := protocol.EncodeFrame(ft, payload)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		s.logger.Error("write error", "error", err)
		s.wsError("write")
		return err
	}
	s.bytesSent.Add(uint64(len(msg)))
	return nil
}

// sendErrorMessage reports a non-fatal protocol error to the client.
func (s *Session) sendErrorMessage(code protocol.ErrorCode, msg string) {
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{Code: code, Message: msg})
	s.writeFrame(protocol.FrameError, payload)
}

func (s *Session) wsError(kind string) {
	if s.hooks.WSError != nil {
		s.hooks.WSError(kind)
	}
}

// closeWithReason notifies the client, then closes.
func (s *Session) closeWithReason(reason protocol.CloseReason) {
	s.writeFrame(protocol.FrameControl,
		protocol.EncodeControl(protocol.ControlClose, []byte{byte(reason)}))
	s.Close()
}

// Close shuts the session down. Idempotent.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
	if s.hooks.SessionClosed != nil {
		s.hooks.SessionClosed()
	}
	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"bytes_sent", s.bytesSent.Load(),
		"bytes_received", s.bytesRecv.Load())
}

// IsClosed reports whether the session has shut down.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stats is a point-in-time snapshot of session counters.
type Stats struct {
	ID            string
	CreatedAt     time.Time
	Rows          int
	Events        uint64
	PatchFrames   uint64
	BytesSent     uint64
	BytesReceived uint64
}

// Stats returns a snapshot of the session's counters. Rows is only
// meaningful when read on the Loop goroutine.
func (s *Session) Stats() Stats {
	return Stats{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		Rows:          len(s.rows),
		Events:        s.eventCount.Load(),
		PatchFrames:   s.sendSeq.Load(),
		BytesSent:     s.bytesSent.Load(),
		BytesReceived: s.bytesRecv.Load(),
	}
}
