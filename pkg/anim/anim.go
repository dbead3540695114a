// Package anim provides the animation primitives used by the interaction
// engine: easing curves, a frame-stepped animator, and the Scheduler
// interface that binds animations to the session's single event loop.
//
// All animation callbacks run on the scheduler's loop. The animator holds
// no locks; it must only be used from that loop.
package anim

import "time"

// RevealDuration is the duration of reveal, settle, and completion
// animations.
const RevealDuration = 300 * time.Millisecond

// FrameInterval is the step interval for frame-driven animations.
const FrameInterval = 16 * time.Millisecond

// Scheduler schedules work on the event loop that owns the animated state.
type Scheduler interface {
	// Defer runs fn on the next loop tick, never synchronously.
	Defer(fn func())

	// After runs fn after d has elapsed. The returned function cancels
	// the pending call; cancelling after fn has run is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// EaseOut is a cubic ease-out curve: fast start, decelerating finish.
func EaseOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Animator runs at most one progress animation at a time. Starting a new
// animation supersedes the in-flight one: its remaining steps and its done
// callback are dropped, matching platform animation layers where a new
// transform animation implicitly cancels the previous.
type Animator struct {
	sched Scheduler

	// gen identifies the current animation; stale steps compare against
	// it and bail out.
	gen    uint64
	cancel func()
}

// NewAnimator returns an animator bound to the given scheduler.
func NewAnimator(sched Scheduler) *Animator {
	return &Animator{sched: sched}
}

// Defer schedules fn on the next loop tick.
func (a *Animator) Defer(fn func()) {
	a.sched.Defer(fn)
}

// Animate runs apply with eased progress values over duration d, stepping
// at FrameInterval, then calls done. apply is always called with a final
// progress of 1. If d is not positive, apply(1) and done run synchronously.
//
// done may be nil.
func (a *Animator) Animate(d time.Duration, curve Curve, apply func(progress float64), done func()) {
	a.Stop()
	a.gen++

	if d <= 0 {
		apply(curve(1))
		if done != nil {
			done()
		}
		return
	}

	gen := a.gen
	elapsed := time.Duration(0)

	var step func()
	step = func() {
		if gen != a.gen {
			return
		}
		elapsed += FrameInterval
		if elapsed >= d {
			a.cancel = nil
			apply(curve(1))
			if done != nil {
				done()
			}
			return
		}
		apply(curve(float64(elapsed) / float64(d)))
		a.cancel = a.sched.After(FrameInterval, step)
	}

	apply(curve(0))
	a.cancel = a.sched.After(FrameInterval, step)
}

// Stop abandons the in-flight animation, if any, without running its done
// callback.
func (a *Animator) Stop() {
	a.gen++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Animating returns true while an animation is in flight.
func (a *Animator) Animating() bool {
	return a.cancel != nil
}
