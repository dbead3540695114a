// Package swipekit provides the public API for the SwipeKit drag-to-reveal
// interaction engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/swipekit-dev/swipekit"
//
// The interaction core lives in pkg/swipe and is transport-agnostic: feed
// it pan gestures, give it a Host, and it drives reveal transforms through
// your views. pkg/server hosts the same engine behind a WebSocket for
// browser clients.
//
// Usage:
//
//	reg := swipekit.NewRegistry(func(key any, host swipekit.Host) *swipekit.Controller {
//	    return swipekit.NewController(host, swipekit.Config{Animator: animator})
//	})
//	ctrl := reg.For(rowID, host)
//	ctrl.SetEnabled(true)
package swipekit

import (
	"github.com/swipekit-dev/swipekit/pkg/anim"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// Core interaction types, re-exported from pkg/swipe.
type (
	Controller        = swipe.Controller
	Config            = swipe.Config
	Host              = swipe.Host
	View              = swipe.View
	BeginPolicy       = swipe.BeginPolicy
	Side              = swipe.Side
	State             = swipe.State
	StateKind         = swipe.StateKind
	ReleaseAction     = swipe.ReleaseAction
	DragInstance      = swipe.DragInstance
	Registry          = swipe.Registry
	ControllerFactory = swipe.ControllerFactory
)

// Sides.
const (
	Left  = swipe.Left
	Right = swipe.Right
)

// State kinds.
const (
	StateStart      = swipe.StateStart
	StateHolding    = swipe.StateHolding
	StateDragging   = swipe.StateDragging
	StateOpen       = swipe.StateOpen
	StateSettling   = swipe.StateSettling
	StateCompleting = swipe.StateCompleting
)

// Release actions.
const (
	ReleaseClose    = swipe.ReleaseClose
	ReleaseOpen     = swipe.ReleaseOpen
	ReleaseComplete = swipe.ReleaseComplete
)

// SideForTranslation returns the side a horizontal translation reveals.
func SideForTranslation(x float64) Side {
	return swipe.SideForTranslation(x)
}

// NewController returns a controller for host. See swipe.NewController.
func NewController(host Host, cfg Config) *Controller {
	return swipe.NewController(host, cfg)
}

// NewRegistry returns a host-to-controller registry. See swipe.NewRegistry.
func NewRegistry(factory ControllerFactory) *Registry {
	return swipe.NewRegistry(factory)
}

// NewAnimator returns an animator bound to sched. See anim.NewAnimator.
func NewAnimator(sched anim.Scheduler) *anim.Animator {
	return anim.NewAnimator(sched)
}
