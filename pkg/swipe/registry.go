package swipe

// ControllerFactory builds the controller for a host on first access.
type ControllerFactory func(key any, host Host) *Controller

// Registry maps host identity to its controller instance, replacing
// implicit object association with an explicit lifecycle: a controller is
// created on first access through For and destroyed with the host through
// Release.
//
// Keys must be comparable. The registry is bound to one event loop and
// holds no locks.
type Registry struct {
	factory     ControllerFactory
	controllers map[any]*Controller
}

// NewRegistry returns a registry creating controllers with factory.
func NewRegistry(factory ControllerFactory) *Registry {
	return &Registry{
		factory:     factory,
		controllers: make(map[any]*Controller),
	}
}

// For returns the controller for key, creating it on first access.
func (r *Registry) For(key any, host Host) *Controller {
	if c, ok := r.controllers[key]; ok {
		return c
	}
	c := r.factory(key, host)
	r.controllers[key] = c
	return c
}

// Lookup returns the controller for key without creating one.
func (r *Registry) Lookup(key any) (*Controller, bool) {
	c, ok := r.controllers[key]
	return c, ok
}

// Release disables the controller for key, drops its host reference, and
// forgets it. Releasing an unknown key is a no-op.
func (r *Registry) Release(key any) {
	c, ok := r.controllers[key]
	if !ok {
		return
	}
	c.SetEnabled(false)
	c.ReleaseHost()
	delete(r.controllers, key)
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	return len(r.controllers)
}
