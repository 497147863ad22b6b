package term

import (
	"errors"
	"sync"
)

// ErrRendererActive is returned by Register when a different unfinished
// renderer already owns the bottom line.
var ErrRendererActive = errors.New("another progress renderer is active")

// Pinned is a renderer stuck to the bottom of the output. Lift clears its
// painted lines, leaving the cursor at the former bar position; Repin
// repaints them from the last known state. Both are only ever called
// inside Coordinator.Sync.
type Pinned interface {
	Lift() error
	Repin() error
	Rows() int
	Finished() bool
}

// Coordinator tracks the single active pinned renderer and owns the render
// lock shared by the logger and the renderer. At most one renderer is
// active at any time; a second Register is rejected, not queued.
type Coordinator struct {
	mu     sync.Mutex
	active Pinned
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Register makes p the active renderer. It fails with ErrRendererActive
// when a different unfinished renderer is already registered.
func (c *Coordinator) Register(p Pinned) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active != p && !c.active.Finished() {
		return ErrRendererActive
	}
	c.active = p
	return nil
}

// Deregister clears the active renderer. A stale deregistration, where p
// is no longer the active renderer, is a no-op.
func (c *Coordinator) Deregister(p Pinned) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == p {
		c.active = nil
	}
}

// Finish runs fn under the render lock and then deregisters p, as one
// critical section. A renderer's final paint goes through here so no log
// emission can slip in between the last redraw and the deregistration
// and repin an already-finalized bar. Stale p is still deregister-safe.
// fn must not call back into the coordinator.
func (c *Coordinator) Finish(p Pinned, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := fn()
	if c.active == p {
		c.active = nil
	}
	return err
}

// Sync runs fn under the render lock, passing the currently active
// renderer (nil when none). Every write that could collide with a pinned
// line, including the renderer's own repaints, goes through here so two
// producers never interleave half-drawn lines. fn must not call back into
// the coordinator.
func (c *Coordinator) Sync(fn func(active Pinned) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.Finished() {
		c.active = nil
	}
	return fn(c.active)
}
