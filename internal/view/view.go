// Package view tracks the load state of a UI component and drops results
// that arrive after the component moved on.
package view

import (
	"context"
	"sync"
)

// Status is the load state of a Cell.
type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Success Status = "success"
	Error   Status = "error"
)

// Ticket identifies one load. Only the most recent ticket of a Cell may
// resolve it.
type Ticket struct {
	gen uint64
}

// State is a point-in-time copy of a Cell.
type State[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Cell holds the current value of a component. The zero value is idle and
// ready to use.
type Cell[T any] struct {
	mu      sync.Mutex
	gen     uint64
	status  Status
	settled Status // last applied result, restored by Cancel
	value   T
	err     error
}

// Begin starts a load and invalidates every earlier ticket.
func (c *Cell[T]) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.status = Loading
	return Ticket{gen: c.gen}
}

// Resolve applies the outcome of the load identified by t. It returns false
// and changes nothing when t is stale.
func (c *Cell[T]) Resolve(t Ticket, value T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.gen != c.gen {
		return false
	}
	if err != nil {
		var zero T
		c.status, c.value, c.err = Error, zero, err
	} else {
		c.status, c.value, c.err = Success, value, nil
	}
	c.settled = c.status
	return true
}

// Cancel invalidates the in-flight load, if any. The last applied state is
// kept.
func (c *Cell[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

func (c *Cell[T]) cancel() {
	c.gen++
	if c.status == Loading {
		c.status = c.settled
	}
}

// abandon cancels the load of t unless a newer one has started.
func (c *Cell[T]) abandon(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.gen == c.gen {
		c.cancel()
	}
}

// Snapshot returns the current state.
func (c *Cell[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := c.status
	if status == "" {
		status = Idle
	}
	return State[T]{Status: status, Value: c.value, Err: c.err}
}

// Load runs fn for cell. If ctx ends before fn returns, the load is cancelled
// and its result discarded.
func Load[T any](ctx context.Context, cell *Cell[T], fn func(context.Context) (T, error)) State[T] {
	t := cell.Begin()
	v, err := fn(ctx)
	if ctx.Err() != nil {
		cell.abandon(t)
		return cell.Snapshot()
	}
	cell.Resolve(t, v, err)
	return cell.Snapshot()
}
