package ranged

import (
	"fmt"
)

// Container is the capacity-bounded store of projectiles loaded into one weapon
// instance.
//
// Retrieval order is unspecified: Pop returns some stored projectile, and callers
// must not rely on it being the first or the last one loaded.
//
// Invariant: Count() <= Capacity().
type Container struct {
	capacity   int
	launchable KindSet
	stored     []Projectile
}

// NewContainer returns an empty container holding at most capacity projectiles of
// the launchable kinds.
//
// Panics if capacity is negative.
func NewContainer(capacity int, launchable KindSet) *Container {
	if capacity < 0 {
		panic(fmt.Sprintf("ranged: container capacity must be >= 0, got %d", capacity))
	}
	return &Container{
		capacity:   capacity,
		launchable: launchable,
		stored:     make([]Projectile, 0, capacity),
	}
}

// Capacity returns the maximum number of projectiles the container holds.
func (c *Container) Capacity() int {
	return c.capacity
}

// Count returns the number of stored projectiles.
func (c *Container) Count() int {
	return len(c.stored)
}

// Free returns the number of projectiles that still fit.
func (c *Container) Free() int {
	return c.capacity - len(c.stored)
}

// Empty reports whether no projectile is stored.
func (c *Container) Empty() bool {
	return len(c.stored) == 0
}

// Full reports whether the container is at capacity.
func (c *Container) Full() bool {
	return len(c.stored) >= c.capacity
}

// LoadableAmount returns how many projectiles can be loaded for a.
// For an exempt actor it is the free space of the container; otherwise it is the
// smaller of the capacity and the amount of matching ammunition a carries.
// The result is never negative.
func (c *Container) LoadableAmount(a Actor) int {
	if a.Exempt() {
		return max(c.Free(), 0)
	}
	return max(min(c.capacity, a.Ammunition(c.launchable)), 0)
}

// Load stores min(len(projectiles), LoadableAmount(a)) projectiles and silently
// discards the rest. It never stores more than the free space of the container.
// It returns the number of projectiles stored.
func (c *Container) Load(projectiles []Projectile, a Actor) int {
	n := min(len(projectiles), c.LoadableAmount(a))
	return c.insert(projectiles[:max(n, 0)])
}

// insert appends as many projectiles as fit and returns how many were stored.
func (c *Container) insert(projectiles []Projectile) int {
	n := min(len(projectiles), c.Free())
	if n <= 0 {
		return 0
	}
	c.stored = append(c.stored, projectiles[:n]...)
	return n
}

// Pop removes and returns one stored projectile.
// Returns false if the container is empty.
func (c *Container) Pop() (Projectile, bool) {
	n := len(c.stored)
	if n == 0 {
		return Projectile{}, false
	}
	p := c.stored[n-1]
	c.stored[n-1] = Projectile{}
	c.stored = c.stored[:n-1]
	return p, true
}

// Launchable returns the kinds of ammunition the container accepts.
func (c *Container) Launchable() KindSet {
	return c.launchable
}

// Projectiles returns a copy of the stored projectiles.
func (c *Container) Projectiles() []Projectile {
	out := make([]Projectile, len(c.stored))
	copy(out, c.stored)
	return out
}

// Clear removes all stored projectiles.
func (c *Container) Clear() {
	clear(c.stored)
	c.stored = c.stored[:0]
}
