package main

import (
	"errors"
	"fmt"
)

// pairKey identifies an unordered pair of players, lower id first
type pairKey struct {
	a, b int
}

func makePair(x, y int) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// CollisionResolver detects overlapping players and exchanges their velocities.
// A pair is queued once per contact episode: it stays in contacts while it keeps
// overlapping and is only queued again after it separates.
type CollisionResolver struct {
	contacts map[pairKey]bool
	pending  []pairKey
	grid     *SpatialGrid // broad phase, built on first Detect
}

// NewCollisionResolver creates an empty resolver
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{contacts: make(map[pairKey]bool)}
}

// Detect tests every pair of alive players sharing a grid cell and queues new contacts.
// It returns the number of pairs queued.
func (r *CollisionResolver) Detect(players map[int]*Player, cfg Config) int {
	if r.grid == nil {
		r.grid = NewSpatialGrid(cfg.ArenaWidth, cfg.ArenaHeight, 2*cfg.PlayerSize)
	}
	r.grid.Clear()
	for id, p := range players {
		if p.Alive() {
			r.grid.InsertRect(p.Box(cfg), id)
		}
	}

	queued := 0
	current := make(map[pairKey]bool)
	for _, k := range r.grid.CandidatePairs() {
		if !players[k.a].Box(cfg).Overlaps(players[k.b].Box(cfg)) {
			continue
		}
		if r.contacts[k] {
			current[k] = true
			continue
		}
		if r.isPending(k.a) || r.isPending(k.b) {
			continue
		}
		r.pending = append(r.pending, k)
		current[k] = true
		queued++
	}
	r.contacts = current
	return queued
}

func (r *CollisionResolver) isPending(id int) bool {
	for _, k := range r.pending {
		if k.a == id || k.b == id {
			return true
		}
	}
	return false
}

// Pending returns the number of queued pairs
func (r *CollisionResolver) Pending() int {
	return len(r.pending)
}

// Resolve drains the queue. Both players of a pair are looked up by id, the
// exchange is computed from copies and written back by id. Pairs that no longer
// resolve are reported as ErrInvariant and skipped.
func (r *CollisionResolver) Resolve(players map[int]*Player) error {
	var errs []error
	for _, k := range r.pending {
		a, okA := players[k.a]
		b, okB := players[k.b]
		if !okA || !okB {
			errs = append(errs, fmt.Errorf("%w: collision pair (%d, %d) references a missing player", ErrInvariant, k.a, k.b))
			delete(r.contacts, k)
			continue
		}
		ax, bx := elastic(a.DeltaX, b.DeltaX, 1, 1)
		ay, by := elastic(a.DeltaY, b.DeltaY, 1, 1)

		players[k.a].DeltaX, players[k.a].DeltaY = ax, ay
		players[k.b].DeltaX, players[k.b].DeltaY = bx, by
	}
	r.pending = r.pending[:0]
	return errors.Join(errs...)
}

// Forget drops every contact involving id
func (r *CollisionResolver) Forget(id int) {
	for k := range r.contacts {
		if k.a == id || k.b == id {
			delete(r.contacts, k)
		}
	}
}

// Reset clears all contacts and queued pairs
func (r *CollisionResolver) Reset() {
	r.contacts = make(map[pairKey]bool)
	r.pending = r.pending[:0]
}

// elastic returns the post-collision velocities of a one-dimensional elastic
// collision between masses m1 and m2
func elastic(v1, v2, m1, m2 float64) (float64, float64) {
	total := m1 + m2
	return ((m1-m2)*v1 + 2*m2*v2) / total,
		((m2-m1)*v2 + 2*m1*v1) / total
}
