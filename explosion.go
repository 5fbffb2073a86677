package main

// Explosion is the area blast left behind by a spent CannonShot
type Explosion struct {
	ID         int
	OwnerID    int
	Position   Point
	Size       int
	ReachedMax bool
}

// NewExplosion starts a blast at size 1
func NewExplosion(id, ownerID int, pos Point) *Explosion {
	return &Explosion{
		ID:       id,
		OwnerID:  ownerID,
		Position: pos,
		Size:     1,
	}
}

// Update grows the blast to the cap, then shrinks it. Returns false once spent.
func (e *Explosion) Update(cfg Config) bool {
	if !e.ReachedMax {
		e.Size += cfg.ExplosionGrowRate
		if e.Size >= cfg.ExplosionCap {
			e.Size = cfg.ExplosionCap
			e.ReachedMax = true
		}
		return true
	}
	e.Size -= cfg.ExplosionShrinkRate
	if e.Size <= 0 {
		e.Size = 0
		return false
	}
	return true
}

// Alive reports whether the blast still has a radius
func (e *Explosion) Alive() bool {
	return e.Size > 0
}

// Radius is the current blast radius in arena pixels
func (e *Explosion) Radius(cfg Config) float64 {
	return cfg.ExplosionRadius * float64(e.Size) / float64(cfg.ExplosionCap)
}

// Hits reports whether the blast reaches the given box
func (e *Explosion) Hits(box Rect, cfg Config) bool {
	return box.IntersectsCircle(e.Position, e.Radius(cfg))
}

// ExplosionLifetime returns how many updates a blast survives before it is removed,
// counting the update that removes it.
func ExplosionLifetime(cfg Config) int {
	ticks := 0
	e := NewExplosion(0, 0, Point{})
	for {
		ticks++
		if !e.Update(cfg) {
			return ticks
		}
	}
}

// ToState converts to protocol state
func (e *Explosion) ToState() CannonEventState {
	return CannonEventState{
		ID:       e.ID,
		Position: Point{X: round1(e.Position.X), Y: round1(e.Position.Y)},
		Size:     e.Size,
		FromID:   e.OwnerID,
	}
}
