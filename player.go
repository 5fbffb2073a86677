package main

import (
	"math"
	"math/rand"
)

// PlayerStatus is the in-match life state of a player
type PlayerStatus int

const (
	PlayerAlive PlayerStatus = iota
	PlayerDead
	PlayerRespawning
)

func (s PlayerStatus) String() string {
	switch s {
	case PlayerAlive:
		return "alive"
	case PlayerDead:
		return "dead"
	case PlayerRespawning:
		return "respawning"
	}
	return "unknown"
}

// Player is a participant in the running match. Position is the top-left
// corner of its bounding box.
type Player struct {
	ID          int
	Position    Point
	DeltaX      float64
	DeltaY      float64
	CannonAngle float64 // degrees, [0, 360)
	DeltaA      float64
	Rotation    float64 // body heading in degrees, follows velocity
	Loading     bool
	Power       int
	Cooldown    int
	Status      PlayerStatus
	Kills       int
	Deaths      int

	input     InputSet
	prevInput InputSet
	pending   *CannonShot
}

// NewPlayer creates an alive player at pos
func NewPlayer(id int, pos Point) *Player {
	return &Player{
		ID:       id,
		Position: pos,
		Status:   PlayerAlive,
	}
}

// SetInput replaces the held actions. Edges are evaluated on the next tick.
func (p *Player) SetInput(in InputSet) {
	p.input = in
}

// Box returns the player's bounding box
func (p *Player) Box(cfg Config) Rect {
	return Rect{Min: p.Position, Size: cfg.PlayerSize}
}

// Alive reports whether the player can be hit or collide
func (p *Player) Alive() bool {
	return p.Status == PlayerAlive
}

// ShouldTick reports whether a tick could change this player. Idle players are skipped.
func (p *Player) ShouldTick() bool {
	return p.Cooldown > 0 ||
		p.Status != PlayerAlive ||
		p.pending != nil ||
		!p.input.Empty() ||
		p.input != p.prevInput ||
		p.DeltaX != 0 || p.DeltaY != 0 || p.DeltaA != 0 ||
		p.Loading
}

// Tick advances the player by one step
func (p *Player) Tick(cfg Config, rng *rand.Rand) {
	defer func() { p.prevInput = p.input }()

	if p.Cooldown > 0 || p.Status != PlayerAlive {
		if p.Cooldown > 0 {
			p.Cooldown--
		}
		if p.Cooldown == 0 {
			p.finishCooldown(cfg, rng)
		}
		return
	}

	p.DeltaX = steer(p.DeltaX, p.input.axis(ActionLeft, ActionRight), cfg.MaxSpeed)
	p.DeltaY = steer(p.DeltaY, p.input.axis(ActionUp, ActionDown), cfg.MaxSpeed)
	p.DeltaA = steer(p.DeltaA, p.input.axis(ActionCannonNegative, ActionCannonPositive), cfg.MaxAngularSpeed)

	p.handleCannon(cfg)
	p.bounce(cfg)

	p.CannonAngle = normalizeDegrees(p.CannonAngle + p.DeltaA)
	if p.Loading && p.Power < 100 {
		p.Power++
	}
	p.Position.Translate(p.DeltaX, p.DeltaY)
	p.Position.X = Clamp(p.Position.X, 0, cfg.ArenaWidth-cfg.PlayerSize)
	p.Position.Y = Clamp(p.Position.Y, 0, cfg.ArenaHeight-cfg.PlayerSize)
	if p.DeltaX != 0 || p.DeltaY != 0 {
		p.Rotation = normalizeDegrees(math.Atan2(p.DeltaY, p.DeltaX) * 180 / math.Pi)
	}
}

// finishCooldown runs the dead -> respawning -> alive transitions
func (p *Player) finishCooldown(cfg Config, rng *rand.Rand) {
	switch p.Status {
	case PlayerDead:
		p.Status = PlayerRespawning
		p.Position = randomPoint(rng, cfg.ArenaWidth-cfg.PlayerSize, cfg.ArenaHeight-cfg.PlayerSize)
		p.Cooldown = cfg.RespawnGraceTicks
		if p.Cooldown == 0 {
			p.Status = PlayerAlive
		}
	case PlayerRespawning:
		p.Status = PlayerAlive
	}
}

// steer accelerates v by one unit toward dir up to max, or brakes toward zero
func steer(v float64, dir int, max float64) float64 {
	d := float64(dir)
	switch {
	case dir != 0 && v*d < max:
		v += d
		if v*d > max {
			v = d * max
		}
	case dir != 0:
		// held at the cap
	case v > 0:
		v -= math.Min(1, v)
	case v < 0:
		v += math.Min(1, -v)
	}
	return v
}

// handleCannon applies the load and fire edges
func (p *Player) handleCannon(cfg Config) {
	if p.input.Pressed(p.prevInput, ActionLoad) && !p.Loading {
		p.Loading = true
		p.Power = 0
	}
	if p.input.Pressed(p.prevInput, ActionFire) && p.Loading && p.pending == nil {
		p.pending = NewCannonShot(0, p.ID, p.CannonPosition(cfg), p.CannonAngle, p.Power, cfg)
		p.Loading = false
		p.Power = 0
	}
}

// bounce flips any velocity component that would carry the box out of the arena
func (p *Player) bounce(cfg Config) {
	next := p.Position.Add(p.DeltaX, p.DeltaY)
	if next.X < 0 || next.X > cfg.ArenaWidth-cfg.PlayerSize {
		p.DeltaX = -p.DeltaX
	}
	if next.Y < 0 || next.Y > cfg.ArenaHeight-cfg.PlayerSize {
		p.DeltaY = -p.DeltaY
	}
}

// CannonPosition is the muzzle: box center plus the cannon length along the cannon angle
func (p *Player) CannonPosition(cfg Config) Point {
	rad := degToRad(p.CannonAngle)
	c := p.Box(cfg).Center()
	return c.Add(cfg.CannonLength*math.Cos(rad), cfg.CannonLength*math.Sin(rad))
}

// TakeShot hands over the pending shot, if any
func (p *Player) TakeShot() *CannonShot {
	s := p.pending
	p.pending = nil
	return s
}

// Die kills an alive player and arms the death cooldown. Returns false if the
// player was not alive.
func (p *Player) Die(cfg Config) bool {
	if p.Status != PlayerAlive {
		return false
	}
	p.Status = PlayerDead
	p.Cooldown = cfg.DeathCooldownTicks
	p.DeltaX, p.DeltaY, p.DeltaA = 0, 0, 0
	p.Loading = false
	p.Power = 0
	p.pending = nil
	p.Deaths++
	return true
}

// ToState converts to protocol state
func (p *Player) ToState(cfg Config) PlayerState {
	cannon := p.CannonPosition(cfg)
	return PlayerState{
		ID:             p.ID,
		Position:       Point{X: round1(p.Position.X), Y: round1(p.Position.Y)},
		CannonPosition: Point{X: round1(cannon.X), Y: round1(cannon.Y)},
		Status:         p.Status.String(),
		Rotation:       round1(p.Rotation),
		Power:          p.Power,
		Loading:        p.Loading,
		Kills:          p.Kills,
		Deaths:         p.Deaths,
	}
}
