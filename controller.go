package main

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"
)

// GameController owns the whole world: clients, players, shots, explosions and
// the match state machine. It is not safe for concurrent use; the Simulation
// goroutine is its only caller.
type GameController struct {
	cfg   Config
	rng   *rand.Rand
	hooks MatchHooks
	now   func() time.Time

	status    MatchStatus
	countdown int
	tick      uint64
	nextID    int
	startedAt time.Time

	clients    map[int]*Client
	players    map[int]*Player
	shots      map[int]*CannonShot
	explosions map[int]*Explosion
	collisions *CollisionResolver
	blastGrid  *SpatialGrid

	lobbyDirty bool
	faults     int
}

// NewGameController creates a stopped controller with an empty lobby
func NewGameController(cfg Config, hooks MatchHooks) *GameController {
	return &GameController{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		hooks:      hooks,
		now:        time.Now,
		status:     MatchStopped,
		clients:    make(map[int]*Client),
		players:    make(map[int]*Player),
		shots:      make(map[int]*CannonShot),
		explosions: make(map[int]*Explosion),
		collisions: NewCollisionResolver(),
		blastGrid:  NewSpatialGrid(cfg.ArenaWidth, cfg.ArenaHeight, 2*cfg.PlayerSize),
	}
}

// Status returns the match status
func (g *GameController) Status() MatchStatus {
	return g.status
}

// Countdown returns the countdown ticks remaining
func (g *GameController) Countdown() int {
	return g.countdown
}

// Client returns the client with id, if connected
func (g *GameController) Client(id int) (*Client, bool) {
	c, ok := g.clients[id]
	return c, ok
}

// Player returns the player with id, if in the match
func (g *GameController) Player(id int) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// ClientCount returns the number of connected clients
func (g *GameController) ClientCount() int {
	return len(g.clients)
}

// PlayerCount returns the number of players in the match
func (g *GameController) PlayerCount() int {
	return len(g.players)
}

// ShotCount returns the number of shots in flight
func (g *GameController) ShotCount() int {
	return len(g.shots)
}

// ExplosionCount returns the number of active explosions
func (g *GameController) ExplosionCount() int {
	return len(g.explosions)
}

// Faults returns how many internal invariant violations were logged
func (g *GameController) Faults() int {
	return g.faults
}

// AddClient registers a new lobby client. Re-adding a connected id is a no-op.
func (g *GameController) AddClient(id int) {
	if _, ok := g.clients[id]; ok {
		return
	}
	g.clients[id] = NewClient(id)
	g.lobbyDirty = true
}

// DropClient removes a client and its player. A running match that falls below
// two players stops immediately.
func (g *GameController) DropClient(id int) error {
	if _, ok := g.clients[id]; !ok {
		return fmt.Errorf("drop %d: %w", id, ErrUnknownClient)
	}
	delete(g.clients, id)
	delete(g.players, id)
	g.collisions.Forget(id)
	g.lobbyDirty = true

	if g.status.Running() && g.inGameCount() < 2 {
		g.Stop(StopNotEnoughPlayers)
	}
	return nil
}

// HandleInput applies one decoded input. Lobby input toggles readiness, in-game
// input replaces the player's held actions.
func (g *GameController) HandleInput(id int, mask uint32, ctx InputContext) error {
	c, ok := g.clients[id]
	if !ok {
		return fmt.Errorf("input from %d: %w", id, ErrUnknownClient)
	}
	in, err := ParseInput(mask)
	if err != nil {
		return fmt.Errorf("input from %d: %w", id, err)
	}

	switch ctx {
	case ContextLobby:
		if c.Status != StatusLobby {
			return fmt.Errorf("lobby input from %d: %w", id, ErrWrongContext)
		}
		c.ToggleReady()
		g.lobbyDirty = true
	case ContextInGame:
		p, ok := g.players[id]
		if !ok {
			return fmt.Errorf("game input from %d: %w", id, ErrWrongContext)
		}
		p.SetInput(in)
	default:
		return fmt.Errorf("input from %d: %w: unknown context %d", id, ErrMalformedInput, int(ctx))
	}
	return nil
}

// SetReady marks a lobby client ready
func (g *GameController) SetReady(id int) error {
	c, ok := g.clients[id]
	if !ok {
		return fmt.Errorf("ready %d: %w", id, ErrUnknownClient)
	}
	c.SetReady()
	g.lobbyDirty = true
	return nil
}

// ClientsReady reports whether at least two clients are connected and all are ready
func (g *GameController) ClientsReady() bool {
	if len(g.clients) < 2 {
		return false
	}
	for _, c := range g.clients {
		if !c.Ready() {
			return false
		}
	}
	return true
}

// StartCountdown moves every ready client into the match with a fresh player
func (g *GameController) StartCountdown() {
	g.clearWorld()

	ids := make([]int, 0, len(g.clients))
	for _, id := range sortedKeys(g.clients) {
		c := g.clients[id]
		if !c.GoToWar() {
			continue
		}
		pos := randomPoint(g.rng, g.cfg.ArenaWidth-g.cfg.PlayerSize, g.cfg.ArenaHeight-g.cfg.PlayerSize)
		g.players[id] = NewPlayer(id, pos)
		ids = append(ids, id)
	}

	g.status = MatchCountdown
	g.countdown = g.cfg.CountdownTicks
	g.tick = 0
	g.startedAt = g.now()
	g.lobbyDirty = true

	log.Printf("countdown started: %d players, %d ticks", len(ids), g.countdown)
	if g.hooks.OnMatchStart != nil {
		g.hooks.OnMatchStart(ids)
	}
}

// Stop ends any running match, clears all players and sends every client back
// to the lobby as waiting
func (g *GameController) Stop(reason string) {
	if g.status == MatchStopped {
		return
	}
	summary := MatchSummary{
		StartedAt: g.startedAt,
		EndedAt:   g.now(),
		Ticks:     g.tick,
		Reason:    reason,
	}
	for _, id := range sortedKeys(g.players) {
		p := g.players[id]
		summary.Players = append(summary.Players, PlayerMatchStats{PlayerID: id, Kills: p.Kills, Deaths: p.Deaths})
	}

	g.clearWorld()
	for _, c := range g.clients {
		c.ResetToLobby()
	}
	g.status = MatchStopped
	g.countdown = 0
	g.lobbyDirty = true

	log.Printf("match stopped (%s) after %d ticks", reason, summary.Ticks)
	if g.hooks.OnMatchEnd != nil {
		g.hooks.OnMatchEnd(summary)
	}
}

func (g *GameController) clearWorld() {
	g.players = make(map[int]*Player)
	g.shots = make(map[int]*CannonShot)
	g.explosions = make(map[int]*Explosion)
	g.collisions.Reset()
}

// Tick advances the world by one step
func (g *GameController) Tick() {
	switch g.status {
	case MatchStopped:
		if g.ClientsReady() {
			g.StartCountdown()
		}
	case MatchCountdown:
		if g.inGameCount() < 2 {
			g.Stop(StopNotEnoughPlayers)
			return
		}
		g.countdown--
		g.lobbyDirty = true
		if g.countdown <= 0 {
			g.countdown = 0
			g.status = MatchPlaying
			log.Printf("match started")
		}
	case MatchPlaying:
		if g.inGameCount() < 2 {
			g.Stop(StopNotEnoughPlayers)
			return
		}
		g.tickMatch()
	}
}

// tickMatch runs shots, explosions, players and collisions in that order
func (g *GameController) tickMatch() {
	g.tick++

	var spawned []*Explosion
	for _, id := range sortedKeys(g.shots) {
		s := g.shots[id]
		if s.Finished() {
			spawned = append(spawned, NewExplosion(g.allocID(), s.OwnerID, s.Position))
			delete(g.shots, id)
			continue
		}
		s.Advance()
	}

	if len(g.explosions) > 0 {
		g.blastGrid.Clear()
		for id, p := range g.players {
			if p.Alive() {
				g.blastGrid.InsertRect(p.Box(g.cfg), id)
			}
		}
	}
	for _, id := range sortedKeys(g.explosions) {
		e := g.explosions[id]
		if !e.Update(g.cfg) {
			delete(g.explosions, id)
			continue
		}
		g.applyBlast(e)
	}
	// new blasts show at size 1 and start updating next tick
	for _, e := range spawned {
		g.explosions[e.ID] = e
	}

	for _, id := range sortedKeys(g.players) {
		p := g.players[id]
		if !p.ShouldTick() {
			continue
		}
		p.Tick(g.cfg, g.rng)
		if s := p.TakeShot(); s != nil {
			s.ID = g.allocID()
			g.shots[s.ID] = s
		}
	}

	g.collisions.Detect(g.players, g.cfg)
	if err := g.collisions.Resolve(g.players); err != nil {
		g.fault(err)
	}
}

// applyBlast kills every alive player the explosion reaches.
// Candidates come from blastGrid, indexed at the start of the explosion pass.
func (g *GameController) applyBlast(e *Explosion) {
	r := e.Radius(g.cfg)
	reach := Rect{Min: e.Position.Add(-r, -r), Size: 2 * r}
	for _, id := range g.blastGrid.Query(reach) {
		victim, ok := g.players[id]
		if !ok || !victim.Alive() || !e.Hits(victim.Box(g.cfg), g.cfg) {
			continue
		}
		if !victim.Die(g.cfg) {
			continue
		}
		self := e.OwnerID == id
		if killer, ok := g.players[e.OwnerID]; ok && !self {
			killer.Kills++
		}
		log.Printf("player %d killed by %d", id, e.OwnerID)
		if g.hooks.OnKill != nil {
			g.hooks.OnKill(KillEvent{KillerID: e.OwnerID, VictimID: id, Self: self, Tick: g.tick})
		}
	}
}

// fault reports an internal invariant violation
func (g *GameController) fault(err error) {
	if g.cfg.Strict {
		panic(err)
	}
	g.faults++
	log.Printf("simulation fault: %v", err)
}

func (g *GameController) allocID() int {
	g.nextID++
	return g.nextID
}

func (g *GameController) inGameCount() int {
	n := 0
	for _, c := range g.clients {
		if c.InGame() {
			n++
		}
	}
	return n
}

// TakeLobbyDirty reports whether the lobby changed since the last call
func (g *GameController) TakeLobbyDirty() bool {
	d := g.lobbyDirty
	g.lobbyDirty = false
	return d
}

// LobbySnapshot returns the roster and match phase
func (g *GameController) LobbySnapshot() LobbySnapshot {
	snap := LobbySnapshot{
		Status:    g.status.String(),
		Countdown: g.countdown,
		Clients:   make([]ClientState, 0, len(g.clients)),
	}
	for _, id := range sortedKeys(g.clients) {
		snap.Clients = append(snap.Clients, g.clients[id].ToState())
	}
	return snap
}

// MatchSnapshot returns the state of the running match
func (g *GameController) MatchSnapshot() MatchSnapshot {
	snap := MatchSnapshot{
		Tick:       g.tick,
		Status:     g.status.String(),
		Countdown:  g.countdown,
		Players:    make([]PlayerState, 0, len(g.players)),
		Shots:      make([]CannonEventState, 0, len(g.shots)),
		Explosions: make([]CannonEventState, 0, len(g.explosions)),
	}
	for _, id := range sortedKeys(g.players) {
		snap.Players = append(snap.Players, g.players[id].ToState(g.cfg))
	}
	for _, id := range sortedKeys(g.shots) {
		snap.Shots = append(snap.Shots, g.shots[id].ToState(g.cfg.MinShotSize))
	}
	for _, id := range sortedKeys(g.explosions) {
		snap.Explosions = append(snap.Explosions, g.explosions[id].ToState())
	}
	return snap
}

// sortedKeys returns map keys in ascending order so ticks are deterministic
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
