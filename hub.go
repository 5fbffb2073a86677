package main

import (
	"context"
	"sync"
)

// hubEvent is a connect or disconnect of one connection. Both travel on one
// channel so a connection's Disconnect can never overtake its Connect.
type hubEvent struct {
	conn      *Conn
	connected bool
}

// Hub tracks live websocket connections, allocates client ids and forwards
// connects and disconnects to the Simulation
type Hub struct {
	ctx context.Context
	sim *Simulation
	cfg ServerConfig

	mu     sync.RWMutex
	conns  map[*Conn]bool
	events chan hubEvent

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	nextID     int
}

// NewHub creates a Hub. ctx bounds every command it submits.
func NewHub(ctx context.Context, sim *Simulation, cfg ServerConfig) *Hub {
	return &Hub{
		ctx:     ctx,
		sim:     sim,
		cfg:     cfg,
		conns:   make(map[*Conn]bool),
		events:  make(chan hubEvent, 256),
		ipConns: make(map[string]int),
	}
}

// TryAccept checks the limits for a new connection from ip and, if it fits,
// counts it and allocates its client id in the same critical section
func (h *Hub) TryAccept(ip string) (id int, ok bool, reason string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.cfg.MaxConns {
		return 0, false, "capacity"
	}
	if h.ipConns[ip] >= h.cfg.MaxConnsPerIP {
		return 0, false, "ip_limit"
	}
	h.ipConns[ip]++
	h.totalConns++
	h.nextID++
	return h.nextID, true, ""
}

// TrackDisconnect releases a connection slot
func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// register queues a new connection. It returns false if the hub is shutting down.
func (h *Hub) register(c *Conn) bool {
	select {
	case h.events <- hubEvent{conn: c, connected: true}:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// unregister queues the end of a connection
func (h *Hub) unregister(c *Conn) {
	select {
	case h.events <- hubEvent{conn: c}:
	case <-h.ctx.Done():
	}
}

// Run processes connection events in arrival order until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-h.events:
			if err := h.handle(ctx, ev); err != nil {
				return nil
			}

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.conns {
				c.Close()
			}
			h.conns = make(map[*Conn]bool)
			h.mu.Unlock()
			return nil
		}
	}
}

func (h *Hub) handle(ctx context.Context, ev hubEvent) error {
	c := ev.conn
	if ev.connected {
		h.mu.Lock()
		h.conns[c] = true
		h.mu.Unlock()
		if err := h.sim.Submit(ctx, Connect{ID: c.id, Sink: c}); err != nil {
			return err
		}
		// the read pump waits for this so no input precedes its Connect
		close(c.ready)
		return nil
	}

	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if !ok {
		return nil
	}
	c.Close()
	return h.sim.Submit(ctx, Disconnect{ID: c.id})
}

// submit forwards a connection's command to the simulation
func (h *Hub) submit(cmd Command) error {
	return h.sim.Submit(h.ctx, cmd)
}

// ClientCount returns the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
