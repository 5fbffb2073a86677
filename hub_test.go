package main

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestHubConnectionLimits(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxConns = 3
	cfg.MaxConnsPerIP = 2
	h := NewHub(context.Background(), nil, cfg)

	first, ok, _ := h.TryAccept("a")
	if !ok {
		t.Fatal("empty hub should accept")
	}
	second, _, _ := h.TryAccept("a")
	if second != first+1 {
		t.Errorf("expected sequential ids, got %d then %d", first, second)
	}
	if _, ok, reason := h.TryAccept("a"); ok || reason != "ip_limit" {
		t.Errorf("expected ip_limit, got %v %q", ok, reason)
	}

	h.TryAccept("b")
	if _, ok, reason := h.TryAccept("c"); ok || reason != "capacity" {
		t.Errorf("expected capacity, got %v %q", ok, reason)
	}

	h.TrackDisconnect("a")
	if _, ok, _ := h.TryAccept("a"); !ok {
		t.Error("released slot should be reusable")
	}
	if h.TotalConns() != 3 {
		t.Errorf("expected 3 tracked connections, got %d", h.TotalConns())
	}
}

func TestHubConcurrentAcceptRespectsLimit(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxConns = 10
	cfg.MaxConnsPerIP = 1000
	h := NewHub(context.Background(), nil, cfg)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := h.TryAccept("a"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if accepted != 10 || h.TotalConns() != 10 {
		t.Errorf("expected exactly 10 accepted, got %d (tracked %d)", accepted, h.TotalConns())
	}
}

// a connection that closes before the hub runs must not leave a client behind
func TestHubDisconnectNeverOvertakesConnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sim := NewSimulation(testConfig(), MatchHooks{})
	h := NewHub(ctx, sim, DefaultServerConfig())

	const n = 50
	for id := 1; id <= n; id++ {
		c := NewConn(h, nil, id, "ip")
		if !h.register(c) {
			t.Fatal("register failed")
		}
		h.unregister(c)
	}

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	connected := make(map[int]bool)
	for i := 0; i < 2*n; i++ {
		select {
		case cmd := <-sim.inbox:
			switch c := cmd.(type) {
			case Connect:
				connected[c.ID] = true
			case Disconnect:
				if !connected[c.ID] {
					t.Fatalf("disconnect for client %d arrived before its connect", c.ID)
				}
			default:
				t.Fatalf("unexpected command %T", cmd)
			}
			sim.apply(cmd)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d commands arrived", i, 2*n)
		}
	}

	if sim.game.ClientCount() != 0 {
		t.Errorf("expected an empty lobby, got %d clients", sim.game.ClientCount())
	}
	if h.ClientCount() != 0 {
		t.Errorf("expected no registered connections, got %d", h.ClientCount())
	}
	cancel()
	<-done
}

func TestRejectReason(t *testing.T) {
	cases := map[error]string{
		fmt.Errorf("x: %w", ErrUnknownClient):  "unknown_client",
		fmt.Errorf("x: %w", ErrMalformedInput): "malformed",
		fmt.Errorf("x: %w", ErrWrongContext):   "wrong_context",
		context.Canceled:                       "other",
	}
	for err, want := range cases {
		if got := rejectReason(err); got != want {
			t.Errorf("%v: expected %s, got %s", err, want, got)
		}
	}
}
