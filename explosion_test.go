package main

import (
	"testing"

	"pgregory.net/rapid"
)

func TestExplosionGrowThenShrink(t *testing.T) {
	cfg := testConfig()
	e := NewExplosion(1, 2, Point{X: 10, Y: 10})
	if e.Size != 1 {
		t.Fatalf("expected initial size 1, got %d", e.Size)
	}

	want := []int{11, 21, 31, 41, 51, 61, 71, 81, 91, 100, 80, 60, 40, 20}
	for i, size := range want {
		if !e.Update(cfg) {
			t.Fatalf("update %d: explosion ended early", i)
		}
		if e.Size != size {
			t.Errorf("update %d: expected size %d, got %d", i, size, e.Size)
		}
	}
	if !e.ReachedMax {
		t.Error("expected ReachedMax after hitting the cap")
	}
	if e.Update(cfg) {
		t.Error("expected the final update to report the blast spent")
	}
	if e.Size != 0 || e.Alive() {
		t.Errorf("spent blast should have size 0, got %d", e.Size)
	}
}

func TestExplosionLifetime(t *testing.T) {
	if got := ExplosionLifetime(testConfig()); got != 15 {
		t.Errorf("expected 15 updates with default tuning, got %d", got)
	}

	rapid.Check(t, func(t *rapid.T) {
		cfg := testConfig()
		cfg.ExplosionCap = rapid.IntRange(1, 500).Draw(t, "cap")
		cfg.ExplosionGrowRate = rapid.IntRange(1, 50).Draw(t, "grow")
		cfg.ExplosionShrinkRate = rapid.IntRange(1, 50).Draw(t, "shrink")

		grow := (cfg.ExplosionCap - 1 + cfg.ExplosionGrowRate - 1) / cfg.ExplosionGrowRate
		if grow < 1 {
			grow = 1
		}
		shrink := (cfg.ExplosionCap + cfg.ExplosionShrinkRate - 1) / cfg.ExplosionShrinkRate
		if got := ExplosionLifetime(cfg); got != grow+shrink {
			t.Fatalf("cap %d grow %d shrink %d: expected %d updates, got %d",
				cfg.ExplosionCap, cfg.ExplosionGrowRate, cfg.ExplosionShrinkRate, grow+shrink, got)
		}
	})
}

func TestExplosionRadiusAndHits(t *testing.T) {
	cfg := testConfig()
	e := NewExplosion(1, 1, Point{X: 100, Y: 100})
	e.Size = cfg.ExplosionCap

	if r := e.Radius(cfg); r != cfg.ExplosionRadius {
		t.Errorf("expected full radius %v at cap, got %v", cfg.ExplosionRadius, r)
	}

	near := Rect{Min: Point{X: 130, Y: 90}, Size: cfg.PlayerSize}
	far := Rect{Min: Point{X: 150, Y: 90}, Size: cfg.PlayerSize}
	if !e.Hits(near, cfg) {
		t.Error("box 30px away should be inside a 40px blast")
	}
	if e.Hits(far, cfg) {
		t.Error("box 50px away should be outside a 40px blast")
	}

	e.Size = cfg.ExplosionCap / 2
	if e.Hits(Rect{Min: Point{X: 125, Y: 90}, Size: cfg.PlayerSize}, cfg) {
		t.Error("half-size blast should not reach 25px")
	}
}

func TestExplosionToState(t *testing.T) {
	e := NewExplosion(4, 9, Point{X: 1.26, Y: 3.04})
	st := e.ToState()
	if st.ID != 4 || st.FromID != 9 || st.Size != 1 {
		t.Errorf("unexpected state %+v", st)
	}
	if st.Position != (Point{X: 1.3, Y: 3}) {
		t.Errorf("expected rounded position, got %+v", st.Position)
	}
}
