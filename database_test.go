package main

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListMatches(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := MatchSummary{
		StartedAt: base,
		EndedAt:   base.Add(time.Minute),
		Ticks:     3600,
		Reason:    StopNotEnoughPlayers,
		Players:   []PlayerMatchStats{{PlayerID: 2, Kills: 1}, {PlayerID: 1, Deaths: 1}},
	}
	second := MatchSummary{
		StartedAt: base.Add(time.Hour),
		EndedAt:   base.Add(time.Hour + time.Second),
		Ticks:     60,
		Reason:    StopForced,
	}
	if err := db.RecordMatch("m1", first); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if err := db.RecordMatch("m2", second); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}

	matches, err := db.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	if len(matches) != 2 || matches[0].ID != "m2" || matches[1].ID != "m1" {
		t.Fatalf("expected newest first, got %+v", matches)
	}
	m1 := matches[1]
	if m1.Ticks != 3600 || m1.Reason != StopNotEnoughPlayers || !m1.EndedAt.Equal(first.EndedAt) {
		t.Errorf("unexpected row %+v", m1)
	}
	if len(m1.Players) != 2 || m1.Players[0].PlayerID != 1 || m1.Players[1].Kills != 1 {
		t.Errorf("unexpected players %+v", m1.Players)
	}

	limited, err := db.RecentMatches(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d rows", len(limited))
	}
}

func TestRecordMatchDuplicateID(t *testing.T) {
	db := openTestDB(t)
	m := MatchSummary{StartedAt: time.Now(), EndedAt: time.Now(), Players: []PlayerMatchStats{{PlayerID: 1}}}
	if err := db.RecordMatch("dup", m); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordMatch("dup", m); err == nil {
		t.Error("expected an error for a duplicate match id")
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if got := db.GetSetting("missing"); got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatal(err)
	}
	if got := db.GetSetting("k"); got != "v2" {
		t.Errorf("expected v2, got %q", got)
	}
}
