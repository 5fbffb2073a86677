package main

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBinaryInputRoundTrip(t *testing.T) {
	in := InputMsg{Mask: uint32(ActionUp | ActionFire), Ctx: int(ContextInGame)}
	msg := EncodeBinaryInput(in)
	if len(msg) != 4 || msg[0] != binaryInputTag {
		t.Fatalf("unexpected encoding %v", msg)
	}
	got, err := DecodeBinaryInput(msg)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("expected %+v, got %+v", in, got)
	}
}

func TestBinaryInputMalformed(t *testing.T) {
	for _, msg := range [][]byte{nil, {binaryInputTag, 2, 1}, {0x02, 2, 1, 0}, {binaryInputTag, 2, 1, 0, 0}} {
		if _, err := DecodeBinaryInput(msg); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%v: expected ErrMalformedInput, got %v", msg, err)
		}
	}
}

func TestEncodeLobby(t *testing.T) {
	data, err := EncodeLobby(LobbySnapshot{
		Status:  "stopped",
		Clients: []ClientState{{ID: 1, Status: "lobby", LobbyStatus: "ready"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["t"]) != `"lobby"` {
		t.Errorf("expected lobby envelope, got %s", data)
	}
	var snap LobbySnapshot
	if err := json.Unmarshal(raw["d"], &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 1 || snap.Clients[0].LobbyStatus != "ready" {
		t.Errorf("unexpected payload %s", raw["d"])
	}
}

func TestFrameRoundTrip(t *testing.T) {
	cfg := testConfig()
	p := NewPlayer(3, Point{X: 10, Y: 20})
	snap := MatchSnapshot{
		Tick:       12,
		Status:     "playing",
		Players:    []PlayerState{p.ToState(cfg)},
		Shots:      []CannonEventState{NewCannonShot(5, 3, Point{X: 1, Y: 2}, 90, 40, cfg).ToState(cfg.MinShotSize)},
		Explosions: []CannonEventState{},
	}
	data, err := EncodeFrame(snap)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Tick != 12 || len(got.Players) != 1 || got.Players[0] != snap.Players[0] {
		t.Errorf("players did not survive the frame: %+v", got.Players)
	}
	if len(got.Shots) != 1 || got.Shots[0] != snap.Shots[0] {
		t.Errorf("shots did not survive the frame: %+v", got.Shots)
	}
}
