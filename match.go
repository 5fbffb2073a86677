package main

import "time"

// MatchStatus represents the lifecycle of the match
type MatchStatus int

const (
	MatchStopped   MatchStatus = 0
	MatchCountdown MatchStatus = 1
	MatchPlaying   MatchStatus = 2
)

func (s MatchStatus) String() string {
	switch s {
	case MatchCountdown:
		return "countdown"
	case MatchPlaying:
		return "playing"
	}
	return "stopped"
}

// Running reports whether players exist in this status
func (s MatchStatus) Running() bool {
	return s == MatchCountdown || s == MatchPlaying
}

// PlayerMatchStats tracks per-player results for a match
type PlayerMatchStats struct {
	PlayerID int `json:"player_id"`
	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
}

// MatchSummary describes a finished match
type MatchSummary struct {
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Ticks     uint64             `json:"ticks"`
	Reason    string             `json:"reason"`
	Players   []PlayerMatchStats `json:"players"`
}

// Duration is the wall time the match ran
func (m MatchSummary) Duration() time.Duration {
	return m.EndedAt.Sub(m.StartedAt)
}

// KillEvent is reported when an explosion kills a player
type KillEvent struct {
	KillerID int
	VictimID int
	Self     bool
	Tick     uint64
}

// MatchHooks lets the surrounding process observe match events. Hooks run on
// the simulation goroutine and must not block.
type MatchHooks struct {
	OnMatchStart func(playerIDs []int)
	OnKill       func(KillEvent)
	OnMatchEnd   func(MatchSummary)
}

// Reasons a match stops
const (
	StopNotEnoughPlayers = "not_enough_players"
	StopForced           = "forced"
)
