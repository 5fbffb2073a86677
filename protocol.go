package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgLobbyInput = "lobby" // toggle readiness
	MsgInput      = "input"
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgLobby   = "lobby"
	MsgError   = "error"
)

// binaryInputTag marks a compact binary input message: [tag, ctx, mask_lo, mask_hi]
const binaryInputTag = 0x01

// Envelope wraps all outgoing text messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages, json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg carries an action mask and the state machine it targets
type InputMsg struct {
	Mask uint32 `json:"mask"`
	Ctx  int    `json:"ctx"`
}

// WelcomeMsg tells a new connection its client id
type WelcomeMsg struct {
	ID int `json:"id"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ClientState is one lobby roster entry
type ClientState struct {
	ID          int    `json:"id" msgpack:"id"`
	Status      string `json:"status" msgpack:"status"`
	LobbyStatus string `json:"lobby_status" msgpack:"lobby_status"`
}

// LobbySnapshot is the roster plus match phase
type LobbySnapshot struct {
	Status    string        `json:"status" msgpack:"status"`
	Countdown int           `json:"countdown" msgpack:"countdown"`
	Clients   []ClientState `json:"clients" msgpack:"clients"`
}

// PlayerState is sent per player each frame
type PlayerState struct {
	ID             int     `json:"id" msgpack:"id"`
	Position       Point   `json:"position" msgpack:"position"`
	CannonPosition Point   `json:"cannon_position" msgpack:"cannon_position"`
	Status         string  `json:"status" msgpack:"status"`
	Rotation       float64 `json:"rotation" msgpack:"rotation"`
	Power          int     `json:"power" msgpack:"power"`
	Loading        bool    `json:"loading" msgpack:"loading"`
	Kills          int     `json:"kills" msgpack:"kills"`
	Deaths         int     `json:"deaths" msgpack:"deaths"`
}

// CannonEventState describes a shot in flight or an explosion
type CannonEventState struct {
	ID       int   `json:"id" msgpack:"id"`
	Position Point `json:"position" msgpack:"position"`
	Size     int   `json:"size" msgpack:"size"`
	FromID   int   `json:"from_id" msgpack:"from_id"`
}

// MatchSnapshot is the full frame broadcast while a match runs
type MatchSnapshot struct {
	Tick       uint64             `json:"tick" msgpack:"tick"`
	Status     string             `json:"status" msgpack:"status"`
	Countdown  int                `json:"countdown" msgpack:"countdown"`
	Players    []PlayerState      `json:"players" msgpack:"players"`
	Shots      []CannonEventState `json:"shots" msgpack:"shots"`
	Explosions []CannonEventState `json:"explosions" msgpack:"explosions"`
}

// EncodeLobby marshals a lobby snapshot as a JSON text message
func EncodeLobby(s LobbySnapshot) ([]byte, error) {
	return json.Marshal(Envelope{T: MsgLobby, Data: s})
}

// EncodeFrame marshals a match snapshot as a msgpack binary message
func EncodeFrame(s MatchSnapshot) ([]byte, error) {
	return msgpack.Marshal(&s)
}

// DecodeFrame is the inverse of EncodeFrame
func DecodeFrame(data []byte) (MatchSnapshot, error) {
	var s MatchSnapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}

// DecodeBinaryInput decodes [tag, ctx, mask_lo, mask_hi]
func DecodeBinaryInput(msg []byte) (InputMsg, error) {
	if len(msg) != 4 || msg[0] != binaryInputTag {
		return InputMsg{}, fmt.Errorf("%w: binary input of %d bytes", ErrMalformedInput, len(msg))
	}
	return InputMsg{
		Ctx:  int(msg[1]),
		Mask: uint32(binary.LittleEndian.Uint16(msg[2:4])),
	}, nil
}

// EncodeBinaryInput is the client-side encoding of an input message
func EncodeBinaryInput(in InputMsg) []byte {
	msg := []byte{binaryInputTag, byte(in.Ctx), 0, 0}
	binary.LittleEndian.PutUint16(msg[2:4], uint16(in.Mask))
	return msg
}
