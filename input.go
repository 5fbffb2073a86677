package main

import "fmt"

// Action is one named player input
type Action uint32

const (
	ActionUp             Action = 1 << 0
	ActionRight          Action = 1 << 1
	ActionDown           Action = 1 << 2
	ActionLeft           Action = 1 << 3
	ActionCannonPositive Action = 1 << 4
	ActionCannonNegative Action = 1 << 5
	ActionLoad           Action = 1 << 6
	ActionFire           Action = 1 << 7
)

const allActions = ActionUp | ActionRight | ActionDown | ActionLeft |
	ActionCannonPositive | ActionCannonNegative | ActionLoad | ActionFire

// InputSet is the set of actions currently held by a player
type InputSet struct {
	bits Action
}

// NoInput is the empty action set
var NoInput = InputSet{}

// ParseInput validates a raw mask and rejects bits outside the action set
func ParseInput(mask uint32) (InputSet, error) {
	if Action(mask)&^allActions != 0 {
		return NoInput, fmt.Errorf("%w: mask %#x", ErrMalformedInput, mask)
	}
	return InputSet{bits: Action(mask)}, nil
}

// NewInputSet builds a set from named actions
func NewInputSet(actions ...Action) InputSet {
	var s InputSet
	for _, a := range actions {
		s.bits |= a & allActions
	}
	return s
}

// Has reports whether the action is held
func (s InputSet) Has(a Action) bool {
	return s.bits&a != 0
}

// Empty reports whether no action is held
func (s InputSet) Empty() bool {
	return s.bits == 0
}

// Mask returns the raw wire value
func (s InputSet) Mask() uint32 {
	return uint32(s.bits)
}

// Pressed reports a rising edge of a between prev and s
func (s InputSet) Pressed(prev InputSet, a Action) bool {
	return s.Has(a) && !prev.Has(a)
}

// axis resolves a pair of opposing actions to -1, 0 or +1
func (s InputSet) axis(neg, pos Action) int {
	dir := 0
	if s.Has(neg) {
		dir--
	}
	if s.Has(pos) {
		dir++
	}
	return dir
}

// InputContext says which state machine an input targets
type InputContext int

const (
	ContextLobby  InputContext = 1
	ContextInGame InputContext = 2
)

func (c InputContext) String() string {
	switch c {
	case ContextLobby:
		return "lobby"
	case ContextInGame:
		return "in_game"
	}
	return fmt.Sprintf("context(%d)", int(c))
}
