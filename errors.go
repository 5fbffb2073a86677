package main

import "errors"

var (
	// ErrUnknownClient is returned for commands naming a client or player that does not exist
	ErrUnknownClient = errors.New("unknown client")
	// ErrMalformedInput is returned when an input mask carries bits outside the action set
	ErrMalformedInput = errors.New("malformed input")
	// ErrWrongContext is returned when lobby input arrives from an in-game client or vice versa
	ErrWrongContext = errors.New("input context does not match client status")
	// ErrInvariant marks an internal bookkeeping bug, never a user-facing condition
	ErrInvariant = errors.New("internal invariant violated")
)
