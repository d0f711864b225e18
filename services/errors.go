package services

import "errors"

// Domain errors surfaced by the session lifecycle. Handlers map each one to a
// distinct HTTP status and message; anything not in this list is an internal
// failure and reported as 500.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrMachineNotFound = errors.New("machine not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSessionNotFound = errors.New("session not found")

	// machine exists but is in_use or maintenance
	ErrMachineUnavailable = errors.New("machine is not available")

	ErrInsufficientTokens = errors.New("insufficient tokens")

	// the session was already closed by an earlier (possibly concurrent) call
	ErrSessionAlreadyEnded = errors.New("session already ended")

	// the player already has an active session on this machine
	ErrActiveSessionExists = errors.New("player already has an active session on this machine")
)
