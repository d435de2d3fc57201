package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Game errors
	ErrGameNotFound  = errors.New("game not found")
	ErrGameCompleted = errors.New("game already completed")
	ErrInvalidGameID = errors.New("invalid game id")

	// Stake errors
	ErrInvalidStake    = errors.New("invalid stake amount")
	ErrStakeOutOfRange = errors.New("stake amount does not fit in 128 bits")

	// Strict lifecycle errors
	ErrAlreadyJoined = errors.New("game already has a second player")
	ErrSelfJoin      = errors.New("creator cannot join their own game")
	ErrNoOpponent    = errors.New("game has no second player")
)
