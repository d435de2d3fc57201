package model

import "time"

// Address identifies an account on the ledger. It is opaque to the game logic.
type Address string

// Account is an identity that can create, join and win games
type Account struct {
	Address     Address
	DisplayName string
	IsGuest     bool // true for accounts without a username/password
	CreatedAt   time.Time
}

// RegisteredAccount extends Account with login credentials
// Stored separately so the hash never travels with a session
type RegisteredAccount struct {
	Address      Address
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
