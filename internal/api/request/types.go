package request

import "github.com/mcoot/dicestake/internal/model"

// CreateGuestRequest is the request body for creating a guest account
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game.
// Player1 defaults to the authenticated caller.
type CreateGameRequest struct {
	Player1     *model.Address `json:"player1,omitempty"`
	StakeAmount *model.Stake   `json:"stake_amount"`
}

// JoinGameRequest is the request body for joining a game.
// Player2 defaults to the authenticated caller.
type JoinGameRequest struct {
	Player2 *model.Address `json:"player2,omitempty"`
}
