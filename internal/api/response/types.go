package response

import (
	"time"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/auth"
)

// Account represents an account in API responses
type Account struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		Address:     string(a.Address),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// Winner represents a resolution result
type Winner struct {
	Outcome string  `json:"outcome"`
	Address *string `json:"address"`
}

// WinnerFromModel converts model.Winner
func WinnerFromModel(w model.Winner) Winner {
	var addr *string
	if w.Address != nil {
		a := string(*w.Address)
		addr = &a
	}
	return Winner{
		Outcome: string(w.Outcome),
		Address: addr,
	}
}

// Game represents a game record in API responses
type Game struct {
	GameID      uint64    `json:"game_id"`
	State       string    `json:"state"`
	Player1     string    `json:"player1"`
	Player2     *string   `json:"player2"`
	StakeAmount string    `json:"stake_amount"`
	Player1Roll uint64    `json:"player1_roll"`
	Player2Roll uint64    `json:"player2_roll"`
	Winner      *Winner   `json:"winner"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	var player2 *string
	if g.Player2 != nil {
		p := string(*g.Player2)
		player2 = &p
	}

	var winner *Winner
	if g.Winner != nil {
		w := WinnerFromModel(*g.Winner)
		winner = &w
	}

	return Game{
		GameID:      uint64(g.ID),
		State:       string(g.State()),
		Player1:     string(g.Player1),
		Player2:     player2,
		StakeAmount: g.StakeAmount.String(),
		Player1Roll: g.Player1Roll,
		Player2Roll: g.Player2Roll,
		Winner:      winner,
		IsCompleted: g.IsCompleted,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// CreateGameResponse is the response after creating a game
type CreateGameResponse struct {
	GameID uint64 `json:"game_id"`
}

// PlayGameResponse is the response after resolving a game
type PlayGameResponse struct {
	Winner Winner `json:"winner"`
	Game   Game   `json:"game"`
}

// GameCountResponse reports the last assigned game ID
type GameCountResponse struct {
	GameCount uint64 `json:"game_count"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status         string `json:"status"`
	DiceSource     string `json:"dice_source"`
	InsecureDice   bool   `json:"insecure_dice"`
	InstanceTTLSec int64  `json:"instance_ttl_seconds"`
}
