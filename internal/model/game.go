package model

import (
	"strconv"
	"time"
)

// GameID identifies a game. IDs are assigned sequentially from 1; 0 is never assigned.
type GameID uint64

// String returns the decimal form of the ID
func (id GameID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseGameID parses a decimal game ID
func ParseGameID(s string) (GameID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidGameID
	}
	return GameID(v), nil
}

// GameState is the lifecycle phase of a game, derived from its fields
type GameState string

const (
	GameStateCreated  GameState = "created"  // Waiting for a second player
	GameStateJoined   GameState = "joined"   // Both seats filled, not yet played
	GameStateResolved GameState = "resolved" // Dice rolled, winner fixed
)

// Outcome tags the result of a resolved game
type Outcome string

const (
	OutcomePlayer1 Outcome = "player1"
	OutcomePlayer2 Outcome = "player2"
	OutcomeTie     Outcome = "tie"
)

// Winner is the result of resolving a game. Address is nil for a tie.
type Winner struct {
	Outcome Outcome  `json:"outcome"`
	Address *Address `json:"address,omitempty"`
}

// IsTie reports whether neither player won
func (w Winner) IsTie() bool {
	return w.Outcome == OutcomeTie
}

// String returns the winning address, or the outcome when there is none
func (w Winner) String() string {
	if w.Address != nil {
		return string(*w.Address)
	}
	return string(w.Outcome)
}

// Game is a single two-player dice game
type Game struct {
	ID          GameID   `json:"game_id"`
	Player1     Address  `json:"player1"`
	Player2     *Address `json:"player2,omitempty"`
	StakeAmount Stake    `json:"stake_amount"`
	Player1Roll uint64   `json:"player1_roll"`
	Player2Roll uint64   `json:"player2_roll"`
	Winner      *Winner  `json:"winner,omitempty"`
	IsCompleted bool     `json:"is_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGame builds an open game owned by creator
func NewGame(id GameID, creator Address, stake Stake, now time.Time) *Game {
	return &Game{
		ID:          id,
		Player1:     creator,
		StakeAmount: stake,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// State derives the lifecycle phase
func (g *Game) State() GameState {
	switch {
	case g.IsCompleted:
		return GameStateResolved
	case g.Player2 != nil:
		return GameStateJoined
	default:
		return GameStateCreated
	}
}

// HasOpponent reports whether a second player has joined
func (g *Game) HasOpponent() bool {
	return g.Player2 != nil
}

// Resolve records both rolls and fixes the winner. Strictly higher roll wins.
// A game without a second player can still be resolved; a player2 win then has no address.
func (g *Game) Resolve(rolls Rolls, now time.Time) Winner {
	g.Player1Roll = rolls.Player1Total()
	g.Player2Roll = rolls.Player2Total()

	var w Winner
	switch {
	case g.Player1Roll > g.Player2Roll:
		p1 := g.Player1
		w = Winner{Outcome: OutcomePlayer1, Address: &p1}
	case g.Player2Roll > g.Player1Roll:
		w = Winner{Outcome: OutcomePlayer2}
		if g.Player2 != nil {
			p2 := *g.Player2
			w.Address = &p2
		}
	default:
		w = Winner{Outcome: OutcomeTie}
	}

	g.Winner = &w
	g.IsCompleted = true
	g.UpdatedAt = now
	return w
}

// Rolls holds the four dice of a resolution, two per player, each in [1,6]
type Rolls struct {
	Player1 [2]uint64 `json:"player1"`
	Player2 [2]uint64 `json:"player2"`
}

// Player1Total returns player 1's sum, in [2,12]
func (r Rolls) Player1Total() uint64 {
	return r.Player1[0] + r.Player1[1]
}

// Player2Total returns player 2's sum, in [2,12]
func (r Rolls) Player2Total() uint64 {
	return r.Player2[0] + r.Player2[1]
}

// Clone returns a deep copy of g
func (g *Game) Clone() *Game {
	c := *g
	if g.Player2 != nil {
		p2 := *g.Player2
		c.Player2 = &p2
	}
	if g.Winner != nil {
		w := *g.Winner
		if w.Address != nil {
			a := *w.Address
			w.Address = &a
		}
		c.Winner = &w
	}
	return &c
}
