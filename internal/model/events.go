package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated   EventType = "game_created"
	EventPlayerJoined  EventType = "player_joined"
	EventGameCompleted EventType = "game_completed"
)

// Event is a notice emitted after a successful registry transition
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id"`
	Address   Address   `json:"address,omitempty"` // The account that triggered the event, if any
	Payload   any       `json:"payload,omitempty"` // Type-specific data
}

// GameCreatedPayload contains data for game created events
type GameCreatedPayload struct {
	Player1     Address `json:"player1"`
	StakeAmount Stake   `json:"stake_amount"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player2  Address  `json:"player2"`
	Replaced *Address `json:"replaced,omitempty"` // Previous player2 when a join overwrote one
}

// GameCompletedPayload contains data for game completed events
type GameCompletedPayload struct {
	Player1Roll uint64 `json:"player1_roll"`
	Player2Roll uint64 `json:"player2_roll"`
	Winner      Winner `json:"winner"`
}
