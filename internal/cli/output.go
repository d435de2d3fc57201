package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case CreateResult:
		_, _ = fmt.Fprintf(o.w, "Created game %d\n", v.GameID)
	case PlayResult:
		o.printPlayResult(v)
	case CountResult:
		_, _ = fmt.Fprintf(o.w, "Games created: %d\n", v.GameCount)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// Winner response type
type Winner struct {
	Outcome string  `json:"outcome"`
	Address *string `json:"address"`
}

// Game response type
type Game struct {
	GameID      uint64  `json:"game_id"`
	State       string  `json:"state"`
	Player1     string  `json:"player1"`
	Player2     *string `json:"player2"`
	StakeAmount string  `json:"stake_amount"`
	Player1Roll uint64  `json:"player1_roll"`
	Player2Roll uint64  `json:"player2_roll"`
	Winner      *Winner `json:"winner"`
	IsCompleted bool    `json:"is_completed"`
}

// CreateResult response type
type CreateResult struct {
	GameID uint64 `json:"game_id"`
}

// PlayResult response type
type PlayResult struct {
	Winner Winner `json:"winner"`
	Game   Game   `json:"game"`
}

// CountResult response type
type CountResult struct {
	GameCount uint64 `json:"game_count"`
}

// HealthResult response type
type HealthResult struct {
	Status         string `json:"status"`
	DiceSource     string `json:"dice_source"`
	InsecureDice   bool   `json:"insecure_dice"`
	InstanceTTLSec int64  `json:"instance_ttl_seconds"`
}

func (o *Output) printAccount(a Account) {
	guestStr := "no"
	if a.IsGuest {
		guestStr = "yes"
	}
	_, _ = fmt.Fprintf(o.w, "Account: %s (%s)\n", a.DisplayName, a.Address)
	_, _ = fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	_, _ = fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	_, _ = fmt.Fprintf(o.w, "Game: %d\n", g.GameID)
	_, _ = fmt.Fprintf(o.w, "State: %s\n", g.State)
	_, _ = fmt.Fprintf(o.w, "Stake: %s\n", g.StakeAmount)
	_, _ = fmt.Fprintf(o.w, "Player 1: %s\n", g.Player1)
	if g.Player2 != nil {
		_, _ = fmt.Fprintf(o.w, "Player 2: %s\n", *g.Player2)
	} else {
		_, _ = fmt.Fprintln(o.w, "Player 2: (open)")
	}
	if g.IsCompleted {
		_, _ = fmt.Fprintf(o.w, "Rolls: %d vs %d\n", g.Player1Roll, g.Player2Roll)
		if g.Winner != nil {
			_, _ = fmt.Fprintf(o.w, "Winner: %s\n", formatWinner(*g.Winner))
		}
	}
}

func (o *Output) printPlayResult(p PlayResult) {
	_, _ = fmt.Fprintf(o.w, "Rolled %d vs %d\n", p.Game.Player1Roll, p.Game.Player2Roll)
	_, _ = fmt.Fprintf(o.w, "Winner: %s\n", formatWinner(p.Winner))
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	_, _ = fmt.Fprintf(o.w, "Dice: %s\n", h.DiceSource)
	if h.InsecureDice {
		_, _ = fmt.Fprintln(o.w, "Warning: dice are predictable from the resolution timestamp")
	}
	_, _ = fmt.Fprintf(o.w, "Registry expires in: %ds\n", h.InstanceTTLSec)
}

func formatWinner(w Winner) string {
	if w.Address != nil {
		return fmt.Sprintf("%s (%s)", *w.Address, w.Outcome)
	}
	return w.Outcome
}
