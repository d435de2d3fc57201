package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/dicestake/internal/model"
)

// GamePage is the full page for one game, subscribed to the game's event stream
func GamePage(game *model.Game) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Game #%s</h1><div id="game-status">`, templ.EscapeString(game.ID.String())); err != nil {
			return err
		}
		if err := GameStatus(game).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `</div><h2>Activity</h2><ul id="game-events" data-sse="/api/v1/games/%s/events"></ul>`,
			templ.EscapeString(game.ID.String()))
		return err
	})
	return Page("Game #"+game.ID.String(), body)
}

// GameStatus renders the current record of a game
func GameStatus(game *model.Game) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		player2 := "waiting for opponent"
		if game.Player2 != nil {
			player2 = string(*game.Player2)
		}

		rows := [][2]string{
			{"state", string(game.State())},
			{"player1", string(game.Player1)},
			{"player2", player2},
			{"stake", game.StakeAmount.String()},
		}
		if game.IsCompleted {
			rows = append(rows,
				[2]string{"player1-roll", strconv.FormatUint(game.Player1Roll, 10)},
				[2]string{"player2-roll", strconv.FormatUint(game.Player2Roll, 10)},
				[2]string{"winner", winnerLabel(game.Winner)},
			)
		}

		if _, err := io.WriteString(w, `<dl class="game" data-state="`+templ.EscapeString(string(game.State()))+`">`); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := io.WriteString(w, `<dt>`+row[0]+`</dt><dd class="`+row[0]+`">`+templ.EscapeString(row[1])+`</dd>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</dl>`)
		return err
	})
}

// GameList renders the home page: the counter and links to the most recent games
func GameList(count model.GameID, games []*model.Game) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Games</h1><p id="game-count">%d games created</p><ul id="games">`, count); err != nil {
			return err
		}
		for _, game := range games {
			id := templ.EscapeString(game.ID.String())
			if _, err := fmt.Fprintf(w, `<li data-state="%s"><a href="/games/%s">Game #%s</a> %s staked by %s</li>`,
				templ.EscapeString(string(game.State())), id, id,
				templ.EscapeString(game.StakeAmount.String()), templ.EscapeString(string(game.Player1))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
	return Page("Games", body)
}

// EventItem renders one registry event as a list item
func EventItem(event model.Event) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<li class="event" data-type="`+templ.EscapeString(string(event.Type))+`">`+
			templ.EscapeString(describeEvent(event))+`</li>`)
		return err
	})
}

func describeEvent(event model.Event) string {
	switch p := event.Payload.(type) {
	case model.GameCreatedPayload:
		return fmt.Sprintf("%s created the game with stake %s", p.Player1, p.StakeAmount)
	case model.PlayerJoinedPayload:
		if p.Replaced != nil {
			return fmt.Sprintf("%s joined, replacing %s", p.Player2, *p.Replaced)
		}
		return fmt.Sprintf("%s joined", p.Player2)
	case model.GameCompletedPayload:
		return fmt.Sprintf("rolled %d against %d: %s", p.Player1Roll, p.Player2Roll, winnerLabel(&p.Winner))
	default:
		return string(event.Type)
	}
}

func winnerLabel(w *model.Winner) string {
	if w == nil {
		return "none"
	}
	switch {
	case w.IsTie():
		return "tie"
	case w.Address == nil:
		return string(w.Outcome) + " (no opponent)"
	default:
		return string(*w.Address)
	}
}
