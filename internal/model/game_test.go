package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func rolls(p1a, p1b, p2a, p2b uint64) Rolls {
	return Rolls{Player1: [2]uint64{p1a, p1b}, Player2: [2]uint64{p2a, p2b}}
}

func joinedGame() *Game {
	g := NewGame(1, "acct_alice", NewStake(100), testNow)
	bob := Address("acct_bob")
	g.Player2 = &bob
	return g
}

func TestParseGameID(t *testing.T) {
	id, err := ParseGameID("42")
	require.NoError(t, err)
	assert.Equal(t, GameID(42), id)
	assert.Equal(t, "42", id.String())

	for _, bad := range []string{"", "-1", "abc", "1.0", "18446744073709551616"} {
		_, err := ParseGameID(bad)
		assert.ErrorIs(t, err, ErrInvalidGameID, bad)
	}
}

func TestNewGameIsOpen(t *testing.T) {
	g := NewGame(7, "acct_alice", NewStake(5), testNow)

	assert.Equal(t, GameStateCreated, g.State())
	assert.False(t, g.HasOpponent())
	assert.Nil(t, g.Winner)
	assert.False(t, g.IsCompleted)
	assert.Zero(t, g.Player1Roll)
	assert.Zero(t, g.Player2Roll)
}

func TestStateFollowsLifecycle(t *testing.T) {
	g := joinedGame()
	assert.Equal(t, GameStateJoined, g.State())

	g.Resolve(rolls(1, 1, 1, 1), testNow)
	assert.Equal(t, GameStateResolved, g.State())
}

func TestResolvePlayer1Wins(t *testing.T) {
	g := joinedGame()
	later := testNow.Add(time.Minute)

	w := g.Resolve(rolls(6, 6, 3, 3), later)

	assert.Equal(t, OutcomePlayer1, w.Outcome)
	require.NotNil(t, w.Address)
	assert.Equal(t, Address("acct_alice"), *w.Address)
	assert.Equal(t, uint64(12), g.Player1Roll)
	assert.Equal(t, uint64(6), g.Player2Roll)
	assert.True(t, g.IsCompleted)
	assert.Equal(t, later, g.UpdatedAt)
	assert.Equal(t, w, *g.Winner)
}

func TestResolvePlayer2Wins(t *testing.T) {
	g := joinedGame()
	w := g.Resolve(rolls(1, 1, 2, 5), testNow)

	assert.Equal(t, OutcomePlayer2, w.Outcome)
	require.NotNil(t, w.Address)
	assert.Equal(t, Address("acct_bob"), *w.Address)
	assert.Equal(t, "acct_bob", w.String())
}

func TestResolveTie(t *testing.T) {
	g := joinedGame()
	w := g.Resolve(rolls(5, 5, 4, 6), testNow)

	assert.True(t, w.IsTie())
	assert.Nil(t, w.Address)
	assert.Equal(t, "tie", w.String())
}

func TestResolveWithoutOpponent(t *testing.T) {
	g := NewGame(1, "acct_alice", NewStake(1), testNow)
	w := g.Resolve(rolls(1, 1, 6, 6), testNow)

	assert.Equal(t, OutcomePlayer2, w.Outcome)
	assert.Nil(t, w.Address)
	assert.Equal(t, "player2", w.String())
}

func TestCloneIsDeep(t *testing.T) {
	g := joinedGame()
	g.Resolve(rolls(6, 6, 1, 1), testNow)

	c := g.Clone()
	*c.Player2 = "acct_mallory"
	*c.Winner.Address = "acct_mallory"

	assert.Equal(t, Address("acct_bob"), *g.Player2)
	assert.Equal(t, Address("acct_alice"), *g.Winner.Address)
}
