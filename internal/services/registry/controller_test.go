package registry

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dicestake/internal/dependencies/mocks"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/storage/memory"
	"github.com/mcoot/dicestake/internal/testutil"
)

const (
	alice model.Address = "acct_ALICE"
	bob   model.Address = "acct_BOB"
	carol model.Address = "acct_CAROL"
)

type recordingSink struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recordingSink) Publish(_ context.Context, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]model.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	sink       *recordingSink
	auth       *auth.Service
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.NewWithClock(s.clock, time.Hour)
	s.sink = &recordingSink{}
	s.auth = auth.New(s.storage, s.clock, mocks.NewMockRandom(), auth.DefaultConfig())
	s.ctx = context.Background()
	s.controller = s.newController(DefaultConfig())
}

func (s *ControllerSuite) newController(cfg Config) *Controller {
	return NewController(s.storage, dice.TimestampSource{}, s.clock, s.auth, s.sink, cfg, testutil.NopLogger())
}

func (s *ControllerSuite) as(addr model.Address) context.Context {
	return auth.WithCaller(s.ctx, addr)
}

func (s *ControllerSuite) createGame(creator model.Address, stake int64) model.GameID {
	id, err := s.controller.CreateGame(s.as(creator), creator, model.NewStake(stake))
	s.Require().NoError(err)
	return id
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameAssignsSequentialIDs() {
	s.Equal(model.GameID(1), s.createGame(alice, 100))
	s.Equal(model.GameID(2), s.createGame(bob, 200))
	s.Equal(model.GameID(3), s.createGame(alice, 300))

	count, err := s.controller.GameCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameID(3), count)
}

func (s *ControllerSuite) TestCreateGameRecordsFields() {
	id := s.createGame(alice, 1000)

	game, err := s.controller.ViewGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(id, game.ID)
	s.Equal(alice, game.Player1)
	s.Nil(game.Player2)
	s.Equal("1000", game.StakeAmount.String())
	s.Equal(uint64(0), game.Player1Roll)
	s.Equal(uint64(0), game.Player2Roll)
	s.Nil(game.Winner)
	s.False(game.IsCompleted)
	s.Equal(model.GameStateCreated, game.State())
}

func (s *ControllerSuite) TestCreateGameAcceptsAnyStakeByDefault() {
	for _, stake := range []int64{0, -50} {
		id, err := s.controller.CreateGame(s.as(alice), alice, model.NewStake(stake))
		s.Require().NoError(err)

		game, _ := s.controller.ViewGame(s.ctx, id)
		s.Equal(stake, game.StakeAmount.Big().Int64())
	}
}

func (s *ControllerSuite) TestCreateGameHugeStake() {
	stake, err := model.ParseStake("170141183460469231731687303715884105727")
	s.Require().NoError(err)

	id, err := s.controller.CreateGame(s.as(alice), alice, stake)
	s.Require().NoError(err)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal("170141183460469231731687303715884105727", game.StakeAmount.String())
}

func (s *ControllerSuite) TestCreateGameRequiresCreatorAuth() {
	_, err := s.controller.CreateGame(s.as(bob), alice, model.NewStake(100))
	s.ErrorIs(err, model.ErrAuthenticationFailed)

	_, err = s.controller.CreateGame(s.ctx, alice, model.NewStake(100))
	s.ErrorIs(err, model.ErrAuthenticationFailed)

	count, _ := s.controller.GameCount(s.ctx)
	s.Equal(model.GameID(0), count, "failed create must not consume an id")
	s.Empty(s.sink.types())
}

func (s *ControllerSuite) TestCreateGameEmitsEvent() {
	id := s.createGame(alice, 100)

	s.Require().Len(s.sink.events, 1)
	event := s.sink.events[0]
	s.Equal(model.EventGameCreated, event.Type)
	s.Equal(id, event.GameID)
	s.Equal(alice, event.Address)
	payload, ok := event.Payload.(model.GameCreatedPayload)
	s.Require().True(ok)
	s.Equal("100", payload.StakeAmount.String())
}

// JoinGame tests

func (s *ControllerSuite) TestJoinGameSetsPlayer2() {
	id := s.createGame(alice, 100)

	err := s.controller.JoinGame(s.as(bob), id, bob)
	s.Require().NoError(err)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Require().NotNil(game.Player2)
	s.Equal(bob, *game.Player2)
	s.Equal(model.GameStateJoined, game.State())
	s.Equal("100", game.StakeAmount.String(), "join must not touch the stake")
}

func (s *ControllerSuite) TestJoinGameOverwritesPlayer2() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	s.Require().NoError(s.controller.JoinGame(s.as(carol), id, carol))

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(carol, *game.Player2)

	payload, ok := s.sink.events[2].Payload.(model.PlayerJoinedPayload)
	s.Require().True(ok)
	s.Require().NotNil(payload.Replaced)
	s.Equal(bob, *payload.Replaced)
}

func (s *ControllerSuite) TestJoinGameAllowsSelfJoinByDefault() {
	id := s.createGame(alice, 100)

	s.Require().NoError(s.controller.JoinGame(s.as(alice), id, alice))

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(alice, *game.Player2)
}

func (s *ControllerSuite) TestJoinGameNotFound() {
	err := s.controller.JoinGame(s.as(bob), 42, bob)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestJoinGameCompleted() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	_, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	err = s.controller.JoinGame(s.as(carol), id, carol)
	s.ErrorIs(err, model.ErrGameCompleted)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(bob, *game.Player2)
}

func (s *ControllerSuite) TestJoinGameRequiresJoinerAuth() {
	id := s.createGame(alice, 100)

	err := s.controller.JoinGame(s.as(alice), id, bob)
	s.ErrorIs(err, model.ErrAuthenticationFailed)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Nil(game.Player2)
	s.Equal([]model.EventType{model.EventGameCreated}, s.sink.types())
}

// PlayGame tests

func (s *ControllerSuite) TestPlayGameTie() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	s.clock.SetTimestamp(1000)

	winner, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.True(winner.IsTie())
	s.Nil(winner.Address)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(uint64(10), game.Player1Roll)
	s.Equal(uint64(10), game.Player2Roll)
	s.True(game.IsCompleted)
	s.Require().NotNil(game.Winner)
	s.Equal(model.OutcomeTie, game.Winner.Outcome)
}

func (s *ControllerSuite) TestPlayGamePlayer1Wins() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	s.clock.SetTimestamp(35)

	winner, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(model.OutcomePlayer1, winner.Outcome)
	s.Equal(alice, *winner.Address)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(uint64(12), game.Player1Roll)
	s.Equal(uint64(6), game.Player2Roll)
}

func (s *ControllerSuite) TestPlayGamePlayer2Wins() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	s.clock.SetTimestamp(1700000000)

	winner, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(model.OutcomePlayer2, winner.Outcome)
	s.Equal(bob, *winner.Address)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(uint64(6), game.Player1Roll)
	s.Equal(uint64(10), game.Player2Roll)
	s.Equal(model.GameStateResolved, game.State())
}

func (s *ControllerSuite) TestPlayGameWithoutOpponentByDefault() {
	id := s.createGame(alice, 100)
	s.clock.SetTimestamp(1700000000)

	winner, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(model.OutcomePlayer2, winner.Outcome)
	s.Nil(winner.Address)
}

func (s *ControllerSuite) TestPlayGameTwiceFails() {
	id := s.createGame(alice, 100)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	s.clock.SetTimestamp(35)
	first, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.clock.SetTimestamp(36)
	_, err = s.controller.PlayGame(s.ctx, id)
	s.ErrorIs(err, model.ErrGameCompleted)

	game, _ := s.controller.ViewGame(s.ctx, id)
	s.Equal(first, *game.Winner, "resolution is final")
	s.Equal(uint64(12), game.Player1Roll)
}

func (s *ControllerSuite) TestPlayGameNotFound() {
	_, err := s.controller.PlayGame(s.ctx, 999)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestPlayGameIsDeterministicForTimestamp() {
	a := s.createGame(alice, 1)
	b := s.createGame(alice, 1)
	s.clock.SetTimestamp(1704110400)

	wa, err := s.controller.PlayGame(s.ctx, a)
	s.Require().NoError(err)
	wb, err := s.controller.PlayGame(s.ctx, b)
	s.Require().NoError(err)

	ga, _ := s.controller.ViewGame(s.ctx, a)
	gb, _ := s.controller.ViewGame(s.ctx, b)
	s.Equal(wa.Outcome, wb.Outcome)
	s.Equal(ga.Player1Roll, gb.Player1Roll)
	s.Equal(ga.Player2Roll, gb.Player2Roll)
}

func (s *ControllerSuite) TestPlayGameEmitsCompletedEvent() {
	id := s.createGame(alice, 100)
	s.clock.SetTimestamp(0)
	_, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal([]model.EventType{model.EventGameCreated, model.EventGameCompleted}, s.sink.types())
	payload, ok := s.sink.events[1].Payload.(model.GameCompletedPayload)
	s.Require().True(ok)
	s.Equal(uint64(2), payload.Player1Roll)
	s.Equal(uint64(2), payload.Player2Roll)
	s.True(payload.Winner.IsTie())
}

func (s *ControllerSuite) TestCryptoSourceResolves() {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(5, 5, 0, 0)
	controller := NewController(s.storage, dice.NewCryptoSource(rnd), s.clock, s.auth, nil, DefaultConfig(), testutil.NopLogger())

	id, err := controller.CreateGame(s.as(alice), alice, model.NewStake(1))
	s.Require().NoError(err)

	winner, err := controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.OutcomePlayer1, winner.Outcome)

	game, _ := controller.ViewGame(s.ctx, id)
	s.Equal(uint64(12), game.Player1Roll)
	s.Equal(uint64(2), game.Player2Roll)
}

// ViewGame tests

func (s *ControllerSuite) TestViewGameNotFound() {
	game, err := s.controller.ViewGame(s.ctx, 7)
	s.ErrorIs(err, model.ErrGameNotFound)
	s.Nil(game)
}

func (s *ControllerSuite) TestViewGameDoesNotRefreshTTL() {
	s.createGame(alice, 100)
	s.clock.Advance(30 * time.Minute)

	_, err := s.controller.ViewGame(s.ctx, 1)
	s.Require().NoError(err)

	ttl, _ := s.storage.InstanceTTL(s.ctx)
	s.Equal(30*time.Minute, ttl)
}

// Lifetime tests

func (s *ControllerSuite) TestMutationsRefreshTTL() {
	id := s.createGame(alice, 100)

	s.clock.Advance(45 * time.Minute)
	s.Require().NoError(s.controller.JoinGame(s.as(bob), id, bob))
	ttl, _ := s.storage.InstanceTTL(s.ctx)
	s.Equal(time.Hour, ttl)

	s.clock.Advance(45 * time.Minute)
	_, err := s.controller.PlayGame(s.ctx, id)
	s.Require().NoError(err)
	ttl, _ = s.storage.InstanceTTL(s.ctx)
	s.Equal(time.Hour, ttl)
}

func (s *ControllerSuite) TestRegistryExpiresWithoutActivity() {
	id := s.createGame(alice, 100)
	s.clock.Advance(2 * time.Hour)

	_, err := s.controller.ViewGame(s.ctx, id)
	s.ErrorIs(err, model.ErrGameNotFound)

	// The counter expired with the games, so numbering restarts
	s.Equal(model.GameID(1), s.createGame(bob, 5))
}

// Strict lifecycle tests

func (s *ControllerSuite) TestStrictRejectsNonPositiveStake() {
	controller := s.newController(Config{StrictLifecycle: true})

	_, err := controller.CreateGame(s.as(alice), alice, model.NewStake(0))
	s.ErrorIs(err, model.ErrInvalidStake)
	_, err = controller.CreateGame(s.as(alice), alice, model.NewStake(-1))
	s.ErrorIs(err, model.ErrInvalidStake)

	count, _ := controller.GameCount(s.ctx)
	s.Equal(model.GameID(0), count)
}

func (s *ControllerSuite) TestStrictRejectsRejoinAndSelfJoin() {
	controller := s.newController(Config{StrictLifecycle: true})
	id, err := controller.CreateGame(s.as(alice), alice, model.NewStake(10))
	s.Require().NoError(err)

	s.ErrorIs(controller.JoinGame(s.as(alice), id, alice), model.ErrSelfJoin)
	s.Require().NoError(controller.JoinGame(s.as(bob), id, bob))
	s.ErrorIs(controller.JoinGame(s.as(carol), id, carol), model.ErrAlreadyJoined)

	game, _ := controller.ViewGame(s.ctx, id)
	s.Equal(bob, *game.Player2)
}

func (s *ControllerSuite) TestStrictRejectsPlayWithoutOpponent() {
	controller := s.newController(Config{StrictLifecycle: true})
	id, err := controller.CreateGame(s.as(alice), alice, model.NewStake(10))
	s.Require().NoError(err)

	_, err = controller.PlayGame(s.ctx, id)
	s.ErrorIs(err, model.ErrNoOpponent)

	game, _ := controller.ViewGame(s.ctx, id)
	s.False(game.IsCompleted)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentCreatesGetDistinctIDs() {
	const n = 50
	ids := make([]int, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.controller.CreateGame(s.as(alice), alice, model.NewStake(1))
			if err == nil {
				ids[i] = int(id)
			}
		}()
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		s.Equal(i+1, id)
	}
}
