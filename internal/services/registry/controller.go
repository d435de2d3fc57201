package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/dicestake/internal/dependencies/clock"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/storage"
)

// Authorizer checks that the caller of an operation controls an address
type Authorizer interface {
	RequireAuth(ctx context.Context, addr model.Address) error
}

// EventSink receives events after a transition has been committed.
// Publish must not block the caller.
type EventSink interface {
	Publish(ctx context.Context, event model.Event)
}

type nopSink struct{}

func (nopSink) Publish(context.Context, model.Event) {}

// Config holds configuration for the registry
type Config struct {
	// StrictLifecycle rejects non-positive stakes, re-joins, self-joins and
	// resolving a game nobody has joined. Off by default.
	StrictLifecycle bool
}

// DefaultConfig returns the permissive configuration
func DefaultConfig() Config {
	return Config{}
}

// Controller owns the game records and the game counter
type Controller struct {
	storage storage.Storage
	dice    dice.Source
	clock   clock.Clock
	auth    Authorizer
	events  EventSink
	cfg     Config
	logger  *slog.Logger
}

// NewController creates a new registry Controller. A nil sink discards events.
func NewController(
	storage storage.Storage,
	source dice.Source,
	clock clock.Clock,
	auth Authorizer,
	events EventSink,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if events == nil {
		events = nopSink{}
	}
	logger = logger.With(slog.String("component", "registry"))
	if source.Insecure() {
		logger.Warn("dice source is predictable from the ledger timestamp, do not use for real stakes",
			slog.String("dice_source", source.Name()),
		)
	}
	return &Controller{
		storage: storage,
		dice:    source,
		clock:   clock,
		auth:    auth,
		events:  events,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateGame records a new open game owned by creator and returns its ID
func (c *Controller) CreateGame(ctx context.Context, creator model.Address, stake model.Stake) (model.GameID, error) {
	if err := c.auth.RequireAuth(ctx, creator); err != nil {
		return 0, err
	}
	if c.cfg.StrictLifecycle && !stake.IsPositive() {
		return 0, model.ErrInvalidStake
	}

	now := c.clock.Now()
	var game *model.Game

	err := c.storage.Transact(ctx, func(tx storage.Tx) error {
		count, err := tx.GetGameCount(ctx)
		if err != nil {
			return err
		}

		game = model.NewGame(count+1, creator, stake, now)
		tx.PutGame(game)
		tx.SetGameCount(game.ID)
		tx.ExtendTTL()
		return nil
	})
	if err != nil {
		c.logFailure("create game", 0, err)
		return 0, err
	}

	c.logger.Info("game created",
		slog.Uint64("game_id", uint64(game.ID)),
		slog.String("player1", string(creator)),
		slog.String("stake_amount", stake.String()),
	)
	c.events.Publish(ctx, model.Event{
		Type:      model.EventGameCreated,
		Timestamp: now,
		GameID:    game.ID,
		Address:   creator,
		Payload: model.GameCreatedPayload{
			Player1:     creator,
			StakeAmount: stake,
		},
	})

	return game.ID, nil
}

// JoinGame seats joiner as the second player. Without strict lifecycle an existing
// second player is replaced, and the creator may join their own game.
func (c *Controller) JoinGame(ctx context.Context, id model.GameID, joiner model.Address) error {
	if err := c.auth.RequireAuth(ctx, joiner); err != nil {
		return err
	}

	now := c.clock.Now()
	var replaced *model.Address

	err := c.storage.Transact(ctx, func(tx storage.Tx) error {
		game, err := tx.GetGame(ctx, id)
		if err != nil {
			return err
		}
		if game.IsCompleted {
			return model.ErrGameCompleted
		}
		if c.cfg.StrictLifecycle {
			if game.HasOpponent() {
				return model.ErrAlreadyJoined
			}
			if game.Player1 == joiner {
				return model.ErrSelfJoin
			}
		}

		replaced = game.Player2
		p2 := joiner
		game.Player2 = &p2
		game.UpdatedAt = now
		tx.PutGame(game)
		tx.ExtendTTL()
		return nil
	})
	if err != nil {
		c.logFailure("join game", id, err)
		return err
	}

	attrs := []any{
		slog.Uint64("game_id", uint64(id)),
		slog.String("player2", string(joiner)),
	}
	if replaced != nil {
		attrs = append(attrs, slog.String("replaced", string(*replaced)))
	}
	c.logger.Info("player joined", attrs...)

	c.events.Publish(ctx, model.Event{
		Type:      model.EventPlayerJoined,
		Timestamp: now,
		GameID:    id,
		Address:   joiner,
		Payload: model.PlayerJoinedPayload{
			Player2:  joiner,
			Replaced: replaced,
		},
	})

	return nil
}

// PlayGame rolls the dice and fixes the winner. Anyone may resolve a game.
func (c *Controller) PlayGame(ctx context.Context, id model.GameID) (model.Winner, error) {
	now := c.clock.Now()
	ts := clock.Timestamp(c.clock)
	var game *model.Game
	var winner model.Winner

	err := c.storage.Transact(ctx, func(tx storage.Tx) error {
		var err error
		game, err = tx.GetGame(ctx, id)
		if err != nil {
			return err
		}
		if game.IsCompleted {
			return model.ErrGameCompleted
		}
		if c.cfg.StrictLifecycle && !game.HasOpponent() {
			return model.ErrNoOpponent
		}

		winner = game.Resolve(c.dice.Roll(ts), now)
		tx.PutGame(game)
		tx.ExtendTTL()
		return nil
	})
	if err != nil {
		c.logFailure("play game", id, err)
		return model.Winner{}, err
	}

	c.logger.Info("game completed",
		slog.Uint64("game_id", uint64(id)),
		slog.Uint64("ledger_timestamp", ts),
		slog.String("dice_source", c.dice.Name()),
		slog.Uint64("player1_roll", game.Player1Roll),
		slog.Uint64("player2_roll", game.Player2Roll),
		slog.String("outcome", string(winner.Outcome)),
		slog.String("winner", winner.String()),
	)
	c.events.Publish(ctx, model.Event{
		Type:      model.EventGameCompleted,
		Timestamp: now,
		GameID:    id,
		Payload: model.GameCompletedPayload{
			Player1Roll: game.Player1Roll,
			Player2Roll: game.Player2Roll,
			Winner:      winner,
		},
	})

	return winner, nil
}

// ViewGame returns a game by ID. It does not refresh the registry lifetime.
func (c *Controller) ViewGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// GameCount returns the last assigned game ID, 0 when no game exists
func (c *Controller) GameCount(ctx context.Context) (model.GameID, error) {
	return c.storage.GetGameCount(ctx)
}

// logFailure logs storage failures loudly and domain rejections quietly
func (c *Controller) logFailure(op string, id model.GameID, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.Any("error", err),
	}
	if id != 0 {
		attrs = append(attrs, slog.Uint64("game_id", uint64(id)))
	}

	switch {
	case errors.Is(err, storage.ErrConflict):
		c.logger.Warn("registry write conflict", attrs...)
	case isDomainError(err):
		c.logger.Debug("registry operation rejected", attrs...)
	default:
		c.logger.Error("registry operation failed", attrs...)
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		model.ErrGameNotFound,
		model.ErrGameCompleted,
		model.ErrAlreadyJoined,
		model.ErrSelfJoin,
		model.ErrNoOpponent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ControllerInterface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, creator model.Address, stake model.Stake) (model.GameID, error)
	JoinGame(ctx context.Context, id model.GameID, joiner model.Address) error
	PlayGame(ctx context.Context, id model.GameID) (model.Winner, error)
	ViewGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GameCount(ctx context.Context) (model.GameID, error)
}

var _ ControllerInterface = (*Controller)(nil)
