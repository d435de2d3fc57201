package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.InstanceTTL <= 0 {
		cfg.InstanceTTL = storage.DefaultInstanceTTL
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Registry operations

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getGame(ctx, s.client, id)
}

func (s *Storage) GetGameCount(ctx context.Context) (model.GameID, error) {
	return getGameCount(ctx, s.client)
}

func (s *Storage) InstanceTTL(ctx context.Context) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, instanceKey()).Result()
	if err != nil {
		return 0, err
	}
	// -1 (no expiry) and -2 (no key) both mean there is no lifetime to report
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Transact watches the instance key, runs fn against it and commits the staged writes in
// one MULTI/EXEC. A concurrent write to the instance aborts with storage.ErrConflict.
func (s *Storage) Transact(ctx context.Context, fn func(tx storage.Tx) error) error {
	key := instanceKey()

	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &redisTx{
			reader: rtx,
			games:  make(map[model.GameID]*model.Game),
		}
		if err := fn(tx); err != nil {
			return err
		}
		if !tx.dirty() {
			return nil
		}

		fields := make([]any, 0, 2*len(tx.games)+2)
		for id, game := range tx.games {
			data, err := json.Marshal(game)
			if err != nil {
				return err
			}
			fields = append(fields, gameField(id), data)
		}
		if tx.count != nil {
			fields = append(fields, countField, strconv.FormatUint(uint64(*tx.count), 10))
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(fields) > 0 {
				pipe.HSet(ctx, key, fields...)
			}
			if tx.extend {
				pipe.PExpire(ctx, key, s.cfg.InstanceTTL)
			}
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return storage.ErrConflict
	}
	return err
}

// hashReader is the subset of commands used for registry reads, shared by the client
// and a watched transaction
type hashReader interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func getGame(ctx context.Context, r hashReader, id model.GameID) (*model.Game, error) {
	data, err := r.HGet(ctx, instanceKey(), gameField(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func getGameCount(ctx context.Context, r hashReader) (model.GameID, error) {
	count, err := r.HGet(ctx, instanceKey(), countField).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return model.GameID(count), nil
}

// redisTx reads through the watched connection and stages writes for EXEC
type redisTx struct {
	reader hashReader
	games  map[model.GameID]*model.Game
	count  *model.GameID
	extend bool
}

func (tx *redisTx) dirty() bool {
	return len(tx.games) > 0 || tx.count != nil || tx.extend
}

func (tx *redisTx) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if game, ok := tx.games[id]; ok {
		return game.Clone(), nil
	}
	return getGame(ctx, tx.reader, id)
}

func (tx *redisTx) GetGameCount(ctx context.Context) (model.GameID, error) {
	if tx.count != nil {
		return *tx.count, nil
	}
	return getGameCount(ctx, tx.reader)
}

func (tx *redisTx) PutGame(game *model.Game) {
	tx.games[game.ID] = game.Clone()
}

func (tx *redisTx) SetGameCount(count model.GameID) {
	tx.count = &count
}

func (tx *redisTx) ExtendTTL() {
	tx.extend = true
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Apply TTL only for guest accounts
	var ttl time.Duration
	if account.IsGuest {
		ttl = s.cfg.GuestAccountTTL
	}

	return s.client.Set(ctx, accountKey(account.Address), data, ttl).Err()
}

func (s *Storage) GetAccount(ctx context.Context, address model.Address) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	data, err := json.Marshal(ra)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredAccountKey(ra.Address), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(ra.Username), string(ra.Address), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, address model.Address) (*model.RegisteredAccount, error) {
	data, err := s.client.Get(ctx, registeredAccountKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var ra model.RegisteredAccount
	if err := json.Unmarshal(data, &ra); err != nil {
		return nil, err
	}
	return &ra, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	// Look up address from username index
	address, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetRegisteredAccount(ctx, model.Address(address))
}
