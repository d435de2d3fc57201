package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/dicestake/internal/dependencies/clock"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// The registry instance is evicted as a whole once its TTL lapses, measured on the clock.
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock
	ttl   time.Duration

	games     map[model.GameID]*model.Game
	gameCount model.GameID
	expiresAt time.Time // zero until the first extension

	accounts           map[model.Address]*model.Account
	registeredAccounts map[model.Address]*model.RegisteredAccount
	usernameIndex      map[string]model.Address
}

// New creates a new in-memory storage instance on the system clock
func New() *Storage {
	return NewWithClock(clock.New(), storage.DefaultInstanceTTL)
}

// NewWithClock creates an in-memory storage whose instance TTL is measured on clk
func NewWithClock(clk clock.Clock, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = storage.DefaultInstanceTTL
	}
	return &Storage{
		clock:              clk,
		ttl:                ttl,
		games:              make(map[model.GameID]*model.Game),
		accounts:           make(map[model.Address]*model.Account),
		registeredAccounts: make(map[model.Address]*model.RegisteredAccount),
		usernameIndex:      make(map[string]model.Address),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Registry operations

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	return s.getGameLocked(id)
}

func (s *Storage) GetGameCount(ctx context.Context) (model.GameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	return s.gameCount, nil
}

func (s *Storage) InstanceTTL(ctx context.Context) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	if s.expiresAt.IsZero() {
		return 0, nil
	}
	return s.expiresAt.Sub(s.clock.Now()), nil
}

func (s *Storage) Transact(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	tx := &memoryTx{
		storage: s,
		games:   make(map[model.GameID]*model.Game),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for id, game := range tx.games {
		s.games[id] = game
	}
	if tx.count != nil {
		s.gameCount = *tx.count
	}
	if tx.extend {
		s.expiresAt = s.clock.Now().Add(s.ttl)
	}
	return nil
}

func (s *Storage) getGameLocked(id model.GameID) (*model.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

// evictExpiredLocked drops the whole registry instance once its lifetime has passed
func (s *Storage) evictExpiredLocked() {
	if s.expiresAt.IsZero() || s.clock.Now().Before(s.expiresAt) {
		return
	}
	s.games = make(map[model.GameID]*model.Game)
	s.gameCount = 0
	s.expiresAt = time.Time{}
}

// memoryTx stages writes until Transact commits them
type memoryTx struct {
	storage *Storage
	games   map[model.GameID]*model.Game
	count   *model.GameID
	extend  bool
}

func (tx *memoryTx) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if game, ok := tx.games[id]; ok {
		return game.Clone(), nil
	}
	return tx.storage.getGameLocked(id)
}

func (tx *memoryTx) GetGameCount(ctx context.Context) (model.GameID, error) {
	if tx.count != nil {
		return *tx.count, nil
	}
	return tx.storage.gameCount, nil
}

func (tx *memoryTx) PutGame(game *model.Game) {
	tx.games[game.ID] = game.Clone()
}

func (tx *memoryTx) SetGameCount(count model.GameID) {
	tx.count = &count
}

func (tx *memoryTx) ExtendTTL() {
	tx.extend = true
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *account
	s.accounts[account.Address] = &a
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, address model.Address) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[address]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ra
	s.registeredAccounts[ra.Address] = &r
	s.usernameIndex[ra.Username] = ra.Address
	return nil
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, address model.Address) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ra, ok := s.registeredAccounts[address]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	r := *ra
	return &r, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	ra, ok := s.registeredAccounts[address]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	r := *ra
	return &r, nil
}
