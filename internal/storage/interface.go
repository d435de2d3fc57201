package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/dicestake/internal/model"
)

// ErrConflict is returned when a concurrent writer changed the registry during a transaction.
// The transaction wrote nothing. It is not retried.
var ErrConflict = errors.New("registry modified concurrently")

// DefaultInstanceTTL is the lifetime given to the registry instance on every write:
// 10000 ledgers at a 5 second close time.
const DefaultInstanceTTL = 10000 * 5 * time.Second

// Storage defines the interface for data persistence
type Storage interface {
	// Registry operations.
	// Games and the game counter live in one instance that shares a single TTL.
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameCount(ctx context.Context) (model.GameID, error)

	// Transact runs fn with exclusive, atomic access to the registry instance.
	// Writes staged on the Tx are committed only if fn returns nil.
	Transact(ctx context.Context, fn func(tx Tx) error) error

	// InstanceTTL reports the remaining lifetime of the registry instance; 0 if it has none
	InstanceTTL(ctx context.Context) (time.Duration, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, address model.Address) (*model.Account, error)

	// Registered account operations
	SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error
	GetRegisteredAccount(ctx context.Context, address model.Address) (*model.RegisteredAccount, error)
	GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error)
}

// Tx is a registry transaction. Reads see the transaction's own staged writes.
type Tx interface {
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameCount(ctx context.Context) (model.GameID, error)

	PutGame(game *model.Game)
	SetGameCount(count model.GameID)

	// ExtendTTL renews the instance lifetime when the transaction commits
	ExtendTTL()
}
