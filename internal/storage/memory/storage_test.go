package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dicestake/internal/dependencies/mocks"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = NewWithClock(s.clock, time.Hour)
	s.ctx = context.Background()
}

func (s *StorageSuite) insertGame(id model.GameID) *model.Game {
	game := model.NewGame(id, "acct_alice", model.NewStake(1000), s.clock.Now())
	err := s.storage.Transact(s.ctx, func(tx storage.Tx) error {
		tx.PutGame(game)
		tx.SetGameCount(id)
		tx.ExtendTTL()
		return nil
	})
	s.Require().NoError(err)
	return game
}

// Registry tests

func (s *StorageSuite) TestTransactCommitsGameAndCount() {
	s.insertGame(1)

	game, err := s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(model.GameID(1), game.ID)
	s.Equal(model.Address("acct_alice"), game.Player1)

	count, err := s.storage.GetGameCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameID(1), count)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 42)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestEmptyGameCount() {
	count, err := s.storage.GetGameCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameID(0), count)
}

func (s *StorageSuite) TestTransactRollsBackOnError() {
	boom := errors.New("boom")
	err := s.storage.Transact(s.ctx, func(tx storage.Tx) error {
		tx.PutGame(model.NewGame(1, "acct_alice", model.NewStake(5), s.clock.Now()))
		tx.SetGameCount(1)
		tx.ExtendTTL()
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.storage.GetGame(s.ctx, 1)
	s.ErrorIs(err, model.ErrGameNotFound)
	count, _ := s.storage.GetGameCount(s.ctx)
	s.Equal(model.GameID(0), count)
	ttl, _ := s.storage.InstanceTTL(s.ctx)
	s.Equal(time.Duration(0), ttl)
}

func (s *StorageSuite) TestTxReadsOwnWrites() {
	err := s.storage.Transact(s.ctx, func(tx storage.Tx) error {
		tx.PutGame(model.NewGame(7, "acct_alice", model.NewStake(5), s.clock.Now()))
		tx.SetGameCount(7)

		game, err := tx.GetGame(s.ctx, 7)
		s.Require().NoError(err)
		s.Equal(model.GameID(7), game.ID)

		count, err := tx.GetGameCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(model.GameID(7), count)
		return nil
	})
	s.Require().NoError(err)
}

func (s *StorageSuite) TestReturnedGamesAreCopies() {
	s.insertGame(1)

	game, err := s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err)
	p2 := model.Address("acct_mallory")
	game.Player2 = &p2
	game.IsCompleted = true

	stored, err := s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err)
	s.Nil(stored.Player2)
	s.False(stored.IsCompleted)
}

func (s *StorageSuite) TestExtendTTLSetsLifetime() {
	s.insertGame(1)

	ttl, err := s.storage.InstanceTTL(s.ctx)
	s.Require().NoError(err)
	s.Equal(time.Hour, ttl)

	s.clock.Advance(20 * time.Minute)
	ttl, _ = s.storage.InstanceTTL(s.ctx)
	s.Equal(40*time.Minute, ttl)
}

func (s *StorageSuite) TestWriteRefreshesTTL() {
	s.insertGame(1)
	s.clock.Advance(50 * time.Minute)

	err := s.storage.Transact(s.ctx, func(tx storage.Tx) error {
		game, err := tx.GetGame(s.ctx, 1)
		if err != nil {
			return err
		}
		game.UpdatedAt = s.clock.Now()
		tx.PutGame(game)
		tx.ExtendTTL()
		return nil
	})
	s.Require().NoError(err)

	s.clock.Advance(50 * time.Minute)
	_, err = s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err, "refreshed instance should survive past the original expiry")
}

func (s *StorageSuite) TestInstanceEvictedAfterTTL() {
	s.insertGame(1)
	s.clock.Advance(time.Hour)

	_, err := s.storage.GetGame(s.ctx, 1)
	s.ErrorIs(err, model.ErrGameNotFound)
	count, _ := s.storage.GetGameCount(s.ctx)
	s.Equal(model.GameID(0), count)
}

func (s *StorageSuite) TestTransactRespectsCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := s.storage.Transact(ctx, func(tx storage.Tx) error {
		tx.SetGameCount(3)
		return nil
	})
	s.ErrorIs(err, context.Canceled)
	count, _ := s.storage.GetGameCount(s.ctx)
	s.Equal(model.GameID(0), count)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		Address:     "acct_alice",
		DisplayName: "Alice",
		CreatedAt:   s.clock.Now(),
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "acct_alice")
	s.Require().NoError(err)
	s.Equal(account.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountsSurviveInstanceEviction() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{Address: "acct_alice"})
	s.insertGame(1)
	s.clock.Advance(2 * time.Hour)

	_, err := s.storage.GetAccount(s.ctx, "acct_alice")
	s.NoError(err)
}

// Registered account tests

func (s *StorageSuite) TestSaveAndGetRegisteredAccount() {
	ra := &model.RegisteredAccount{
		Address:      "acct_alice",
		Username:     "alice",
		PasswordHash: "hash123",
	}

	err := s.storage.SaveRegisteredAccount(s.ctx, ra)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredAccount(s.ctx, "acct_alice")
	s.Require().NoError(err)
	s.Equal(ra.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetRegisteredAccountByUsername() {
	ra := &model.RegisteredAccount{Address: "acct_alice", Username: "alice"}
	_ = s.storage.SaveRegisteredAccount(s.ctx, ra)

	retrieved, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Address("acct_alice"), retrieved.Address)
}

func (s *StorageSuite) TestGetRegisteredAccountByUsernameNotFound() {
	_, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
