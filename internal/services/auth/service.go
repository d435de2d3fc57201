package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/dicestake/internal/dependencies/clock"
	"github.com/mcoot/dicestake/internal/dependencies/random"
	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// AddressPrefix is prepended to every generated account address
const AddressPrefix = "acct_"

const addressLength = 24

// Session represents an authenticated session
type Session struct {
	Token     string
	Address   model.Address
	Account   model.Account
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles accounts, sessions and the caller capability check
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, rnd random.Random, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		random:          rnd,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuestAccount creates an anonymous account and session
func (s *Service) CreateGuestAccount(ctx context.Context, displayName string) (*Session, error) {
	account := &model.Account{
		Address:     s.generateAddress(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createSession(account)
}

// RegisterAccount creates an account with login credentials and a session
func (s *Service) RegisterAccount(ctx context.Context, username, password, displayName string) (*Session, error) {
	_, err := s.storage.GetRegisteredAccountByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	address := s.generateAddress()
	now := s.clock.Now()

	account := &model.Account{
		Address:     address,
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}

	registered := &model.RegisteredAccount{
		Address:      address,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	if err := s.storage.SaveRegisteredAccount(ctx, registered); err != nil {
		return nil, err
	}

	return s.createSession(account)
}

// Login authenticates a registered account and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	ra, err := s.storage.GetRegisteredAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ra.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.storage.GetAccount(ctx, ra.Address)
	if err != nil {
		return nil, err
	}

	return s.createSession(account)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession ends a session; unknown tokens are ignored
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// RequireAuth succeeds only when the authenticated caller in ctx is addr.
// A missing caller counts as a mismatch.
func (s *Service) RequireAuth(ctx context.Context, addr model.Address) error {
	caller, ok := CallerFrom(ctx)
	if !ok || caller != addr {
		return model.ErrAuthenticationFailed
	}
	return nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) createSession(account *model.Account) (*Session, error) {
	now := s.clock.Now()

	session := &Session{
		Token:     s.generateToken(),
		Address:   account.Address,
		Account:   *account,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

func (s *Service) generateAddress() model.Address {
	return model.Address(AddressPrefix + s.random.String(addressLength, random.AddressAlphabet))
}

// generateToken is always crypto random, independent of the injected source
func (s *Service) generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}

type callerKey struct{}

// WithCaller returns a context carrying the authenticated caller's address
func WithCaller(ctx context.Context, addr model.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, addr)
}

// CallerFrom returns the authenticated caller, if any
func CallerFrom(ctx context.Context) (model.Address, bool) {
	addr, ok := ctx.Value(callerKey{}).(model.Address)
	return addr, ok
}
