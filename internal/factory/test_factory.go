package factory

import (
	"time"

	"github.com/mcoot/dicestake/internal/dependencies/mocks"
	"github.com/mcoot/dicestake/internal/dice"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/services/registry"
	"github.com/mcoot/dicestake/internal/storage"
	"github.com/mcoot/dicestake/internal/storage/memory"
	"github.com/mcoot/dicestake/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// MemoryStorage is the concrete store behind App.Storage
	MemoryStorage *memory.Storage

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on memory storage with a mocked clock and random source.
// Dice come from the timestamp source, so the mock clock decides every roll.
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(registry.DefaultConfig())
}

// NewTestAppWithConfig is NewTestApp with a custom registry configuration
func NewTestAppWithConfig(registryCfg registry.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.NewWithClock(mockClock, storage.DefaultInstanceTTL)

	app := newWithDependencies(store, mockClock, mockRandom, dice.TimestampSource{}, auth.DefaultConfig(), registryCfg, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MemoryStorage: store,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
	}
}
