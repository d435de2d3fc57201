package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dicestake/internal/storage"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, "timestamp", cfg.DiceSource)
	assert.False(t, cfg.StrictLifecycle)
	assert.Equal(t, storage.DefaultInstanceTTL, cfg.InstanceTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DICEGAME_PORT":             "9090",
		"DICEGAME_STORAGE_TYPE":     "redis",
		"DICEGAME_REDIS_URL":        "redis://localhost:6379/0",
		"DICEGAME_DICE_SOURCE":      "crypto",
		"DICEGAME_STRICT_LIFECYCLE": "true",
		"DICEGAME_INSTANCE_TTL":     "1h",
		"DICEGAME_LOG_LEVEL":        "DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "crypto", cfg.DiceSource)
	assert.True(t, cfg.StrictLifecycle)
	assert.Equal(t, time.Hour, cfg.InstanceTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"redis without url", map[string]string{"DICEGAME_STORAGE_TYPE": "redis"}},
		{"unknown storage", map[string]string{"DICEGAME_STORAGE_TYPE": "postgres"}},
		{"unknown dice source", map[string]string{"DICEGAME_DICE_SOURCE": "oracle"}},
		{"bad port", map[string]string{"DICEGAME_PORT": "70000"}},
		{"unparseable bool", map[string]string{"DICEGAME_STRICT_LIFECYCLE": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}
