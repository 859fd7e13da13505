package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MONGO_CHANGE_STREAMS", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_POLL_INTERVAL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, "namma_kodai", cfg.MongoDB)
	assert.Equal(t, 10*time.Second, cfg.AdminPollInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.UserTokenTTL)
	assert.Equal(t, 3*time.Hour, cfg.ExplorerTokenTTL)
	assert.True(t, cfg.DefaultSecrets())
}

func TestLoadMongoRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("ADMIN_POLL_INTERVAL", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGOURI", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("MONGOURI", "mongodb://localhost:27017")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MONGO_CHANGE_STREAMS", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.com ,")
	t.Setenv("ADMIN_POLL_INTERVAL", "15")
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("ADMIN_JWT_SECRET", "s2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.AdminPollInterval)
	assert.False(t, cfg.DefaultSecrets())

	t.Setenv("ADMIN_POLL_INTERVAL", "2m")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.AdminPollInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MONGO_CHANGE_STREAMS", "")
	t.Setenv("ADMIN_POLL_INTERVAL", "-3")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("ADMIN_POLL_INTERVAL", "")
	t.Setenv("MONGO_CHANGE_STREAMS", "true")
	_, err = Load()
	assert.Error(t, err)
}
