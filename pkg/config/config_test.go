package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE", "memory")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.App.Store)
	assert.Equal(t, 20, cfg.History.DefaultLimit)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.StatsTTL())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HISTORY_MAX_LIMIT", "50")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 50, cfg.History.MaxLimit)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_StoreInvalido(t *testing.T) {
	t.Setenv("STORE", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{User: "app", Password: "p@ss:word", Host: "db", Port: 5432, DBName: "produccion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/produccion?sslmode=disable", c.ConnectionString())
}
