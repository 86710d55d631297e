package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, cfg.Cache.TTL)
	require.Equal(t, 50, cfg.Quotes.MaxBatch)
	require.Equal(t, 60*time.Second, cfg.Poll.BaseInterval)
	require.Equal(t, 180*time.Second, cfg.Poll.MaxInterval)
	require.Equal(t, "memory", cfg.Store.Type)
	require.Equal(t, "log", cfg.Notify.Type)
	require.Empty(t, cfg.Providers.Finnhub.APIKey, "missing key is not an error")
}

func TestLoadInvalidStoreType(t *testing.T) {
	path := writeConfig(t, "environment: test\nstore:\n  type: dynamo\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "store.type")
}

func TestLoadKafkaNotifyRequiresBrokers(t *testing.T) {
	path := writeConfig(t, "environment: test\nnotify:\n  type: kafka\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "brokers")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("PRIMARY_API_KEY", "k-123")
	t.Setenv("CACHE_TTL_MS", "30000")
	t.Setenv("ALLOWLIST_SYMBOLS", "AAPL, MSFT")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)
	require.Equal(t, "k-123", cfg.Providers.Finnhub.APIKey)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.Equal(t, []string{"AAPL", "MSFT"}, cfg.Quotes.Allowlist)
}

func TestLoadWithEnvIgnoresBadTTL(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("CACHE_TTL_MS", "not-a-number")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, cfg.Cache.TTL)
}
