package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfigFile(t *testing.T, path string) Config {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, json.Unmarshal(raw, &cfg))
	return cfg
}

func TestManagerCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv("FORECASTGO_BACKEND_URL", "http://from-env:9000")

	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	require.FileExists(t, path)

	cfg := mgr.Get()
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL, "env must not be baked into the file")
	assert.Equal(t, filepath.Join(dir, "data", "preferences.db"), cfg.PreferencesDB)
	assert.Equal(t, cfg, readConfigFile(t, path))
}

func TestManagerLoadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "backend_url": "http://forecast.internal:8080",
  "default_asset": "eth",
  "default_period": 90
}`), 0o644))

	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)

	cfg := mgr.Get()
	assert.Equal(t, "http://forecast.internal:8080", cfg.BackendURL)
	assert.Equal(t, "ETH", cfg.DefaultAsset)
	assert.Equal(t, 90, cfg.DefaultPeriod)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 3, cfg.BannerTimeoutSeconds)
	assert.Equal(t, filepath.Join(dir, "data", "preferences.db"), cfg.PreferencesDB)
	assert.NoError(t, cfg.Validate())
}

func TestManagerRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend_url":`), 0o644))

	_, err := NewManager(WithConfigPath(path))
	assert.ErrorContains(t, err, "load config")
}

func TestManagerSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)

	cfg, err := mgr.Set("backend_url", "http://forecast.internal:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://forecast.internal:8080", cfg.BackendURL)
	assert.Equal(t, cfg, mgr.Get())

	reopened, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, "http://forecast.internal:8080", reopened.Get().BackendURL)
}

func TestManagerSetRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	before := mgr.Get()

	_, err = mgr.Set("default_period", "14")
	assert.Error(t, err)
	_, err = mgr.Set("backend_url", "ftp://nope")
	assert.Error(t, err)
	_, err = mgr.Set("colour", "blue")
	assert.ErrorContains(t, err, "unknown config key")

	assert.Equal(t, before, mgr.Get())
	assert.Equal(t, before, readConfigFile(t, path))
}

func TestManagerReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	_, err = mgr.Set("default_asset", "sol")
	require.NoError(t, err)

	cfg, err := mgr.Reset()
	require.NoError(t, err)
	assert.Equal(t, "BTC", cfg.DefaultAsset)
	assert.Equal(t, cfg, readConfigFile(t, path))
}

func TestManagerUpdateNotifiesWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []Config
	require.NoError(t, mgr.Watch(ctx, func(cfg Config) { got = append(got, cfg) }))

	_, err = mgr.Set("default_period", "90")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].DefaultPeriod)
}

func TestManagerWatchReloadsOutsideWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	require.NoError(t, mgr.Watch(ctx, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}))

	other, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	_, err = other.Set("backend_url", "http://changed.example:5000")
	require.NoError(t, err)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "http://changed.example:5000", cfg.BackendURL)
		assert.Equal(t, "http://changed.example:5000", mgr.Get().BackendURL)
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}
}

func TestManagerWatchIgnoresInvalidEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	before := mgr.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan Config, 1)
	require.NoError(t, mgr.Watch(ctx, func(cfg Config) { fired <- cfg }))

	bad := before
	bad.DefaultPeriod = 14
	require.NoError(t, writeConfigFile(path, bad))

	select {
	case cfg := <-fired:
		t.Fatalf("invalid config was applied: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, before, mgr.Get())
}
