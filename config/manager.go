package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Manager owns the JSON config file. It holds the file's values only; env
// overrides and flags are layered on by callers. Writes go through a temp file
// and rename, and Watch picks up edits made by other processes, such as a
// second `forecastgo config set` while the dashboard is open.
type Manager struct {
	path     string
	debounce time.Duration

	mu       sync.RWMutex
	cfg      Config
	log      zerolog.Logger
	watching bool
	onChange func(Config)
}

type ManagerOption func(*Manager)

func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

func WithDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager opens the config file, writing the defaults when it is missing.
// The loaded values are not validated here so that `config set` can still
// repair a bad file.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		debounce: 300 * time.Millisecond,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "config").Logger()

	if m.path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		m.path = p
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	cfg, err := m.open()
	if err != nil {
		return nil, err
	}
	m.cfg = cfg
	return m, nil
}

func (m *Manager) open() (Config, error) {
	var cfg Config
	err := loadConfigFromFile(m.path, &cfg)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		cfg = *baseConfig(filepath.Dir(m.path))
		if err := writeConfigFile(m.path, cfg); err != nil {
			return Config{}, fmt.Errorf("write initial config: %w", err)
		}
		m.log.Info().Str("path", m.path).Msg("config created")
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("load config: %w", err)
	}
}

func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) Path() string {
	return m.path
}

// SetLogger replaces the logger. Call it before Watch.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.mu.Lock()
	m.log = l.With().Str("component", "config").Logger()
	m.mu.Unlock()
}

// Set assigns one key and saves the file.
func (m *Manager) Set(key, value string) (Config, error) {
	cfg := m.Get()
	if err := cfg.Set(key, value); err != nil {
		return Config{}, err
	}
	if err := m.Update(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Reset saves the built-in defaults over the file.
func (m *Manager) Reset() (Config, error) {
	cfg := *baseConfig(filepath.Dir(m.path))
	if err := m.Update(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Update validates and saves cfg, then notifies the Watch callback. Saving an
// unchanged config writes nothing.
func (m *Manager) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if reflect.DeepEqual(m.cfg, cfg) {
		m.mu.Unlock()
		return nil
	}
	if err := writeConfigFile(m.path, cfg); err != nil {
		m.mu.Unlock()
		return err
	}
	m.cfg = cfg
	cb := m.onChange
	log := m.log
	m.mu.Unlock()

	log.Info().Str("path", m.path).Msg("config saved")
	if cb != nil {
		cb(cfg)
	}
	return nil
}

// Watch reloads the file after outside edits settle for the debounce window
// and passes valid, changed values to onChange. It returns once the watcher is
// installed; the loop stops with ctx.
func (m *Manager) Watch(ctx context.Context, onChange func(Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = onChange
	if m.watching {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	m.watching = true

	go m.watch(ctx, w)
	return nil
}

func (m *Manager) watch(ctx context.Context, w *fsnotify.Watcher) {
	defer func() {
		w.Close()
		m.mu.Lock()
		m.watching = false
		m.mu.Unlock()
	}()

	settle := time.NewTimer(m.debounce)
	settle.Stop()
	defer settle.Stop()

	target := filepath.Clean(m.path)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle.Reset(m.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.logger().Warn().Err(err).Msg("config watcher error")
		case <-settle.C:
			m.reload()
		}
	}
}

func (m *Manager) logger() zerolog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.log
}

func (m *Manager) reload() {
	log := m.logger()

	var cfg Config
	if err := loadConfigFromFile(m.path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", m.path).Msg("config file removed, keeping current values")
			return
		}
		log.Error().Err(err).Str("path", m.path).Msg("config reload failed")
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Warn().Err(err).Msg("ignoring invalid config on disk")
		return
	}

	m.mu.Lock()
	if reflect.DeepEqual(m.cfg, cfg) {
		m.mu.Unlock()
		return
	}
	m.cfg = cfg
	cb := m.onChange
	m.mu.Unlock()

	log.Info().Str("backend_url", cfg.BackendURL).Msg("config reloaded")
	if cb != nil {
		cb(cfg)
	}
}

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, appDirName, "config.json"), nil
}

func writeConfigFile(path string, cfg Config) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "cfg-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	fail := func(step string, err error) error {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", step, err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&cfg); err != nil {
		return fail("encode config", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("flush config", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
