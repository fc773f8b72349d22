package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/api"
	"github.com/dyike/ForecastGo/internal/storage"
	"github.com/dyike/ForecastGo/pkg/logger"
)

// app is what every command runs against. It is built in PersistentPreRunE
// and torn down in PersistentPostRunE.
type app struct {
	configPath string
	backendURL string
	debug      bool

	manager *config.Manager
	cfg     config.Config
	log     zerolog.Logger
	store   *storage.Store
	client  *api.Client
	closers []io.Closer
}

// setup loads configuration, opens the logger and preference store, and
// builds the backend client. The dashboard logs to the log file so the
// screen stays clean; subcommands log to stderr.
func (a *app) setup(toFile bool) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := a.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	lc := logger.Config{Level: a.cfg.LogLevel, Pretty: !toFile}
	if toFile {
		lc.File = a.cfg.LogFile
	}
	log, closer, err := logger.Open(lc)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closer)
	a.log = log
	logger.SetGlobalLogger(log)

	store, err := storage.NewStore(a.cfg.PreferencesDB, log)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	a.client = api.New(a.cfg.BackendURL, a.cfg.RequestTimeout(), log)
	a.log.Debug().Str("backend", a.cfg.BackendURL).Str("config", a.manager.Path()).Msg("ready")
	return nil
}

// loadConfig opens the config file, creating it with defaults when missing.
func (a *app) loadConfig() error {
	var opts []config.ManagerOption
	if a.configPath != "" {
		opts = append(opts, config.WithConfigPath(a.configPath))
	}
	mgr, err := config.NewManager(opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.manager = mgr
	a.cfg = a.effective(mgr.Get())
	return nil
}

// effective layers env vars and flags over the stored config.
func (a *app) effective(cfg config.Config) config.Config {
	cfg.ApplyEnv()
	if a.backendURL != "" {
		cfg.BackendURL = strings.TrimRight(a.backendURL, "/")
	}
	if a.debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	return cfg
}

func (a *app) teardown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// needsApp reports whether cmd runs against the backend and stores. The
// config subcommands manage the file themselves.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["standalone"] == "true" {
			return false
		}
	}
	return true
}
