package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dyike/ForecastGo/consts"
)

const appDirName = "ForecastGo"

type Config struct {
	BackendURL            string `json:"backend_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`

	DataDir       string `json:"data_dir"`
	PreferencesDB string `json:"preferences_db"`
	LogFile       string `json:"log_file"`

	DefaultAsset         string `json:"default_asset"`
	DefaultPeriod        int    `json:"default_period"`
	BannerTimeoutSeconds int    `json:"banner_timeout_seconds"`

	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`
}

// DefaultConfig returns defaults rooted in the user config dir, overlaid with
// .env and FORECASTGO_* environment variables.
func DefaultConfig() *Config {
	return DefaultConfigWithRoot(defaultRoot())
}

// DefaultConfigWithRoot is DefaultConfig with data and logs kept under root.
func DefaultConfigWithRoot(root string) *Config {
	cfg := baseConfig(root)

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.ApplyEnv()
	return cfg
}

// baseConfig holds the built-in defaults without any environment overlay.
func baseConfig(root string) *Config {
	dataDir := filepath.Join(root, "data")
	return &Config{
		BackendURL:            "http://localhost:5000",
		RequestTimeoutSeconds: 30,

		DataDir:       dataDir,
		PreferencesDB: filepath.Join(dataDir, "preferences.db"),
		LogFile:       filepath.Join(root, "logs", "forecastgo.log"),

		DefaultAsset:         consts.DefaultAsset,
		DefaultPeriod:        consts.DefaultPeriod,
		BannerTimeoutSeconds: 3,

		LogLevel: "info",
		Debug:    false,
	}
}

// loadConfigFromFile reads the JSON file at path into cfg. Keys missing from
// the file keep their defaults, rooted next to the file.
func loadConfigFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	loaded := baseConfig(filepath.Dir(path))
	if err := json.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	loaded.DefaultAsset = strings.ToUpper(loaded.DefaultAsset)
	*cfg = *loaded
	return nil
}

func defaultRoot() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName)
	}
	currentDir, _ := os.Getwd()
	return currentDir
}

// ApplyEnv overrides fields from FORECASTGO_* environment variables.
func (c *Config) ApplyEnv() {
	if val := os.Getenv("FORECASTGO_BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("FORECASTGO_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RequestTimeoutSeconds = v
		}
	}
	if val := os.Getenv("FORECASTGO_DATA_DIR"); val != "" {
		c.DataDir = val
		c.PreferencesDB = filepath.Join(val, "preferences.db")
	}
	if val := os.Getenv("FORECASTGO_DEFAULT_ASSET"); val != "" {
		c.DefaultAsset = strings.ToUpper(val)
	}
	if val := os.Getenv("FORECASTGO_DEFAULT_PERIOD"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DefaultPeriod = v
		}
	}
	if val := os.Getenv("FORECASTGO_BANNER_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.BannerTimeoutSeconds = v
		}
	}
	if val := os.Getenv("FORECASTGO_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("FORECASTGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// SettableKeys lists the keys accepted by Set, in display order.
var SettableKeys = []string{
	"backend_url",
	"request_timeout_seconds",
	"default_asset",
	"default_period",
	"banner_timeout_seconds",
	"log_level",
	"debug",
}

// Set assigns one field by its JSON key. The result is not validated.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	atoi := func() (int, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", key, value)
		}
		return v, nil
	}

	switch key {
	case "backend_url":
		c.BackendURL = strings.TrimRight(value, "/")
	case "request_timeout_seconds":
		v, err := atoi()
		if err != nil {
			return err
		}
		c.RequestTimeoutSeconds = v
	case "default_asset":
		c.DefaultAsset = strings.ToUpper(value)
	case "default_period":
		v, err := atoi()
		if err != nil {
			return err
		}
		c.DefaultPeriod = v
	case "banner_timeout_seconds":
		v, err := atoi()
		if err != nil {
			return err
		}
		c.BannerTimeoutSeconds = v
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "debug":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %q is not a boolean", value)
		}
		c.Debug = v
	default:
		return fmt.Errorf("unknown config key %q (one of %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}

// Value reads one field by the key Set accepts.
func (c Config) Value(key string) (string, bool) {
	switch key {
	case "backend_url":
		return c.BackendURL, true
	case "request_timeout_seconds":
		return strconv.Itoa(c.RequestTimeoutSeconds), true
	case "default_asset":
		return c.DefaultAsset, true
	case "default_period":
		return strconv.Itoa(c.DefaultPeriod), true
	case "banner_timeout_seconds":
		return strconv.Itoa(c.BannerTimeoutSeconds), true
	case "log_level":
		return c.LogLevel, true
	case "debug":
		return strconv.FormatBool(c.Debug), true
	}
	return "", false
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) BannerTimeout() time.Duration {
	return time.Duration(c.BannerTimeoutSeconds) * time.Second
}

// Validate checks the fields the client cannot run without.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(strings.TrimSpace(c.BackendURL))
	switch {
	case c.BackendURL == "":
		errs = append(errs, errors.New("backend_url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("backend_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("backend_url: unsupported scheme %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("backend_url: missing host"))
	}

	if c.RequestTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("request_timeout_seconds must be positive"))
	}
	if c.BannerTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("banner_timeout_seconds must be positive"))
	}
	if !consts.IsPeriod(c.DefaultPeriod) {
		errs = append(errs, fmt.Errorf("default_period %d is not one of %v", c.DefaultPeriod, consts.Periods))
	}
	if !consts.IsAsset(c.DefaultAsset) {
		errs = append(errs, fmt.Errorf("default_asset %q is not a supported asset", c.DefaultAsset))
	}
	if strings.TrimSpace(c.PreferencesDB) == "" {
		errs = append(errs, errors.New("preferences_db is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, filepath.Dir(c.PreferencesDB)}
	if c.LogFile != "" {
		dirs = append(dirs, filepath.Dir(c.LogFile))
	}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
