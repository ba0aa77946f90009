// ABOUTME: Configuration for kith: database path, view limits, web port and sync credentials
// ABOUTME: Loads JSON from the XDG config dir, then applies .env and KITH_* overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG directories kith uses.
	AppName = "kith"

	// ConfigFileName is the file under the config dir.
	ConfigFileName = "config.json"

	DefaultUpNextLimit    = 4
	DefaultBirthdayWindow = 60
	DefaultWebPort        = 8080
	DefaultLogLevel       = "info"
)

// Config holds user settings. Zero fields fall back to defaults on load.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path,omitempty"`

	// UpNextLimit caps the up-next list on the dashboard views.
	UpNextLimit int `json:"up_next_limit,omitempty"`

	// BirthdayWindow is how many days ahead upcoming birthdays and events are shown.
	BirthdayWindow int `json:"birthday_window,omitempty"`

	WebPort  int    `json:"web_port,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	// RemoteDatabaseURL points at the hosted Postgres backend used by `sync postgres`.
	RemoteDatabaseURL string `json:"remote_database_url,omitempty"`
	RemoteUserID      string `json:"remote_user_id,omitempty"`

	GoogleClientID     string `json:"google_client_id,omitempty"`
	GoogleClientSecret string `json:"google_client_secret,omitempty"`

	path string
}

// DefaultDBPath is the database location when nothing overrides it.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "kith.db")
}

// DefaultPath is the config file location when --config is not given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		DBPath:         DefaultDBPath(),
		UpNextLimit:    DefaultUpNextLimit,
		BirthdayWindow: DefaultBirthdayWindow,
		WebPort:        DefaultWebPort,
		LogLevel:       DefaultLogLevel,
		path:           DefaultPath(),
	}
}

// Load reads the config file at path (DefaultPath when empty), then applies
// environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KITH_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("KITH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("KITH_REMOTE_DATABASE_URL"); v != "" {
		c.RemoteDatabaseURL = v
	}
	if v := os.Getenv("KITH_REMOTE_USER_ID"); v != "" {
		c.RemoteUserID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		c.GoogleClientSecret = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"KITH_UP_NEXT_LIMIT", &c.UpNextLimit},
		{"KITH_BIRTHDAY_WINDOW", &c.BirthdayWindow},
		{"KITH_WEB_PORT", &c.WebPort},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.UpNextLimit <= 0 {
		c.UpNextLimit = DefaultUpNextLimit
	}
	if c.BirthdayWindow <= 0 {
		c.BirthdayWindow = DefaultBirthdayWindow
	}
	if c.WebPort <= 0 {
		c.WebPort = DefaultWebPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Path is where Save writes.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Keys lists the settings Set accepts, by JSON name.
var Keys = []string{
	"db_path", "up_next_limit", "birthday_window", "web_port", "log_level",
	"remote_database_url", "remote_user_id", "google_client_id", "google_client_secret",
}

// Set changes one setting by its JSON name and saves.
func (c *Config) Set(key, value string) error {
	positive := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number, got %q", key, value)
		}
		*dst = n
		return nil
	}

	var err error
	switch key {
	case "db_path":
		c.DBPath = value
	case "up_next_limit":
		err = positive(&c.UpNextLimit)
	case "birthday_window":
		err = positive(&c.BirthdayWindow)
	case "web_port":
		err = positive(&c.WebPort)
	case "log_level":
		c.LogLevel = value
	case "remote_database_url":
		c.RemoteDatabaseURL = value
	case "remote_user_id":
		c.RemoteUserID = value
	case "google_client_id":
		c.GoogleClientID = value
	case "google_client_secret":
		c.GoogleClientSecret = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return err
	}
	return c.Save()
}
