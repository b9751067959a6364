// Package config handles XDG configuration directory, file paths and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"taskdeck/internal/logging"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// StateFile holds the persistent key-value store (access token).
	StateFile = "state.json"

	// SessionFile holds the session-scoped key-value store.
	SessionFile = "session.json"
)

// Defaults.
const (
	DefaultAPIURL         = "http://127.0.0.1:8000/api"
	DefaultTimeout        = 10 * time.Second
	DefaultStatus         = "Queue"
	DefaultPriority       = "All"
	UnauthorizedLogout    = "logout"
	UnauthorizedIgnore    = "ignore"
	DefaultOnUnauthorized = UnauthorizedLogout
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// NoColor disables styled output.
	NoColor bool

	// APIURL is the base URL of the todo API, including the /api prefix.
	APIURL string

	// Timeout bounds every API call.
	Timeout time.Duration

	// OnUnauthorized is "logout" or "ignore".
	OnUnauthorized string

	// DefaultStatus is the status tab used when --status is not given.
	DefaultStatus string

	// DefaultPriority is the priority filter used when --priority is not given.
	DefaultPriority string

	// EnvFile is the .env file passed to Load. Empty when none was used.
	EnvFile string

	// Logger receives debug and warning output. Never nil after New.
	Logger *log.Logger
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:             dir,
		APIURL:          DefaultAPIURL,
		Timeout:         DefaultTimeout,
		OnUnauthorized:  DefaultOnUnauthorized,
		DefaultStatus:   DefaultStatus,
		DefaultPriority: DefaultPriority,
		Logger:          logging.New(os.Stderr, false),
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// RuntimeDir returns the directory for session-scoped state.
// Uses XDG_RUNTIME_DIR if set, otherwise a per-user directory under the OS temp dir.
func RuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", AppName, os.Getuid()))
}

// ConfigFilePath returns the path to the TOML settings file.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StatePath returns the path to the persistent store file.
func (c *Config) StatePath() string {
	return filepath.Join(c.Dir, StateFile)
}

// SessionPath returns the path to the session store file.
func (c *Config) SessionPath() string {
	return filepath.Join(RuntimeDir(), SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
