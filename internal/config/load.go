package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL         = "TASKDECK_API_URL"
	EnvTimeout        = "TASKDECK_TIMEOUT"
	EnvOnUnauthorized = "TASKDECK_ON_UNAUTHORIZED"
	EnvToken          = "TASKDECK_TOKEN"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIURL          string `toml:"api_url"`
	Timeout         string `toml:"timeout"`
	OnUnauthorized  string `toml:"on_unauthorized"`
	DefaultStatus   string `toml:"default_status"`
	DefaultPriority string `toml:"default_priority"`
	Color           *bool  `toml:"color"`
}

// Load applies config.toml from the config dir, then envFile (if it exists),
// then the process environment. Values already set in the environment win
// over the env file.
func (c *Config) Load(envFile string) error {
	c.EnvFile = envFile
	if err := c.loadFile(); err != nil {
		return err
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return err
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	}

	if v := lookup(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := lookup(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := lookup(EnvOnUnauthorized); v != "" {
		c.OnUnauthorized = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColor = true
	}
	return c.validate()
}

// InitialToken returns the token handed in through the environment, if any.
// It is read once at startup and may be the literal "null".
func InitialToken(envFile string) (string, bool) {
	if v, ok := os.LookupEnv(EnvToken); ok {
		return v, true
	}
	env, err := readEnvFile(envFile)
	if err != nil {
		return "", false
	}
	v, ok := env[EnvToken]
	return v, ok
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.ConfigFilePath(), &fc)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.Timeout != "" {
		d, err := parseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: timeout: %w", ConfigFile, err)
		}
		c.Timeout = d
	}
	if fc.OnUnauthorized != "" {
		c.OnUnauthorized = fc.OnUnauthorized
	}
	if fc.DefaultStatus != "" {
		c.DefaultStatus = fc.DefaultStatus
	}
	if fc.DefaultPriority != "" {
		c.DefaultPriority = fc.DefaultPriority
	}
	if fc.Color != nil && !*fc.Color {
		c.NoColor = true
	}
	return nil
}

func (c *Config) validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	switch c.OnUnauthorized {
	case UnauthorizedLogout, UnauthorizedIgnore:
	default:
		return fmt.Errorf("on_unauthorized must be %q or %q, got %q", UnauthorizedLogout, UnauthorizedIgnore, c.OnUnauthorized)
	}
	return nil
}

// parseTimeout accepts Go durations ("15s") and bare seconds ("15").
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	d, err := time.ParseDuration(s)
	if err != nil {
		d, err = time.ParseDuration(s + "s")
	}
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	return d, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return env, nil
}
