// Package config loads shoplist client configuration.
//
// Values are layered, later sources winning:
//   - built-in defaults
//   - the YAML file ($XDG_CONFIG_HOME/shoplist/config.yaml, or --config)
//   - SHOPLIST_* environment variables
//   - command-line flags that were explicitly set
//
// The default file is optional; a file named with --config must exist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL   = "http://localhost:8080/api/v1"
	DefaultUserID   = 1
	DefaultLogLevel = "info"
)

// Config is the client configuration.
type Config struct {
	// APIURL is the base URL of the REST API, including the version prefix.
	APIURL string `yaml:"api_url"`

	// UserID scopes every list and history request.
	UserID int64 `yaml:"user_id"`

	LogLevel string `yaml:"log_level"`

	// LogFile receives log output. The TUI owns the terminal, so logs
	// are discarded when this is empty.
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		UserID:   DefaultUserID,
		LogLevel: DefaultLogLevel,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "shoplist", "config.yaml")
}

// Load builds the configuration from defaults, the config file and the
// environment. An empty path means DefaultPath, which may be absent.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("SHOPLIST_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := getenv("SHOPLIST_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse SHOPLIST_USER_ID: %w", err)
		}
		c.UserID = id
	}
	if v := getenv("SHOPLIST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("SHOPLIST_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate checks that the configuration can be used to reach the API.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api url %q: missing host", c.APIURL)
	}
	if c.UserID <= 0 {
		return fmt.Errorf("invalid user id %d: must be positive", c.UserID)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Flags are the command-line overrides shared by every shoplist command.
type Flags struct {
	ConfigPath string
	APIURL     string
	UserID     int64
	LogLevel   string
	LogFile    string
}

// RegisterFlags adds the configuration flags to flagSet.
func RegisterFlags(flagSet *pflag.FlagSet) *Flags {
	flags := &Flags{}
	flagSet.StringVar(&flags.ConfigPath, "config", "", "path to config file (default: "+DefaultPath()+")")
	flagSet.StringVar(&flags.APIURL, "api-url", DefaultAPIURL, "base URL of the shopping list API")
	flagSet.Int64Var(&flags.UserID, "user-id", DefaultUserID, "user the lists belong to")
	flagSet.StringVar(&flags.LogLevel, "log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	flagSet.StringVar(&flags.LogFile, "log-file", "", "write log records to this file")
	return flags
}

// Apply copies every flag the user set explicitly onto cfg.
func (f *Flags) Apply(flagSet *pflag.FlagSet, cfg *Config) {
	if flagSet.Changed("api-url") {
		cfg.APIURL = f.APIURL
	}
	if flagSet.Changed("user-id") {
		cfg.UserID = f.UserID
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if flagSet.Changed("log-file") {
		cfg.LogFile = f.LogFile
	}
}

// Resolve loads the configuration and layers the parsed flags on top.
func Resolve(flagSet *pflag.FlagSet, flags *Flags, getenv func(string) string) (*Config, error) {
	cfg, err := Load(flags.ConfigPath, getenv)
	if err != nil {
		return nil, err
	}
	flags.Apply(flagSet, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
