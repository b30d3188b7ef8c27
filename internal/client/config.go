package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerURL = "http://127.0.0.1:5002"
	DefaultTimeout   = 5 * time.Second

	// DefaultChatTimeout exceeds the server's default AI_TIMEOUT of 15s.
	DefaultChatTimeout = 30 * time.Second
)

// Config is the optional budgeter-cli config file.
//
//	[server]
//	url = "http://127.0.0.1:5002"
//	timeout = "5s"
type Config struct {
	Server ServerConfig `toml:"server"`
}

type ServerConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout,omitempty"`
}

func DefaultConfig() Config {
	return Config{Server: ServerConfig{URL: DefaultServerURL, Timeout: DefaultTimeout.String()}}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgeter")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgeter")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadConfig reads the config file at path, returning defaults if it doesn't
// exist. Fields left empty in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if u := strings.TrimSpace(file.Server.URL); u != "" {
		cfg.Server.URL = u
	}
	if file.Server.Timeout != "" {
		if _, err := time.ParseDuration(file.Server.Timeout); err != nil {
			return cfg, fmt.Errorf("invalid server timeout %q: %w", file.Server.Timeout, err)
		}
		cfg.Server.Timeout = file.Server.Timeout
	}
	return cfg, nil
}

// TimeoutDuration returns the parsed timeout, or DefaultTimeout when unset.
func (c Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}
