package vectorstores

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects how a store connects to the backing vector database.
type Mode string

const (
	// ModeLocal connects to a database on localhost with default settings.
	ModeLocal Mode = "local"
	// ModeEmbedded runs an in-process store, no server involved.
	ModeEmbedded Mode = "embedded"
	// ModeCloud connects to a managed cloud deployment: endpoint plus API
	// key, TLS always on.
	ModeCloud Mode = "cloud"
	// ModeCustom leaves host, port, TLS and credentials entirely to the
	// caller.
	ModeCustom Mode = "custom"
)

var (
	ErrUnknownMode       = errors.New("unknown connection mode")
	ErrMissingHost       = errors.New("host is required for this connection mode")
	ErrMissingAPIKey     = errors.New("api key is required for cloud mode")
	ErrMissingCollection = errors.New("collection name is required")
)

// Config describes a store connection. It can be populated programmatically
// or loaded from YAML.
type Config struct {
	Mode       Mode   `yaml:"mode"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
}

// DefaultConfig returns a local-mode configuration.
func DefaultConfig() Config {
	return Config{
		Mode: ModeLocal,
	}
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the mode-specific requirements.
func (c Config) Validate() error {
	if c.Collection == "" {
		return ErrMissingCollection
	}

	switch c.Mode {
	case ModeLocal, ModeEmbedded:
		return nil
	case ModeCloud:
		if c.Host == "" {
			return ErrMissingHost
		}
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
		return nil
	case ModeCustom:
		if c.Host == "" {
			return ErrMissingHost
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
}
