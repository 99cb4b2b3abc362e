package config

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. Nested keys use "__", so
// GRIDSIM_SERVER__ADDR sets server.addr.
const EnvPrefix = "GRIDSIM_"

type Config struct {
	Server     ServerConfig     `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
	Generation GenerationConfig `json:"generation"`
	Simulation SimulationConfig `json:"simulation"`
	Scenario   ScenarioConfig   `json:"scenario"`
}

// ServerConfig holds HTTP settings for the serve command.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	CORSOrigins    []string `json:"cors_origins"`
	MetricsEnabled bool     `json:"metrics_enabled"`
	// CacheSize bounds the comparison memo. Zero disables it.
	CacheSize int `json:"cache_size"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// GenerationConfig seeds the wind and kinetic profiles. Zero draws a fresh
// seed at startup.
type GenerationConfig struct {
	Seed uint64 `json:"seed"`
}

// SimulationConfig holds engine options shared by simulator and optimizer.
type SimulationConfig struct {
	WrapMidnight bool `json:"wrap_midnight"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			CORSOrigins:    []string{"*"},
			MetricsEnabled: true,
			CacheSize:      128,
		},
		Logging:  LoggingConfig{Level: "info"},
		Scenario: DefaultScenario(),
	}
}

// Load layers defaults, the optional file at path and GRIDSIM_ environment
// variables, then validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(defaultsProvider{}, json.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Scenario.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must be >= 0, got %d", c.Server.CacheSize)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Scenario.Validate()
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown logging.level %q", c.Level)
}

// defaultsProvider feeds Default() to koanf as the lowest layer so file and
// environment values merge over it key by key.
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) {
	return stdjson.Marshal(Default())
}

func (defaultsProvider) Read() (map[string]any, error) {
	return nil, errors.New("defaults provider does not support Read")
}
