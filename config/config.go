package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/waterlog/core/metrics"
)

// EnvPrefix marks environment variables that override file settings.
// A double underscore separates nested keys: WATERLOG_METRICS__ENABLED.
const EnvPrefix = "WATERLOG_"

type Config struct {
	Logs    []LogConfig    `json:"logs"`
	Engine  EngineConfig   `json:"engine"`
	Metrics metrics.Config `json:"metrics"`
}

// EngineConfig tunes the instantiation engine.
type EngineConfig struct {
	// BehaviorFallthrough reports a behavior key as unmatched even after the
	// behavior ran.
	BehaviorFallthrough bool `json:"behavior_fallthrough"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
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
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Metrics.SetDefaults()
	for i := range c.Logs {
		c.Logs[i].SetDefaults()
	}
}

// Validate checks every log and rejects duplicate log names.
func (c Config) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, l := range c.Logs {
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("logs[%d]: %w", i, err))
		}
		if l.Name == "" {
			continue
		}
		if seen[l.Name] {
			errs = append(errs, fmt.Errorf("logs[%d]: duplicate log name %q", i, l.Name))
		}
		seen[l.Name] = true
	}
	return errors.Join(errs...)
}
