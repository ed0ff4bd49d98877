package stdlib

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how the stdlib is assembled into an Engine's initial
// context. It is loaded from YAML so front-end collaborators can ship
// their own engine profiles without a code change.
type Config struct {
	// SourceOrder names the built-in modules to load, in order. Nil means
	// "load everything this package defines", in declaration order; an
	// explicitly empty list means no stdlib at all.
	SourceOrder []string `yaml:"source_order"`

	// EnableStringParams records whether string-kinded structure
	// parameters take part in binding, for front-end collaborators to read.
	// The core does not consult it: internal/interp binds string
	// parameters whatever its value.
	EnableStringParams *bool `yaml:"enable_string_params"`
}

// DefaultConfig returns the configuration used when Engine.WithStdlib is
// called with a nil Config.
func DefaultConfig() *Config {
	enabled := true
	return &Config{EnableStringParams: &enabled}
}

// LoadConfigFile reads and parses an EngineConfig from a YAML file.
func LoadConfigFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine config %q: %w", path, err)
	}
	return LoadConfig(b)
}

// LoadConfig parses an EngineConfig from raw YAML bytes.
func LoadConfig(b []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing engine config: %w", err)
	}
	if cfg.EnableStringParams == nil {
		enabled := true
		cfg.EnableStringParams = &enabled
	}
	return cfg, nil
}

// StringParamsEnabled reports the EnableStringParams flag, treating a nil
// Config or an unset flag as true.
func (c *Config) StringParamsEnabled() bool {
	return c == nil || c.EnableStringParams == nil || *c.EnableStringParams
}
