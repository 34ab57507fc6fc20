package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig marks a configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Load builds a Config by layering sources.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. YAML file: the path argument, or H2H_CONFIG if the argument is empty
//  3. env vars with prefix H2H_ (H2H_RAW_DIR -> raw_dir, ...)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("H2H_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("H2H_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "h2h_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, cfg.Workers)
	}
	if cfg.RawDir == "" {
		return nil, fmt.Errorf("%w: raw_dir must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
