package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MEDALBOARD_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MEDALBOARD_CONFIG is set, or path is not empty
//  3. env (prefix MEDALBOARD_)
func Load(_ context.Context, path ...string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	cfgPath := os.Getenv(EnvPrefix + "CONFIG")
	if len(path) > 0 && path[0] != "" {
		cfgPath = path[0]
	}
	if cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, cfgPath, err)
		}
	}

	// MEDALBOARD_TOP_ATHLETES -> top_athletes. Underscores are kept to match
	// the flat koanf tags; list values are comma separated.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "default_countries" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the dashboard cannot run without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataPath) == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.TopAthletes < 1:
		return fmt.Errorf("%w: top_athletes must be at least 1", ErrInvalidConfig)
	case c.CycleOffset < 0:
		return fmt.Errorf("%w: cycle_offset must not be negative", ErrInvalidConfig)
	case c.MarkStep < 0:
		return fmt.Errorf("%w: mark_step must not be negative", ErrInvalidConfig)
	case c.PNGWidth < 0 || c.PNGHeight < 0:
		return fmt.Errorf("%w: png_width and png_height must not be negative", ErrInvalidConfig)
	}
	switch c.DataFormat {
	case "", FormatCSV, FormatSQLite:
	default:
		return fmt.Errorf("%w: unknown data_format %q", ErrInvalidConfig, c.DataFormat)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
