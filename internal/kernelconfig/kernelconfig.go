// Package kernelconfig loads the kernel's tunable defaults (the
// inference coordinator's depth, node and time limits and the
// budget-check interval) from environment variables and an optional
// YAML file.
package kernelconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the kernel reads at startup. Zero values
// are not valid; use Default() or Load() rather than a bare literal.
type Config struct {
	MaxDepth          int   `yaml:"max_depth"`
	MaxNodes          int   `yaml:"max_nodes"`
	DefaultTimeoutMS  int64 `yaml:"default_timeout_ms"`
	BudgetCheckEveryN int   `yaml:"budget_check_every_n"`
}

// Default returns the kernel's built-in defaults, used when neither an
// environment variable nor a config file overrides them.
func Default() Config {
	return Config{
		MaxDepth:          64,
		MaxNodes:          1_000_000,
		DefaultTimeoutMS:  5_000,
		BudgetCheckEveryN: 1024,
	}
}

// Load builds a Config starting from Default(), applying path's YAML
// contents if path is non-empty, then applying KR_MAX_DEPTH,
// KR_MAX_NODES, and KR_DEFAULT_TIMEOUT_MS environment variables last so
// they always take precedence, matching spec §6's "Environment" list.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("kernelconfig: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("kernelconfig: parsing %s: %w", path, err)
		}
	}
	if v, ok := envInt("KR_MAX_DEPTH"); ok {
		cfg.MaxDepth = v
	}
	if v, ok := envInt("KR_MAX_NODES"); ok {
		cfg.MaxNodes = v
	}
	if v, ok := envInt64("KR_DEFAULT_TIMEOUT_MS"); ok {
		cfg.DefaultTimeoutMS = v
	}
	return cfg, nil
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt64(name string) (int64, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
