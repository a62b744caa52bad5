// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration, loaded from a single YAML file
// named by --config or the INKWELL_CONFIG environment variable. There
// is no discovery and no layering: one file, explicit overrides via
// flags only.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":3000".
	Listen string `yaml:"listen"`

	// DatabasePath is the SQLite database file. The parent directory
	// must exist.
	DatabasePath string `yaml:"database_path"`

	// PoolSize is the storage connection pool size. Zero means the
	// storage default.
	PoolSize int `yaml:"pool_size"`

	// MaxContentSize is the paste content byte ceiling. Zero means
	// the service default (200 000).
	MaxContentSize int `yaml:"max_content_size"`

	// HighlightTheme is the chroma style for rendered code blocks.
	// Empty means the render default.
	HighlightTheme string `yaml:"highlight_theme"`
}

func defaultConfig() Config {
	return Config{
		Listen:       ":3000",
		DatabasePath: "inkwell.db",
	}
}

// loadConfig reads and parses the config file at path. An empty path
// returns the defaults.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.Listen == "" {
		config.Listen = ":3000"
	}
	if config.DatabasePath == "" {
		return Config{}, fmt.Errorf("config %s: database_path is required", path)
	}
	return config, nil
}
