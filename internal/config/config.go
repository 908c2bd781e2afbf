// Package config loads gridcalc settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Store selects the snapshot backend.
type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Config holds settings shared by every command.
type Config struct {
	Output    string `yaml:"output"`
	Precision int    `yaml:"precision"`
	Delimiter string `yaml:"delimiter"`
	Sheet     string `yaml:"sheet"`
	Store     Store  `yaml:"store"`
	History   string `yaml:"history"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Output:    "output.csv",
		Precision: 2,
		Delimiter: ",",
		Store: Store{
			Driver: "sqlite",
			Path:   "gridcalc.db",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks values a YAML file can get wrong.
func (c *Config) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "sqlite", "bolt", "memory", "none":
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	return nil
}

// DelimiterRune returns the field delimiter, which must be a single character.
func (c *Config) DelimiterRune() (rune, error) {
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if size == 0 || size != len(c.Delimiter) || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter: want a single character, got %q", c.Delimiter)
	}
	return r, nil
}
