// MIT License

// Copyright (c) 2026 The AkiMd Authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config handles configuration loading and validation for akimd.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	VaultDir  string          `yaml:"vault_dir"`
	LogLevel  string          `yaml:"log_level"`
	LogFile   string          `yaml:"log_file"` // empty logs to stderr
	CacheSize int             `yaml:"cache_size"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Search    SearchConfig    `yaml:"search"`
	Render    RenderConfig    `yaml:"render"`
}

type ClipboardConfig struct {
	Command    string        `yaml:"command"` // shell-quoted; empty uses the system clipboard
	ConfirmFor time.Duration `yaml:"confirm_for"`
}

type SearchConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type RenderConfig struct {
	Sanitize  bool   `yaml:"sanitize"`
	Highlight bool   `yaml:"highlight"`
	CodeStyle string `yaml:"code_style"`
	Width     int    `yaml:"width"` // 0 uses the terminal width
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VaultDir:  "aki-vault",
		LogLevel:  "info",
		CacheSize: 64,
		Clipboard: ClipboardConfig{
			ConfirmFor: 2 * time.Second,
		},
		Search: SearchConfig{
			SettleDelay: 150 * time.Millisecond,
		},
		Render: RenderConfig{
			CodeStyle: "github",
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.VaultDir == "" {
		c.VaultDir = defaults.VaultDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaults.CacheSize
	}
	if c.Clipboard.ConfirmFor == 0 {
		c.Clipboard.ConfirmFor = defaults.Clipboard.ConfirmFor
	}
	if c.Search.SettleDelay == 0 {
		c.Search.SettleDelay = defaults.Search.SettleDelay
	}
	if c.Render.CodeStyle == "" {
		c.Render.CodeStyle = defaults.Render.CodeStyle
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.VaultDir == "" {
		return fmt.Errorf("vault_dir cannot be empty")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}

	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be at least 1")
	}

	if c.Clipboard.ConfirmFor < 0 {
		return fmt.Errorf("clipboard.confirm_for cannot be negative")
	}

	if c.Search.SettleDelay < 0 {
		return fmt.Errorf("search.settle_delay cannot be negative")
	}

	if c.Render.Width < 0 {
		return fmt.Errorf("render.width cannot be negative")
	}

	return nil
}
