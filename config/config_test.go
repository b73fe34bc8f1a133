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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), *cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
vault_dir: /tmp/notes
log_level: debug
clipboard:
  command: xclip -selection clipboard
  confirm_for: 500ms
search:
  settle_delay: 300ms
render:
  sanitize: true
  width: 72
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes", cfg.VaultDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "xclip -selection clipboard", cfg.Clipboard.Command)
	assert.Equal(t, 500*time.Millisecond, cfg.Clipboard.ConfirmFor)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.SettleDelay)
	assert.True(t, cfg.Render.Sanitize)
	assert.Equal(t, 72, cfg.Render.Width)

	// unset values keep their defaults
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, "github", cfg.Render.CodeStyle)
}

func TestLoadZeroDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "clipboard:\n  confirm_for: 0s\nsearch:\n  settle_delay: 0s\ncache_size: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Clipboard.ConfirmFor)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.SettleDelay)
	assert.Equal(t, 64, cfg.CacheSize)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "vault_dir: [unclosed"},
		{"bad level", "log_level: loud"},
		{"negative cache", "cache_size: -1"},
		{"negative width", "render:\n  width: -3"},
		{"negative delay", "search:\n  settle_delay: -1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
