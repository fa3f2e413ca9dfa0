package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: "9000"
  mode: debug
backend:
  base_url: "http://backend:8000"
  timeout_seconds: 30
session:
  secret: "0123456789abcdef0123456789abcdef"
  ttl_hours: 2
embedding:
  default_mode: tfidf
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "aglc_session", cfg.Session.CookieName)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, "tfidf", cfg.Embedding.DefaultMode)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("BACKEND_BASE_URL", "http://override:8000")
	t.Setenv("SESSION_STORE", "redis")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://override:8000", cfg.Backend.BaseURL)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Mode: "release"},
			Backend:   BackendConfig{BaseURL: "http://backend"},
			Session:   SessionConfig{Secret: "0123456789abcdef0123456789abcdef", Store: SessionStoreMemory},
			Embedding: EmbeddingConfig{DefaultMode: "openai"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.Backend.BaseURL = "" }, true},
		{"unknown embedding mode", func(c *Config) { c.Embedding.DefaultMode = "bm25" }, true},
		{"unknown store", func(c *Config) { c.Session.Store = "file" }, true},
		{"short secret in release", func(c *Config) { c.Session.Secret = "short" }, true},
		{"short secret in debug", func(c *Config) { c.Session.Secret = "short"; c.Server.Mode = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
