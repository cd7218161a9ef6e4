package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./data/printbridge.db", cfg.Database.Path)
	assert.False(t, cfg.Printing.DummyMode)
	assert.Equal(t, "https://www.googleapis.com/auth/cloudprint", cfg.Printing.GCloudScope)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
  read_timeout: 10s
database:
  path: /var/lib/printbridge/db.sqlite
printing:
  dummy_mode: true
  epson_host_override: 127.0.0.1:8043
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "/var/lib/printbridge/db.sqlite", cfg.Database.Path)
	assert.True(t, cfg.Printing.DummyMode)
	assert.Equal(t, "127.0.0.1:8043", cfg.Printing.EpsonHostOverride)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PRINTBRIDGE_PORT", "7070")
	t.Setenv("PRINTBRIDGE_DUMMY_MODE", "true")
	t.Setenv("PRINTBRIDGE_EPSON_HOST_OVERRIDE", "localhost:9999")
	t.Setenv("PRINTBRIDGE_LOG_LEVEL", "warn")

	cfg := LoadFromEnv()

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Printing.DummyMode)
	assert.Equal(t, "localhost:9999", cfg.Printing.EpsonHostOverride)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database path"},
		{"creds without scope", func(c *Config) {
			c.Printing.GCloudCredentialsFile = "/etc/creds.json"
			c.Printing.GCloudScope = ""
		}, "gcloud scope"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
