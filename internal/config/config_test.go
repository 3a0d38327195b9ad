package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Control.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Control.ListenAddr)
	assert.Equal(t, 9000, cfg.Control.Port)
	assert.Equal(t, 1024, cfg.Control.ReadBuffer)
	assert.Equal(t, 5*time.Second, cfg.Control.ReadTimeout)
	assert.Equal(t, "0.0.0.0:9000", cfg.Control.Address())

	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.False(t, cfg.Server.HTTP3Enabled)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "tint:commands", cfg.Redis.CommandChannel)
	assert.Equal(t, "tint:mode", cfg.Redis.StateChannel)
	assert.Equal(t, "tint:mode:current", cfg.Redis.StateKey)

	assert.False(t, cfg.Pipeline.Enabled)
	assert.Equal(t, "fx", cfg.Pipeline.FilterElement)
	assert.Equal(t, "BGR", cfg.Pipeline.ChannelOrder)
	assert.True(t, cfg.Pipeline.Overlay)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Control.Port)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
control:
  port: 9500
  read_buffer: 64
server:
  http_port: 8181
redis:
  enabled: true
  addresses:
    - "localhost:6380"
  command_channel: "studio:commands"
  state_ttl: 1m
pipeline:
  channel_order: RGB
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9500, cfg.Control.Port)
	assert.Equal(t, 64, cfg.Control.ReadBuffer)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"localhost:6380"}, cfg.Redis.Addresses)
	assert.Equal(t, "studio:commands", cfg.Redis.CommandChannel)
	assert.Equal(t, time.Minute, cfg.Redis.StateTTL)
	assert.Equal(t, "RGB", cfg.Pipeline.ChannelOrder)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TINT_CONTROL_PORT", "9100")
	t.Setenv("TINT_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Control.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "control: [unterminated\n")
	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
server:
  http3_enabled: true
  tls_cert_file: "/nonexistent/cert.pem"
  tls_key_file: "/nonexistent/key.pem"
`)

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TLS certificate file not found")
}
