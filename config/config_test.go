package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so tests start from a known state.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MCP_API_KEY", "MCP_HTTP_ADDR", "METRICS_ADDR", "LOG_LEVEL", "CONFIG_FILE",
		"MCP_READ_TIMEOUT", "MCP_WRITE_TIMEOUT", "MCP_SHUTDOWN_TIMEOUT", "MCP_MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	// Keep godotenv from picking up a stray .env in the package directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_API_KEY", "testtoken")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "testtoken", cfg.APIKey)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: "127.0.0.1:7000"
metrics_addr: ""
read_timeout: 3s
max_body_bytes: 4096
log_level: debug
`), 0o600))

	t.Setenv("MCP_API_KEY", "k")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.MetricsAddr)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":8123\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MCP_API_KEY", "k")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8123", cfg.HTTPAddr)
}

func TestLoad_APIKeyNeverFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: fromfile\nAPIKey: fromfile\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_BadEnvValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_API_KEY", "k")
	t.Setenv("MCP_READ_TIMEOUT", "soon")
	t.Setenv("MCP_MAX_BODY_BYTES", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MCP_READ_TIMEOUT")
	assert.Contains(t, err.Error(), "MCP_MAX_BODY_BYTES")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_API_KEY", "k")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.MaxBodyBytes = 0
	cfg.ShutdownTimeout = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_body_bytes")
	assert.Contains(t, err.Error(), "shutdown_timeout")
}
