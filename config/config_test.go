package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docmcp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, TransportStreamable, cfg.Transport)
	assert.Equal(t, "/mcp", cfg.Path)
	assert.True(t, cfg.IsHTTP())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Name, cfg.Name)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
name = "docs"
transport = "STDIO"
log_level = "debug"
search = false
cors_origins = ["https://a.example", " ", "https://b.example"]
shutdown_timeout = "3s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Name)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Search)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsHTTP())

	// Keys absent from the file keep their defaults.
	assert.Equal(t, Default().Addr, cfg.Addr)
	assert.Equal(t, Default().Version, cfg.Version)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `shutdown_timeout = "soon"`))
	require.ErrorContains(t, err, "shutdown_timeout")

	_, err = Load(writeConfig(t, `transport = "carrier-pigeon"`))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `addr = ":9000"`)
	t.Setenv("DOCMCP_ADDR", ":9100")
	t.Setenv("DOCMCP_JSON_RESPONSE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.True(t, cfg.JSONResponse)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DOCMCP_TRANSPORT":        "JSONRPC",
		"DOCMCP_PATH":             "/rpc",
		"DOCMCP_CORS_ORIGINS":     "https://x.example, https://y.example",
		"DOCMCP_SHUTDOWN_TIMEOUT": "250ms",
		"DOCMCP_SEARCH":           "false",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))

	assert.Equal(t, TransportJSONRPC, cfg.Transport)
	assert.Equal(t, "/rpc", cfg.Path)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.CORSOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
	assert.False(t, cfg.Search)
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, key := range []string{"DOCMCP_JSON_RESPONSE", "DOCMCP_SEARCH", "DOCMCP_SHUTDOWN_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return "not-a-value", true
				}
				return "", false
			}
			cfg := Default()
			require.Error(t, applyEnv(&cfg, lookup))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty name", mutate: func(c *Config) { c.Name = "" }},
		{name: "unknown transport", mutate: func(c *Config) { c.Transport = "udp" }},
		{name: "http without addr", mutate: func(c *Config) { c.Addr = "" }},
		{name: "relative path", mutate: func(c *Config) { c.Path = "mcp" }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
		{name: "negative timeout", mutate: func(c *Config) { c.ShutdownTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_StdioIgnoresAddr(t *testing.T) {
	for _, transport := range []string{TransportStdio, TransportStdioJSONRPC} {
		cfg := Default()
		cfg.Transport = transport
		cfg.Addr = ""
		cfg.Path = ""

		require.NoError(t, cfg.Validate(), transport)
		assert.False(t, cfg.IsHTTP(), transport)
	}
}
