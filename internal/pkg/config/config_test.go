package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray .env or
// config.yaml is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load("survivetrack-test")
	require.NoError(t, err)

	assert.Equal(t, 7860, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host())
	assert.Equal(t, "claude-3-haiku-20240307", cfg.ARIA.Model)
	assert.Equal(t, 250, cfg.ARIA.MaxTokens)
	assert.InDelta(t, 0.7, cfg.ARIA.Temperature, 1e-9)
	assert.InDelta(t, 24.8607, cfg.Map.CenterLat, 1e-9)
	assert.Equal(t, 11, cfg.Map.Zoom)
	assert.Equal(t, "survivetrack-test", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.ARIA.Enabled())
}

func TestLoad_LegacyEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SHARE_GRADIO", "true")
	t.Setenv("AI_MAX_TOKENS", "400")
	t.Setenv("DEFAULT_ZOOM", "13")

	cfg, err := Load("survivetrack-test")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	assert.Equal(t, 400, cfg.ARIA.MaxTokens)
	assert.Equal(t, 13, cfg.Map.Zoom)
	assert.True(t, cfg.ARIA.Enabled())
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	inTempDir(t)
	t.Setenv("SURVIVETRACK_ARIA_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("SURVIVETRACK_ARIA_PROVIDER", "Gemini")

	cfg, err := Load("survivetrack-test")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.ARIA.Model)
	assert.Equal(t, ProviderGemini, cfg.ARIA.Provider)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=8123\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := Load("survivetrack-test")
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Server.Port)
}

func TestLoad_InvalidPort(t *testing.T) {
	inTempDir(t)
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load("survivetrack-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be 1-65535")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 0, ReadTimeout: 1, WriteTimeout: 1},
		ARIA:   ARIAConfig{Provider: "openai", MaxTokens: 0, Temperature: 2, Timeout: 1},
		Map:    MapConfig{Zoom: 11, ScanRadius: 1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.port", "aria.provider", "aria.max_tokens", "aria.temperature"} {
		assert.Contains(t, err.Error(), want)
	}
}
