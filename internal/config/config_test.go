package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from variables set on the host.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "UPSTREAM_URL", "ALLOWED_ORIGIN", "PORT", "ENVIRONMENT",
		"LOG_LEVEL", "UPSTREAM_TIMEOUT", "DEFAULT_TEMPERATURE", "DEFAULT_MAX_TOKENS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	server := Defaults(ServerProfile)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", server.UpstreamURL)
	assert.Equal(t, "4000", server.Port)
	assert.Equal(t, DefaultServerOrigins, server.AllowedOrigins)
	assert.Equal(t, float32(0.7), server.Defaults.Temperature)
	assert.Equal(t, 500, server.Defaults.MaxTokens)
	assert.Zero(t, server.UpstreamTimeout)

	function := Defaults(FunctionProfile)
	assert.Equal(t, []string{"*"}, function.AllowedOrigins)
	assert.Equal(t, server.Defaults, function.Defaults)
}

func TestDefaultsReturnsFreshOrigins(t *testing.T) {
	cfg := Defaults(ServerProfile)
	cfg.AllowedOrigins[0] = "http://mutated"
	assert.Equal(t, "http://127.0.0.1:5501", DefaultServerOrigins[0])
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("ALLOWED_ORIGIN", "https://a.example, https://b.example,")
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")
	t.Setenv("DEFAULT_TEMPERATURE", "0.2")
	t.Setenv("DEFAULT_MAX_TOKENS", "100")

	cfg, err := Load(ServerProfile, "")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.True(t, cfg.HasAPIKey())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, float32(0.2), cfg.Defaults.Temperature)
	assert.Equal(t, 100, cfg.Defaults.MaxTokens)
}

func TestLoadMissingCredential(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(FunctionProfile, "")
	require.NoError(t, err)
	assert.False(t, cfg.HasAPIKey())

	t.Setenv("OPENAI_API_KEY", "   ")
	cfg, err = Load(FunctionProfile, "")
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"UPSTREAM_TIMEOUT", "soon"},
		{"DEFAULT_TEMPERATURE", "warm"},
		{"DEFAULT_MAX_TOKENS", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load(ServerProfile, "")
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "relay.yaml")

	testConfig := `api_key: "sk-from-file"
upstream_url: "http://localhost:8001/v1/chat/completions"
upstream_timeout: 30s
allowed_origins:
  - "https://popup.example"
defaults:
  max_tokens: 100
`
	err := os.WriteFile(configPath, []byte(testConfig), 0644)
	require.NoError(t, err)

	cfg, err := Load(ServerProfile, configPath)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.APIKey)
	assert.Equal(t, "http://localhost:8001/v1/chat/completions", cfg.UpstreamURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"https://popup.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.Defaults.MaxTokens)
	assert.Equal(t, DefaultTemperature, cfg.Defaults.Temperature, "unset file keys keep profile defaults")
	assert.Equal(t, DefaultPort, cfg.Port)

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-from-env")
		cfg, err := Load(ServerProfile, configPath)
		require.NoError(t, err)
		assert.Equal(t, "sk-from-env", cfg.APIKey)
	})

	t.Run("NonexistentFile", func(t *testing.T) {
		_, err := Load(ServerProfile, filepath.Join(tmpDir, "nonexistent.yaml"))
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		invalidPath := filepath.Join(tmpDir, "invalid.yaml")
		err := os.WriteFile(invalidPath, []byte("invalid: yaml: {content"), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(invalidPath, Defaults(ServerProfile))
		assert.Error(t, err)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		emptyPath := filepath.Join(tmpDir, "empty.yaml")
		err := os.WriteFile(emptyPath, []byte{}, 0644)
		require.NoError(t, err)

		cfg, err := LoadConfig(emptyPath, Defaults(FunctionProfile))
		require.NoError(t, err)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	})
}
