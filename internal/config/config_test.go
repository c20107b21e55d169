package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)

	// durations come from defaults
	assert.Equal(t, "30s", cfg.Health.Interval.String())
	assert.Equal(t, "5s", cfg.Health.ProbeTimeout.String())
	assert.Equal(t, "5m0s", cfg.Catalog.RefreshInterval.String())
}

func TestLoadConfig_FromFile(t *testing.T) {
	configContent := `
server:
  port: "7070"
health:
  interval: 10s
  probe_timeout: 1s
providers:
  - name: "openai"
    type: "openai"
    priority: 1
    capabilities:
      text: true
    enabled: true
`
	f, err := os.CreateTemp("", "config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(f.Name())

	_, err = f.WriteString(configContent)
	require.NoError(t, err)
	f.Close()

	t.Setenv("CONFIG_FILE", f.Name())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "10s", cfg.Health.Interval.String())
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "openai", cfg.Providers[0].Name)
	assert.True(t, cfg.Providers[0].Capabilities["text"])
}

func TestLoadConfig_APIKeyResolution(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")

	configContent := `
providers:
  - name: "test-provider"
    type: "openai"
    api_key: "ENV:TEST_API_KEY"
    enabled: true
`
	f, err := os.CreateTemp("", "config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(f.Name())

	_, err = f.WriteString(configContent)
	require.NoError(t, err)
	f.Close()

	t.Setenv("CONFIG_FILE", f.Name())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "sk-test-12345", cfg.Providers[0].APIKey)
}
