package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.Watcher.PollInterval())
	assert.Equal(t, time.Duration(0), cfg.Watcher.MaxWait())
	assert.Equal(t, 30*time.Second, cfg.Relay.Timeout())
	assert.True(t, cfg.Channels.WebChat.Enabled)
	assert.False(t, cfg.Channels.Telegram.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Relay.BaseURL, cfg.Relay.BaseURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"relay": {"base_url": "https://relay.example.com", "timeout_seconds": 10},
		"watcher": {"poll_interval_seconds": 2, "max_wait_seconds": 600}
	}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://relay.example.com", cfg.Relay.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Relay.Timeout())
	assert.Equal(t, 2*time.Second, cfg.Watcher.PollInterval())
	assert.Equal(t, 10*time.Minute, cfg.Watcher.MaxWait())
	// Untouched sections keep their defaults.
	assert.Equal(t, 18900, cfg.Channels.WebChat.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"relay": {"base_url": "https://file.example.com"}}`), 0644))

	t.Setenv("PERMACHAT_RELAY_BASE_URL", "https://env.example.com")
	t.Setenv("PERMACHAT_WATCHER_POLL_INTERVAL_SECONDS", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Relay.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Watcher.PollInterval())
}

func TestLoadConfigFromEnvJSON(t *testing.T) {
	t.Setenv("PERMACHAT_CONFIG_JSON", `{"relay": {"base_url": "https://json.example.com"}}`)

	cfg, err := LoadConfig("ignored.json")
	require.NoError(t, err)
	assert.Equal(t, "https://json.example.com", cfg.Relay.BaseURL)
}

func TestLoadConfigFromEnvJSONInvalid(t *testing.T) {
	t.Setenv("PERMACHAT_CONFIG_JSON", `{not json`)

	_, err := LoadConfig("ignored.json")
	require.ErrorContains(t, err, "PERMACHAT_CONFIG_JSON")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Relay.BaseURL = "https://saved.example.com"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.Relay.BaseURL)
}
