package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Relay    RelayConfig    `json:"relay"`
	Watcher  WatcherConfig  `json:"watcher"`
	Channels ChannelsConfig `json:"channels"`
	Logging  LoggingConfig  `json:"logging"`
}

// RelayConfig points at the bot-relay HTTP API that fronts the Telegram bot
// and the ArDrive upload pipeline.
type RelayConfig struct {
	BaseURL        string `json:"base_url" env:"PERMACHAT_RELAY_BASE_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"PERMACHAT_RELAY_TIMEOUT_SECONDS"`
}

type WatcherConfig struct {
	PollIntervalSeconds int `json:"poll_interval_seconds" env:"PERMACHAT_WATCHER_POLL_INTERVAL_SECONDS"`
	// MaxWaitSeconds bounds how long a single /upload command waits for a file
	// to land on permanent storage. 0 waits forever.
	MaxWaitSeconds int `json:"max_wait_seconds" env:"PERMACHAT_WATCHER_MAX_WAIT_SECONDS"`
}

type ChannelsConfig struct {
	WebChat  WebChatConfig  `json:"webchat"`
	Telegram TelegramConfig `json:"telegram"`
}

type WebChatConfig struct {
	Enabled  bool   `json:"enabled" env:"PERMACHAT_CHANNELS_WEBCHAT_ENABLED"`
	Host     string `json:"host" env:"PERMACHAT_CHANNELS_WEBCHAT_HOST"`
	Port     int    `json:"port" env:"PERMACHAT_CHANNELS_WEBCHAT_PORT"`
	Username string `json:"username" env:"PERMACHAT_CHANNELS_WEBCHAT_USERNAME"`
	Password string `json:"password" env:"PERMACHAT_CHANNELS_WEBCHAT_PASSWORD"`
}

// TelegramConfig enables direct completion announcements to a Telegram chat,
// in addition to the chat UI rendering.
type TelegramConfig struct {
	Enabled bool   `json:"enabled" env:"PERMACHAT_CHANNELS_TELEGRAM_ENABLED"`
	Token   string `json:"token" env:"PERMACHAT_CHANNELS_TELEGRAM_TOKEN"`
	ChatID  int64  `json:"chat_id" env:"PERMACHAT_CHANNELS_TELEGRAM_CHAT_ID"`
}

type LoggingConfig struct {
	Level  string `json:"level" env:"PERMACHAT_LOGGING_LEVEL"`
	Pretty bool   `json:"pretty" env:"PERMACHAT_LOGGING_PRETTY"`
}

func DefaultConfig() *Config {
	return &Config{
		Relay: RelayConfig{
			BaseURL:        "http://localhost:3000",
			TimeoutSeconds: 30,
		},
		Watcher: WatcherConfig{
			PollIntervalSeconds: 5,
			MaxWaitSeconds:      0,
		},
		Channels: ChannelsConfig{
			WebChat: WebChatConfig{
				Enabled: true,
				Host:    "0.0.0.0",
				Port:    18900,
			},
			Telegram: TelegramConfig{
				Enabled: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Support full config from env var (for containers / serverless)
	if cfgJSON := os.Getenv("PERMACHAT_CONFIG_JSON"); cfgJSON != "" {
		if err := json.Unmarshal([]byte(cfgJSON), cfg); err != nil {
			return nil, fmt.Errorf("parsing PERMACHAT_CONFIG_JSON: %w", err)
		}
		if err := env.Parse(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *RelayConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *WatcherConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// MaxWait returns the upload wait bound, or 0 for unbounded waiting.
func (c *WatcherConfig) MaxWait() time.Duration {
	if c.MaxWaitSeconds <= 0 {
		return 0
	}
	return time.Duration(c.MaxWaitSeconds) * time.Second
}
