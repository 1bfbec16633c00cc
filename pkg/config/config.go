package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envSASLPassword    = "GOLEM_SASL_PASSWORD"
	envTwitchAppSecret = "TWITCH_APP_SECRET"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Server           ServerConfig  `json:"server"`
	Plugins          []string      `json:"plugins"`
	BlacklistedUsers []string      `json:"blacklisted_users,omitempty"`
	SASLPassword     string        `json:"sasl_password,omitempty"`
	HandshakeTimeout int           `json:"handshake_timeout_seconds,omitempty"`
	Webhook          WebhookConfig `json:"webhook"`
	Twitch           TwitchConfig  `json:"twitch"`
	URL              URLConfig     `json:"url"`
	Logging          LoggingConfig `json:"logging,omitempty"`
}

// ServerConfig describes the chat network endpoint to connect to.
type ServerConfig struct {
	Host       string   `json:"host"`
	Port       int      `json:"port"`
	Nickname   string   `json:"nickname"`
	DisableTLS bool     `json:"disable_tls,omitempty"`
	Channels   []string `json:"channels"`
}

// WebhookConfig configures the bind address for plugin-contributed HTTP
// routes. Ignored when no active plugin contributes any.
type WebhookConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// TwitchConfig configures the twitch plugin.
type TwitchConfig struct {
	ClientID       string          `json:"client_id"`
	ClientSecret   string          `json:"client_secret"`
	AppSecret      string          `json:"app_secret"`
	CallbackURI    string          `json:"callback_uri"`
	WatchedStreams []WatchedStream `json:"watched_streams"`
}

// WatchedStream maps one streamer to the chat channels that get notified
// about their stream activity.
type WatchedStream struct {
	Nickname    string   `json:"nickname"`
	IRCNick     string   `json:"irc_nick"`
	IRCChannels []string `json:"irc_channels"`
}

// URLConfig configures the url plugin.
type URLConfig struct {
	YoutubeAPIKey string `json:"youtube_api_key,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// LoadConfig resolves config.json, unmarshals it, and applies environment
// overrides for secrets.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the minimum surface the runtime needs at construction.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if strings.TrimSpace(c.Server.Nickname) == "" {
		return fmt.Errorf("server.nickname is required")
	}
	if len(c.Server.Channels) == 0 {
		return fmt.Errorf("no channels to join")
	}
	if len(c.Plugins) == 0 {
		return fmt.Errorf("no plugins are enabled")
	}
	return nil
}

// applyEnvOverrides injects secret material on top of file config so secrets
// never have to live in config.json.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if password := strings.TrimSpace(os.Getenv(envSASLPassword)); password != "" {
		cfg.SASLPassword = password
	}

	if secret := strings.TrimSpace(os.Getenv(envTwitchAppSecret)); secret != "" {
		cfg.Twitch.AppSecret = secret
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is GOLEM_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("GOLEM_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("GOLEM_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
