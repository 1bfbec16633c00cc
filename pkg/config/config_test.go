package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"server": {"host": "irc.libera.chat", "port": 6697, "nickname": "golem", "channels": ["#gougoutest"]},
		"plugins": ["echo", "date"],
		"blacklisted_users": ["troll"]
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOLEM_CONFIG", path)
	t.Setenv("GOLEM_SASL_PASSWORD", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Nickname != "golem" {
		t.Fatalf("nickname = %q, want %q", cfg.Server.Nickname, "golem")
	}
	if len(cfg.Plugins) != 2 {
		t.Fatalf("plugins = %v, want 2 entries", cfg.Plugins)
	}
	if cfg.BlacklistedUsers[0] != "troll" {
		t.Fatalf("blacklist = %v", cfg.BlacklistedUsers)
	}
}

func TestEnvOverridesSASLPassword(t *testing.T) {
	cfg := &Config{}
	t.Setenv("GOLEM_SASL_PASSWORD", "hunter2")
	t.Setenv("TWITCH_APP_SECRET", "s3cret")
	applyEnvOverrides(cfg)
	if cfg.SASLPassword != "hunter2" {
		t.Fatalf("sasl password = %q", cfg.SASLPassword)
	}
	if cfg.Twitch.AppSecret != "s3cret" {
		t.Fatalf("twitch app secret = %q", cfg.Twitch.AppSecret)
	}
}

func TestValidateRejectsEmptySurface(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing host", Config{Server: ServerConfig{Nickname: "golem", Channels: []string{"#a"}}, Plugins: []string{"echo"}}},
		{"missing nickname", Config{Server: ServerConfig{Host: "h", Channels: []string{"#a"}}, Plugins: []string{"echo"}}},
		{"no channels", Config{Server: ServerConfig{Host: "h", Nickname: "golem"}, Plugins: []string{"echo"}}},
		{"no plugins", Config{Server: ServerConfig{Host: "h", Nickname: "golem", Channels: []string{"#a"}}}},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
