package music_player

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LAVALINK_ADDRESS", "localhost:2333")
	t.Setenv("LAVALINK_PASSWORD", "youshallnotpass")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LavalinkNodeName != "main" {
		t.Errorf("expected node name %q, got %q", "main", cfg.LavalinkNodeName)
	}
	if cfg.LavalinkSecure {
		t.Error("expected insecure connection by default")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected no redis address, got %q", cfg.RedisAddr)
	}
	if cfg.ResolveTimeout != 12*time.Second {
		t.Errorf("expected resolve timeout 12s, got %v", cfg.ResolveTimeout)
	}
	if cfg.PresenceInterval != 30*time.Second {
		t.Errorf("expected presence interval 30s, got %v", cfg.PresenceInterval)
	}
	if cfg.SpamLimit != 3 || cfg.SpamWindow != 5*time.Second {
		t.Errorf("expected 3 messages per 5s, got %d per %v", cfg.SpamLimit, cfg.SpamWindow)
	}
	if cfg.SpamSweepInterval != 10*time.Minute {
		t.Errorf("expected sweep interval 10m, got %v", cfg.SpamSweepInterval)
	}
	if cfg.SupportURL != "https://discord.gg/xQF9f9yUEM" {
		t.Errorf("unexpected support URL %q", cfg.SupportURL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LAVALINK_ADDRESS", "lavalink:443")
	t.Setenv("LAVALINK_PASSWORD", "secret")
	t.Setenv("LAVALINK_SECURE", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RESOLVE_TIMEOUT", "5s")
	t.Setenv("SPAM_LIMIT", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.LavalinkSecure {
		t.Error("expected secure connection")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("unexpected redis config %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("expected resolve timeout 5s, got %v", cfg.ResolveTimeout)
	}
	if cfg.SpamLimit != 5 {
		t.Errorf("expected spam limit 5, got %d", cfg.SpamLimit)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing lavalink address",
			env:  map[string]string{"LAVALINK_PASSWORD": "secret"},
		},
		{
			name: "missing lavalink password",
			env:  map[string]string{"LAVALINK_ADDRESS": "localhost:2333"},
		},
		{
			name: "non-positive spam limit",
			env: map[string]string{
				"LAVALINK_ADDRESS":  "localhost:2333",
				"LAVALINK_PASSWORD": "secret",
				"SPAM_LIMIT":        "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LAVALINK_ADDRESS", "")
			t.Setenv("LAVALINK_PASSWORD", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			if _, err := LoadConfig(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
