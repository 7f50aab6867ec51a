package music_player

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"    envDefault:"false"`
	LavalinkNodeName string `env:"LAVALINK_NODE_NAME" envDefault:"main"`

	// RedisAddr selects the Redis configuration store. Guild configuration is
	// kept in memory when it is empty.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ResolveTimeout   time.Duration `env:"RESOLVE_TIMEOUT"   envDefault:"12s"`
	PresenceInterval time.Duration `env:"PRESENCE_INTERVAL" envDefault:"30s"`

	SpamLimit         int           `env:"SPAM_LIMIT"          envDefault:"3"`
	SpamWindow        time.Duration `env:"SPAM_WINDOW"         envDefault:"5s"`
	SpamSweepInterval time.Duration `env:"SPAM_SWEEP_INTERVAL" envDefault:"10m"`

	SupportURL string `env:"SUPPORT_URL" envDefault:"https://discord.gg/xQF9f9yUEM"`
}

// LoadConfig loads the module configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ResolveTimeout <= 0 {
		return errors.New("RESOLVE_TIMEOUT must be positive")
	}
	if c.SpamLimit <= 0 {
		return errors.New("SPAM_LIMIT must be positive")
	}
	if c.SpamWindow <= 0 || c.SpamSweepInterval <= 0 {
		return errors.New("SPAM_WINDOW and SPAM_SWEEP_INTERVAL must be positive")
	}
	return nil
}
