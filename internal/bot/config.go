package bot

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide bot configuration. Module settings are loaded by
// each ConfigurableModule.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	// GuildID registers commands in a single guild instead of globally when set.
	GuildID string `env:"GUILD_ID"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// LoadConfig reads the bot configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot config: %w", err)
	}
	return &cfg, nil
}
