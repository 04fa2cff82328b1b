package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/pipelinebot/internal/config"
)

type envConfig struct {
	Env              string `env:"ENV" envDefault:"production"`
	ChatPlatform     string `env:"CHAT_PLATFORM" envDefault:"telegram"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	DiscordToken     string `env:"DISCORD_TOKEN"`
	DiscordGuildID   string `env:"DISCORD_GUILD_ID"`
	GitLabURL        string `env:"GITLAB_URL" envDefault:"https://gitlab.com"`
	ChatsFile        string `env:"CHATS_FILE" envDefault:"chats.yaml"`
	DatabaseURL      string `env:"DATABASE_URL"`
	ConsoleTimezone  string `env:"CONSOLE_TIMEZONE" envDefault:"Local"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:              raw.Env,
		ChatPlatform:     raw.ChatPlatform,
		TelegramBotToken: raw.TelegramBotToken,
		DiscordToken:     raw.DiscordToken,
		DiscordGuildID:   raw.DiscordGuildID,
		GitLabURL:        raw.GitLabURL,
		ChatsFile:        raw.ChatsFile,
		DatabaseURL:      raw.DatabaseURL,
		ConsoleTimezone:  raw.ConsoleTimezone,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
