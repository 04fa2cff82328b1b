package config

import (
	"fmt"
	"time"
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"

	PlaceholderTelegramToken = "YOUR_TELEGRAM_BOT_TOKEN_HERE"
)

type Config struct {
	Env              string
	ChatPlatform     string
	TelegramBotToken string
	DiscordToken     string
	DiscordGuildID   string
	GitLabURL        string
	ChatsFile        string
	DatabaseURL      string
	ConsoleTimezone  string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.ChatPlatform {
	case PlatformTelegram:
		if c.TelegramBotToken == "" || c.TelegramBotToken == PlaceholderTelegramToken {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when CHAT_PLATFORM=%s", PlatformTelegram)
		}
	case PlatformDiscord:
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required when CHAT_PLATFORM=%s", PlatformDiscord)
		}
	default:
		return fmt.Errorf("CHAT_PLATFORM must be %q or %q, got %q", PlatformTelegram, PlatformDiscord, c.ChatPlatform)
	}
	if c.DatabaseURL == "" && c.ChatsFile == "" {
		return fmt.Errorf("CHATS_FILE is required when DATABASE_URL is not set")
	}
	if _, err := time.LoadLocation(c.ConsoleTimezone); err != nil {
		return fmt.Errorf("CONSOLE_TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "CHAT_PLATFORM", value: c.ChatPlatform},
		{name: "GITLAB_URL", value: c.GitLabURL},
		{name: "CONSOLE_TIMEZONE", value: c.ConsoleTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesDatabase reports whether per-chat configuration is read from PostgreSQL
// instead of the chats file.
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// ConsoleLocation falls back to time.Local when the timezone cannot be loaded.
func (c *Config) ConsoleLocation() *time.Location {
	loc, err := time.LoadLocation(c.ConsoleTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}
