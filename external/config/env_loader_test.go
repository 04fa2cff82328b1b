package config

import (
	"testing"

	internalconfig "github.com/foxseedlab/pipelinebot/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CONSOLE_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChatPlatform != internalconfig.PlatformTelegram {
		t.Fatalf("unexpected platform: %s", cfg.ChatPlatform)
	}
	if cfg.GitLabURL != "https://gitlab.com" {
		t.Fatalf("unexpected gitlab url: %s", cfg.GitLabURL)
	}
	if cfg.ChatsFile != "chats.yaml" {
		t.Fatalf("unexpected chats file: %s", cfg.ChatsFile)
	}
	if cfg.Env != "production" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
}

func TestLoad_RejectsMissingPlatformToken(t *testing.T) {
	t.Setenv("CHAT_PLATFORM", "discord")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("CONSOLE_TIMEZONE", "UTC")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when discord token is missing")
	}
}
