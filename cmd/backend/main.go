package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/pipelinebot/external/config"
	"github.com/foxseedlab/pipelinebot/external/discord"
	gitlabimpl "github.com/foxseedlab/pipelinebot/external/gitlab"
	repositoryimpl "github.com/foxseedlab/pipelinebot/external/repository"
	"github.com/foxseedlab/pipelinebot/external/telegram"
	"github.com/foxseedlab/pipelinebot/internal/bot"
	"github.com/foxseedlab/pipelinebot/internal/chat"
	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const (
	chatConnectTimeout = 20 * time.Second
	sessionInitTimeout = 60 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "pipelinebot",
	Short: "Chat bot reporting GitLab pipelines and merge requests",
	Long: `Runs the chat bot. Each configured chat is bound to one GitLab project
and answers /pipeline, /mr, /chatid, /status and /test.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		initLogger(cfg)
		slog.Info("startup: configuration loaded", "env", cfg.Env, "platform", cfg.ChatPlatform)

		slog.Info("startup: building dependency graph")
		injector := setupDI(cfg)

		runBot(cmd.Context(), cfg, injector)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(chatsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	gitlabimpl.RegisterDI(injector)
	switch cfg.ChatPlatform {
	case config.PlatformDiscord:
		discord.RegisterDI(injector)
	default:
		telegram.RegisterDI(injector)
	}
	session.RegisterDI(injector)
	bot.RegisterDI(injector)

	return injector
}

func runBot(parent context.Context, cfg *config.Config, injector do.Injector) {
	client, err := do.Invoke[chat.Client](injector)
	if err != nil {
		slog.Error("failed to resolve chat client", "error", err)
		os.Exit(1)
	}
	dispatcher, err := do.Invoke[*bot.Dispatcher](injector)
	if err != nil {
		slog.Error("failed to resolve dispatcher", "error", err)
		os.Exit(1)
	}
	registry := do.MustInvoke[*session.Registry](injector)
	chats := do.MustInvoke[*config.ChatDirectory](injector)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), chatConnectTimeout)
	defer cancelConnect()

	slog.Info("startup: connecting to chat platform", "platform", cfg.ChatPlatform)
	if err := client.Connect(connectCtx); err != nil {
		slog.Error("chat connect failed", "platform", cfg.ChatPlatform, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("chat close failed", "error", err)
		}
	}()

	client.RegisterMessageHandler(dispatcher.HandleMessage)
	if err := client.RegisterCommands(bot.CommandDefinitions()); err != nil {
		// Commands still work when typed; only the platform's command menu is missing.
		slog.Warn("failed to register commands", "platform", cfg.ChatPlatform, "error", err)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), sessionInitTimeout)
	initialized, failed := registry.InitializeAll(initCtx, chats)
	cancelInit()
	slog.Info("startup: gitlab clients initialized",
		"configured_chats", chats.Len(),
		"initialized", initialized,
		"failed", failed,
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("startup: entering run loop")
	if err := client.Run(ctx); err != nil {
		slog.Error("chat run failed", "error", err)
	}
	slog.Info("shutting down")
}
