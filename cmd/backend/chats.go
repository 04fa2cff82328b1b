package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gitlabimpl "github.com/foxseedlab/pipelinebot/external/gitlab"
	repositoryimpl "github.com/foxseedlab/pipelinebot/external/repository"
	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/foxseedlab/pipelinebot/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const probeTimeout = 15 * time.Second

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List configured chats and test their GitLab tokens",
	Long: `Loads the per-chat configuration the bot would use and checks each
usable GitLab token against the server. Prints one line per chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		initLogger(cfg)

		injector := do.New()
		do.ProvideValue(injector, cfg)
		repositoryimpl.RegisterDI(injector)
		gitlabimpl.RegisterDI(injector)
		session.RegisterDI(injector)

		chats, err := do.Invoke[*config.ChatDirectory](injector)
		if err != nil {
			return fmt.Errorf("failed to load chat configs: %w", err)
		}
		registry := do.MustInvoke[*session.Registry](injector)
		printChatStatuses(cmd.Context(), cmd.OutOrStdout(), chats, registry)
		return nil
	},
}

func printChatStatuses(ctx context.Context, w io.Writer, chats *config.ChatDirectory, registry *session.Registry) {
	if chats.Len() == 0 {
		fmt.Fprintln(w, "no chats configured")
		return
	}
	for _, chatID := range chats.ChatIDs() {
		c, _ := chats.Lookup(chatID)
		fmt.Fprintf(w, "%d\tproject=%d\t%s\n", chatID, c.ProjectID, probeChat(ctx, registry, c))
	}
}

func probeChat(ctx context.Context, registry *session.Registry, c config.ChatConfig) string {
	if !c.HasUsableToken() {
		return "skipped: token not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	user, err := registry.Probe(ctx, c.GitLabToken)
	switch {
	case err == nil:
		return "ok: " + user.Username
	case errors.Is(err, gitlab.ErrUnauthorized):
		return "failed: invalid token"
	default:
		return "failed: " + err.Error()
	}
}
