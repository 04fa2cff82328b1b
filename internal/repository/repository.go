package repository

import (
	"context"
	"fmt"

	"github.com/foxseedlab/pipelinebot/internal/config"
)

type ChatConfigRepository interface {
	ListChatConfigs(ctx context.Context) ([]config.ChatConfig, error)
}

// LoadChatDirectory reads every chat configuration once. The result is never
// refreshed for the lifetime of the process.
func LoadChatDirectory(ctx context.Context, repo ChatConfigRepository) (*config.ChatDirectory, error) {
	chats, err := repo.ListChatConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat configs: %w", err)
	}
	seen := make(map[int64]struct{}, len(chats))
	for _, c := range chats {
		if _, dup := seen[c.ChatID]; dup {
			return nil, fmt.Errorf("chat %d is configured more than once", c.ChatID)
		}
		seen[c.ChatID] = struct{}{}
	}
	return config.NewChatDirectory(chats), nil
}
