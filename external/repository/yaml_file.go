package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/repository"
	"gopkg.in/yaml.v3"
)

type chatsFile struct {
	Chats []chatEntry `yaml:"chats"`
}

type chatEntry struct {
	ChatID      int64  `yaml:"chat_id"`
	GitLabToken string `yaml:"gitlab_token"`
	ProjectID   int64  `yaml:"project_id"`
}

// YAMLFileRepository reads chat configuration from a file such as
//
//	chats:
//	  - chat_id: -1001234567890
//	    gitlab_token: glpat-xxxx
//	    project_id: 4242
type YAMLFileRepository struct {
	path string
}

func NewYAMLFileRepository(path string) repository.ChatConfigRepository {
	return &YAMLFileRepository{path: path}
}

func (r *YAMLFileRepository) ListChatConfigs(ctx context.Context) ([]config.ChatConfig, error) {
	_ = ctx
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chats file %s: %w", r.path, err)
	}
	return parseChatsYAML(b)
}

func parseChatsYAML(b []byte) ([]config.ChatConfig, error) {
	var f chatsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse chats file: %w", err)
	}
	list := make([]config.ChatConfig, 0, len(f.Chats))
	for i, e := range f.Chats {
		if e.ChatID == 0 {
			return nil, fmt.Errorf("chats[%d]: chat_id is required", i)
		}
		list = append(list, config.ChatConfig{
			ChatID:      e.ChatID,
			GitLabToken: e.GitLabToken,
			ProjectID:   e.ProjectID,
		})
	}
	return list, nil
}
