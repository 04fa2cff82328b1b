package config

import "sort"

// PlaceholderGitLabToken is the value shipped in example chat files.
const PlaceholderGitLabToken = "YOUR_GITLAB_TOKEN_HERE"

type ChatConfig struct {
	ChatID      int64
	GitLabToken string
	ProjectID   int64
}

func (c ChatConfig) HasUsableToken() bool {
	return IsUsableGitLabToken(c.GitLabToken)
}

func (c ChatConfig) HasProject() bool {
	return c.ProjectID != 0
}

func IsUsableGitLabToken(token string) bool {
	return token != "" && token != PlaceholderGitLabToken
}

// ChatDirectory is built once at startup and never mutated afterwards.
type ChatDirectory struct {
	byChatID map[int64]ChatConfig
}

func NewChatDirectory(chats []ChatConfig) *ChatDirectory {
	byChatID := make(map[int64]ChatConfig, len(chats))
	for _, c := range chats {
		byChatID[c.ChatID] = c
	}
	return &ChatDirectory{byChatID: byChatID}
}

func (d *ChatDirectory) Lookup(chatID int64) (ChatConfig, bool) {
	c, ok := d.byChatID[chatID]
	return c, ok
}

func (d *ChatDirectory) ChatIDs() []int64 {
	ids := make([]int64, 0, len(d.byChatID))
	for id := range d.byChatID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (d *ChatDirectory) Len() int {
	return len(d.byChatID)
}
