package chat

import (
	"context"
	"time"
)

type Reply struct {
	Text string
	// Markdown sends Text with the platform's markdown parse mode.
	Markdown bool
}

type CommandDefinition struct {
	Name        string
	Description string
}

// MessageEvent is one inbound message. Command is set only when the message
// is a bot command and holds its name without the leading slash.
type MessageEvent struct {
	ChatID      int64
	Username    string
	DisplayName string
	Command     string
	Text        string
	ReceivedAt  time.Time
	Respond     func(reply Reply) error
}

func (e MessageEvent) IsCommand() bool {
	return e.Command != ""
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	RegisterCommands(defs []CommandDefinition) error
	RegisterMessageHandler(handler func(MessageEvent))
	// Run blocks delivering events until ctx is canceled.
	Run(ctx context.Context) error
}
