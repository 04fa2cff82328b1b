package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const longPollTimeoutSec = 60

type sendFunc func(c tgbotapi.Chattable) (tgbotapi.Message, error)

type Client struct {
	token   string
	api     *tgbotapi.BotAPI
	handler func(chat.MessageEvent)

	// StopReceivingUpdates closes a channel and panics when called twice.
	stopOnce sync.Once
}

func NewClient(token string) chat.Client {
	return &Client{token: token}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	api, err := tgbotapi.NewBotAPI(c.token)
	if err != nil {
		return fmt.Errorf("failed to connect telegram bot api: %w", err)
	}
	c.api = api
	slog.Info("telegram bot authorized", "bot_username", api.Self.UserName)
	return nil
}

func (c *Client) Close() error {
	c.stopReceiving()
	return nil
}

func (c *Client) stopReceiving() {
	if c.api == nil {
		return
	}
	c.stopOnce.Do(c.api.StopReceivingUpdates)
}

func (c *Client) RegisterCommands(defs []chat.CommandDefinition) error {
	if c.api == nil {
		return fmt.Errorf("telegram bot is not connected")
	}
	commands := make([]tgbotapi.BotCommand, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		commands = append(commands, tgbotapi.BotCommand{Command: def.Name, Description: def.Description})
	}
	_, err := c.api.Request(tgbotapi.NewSetMyCommands(commands...))
	return err
}

func (c *Client) RegisterMessageHandler(handler func(chat.MessageEvent)) {
	c.handler = handler
}

// Run consumes updates from a single long-poll channel, so handlers never run
// concurrently.
func (c *Client) Run(ctx context.Context) error {
	if c.api == nil {
		return fmt.Errorf("telegram bot is not connected")
	}
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = longPollTimeoutSec
	updates := c.api.GetUpdatesChan(cfg)
	for {
		select {
		case <-ctx.Done():
			c.stopReceiving()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || c.handler == nil {
				continue
			}
			c.handler(newMessageEvent(update.Message, c.api.Send))
		}
	}
}

func newMessageEvent(m *tgbotapi.Message, send sendFunc) chat.MessageEvent {
	event := chat.MessageEvent{
		Text:       m.Text,
		ReceivedAt: time.Now(),
	}
	if m.Date != 0 {
		event.ReceivedAt = m.Time()
	}
	if m.Chat != nil {
		event.ChatID = m.Chat.ID
	}
	if m.From != nil {
		event.Username = m.From.UserName
		event.DisplayName = m.From.FirstName
	}
	if m.IsCommand() {
		event.Command = chat.ParseCommand(m.Text)
	}
	chatID := event.ChatID
	replyTo := m.MessageID
	event.Respond = func(reply chat.Reply) error {
		msg := tgbotapi.NewMessage(chatID, reply.Text)
		msg.ReplyToMessageID = replyTo
		if reply.Markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if _, err := send(msg); err != nil {
			slog.Error("failed to send telegram reply", "chat_id", chatID, "error", err)
			return err
		}
		return nil
	}
	return event
}
