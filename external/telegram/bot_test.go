package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/pipelinebot/internal/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func commandMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 77,
		Date:      1767225600,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: -1001234},
		From:      &tgbotapi.User{ID: 5, UserName: "ann", FirstName: "Ann"},
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func TestNewMessageEvent_Command(t *testing.T) {
	event := newMessageEvent(commandMessage("/pipeline@gitlab_bot"), nil)

	if event.ChatID != -1001234 {
		t.Fatalf("unexpected chat id: %d", event.ChatID)
	}
	if event.Username != "ann" || event.DisplayName != "Ann" {
		t.Fatalf("unexpected user fields: %+v", event)
	}
	if event.Command != "pipeline" {
		t.Fatalf("unexpected command: %q", event.Command)
	}
	if event.ReceivedAt.Unix() != 1767225600 {
		t.Fatalf("unexpected received time: %v", event.ReceivedAt)
	}
}

func TestNewMessageEvent_PlainTextWithoutSender(t *testing.T) {
	event := newMessageEvent(&tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 9}}, nil)

	if event.IsCommand() {
		t.Fatal("expected plain text not to be a command")
	}
	if event.Username != "" || event.DisplayName != "" {
		t.Fatalf("expected empty user fields, got %+v", event)
	}
}

func TestNewMessageEvent_RespondBuildsReply(t *testing.T) {
	var sent []tgbotapi.MessageConfig
	send := func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
		msg, ok := c.(tgbotapi.MessageConfig)
		if !ok {
			t.Fatalf("unexpected chattable: %T", c)
		}
		sent = append(sent, msg)
		return tgbotapi.Message{}, nil
	}
	event := newMessageEvent(commandMessage("/mr"), send)

	if err := event.Respond(chat.Reply{Text: "*MR*", Markdown: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := event.Respond(chat.Reply{Text: "plain"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("expected two messages, got %d", len(sent))
	}
	if sent[0].ChatID != -1001234 || sent[0].ReplyToMessageID != 77 || sent[0].ParseMode != tgbotapi.ModeMarkdown {
		t.Fatalf("unexpected markdown reply: %+v", sent[0])
	}
	if sent[1].ParseMode != "" {
		t.Fatalf("expected plain reply, got parse mode %q", sent[1].ParseMode)
	}
}

func TestNewMessageEvent_RespondPropagatesError(t *testing.T) {
	send := func(tgbotapi.Chattable) (tgbotapi.Message, error) {
		return tgbotapi.Message{}, errors.New("Bad Request: can't parse entities")
	}
	event := newMessageEvent(commandMessage("/mr"), send)

	if err := event.Respond(chat.Reply{Text: "x"}); err == nil {
		t.Fatal("expected send error")
	}
}

func newFakeBotAPI(t *testing.T) *tgbotapi.BotAPI {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"gitlab_bot"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		}
	}))
	t.Cleanup(server.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", server.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("failed to create bot api: %v", err)
	}
	return api
}

func TestRunThenClose_StopsOnce(t *testing.T) {
	c := &Client{api: newFakeBotAPI(t)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Run(ctx); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected second close error: %v", err)
	}
}

func TestClose_WithoutConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
