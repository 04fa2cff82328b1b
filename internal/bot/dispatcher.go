package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/chat"
	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/foxseedlab/pipelinebot/internal/markdown"
	"github.com/foxseedlab/pipelinebot/internal/report"
	"github.com/foxseedlab/pipelinebot/internal/session"
)

type Dispatcher struct {
	chats     *config.ChatDirectory
	sessions  *session.Registry
	pipelines *report.PipelineReporter
	mrs       *report.MergeRequestReporter
	console   *consoleLog
}

func NewDispatcher(chats *config.ChatDirectory, sessions *session.Registry, console io.Writer, loc *time.Location) *Dispatcher {
	return &Dispatcher{
		chats:     chats,
		sessions:  sessions,
		pipelines: report.NewPipelineReporter(sessions),
		mrs:       report.NewMergeRequestReporter(sessions),
		console:   newConsoleLog(console, loc),
	}
}

// HandleMessage runs one inbound message to completion. Every failure,
// including a panic, ends as a reply; nothing escapes to the transport.
func (d *Dispatcher) HandleMessage(event chat.MessageEvent) {
	if !event.IsCommand() {
		d.console.line(event, "")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panicked", "chat_id", event.ChatID, "command", event.Command, "panic", fmt.Sprint(r))
			d.console.line(event, fmt.Sprintf("ERROR: %v", r))
			d.reply(event, chat.Reply{Text: messageErrorOccurred})
		}
	}()

	ctx := context.Background()
	switch event.Command {
	case commandPipeline:
		d.console.line(event, "/"+commandPipeline)
		d.handlePipeline(ctx, event)
	case commandMR:
		d.console.line(event, "/"+commandMR)
		d.handleMergeRequest(ctx, event)
	case commandChatID:
		d.console.line(event, "/"+commandChatID)
		d.reply(event, chat.Reply{Text: fmt.Sprintf(messageChatIDFormat, event.ChatID), Markdown: true})
	case commandStatus:
		d.console.line(event, "/"+commandStatus)
		d.handleStatus(ctx, event)
	case commandTest:
		d.console.line(event, "/"+commandTest)
		d.handleTest(ctx, event)
	case commandHelp, commandStart:
		d.console.line(event, "/"+event.Command)
		d.reply(event, chat.Reply{Text: helpText()})
	default:
		d.console.line(event, consoleUnknownCommand)
		d.reply(event, chat.Reply{Text: messageUnknownCommand})
	}
}

func (d *Dispatcher) handlePipeline(ctx context.Context, event chat.MessageEvent) {
	c, ok := d.requireSession(ctx, event)
	if !ok {
		return
	}
	summary, err := d.pipelines.Report(ctx, event.ChatID, c.ProjectID)
	switch {
	case errors.Is(err, report.ErrSessionNotInitialized):
		d.reply(event, chat.Reply{Text: messageClientNotInitialized})
	case gitlab.IsNotFound(err):
		d.reply(event, chat.Reply{Text: messageProjectNotFound})
	case err != nil:
		slog.Error("pipeline command failed", "chat_id", event.ChatID, "error", err)
		d.reply(event, chat.Reply{Text: errorText(messageErrorFormat, err)})
	case summary == nil:
		d.reply(event, chat.Reply{Text: messageNoPipeline})
	default:
		d.reply(event, chat.Reply{Text: markdown.RenderPipeline(*summary), Markdown: true})
	}
}

func (d *Dispatcher) handleMergeRequest(ctx context.Context, event chat.MessageEvent) {
	c, ok := d.requireSession(ctx, event)
	if !ok {
		return
	}
	rep, err := d.mrs.Report(ctx, event.ChatID, c.ProjectID)
	var apiErr *gitlab.APIError
	switch {
	case errors.Is(err, report.ErrSessionNotInitialized):
		d.reply(event, chat.Reply{Text: messageClientNotInitialized})
	case errors.Is(err, report.ErrNotEnoughMergeRequests):
		d.reply(event, chat.Reply{Text: messageNotEnoughMRs})
	case gitlab.IsNotFound(err):
		d.reply(event, chat.Reply{Text: messageProjectNotFound})
	case errors.As(err, &apiErr):
		slog.Error("mr command failed", "chat_id", event.ChatID, "status_code", apiErr.StatusCode, "error", err)
		d.reply(event, chat.Reply{Text: errorText(messageGitLabErrorFormat, err)})
	case err != nil:
		slog.Error("mr command failed", "chat_id", event.ChatID, "error", err)
		d.reply(event, chat.Reply{Text: errorText(messageErrorFormat, err)})
	default:
		d.reply(event, chat.Reply{Text: markdown.RenderMergeRequest(*rep), Markdown: true})
	}
}

func (d *Dispatcher) handleStatus(ctx context.Context, event chat.MessageEvent) {
	c, ok := d.chats.Lookup(event.ChatID)
	if !ok {
		d.reply(event, chat.Reply{Text: messageChatNotConfigured})
		return
	}
	_, hasSession := d.sessions.Lookup(event.ChatID)
	clientState := messageClientMissing
	if hasSession {
		clientState = messageClientInitialized
	}
	text := fmt.Sprintf(messageStatusFormat, c.ProjectID, clientState)
	if c.HasUsableToken() && !hasSession {
		text += fmt.Sprintf(messageConnectionTestFormat, d.connectionTest(ctx, c.GitLabToken))
	}
	d.reply(event, chat.Reply{Text: text})
}

func (d *Dispatcher) handleTest(ctx context.Context, event chat.MessageEvent) {
	c, ok := d.chats.Lookup(event.ChatID)
	if !ok {
		d.reply(event, chat.Reply{Text: messageChatNotConfigured})
		return
	}
	if !c.HasUsableToken() {
		d.reply(event, chat.Reply{Text: messageTokenNotConfigured})
		return
	}
	d.reply(event, chat.Reply{Text: messageTestingConnection})
	d.reply(event, chat.Reply{Text: d.connectionTest(ctx, c.GitLabToken)})
}

// requireSession applies the configuration guards shared by the report
// commands and lazily creates the chat's session.
func (d *Dispatcher) requireSession(ctx context.Context, event chat.MessageEvent) (config.ChatConfig, bool) {
	c, ok := d.chats.Lookup(event.ChatID)
	if !ok {
		d.reply(event, chat.Reply{Text: messageChatNotConfigured})
		return c, false
	}
	if !c.HasUsableToken() {
		d.reply(event, chat.Reply{Text: messageTokenNotConfigured})
		return c, false
	}
	if !c.HasProject() {
		d.reply(event, chat.Reply{Text: messageProjectNotConfigured})
		return c, false
	}
	if _, ok := d.sessions.Lookup(event.ChatID); ok {
		return c, true
	}
	if _, err := d.sessions.Initialize(ctx, event.ChatID, c.GitLabToken); err != nil {
		d.reply(event, chat.Reply{Text: messageClientInitFailed})
		return c, false
	}
	return c, true
}

func (d *Dispatcher) connectionTest(ctx context.Context, token string) string {
	user, err := d.sessions.Probe(ctx, token)
	switch {
	case err == nil:
		return fmt.Sprintf(messageConnectionOKFormat, user.Username)
	case errors.Is(err, gitlab.ErrUnauthorized):
		return messageAuthFailed
	default:
		return errorText(messageConnectionErrorFormat, err)
	}
}

func (d *Dispatcher) reply(event chat.MessageEvent, r chat.Reply) {
	if event.Respond == nil {
		slog.Warn("message event has no responder", "chat_id", event.ChatID)
		return
	}
	if err := event.Respond(r); err != nil {
		slog.Error("failed to deliver reply", "chat_id", event.ChatID, "command", event.Command, "error", err)
	}
}
