package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/pipelinebot/internal/chat"
)

type Client struct {
	session   *discordgo.Session
	token     string
	guildID   string
	botUserID string
}

func NewClient(token, guildID string) chat.Client {
	return &Client{
		token:   token,
		guildID: guildID,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.getBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// RegisterCommands upserts slash commands in the configured guild, or
// globally when no guild is configured.
func (c *Client) RegisterCommands(defs []chat.CommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, c.guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertSlashCommand(appID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertSlashCommand(appID string, def chat.CommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, c.guildID, payload)
		return err
	}
	if cmd.Description == def.Description {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, c.guildID, cmd.ID, payload)
	return err
}

// RegisterMessageHandler feeds both text messages ("/pipeline") and slash
// command interactions into handler.
func (c *Client) RegisterMessageHandler(handler func(chat.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Author == nil || m.Author.ID == c.botUserID || m.Author.Bot {
			return
		}
		event, ok := newMessageEvent(s, m)
		if !ok {
			return
		}
		handler(event)
	})
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		event, ok := newInteractionEvent(s, ic)
		if !ok {
			return
		}
		// Discord voids interactions not acknowledged within 3 seconds, and
		// the GitLab calls behind a command can take longer than that.
		if err := deferInteraction(s, ic.Interaction); err != nil {
			slog.Error("failed to acknowledge interaction", "channel_id", ic.ChannelID, "command", event.Command, "error", err)
			return
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", event.Command)
		handler(event)
	})
}

func (c *Client) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func newMessageEvent(s *discordgo.Session, m *discordgo.MessageCreate) (chat.MessageEvent, bool) {
	chatID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		slog.Warn("ignoring message with non-numeric channel id", "channel_id", m.ChannelID)
		return chat.MessageEvent{}, false
	}
	event := chat.MessageEvent{
		ChatID:      chatID,
		Username:    m.Author.Username,
		DisplayName: preferredDiscordName(m.Author.GlobalName, m.Author.Username, ""),
		Command:     chat.ParseCommand(m.Content),
		Text:        m.Content,
		ReceivedAt:  receivedAt(m.Timestamp),
	}
	channelID := m.ChannelID
	ref := m.Reference()
	event.Respond = func(reply chat.Reply) error {
		_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content:   reply.Text,
			Reference: ref,
		})
		if err != nil {
			slog.Error("failed to send discord reply", "channel_id", channelID, "error", err)
		}
		return err
	}
	return event, true
}

func newInteractionEvent(s *discordgo.Session, ic *discordgo.InteractionCreate) (chat.MessageEvent, bool) {
	data := ic.ApplicationCommandData()
	if data.Name == "" {
		return chat.MessageEvent{}, false
	}
	chatID, err := strconv.ParseInt(ic.ChannelID, 10, 64)
	if err != nil {
		return chat.MessageEvent{}, false
	}
	var user *discordgo.User
	if ic.Member != nil && ic.Member.User != nil {
		user = ic.Member.User
	}
	if user == nil {
		user = ic.User
	}
	if user == nil {
		return chat.MessageEvent{}, false
	}

	event := chat.MessageEvent{
		ChatID:      chatID,
		Username:    user.Username,
		DisplayName: preferredDiscordName(user.GlobalName, user.Username, ""),
		Command:     data.Name,
		Text:        "/" + data.Name,
		ReceivedAt:  time.Now(),
	}
	// Interactions are acknowledged up front, so every reply is a follow-up.
	interaction := ic.Interaction
	event.Respond = func(reply chat.Reply) error {
		_, err := s.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{Content: reply.Text})
		if err != nil {
			slog.Error("failed to send discord follow-up", "channel_id", interaction.ChannelID, "error", err)
		}
		return err
	}
	return event, true
}

func deferInteraction(s *discordgo.Session, interaction *discordgo.Interaction) error {
	return s.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func receivedAt(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func (c *Client) getBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		return c.session.State.User.ID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}
