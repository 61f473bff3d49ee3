package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"communitybot/internal/bumper"
	"communitybot/internal/config"
	"communitybot/internal/discord"
	"communitybot/internal/emoji"
	"communitybot/internal/relay"
	"communitybot/internal/store"
)

// Bot wires the gateway session to the bump scheduler, the emoji relay and
// the member greeters.
type Bot struct {
	session   discord.Session
	config    *config.Config
	logger    *slog.Logger
	store     *store.BumpStore
	emojis    *emoji.Group
	scheduler *bumper.Scheduler
	relay     *relay.Relay
	cron      *cron.Cron
	cancel    context.CancelFunc
}

// NewBot creates a new bot instance
func NewBot(cfg *config.Config, logger *slog.Logger) (*Bot, error) {
	session, err := discord.NewDiscordSession(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bumpStore, err := store.Open(cfg.BumpStorePath)
	if err != nil {
		return nil, fmt.Errorf("error opening bump store: %w", err)
	}

	bot := &Bot{
		session: session,
		config:  cfg,
		logger:  logger,
		store:   bumpStore,
		emojis:  emoji.NewGroup(),
		cron:    cron.New(),
	}
	bot.scheduler = bumper.New(bumpStore, bumper.DefaultPeriod, bot.sendBumpReminder, logger)

	// Safety net for emoji changes the gateway event misses (bot offline).
	if _, err := bot.cron.AddFunc("@hourly", func() {
		bot.refreshEmojis(context.Background())
	}); err != nil {
		_ = bumpStore.Close()
		return nil, fmt.Errorf("error scheduling emoji resync: %w", err)
	}

	session.AddHandler(bot.readyHandler)
	session.AddHandler(bot.messageHandler)
	session.AddHandler(bot.memberJoinHandler)
	session.AddHandler(bot.memberLeaveHandler)
	session.AddHandler(bot.emojisUpdateHandler)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.scheduler.Run(runCtx)

	if err := b.session.Open(); err != nil {
		cancel()
		return fmt.Errorf("error opening connection: %w", err)
	}

	user, err := b.session.User("@me")
	if err != nil {
		return fmt.Errorf("error obtaining account details: %w", err)
	}

	b.cron.Start()

	b.logger.InfoContext(ctx, "bot started",
		"username", user.Username,
		"user_id", user.ID,
		"maintenance", b.config.MaintenanceMode)

	return nil
}

// Close closes the bot session and releases resources
func (b *Bot) Close(ctx context.Context) error {
	b.logger.InfoContext(ctx, "closing bot session")
	if b.cancel != nil {
		b.cancel()
	}
	b.cron.Stop()

	err := b.session.Close()
	if cerr := b.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// readyHandler runs once the gateway handshake completes (and again on
// reconnects; everything here is idempotent).
func (b *Bot) readyHandler(s *discordgo.Session, r *discordgo.Ready) {
	ctx := context.Background()

	b.logger.InfoContext(ctx, "logged in",
		"username", r.User.Username,
		"user_id", r.User.ID)

	if b.relay == nil {
		b.relay = relay.New(b.session, b.emojis.Resolve, r.User.ID, b.logger)
	}
	b.refreshEmojis(ctx)

	if b.config.MaintenanceMode {
		b.setPresence(ctx, discordgo.StatusDoNotDisturb, "| Under Maintenance")
		return
	}

	b.setPresence(ctx, discordgo.StatusOnline, "!emojis | .go")

	if err := b.scheduler.Resume(ctx); err != nil {
		b.logger.ErrorContext(ctx, "failed to resume bump timer", "error", err)
	}
}

// messageHandler handles incoming messages
func (b *Bot) messageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	if m.Author == nil {
		return
	}

	// Ignore messages from the bot itself
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	// In maintenance mode only the maintenance channel is processed
	if b.config.MaintenanceMode && m.ChannelID != b.config.MaintenanceChannelID {
		return
	}

	// Webhook traffic covers our own relay proxies too; the only webhook
	// message we care about is the Disboard bump confirmation.
	if m.WebhookID != "" {
		if isBumpConfirmation(m.Message, b.config.DisboardID) {
			b.logger.InfoContext(ctx, "bump confirmed", "channel_id", m.ChannelID)
			if err := b.scheduler.BumpConfirmed(ctx, time.Now()); err != nil {
				b.logger.ErrorContext(ctx, "failed to record bump", "error", err)
			}
		}
		return
	}

	if strings.HasPrefix(m.Content, commandPrefix) {
		b.dispatchCommand(ctx, m)
		return
	}

	if b.relay != nil && strings.Count(m.Content, string(emoji.Delimiter)) > 1 {
		if err := b.relay.Handle(ctx, m.Message); err != nil {
			b.logger.ErrorContext(ctx, "relay failed",
				"channel_id", m.ChannelID,
				"message_id", m.ID,
				"error", err)
		}
	}
}

// dispatchCommand routes prefix commands
func (b *Bot) dispatchCommand(ctx context.Context, m *discordgo.MessageCreate) {
	parts := strings.Fields(m.Content)
	if len(parts) == 0 {
		return
	}
	command := strings.TrimPrefix(parts[0], commandPrefix)

	b.logger.InfoContext(ctx, "received command",
		"command", command,
		"user_id", m.Author.ID,
		"username", m.Author.Username,
		"channel_id", m.ChannelID)

	switch command {
	case "ping":
		b.handlePing(ctx, m)
	case "emojis":
		b.handleEmojis(ctx, m)
	case "bumpstatus":
		b.handleBumpStatus(ctx, m)
	default:
		b.logger.InfoContext(ctx, "unknown command", "command", command)
	}
}

// handlePing responds with "Pong!"
func (b *Bot) handlePing(ctx context.Context, m *discordgo.MessageCreate) {
	b.sendText(ctx, m.ChannelID, "Pong!")
}

// handleEmojis lists every resolvable emoji token
func (b *Bot) handleEmojis(ctx context.Context, m *discordgo.MessageCreate) {
	names := b.emojis.Names()
	if len(names) == 0 {
		b.sendText(ctx, m.ChannelID, "No custom emojis available.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d emojis available:\n", len(names))
	for _, name := range names {
		if ref, ok := b.emojis.Resolve(name); ok {
			fmt.Fprintf(&sb, "%s `:%s:`\n", ref, name)
		}
	}

	b.sendLongResponse(ctx, m.ChannelID, sb.String())
}

// handleBumpStatus reports whether a reminder countdown is armed
func (b *Bot) handleBumpStatus(ctx context.Context, m *discordgo.MessageCreate) {
	if b.scheduler.Running() {
		b.sendText(ctx, m.ChannelID, "A bump reminder is armed. I'll ping the bumpers when the server can be bumped again.")
		return
	}
	b.sendText(ctx, m.ChannelID, "The server can be bumped right now. Run `/bump`!")
}

// memberJoinHandler greets a new member
func (b *Bot) memberJoinHandler(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.GuildID != b.config.GuildID {
		return
	}
	ctx := context.Background()
	name := memberDisplayName(e.Member)

	_, err := b.session.ChannelMessageSendComplex(b.config.ConsoleChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Description: fmt.Sprintf(randomWelcome(), name),
			Color:       ColorGreen,
		}},
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to send console welcome", "error", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Welcome to the server %s!", name),
		Description: fmt.Sprintf("Glad to have you here. Have a look around the server.\n\n"+
			"Introduce yourself in <#%s>\n"+
			"Read server rules in <#%s>\n"+
			"Get self roles from <#%s>",
			b.config.IntroductionChannelID,
			b.config.RulesChannelID,
			b.config.RolesChannelID),
		Color:     ColorGold,
		Timestamp: time.Now().Format(time.RFC3339),
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: e.User.AvatarURL("")},
	}
	if s.State.User != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("%s Staff", s.State.User.Username),
			IconURL: s.State.User.AvatarURL(""),
		}
	}

	_, err = b.session.ChannelMessageSendComplex(b.config.GeneralChannelID, &discordgo.MessageSend{
		Content: e.User.Mention(),
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to send welcome message", "error", err)
	}
}

// memberLeaveHandler announces a departure
func (b *Bot) memberLeaveHandler(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	if e.GuildID != b.config.GuildID {
		return
	}
	ctx := context.Background()

	_, err := b.session.ChannelMessageSendComplex(b.config.ConsoleChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Description: fmt.Sprintf(randomFarewell(), memberDisplayName(e.Member)),
			Color:       ColorRed,
		}},
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to send farewell message", "error", err)
	}
}

// emojisUpdateHandler reloads the resolver when the guild's emoji set changes
func (b *Bot) emojisUpdateHandler(s *discordgo.Session, e *discordgo.GuildEmojisUpdate) {
	if e.GuildID != b.config.GuildID {
		return
	}
	b.emojis.Load(e.Emojis)
	b.logger.Info("emoji catalog reloaded", "count", b.emojis.Len())
}

// refreshEmojis re-enumerates the guild's emoji catalog
func (b *Bot) refreshEmojis(ctx context.Context) {
	emojis, err := b.session.GuildEmojis(b.config.GuildID)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to enumerate guild emojis", "error", err)
		return
	}
	b.emojis.Load(emojis)
	b.logger.InfoContext(ctx, "emoji catalog loaded", "count", b.emojis.Len())
}

// sendBumpReminder delivers the reminder embed to the terminal channel
func (b *Bot) sendBumpReminder(ctx context.Context) error {
	title := "Bump Reminder"
	if ref, ok := b.emojis.Resolve(reminderEmojiName); ok {
		title = title + " " + ref
	}

	_, err := b.session.ChannelMessageSendComplex(b.config.TerminalChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@&%s>", b.config.BumperRoleID),
		Embeds: []*discordgo.MessageEmbed{{
			Title:       title,
			Description: "Help grow this server. Run `/bump`",
			Color:       ColorGold,
		}},
	})
	return err
}

// setPresence updates the bot's status and activity
func (b *Bot) setPresence(ctx context.Context, status discordgo.Status, activity string) {
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(status),
		Activities: []*discordgo.Activity{{
			Name: activity,
			Type: discordgo.ActivityTypeGame,
		}},
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to update presence", "error", err)
	}
}

// isBumpConfirmation reports whether a webhook message is Disboard's
// successful-bump embed.
func isBumpConfirmation(m *discordgo.Message, disboardID string) bool {
	if m.Author == nil || m.Author.ID != disboardID {
		return false
	}
	return len(m.Embeds) > 0 && strings.Contains(m.Embeds[0].Description, bumpConfirmationMarker)
}

// memberDisplayName prefers the guild nickname over the account username
func memberDisplayName(member *discordgo.Member) string {
	if member == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}
