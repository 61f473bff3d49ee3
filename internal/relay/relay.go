// Package relay re-emits messages with rewritten emoji tokens through a
// per-channel webhook, impersonating the original author.
package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"communitybot/internal/emoji"
)

// ProxyName is the fixed label given to webhooks this bot creates.
const ProxyName = "CommunityBot"

const maxAvatarBytes = 10 << 20

// Session is the slice of the Discord API the relay needs.
type Session interface {
	ChannelWebhooks(channelID string, options ...discordgo.RequestOption) ([]*discordgo.Webhook, error)
	WebhookCreate(channelID, name, avatar string, options ...discordgo.RequestOption) (*discordgo.Webhook, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Relay rewrites inline :name: tokens and resends the message through the
// channel's proxy webhook under the author's display name and avatar, then
// deletes the original.
type Relay struct {
	session   Session
	resolve   func(name string) (string, bool)
	botUserID string
	logger    *slog.Logger

	// Injectable for tests; fetches an image URL as a data URI.
	fetchAvatar func(url string) (string, error)
}

// New creates a relay. botUserID identifies which channel webhooks belong to
// this bot.
func New(session Session, resolve func(name string) (string, bool), botUserID string, logger *slog.Logger) *Relay {
	return &Relay{
		session:     session,
		resolve:     resolve,
		botUserID:   botUserID,
		logger:      logger,
		fetchAvatar: fetchAvatarDataURI,
	}
}

// Handle rewrites and relays a single message. A message with no resolvable
// tokens is left alone. Send and delete are not transactional: a failed send
// keeps the original (no delete is attempted); a failed delete leaves both
// messages visible and is only logged.
func (r *Relay) Handle(ctx context.Context, m *discordgo.Message) error {
	rewritten, changed := emoji.Rewrite(m.Content, r.resolve)
	if !changed {
		return nil
	}

	hook, err := r.proxyFor(m)
	if err != nil {
		return fmt.Errorf("relay: resolve channel proxy: %w", err)
	}

	_, err = r.session.WebhookExecute(hook.ID, hook.Token, true, &discordgo.WebhookParams{
		Content:   rewritten,
		Username:  authorDisplayName(m),
		AvatarURL: m.Author.AvatarURL(""),
	})
	if err != nil {
		return fmt.Errorf("relay: send through proxy: %w", err)
	}

	if err := r.session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		r.logger.WarnContext(ctx, "relayed message sent but original not deleted",
			"channel_id", m.ChannelID,
			"message_id", m.ID,
			"error", err)
	}

	return nil
}

// proxyFor returns the channel's proxy webhook, creating one if the bot owns
// none there. Webhooks are re-listed on every relay rather than cached, so
// two concurrent relays on a fresh channel can race the create; the extra
// webhook is harmless and tolerated. The creation-time avatar is taken from
// the triggering author and never refreshed; per-send overrides carry the
// actual identity.
func (r *Relay) proxyFor(m *discordgo.Message) (*discordgo.Webhook, error) {
	hooks, err := r.session.ChannelWebhooks(m.ChannelID)
	if err != nil {
		return nil, err
	}

	for _, hook := range hooks {
		if hook.User != nil && hook.User.ID == r.botUserID {
			return hook, nil
		}
	}

	avatar, err := r.fetchAvatar(m.Author.AvatarURL("128"))
	if err != nil {
		return nil, fmt.Errorf("fetch avatar for new proxy: %w", err)
	}

	return r.session.WebhookCreate(m.ChannelID, ProxyName, avatar)
}

// authorDisplayName prefers the guild nickname over the account username.
func authorDisplayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}

// fetchAvatarDataURI downloads an avatar and encodes it in the data URI form
// the webhook-create endpoint expects.
func fetchAvatarDataURI(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return "", err
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
