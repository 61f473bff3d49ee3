package bot

import (
	"context"
)

// sendText sends a plain message, logging instead of propagating failures
func (b *Bot) sendText(ctx context.Context, channelID, content string) {
	_, err := b.session.ChannelMessageSend(channelID, content)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to send message",
			"channel_id", channelID,
			"error", err)
	}
}

// sendLongResponse sends long responses in chunks to respect Discord's message length limit
func (b *Bot) sendLongResponse(ctx context.Context, channelID, response string) {
	for i, chunk := range chunkMessage(response, MaxDiscordMessageLength) {
		_, err := b.session.ChannelMessageSend(channelID, chunk)
		if err != nil {
			b.logger.ErrorContext(ctx, "failed to send message chunk",
				"channel_id", channelID,
				"chunk_index", i,
				"error", err)
		}
	}
}

// chunkMessage splits a message into pieces no longer than size bytes
func chunkMessage(s string, size int) []string {
	var chunks []string
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
