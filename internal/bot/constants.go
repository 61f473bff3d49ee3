package bot

// Discord message and command constants
const (
	MaxDiscordMessageLength = 2000

	commandPrefix = "!"

	// Disboard edits this into its confirmation embed after a successful bump.
	bumpConfirmationMarker = "Bump done"

	reminderEmojiName = "reminder"
)

// Embed accent colors
const (
	ColorGold  = 0xFFD700
	ColorGreen = 0x2ECC71
	ColorRed   = 0xE74C3C
)
