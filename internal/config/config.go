package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultDisboardID is the user ID of the Disboard bump bot. Overridable for
// test servers running a stand-in bumper.
const DefaultDisboardID = "302050872383242240"

// Config holds all configuration values
type Config struct {
	BotToken string
	GuildID  string

	// Channel routing
	GeneralChannelID      string
	ConsoleChannelID      string
	TerminalChannelID     string
	IntroductionChannelID string
	RulesChannelID        string
	RolesChannelID        string
	MaintenanceChannelID  string

	BumperRoleID string
	DisboardID   string

	MaintenanceMode bool
	BumpStorePath   string
}

// LoadConfig loads environment variables from .env file and returns a Config struct
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional - may not exist in production)
	_ = godotenv.Load(".env")

	config := &Config{
		BotToken:              os.Getenv("BOT_TOKEN"),
		GuildID:               os.Getenv("GUILD_ID"),
		GeneralChannelID:      os.Getenv("GENERAL_CHANNEL_ID"),
		ConsoleChannelID:      os.Getenv("CONSOLE_CHANNEL_ID"),
		TerminalChannelID:     os.Getenv("TERMINAL_CHANNEL_ID"),
		IntroductionChannelID: os.Getenv("INTRODUCTION_CHANNEL_ID"),
		RulesChannelID:        os.Getenv("RULES_CHANNEL_ID"),
		RolesChannelID:        os.Getenv("ROLES_CHANNEL_ID"),
		MaintenanceChannelID:  os.Getenv("MAINTENANCE_CHANNEL_ID"),
		BumperRoleID:          os.Getenv("BUMPER_ROLE_ID"),
		DisboardID:            os.Getenv("DISBOARD_ID"),
		MaintenanceMode:       os.Getenv("MAINTENANCE_MODE") == "true",
		BumpStorePath:         os.Getenv("BUMP_STORE_PATH"),
	}

	if config.DisboardID == "" {
		config.DisboardID = DefaultDisboardID
	}

	if config.BumpStorePath == "" {
		config.BumpStorePath = "data/bump.db"
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return NewConfigError("BOT_TOKEN", "environment variable is required")
	}

	if c.GuildID == "" {
		return NewConfigError("GUILD_ID", "environment variable is required")
	}

	if c.TerminalChannelID == "" {
		return NewConfigError("TERMINAL_CHANNEL_ID", "bump reminders need a destination channel")
	}

	if c.BumperRoleID == "" {
		return NewConfigError("BUMPER_ROLE_ID", "bump reminders need a role to mention")
	}

	if c.MaintenanceMode && c.MaintenanceChannelID == "" {
		return NewConfigError("MAINTENANCE_CHANNEL_ID", "required while MAINTENANCE_MODE is set")
	}

	return nil
}
