package accounts

import (
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/ports"
)

// Config reads the streamer and bot usernames from the live config, so a
// rename takes effect without a restart.
type Config struct {
	manager *config.Manager
}

func New(manager *config.Manager) *Config {
	return &Config{manager: manager}
}

func (c *Config) ActiveAccounts() ports.Accounts {
	cfg := c.manager.Get()
	return ports.Accounts{
		StreamerUsername: cfg.Twitch.StreamerUsername,
		BotUsername:      cfg.Twitch.BotUsername,
	}
}
