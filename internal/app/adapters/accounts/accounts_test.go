package accounts

import (
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func TestConfig_ActiveAccounts(t *testing.T) {
	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, manager.Update(func(cfg *config.Config) {
		cfg.Twitch.StreamerUsername = "Streamer"
		cfg.Twitch.BotUsername = "helperbot"
		cfg.Twitch.BotOAuth = "oauth:secret"
	}))

	acc := New(manager)
	assert.Equal(t, ports.Accounts{StreamerUsername: "Streamer", BotUsername: "helperbot"}, acc.ActiveAccounts())

	require.NoError(t, manager.Update(func(cfg *config.Config) {
		cfg.Twitch.BotUsername = "newbot"
	}))
	assert.Equal(t, "newbot", acc.ActiveAccounts().BotUsername)
}
