package twitch

import (
	"bytes"
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/pkg/logger"
	"context"
	"github.com/gempir/go-twitch-irc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"path/filepath"
	"sync"
	"testing"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	events []event.Event
}

func (d *fakeDispatcher) Dispatch(_ context.Context, ev event.Event) {
	d.mu.Lock()
	d.events = append(d.events, ev)
	d.mu.Unlock()
}

func newTransport(t *testing.T, bot bool) (*Transport, *fakeDispatcher, *int) {
	t.Helper()

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.NoError(t, manager.Update(func(cfg *config.Config) {
		cfg.Twitch.StreamerUsername = "Streamer"
		cfg.Twitch.StreamerOAuth = "oauth:streamer"
		if bot {
			cfg.Twitch.BotUsername = "helperbot"
			cfg.Twitch.BotOAuth = "oauth:bot"
		}
	}))

	closed := 0
	d := &fakeDispatcher{}
	tr := New(logger.New(logger.Options{Stdout: io.Discard}), manager, d, func() { closed++ })
	return tr, d, &closed
}

func TestTransport_DispatchesConvertedEvents(t *testing.T) {
	tr, d, _ := newTransport(t, false)

	tr.onPrivateMessage(twitch.PrivateMessage{User: alice, Channel: "streamer", Message: "gg"})
	tr.onPrivateMessage(twitch.PrivateMessage{User: twitch.User{Name: "jtv"}, Message: "Exited host mode."})
	tr.onUserNotice(twitch.UserNoticeMessage{MsgID: "raid", Channel: "streamer", User: alice, MsgParams: map[string]string{"msg-param-viewerCount": "3"}})
	tr.onUserNotice(twitch.UserNoticeMessage{MsgID: "bitsbadgetier", Channel: "streamer"})
	tr.onClearChat(twitch.ClearChatMessage{Channel: "streamer", TargetUsername: "carol"})
	tr.onClearChat(twitch.ClearChatMessage{Channel: "streamer"})

	require.Len(t, d.events, 3)
	assert.Equal(t, event.KindPrivmsg, d.events[0].Kind())
	assert.Equal(t, event.KindRaid, d.events[1].Kind())
	assert.Equal(t, event.Ban{Channel: "streamer", Username: "carol"}, d.events[2])
}

func TestTransport_SayerPrefersBot(t *testing.T) {
	withBot, _, _ := newTransport(t, true)
	assert.Same(t, withBot.bot, withBot.sayer())

	streamerOnly, _, _ := newTransport(t, false)
	assert.Nil(t, streamerOnly.bot)
	assert.Same(t, streamerOnly.streamer, streamerOnly.sayer())
}

func TestTransport_CloseEndsSessionOnce(t *testing.T) {
	tr, _, closed := newTransport(t, true)

	_ = tr.Close()
	_ = tr.Close()
	assert.Equal(t, 1, *closed)
}

func TestTransport_ConnectRequiresChannel(t *testing.T) {
	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	tr := New(logger.New(logger.Options{Stdout: io.Discard}), manager, &fakeDispatcher{}, nil)
	assert.Error(t, tr.Connect(context.Background()))
}

func TestTransport_DisconnectLogsFailure(t *testing.T) {
	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	var out bytes.Buffer
	tr := New(logger.New(logger.Options{Stdout: &out}), manager, &fakeDispatcher{}, nil)

	// never connected, so Disconnect reports an error
	tr.disconnect()
	assert.Contains(t, out.String(), "Twitch chat disconnect failed")
}

func TestMention(t *testing.T) {
	assert.Equal(t, "@alice see you", mention("alice", "see you"))
	assert.Equal(t, "@alice see you", mention("@alice", "see you"))
}
