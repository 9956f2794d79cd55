// Package twitch connects to Twitch chat and hands every event to the router.
package twitch

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/ports"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"github.com/gempir/go-twitch-irc/v4"
	"log/slog"
	"strings"
	"sync"
)

// Transport owns the streamer connection, which receives every event, and an
// optional bot connection that only listens for whispers. Replies go out
// through the bot when it exists.
type Transport struct {
	log        logger.Logger
	manager    *config.Manager
	dispatcher ports.DispatcherPort
	onClose    func()

	streamer *twitch.Client
	bot      *twitch.Client

	closeOnce sync.Once
}

func New(log logger.Logger, manager *config.Manager, dispatcher ports.DispatcherPort, onClose func()) *Transport {
	cfg := manager.Get().Twitch

	t := &Transport{
		log:        log,
		manager:    manager,
		dispatcher: dispatcher,
		onClose:    onClose,
	}

	t.streamer = newClient(cfg.StreamerUsername, cfg.StreamerOAuth)
	t.streamer.OnPrivateMessage(t.onPrivateMessage)
	t.streamer.OnUserNoticeMessage(t.onUserNotice)
	t.streamer.OnClearChatMessage(t.onClearChat)
	t.streamer.OnWhisperMessage(func(m twitch.WhisperMessage) {
		t.dispatch(fromWhisperMessage(m, event.ConnectionStreamer))
	})
	t.streamer.OnConnect(t.connected(event.ConnectionStreamer))

	if cfg.BotUsername != "" {
		t.bot = newClient(cfg.BotUsername, cfg.BotOAuth)
		t.bot.OnWhisperMessage(func(m twitch.WhisperMessage) {
			t.dispatch(fromWhisperMessage(m, event.ConnectionBot))
		})
		t.bot.OnConnect(t.connected(event.ConnectionBot))
	}

	return t
}

func newClient(username, oauth string) *twitch.Client {
	if username == "" || oauth == "" {
		return twitch.NewAnonymousClient()
	}
	return twitch.NewClient(username, oauth)
}

// Connect joins the channel and blocks until ctx is done or the streamer
// connection ends. Either way the session is over when it returns.
func (t *Transport) Connect(ctx context.Context) error {
	channel := t.manager.Get().Twitch.Channel
	if channel == "" {
		return errors.New("twitch.channel is not configured")
	}
	t.streamer.Join(channel)

	if t.bot != nil {
		go func() {
			if err := t.bot.Connect(); err != nil && !errors.Is(err, twitch.ErrClientDisconnected) {
				t.log.Error("Bot connection to Twitch chat ended", err)
			}
			metrics.BotConnected.WithLabelValues(string(event.ConnectionBot)).Set(0)
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- t.streamer.Connect()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-done:
	}
	t.disconnect()
	metrics.BotConnected.WithLabelValues(string(event.ConnectionStreamer)).Set(0)

	if err != nil && !errors.Is(err, twitch.ErrClientDisconnected) {
		return fmt.Errorf("twitch chat: %w", err)
	}
	return nil
}

// Close disconnects both connections and ends the session once.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		err = t.streamer.Disconnect()
		if t.bot != nil {
			err = errors.Join(err, t.bot.Disconnect())
		}
		if t.onClose != nil {
			t.onClose()
		}
		t.log.Info("Twitch chat session closed")
	})
	return err
}

func (t *Transport) Say(channel, text string) {
	if channel == "" {
		channel = t.manager.Get().Twitch.Channel
	}
	t.sayer().Say(channel, text)
}

// Whisper replies with a mention in the channel. Twitch ignores /w sent over
// IRC; real whispers need the Helix API, which this transport does not use.
func (t *Transport) Whisper(username, text string) {
	t.sayer().Say(t.manager.Get().Twitch.Channel, mention(username, text))
}

func mention(username, text string) string {
	return "@" + strings.TrimPrefix(username, "@") + " " + text
}

func (t *Transport) disconnect() {
	if err := t.Close(); err != nil {
		t.log.Warn("Twitch chat disconnect failed", slog.String("error", err.Error()))
	}
}

func (t *Transport) sayer() *twitch.Client {
	if t.bot != nil {
		return t.bot
	}
	return t.streamer
}

func (t *Transport) connected(conn event.Connection) func() {
	return func() {
		metrics.BotConnected.WithLabelValues(string(conn)).Set(1)
		t.log.Info("Connected to Twitch chat", slog.String("connection", string(conn)))
	}
}

func (t *Transport) onPrivateMessage(m twitch.PrivateMessage) {
	ev := fromPrivateMessage(m)
	if ev == nil {
		t.log.Debug("Unrecognized jtv notice", slog.String("text", m.Message))
		return
	}
	t.dispatch(ev)
}

func (t *Transport) onUserNotice(m twitch.UserNoticeMessage) {
	if ev := fromUserNotice(m); ev != nil {
		t.dispatch(ev)
	}
}

func (t *Transport) onClearChat(m twitch.ClearChatMessage) {
	if ev := fromClearChat(m); ev != nil {
		t.dispatch(ev)
	}
}

func (t *Transport) dispatch(ev event.Event) {
	t.dispatcher.Dispatch(context.Background(), ev)
}
