package app

import (
	"chatrouter/internal/app/adapters/accounts"
	"chatrouter/internal/app/adapters/automation"
	"chatrouter/internal/app/adapters/commands"
	httprouter "chatrouter/internal/app/adapters/http"
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/adapters/moderation"
	"chatrouter/internal/app/adapters/notification"
	"chatrouter/internal/app/adapters/platform/twitch"
	"chatrouter/internal/app/adapters/pubsub"
	"chatrouter/internal/app/adapters/router"
	chattimers "chatrouter/internal/app/adapters/timers"
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/participants"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/infrastructure/timers"
	"chatrouter/internal/app/ports"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"os"
	"time"
)

const configPath = "config.json"

// New wires one chat session and blocks until ctx is done or the streamer
// connection ends.
func New(ctx context.Context) error {
	log := logger.New(logger.Options{Stdout: os.Stdout})

	manager, err := config.New(configPath)
	if err != nil {
		log.Error("Error loading config", err)
		return err
	}
	cfg := manager.Get()

	log = logger.New(logger.Options{
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Stdout:     os.Stdout,
	})
	log.SetLogLevel(cfg.App.LogLevel)

	prometheus.MustRegister(metrics.DispatchProcessingTime)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := participants.New(cfg.Participants.TTL)
	bus := pubsub.New[*message.ChatMessage](pubsub.TopicChatMessage, 256)
	hub := notification.NewHub(logger.NewScoped(log, "notification"))
	wheel := timers.NewTimingWheel(time.Second, 3600)
	chatTimers := chattimers.New(log, manager, wheel)
	cmds := commands.New(logger.NewScoped(log, "commands"), manager, nil, tracker)

	var automationPort ports.AutomationPort = automation.NewLog(log)
	if cfg.Automation.NatsURL != "" {
		nc, err := automation.Connect(log, cfg.Automation.NatsURL)
		if err != nil {
			log.Error("Error connecting to NATS", err)
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				log.Error("Error draining NATS connection", err)
			}
		}()
		automationPort = automation.NewNATS(log, nc, cfg.Automation.SubjectPrefix)
	}

	var rules []moderation.Rule
	if cfg.Moderation.HighlightTag {
		rules = append(rules, moderation.HighlightRule{})
	}
	rules = append(rules,
		moderation.NewKeywordHighlightRule(func() []string {
			return manager.Get().Moderation.HighlightKeywords
		}),
		moderation.NewPatternHighlightRule(func() []string {
			return manager.Get().Moderation.HighlightPatterns
		}),
	)

	rt := router.New(logger.NewScoped(log, "router"), router.Deps{
		Moderation:  moderation.NewGate(log, rules...),
		Notifier:    hub,
		Commands:    cmds,
		Tracker:     tracker,
		Accounts:    accounts.New(manager),
		RateCounter: chatTimers,
		Automation:  automationPort,
		Bus:         bus,
	},
		router.WithWorkers(cfg.Router.Workers, cfg.Router.QueueSize),
		router.WithModerationTimeout(cfg.Router.ModerationTimeout),
	)

	var transport ports.TransportPort = twitch.New(logger.NewScoped(log, "twitch"), manager, rt, bus.Close)
	cmds.SetSayer(transport)
	chatTimers.SetSayer(transport)
	chatTimers.Sync()

	if err := logChat(log, bus); err != nil {
		return err
	}
	go reportGauges(ctx, tracker, rt)

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- httprouter.NewRouter(log, manager, tracker, hub.Handler).Run(ctx)
	}()

	log.Info("Chat router started", slog.String("channel", cfg.Twitch.Channel))
	err = transport.Connect(ctx)
	cancel()

	rt.Close()
	chatTimers.Stop()
	wheel.Stop()
	hub.Close()

	return errors.Join(err, <-httpErr)
}

// logChat mirrors the chat-message stream to the trace log.
func logChat(log logger.Logger, bus *pubsub.Bus[*message.ChatMessage]) error {
	sub, err := bus.Subscribe("chatlog")
	if err != nil {
		return err
	}

	go func() {
		for msg := range sub.C() {
			log.Trace("Chat message",
				slog.String("channel", msg.Channel()),
				slog.String("user", msg.Sender().Login),
				slog.String("text", msg.RawText()),
				slog.Bool("highlighted", msg.IsHighlighted()),
			)
		}
	}()
	return nil
}

func reportGauges(ctx context.Context, tracker *participants.Tracker, rt *router.Router) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	var overflow int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.ActiveParticipants.Set(float64(tracker.Len()))

			n := rt.Overflow()
			metrics.WorkerOverflow.Add(float64(n - overflow))
			overflow = n
		}
	}
}
