// Package commands answers "!" commands from chat and whispers.
package commands

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/infrastructure/storage"
	"chatrouter/internal/app/ports"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/time/rate"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	prefix        = "!"
	statusCommand = "status"
	userHolder    = "{user}"
)

var ErrNoSayer = errors.New("no chat connection to reply with")

// Counter reports how many participants are currently active.
type Counter interface {
	Len() int
}

type Dispatcher struct {
	log          logger.Logger
	manager      *config.Manager
	participants Counter
	cpuPercent   func() (float64, error)

	muSayer sync.RWMutex
	sayer   ports.SayerPort

	muLimiter sync.Mutex
	limiters  ports.StorePort[*rate.Limiter] // key: command, user id and limit
}

func New(log logger.Logger, manager *config.Manager, sayer ports.SayerPort, participants Counter) *Dispatcher {
	return &Dispatcher{
		log:          log,
		manager:      manager,
		sayer:        sayer,
		participants: participants,
		cpuPercent:   cpuUsage,
		limiters:     storage.NewCache[*rate.Limiter](0, config.MaxLimiterPeriod),
	}
}

// SetSayer swaps the reply connection; the transport is created after the
// dispatcher.
func (d *Dispatcher) SetSayer(sayer ports.SayerPort) {
	d.muSayer.Lock()
	d.sayer = sayer
	d.muSayer.Unlock()
}

func (d *Dispatcher) Handle(ctx context.Context, msg *message.ChatMessage) error {
	name, ok := commandName(msg.RawText())
	if !ok {
		return nil
	}

	if name == statusCommand {
		return d.handleStatus(msg)
	}

	cmd, ok := d.manager.Get().Commands[name]
	if !ok {
		return nil
	}

	if msg.IsWhisper() && !cmd.AllowWhispers {
		return nil
	}
	if cmd.ModeratorsOnly && !privileged(msg.Sender()) {
		return nil
	}
	if !d.allow(name, msg.Sender().ID, cmd.Limiter) {
		d.log.Debug("Command rate limited", slog.String("command", name), slog.String("user_id", msg.Sender().ID))
		return nil
	}

	text := strings.ReplaceAll(cmd.Text, userHolder, msg.Sender().DisplayName)
	if err := d.reply(msg, text); err != nil {
		return fmt.Errorf("command %s: %w", name, err)
	}

	metrics.UserCommands.WithLabelValues(name).Inc()
	return nil
}

func (d *Dispatcher) handleStatus(msg *message.ChatMessage) error {
	if !privileged(msg.Sender()) {
		return nil
	}

	percent, err := d.cpuPercent()
	if err != nil {
		return fmt.Errorf("read cpu usage: %w", err)
	}

	active := 0
	if d.participants != nil {
		active = d.participants.Len()
	}

	metrics.UserCommands.WithLabelValues(statusCommand).Inc()
	return d.reply(msg, fmt.Sprintf("CPU: %.1f%%, active chatters: %d", percent, active))
}

func (d *Dispatcher) reply(msg *message.ChatMessage, text string) error {
	d.muSayer.RLock()
	sayer := d.sayer
	d.muSayer.RUnlock()

	if sayer == nil {
		return ErrNoSayer
	}

	if msg.IsWhisper() {
		sayer.Whisper(msg.Sender().Login, text)
		return nil
	}
	sayer.Say(msg.Channel(), text)
	return nil
}

func (d *Dispatcher) allow(command, userID string, limiter *config.Limiter) bool {
	if limiter == nil || limiter.Requests <= 0 || limiter.Per <= 0 {
		return true
	}

	// An idle limiter expires once it would have refilled anyway. The limit
	// is part of the key so a config change starts a fresh bucket.
	key := fmt.Sprintf("%s:%s:%d/%s", command, userID, limiter.Requests, limiter.Per)

	d.muLimiter.Lock()
	l, ok := d.limiters.Get(key)
	if !ok {
		l = rate.NewLimiter(rate.Every(limiter.Per/time.Duration(limiter.Requests)), limiter.Requests)
	}
	d.limiters.Set(key, l)
	d.muLimiter.Unlock()

	return l.Allow()
}

func commandName(text string) (string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 || !strings.HasPrefix(words[0], prefix) {
		return "", false
	}

	name := strings.ToLower(strings.TrimPrefix(words[0], prefix))
	return name, name != ""
}

func privileged(u message.ChatUser) bool {
	return u.IsBroadcaster || u.IsMod
}

func cpuUsage() (float64, error) {
	percent, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(percent) == 0 {
		return 0, nil
	}
	return percent[0], nil
}
