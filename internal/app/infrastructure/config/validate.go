package config

import (
	"errors"
	"fmt"
	"github.com/dlclark/regexp2"
	"strings"
	"time"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}
	if cfg.App.GinMode != "" && cfg.App.GinMode != "debug" && cfg.App.GinMode != "release" && cfg.App.GinMode != "test" {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}

	// twitch
	cfg.Twitch.Channel = strings.TrimPrefix(strings.ToLower(cfg.Twitch.Channel), "#")
	if cfg.Twitch.Channel == "" && cfg.Twitch.StreamerUsername != "" {
		cfg.Twitch.Channel = strings.ToLower(cfg.Twitch.StreamerUsername)
	}
	if cfg.Twitch.BotUsername != "" && cfg.Twitch.BotOAuth == "" {
		return errors.New("twitch.bot_oauth is required when twitch.bot_username is set")
	}

	// router
	if cfg.Router.Workers < 0 || cfg.Router.Workers > 1024 {
		return errors.New("router.workers must be [0,1024]")
	}
	if cfg.Router.QueueSize < 0 {
		return errors.New("router.queue_size must be >= 0")
	}
	if cfg.Router.ModerationTimeout < 0 || cfg.Router.ModerationTimeout > time.Minute {
		return errors.New("router.moderation_timeout must be [0,1m]")
	}

	// participants
	if cfg.Participants.TTL < 0 {
		return errors.New("participants.ttl must be >= 0")
	}

	// moderation
	for i, pattern := range cfg.Moderation.HighlightPatterns {
		if _, err := regexp2.Compile(pattern, regexp2.IgnoreCase); err != nil {
			return fmt.Errorf("moderation.highlight_patterns[%d]: %w", i, err)
		}
	}

	// commands
	if cfg.Commands == nil {
		cfg.Commands = make(map[string]*Command)
	}
	for name, cmd := range cfg.Commands {
		if cmd == nil {
			return fmt.Errorf("commands.%s is required", name)
		}
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t") {
			return fmt.Errorf("commands.%q must be a single word", name)
		}
		if cmd.Text == "" {
			return fmt.Errorf("commands.%s.text is required", name)
		}
		if l := cmd.Limiter; l != nil && (l.Requests <= 0 || l.Per <= 0) {
			return fmt.Errorf("commands.%s.limiter.requests and limiter.per must both be positive", name)
		}
		if l := cmd.Limiter; l != nil && l.Per > MaxLimiterPeriod {
			return fmt.Errorf("commands.%s.limiter.per must be <= %s", name, MaxLimiterPeriod)
		}
	}

	// timers
	if cfg.Timers == nil {
		cfg.Timers = make(map[string]*Timer)
	}
	for name, t := range cfg.Timers {
		if t == nil {
			return fmt.Errorf("timers.%s is required", name)
		}
		if t.Text == "" {
			return fmt.Errorf("timers.%s.text is required", name)
		}
		if t.Interval < time.Second {
			return fmt.Errorf("timers.%s.interval must be >= 1s", name)
		}
		if t.MinChatLines < 0 {
			return fmt.Errorf("timers.%s.min_chat_lines must be >= 0", name)
		}
	}

	// automation
	if cfg.Automation.SubjectPrefix == "" {
		cfg.Automation.SubjectPrefix = "chatrouter.triggers"
	}

	return nil
}
