package config

import "time"

type Config struct {
	App          App                 `json:"app"`
	Log          Log                 `json:"log"`
	Twitch       Twitch              `json:"twitch"`
	Router       Router              `json:"router"`
	Participants Participants        `json:"participants"`
	Moderation   Moderation          `json:"moderation"`
	Commands     map[string]*Command `json:"commands"` // keyed by command name without "!"
	Timers       map[string]*Timer   `json:"timers"`
	Automation   Automation          `json:"automation"`
}

type App struct {
	LogLevel  string `json:"log_level" env:"LOG_LEVEL"`
	GinMode   string `json:"gin_mode" env:"GIN_MODE"`
	HTTPAddr  string `json:"http_addr" env:"HTTP_ADDR"`
	AuthToken string `json:"auth_token" env:"AUTH_TOKEN"`
}

type Log struct {
	File       string `json:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

type Twitch struct {
	Channel          string `json:"channel" env:"TWITCH_CHANNEL"`
	StreamerUsername string `json:"streamer_username" env:"TWITCH_STREAMER_USERNAME"`
	StreamerOAuth    string `json:"streamer_oauth" env:"TWITCH_STREAMER_OAUTH"`
	BotUsername      string `json:"bot_username" env:"TWITCH_BOT_USERNAME"`
	BotOAuth         string `json:"bot_oauth" env:"TWITCH_BOT_OAUTH"`
}

type Router struct {
	Workers           int           `json:"workers"`
	QueueSize         int           `json:"queue_size"`
	ModerationTimeout time.Duration `json:"moderation_timeout"`
}

type Participants struct {
	TTL time.Duration `json:"ttl"` // 0 keeps records forever
}

type Moderation struct {
	HighlightTag      bool     `json:"highlight_tag"`
	HighlightKeywords []string `json:"highlight_keywords"`
	HighlightPatterns []string `json:"highlight_patterns"` // .NET syntax, case-insensitive
}

type Command struct {
	Text           string   `json:"text"`
	AllowWhispers  bool     `json:"allow_whispers"`
	ModeratorsOnly bool     `json:"moderators_only"`
	Limiter        *Limiter `json:"limiter"`
}

// MaxLimiterPeriod caps Limiter.Per; idle command limiters are evicted after it.
const MaxLimiterPeriod = time.Hour

type Limiter struct {
	Requests int           `json:"requests"` // requests allowed
	Per      time.Duration `json:"per"`      // per this window
}

type Timer struct {
	Enabled      bool          `json:"enabled"`
	Text         string        `json:"text"`
	Interval     time.Duration `json:"interval"`
	MinChatLines int           `json:"min_chat_lines"`
}

type Automation struct {
	NatsURL       string `json:"nats_url" env:"NATS_URL"`
	SubjectPrefix string `json:"subject_prefix" env:"NATS_SUBJECT_PREFIX"`
}
