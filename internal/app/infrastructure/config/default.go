package config

import "time"

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			GinMode:  "release",
			HTTPAddr: ":8080",
		},
		Log: Log{
			File:       "logs/chatrouter.log",
			MaxSizeMB:  64,
			MaxBackups: 16,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Router: Router{
			Workers:           8,
			QueueSize:         1024,
			ModerationTimeout: 2 * time.Second,
		},
		Moderation: Moderation{
			HighlightTag: true,
		},
		Commands: make(map[string]*Command),
		Timers:   make(map[string]*Timer),
		Automation: Automation{
			SubjectPrefix: "chatrouter.triggers",
		},
	}
}
