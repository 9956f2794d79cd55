// Package timers counts chat lines and posts periodic channel messages once
// enough chatting happened since the previous post.
package timers

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/internal/app/ports"
	"chatrouter/pkg/logger"
	"log/slog"
	"sync"
	"sync/atomic"
)

type Manager struct {
	log     logger.Logger
	manager *config.Manager
	wheel   ports.TimersPort

	total atomic.Int64

	mu     sync.Mutex
	sayer  ports.SayerPort
	lines  map[string]int // lines since each timer last posted
	active map[string]struct{}
}

func New(log logger.Logger, manager *config.Manager, wheel ports.TimersPort) *Manager {
	return &Manager{
		log:     log,
		manager: manager,
		wheel:   wheel,
		lines:   make(map[string]int),
		active:  make(map[string]struct{}),
	}
}

func (m *Manager) SetSayer(sayer ports.SayerPort) {
	m.mu.Lock()
	m.sayer = sayer
	m.mu.Unlock()
}

// Increment counts one chat line toward every timer.
func (m *Manager) Increment() {
	m.total.Add(1)
	metrics.ChatLines.Inc()

	m.mu.Lock()
	for name := range m.lines {
		m.lines[name]++
	}
	m.mu.Unlock()
}

func (m *Manager) Total() int64 {
	return m.total.Load()
}

func (m *Manager) Lines(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines[name]
}

// Sync schedules enabled timers from config and drops the rest.
func (m *Manager) Sync() {
	cfg := m.manager.Get()

	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.active {
		if t, ok := cfg.Timers[name]; !ok || t == nil || !t.Enabled {
			m.wheel.RemoveTimer(name)
			delete(m.active, name)
			delete(m.lines, name)
		}
	}

	for name, t := range cfg.Timers {
		if t == nil || !t.Enabled {
			continue
		}

		if _, ok := m.active[name]; ok {
			m.wheel.UpdateTimer(name, t.Interval)
			continue
		}

		m.active[name] = struct{}{}
		m.lines[name] = 0
		m.wheel.AddTimer(name, t.Interval, func() { m.post(name) })
		m.log.Debug("Timer scheduled", slog.String("timer", name), slog.Duration("interval", t.Interval))
	}
}

func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.active {
		m.wheel.RemoveTimer(name)
	}
	clear(m.active)
	clear(m.lines)
}

func (m *Manager) post(name string) {
	cfg := m.manager.Get()
	t, ok := cfg.Timers[name]
	if !ok || t == nil || !t.Enabled {
		return
	}

	m.mu.Lock()
	if m.lines[name] < t.MinChatLines || m.sayer == nil {
		m.mu.Unlock()
		return
	}
	m.lines[name] = 0
	sayer := m.sayer
	m.mu.Unlock()

	sayer.Say(cfg.Twitch.Channel, t.Text)
	metrics.TimerPosts.WithLabelValues(name).Inc()
	m.log.Trace("Timer posted", slog.String("timer", name))
}
