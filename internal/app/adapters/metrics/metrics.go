package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BotConnected reports whether each chat connection is up.
	BotConnected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chatrouter_connected",
			Help: "Whether the chat connection is up (1) or down (0)",
		},
		[]string{"connection"},
	)

	// EventsTotal counts events by kind and outcome.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_events_total",
			Help: "Total number of platform events per kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_stage_failures_total",
			Help: "Total number of failed fan-out stages",
		},
		[]string{"kind", "stage"},
	)

	// DispatchProcessingTime is the time from receiving an event to handing off its stages.
	DispatchProcessingTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatrouter_dispatch_milliseconds",
			Help:    "Time spent building and moderating an event before fan-out",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)

	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_moderation_decisions_total",
			Help: "Number of moderation rule decisions per rule",
		},
		[]string{"rule"},
	)

	// ChatLines counts viewer lines, excluding the streamer and the bot.
	ChatLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatrouter_chat_lines_total",
			Help: "Total number of chat lines counted toward rate metrics",
		},
	)

	TimerPosts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_timer_posts_total",
			Help: "Number of timer messages posted",
		},
		[]string{"timer"},
	)

	TriggersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_triggers_fired_total",
			Help: "Total number of triggers handed to automation",
		},
		[]string{"kind"},
	)

	// UserCommands counts answered user commands.
	UserCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_user_commands_total",
			Help: "Total number of user commands called per command",
		},
		[]string{"command"},
	)

	NotificationClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatrouter_notification_clients",
			Help: "Number of connected notification websocket clients",
		},
	)

	NotificationDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_notification_dropped_total",
			Help: "Notification frames dropped for slow clients",
		},
		[]string{"channel"},
	)

	BusSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chatrouter_bus_subscribers",
			Help: "Number of subscribers per bus topic",
		},
		[]string{"topic"},
	)

	BusDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrouter_bus_dropped_total",
			Help: "Values dropped because a subscriber was full",
		},
		[]string{"topic", "subscriber"},
	)

	// ActiveParticipants is the number of viewers who chatted within participants.ttl.
	ActiveParticipants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatrouter_active_participants",
			Help: "Number of recently active chat participants",
		},
	)

	WorkerOverflow = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatrouter_worker_overflow_total",
			Help: "Fan-out tasks that bypassed the full worker queue",
		},
	)
)
