package automation

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/domain/trigger"
	"chatrouter/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Log writes triggers to the log. Used when no automation engine is
// configured.
type Log struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Fire(_ context.Context, p trigger.Payload) error {
	if p == nil {
		return ErrNilPayload
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s trigger: %w", p.Kind(), err)
	}

	metrics.TriggersFired.WithLabelValues(string(p.Kind())).Inc()
	l.log.Info("Trigger fired", slog.String("kind", string(p.Kind())), slog.String("payload", string(data)))
	return nil
}
