package moderation

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/domain/message"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Rule decides whether a message deserves a highlight.
type Rule interface {
	Name() string
	Match(msg *message.ChatMessage) bool
}

// Gate runs rules in order and highlights on the first match.
type Gate struct {
	log   logger.Logger
	rules []Rule
}

func NewGate(log logger.Logger, rules ...Rule) *Gate {
	return &Gate{log: log, rules: rules}
}

func (g *Gate) Moderate(ctx context.Context, msg *message.ChatMessage) error {
	if msg.IsWhisper() {
		return nil
	}

	for _, rule := range g.rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !rule.Match(msg) {
			continue
		}

		metrics.ModerationDecisions.WithLabelValues(rule.Name()).Inc()
		if err := msg.Highlight(); err != nil {
			if errors.Is(err, message.ErrAlreadyHighlighted) {
				return nil
			}
			return fmt.Errorf("rule %s: %w", rule.Name(), err)
		}

		g.log.Debug("Message highlighted", slog.String("rule", rule.Name()), slog.String("user_id", msg.Sender().ID))
		return nil
	}

	return nil
}
