package automation

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/domain/trigger"
	"chatrouter/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/nats-io/nats.go"
	"log/slog"
	"strings"
	"time"
)

var ErrNilPayload = errors.New("nil trigger payload")

// Publisher is the part of *nats.Conn the automation adapter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATS publishes every trigger as JSON to "<prefix>.<kind>".
type NATS struct {
	log    logger.Logger
	pub    Publisher
	prefix string
	now    func() time.Time
}

func NewNATS(log logger.Logger, pub Publisher, prefix string) *NATS {
	return &NATS{
		log:    log,
		pub:    pub,
		prefix: strings.TrimSuffix(prefix, "."),
		now:    time.Now,
	}
}

func (n *NATS) Fire(ctx context.Context, p trigger.Payload) error {
	if p == nil {
		return ErrNilPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewEnvelope(p, n.now()))
	if err != nil {
		return fmt.Errorf("marshal %s trigger: %w", p.Kind(), err)
	}

	subject := n.Subject(p.Kind())
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	metrics.TriggersFired.WithLabelValues(string(p.Kind())).Inc()
	n.log.Trace("Trigger published", slog.String("subject", subject))
	return nil
}

func (n *NATS) Subject(kind trigger.Kind) string {
	return n.prefix + "." + string(kind)
}

// Connect dials NATS with reconnects that never give up; connection state
// changes are logged.
func Connect(log logger.Logger, url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("chatrouter"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Debug("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return nc, nil
}
