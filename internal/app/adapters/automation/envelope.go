// Package automation hands fired triggers to the automation engine.
package automation

import (
	"chatrouter/internal/app/domain/trigger"
	"github.com/google/uuid"
	"time"
)

type Envelope struct {
	ID      string          `json:"id"`
	Kind    trigger.Kind    `json:"kind"`
	FiredAt time.Time       `json:"fired_at"`
	Payload trigger.Payload `json:"payload"`
}

func NewEnvelope(p trigger.Payload, now time.Time) Envelope {
	return Envelope{
		ID:      uuid.NewString(),
		Kind:    p.Kind(),
		FiredAt: now.UTC(),
		Payload: p,
	}
}
