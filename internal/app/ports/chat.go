package ports

import (
	"chatrouter/internal/app/domain/event"
	"context"
)

type SayerPort interface {
	Say(channel, text string)
	Whisper(username, text string)
}

type TransportPort interface {
	SayerPort
	Connect(ctx context.Context) error
	Close() error
}

type DispatcherPort interface {
	Dispatch(ctx context.Context, ev event.Event)
}
