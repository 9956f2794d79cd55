package ports

import (
	"chatrouter/internal/app/domain/message"
	"context"
)

// ModerationPort may highlight the message it is given. It is called before
// any fan-out stage sees the message.
type ModerationPort interface {
	Moderate(ctx context.Context, msg *message.ChatMessage) error
}
