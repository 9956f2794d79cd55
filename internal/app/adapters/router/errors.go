package router

import (
	"chatrouter/internal/app/domain/event"
	"errors"
	"fmt"
)

var (
	ErrModerationTimeout = errors.New("moderation timed out")
	ErrPanic             = errors.New("stage panicked")
	ErrUnknownEvent      = errors.New("unknown event kind")
)

// StageError is what a failed fan-out stage is logged as. It never reaches
// the caller of Dispatch.
type StageError struct {
	Event  event.Kind
	Stage  string
	UserID string
	Err    error
}

func (e *StageError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("%s: stage %s: %v", e.Event, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: stage %s (user %s): %v", e.Event, e.Stage, e.UserID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func recovered(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrPanic, p)
}

func unexpected(ev event.Event) error {
	return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
}
