package message

import (
	"chatrouter/internal/app/domain/event"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"time"
)

var ErrMalformedEvent = errors.New("malformed event")

// MalformedEventError reports an event the builder cannot turn into a
// message. The caller drops the event.
type MalformedEventError struct {
	EventID string
	Reason  string
}

func (e *MalformedEventError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("malformed event: %s", e.Reason)
	}
	return fmt.Sprintf("malformed event %s: %s", e.EventID, e.Reason)
}

func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// Build converts a raw chat event into a ChatMessage. text is taken as the
// message body verbatim. Build performs no I/O.
func Build(raw event.Chat, text string, kind Kind) (*ChatMessage, error) {
	if raw.User.ID == "" && raw.User.Login == "" {
		return nil, &MalformedEventError{EventID: raw.ID, Reason: "sender has no id and no login"}
	}

	sender := ChatUser{
		ID:            raw.User.ID,
		Login:         raw.User.Login,
		DisplayName:   raw.User.DisplayName,
		IsBroadcaster: raw.User.IsBroadcaster,
		IsMod:         raw.User.IsMod,
		IsVIP:         raw.User.IsVIP,
		IsSubscriber:  raw.User.IsSubscriber,
	}
	if sender.ID == "" {
		sender.ID = sender.Login
	}
	if sender.DisplayName == "" {
		sender.DisplayName = sender.Login
	}
	if sender.Login == "" {
		sender.Login = sender.DisplayName
	}

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}

	receivedAt := raw.Time
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	bits := raw.Bits
	if bits < 0 {
		bits = 0
	}

	return &ChatMessage{
		id:         id,
		channel:    raw.Channel,
		rawText:    text,
		sender:     sender,
		kind:       kind,
		isCheer:    raw.Cheer || bits > 0,
		bits:       bits,
		tags:       cloneTags(raw.Tags),
		receivedAt: receivedAt,
	}, nil
}
