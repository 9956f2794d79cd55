// Package message builds the canonical chat message every downstream
// consumer reads.
//
// A ChatMessage is immutable once built, except for the highlight pair
// (isHighlighted, customRewardID). Highlight may be applied once, and only
// until Seal is called; the router seals every message before fan-out.
package message

import (
	"encoding/json"
	"errors"
	"maps"
	"sync"
	"time"
)

const HighlightRewardID = "highlight-message"

var (
	ErrSealed             = errors.New("message is sealed")
	ErrAlreadyHighlighted = errors.New("message is already highlighted")
)

type Kind int

const (
	KindChat Kind = iota
	KindWhisper
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindWhisper:
		return "whisper"
	case KindAction:
		return "action"
	default:
		return "chat"
	}
}

type ChatUser struct {
	ID            string `json:"id"`
	Login         string `json:"login"`
	DisplayName   string `json:"display_name"`
	IsBroadcaster bool   `json:"is_broadcaster"`
	IsMod         bool   `json:"is_mod"`
	IsVIP         bool   `json:"is_vip"`
	IsSubscriber  bool   `json:"is_subscriber"`
}

type ChatMessage struct {
	id         string
	channel    string
	rawText    string
	sender     ChatUser
	kind       Kind
	isCheer    bool
	bits       int
	tags       map[string]string
	receivedAt time.Time

	mu             sync.RWMutex
	sealed         bool
	isHighlighted  bool
	customRewardID string
}

func (m *ChatMessage) ID() string            { return m.id }
func (m *ChatMessage) Channel() string       { return m.channel }
func (m *ChatMessage) RawText() string       { return m.rawText }
func (m *ChatMessage) Sender() ChatUser      { return m.sender }
func (m *ChatMessage) Kind() Kind            { return m.kind }
func (m *ChatMessage) IsWhisper() bool       { return m.kind == KindWhisper }
func (m *ChatMessage) IsAction() bool        { return m.kind == KindAction }
func (m *ChatMessage) IsCheer() bool         { return m.isCheer }
func (m *ChatMessage) Bits() int             { return m.bits }
func (m *ChatMessage) ReceivedAt() time.Time { return m.receivedAt }

// Tag returns a raw transport tag, "" when absent.
func (m *ChatMessage) Tag(key string) string {
	return m.tags[key]
}

func (m *ChatMessage) IsHighlighted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isHighlighted
}

func (m *ChatMessage) CustomRewardID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.customRewardID
}

// Highlight marks the message as a highlight redemption. Only the moderation
// gate calls it, before the message is sealed.
func (m *ChatMessage) Highlight() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sealed {
		return ErrSealed
	}
	if m.isHighlighted {
		return ErrAlreadyHighlighted
	}

	m.isHighlighted = true
	m.customRewardID = HighlightRewardID
	return nil
}

func (m *ChatMessage) Seal() {
	m.mu.Lock()
	m.sealed = true
	m.mu.Unlock()
}

func (m *ChatMessage) Sealed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sealed
}

type chatMessageJSON struct {
	ID             string    `json:"id"`
	Channel        string    `json:"channel"`
	RawText        string    `json:"raw_text"`
	Sender         ChatUser  `json:"sender"`
	IsWhisper      bool      `json:"is_whisper"`
	IsAction       bool      `json:"is_action"`
	IsCheer        bool      `json:"is_cheer"`
	Bits           int       `json:"bits"`
	IsHighlighted  bool      `json:"is_highlighted"`
	CustomRewardID *string   `json:"custom_reward_id"`
	ReceivedAt     time.Time `json:"received_at"`
}

func (m *ChatMessage) MarshalJSON() ([]byte, error) {
	m.mu.RLock()
	out := chatMessageJSON{
		ID:            m.id,
		Channel:       m.channel,
		RawText:       m.rawText,
		Sender:        m.sender,
		IsWhisper:     m.IsWhisper(),
		IsAction:      m.IsAction(),
		IsCheer:       m.isCheer,
		Bits:          m.bits,
		IsHighlighted: m.isHighlighted,
		ReceivedAt:    m.receivedAt,
	}
	if m.customRewardID != "" {
		id := m.customRewardID
		out.CustomRewardID = &id
	}
	m.mu.RUnlock()

	return json.Marshal(out)
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	return maps.Clone(tags)
}
