package moderation

import (
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/domain/message"
	"chatrouter/pkg/logger"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func newMessage(t *testing.T, text string, tags map[string]string) *message.ChatMessage {
	t.Helper()

	msg, err := message.Build(event.Chat{
		ID:   "m1",
		User: event.User{ID: "1", Login: "alice"},
		Text: text,
		Tags: tags,
	}, text, message.KindChat)
	require.NoError(t, err)
	return msg
}

func newLogger() logger.Logger {
	return logger.New(logger.Options{Stdout: io.Discard})
}

func TestGate_Moderate(t *testing.T) {
	keywords := func() []string { return []string{"Giveaway", "ＰＯＧ"} }

	tests := []struct {
		name string
		text string
		tags map[string]string
		want bool
	}{
		{name: "highlight redemption", text: "hello", tags: map[string]string{"msg-id": "highlighted-message"}, want: true},
		{name: "other msg-id", text: "hello", tags: map[string]string{"msg-id": "skip-subs-mode-message"}},
		{name: "keyword", text: "is the GIVEAWAY still on?", want: true},
		{name: "fullwidth keyword", text: "pog champ", want: true},
		{name: "keyword hidden with zero width", text: "give\u200Baway", want: true},
		{name: "no match", text: "just chatting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(newLogger(), HighlightRule{}, NewKeywordHighlightRule(keywords))
			msg := newMessage(t, tt.text, tt.tags)

			require.NoError(t, g.Moderate(context.Background(), msg))
			assert.Equal(t, tt.want, msg.IsHighlighted())
			if tt.want {
				assert.Equal(t, message.HighlightRewardID, msg.CustomRewardID())
			}
		})
	}
}

func TestGate_AlreadyHighlighted(t *testing.T) {
	g := NewGate(newLogger(), HighlightRule{})
	msg := newMessage(t, "hi", map[string]string{"msg-id": "highlighted-message"})

	require.NoError(t, msg.Highlight())
	assert.NoError(t, g.Moderate(context.Background(), msg))
}

func TestGate_SealedMessage(t *testing.T) {
	g := NewGate(newLogger(), HighlightRule{})
	msg := newMessage(t, "hi", map[string]string{"msg-id": "highlighted-message"})
	msg.Seal()

	err := g.Moderate(context.Background(), msg)
	assert.ErrorIs(t, err, message.ErrSealed)
	assert.False(t, msg.IsHighlighted())
}

func TestGate_CanceledContext(t *testing.T) {
	g := NewGate(newLogger(), HighlightRule{})
	msg := newMessage(t, "hi", map[string]string{"msg-id": "highlighted-message"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, g.Moderate(ctx, msg), context.Canceled)
	assert.False(t, msg.IsHighlighted())
}

func TestGate_EmptyKeywords(t *testing.T) {
	g := NewGate(newLogger(), NewKeywordHighlightRule(func() []string { return []string{"", " "} }))
	msg := newMessage(t, "anything at all", nil)

	require.NoError(t, g.Moderate(context.Background(), msg))
	assert.False(t, msg.IsHighlighted())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "gg", Normalize("ＧＧ"))
	assert.Equal(t, "gg", Normalize("g\u200Bg"))
	assert.Equal(t, "hello", Normalize("\uFEFFHeLLo\u2063"))
}

func TestPatternHighlightRule(t *testing.T) {
	patterns := []string{`\bfree\s+subs?\b`, `(?<=!)hype`, `[`}
	rule := NewPatternHighlightRule(func() []string { return patterns })

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain match", text: "FREE subs here", want: true},
		{name: "lookbehind", text: "!hype train", want: true},
		{name: "lookbehind miss", text: "hype train"},
		{name: "word boundary", text: "carefree subscription"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Match(newMessage(t, tt.text, nil)))
		})
	}
}

func TestPatternHighlightRule_RecompilesOnChange(t *testing.T) {
	patterns := []string{"alpha"}
	rule := NewPatternHighlightRule(func() []string { return patterns })

	assert.True(t, rule.Match(newMessage(t, "alpha", nil)))

	patterns = []string{"beta"}
	assert.False(t, rule.Match(newMessage(t, "alpha", nil)))
	assert.True(t, rule.Match(newMessage(t, "beta", nil)))
}
