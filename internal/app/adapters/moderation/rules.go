package moderation

import (
	"chatrouter/internal/app/domain/message"
	"github.com/dlclark/regexp2"
	"slices"
	"strings"
	"sync"
	"time"
)

const highlightedMessageID = "highlighted-message"

// HighlightRule matches the "Highlight My Message" channel point redemption.
type HighlightRule struct{}

func (HighlightRule) Name() string { return "highlight_tag" }

func (HighlightRule) Match(msg *message.ChatMessage) bool {
	return msg.Tag("msg-id") == highlightedMessageID
}

// KeywordHighlightRule matches messages containing any configured keyword.
// Keywords are read on every call so config updates apply immediately.
type KeywordHighlightRule struct {
	keywords func() []string
}

func NewKeywordHighlightRule(keywords func() []string) *KeywordHighlightRule {
	return &KeywordHighlightRule{keywords: keywords}
}

func (r *KeywordHighlightRule) Name() string { return "highlight_keyword" }

func (r *KeywordHighlightRule) Match(msg *message.ChatMessage) bool {
	keywords := r.keywords()
	if len(keywords) == 0 {
		return false
	}

	text := Normalize(msg.RawText())
	for _, kw := range keywords {
		kw = strings.TrimSpace(Normalize(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

const patternMatchTimeout = 100 * time.Millisecond

// PatternHighlightRule matches messages against configured regular
// expressions. Patterns are recompiled only when the configured list changes.
type PatternHighlightRule struct {
	patterns func() []string

	mu       sync.Mutex
	source   []string
	compiled []*regexp2.Regexp
}

func NewPatternHighlightRule(patterns func() []string) *PatternHighlightRule {
	return &PatternHighlightRule{patterns: patterns}
}

func (r *PatternHighlightRule) Name() string { return "highlight_pattern" }

func (r *PatternHighlightRule) Match(msg *message.ChatMessage) bool {
	text := Normalize(msg.RawText())
	for _, re := range r.regexps() {
		// an error is a match timeout; treat it as no match
		if ok, err := re.MatchString(text); err == nil && ok {
			return true
		}
	}
	return false
}

func (r *PatternHighlightRule) regexps() []*regexp2.Regexp {
	patterns := r.patterns()

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Equal(patterns, r.source) {
		return r.compiled
	}

	compiled := make([]*regexp2.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
		if err != nil {
			continue
		}
		re.MatchTimeout = patternMatchTimeout
		compiled = append(compiled, re)
	}

	r.source = slices.Clone(patterns)
	r.compiled = compiled
	return compiled
}
