package logger

import "fmt"

// Scoped prefixes every message with a scope name and appends fixed attributes
// to every record. Used to tell the streamer and bot connections apart.
type Scoped struct {
	inner Logger
	scope string
	attrs []any
}

func NewScoped(inner Logger, scope string, attrs ...any) *Scoped {
	return &Scoped{
		inner: inner,
		scope: scope,
		attrs: attrs,
	}
}

func (s *Scoped) msg(msg string) string {
	if s.scope == "" {
		return msg
	}
	return fmt.Sprintf("[%s] %s", s.scope, msg)
}

func (s *Scoped) args(args []any) []any {
	if len(s.attrs) == 0 {
		return args
	}
	out := make([]any, 0, len(s.attrs)+len(args))
	out = append(out, s.attrs...)
	return append(out, args...)
}

func (s *Scoped) SetLogLevel(levelStr string) {
	s.inner.SetLogLevel(levelStr)
}

func (s *Scoped) GetLogLevel() string {
	return s.inner.GetLogLevel()
}

func (s *Scoped) Trace(msg string, args ...any) {
	s.inner.Trace(s.msg(msg), s.args(args)...)
}

func (s *Scoped) Debug(msg string, args ...any) {
	s.inner.Debug(s.msg(msg), s.args(args)...)
}

func (s *Scoped) Info(msg string, args ...any) {
	s.inner.Info(s.msg(msg), s.args(args)...)
}

func (s *Scoped) Warn(msg string, args ...any) {
	s.inner.Warn(s.msg(msg), s.args(args)...)
}

func (s *Scoped) Error(msg string, err error, args ...any) {
	s.inner.Error(s.msg(msg), err, s.args(args)...)
}

func (s *Scoped) Fatal(msg string, err error, args ...any) {
	s.inner.Fatal(s.msg(msg), err, s.args(args)...)
}
