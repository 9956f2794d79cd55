package router

import (
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/trigger"
	"chatrouter/internal/app/ports"
	"context"
	"sync"
)

// journal records collaborator calls across goroutines in call order.
type journal struct {
	mu    sync.Mutex
	calls []string
}

func (j *journal) add(call string) {
	j.mu.Lock()
	j.calls = append(j.calls, call)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}

type fakeLogger struct {
	mu     sync.Mutex
	errors []error
	warns  []string
}

func (l *fakeLogger) SetLogLevel(string) {}
func (l *fakeLogger) GetLogLevel() string { return "trace" }
func (l *fakeLogger) Trace(string, ...any) {}
func (l *fakeLogger) Debug(string, ...any) {}
func (l *fakeLogger) Info(string, ...any) {}
func (l *fakeLogger) Fatal(string, error, ...any) {}

func (l *fakeLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *fakeLogger) Error(_ string, err error, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, err)
	l.mu.Unlock()
}

func (l *fakeLogger) errs() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errors...)
}

type moderationFunc func(ctx context.Context, msg *message.ChatMessage) error

func (f moderationFunc) Moderate(ctx context.Context, msg *message.ChatMessage) error {
	return f(ctx, msg)
}

type notification struct {
	channel string
	payload any
}

type fakeNotifier struct {
	j    *journal
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(channel string, payload any) error {
	n.j.add("notify:" + channel)
	n.mu.Lock()
	n.sent = append(n.sent, notification{channel: channel, payload: payload})
	n.mu.Unlock()
	return nil
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

type fakeCommands struct {
	j     *journal
	err   error
	panic bool
	mu    sync.Mutex
	seen  []*message.ChatMessage
}

func (c *fakeCommands) Handle(_ context.Context, msg *message.ChatMessage) error {
	c.j.add("commands")
	c.mu.Lock()
	c.seen = append(c.seen, msg)
	c.mu.Unlock()
	if c.panic {
		panic("command blew up")
	}
	return c.err
}

func (c *fakeCommands) messages() []*message.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*message.ChatMessage(nil), c.seen...)
}

type fakeTracker struct {
	j     *journal
	mu    sync.Mutex
	users []message.ChatUser
	flags []bool
}

func (t *fakeTracker) MarkActive(user message.ChatUser, countsTowardRate bool) {
	t.j.add("tracker")
	t.mu.Lock()
	t.users = append(t.users, user)
	t.flags = append(t.flags, countsTowardRate)
	t.mu.Unlock()
}

func (t *fakeTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users)
}

type fakeRate struct {
	j  *journal
	mu sync.Mutex
	n  int
}

func (r *fakeRate) Increment() {
	r.j.add("rate")
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

func (r *fakeRate) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type fakeAutomation struct {
	j     *journal
	mu    sync.Mutex
	fired []trigger.Payload
}

func (a *fakeAutomation) Fire(_ context.Context, p trigger.Payload) error {
	a.j.add("trigger:" + string(p.Kind()))
	a.mu.Lock()
	a.fired = append(a.fired, p)
	a.mu.Unlock()
	return nil
}

func (a *fakeAutomation) ofKind(kind trigger.Kind) []trigger.Payload {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []trigger.Payload
	for _, p := range a.fired {
		if p.Kind() == kind {
			out = append(out, p)
		}
	}
	return out
}

func (a *fakeAutomation) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.fired)
}

type staticAccounts ports.Accounts

func (a staticAccounts) ActiveAccounts() ports.Accounts {
	return ports.Accounts(a)
}

type panickingAccounts struct{}

func (panickingAccounts) ActiveAccounts() ports.Accounts {
	panic("accounts store down")
}
