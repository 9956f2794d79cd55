// Package router turns platform events into canonical messages and fans them
// out to the collaborators registered for each event kind.
package router

import (
	"chatrouter/internal/app/adapters/metrics"
	"chatrouter/internal/app/adapters/pubsub"
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/trigger"
	"chatrouter/internal/app/infrastructure/workers"
	"chatrouter/internal/app/ports"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	outcomeDone    = "done"
	outcomeDropped = "dropped"
	outcomeIgnored = "ignored"
)

// Deps are the collaborators a Router fans out to. A nil collaborator
// disables its stage.
type Deps struct {
	Moderation  ports.ModerationPort
	Notifier    ports.NotifierPort
	Commands    ports.CommandPort
	Tracker     ports.TrackerPort
	Accounts    ports.AccountsPort
	RateCounter ports.RateCounterPort
	Automation  ports.AutomationPort
	Bus         *pubsub.Bus[*message.ChatMessage]
}

type Option func(*Router)

func WithWorkers(workers, queueSize int) Option {
	return func(r *Router) {
		r.workers, r.queueSize = workers, queueSize
	}
}

// WithModerationTimeout bounds a single Moderate call. Zero waits forever.
func WithModerationTimeout(d time.Duration) Option {
	return func(r *Router) {
		r.moderationTimeout = d
	}
}

func WithTriggers(reg *trigger.Registry) Option {
	return func(r *Router) {
		r.triggers = reg
	}
}

type pipeline func(ctx context.Context, ev event.Event) error

type Router struct {
	log  logger.Logger
	deps Deps

	triggers          *trigger.Registry
	pipelines         map[event.Kind]pipeline
	pool              *workers.Pool
	workers           int
	queueSize         int
	moderationTimeout time.Duration
}

func New(log logger.Logger, deps Deps, opts ...Option) *Router {
	r := &Router{
		log:               log,
		deps:              deps,
		workers:           8,
		queueSize:         1024,
		moderationTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.triggers == nil {
		r.triggers = trigger.NewRegistry()
	}
	r.pool = workers.New(r.workers, r.queueSize)

	r.pipelines = map[event.Kind]pipeline{
		event.KindPrivmsg: r.privmsg,
		event.KindWhisper: r.whisper,
		event.KindAction:  r.action,
	}
	for _, kind := range r.triggers.Kinds() {
		r.pipelines[kind] = r.platformTrigger
	}

	return r
}

// Dispatch runs build and moderation on the calling goroutine and hands every
// later stage to the worker pool in a fixed order. It returns once the
// stages are submitted, not when they finish.
func (r *Router) Dispatch(ctx context.Context, ev event.Event) {
	if ev == nil {
		return
	}

	var kind event.Kind
	defer func() {
		if p := recover(); p != nil {
			metrics.EventsTotal.WithLabelValues(string(kind), outcomeDropped).Inc()
			r.fail(&StageError{Event: kind, Stage: StageDispatch, Err: recovered(p)})
		}
	}()

	kind = ev.Kind()
	ctx = context.WithoutCancel(ctx)

	r.log.Trace("Event received", slog.String("event", string(kind)))

	run, ok := r.pipelines[kind]
	if !ok {
		metrics.EventsTotal.WithLabelValues(string(kind), outcomeIgnored).Inc()
		r.log.Warn("Unknown event kind ignored", slog.String("event", string(kind)))
		return
	}

	start := time.Now()
	err := run(ctx, ev)
	metrics.DispatchProcessingTime.Observe(float64(time.Since(start).Nanoseconds()) / 1e6)

	if err != nil {
		metrics.EventsTotal.WithLabelValues(string(kind), outcomeDropped).Inc()
		r.log.Warn("Event dropped", slog.String("event", string(kind)), slog.String("error", err.Error()))
		return
	}

	metrics.EventsTotal.WithLabelValues(string(kind), outcomeDone).Inc()
	r.log.Trace("Event fanned out", slog.String("event", string(kind)))
}

// Close waits for every submitted stage to finish. Dispatch after Close
// still runs stages, but nothing waits for them.
func (r *Router) Close() {
	r.pool.Stop()
	if n := r.pool.Overflow(); n > 0 {
		r.log.Debug("Worker pool overflowed", slog.Int64("tasks", n))
	}
}

// Overflow reports how many stages ran outside the pool because its queue was
// full.
func (r *Router) Overflow() int64 {
	return r.pool.Overflow()
}

func (r *Router) privmsg(ctx context.Context, ev event.Event) error {
	e, ok := ev.(event.Privmsg)
	if !ok {
		return unexpected(ev)
	}

	msg, err := r.build(e.Chat, message.KindChat)
	if err != nil {
		return err
	}

	r.moderate(ctx, ev.Kind(), msg)
	msg.Seal()

	r.notify(ctx, ev.Kind(), msg)
	r.publish(ctx, ev.Kind(), msg)
	r.handleCommands(ctx, ev.Kind(), msg)
	r.markActive(ctx, ev.Kind(), msg)

	for _, p := range trigger.FromMessage(msg) {
		if p.Kind() == trigger.KindChatMessage {
			r.incrementRate(ctx, ev.Kind(), msg)
		}
		r.fire(ctx, ev.Kind(), msg.Sender().ID, p)
	}
	return nil
}

func (r *Router) whisper(ctx context.Context, ev event.Event) error {
	e, ok := ev.(event.Whisper)
	if !ok {
		return unexpected(ev)
	}

	msg, err := r.build(e.Chat, message.KindWhisper)
	if err != nil {
		return err
	}
	msg.Seal()

	r.handleCommands(ctx, ev.Kind(), msg)
	if e.Connection != event.ConnectionBot {
		r.notify(ctx, ev.Kind(), msg)
	}
	return nil
}

func (r *Router) action(ctx context.Context, ev event.Event) error {
	e, ok := ev.(event.Action)
	if !ok {
		return unexpected(ev)
	}

	msg, err := r.build(e.Chat, message.KindAction)
	if err != nil {
		return err
	}
	msg.Seal()

	r.notify(ctx, ev.Kind(), msg)
	for _, p := range trigger.FromMessage(msg) {
		r.fire(ctx, ev.Kind(), msg.Sender().ID, p)
	}
	return nil
}

func (r *Router) platformTrigger(ctx context.Context, ev event.Event) error {
	translate, ok := r.triggers.Lookup(ev.Kind())
	if !ok {
		return ErrUnknownEvent
	}

	payloads, err := translate(ev)
	if err != nil {
		return err
	}

	for _, p := range payloads {
		r.fire(ctx, ev.Kind(), "", p)
	}
	return nil
}

func (r *Router) build(raw event.Chat, kind message.Kind) (*message.ChatMessage, error) {
	msg, err := message.Build(raw, raw.Text, kind)
	if err != nil {
		return nil, err
	}

	r.log.Trace("Message built", slog.String("kind", kind.String()), slog.String("user_id", msg.Sender().ID))
	return msg, nil
}

// moderate blocks until the gate returns or the timeout passes. A gate that
// outlives the timeout keeps running but the message is sealed by then.
func (r *Router) moderate(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.Moderation == nil {
		return
	}

	mctx, cancel := ctx, context.CancelFunc(func() {})
	if r.moderationTimeout > 0 {
		mctx, cancel = context.WithTimeout(ctx, r.moderationTimeout)
	}
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- recovered(p)
			}
		}()
		done <- r.deps.Moderation.Moderate(mctx, msg)
	}()

	var err error
	select {
	case err = <-done:
	case <-mctx.Done():
		err = ErrModerationTimeout
	}

	if err != nil {
		r.fail(&StageError{Event: kind, Stage: StageModerate, UserID: msg.Sender().ID, Err: err})
		return
	}
	r.log.Trace("Message moderated", slog.String("user_id", msg.Sender().ID), slog.Bool("highlighted", msg.IsHighlighted()))
}

func (r *Router) countsTowardRate(sender message.ChatUser) bool {
	if r.deps.Accounts == nil {
		return true
	}

	acc := r.deps.Accounts.ActiveAccounts()
	for _, name := range []string{acc.StreamerUsername, acc.BotUsername} {
		if name != "" && equalFoldLogin(name, sender.Login) {
			return false
		}
	}
	return true
}

// detach submits one stage. The stage's error or panic is logged and
// swallowed.
func (r *Router) detach(ctx context.Context, kind event.Kind, stage, userID string, fn func(ctx context.Context) error) {
	r.pool.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				r.fail(&StageError{Event: kind, Stage: stage, UserID: userID, Err: recovered(p)})
			}
		}()

		if err := fn(ctx); err != nil {
			r.fail(&StageError{Event: kind, Stage: stage, UserID: userID, Err: err})
		}
	})
}

func (r *Router) fail(se *StageError) {
	metrics.StageFailures.WithLabelValues(string(se.Event), se.Stage).Inc()

	args := []any{slog.String("event", string(se.Event)), slog.String("stage", se.Stage)}
	if se.UserID != "" {
		args = append(args, slog.String("user_id", se.UserID))
	}
	if errors.Is(se.Err, ErrPanic) {
		args = append(args, slog.Bool("panic", true))
	}
	r.log.Error("Fan-out stage failed", se, args...)
}
