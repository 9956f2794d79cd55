package router

import (
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/trigger"
	"chatrouter/internal/app/ports"
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	StageDispatch    = "dispatch"
	StageModerate    = "moderate"
	StageNotify      = "notify"
	StagePublish     = "publish"
	StageCommands    = "commands"
	StageTracker     = "tracker"
	StageRateCounter = "rate_counter"
	StageTrigger     = "trigger"
)

// notify sends the redemption before the message from one task, so a sink
// never sees them reordered.
func (r *Router) notify(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.Notifier == nil {
		return
	}

	r.detach(ctx, kind, StageNotify, msg.Sender().ID, func(context.Context) error {
		var errs []error
		if msg.IsHighlighted() {
			if err := r.deps.Notifier.Notify(ports.ChannelRewardRedemption, HighlightRedemption(msg)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ports.ChannelRewardRedemption, err))
			}
		}
		if err := r.deps.Notifier.Notify(ports.ChannelChatMessage, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ports.ChannelChatMessage, err))
		}
		return errors.Join(errs...)
	})
}

func (r *Router) publish(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.Bus == nil {
		return
	}

	r.detach(ctx, kind, StagePublish, msg.Sender().ID, func(context.Context) error {
		r.deps.Bus.Publish(msg)
		return nil
	})
}

func (r *Router) handleCommands(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.Commands == nil {
		return
	}

	r.detach(ctx, kind, StageCommands, msg.Sender().ID, func(ctx context.Context) error {
		return r.deps.Commands.Handle(ctx, msg)
	})
}

func (r *Router) markActive(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.Tracker == nil {
		return
	}

	r.detach(ctx, kind, StageTracker, msg.Sender().ID, func(context.Context) error {
		r.deps.Tracker.MarkActive(msg.Sender(), true)
		return nil
	})
}

// incrementRate counts the line unless the streamer or the bot sent it. The
// account lookup runs inside the task so its failure stays in this stage.
func (r *Router) incrementRate(ctx context.Context, kind event.Kind, msg *message.ChatMessage) {
	if r.deps.RateCounter == nil {
		return
	}

	r.detach(ctx, kind, StageRateCounter, msg.Sender().ID, func(context.Context) error {
		if r.countsTowardRate(msg.Sender()) {
			r.deps.RateCounter.Increment()
		}
		return nil
	})
}

func (r *Router) fire(ctx context.Context, kind event.Kind, userID string, p trigger.Payload) {
	if r.deps.Automation == nil {
		return
	}

	stage := StageTrigger + ":" + string(p.Kind())
	r.detach(ctx, kind, stage, userID, func(ctx context.Context) error {
		return r.deps.Automation.Fire(ctx, p)
	})
}

func equalFoldLogin(account, name string) bool {
	return strings.EqualFold(strings.TrimPrefix(account, "@"), name)
}
