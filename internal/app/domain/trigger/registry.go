package trigger

import (
	"chatrouter/internal/app/domain/event"
	"chatrouter/internal/app/domain/message"
	"fmt"
	"math"
)

// Translator turns one platform event into the payloads it fires.
type Translator func(ev event.Event) ([]Payload, error)

// Registry maps event kinds to their translators. It is filled once by
// NewRegistry and only read afterwards.
type Registry struct {
	translators map[event.Kind]Translator
}

func NewRegistry() *Registry {
	return &Registry{
		translators: map[event.Kind]Translator{
			event.KindSub:              translate(fromSub),
			event.KindResub:            translate(fromResub),
			event.KindSubGift:          translate(fromSubGift),
			event.KindCommunitySubGift: translate(fromCommunitySubGift),
			event.KindRaid:             translate(fromRaid),
			event.KindHost:             translate(fromHost),
			event.KindBan:              translate(fromBan),
			event.KindTimeout:          translate(fromTimeout),
		},
	}
}

func (r *Registry) Lookup(kind event.Kind) (Translator, bool) {
	t, ok := r.translators[kind]
	return t, ok
}

func (r *Registry) Kinds() []event.Kind {
	kinds := make([]event.Kind, 0, len(r.translators))
	for k := range r.translators {
		kinds = append(kinds, k)
	}
	return kinds
}

func translate[E event.Event](fn func(E) (Payload, error)) Translator {
	return func(ev event.Event) ([]Payload, error) {
		e, ok := ev.(E)
		if !ok {
			return nil, fmt.Errorf("unexpected event type %T for %s", ev, ev.Kind())
		}
		p, err := fn(e)
		if err != nil {
			return nil, err
		}
		return []Payload{p}, nil
	}
}

// FromMessage returns the message-derived payloads for a built message in
// firing order. Whispers fire nothing.
func FromMessage(msg *message.ChatMessage) []Payload {
	switch msg.Kind() {
	case message.KindChat:
		payloads := []Payload{ViewerArrived{Username: msg.Sender().DisplayName}}
		if msg.IsCheer() {
			payloads = append(payloads, Cheer{
				Username: msg.Sender().DisplayName,
				Bits:     msg.Bits(),
				Message:  msg.RawText(),
			})
		}
		return append(payloads, ChatMessage{Message: msg})
	case message.KindAction:
		return []Payload{ChatMessage{Message: msg}, ViewerArrived{Username: msg.Sender().DisplayName}}
	default:
		return nil
	}
}

func malformed(reason string) error {
	return &message.MalformedEventError{Reason: reason}
}

func fromSub(e event.Sub) (Payload, error) {
	return subPayload(e, false)
}

func fromResub(e event.Resub) (Payload, error) {
	return subPayload(e.Sub, true)
}

func subPayload(e event.Sub, resub bool) (Payload, error) {
	if e.DisplayName == "" {
		return nil, malformed("sub without subscriber name")
	}
	return Sub{
		Username: e.DisplayName,
		Tier:     e.Plan,
		TierName: e.PlanName,
		Months:   e.Months,
		Streak:   e.Streak,
		IsPrime:  e.IsPrime || e.Plan == "Prime",
		IsResub:  resub,
	}, nil
}

func fromSubGift(e event.SubGift) (Payload, error) {
	if e.RecipientName == "" {
		return nil, malformed("gift sub without recipient")
	}
	gifter := e.GifterName
	if e.IsAnonymousGifter || gifter == "" {
		gifter = "An Anonymous Gifter"
	}
	return GiftSub{
		GifterName:    gifter,
		RecipientName: e.RecipientName,
		Tier:          e.Plan,
		TierName:      e.PlanName,
		GiftDuration:  e.GiftDuration,
	}, nil
}

func fromCommunitySubGift(e event.CommunitySubGift) (Payload, error) {
	gifter := e.GifterName
	if gifter == "" {
		gifter = "An Anonymous Gifter"
	}
	return CommunityGiftSub{
		GifterName: gifter,
		Tier:       e.Plan,
		Count:      e.Count,
	}, nil
}

func fromRaid(e event.Raid) (Payload, error) {
	if e.RaiderName == "" {
		return nil, malformed("raid without raider name")
	}
	return Raid{RaiderName: e.RaiderName, ViewerCount: e.ViewerCount}, nil
}

func fromHost(e event.Host) (Payload, error) {
	if e.Channel == "" {
		return nil, malformed("host without host channel")
	}
	return Host{HostChannel: e.Channel, Auto: e.Auto, ViewerCount: e.Viewers}, nil
}

func fromBan(e event.Ban) (Payload, error) {
	if e.Username == "" {
		return nil, malformed("ban without username")
	}
	return Banned{Username: e.Username}, nil
}

func fromTimeout(e event.Timeout) (Payload, error) {
	if e.Username == "" {
		return nil, malformed("timeout without username")
	}
	return Timeout{
		Username:        e.Username,
		DurationSeconds: int(math.Round(e.Duration.Seconds())),
	}, nil
}
