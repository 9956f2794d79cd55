package ports

import (
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/trigger"
	"context"
)

const (
	ChannelChatMessage      = "chat:message"
	ChannelRewardRedemption = "chat:rewardredemption"
)

type NotifierPort interface {
	Notify(channel string, payload any) error
}

type CommandPort interface {
	Handle(ctx context.Context, msg *message.ChatMessage) error
}

type TrackerPort interface {
	MarkActive(user message.ChatUser, countsTowardRate bool)
}

type Accounts struct {
	StreamerUsername string
	BotUsername      string
}

type AccountsPort interface {
	ActiveAccounts() Accounts
}

type AutomationPort interface {
	Fire(ctx context.Context, payload trigger.Payload) error
}
