// Package trigger translates platform events and built chat messages into the
// flat payloads handed to the automation engine.
package trigger

import "chatrouter/internal/app/domain/message"

type Kind string

const (
	KindViewerArrived    Kind = "viewer-arrived"
	KindCheer            Kind = "cheer"
	KindChatMessage      Kind = "chat-message"
	KindSub              Kind = "sub"
	KindResub            Kind = "resub"
	KindGiftSub          Kind = "gift-sub"
	KindCommunityGiftSub Kind = "community-gift-sub"
	KindRaid             Kind = "raid"
	KindHost             Kind = "host"
	KindBanned           Kind = "banned"
	KindTimeout          Kind = "timeout"
)

type Payload interface {
	Kind() Kind
}

type ViewerArrived struct {
	Username string `json:"username"`
}

type Cheer struct {
	Username string `json:"username"`
	Bits     int    `json:"bits"`
	Message  string `json:"message"`
}

type ChatMessage struct {
	Message *message.ChatMessage `json:"message"`
}

type Sub struct {
	Username string `json:"username"`
	Tier     string `json:"tier"`
	TierName string `json:"tier_name"`
	Months   int    `json:"months"`
	Streak   int    `json:"streak"`
	IsPrime  bool   `json:"is_prime"`
	IsResub  bool   `json:"is_resub"`
}

type GiftSub struct {
	GifterName    string `json:"gifter_name"`
	RecipientName string `json:"recipient_name"`
	Tier          string `json:"tier"`
	TierName      string `json:"tier_name"`
	GiftDuration  int    `json:"gift_duration"`
}

type CommunityGiftSub struct {
	GifterName string `json:"gifter_name"`
	Tier       string `json:"tier"`
	Count      int    `json:"count"`
}

type Raid struct {
	RaiderName  string `json:"raider_name"`
	ViewerCount int    `json:"viewer_count"`
}

type Host struct {
	HostChannel string `json:"host_channel"`
	Auto        bool   `json:"auto"`
	ViewerCount int    `json:"viewer_count"`
}

type Banned struct {
	Username string `json:"username"`
}

type Timeout struct {
	Username        string `json:"username"`
	DurationSeconds int    `json:"duration_seconds"`
}

func (ViewerArrived) Kind() Kind    { return KindViewerArrived }
func (Cheer) Kind() Kind            { return KindCheer }
func (ChatMessage) Kind() Kind      { return KindChatMessage }
func (GiftSub) Kind() Kind          { return KindGiftSub }
func (CommunityGiftSub) Kind() Kind { return KindCommunityGiftSub }
func (Raid) Kind() Kind             { return KindRaid }
func (Host) Kind() Kind             { return KindHost }
func (Banned) Kind() Kind           { return KindBanned }
func (Timeout) Kind() Kind          { return KindTimeout }

func (s Sub) Kind() Kind {
	if s.IsResub {
		return KindResub
	}
	return KindSub
}
