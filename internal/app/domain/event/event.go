// Package event holds the platform events delivered by the chat transport.
// Every listener kind is its own struct; the router switches on Kind.
package event

import "time"

type Kind string

const (
	KindPrivmsg          Kind = "privmsg"
	KindWhisper          Kind = "whisper"
	KindAction           Kind = "action"
	KindHost             Kind = "host"
	KindSub              Kind = "sub"
	KindResub            Kind = "resub"
	KindSubGift          Kind = "subgift"
	KindCommunitySubGift Kind = "community_subgift"
	KindRaid             Kind = "raid"
	KindBan              Kind = "ban"
	KindTimeout          Kind = "timeout"
)

type Event interface {
	Kind() Kind
}

// Connection names the chat connection an event arrived on.
type Connection string

const (
	ConnectionStreamer Connection = "streamer"
	ConnectionBot      Connection = "bot"
)

type User struct {
	ID            string
	Login         string
	DisplayName   string
	IsBroadcaster bool
	IsMod         bool
	IsVIP         bool
	IsSubscriber  bool
}

// Chat is the shared part of every message-shaped event.
type Chat struct {
	ID      string
	Channel string
	User    User
	Text    string
	Cheer   bool
	Bits    int
	Tags    map[string]string
	Time    time.Time
}

type Privmsg struct {
	Chat
}

type Whisper struct {
	Chat
	Connection Connection
}

type Action struct {
	Chat
}

type Host struct {
	Channel string // hosting channel
	Auto    bool
	Viewers int
}

// Plan values as sent by Twitch: "Prime", "1000", "2000", "3000".
type Sub struct {
	Channel     string
	DisplayName string
	Plan        string
	PlanName    string
	Months      int
	Streak      int
	IsPrime     bool
	Message     string
}

type Resub struct {
	Sub
}

type SubGift struct {
	Channel           string
	GifterName        string
	RecipientName     string
	Plan              string
	PlanName          string
	GiftDuration      int
	IsAnonymousGifter bool
}

type CommunitySubGift struct {
	Channel    string
	GifterName string
	Plan       string
	Count      int
}

type Raid struct {
	Channel     string
	RaiderName  string
	ViewerCount int
}

type Ban struct {
	Channel  string
	Username string
}

type Timeout struct {
	Channel  string
	Username string
	Duration time.Duration
}

func (Privmsg) Kind() Kind          { return KindPrivmsg }
func (Whisper) Kind() Kind          { return KindWhisper }
func (Action) Kind() Kind           { return KindAction }
func (Host) Kind() Kind             { return KindHost }
func (Sub) Kind() Kind              { return KindSub }
func (Resub) Kind() Kind            { return KindResub }
func (SubGift) Kind() Kind          { return KindSubGift }
func (CommunitySubGift) Kind() Kind { return KindCommunitySubGift }
func (Raid) Kind() Kind             { return KindRaid }
func (Ban) Kind() Kind              { return KindBan }
func (Timeout) Kind() Kind          { return KindTimeout }
