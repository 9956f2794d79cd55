package twitch

import (
	"chatrouter/internal/app/domain/event"
	"github.com/gempir/go-twitch-irc/v4"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	hostNoticeUser = "jtv"
	anonGifterName = "ananonymousgifter"
)

// "Streamer is now hosting you for up to 12 viewers."
// "Streamer is now auto hosting you."
var hostNotice = regexp.MustCompile(`^(\S+) is now (auto )?hosting you(?: for up to (\d+) viewers?)?`)

func userFrom(u twitch.User) event.User {
	return event.User{
		ID:            u.ID,
		Login:         u.Name,
		DisplayName:   u.DisplayName,
		IsBroadcaster: hasBadge(u.Badges, "broadcaster"),
		IsMod:         hasBadge(u.Badges, "moderator"),
		IsVIP:         hasBadge(u.Badges, "vip"),
		IsSubscriber:  hasBadge(u.Badges, "subscriber", "founder"),
	}
}

func hasBadge(badges map[string]int, names ...string) bool {
	for _, name := range names {
		if _, ok := badges[name]; ok {
			return true
		}
	}
	return false
}

// fromPrivateMessage returns nil for messages that carry no event, such as
// unparsable jtv notices.
func fromPrivateMessage(m twitch.PrivateMessage) event.Event {
	if m.User.Name == hostNoticeUser {
		host, ok := parseHost(m.Message)
		if !ok {
			return nil
		}
		return host
	}

	chat := event.Chat{
		ID:      m.ID,
		Channel: m.Channel,
		User:    userFrom(m.User),
		Text:    m.Message,
		Cheer:   m.Bits > 0,
		Bits:    m.Bits,
		Tags:    m.Tags,
		Time:    m.Time,
	}

	if m.Action {
		return event.Action{Chat: chat}
	}
	return event.Privmsg{Chat: chat}
}

func parseHost(text string) (event.Host, bool) {
	match := hostNotice.FindStringSubmatch(text)
	if match == nil {
		return event.Host{}, false
	}

	viewers, _ := strconv.Atoi(match[3])
	return event.Host{
		Channel: match[1],
		Auto:    match[2] != "",
		Viewers: viewers,
	}, true
}

func fromWhisperMessage(m twitch.WhisperMessage, conn event.Connection) event.Whisper {
	return event.Whisper{
		Chat: event.Chat{
			ID:   m.MessageID,
			User: userFrom(m.User),
			Text: m.Message,
			Tags: m.Tags,
			Time: time.Now(),
		},
		Connection: conn,
	}
}

// fromUserNotice converts the usernotice kinds the router cares about and
// returns nil for the rest (announcements, bits badges, ...).
func fromUserNotice(m twitch.UserNoticeMessage) event.Event {
	p := m.MsgParams

	switch m.MsgID {
	case "sub", "resub":
		sub := event.Sub{
			Channel:     m.Channel,
			DisplayName: m.User.DisplayName,
			Plan:        p["msg-param-sub-plan"],
			PlanName:    unescape(p["msg-param-sub-plan-name"]),
			Months:      atoi(p["msg-param-cumulative-months"]),
			Streak:      atoi(p["msg-param-streak-months"]),
			IsPrime:     p["msg-param-sub-plan"] == "Prime",
			Message:     m.Message,
		}
		if m.MsgID == "resub" {
			return event.Resub{Sub: sub}
		}
		return sub

	case "subgift", "anonsubgift":
		duration := atoi(p["msg-param-gift-months"])
		if duration < 1 {
			duration = 1
		}
		return event.SubGift{
			Channel:           m.Channel,
			GifterName:        m.User.DisplayName,
			RecipientName:     firstNonEmpty(p["msg-param-recipient-display-name"], p["msg-param-recipient-user-name"]),
			Plan:              p["msg-param-sub-plan"],
			PlanName:          unescape(p["msg-param-sub-plan-name"]),
			GiftDuration:      duration,
			IsAnonymousGifter: m.MsgID == "anonsubgift" || m.User.Name == anonGifterName,
		}

	case "submysterygift", "anonsubmysterygift":
		gifter := m.User.DisplayName
		if m.MsgID == "anonsubmysterygift" || m.User.Name == anonGifterName {
			gifter = ""
		}
		return event.CommunitySubGift{
			Channel:    m.Channel,
			GifterName: gifter,
			Plan:       p["msg-param-sub-plan"],
			Count:      atoi(p["msg-param-mass-gift-count"]),
		}

	case "raid":
		return event.Raid{
			Channel:     m.Channel,
			RaiderName:  firstNonEmpty(p["msg-param-displayName"], p["msg-param-login"], m.User.DisplayName),
			ViewerCount: atoi(p["msg-param-viewerCount"]),
		}
	}

	return nil
}

// fromClearChat returns nil when the whole chat was cleared.
func fromClearChat(m twitch.ClearChatMessage) event.Event {
	if m.TargetUsername == "" {
		return nil
	}

	if m.BanDuration <= 0 {
		return event.Ban{Channel: m.Channel, Username: m.TargetUsername}
	}
	return event.Timeout{
		Channel:  m.Channel,
		Username: m.TargetUsername,
		Duration: time.Duration(m.BanDuration) * time.Second,
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\s`, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
