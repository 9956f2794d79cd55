package router

import "chatrouter/internal/app/domain/message"

const (
	highlightRewardName  = "Highlight Message"
	highlightRewardImage = "https://static-cdn.jtvnw.net/automatic-reward-images/highlight-4.png"
)

type RewardRedemption struct {
	ID          string         `json:"id"`
	Reward      Reward         `json:"reward"`
	MessageText string         `json:"messageText"`
	User        RedemptionUser `json:"user"`
}

type Reward struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	ImageURL string `json:"imageUrl"`
}

type RedemptionUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// HighlightRedemption shapes a highlighted message as a zero-cost reward
// redemption for the presentation layer. Both ids are the highlight reward id,
// which is what overlays key on.
func HighlightRedemption(msg *message.ChatMessage) RewardRedemption {
	sender := msg.Sender()
	return RewardRedemption{
		ID: message.HighlightRewardID,
		Reward: Reward{
			ID:       message.HighlightRewardID,
			Name:     highlightRewardName,
			Cost:     0,
			ImageURL: highlightRewardImage,
		},
		MessageText: msg.RawText(),
		User: RedemptionUser{
			ID:          sender.ID,
			Username:    sender.Login,
			DisplayName: sender.DisplayName,
		},
	}
}
