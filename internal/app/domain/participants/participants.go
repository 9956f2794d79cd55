// Package participants remembers who has been chatting recently.
package participants

import (
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/infrastructure/storage"
	"chatrouter/internal/app/ports"
	"time"
)

type Record struct {
	User             message.ChatUser `json:"user"`
	LastSeen         time.Time        `json:"last_seen"`
	CountsTowardRate bool             `json:"counts_toward_rate"`
}

// Tracker keeps one Record per user id. Concurrent MarkActive calls for the
// same id resolve last-write-wins; distinct ids never block each other.
type Tracker struct {
	records ports.StorePort[Record]
	now     func() time.Time
}

// New creates a tracker. A zero ttl keeps records forever.
func New(ttl time.Duration) *Tracker {
	return &Tracker{
		records: storage.NewCache[Record](0, ttl),
		now:     time.Now,
	}
}

func (t *Tracker) MarkActive(user message.ChatUser, countsTowardRate bool) {
	if user.ID == "" {
		return
	}

	t.records.Set(user.ID, Record{
		User:             user,
		LastSeen:         t.now(),
		CountsTowardRate: countsTowardRate,
	})
}

func (t *Tracker) Get(userID string) (Record, bool) {
	return t.records.Get(userID)
}

func (t *Tracker) IsActive(userID string) bool {
	_, ok := t.records.Get(userID)
	return ok
}

func (t *Tracker) Len() int {
	return t.records.Len()
}

func (t *Tracker) Snapshot() []Record {
	all := t.records.All()
	out := make([]Record, 0, len(all))
	for _, r := range all {
		out = append(out, r)
	}
	return out
}
