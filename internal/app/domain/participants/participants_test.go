package participants

import (
	"chatrouter/internal/app/domain/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestTracker_MarkActiveIdempotent(t *testing.T) {
	tr := New(0)

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)
	clock := first
	tr.now = func() time.Time { return clock }

	user := message.ChatUser{ID: "1", Login: "alice", DisplayName: "Alice"}
	tr.MarkActive(user, true)
	clock = second
	tr.MarkActive(user, true)

	assert.Equal(t, 1, tr.Len())

	rec, ok := tr.Get("1")
	require.True(t, ok)
	assert.Equal(t, second, rec.LastSeen)
	assert.True(t, rec.CountsTowardRate)
	assert.Equal(t, user, rec.User)
}

func TestTracker_LastWriteWins(t *testing.T) {
	tr := New(0)

	user := message.ChatUser{ID: "1", Login: "alice"}
	tr.MarkActive(user, true)
	tr.MarkActive(user, false)

	rec, ok := tr.Get("1")
	require.True(t, ok)
	assert.False(t, rec.CountsTowardRate)
}

func TestTracker_IgnoresEmptyID(t *testing.T) {
	tr := New(0)
	tr.MarkActive(message.ChatUser{Login: "nobody"}, true)
	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.IsActive(""))
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New(0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				tr.MarkActive(message.ChatUser{ID: strconv.Itoa(i)}, true)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tr.Len())
	assert.Len(t, tr.Snapshot(), 50)
	assert.True(t, tr.IsActive("7"))
}
