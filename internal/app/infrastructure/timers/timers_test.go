package timers

import (
	"github.com/stretchr/testify/assert"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimingWheel_Repeats(t *testing.T) {
	tw := NewTimingWheel(5*time.Millisecond, 4)
	defer tw.Stop()

	var fired atomic.Int32
	tw.AddTimer("a", 10*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestTimingWheel_LongerThanRevolution(t *testing.T) {
	tw := NewTimingWheel(5*time.Millisecond, 2)
	defer tw.Stop()

	var fired atomic.Int32
	start := time.Now()
	var firstAt atomic.Int64
	tw.AddTimer("long", 50*time.Millisecond, func() {
		if fired.Add(1) == 1 {
			firstAt.Store(int64(time.Since(start)))
		}
	})

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Duration(firstAt.Load()), 40*time.Millisecond)
}

func TestTimingWheel_RemoveAndUpdate(t *testing.T) {
	tw := NewTimingWheel(time.Hour, 8)
	defer tw.Stop()

	tw.AddTimer("a", 2*time.Hour, func() {})
	tw.AddTimer("b", 3*time.Hour, func() {})
	assert.Equal(t, map[string]time.Duration{"a": 2 * time.Hour, "b": 3 * time.Hour}, tw.ActiveTimers())

	assert.True(t, tw.UpdateTimer("a", 5*time.Hour))
	assert.False(t, tw.UpdateTimer("missing", time.Hour))
	tw.RemoveTimer("b")

	assert.Equal(t, map[string]time.Duration{"a": 5 * time.Hour}, tw.ActiveTimers())
}

func TestTimingWheel_StopHaltsTasks(t *testing.T) {
	tw := NewTimingWheel(5*time.Millisecond, 4)

	var fired atomic.Int32
	tw.AddTimer("a", 5*time.Millisecond, func() { fired.Add(1) })
	tw.Stop()
	tw.Stop()

	n := fired.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), n+1)
}
