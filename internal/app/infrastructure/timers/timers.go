package timers

import (
	"sync"
	"time"
)

type Timer struct {
	ID       string
	Interval time.Duration
	Task     func()
	rounds   int
}

type slot struct {
	timers map[string]*Timer
}

// TimingWheel runs repeating tasks with tick precision. Intervals longer than
// one revolution wait for the needed number of rounds.
type TimingWheel struct {
	tickDuration time.Duration
	slots        []*slot
	currentPos   int
	slotsCount   int
	mutex        sync.Mutex
	ticker       *time.Ticker
	stop         chan struct{}
	stopOnce     sync.Once
}

func NewTimingWheel(tickDuration time.Duration, slotsCount int) *TimingWheel {
	if slotsCount < 1 {
		slotsCount = 1
	}

	tw := &TimingWheel{
		tickDuration: tickDuration,
		slotsCount:   slotsCount,
		slots:        make([]*slot, slotsCount),
		currentPos:   0,
		stop:         make(chan struct{}),
	}

	for i := range tw.slots {
		tw.slots[i] = &slot{timers: make(map[string]*Timer)}
	}

	tw.ticker = time.NewTicker(tickDuration)
	go tw.start()
	return tw
}

func (tw *TimingWheel) start() {
	for {
		select {
		case <-tw.stop:
			return
		case <-tw.ticker.C:
			tw.tick()
		}
	}
}

func (tw *TimingWheel) tick() {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.currentPos = (tw.currentPos + 1) % tw.slotsCount
	currentSlot := tw.slots[tw.currentPos]

	var due []*Timer
	for id, timer := range currentSlot.timers {
		if timer.rounds > 0 {
			timer.rounds--
			continue
		}
		delete(currentSlot.timers, id)
		due = append(due, timer)
	}

	for _, timer := range due {
		go timer.Task()
		tw.place(timer) // timers repeat
	}
}

// place puts t into the slot it fires from. Callers hold the mutex.
func (tw *TimingWheel) place(t *Timer) {
	ticks := int(t.Interval / tw.tickDuration)
	if ticks < 1 {
		ticks = 1
	}

	t.rounds = (ticks - 1) / tw.slotsCount
	pos := (tw.currentPos + ticks) % tw.slotsCount
	tw.slots[pos].timers[t.ID] = t
}

func (tw *TimingWheel) AddTimer(id string, interval time.Duration, task func()) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.removeLocked(id)
	tw.place(&Timer{
		ID:       id,
		Interval: interval,
		Task:     task,
	})
}

func (tw *TimingWheel) RemoveTimer(id string) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.removeLocked(id)
}

func (tw *TimingWheel) UpdateTimer(id string, newInterval time.Duration) bool {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	t := tw.removeLocked(id)
	if t == nil {
		return false
	}

	t.Interval = newInterval
	tw.place(t)
	return true
}

func (tw *TimingWheel) ActiveTimers() map[string]time.Duration {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	out := make(map[string]time.Duration)
	for _, s := range tw.slots {
		for id, t := range s.timers {
			out[id] = t.Interval
		}
	}
	return out
}

func (tw *TimingWheel) Stop() {
	tw.stopOnce.Do(func() {
		tw.ticker.Stop()
		close(tw.stop)
	})
}

func (tw *TimingWheel) removeLocked(id string) *Timer {
	for _, s := range tw.slots {
		if t, ok := s.timers[id]; ok {
			delete(s.timers, id)
			return t
		}
	}
	return nil
}
