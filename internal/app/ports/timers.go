package ports

import "time"

type TimersPort interface {
	AddTimer(id string, interval time.Duration, task func())
	ActiveTimers() map[string]time.Duration
	UpdateTimer(id string, interval time.Duration) bool
	RemoveTimer(id string)
}

type RateCounterPort interface {
	Increment()
}
