package ports

import "time"

type StorePort[T any] interface {
	Set(key string, val T)
	Get(key string) (T, bool)
	All() map[string]T
	Len() int
	ClearKey(key string)
	ClearAll()
	TTL() time.Duration
}
