package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LoginAttemptsKey returns the counter key for login attempts from one client
// within a fixed window. The window index keeps counters from colliding.
func (r *CacheKeyStruct) LoginAttemptsKey(clientIP string, window int64) string {
	return fmt.Sprintf("login:attempts:%s:%d", clientIP, window)
}

// RequestEventsChannel returns the Redis PubSub channel for access request
// lifecycle events.
func (r *CacheKeyStruct) RequestEventsChannel() string {
	return "requests:events"
}

var CacheKey = NewCacheKeyStruct()
