package redis

import "fmt"

// KeyBuilder prefixes every key with the environment so staging and
// production can share a Redis instance without collisions.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder with an environment-based prefix.
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}
	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix.
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix.
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyGlobalSummary keys the cached global summary document.
func (kb *KeyBuilder) KeyGlobalSummary() string {
	return kb.BuildKey(KeyGlobalSummary)
}

// KeyWarzoneStats keys one warzone's cached rollup.
func (kb *KeyBuilder) KeyWarzoneStats(warzoneID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyWarzoneStats, warzoneID))
}

// KeyTicker keys the cached recent-votes ring.
func (kb *KeyBuilder) KeyTicker() string {
	return kb.BuildKey(KeyTicker)
}

// KeyUserVoted keys a user's cached vote flag.
func (kb *KeyBuilder) KeyUserVoted(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyUserVoted, userID))
}

// KeyIdempotency keys a submission idempotency lock.
func (kb *KeyBuilder) KeyIdempotency(token string) string {
	return kb.BuildKey(fmt.Sprintf(KeyIdempotency, token))
}

// KeyCustom builds an arbitrary prefixed key.
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
