package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilderPrefix(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.want, kb.GetPrefix())
		})
	}
}

func TestKeyBuilderKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:goat:summary", kb.KeyGlobalSummary())
	assert.Equal(t, "prod:goat:warzone:LAL:stats", kb.KeyWarzoneStats("LAL"))
	assert.Equal(t, "prod:goat:ticker", kb.KeyTicker())
	assert.Equal(t, "prod:goat:user:u-123:voted", kb.KeyUserVoted("u-123"))
	assert.Equal(t, "prod:goat:idem:tok-1", kb.KeyIdempotency("tok-1"))
	assert.Equal(t, "prod:custom:42", kb.KeyCustom("custom:%d", 42))
}
