package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "You have already voted", GetMessage("en", KeyAlreadyVoted))
	assert.Equal(t, "你已經投過票了", GetMessage("zh-TW", KeyAlreadyVoted))

	// Unsupported language falls back to English.
	assert.Equal(t, "You have already voted", GetMessage("fr", KeyAlreadyVoted))

	// Unknown key stays visible instead of vanishing.
	assert.Equal(t, "no_such_key", GetMessage("en", "no_such_key"))
}

func TestEveryKeyHasAllTranslations(t *testing.T) {
	keys := []string{
		KeyCompleteProfileFirst,
		KeyAlreadyVoted,
		KeyHasNotVoted,
		KeyWarzoneRequired,
		KeyDeviceAlreadyVoted,
		KeyDeviceIDRequired,
		KeyProfileNotFound,
		KeyInvalidStance,
		KeyInvalidReasons,
		KeyInvalidProfileField,
		KeyDuplicateRequest,
		KeyInternal,
	}

	for lang, catalog := range catalogs {
		for _, key := range keys {
			assert.Contains(t, catalog, key, "missing %s in %s", key, lang)
		}
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"zh-TW,zh;q=0.9,en;q=0.8", "zh-TW"},
		{"zh-CN", "zh-TW"},
		{"en-US,en;q=0.5", "en"},
		{"fr-FR, de;q=0.7", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLanguage(tt.header))
		})
	}
}
