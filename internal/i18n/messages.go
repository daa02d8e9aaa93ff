// Package i18n holds the user-facing message catalog. The services
// return sentinel errors; handlers translate them here based on the
// request's Accept-Language, which keeps copy out of the core.
package i18n

import "strings"

// Message keys for the named precondition violations.
const (
	KeyCompleteProfileFirst = "completeProfileFirst"
	KeyAlreadyVoted         = "alreadyVoted"
	KeyHasNotVoted          = "error_hasNotVoted"
	KeyWarzoneRequired      = "error_warzoneRequired"
	KeyDeviceAlreadyVoted   = "error_deviceAlreadyVoted"
	KeyDeviceIDRequired     = "error_deviceIdRequired"
	KeyProfileNotFound      = "error_profileNotFoundRevote"
	KeyInvalidStance        = "error_invalidStance"
	KeyInvalidReasons       = "error_invalidReasons"
	KeyInvalidProfileField  = "error_invalidProfileField"
	KeyDuplicateRequest     = "error_duplicateRequest"
	KeyInternal             = "error_internal"
)

// DefaultLang is used when no supported language matches.
const DefaultLang = "en"

var catalogs = map[string]map[string]string{
	"en": {
		KeyCompleteProfileFirst: "Complete your profile before voting",
		KeyAlreadyVoted:         "You have already voted",
		KeyHasNotVoted:          "You have not voted yet",
		KeyWarzoneRequired:      "Pick a warzone before voting",
		KeyDeviceAlreadyVoted:   "This device already holds an active vote",
		KeyDeviceIDRequired:     "A device identifier is required",
		KeyProfileNotFound:      "Profile not found",
		KeyInvalidStance:        "Unknown stance",
		KeyInvalidReasons:       "One or more reasons do not match the chosen stance",
		KeyInvalidProfileField:  "One or more profile fields are not valid",
		KeyDuplicateRequest:     "This request is already being processed",
		KeyInternal:             "Something went wrong, please try again",
	},
	"zh-TW": {
		KeyCompleteProfileFirst: "請先完成個人檔案再投票",
		KeyAlreadyVoted:         "你已經投過票了",
		KeyHasNotVoted:          "你尚未投票",
		KeyWarzoneRequired:      "投票前請先選擇戰區",
		KeyDeviceAlreadyVoted:   "此設備已有一張有效票",
		KeyDeviceIDRequired:     "缺少設備識別碼",
		KeyProfileNotFound:      "找不到個人檔案",
		KeyInvalidStance:        "未知的立場",
		KeyInvalidReasons:       "部分理由與所選立場不符",
		KeyInvalidProfileField:  "部分個人檔案欄位無效",
		KeyDuplicateRequest:     "此請求正在處理中",
		KeyInternal:             "發生錯誤，請稍後再試",
	},
}

// GetMessage resolves a message key for a language, falling back to
// English, then to the key itself so a missing entry is still visible.
func GetMessage(lang, key string) string {
	if m, ok := catalogs[lang]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// MatchLanguage picks a supported language from an Accept-Language
// header value.
func MatchLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if _, ok := catalogs[tag]; ok {
			return tag
		}
		if strings.HasPrefix(strings.ToLower(tag), "zh") {
			return "zh-TW"
		}
		if strings.HasPrefix(strings.ToLower(tag), "en") {
			return "en"
		}
	}
	return DefaultLang
}
