package utils

import "github.com/microcosm-cc/bluemonday"

// Nicknames end up in the shared ranking list and the spreadsheet mirror, so
// strip all markup rather than escaping it.
var nicknamePolicy = bluemonday.StrictPolicy()

// SanitizeNickname removes any HTML from a display name.
func SanitizeNickname(input string) string {
	return nicknamePolicy.Sanitize(input)
}
