package moderation

import (
	"github.com/abadojack/whatlanggo"
)

// minReliableLength under which detection is skipped: short chat lines are mostly noise.
const minReliableLength = 12

// DetectLanguage returns the ISO 639-1 code of the text, or "" when unsure.
func DetectLanguage(text string) string {
	if len([]rune(text)) < minReliableLength {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
