package sheets

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleLength is the longest worksheet title Sheets accepts, in characters.
const MaxTitleLength = 100

// SanitizeTitle turns an arbitrary display name into a worksheet title.
//
// Every rune that is not a letter, digit, underscore, whitespace or hyphen is removed,
// surrounding whitespace is trimmed and the result is cut to [MaxTitleLength] runes.
// Input is NFC-normalized first so decomposed accents survive as letters.
func SanitizeTitle(name string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(name) {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}

	title := []rune(strings.TrimSpace(b.String()))
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength]
	}
	return string(title)
}

func keepRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' || r == '-'
}

// quoteTitle renders title as the sheet part of an A1 range.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
