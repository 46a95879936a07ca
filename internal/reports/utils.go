package reports

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ToTitleCase capitalizes the first letter of each word and lowercases
// the rest.
func ToTitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// TitleFromFile derives a display title from an artifact file name:
// "ranked_bar.png" becomes "Ranked Bar".
func TitleFromFile(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return ToTitleCase(base)
}
