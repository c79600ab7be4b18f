package library

import "strings"

// keywordGroups maps substring variants to a genre, checked in order. The
// first group whose keywords hit wins, so "Science Fiction" lands on Roman
// (via "fiction") and never reaches the Fantastique group.
var keywordGroups = []struct {
	genre    string
	keywords []string
}{
	{"Roman", []string{"roman", "fiction", "novel"}},
	{"Essai", []string{"essai", "essay"}},
	{"Science", []string{"science", "sciences"}},
	{"Histoire", []string{"histoire", "history"}},
	{"Biographie", []string{"biograph", "autobiograph"}},
	{"Fantastique", []string{"fantasy", "fantastique", "fantaisie"}},
	{"Policier", []string{"policier", "detective", "crime", "mystery", "thriller"}},
}

// MapCategory classifies a free-text category string into one of the known
// genres. Matching is case-insensitive with the usual smart quote folded to
// a plain apostrophe. When nothing matches directly and the input is a
// "A/B/C" path, each segment is classified in turn. Returns "" when no
// group matches; callers keep the existing value or fall back to GenreOther.
func MapCategory(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return ""
	}
	c = strings.ReplaceAll(c, "’", "'")

	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(c, kw) {
				return g.genre
			}
		}
	}

	if strings.Contains(c, "/") {
		for _, part := range strings.Split(c, "/") {
			if m := MapCategory(strings.TrimSpace(part)); m != "" {
				return m
			}
		}
	}
	return ""
}
