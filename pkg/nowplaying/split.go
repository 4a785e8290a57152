package nowplaying

import "strings"

// separator divides "ARTIST - TITLE". Hyphens without surrounding spaces, as
// in "Spider-Man", are part of the text.
const separator = " - "

// splitSongTitle divides s at the first separator. Everything after it,
// further separators included, is the title. When s has no separator, ok is
// false and title is the trimmed input.
func splitSongTitle(s string) (artist, title string, ok bool) {
	s = strings.TrimSpace(s)

	artist, title, ok = strings.Cut(s, separator)
	if !ok {
		return "", s, false
	}

	return strings.TrimSpace(artist), strings.TrimSpace(title), true
}
