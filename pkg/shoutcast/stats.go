package shoutcast

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/zachfi/nowplaying/pkg/upstream"
)

// Stats is the subset of the v2 JSON stats document that describes what is
// on air.
type Stats struct {
	SongTitle        upstream.String `json:"songtitle"`
	CurrentListeners upstream.Int    `json:"currentlisteners"`
}

// DecodeStats reads a v2 stats body.
func DecodeStats(body upstream.Body) (Stats, error) {
	var s Stats
	if err := body.Decode(&s); err != nil {
		return Stats{}, err
	}

	s.SongTitle = upstream.String(html.UnescapeString(s.SongTitle.String()))
	return s, nil
}

// CurrentSong returns the song title from a v1 currentsong body. A body that
// happens to be a JSON string literal is unquoted first.
func CurrentSong(body upstream.Body) string {
	text := body.Text
	if body.IsJSON {
		var s string
		if err := json.Unmarshal(body.Data, &s); err == nil {
			text = s
		}
	}

	return strings.TrimSpace(html.UnescapeString(text))
}
