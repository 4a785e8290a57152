// Package nowplaying turns the status responses of heterogeneous radio
// servers into one normalized now-playing record.
package nowplaying

import (
	"strings"

	"github.com/zachfi/nowplaying/pkg/station"
)

// Placeholders used when an upstream leaves a field out.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"

	AlbumLiveStream = "Live Stream"
	AlbumTop40      = "Top 40"

	LiveBroadcast  = "Live Broadcast"
	SourceFallback = "fallback"
)

// Track is the normalized now-playing record.
type Track struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Artwork   string `json:"artwork,omitempty"`
	Listeners *int   `json:"listeners,omitempty"`

	// SourceFormat names the parser that produced the record.
	SourceFormat station.Format `json:"sourceFormat,omitempty"`

	// Source is "fallback" on placeholder records.
	Source string `json:"source,omitempty"`
}

// IsFallback reports whether t is the placeholder served when nothing is
// known about the current song.
func (t Track) IsFallback() bool {
	return t.Source == SourceFallback
}

// fallbackTrack is served when the upstream answered without usable data.
func fallbackTrack(st station.Station) Track {
	return Track{
		Title:  LiveBroadcast,
		Artist: st.Name(),
		Album:  AlbumLiveStream,
		Source: SourceFallback,
	}
}

// fillPlaceholders guarantees title, artist and album are never empty.
func (t *Track) fillPlaceholders() {
	t.Title = orDefault(t.Title, UnknownTitle)
	t.Artist = orDefault(t.Artist, UnknownArtist)
	t.Album = orDefault(t.Album, AlbumLiveStream)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
