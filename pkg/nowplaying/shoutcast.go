package nowplaying

import (
	"github.com/zachfi/nowplaying/pkg/shoutcast"
	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

func parseShoutcastV2(body upstream.Body, st station.Station) (*Track, error) {
	stats, err := shoutcast.DecodeStats(body)
	if err != nil {
		return nil, err
	}

	t := shoutcastTrack(stats.SongTitle.String(), st)
	if t != nil {
		t.Listeners = stats.CurrentListeners.Ptr()
	}

	return t, nil
}

func parseShoutcast(body upstream.Body, st station.Station) (*Track, error) {
	return shoutcastTrack(shoutcast.CurrentSong(body), st), nil
}

// shoutcastTrack splits a SHOUTcast song title. Without a separator the
// station itself stands in for the artist.
func shoutcastTrack(song string, st station.Station) *Track {
	if song == "" {
		return nil
	}

	artist, title, ok := splitSongTitle(song)
	if !ok || artist == "" {
		artist = st.Name()
	}

	return &Track{
		Title:  title,
		Artist: artist,
		Album:  AlbumTop40,
	}
}
