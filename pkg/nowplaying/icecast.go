package nowplaying

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

type icecastStatus struct {
	IceStats struct {
		// Source is an object on single-mount servers and an array otherwise.
		Source json.RawMessage `json:"source"`
	} `json:"icestats"`
}

type icecastSource struct {
	Title              upstream.String `json:"title"`
	YPCurrentlyPlaying upstream.String `json:"yp_currently_playing"`
	Genre              upstream.String `json:"genre"`
	Listeners          upstream.Int    `json:"listeners"`
	ListenURL          upstream.String `json:"listenurl"`
}

func parseIcecast(body upstream.Body, st station.Station) (*Track, error) {
	var status icecastStatus
	if err := body.Decode(&status); err != nil {
		return nil, err
	}

	src, err := selectIcecastSource(status.IceStats.Source, st.MountHint)
	if err != nil || src == nil {
		return nil, err
	}

	text := upstream.First(src.Title, src.YPCurrentlyPlaying)
	if text == "" {
		return nil, nil
	}

	artist, title, ok := splitSongTitle(text)
	if !ok {
		artist = UnknownArtist
	}

	return &Track{
		Title:     title,
		Artist:    artist,
		Album:     orDefault(src.Genre.String(), AlbumLiveStream),
		Listeners: src.Listeners.Ptr(),
	}, nil
}

// selectIcecastSource picks the mount whose listenurl contains mountHint. The
// first mount is used when nothing matches or no hint is configured.
func selectIcecastSource(raw json.RawMessage, mountHint string) (*icecastSource, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		var src icecastSource
		if err := json.Unmarshal(raw, &src); err != nil {
			return nil, err
		}
		return &src, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}

		sources := make([]icecastSource, len(items))
		for i, item := range items {
			// A malformed mount stays a zero value and can still be the
			// first-element fallback.
			_ = json.Unmarshal(item, &sources[i])
		}

		if mountHint != "" {
			for i := range sources {
				if strings.Contains(sources[i].ListenURL.String(), mountHint) {
					return &sources[i], nil
				}
			}
		}

		return &sources[0], nil
	}

	return nil, nil
}
