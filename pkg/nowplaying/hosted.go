package nowplaying

import (
	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

// Hosted platforms already report structured fields, so nothing is split.

type zenoPayload struct {
	Title   upstream.String `json:"title"`
	Artist  upstream.String `json:"artist"`
	Album   upstream.String `json:"album"`
	Artwork upstream.String `json:"artwork"`
}

func parseZeno(body upstream.Body, _ station.Station) (*Track, error) {
	var p zenoPayload
	if err := body.Decode(&p); err != nil {
		return nil, err
	}

	return structuredTrack(p.Title.String(), p.Artist.String(), p.Album.String(), p.Artwork.String()), nil
}

type radioJarPayload struct {
	Title    upstream.String `json:"title"`
	Name     upstream.String `json:"name"`
	Artist   upstream.String `json:"artist"`
	Album    upstream.String `json:"album"`
	ImageURL upstream.String `json:"image_url"`
	Artwork  upstream.String `json:"artwork"`
}

func parseRadioJar(body upstream.Body, _ station.Station) (*Track, error) {
	var p radioJarPayload
	if err := body.Decode(&p); err != nil {
		return nil, err
	}

	return structuredTrack(
		upstream.First(p.Title, p.Name),
		p.Artist.String(),
		p.Album.String(),
		upstream.First(p.ImageURL, p.Artwork),
	), nil
}

// structuredTrack returns nil only when both title and artist are missing.
func structuredTrack(title, artist, album, artwork string) *Track {
	if title == "" && artist == "" {
		return nil
	}

	return &Track{
		Title:   orDefault(title, UnknownTitle),
		Artist:  orDefault(artist, UnknownArtist),
		Album:   orDefault(album, AlbumLiveStream),
		Artwork: artwork,
	}
}
