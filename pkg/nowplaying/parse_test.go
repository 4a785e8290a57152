package nowplaying

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

func jsonBody(s string) upstream.Body {
	return upstream.Body{Data: json.RawMessage(s), Text: s, IsJSON: true}
}

func textBody(s string) upstream.Body {
	wrapped, _ := json.Marshal(map[string]string{"raw": s})
	return upstream.Body{Data: wrapped, Text: s}
}

func intPtr(i int) *int {
	return &i
}

var (
	icecastStation = station.Station{ID: "web3", Format: station.FormatIcecast, MountHint: "/stream", DisplayName: "Web3 Radio"}
	v2Station      = station.Station{ID: "prambors", Format: station.FormatShoutcastV2, DisplayName: "Prambors FM"}
	v1Station      = station.Station{ID: "genfm", Format: station.FormatShoutcast, DisplayName: "Gen FM"}
	zenoStation    = station.Station{ID: "lofi", Format: station.FormatZeno}
	jarStation     = station.Station{ID: "hardradio", Format: station.FormatRadioJar}
)

func TestSplitSongTitle(t *testing.T) {
	tests := []struct {
		in     string
		artist string
		title  string
		ok     bool
	}{
		{"Daft Punk - One More Time", "Daft Punk", "One More Time", true},
		{"A - B - C", "A", "B - C", true},
		{"  A  -  B  ", "A", "B", true},
		{"Spider-Man", "", "Spider-Man", false},
		{"Jay-Z - 99 Problems", "Jay-Z", "99 Problems", true},
		{"  JustATitle  ", "", "JustATitle", false},
		{"A-B -C", "", "A-B -C", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			artist, title, ok := splitSongTitle(tt.in)
			assert.Equal(t, tt.artist, artist)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseIcecast(t *testing.T) {
	tests := []struct {
		name    string
		station station.Station
		body    string
		want    *Track
	}{
		{
			name:    "single source",
			station: icecastStation,
			body:    `{"icestats":{"source":{"title":"Daft Punk - One More Time","genre":"Electronic","listeners":42}}}`,
			want:    &Track{Title: "One More Time", Artist: "Daft Punk", Album: "Electronic", Listeners: intPtr(42), SourceFormat: station.FormatIcecast},
		},
		{
			name:    "first separator wins",
			station: icecastStation,
			body:    `{"icestats":{"source":{"title":"A - B - C"}}}`,
			want:    &Track{Title: "B - C", Artist: "A", Album: AlbumLiveStream, SourceFormat: station.FormatIcecast},
		},
		{
			name:    "no separator",
			station: icecastStation,
			body:    `{"icestats":{"source":{"title":"  Spider-Man Theme "}}}`,
			want:    &Track{Title: "Spider-Man Theme", Artist: UnknownArtist, Album: AlbumLiveStream, SourceFormat: station.FormatIcecast},
		},
		{
			name:    "legacy yp field",
			station: icecastStation,
			body:    `{"icestats":{"source":{"yp_currently_playing":"Air - La Femme d'Argent","listeners":"7"}}}`,
			want:    &Track{Title: "La Femme d'Argent", Artist: "Air", Album: AlbumLiveStream, Listeners: intPtr(7), SourceFormat: station.FormatIcecast},
		},
		{
			name:    "mount hint selects source",
			station: icecastStation,
			body: `{"icestats":{"source":[
				{"listenurl":"http://host:8000/other","title":"Wrong - Mount"},
				{"listenurl":"http://host:8000/stream","title":"Right - Mount","listeners":3}
			]}}`,
			want: &Track{Title: "Mount", Artist: "Right", Album: AlbumLiveStream, Listeners: intPtr(3), SourceFormat: station.FormatIcecast},
		},
		{
			name:    "unmatched hint falls back to first",
			station: icecastStation,
			body: `{"icestats":{"source":[
				{"listenurl":"http://host:8000/a","title":"First - Mount"},
				{"listenurl":"http://host:8000/b","title":"Second - Mount"}
			]}}`,
			want: &Track{Title: "Mount", Artist: "First", Album: AlbumLiveStream, SourceFormat: station.FormatIcecast},
		},
		{
			name:    "no hint uses first",
			station: station.Station{ID: "x", Format: station.FormatIcecast},
			body:    `{"icestats":{"source":[{"listenurl":"/stream","title":"One - Two"},{"title":"Three - Four"}]}}`,
			want:    &Track{Title: "Two", Artist: "One", Album: AlbumLiveStream, SourceFormat: station.FormatIcecast},
		},
		{
			name:    "no source",
			station: icecastStation,
			body:    `{"icestats":{}}`,
		},
		{
			name:    "empty source list",
			station: icecastStation,
			body:    `{"icestats":{"source":[]}}`,
		},
		{
			name:    "source without title",
			station: icecastStation,
			body:    `{"icestats":{"source":{"genre":"Jazz"}}}`,
		},
		{
			name:    "null source",
			station: icecastStation,
			body:    `{"icestats":{"source":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(jsonBody(tt.body), tt.station)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShoutcastV2(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Track
	}{
		{
			name: "artist and title",
			body: `{"songtitle":"Tulus - Hati-Hati di Jalan","currentlisteners":12}`,
			want: &Track{Title: "Hati-Hati di Jalan", Artist: "Tulus", Album: AlbumTop40, Listeners: intPtr(12), SourceFormat: station.FormatShoutcastV2},
		},
		{
			name: "no separator uses display name",
			body: `{"songtitle":"JustATitleNoSeparator","currentlisteners":5}`,
			want: &Track{Title: "JustATitleNoSeparator", Artist: "Prambors FM", Album: AlbumTop40, Listeners: intPtr(5), SourceFormat: station.FormatShoutcastV2},
		},
		{
			name: "remainder stays in title",
			body: `{"songtitle":"A - B - C"}`,
			want: &Track{Title: "B - C", Artist: "A", Album: AlbumTop40, SourceFormat: station.FormatShoutcastV2},
		},
		{
			name: "empty song title",
			body: `{"songtitle":"","currentlisteners":5}`,
		},
		{
			name: "missing song title",
			body: `{"currentlisteners":5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(jsonBody(tt.body), v2Station)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShoutcast(t *testing.T) {
	got, err := Parse(textBody("Rick Astley - Never Gonna Give You Up\n"), v1Station)
	require.NoError(t, err)
	assert.Equal(t, &Track{Title: "Never Gonna Give You Up", Artist: "Rick Astley", Album: AlbumTop40, SourceFormat: station.FormatShoutcast}, got)

	got, err = Parse(textBody("Station ID Jingle"), v1Station)
	require.NoError(t, err)
	assert.Equal(t, &Track{Title: "Station ID Jingle", Artist: "Gen FM", Album: AlbumTop40, SourceFormat: station.FormatShoutcast}, got)

	got, err = Parse(textBody(""), v1Station)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseZeno(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Track
	}{
		{
			name: "all fields",
			body: `{"title":"Snowman","artist":"Sia","album":"Everyday Is Christmas","artwork":"https://img.example/sia.jpg"}`,
			want: &Track{Title: "Snowman", Artist: "Sia", Album: "Everyday Is Christmas", Artwork: "https://img.example/sia.jpg", SourceFormat: station.FormatZeno},
		},
		{
			name: "title only",
			body: `{"title":"Snowman"}`,
			want: &Track{Title: "Snowman", Artist: UnknownArtist, Album: AlbumLiveStream, SourceFormat: station.FormatZeno},
		},
		{
			name: "artist only",
			body: `{"artist":"Sia","album":null}`,
			want: &Track{Title: UnknownTitle, Artist: "Sia", Album: AlbumLiveStream, SourceFormat: station.FormatZeno},
		},
		{
			name: "no title or artist",
			body: `{"album":"Something","artwork":"https://img.example/a.jpg"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(jsonBody(tt.body), zenoStation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRadioJar(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Track
	}{
		{
			name: "title and image_url",
			body: `{"title":"Paranoid","name":"ignored","artist":"Black Sabbath","image_url":"https://img.example/p.jpg","artwork":"https://img.example/ignored.jpg"}`,
			want: &Track{Title: "Paranoid", Artist: "Black Sabbath", Album: AlbumLiveStream, Artwork: "https://img.example/p.jpg", SourceFormat: station.FormatRadioJar},
		},
		{
			name: "name and artwork variants",
			body: `{"name":"Paranoid","artist":"Black Sabbath","album":"Paranoid","artwork":"https://img.example/a.jpg"}`,
			want: &Track{Title: "Paranoid", Artist: "Black Sabbath", Album: "Paranoid", Artwork: "https://img.example/a.jpg", SourceFormat: station.FormatRadioJar},
		},
		{
			name: "empty title falls through to name",
			body: `{"title":"","name":"War Pigs"}`,
			want: &Track{Title: "War Pigs", Artist: UnknownArtist, Album: AlbumLiveStream, SourceFormat: station.FormatRadioJar},
		},
		{
			name: "nothing usable",
			body: `{"image_url":"https://img.example/p.jpg"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(jsonBody(tt.body), jarStation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse(jsonBody(`{}`), station.Station{ID: "x", Format: "hls"})
	assert.Error(t, err)
}

func TestParseIsIdempotent(t *testing.T) {
	cases := []struct {
		st   station.Station
		body upstream.Body
	}{
		{icecastStation, jsonBody(`{"icestats":{"source":{"title":"A - B","listeners":1}}}`)},
		{v2Station, jsonBody(`{"songtitle":"A - B","currentlisteners":2}`)},
		{v1Station, textBody("A - B")},
		{zenoStation, jsonBody(`{"title":"B","artist":"A"}`)},
		{jarStation, jsonBody(`{"name":"B","artist":"A"}`)},
	}

	for _, c := range cases {
		t.Run(c.st.Format.String(), func(t *testing.T) {
			first, err := Parse(c.body, c.st)
			require.NoError(t, err)
			second, err := Parse(c.body, c.st)
			require.NoError(t, err)

			a, _ := json.Marshal(first)
			b, _ := json.Marshal(second)
			assert.Equal(t, a, b)
		})
	}
}

// Malformed and partial payloads either produce no track, an error, or a
// track with a real title and artist.
func TestParseNeverEmpty(t *testing.T) {
	fixtures := []upstream.Body{
		jsonBody(`{}`),
		jsonBody(`[]`),
		jsonBody(`null`),
		jsonBody(`"just a string"`),
		jsonBody(`42`),
		jsonBody(`{"icestats":"down"}`),
		jsonBody(`{"icestats":{"source":"x"}}`),
		jsonBody(`{"icestats":{"source":[1,"two",null]}}`),
		jsonBody(`{"icestats":{"source":{"title":" - "}}}`),
		jsonBody(`{"icestats":{"source":{"title":"   "}}}`),
		jsonBody(`{"songtitle":" - "}`),
		jsonBody(`{"songtitle":{"nested":true},"currentlisteners":"lots"}`),
		jsonBody(`{"title":"  ","artist":"\t"}`),
		jsonBody(`{"title":123,"artist":false}`),
		jsonBody(`{"name":[],"artist":{}}`),
		textBody(""),
		textBody(" - "),
		textBody("<html><body>down</body></html>"),
		{},
	}

	stations := []station.Station{icecastStation, v2Station, v1Station, zenoStation, jarStation}

	for _, st := range stations {
		for i, body := range fixtures {
			got, err := Parse(body, st)
			if err != nil || got == nil {
				continue
			}
			assert.NotEmpty(t, got.Title, "%s fixture %d", st.Format, i)
			assert.NotEmpty(t, got.Artist, "%s fixture %d", st.Format, i)
			assert.NotEmpty(t, got.Album, "%s fixture %d", st.Format, i)
		}
	}
}
