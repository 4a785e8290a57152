package nowplaying

import (
	"fmt"

	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

// Parser maps an upstream body to a Track. A nil Track with a nil error
// means the upstream answered but had nothing usable.
type Parser func(body upstream.Body, st station.Station) (*Track, error)

var parsers = map[station.Format]Parser{
	station.FormatIcecast:     parseIcecast,
	station.FormatShoutcast:   parseShoutcast,
	station.FormatShoutcastV2: parseShoutcastV2,
	station.FormatZeno:        parseZeno,
	station.FormatRadioJar:    parseRadioJar,
}

// Parse dispatches body to the parser for st.Format. Panics inside a parser
// are returned as errors.
func Parse(body upstream.Body, st station.Station) (track *Track, err error) {
	p, ok := parsers[st.Format]
	if !ok {
		return nil, fmt.Errorf("no parser for format %q", st.Format)
	}

	defer func() {
		if r := recover(); r != nil {
			track = nil
			err = fmt.Errorf("%s parser panicked: %v", st.Format, r)
		}
	}()

	track, err = p(body, st)
	if err != nil || track == nil {
		return nil, err
	}

	track.fillPlaceholders()
	track.SourceFormat = st.Format

	return track, nil
}
