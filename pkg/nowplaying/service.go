package nowplaying

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zachfi/zkit/pkg/tracing"

	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

// timestampFormat matches JavaScript's Date.toISOString.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

var tracer = otel.Tracer("github.com/zachfi/nowplaying/pkg/nowplaying")

// Fetcher retrieves an upstream status body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (upstream.Body, error)
}

// ArtworkFinder returns an artwork URL for a track, or "" when none is found.
type ArtworkFinder interface {
	Lookup(ctx context.Context, artist, title string) string
}

// Response is the now-playing answer for one station.
type Response struct {
	Station    string `json:"station"`
	NowPlaying Track  `json:"nowPlaying"`
	Timestamp  string `json:"timestamp"`
}

// UpstreamError reports that the station's status endpoint could not be
// fetched.
type UpstreamError struct {
	Station string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Service resolves now-playing records. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	registry *station.Registry
	fetcher  Fetcher
	artwork  ArtworkFinder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService returns a Service. artwork may be nil to disable enrichment.
func NewService(registry *station.Registry, fetcher Fetcher, artwork ArtworkFinder, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		fetcher:  fetcher,
		artwork:  artwork,
		logger:   logger,
		now:      time.Now,
	}
}

// Stations lists every station id in the registry.
func (s *Service) Stations() []string {
	return s.registry.IDs()
}

// NowPlaying resolves what station id is playing. Unknown ids return a
// *station.NotFoundError and unreachable upstreams an *UpstreamError. An
// upstream that answers without usable data yields the fallback record, not
// an error.
func (s *Service) NowPlaying(ctx context.Context, id string) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "nowplaying.NowPlaying", trace.WithAttributes(attribute.String("station", id)))
	defer func() { _ = tracing.ErrHandler(span, err, "now playing failed", nil) }()

	st, err := s.registry.Lookup(id)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("format", st.Format.String()))

	body, err := s.fetcher.Fetch(ctx, st.MetadataURL)
	if err != nil {
		return nil, &UpstreamError{Station: st.ID, Err: err}
	}

	track, err := Parse(body, st)
	switch {
	case err != nil:
		s.logger.Warn("failed to parse upstream metadata", "station", st.ID, "format", st.Format, "err", err)
		return s.respond(st, fallbackTrack(st)), nil
	case track == nil:
		s.logger.Debug("upstream has no now-playing data", "station", st.ID, "format", st.Format)
		return s.respond(st, fallbackTrack(st)), nil
	}

	if s.wantsArtwork(*track, st) {
		track.Artwork = s.artwork.Lookup(ctx, track.Artist, track.Title)
	}

	return s.respond(st, *track), nil
}

// wantsArtwork is true when t has no artwork and both artist and title are
// real values rather than placeholders.
func (s *Service) wantsArtwork(t Track, st station.Station) bool {
	if s.artwork == nil || t.Artwork != "" {
		return false
	}

	switch {
	case t.Title == "" || t.Title == UnknownTitle:
		return false
	case t.Artist == "" || t.Artist == UnknownArtist || t.Artist == st.Name():
		return false
	}

	return true
}

func (s *Service) respond(st station.Station, t Track) *Response {
	return &Response{
		Station:    st.ID,
		NowPlaying: t,
		Timestamp:  s.now().UTC().Format(timestampFormat),
	}
}

// Describe is a one-line summary of a station for logs.
func Describe(st station.Station) string {
	return fmt.Sprintf("%s (%s, %s)", st.ID, st.Format, st.MetadataURL)
}
