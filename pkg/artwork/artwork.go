// Package artwork looks up album art for a track on the iTunes Search API.
// Lookups are best effort: every failure yields an empty URL.
package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zachfi/zkit/pkg/tracing"
)

const (
	DefaultSearchURL = "https://itunes.apple.com/search"
	DefaultTimeout   = 5 * time.Second

	lowRes  = "100x100"
	highRes = "600x600"
)

var (
	tracer = otel.Tracer("github.com/zachfi/nowplaying/pkg/artwork")

	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nowplaying",
		Name:      "artwork_lookups_total",
		Help:      "Artwork lookups by result.",
	}, []string{"result"})

	parenthesized = regexp.MustCompile(`\([^)]*\)`)

	// featuring markers, matched case-insensitively
	featuring = []string{"[+", "feat.", "ft."}
)

type Config struct {
	SearchURL string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type searchResponse struct {
	Results []struct {
		ArtistName    string `json:"artistName"`
		TrackName     string `json:"trackName"`
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// Lookup returns a high resolution artwork URL for the track, or "" when
// none could be found.
func (c *Client) Lookup(ctx context.Context, artist, title string) string {
	u, err := c.search(ctx, CleanArtist(artist), CleanTitle(title))
	if err != nil {
		lookups.WithLabelValues("error").Inc()
		c.logger.Debug("artwork lookup failed", "artist", artist, "title", title, "err", err)
		return ""
	}

	if u == "" {
		lookups.WithLabelValues("miss").Inc()
		return ""
	}

	lookups.WithLabelValues("hit").Inc()
	return u
}

func (c *Client) search(ctx context.Context, artist, title string) (art string, err error) {
	ctx, span := tracer.Start(ctx, "artwork.Search", trace.WithAttributes(
		attribute.String("artist", artist),
		attribute.String("title", title),
	))
	defer func() { _ = tracing.ErrHandler(span, err, "artwork search failed", nil) }()

	term := strings.TrimSpace(artist + " " + title)
	if term == "" {
		return "", nil
	}

	u, err := url.Parse(c.cfg.SearchURL)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}

	q := u.Query()
	q.Set("term", term)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", nil
	}

	match := result.Results[0]
	c.logger.Debug("artwork match", "artist", match.ArtistName, "track", match.TrackName)

	return Upscale(match.ArtworkURL100), nil
}

// CleanArtist drops featured artists: everything from the first "[+",
// "feat." or "ft." on, regardless of case.
func CleanArtist(artist string) string {
	cut := len(artist)
	for _, marker := range featuring {
		if i := indexASCIIFold(artist, marker); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(artist[:cut])
}

// indexASCIIFold is strings.Index with ASCII-only case folding. Byte offsets
// always refer to s itself, whatever else s contains.
func indexASCIIFold(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		match := true
		for j := 0; j < len(marker); j++ {
			if lowerASCII(s[i+j]) != lowerASCII(marker[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// CleanTitle removes parenthesized annotations such as "(Radio Edit)".
func CleanTitle(title string) string {
	return strings.Join(strings.Fields(parenthesized.ReplaceAllString(title, " ")), " ")
}

// Upscale swaps the 100x100 size token of an iTunes artwork URL for 600x600.
// Only the last token, the file name, is replaced.
func Upscale(u string) string {
	i := strings.LastIndex(u, lowRes)
	if i < 0 {
		return u
	}
	return u[:i] + highRes + u[i+len(lowRes):]
}
