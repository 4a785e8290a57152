// Package upstream fetches radio server status endpoints and decodes their
// bodies, tolerating servers that mislabel or omit the content type.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
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
	DefaultTimeout = 5 * time.Second

	// DefaultUserAgent mimics a desktop browser. Several hosted radio
	// platforms refuse library or bot user agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxBodySize = 1 << 20
)

var (
	tracer = otel.Tracer("github.com/zachfi/nowplaying/pkg/upstream")

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nowplaying",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Time spent fetching upstream status endpoints.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status_code"})
)

// Body is a decoded upstream response.
type Body struct {
	// Data is the JSON document. Bodies that are not JSON are wrapped as
	// {"raw": "<text>"}.
	Data json.RawMessage

	// Text is the response body as received.
	Text string

	// IsJSON reports whether the body itself parsed as JSON.
	IsJSON bool
}

// Decode unmarshals Data into v.
func (b Body) Decode(v any) error {
	if len(b.Data) == 0 {
		return fmt.Errorf("empty body")
	}
	return json.Unmarshal(b.Data, v)
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d %s", e.Code, e.Reason)
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Fetcher issues a single GET per call. It never retries.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch retrieves url and decodes the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (body Body, err error) {
	ctx, span := tracer.Start(ctx, "upstream.Fetch", trace.WithAttributes(attribute.String("url", url)))
	defer func() { _ = tracing.ErrHandler(span, err, "upstream fetch failed", nil) }()

	start := time.Now()
	statusCode := "error"
	defer func() {
		fetchDuration.WithLabelValues(statusCode).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Body{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return Body{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	statusCode = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Body{}, &StatusError{Code: resp.StatusCode, Reason: reason(resp)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Body{}, fmt.Errorf("read body: %w", err)
	}

	body, err = decode(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		return Body{}, err
	}

	f.logger.Debug("fetched upstream", "url", url, "status", resp.StatusCode, "json", body.IsJSON, "bytes", len(raw))

	return body, nil
}

// decode applies the content negotiation policy: a JSON content type must
// carry JSON, anything else is tried as JSON and otherwise kept as text.
func decode(contentType string, raw []byte) (Body, error) {
	text := string(raw)
	trimmed := bytes.TrimSpace(raw)

	if strings.Contains(strings.ToLower(contentType), "application/json") {
		if !json.Valid(trimmed) {
			return Body{}, fmt.Errorf("parse json: invalid JSON body with content type %q", contentType)
		}
		return Body{Data: json.RawMessage(trimmed), Text: text, IsJSON: true}, nil
	}

	if len(trimmed) > 0 && json.Valid(trimmed) {
		return Body{Data: json.RawMessage(trimmed), Text: text, IsJSON: true}, nil
	}

	wrapped, err := json.Marshal(map[string]string{"raw": text})
	if err != nil {
		return Body{}, fmt.Errorf("wrap text body: %w", err)
	}

	return Body{Data: wrapped, Text: text}, nil
}

func reason(resp *http.Response) string {
	// resp.Status is "503 Service Unavailable"; keep only the phrase.
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
