package metadata

import (
	"context"
	"log/slog"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/zachfi/nowplaying/pkg/artwork"
	"github.com/zachfi/nowplaying/pkg/nowplaying"
	"github.com/zachfi/nowplaying/pkg/station"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

// Metadata serves normalized now-playing records for the configured stations.
type Metadata struct {
	services.Service
	cfg      *Config
	logger   *slog.Logger
	registry *station.Registry
	np       *nowplaying.Service
}

var module = "metadata"

// New creates and returns a new Metadata module.
func New(cfg Config, logger slog.Logger) (*Metadata, error) {
	m := &Metadata{
		cfg:    &cfg,
		logger: logger.With("module", module),
	}

	stations := station.Defaults()
	if cfg.StationsFile != "" {
		var err error
		stations, err = station.LoadFile(cfg.StationsFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load stations")
		}
	}

	registry, err := station.NewRegistry(stations)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station table")
	}
	m.registry = registry

	fetcher := upstream.New(upstream.Config{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	}, m.logger)

	var finder nowplaying.ArtworkFinder
	if cfg.Artwork.Enabled {
		finder = artwork.New(artwork.Config{
			SearchURL: cfg.Artwork.SearchURL,
			Timeout:   cfg.Artwork.Timeout,
			UserAgent: cfg.UserAgent,
		}, m.logger)
	}

	m.np = nowplaying.NewService(registry, fetcher, finder, m.logger)
	m.Service = services.NewBasicService(m.starting, m.running, m.stopping)

	return m, nil
}

func (m *Metadata) starting(_ context.Context) error {
	for _, id := range m.registry.IDs() {
		st, _ := m.registry.Lookup(id)
		m.logger.Debug("station registered", "station", nowplaying.Describe(st))
	}

	m.logger.Info("serving now playing metadata", "stations", m.registry.Len(), "artwork", m.cfg.Artwork.Enabled)
	return nil
}

func (m *Metadata) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (m *Metadata) stopping(_ error) error {
	m.logger.Info("stopping")
	return nil
}
