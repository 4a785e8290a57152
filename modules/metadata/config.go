package metadata

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"

	"github.com/zachfi/nowplaying/pkg/artwork"
	"github.com/zachfi/nowplaying/pkg/upstream"
)

type Config struct {
	// StationsFile is a YAML station table. The built-in table is used when
	// empty.
	StationsFile string        `yaml:"stations-file,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`    // applies to every upstream status request
	UserAgent    string        `yaml:"user-agent,omitempty"` // sent upstream; several platforms reject non-browser agents
	Artwork      ArtworkConfig `yaml:"artwork,omitempty"`
}

type ArtworkConfig struct {
	Enabled   bool          `yaml:"enabled"`
	SearchURL string        `yaml:"search-url,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.StationsFile, util.PrefixConfig(prefix, "stations-file"), "", "YAML file with the station table. Uses the built-in stations when empty.")
	f.DurationVar(&cfg.Timeout, util.PrefixConfig(prefix, "timeout"), upstream.DefaultTimeout, "Timeout for each upstream status request.")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), upstream.DefaultUserAgent, "User-Agent sent to upstream status endpoints.")

	cfg.Artwork.RegisterFlagsAndApplyDefaults(util.PrefixConfig(prefix, "artwork"), f)
}

func (cfg *ArtworkConfig) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.BoolVar(&cfg.Enabled, util.PrefixConfig(prefix, "enabled"), true, "Look up album artwork for tracks the upstream reports without one.")
	f.StringVar(&cfg.SearchURL, util.PrefixConfig(prefix, "search-url"), artwork.DefaultSearchURL, "iTunes compatible search endpoint used for artwork lookups.")
	f.DurationVar(&cfg.Timeout, util.PrefixConfig(prefix, "timeout"), artwork.DefaultTimeout, "Timeout for each artwork search request.")
}
