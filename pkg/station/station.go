// Package station holds the read-only table of radio stations whose
// now-playing metadata can be resolved, and the upstream format each one
// speaks.
package station

import (
	"fmt"
	"net/url"
	"strings"
)

// Format names the schema an upstream status endpoint answers with.
type Format string

const (
	FormatIcecast     Format = "icecast"
	FormatShoutcast   Format = "shoutcast"
	FormatShoutcastV2 Format = "shoutcast-v2"
	FormatZeno        Format = "zeno"
	FormatRadioJar    Format = "radiojar"
)

// Formats lists every supported format.
var Formats = []Format{FormatIcecast, FormatShoutcast, FormatShoutcastV2, FormatZeno, FormatRadioJar}

func (f Format) IsValid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

func (f Format) String() string {
	return string(f)
}

// UnmarshalYAML rejects unknown format names at load time.
func (f *Format) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	v := Format(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return fmt.Errorf("unknown station format %q", s)
	}

	*f = v
	return nil
}

// Station describes one upstream status endpoint.
type Station struct {
	ID          string `yaml:"id"`
	Format      Format `yaml:"format"`
	MetadataURL string `yaml:"metadata_url"`

	// MountHint picks a mount on multi-mount icecast servers. Other formats
	// ignore it.
	MountHint string `yaml:"mount_hint,omitempty"`

	// DisplayName is shown when nothing better is known about what is playing.
	DisplayName string `yaml:"display_name,omitempty"`
}

// Name returns the display name, or the id when no display name is set.
func (s Station) Name() string {
	if n := strings.TrimSpace(s.DisplayName); n != "" {
		return n
	}
	return s.ID
}

func (s Station) validate() error {
	if s.ID == "" {
		return fmt.Errorf("station id is required")
	}

	if !s.Format.IsValid() {
		return fmt.Errorf("station %q: unknown format %q", s.ID, s.Format)
	}

	u, err := url.Parse(s.MetadataURL)
	if err != nil {
		return fmt.Errorf("station %q: invalid metadata url: %w", s.ID, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("station %q: metadata url %q is not absolute", s.ID, s.MetadataURL)
	}

	return nil
}
