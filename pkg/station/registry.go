package station

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// NotFoundError is returned by Lookup for an unknown id. Available carries
// every known id so callers can correct the request.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown station %q (available: %s)", e.ID, strings.Join(e.Available, ", "))
}

// Registry is an immutable id to Station table.
type Registry struct {
	ids      []string
	stations map[string]Station
}

// NewRegistry validates stations and indexes them by id. Ids are case
// sensitive.
func NewRegistry(stations []Station) (*Registry, error) {
	r := &Registry{
		ids:      make([]string, 0, len(stations)),
		stations: make(map[string]Station, len(stations)),
	}

	for _, s := range stations {
		if err := s.validate(); err != nil {
			return nil, err
		}

		if _, ok := r.stations[s.ID]; ok {
			return nil, fmt.Errorf("duplicate station id %q", s.ID)
		}

		r.ids = append(r.ids, s.ID)
		r.stations[s.ID] = s
	}

	return r, nil
}

// Lookup returns the station registered under id.
func (r *Registry) Lookup(id string) (Station, error) {
	s, ok := r.stations[id]
	if !ok {
		return Station{}, &NotFoundError{ID: id, Available: r.IDs()}
	}
	return s, nil
}

// IDs returns every registered id in definition order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *Registry) Len() int {
	return len(r.ids)
}

type file struct {
	Stations []Station `yaml:"stations"`
}

// LoadFile reads a YAML stations file of the form:
//
//	stations:
//	  - id: web3
//	    format: icecast
//	    metadata_url: https://example.org/status-json.xsl
//	    mount_hint: /stream
//	    display_name: Web3 Radio
func LoadFile(filename string) ([]Station, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var f file
	if err := yaml.UnmarshalStrict(buf, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stations file %s: %w", filename, err)
	}

	if len(f.Stations) == 0 {
		return nil, fmt.Errorf("stations file %s defines no stations", filename)
	}

	return f.Stations, nil
}
