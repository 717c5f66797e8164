// Package tzlookup resolves coordinates to IANA timezone names from the
// timezone boundary polygons embedded by tzf.
package tzlookup

import (
	"fmt"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/ringsaturn/tzf"
)

// polygonFinder is the subset of tzf.F used here. Note the longitude-first
// argument order.
type polygonFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// Finder implements domain.ZoneFinder.
type Finder struct {
	finder polygonFinder
}

// New loads the default tzf polygon set. Loading takes a noticeable amount
// of time and memory, so build one Finder per process.
func New() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load timezone polygons: %w", err)
	}
	return &Finder{finder: f}, nil
}

// TimezoneName returns the zone enclosing (lat, lon), or "" when none does.
func (f *Finder) TimezoneName(lat, lon float64) (string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", fmt.Errorf("lat=%v lon=%v: %w", lat, lon, domain.ErrInvalidCoordinates)
	}
	return f.finder.GetTimezoneName(lon, lat), nil
}
