package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host
)

// ZoneFinder looks up the IANA timezone enclosing a coordinate.
type ZoneFinder interface {
	// TimezoneName returns the zone name, an empty name when no zone
	// matches, or ErrInvalidCoordinates for out-of-range input.
	TimezoneName(lat, lon float64) (string, error)
}

// ZoneStatus classifies a timezone lookup.
type ZoneStatus int

const (
	// ZoneResolved means a zone name was found.
	ZoneResolved ZoneStatus = iota
	// ZoneUnresolvable means the site has no usable coordinates or no zone matches them.
	ZoneUnresolvable
	// ZoneResolverFailed means the finder itself errored.
	ZoneResolverFailed
)

func (s ZoneStatus) String() string {
	switch s {
	case ZoneResolved:
		return "resolved"
	case ZoneUnresolvable:
		return "unresolvable"
	default:
		return "resolver_failed"
	}
}

// ZoneOutcome is the result of resolving a site's timezone and offset.
// Offset is only meaningful when OffsetErr is nil.
type ZoneOutcome struct {
	Status    ZoneStatus
	Zone      string
	Offset    float64
	Err       error
	OffsetErr error
}

// TimezoneResolver infers a site's timezone and standard-time UTC offset.
type TimezoneResolver struct {
	finder ZoneFinder
}

// NewTimezoneResolver creates a resolver backed by finder.
func NewTimezoneResolver(finder ZoneFinder) *TimezoneResolver {
	return &TimezoneResolver{finder: finder}
}

// Resolve looks up the zone for lat/lon and its standard offset at ref.
// It never panics or returns an error; failures are reported in the outcome.
func (r *TimezoneResolver) Resolve(lat, lon *float64, ref time.Time) ZoneOutcome {
	if lat == nil || lon == nil {
		return ZoneOutcome{Status: ZoneUnresolvable, Err: ErrMissingData}
	}
	name, err := r.finder.TimezoneName(*lat, *lon)
	switch {
	case errors.Is(err, ErrInvalidCoordinates):
		return ZoneOutcome{Status: ZoneUnresolvable, Err: err}
	case err != nil:
		return ZoneOutcome{Status: ZoneResolverFailed, Err: err}
	case name == "":
		return ZoneOutcome{Status: ZoneUnresolvable, Err: fmt.Errorf("no zone at %.4f,%.4f: %w", *lat, *lon, ErrNotFound)}
	}
	out := ZoneOutcome{Status: ZoneResolved, Zone: name}
	out.Offset, out.OffsetErr = StandardOffset(name, ref)
	return out
}

// StandardOffset returns the UTC offset of zone at ref in hours with any
// daylight saving shift removed.
func StandardOffset(zone string, ref time.Time) (float64, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, fmt.Errorf("load location %q: %w", zone, err)
	}
	local := ref.In(loc)
	if !local.IsDST() {
		_, off := local.Zone()
		return float64(off) / 3600, nil
	}
	// Probe the solstice months of the same year for an instant on standard time.
	for _, month := range []time.Month{time.January, time.July} {
		probe := time.Date(local.Year(), month, 1, 12, 0, 0, 0, loc)
		if !probe.IsDST() {
			_, off := probe.Zone()
			return float64(off) / 3600, nil
		}
	}
	_, off := local.Zone()
	return float64(off) / 3600, nil
}

// EnrichWithTimezone sets TimeZone and UTCOffset on site from the outcome of
// resolving its coordinates at ref. Failures leave both nil (graceful
// degradation) so one bad site does not abort the build.
func EnrichWithTimezone(site Site, resolver *TimezoneResolver, ref time.Time, logger *slog.Logger) (Site, ZoneOutcome) {
	site.TimeZone = nil
	site.UTCOffset = nil

	out := resolver.Resolve(site.Latitude, site.Longitude, ref)
	if out.Status != ZoneResolved {
		logger.Warn("timezone lookup failed",
			"site", site.Name,
			"status", out.Status.String(),
			"error", out.Err,
		)
		return site, out
	}

	zone := out.Zone
	site.TimeZone = &zone
	if out.OffsetErr != nil {
		logger.Warn("utc offset lookup failed",
			"site", site.Name,
			"time_zone", zone,
			"error", out.OffsetErr,
		)
		return site, out
	}
	offset := out.Offset
	site.UTCOffset = &offset
	return site, out
}
