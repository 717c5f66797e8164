package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// DefaultElevation is substituted for a missing site elevation, in metres.
const DefaultElevation = 100.0

// searchDays bounds the number of UTC days either side of the reference
// instant that are searched for an event.
const searchDays = 2

// EventKind selects sunrise or sunset.
type EventKind string

const (
	Sunrise EventKind = "sunrise"
	Sunset  EventKind = "sunset"
)

// Direction selects the event before or after the reference instant.
type Direction string

const (
	Previous Direction = "previous"
	Next     Direction = "next"
)

// ReferenceFrame states how the wall clock of a reference time is read.
type ReferenceFrame int

const (
	// FrameAbsolute uses the reference time as the instant it denotes.
	FrameAbsolute ReferenceFrame = iota
	// FrameLocal reads the reference wall clock as the site's local standard
	// time, whatever location the time value carries.
	FrameLocal
)

// ErrNoSolarEvent reports that the sun does not rise or set near the reference time.
var ErrNoSolarEvent = errors.New("no solar event")

// SolarQuery describes a sunrise/sunset request against a site.
type SolarQuery struct {
	Kind      EventKind
	Direction Direction
	Reference time.Time
	Frame     ReferenceFrame
	WantUTC   bool
	// DefaultElevation replaces a missing site elevation; nil means
	// the package DefaultElevation.
	DefaultElevation *float64
}

// ComputeSolarEvent returns the next or previous sunrise or sunset at site
// relative to ref.
//
// ref is an absolute instant. With wantUTC the event is returned in UTC.
// Otherwise it is returned in a fixed zone at the site's standard UTC
// offset, so its wall clock reads the UTC wall clock plus UTCOffset hours.
// Callers holding a local wall-clock time must attach the site offset to it
// (or use SolarQuery with FrameLocal); a local wall clock labelled UTC shifts
// the search by the offset and can select the wrong day's event.
//
// A missing elevation is replaced by defaultElevation for this computation only.
func ComputeSolarEvent(site Site, ref time.Time, kind EventKind, dir Direction, wantUTC bool, defaultElevation float64, logger *slog.Logger) (time.Time, error) {
	if kind != Sunrise && kind != Sunset {
		return time.Time{}, fmt.Errorf("event kind must be either sunrise or sunset, got %q: %w", kind, ErrInvalidArgument)
	}
	if dir != Previous && dir != Next {
		return time.Time{}, fmt.Errorf("direction must be either previous or next, got %q: %w", dir, ErrInvalidArgument)
	}
	if site.Latitude == nil {
		return time.Time{}, fmt.Errorf("site %q latitude is empty: %w", site.Name, ErrMissingData)
	}
	if site.Longitude == nil {
		return time.Time{}, fmt.Errorf("site %q longitude is empty: %w", site.Name, ErrMissingData)
	}
	if !wantUTC && site.UTCOffset == nil {
		return time.Time{}, fmt.Errorf("site %q utc offset is empty: %w", site.Name, ErrMissingData)
	}

	elevation := defaultElevation
	if site.Elevation != nil {
		elevation = *site.Elevation
	} else {
		logger.Warn("site elevation is empty, using default",
			"site", site.Name,
			"default_elevation", defaultElevation,
		)
	}

	observer := astral.Observer{
		Latitude:  *site.Latitude,
		Longitude: *site.Longitude,
		Elevation: elevation,
	}

	event, err := searchEvent(observer, ref.UTC(), kind, dir)
	if err != nil {
		return time.Time{}, fmt.Errorf("site %q %s %s: %w", site.Name, dir, kind, err)
	}
	if wantUTC {
		return event, nil
	}
	return event.In(standardZone(*site.UTCOffset)), nil
}

// ComputeSolarQuery is ComputeSolarEvent with an explicit reference frame.
func ComputeSolarQuery(site Site, q SolarQuery, logger *slog.Logger) (time.Time, error) {
	ref := q.Reference
	if q.Frame == FrameLocal {
		if site.UTCOffset == nil {
			return time.Time{}, fmt.Errorf("site %q utc offset is empty: %w", site.Name, ErrMissingData)
		}
		ref = time.Date(ref.Year(), ref.Month(), ref.Day(), ref.Hour(), ref.Minute(),
			ref.Second(), ref.Nanosecond(), standardZone(*site.UTCOffset))
	}
	elevation := DefaultElevation
	if q.DefaultElevation != nil {
		elevation = *q.DefaultElevation
	}
	return ComputeSolarEvent(site, ref, q.Kind, q.Direction, q.WantUTC, elevation, logger)
}

// searchEvent computes candidate events on the UTC days around ref and
// picks the closest one strictly after (Next) or before (Previous) it.
func searchEvent(observer astral.Observer, ref time.Time, kind EventKind, dir Direction) (time.Time, error) {
	calc := astral.Sunrise
	if kind == Sunset {
		calc = astral.Sunset
	}

	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	var (
		best    time.Time
		found   bool
		lastErr error
	)
	for offset := -searchDays; offset <= searchDays; offset++ {
		candidate, err := calc(observer, day.AddDate(0, 0, offset))
		if err != nil {
			lastErr = err
			continue
		}
		candidate = candidate.UTC()
		switch dir {
		case Next:
			if candidate.After(ref) && (!found || candidate.Before(best)) {
				best, found = candidate, true
			}
		case Previous:
			if candidate.Before(ref) && (!found || candidate.After(best)) {
				best, found = candidate, true
			}
		}
	}
	if found {
		return best, nil
	}
	if lastErr != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNoSolarEvent, lastErr)
	}
	return time.Time{}, ErrNoSolarEvent
}

// standardZone returns a fixed zone for a standard offset in hours.
func standardZone(hours float64) *time.Location {
	seconds := int(math.Round(hours * 3600))
	sign := "+"
	if seconds < 0 {
		sign = "-"
	}
	abs := seconds
	if abs < 0 {
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}
