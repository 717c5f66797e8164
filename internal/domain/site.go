package domain

import (
	"fmt"
	"sort"
)

// Column names shared by both sources and the exporter.
const (
	ColName               = "name"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColElevation          = "elevation"
	ColTimeZone           = "time_zone"
	ColUTCOffset          = "UTC_offset"
	ColDateCommissioned   = "date_commissioned"
	ColDateDecommissioned = "date_decommissioned"
	ColIsDecommissioned   = "is_decommissioned"
)

// DefaultExportColumns is the column subset exported when none is requested.
var DefaultExportColumns = []string{
	ColLatitude, ColLongitude, ColElevation, ColTimeZone, ColUTCOffset,
	ColDateCommissioned, ColDateDecommissioned, ColIsDecommissioned,
}

// coreKinds fixes the decoding of the fields that map onto typed Site
// fields, whatever the source schema says.
var coreKinds = FieldSchema{
	ColLatitude:           KindNumber,
	ColLongitude:          KindNumber,
	ColElevation:          KindNumber,
	ColDateCommissioned:   KindDate,
	ColDateDecommissioned: KindDate,
	ColIsDecommissioned:   KindFlag,
}

// Site is the normalized metadata record of one flux tower.
type Site struct {
	Name               string           `json:"name"`
	Latitude           *float64         `json:"latitude"`
	Longitude          *float64         `json:"longitude"`
	Elevation          *float64         `json:"elevation"`
	TimeZone           *string          `json:"time_zone"`
	UTCOffset          *float64         `json:"UTC_offset"`
	DateCommissioned   *Date            `json:"date_commissioned"`
	DateDecommissioned *Date            `json:"date_decommissioned"`
	IsDecommissioned   bool             `json:"is_decommissioned"`
	Extra              map[string]Value `json:"extra,omitempty"`
}

// HasLocation reports whether both coordinates are present.
func (s Site) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Column returns the export value of a column, nil when absent.
func (s Site) Column(col string) any {
	switch col {
	case ColLatitude:
		return floatAny(s.Latitude)
	case ColLongitude:
		return floatAny(s.Longitude)
	case ColElevation:
		return floatAny(s.Elevation)
	case ColTimeZone:
		if s.TimeZone == nil {
			return nil
		}
		return *s.TimeZone
	case ColUTCOffset:
		return floatAny(s.UTCOffset)
	case ColDateCommissioned:
		return dateAny(s.DateCommissioned)
	case ColDateDecommissioned:
		return dateAny(s.DateDecommissioned)
	case ColIsDecommissioned:
		return s.IsDecommissioned
	}
	if v, ok := s.Extra[col]; ok {
		return v.Any()
	}
	return nil
}

func floatAny(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func dateAny(d *Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

// FieldKindOf returns the decoding kind of field: the fixed kind for the
// typed Site fields, otherwise the schema's.
func FieldKindOf(field string, schema FieldSchema) FieldKind {
	if kind, core := coreKinds[field]; core {
		return kind
	}
	return schema.Kind(field)
}

// SiteFromFields decodes one raw source record. nameField selects the field
// holding the tower label; the remaining fields are decoded per schema, with
// coordinates, elevation, dates and the decommission flag always decoded as
// their fixed kinds.
func SiteFromFields(nameField string, fields map[string]*string, schema FieldSchema) (Site, error) {
	site := Site{}
	if raw := fields[nameField]; raw != nil {
		site.Name = NormalizeSiteName(*raw)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != nameField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, field := range keys {
		v, err := DecodeField(FieldKindOf(field, schema), fields[field])
		if err != nil {
			return Site{}, fmt.Errorf("site %q field %s: %w", site.Name, field, err)
		}
		switch field {
		case ColLatitude:
			site.Latitude = v.Num.Ptr()
		case ColLongitude:
			site.Longitude = v.Num.Ptr()
		case ColElevation:
			site.Elevation = v.Num.Ptr()
		case ColDateCommissioned:
			site.DateCommissioned = v.Date
		case ColDateDecommissioned:
			site.DateDecommissioned = v.Date
		case ColIsDecommissioned:
			site.IsDecommissioned = v.Flag
		default:
			if site.Extra == nil {
				site.Extra = make(map[string]Value)
			}
			site.Extra[field] = v
		}
	}
	return site, nil
}
