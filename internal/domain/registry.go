package domain

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// SourceData is what a source adapter hands to the registry builder.
type SourceData struct {
	// Source names the adapter, e.g. "sheets" or "sparql".
	Source string
	// Columns lists the source fields in source order, excluding the name field.
	Columns []string
	// Sites are decoded records in source order, not yet timezone-enriched.
	Sites []Site
	// Dropped counts records the adapter discarded.
	Dropped int
	// Rule is the source's definition of an operational site.
	Rule OperationalPredicate
}

// Registry is the immutable table of sites built from one source fetch.
type Registry struct {
	source    string
	columns   []string
	order     []string
	sites     map[string]Site
	rule      OperationalPredicate
	reference time.Time
}

// NewRegistry assembles a registry. Site names are unique; a later record
// with the same name replaces the earlier one in place. The derived
// time_zone and UTC_offset columns are appended to columns.
func NewRegistry(data SourceData, sites []Site, reference time.Time) *Registry {
	r := &Registry{
		source:    data.Source,
		sites:     make(map[string]Site, len(sites)),
		rule:      data.Rule,
		reference: reference,
	}
	if r.rule == nil {
		r.rule = DecommissionFlagRule{}
	}
	for _, c := range data.Columns {
		if c != ColTimeZone && c != ColUTCOffset {
			r.columns = append(r.columns, c)
		}
	}
	r.columns = append(r.columns, ColTimeZone, ColUTCOffset)

	for _, s := range sites {
		if _, seen := r.sites[s.Name]; !seen {
			r.order = append(r.order, s.Name)
		}
		r.sites[s.Name] = s
	}
	return r
}

// Source names the adapter that built the registry.
func (r *Registry) Source() string { return r.source }

// Rule returns the operational predicate of the registry's source.
func (r *Registry) Rule() OperationalPredicate { return r.rule }

// ReferenceTime is the instant UTC offsets were evaluated at.
func (r *Registry) ReferenceTime() time.Time { return r.reference }

// Len returns the number of sites.
func (r *Registry) Len() int { return len(r.order) }

// Columns returns all columns in export order.
func (r *Registry) Columns() []string { return slices.Clone(r.columns) }

// Names returns all site names in source order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// Site returns the record for name.
func (r *Registry) Site(name string) (Site, error) {
	s, ok := r.sites[name]
	if !ok {
		return Site{}, fmt.Errorf("site %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// Field returns a single column of a single site.
func (r *Registry) Field(name, column string) (any, error) {
	s, err := r.Site(name)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(r.columns, column) {
		return nil, fmt.Errorf("column %q: %w", column, ErrNotFound)
	}
	return s.Column(column), nil
}

// OperationalNames returns the names of operational sites in source order.
func (r *Registry) OperationalNames() []string {
	var names []string
	for _, name := range r.order {
		if r.rule.IsOperational(r.sites[name]) {
			names = append(names, name)
		}
	}
	return names
}

// View is a filtered, column-restricted projection of a registry.
type View struct {
	Columns []string
	Sites   []Site
}

// View returns all sites, or only operational sites with the decommission
// columns of the source's rule removed.
func (r *Registry) View(operationalOnly bool) View {
	if !operationalOnly {
		v := View{Columns: r.Columns(), Sites: make([]Site, 0, len(r.order))}
		for _, name := range r.order {
			v.Sites = append(v.Sites, r.sites[name])
		}
		return v
	}

	hidden := r.rule.DecommissionColumns()
	v := View{}
	for _, c := range r.columns {
		if !slices.Contains(hidden, c) {
			v.Columns = append(v.Columns, c)
		}
	}
	for _, name := range r.OperationalNames() {
		v.Sites = append(v.Sites, r.sites[name])
	}
	return v
}

// Select restricts the view to the requested columns in request order.
// Columns the view does not have are silently dropped; an empty request
// keeps every column.
func (v View) Select(columns []string) View {
	if len(columns) == 0 {
		return v
	}
	out := View{Sites: v.Sites}
	for _, c := range columns {
		if slices.Contains(v.Columns, c) && !slices.Contains(out.Columns, c) {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// SolarEvent computes a sunrise or sunset for the named site.
func (r *Registry) SolarEvent(name string, q SolarQuery, logger *slog.Logger) (time.Time, error) {
	s, err := r.Site(name)
	if err != nil {
		return time.Time{}, err
	}
	return ComputeSolarQuery(s, q, logger)
}

// Sunrise returns the sunrise before or after ref at the named site.
func (r *Registry) Sunrise(name string, ref time.Time, dir Direction, wantUTC bool, logger *slog.Logger) (time.Time, error) {
	return r.SolarEvent(name, SolarQuery{Kind: Sunrise, Direction: dir, Reference: ref, WantUTC: wantUTC}, logger)
}

// Sunset returns the sunset before or after ref at the named site.
func (r *Registry) Sunset(name string, ref time.Time, dir Direction, wantUTC bool, logger *slog.Logger) (time.Time, error) {
	return r.SolarEvent(name, SolarQuery{Kind: Sunset, Direction: dir, Reference: ref, WantUTC: wantUTC}, logger)
}
