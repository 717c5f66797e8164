// Package domain models flux tower site metadata.
//
// # Data Sources
//
// Site metadata lives in two places that are maintained independently:
//
//   - the "Flux Towers" worksheet of the network's platforms-and-sensors
//     Google spreadsheet, one row per tower, first row is the header;
//   - the TERN knowledge graph, queried through its SPARQL endpoint, one
//     result binding per tower.
//
// Both are decoded into [Site] values by the adapters and assembled into a
// [Registry] keyed by canonical site name.
//
// # Site Names
//
// Raw labels look like "Calperum Chowilla Flux Station". The suffix
// "Flux Station" is stripped, long names are mapped to the short names used
// by the processing network (see aliases in names.go), and all whitespace is
// removed: "Calperum Chowilla Flux Station" -> "Calperum",
// "Alpine Peatland" -> "AlpinePeat", "Tumbarumba" -> "Tumbarumba".
//
// # Field Conventions
//
// Dates arrive as "2006-01-02" (graph) or "02/01/2006" (spreadsheet).
// Numbers arrive as strings; integral values keep an integer flag so they
// export as integers. Missing values are nil, never zero: a tower at 0 m
// elevation and a tower with unknown elevation are different things.
//
// # Operational Status
//
// The two sources disagree on what "operational" means. The spreadsheet has
// an explicit is_decommissioned checkbox ("TRUE"/"FALSE"); the graph only
// records a decommission date. Each source hands the registry its own
// [OperationalPredicate] and the two rules are kept apart on purpose.
//
// # Time
//
// Timezones are inferred from coordinates, then reduced to the zone's
// standard-time UTC offset (daylight saving removed) at a single reference
// instant per registry build. Flux data loggers run on local standard time
// all year, which is why the offset ignores DST.
//
// Sunrise and sunset are computed with an astronomical observer model at the
// tower position. See [ComputeSolarEvent] for the UTC/local conventions.
package domain
