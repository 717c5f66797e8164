package domain

import (
	"strings"
	"unicode"
)

// stationSuffix is appended to most tower labels in both sources.
const stationSuffix = "Flux Station"

// siteAliases maps long tower labels to the short names used across the
// processing network. Keys are labels after the station suffix is removed.
var siteAliases = map[string]string{
	"Alpine Peatland":                        "Alpine Peat",
	"Aqueduct Snow Gum":                      "SnowGum",
	"ArcturusEmerald":                        "Emerald",
	"Calperum Chowilla":                      "Calperum",
	"Dargo High Plains":                      "Dargo",
	"Longreach Mitchell Grass Rangeland":     "Longreach",
	"Nimmo High Plains":                      "Nimmo",
	"Samford Ecological Research Facility":   "Samford",
	"Wellington Research Station Flux Tower": "Wellington",
}

// NormalizeSiteName converts a raw tower label into its canonical site
// identifier: station suffix removed, alias applied, whitespace stripped.
func NormalizeSiteName(label string) string {
	name := strings.TrimSpace(strings.Replace(label, stationSuffix, "", 1))
	if alias, ok := siteAliases[name]; ok {
		name = alias
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
