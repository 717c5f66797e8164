package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteFromFields(t *testing.T) {
	schema := FieldSchema{
		"label":     KindLabel,
		"time_step": KindNumber,
	}
	fields := map[string]*string{
		"label":               strPtr("Calperum Chowilla Flux Station"),
		"fluxnet_id":          strPtr("AU-Cpr"),
		"latitude":            strPtr("-34.0027"),
		"longitude":           strPtr("140.5877"),
		"elevation":           strPtr("39"),
		"date_commissioned":   strPtr("2010-07-01"),
		"date_decommissioned": nil,
		"time_step":           strPtr("30"),
	}

	site, err := SiteFromFields("label", fields, schema)
	require.NoError(t, err)

	assert.Equal(t, "Calperum", site.Name)
	require.NotNil(t, site.Latitude)
	assert.InDelta(t, -34.0027, *site.Latitude, 1e-9)
	require.NotNil(t, site.Longitude)
	assert.InDelta(t, 140.5877, *site.Longitude, 1e-9)
	require.NotNil(t, site.Elevation)
	assert.Equal(t, 39.0, *site.Elevation)
	require.NotNil(t, site.DateCommissioned)
	assert.Equal(t, Date{Year: 2010, Month: time.July, Day: 1}, *site.DateCommissioned)
	assert.Nil(t, site.DateDecommissioned)
	assert.False(t, site.IsDecommissioned)
	assert.Equal(t, "AU-Cpr", site.Column("fluxnet_id"))
	assert.Equal(t, int64(30), site.Column("time_step"))
	assert.NotContains(t, site.Extra, "label")
}

func TestSiteFromFields_CoreKindsIgnoreSchema(t *testing.T) {
	// A schema that forgets the coordinates still yields numeric coordinates.
	site, err := SiteFromFields("name", map[string]*string{
		"name":              strPtr("Whroo"),
		"latitude":          strPtr("-36.6732"),
		"longitude":         strPtr("145.0294"),
		"is_decommissioned": strPtr("TRUE"),
	}, FieldSchema{})
	require.NoError(t, err)
	require.NotNil(t, site.Latitude)
	assert.InDelta(t, -36.6732, *site.Latitude, 1e-9)
	assert.True(t, site.IsDecommissioned)
	assert.Empty(t, site.Extra)
}

func TestSiteFromFields_BadDate(t *testing.T) {
	_, err := SiteFromFields("name", map[string]*string{
		"name":              strPtr("Yanco"),
		"date_commissioned": strPtr("sometime in 2012"),
	}, FieldSchema{})
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "Yanco")
	assert.Contains(t, err.Error(), "date_commissioned")
}

func TestSite_ColumnAbsentValuesAreNil(t *testing.T) {
	site := Site{Name: "Ridgefield"}
	for _, col := range []string{ColLatitude, ColLongitude, ColElevation, ColTimeZone, ColUTCOffset, ColDateCommissioned, ColDateDecommissioned, "unknown"} {
		assert.Nil(t, site.Column(col), col)
	}
	assert.Equal(t, false, site.Column(ColIsDecommissioned))
}

func TestSite_JSON(t *testing.T) {
	lat, lon, off := -23.8587, 148.4746, 10.0
	zone := "Australia/Brisbane"
	site := Site{
		Name:             "Emerald",
		Latitude:         &lat,
		Longitude:        &lon,
		TimeZone:         &zone,
		UTCOffset:        &off,
		DateCommissioned: &Date{Year: 2011, Month: time.December, Day: 1},
		Extra: map[string]Value{
			"fluxnet_id": {Kind: KindString, Str: strPtr("AU-Emr")},
			"time_step":  {Kind: KindNumber, Num: Number{Value: 30, IsInt: true}},
		},
	}
	b, err := json.Marshal(site)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Emerald",
		"latitude": -23.8587,
		"longitude": 148.4746,
		"elevation": null,
		"time_zone": "Australia/Brisbane",
		"UTC_offset": 10,
		"date_commissioned": "2011-12-01",
		"date_decommissioned": null,
		"is_decommissioned": false,
		"extra": {"fluxnet_id": "AU-Emr", "time_step": 30}
	}`, string(b))
}

func TestSite_JSONKeysMatchColumns(t *testing.T) {
	b, err := json.Marshal(emerald())
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(b, &keys))

	for _, col := range DefaultExportColumns {
		assert.Contains(t, keys, col)
	}
}
