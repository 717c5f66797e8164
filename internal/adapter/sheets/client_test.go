package sheets

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const (
	testEndpoint = "https://sheets.test/"
	testKey      = "test-key"
	valuesURL    = `=~^https://sheets\.test/v4/spreadsheets/test-key/values/`
)

const worksheetJSON = `{
  "range": "'Flux Towers'!A1:Z100",
  "majorDimension": "ROWS",
  "values": [
    ["name", "fluxnet_id", "latitude", "longitude", "elevation", "date_commissioned", "date_decommissioned", "is_decommissioned"],
    ["Calperum Chowilla Flux Station", "AU-Cpr", "-34.0027", "140.5877", "39", "2010-07-01", "", "FALSE"],
    ["", "AU-Xxx", "-10", "130"],
    ["Ridgefield Flux Station", "AU-Rgf", "", "", "", "01/03/2016", "01/03/2019", "TRUE"],
    ["Wombat State Forest", "AU-Wom", "-37.4222", "144.0944", "705", "28/02/2010"]
  ]
}`

func activate(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func testClient() *Client {
	return NewClient(Config{
		SheetKey: testKey,
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(testEndpoint),
			option.WithHTTPClient(http.DefaultClient),
			option.WithoutAuthentication(),
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch_Success(t *testing.T) {
	activate(t)
	httpmock.RegisterResponder("GET", valuesURL, httpmock.NewStringResponder(200, worksheetJSON))

	data, err := testClient().Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	assert.Equal(t, "sheets", data.Source)
	assert.IsType(t, domain.DecommissionFlagRule{}, data.Rule)
	assert.Equal(t, []string{"fluxnet_id", "latitude", "longitude", "elevation", "date_commissioned", "date_decommissioned", "is_decommissioned"}, data.Columns)
	assert.Equal(t, 1, data.Dropped, "row without a name is dropped")
	require.Len(t, data.Sites, 3)

	cpr := data.Sites[0]
	assert.Equal(t, "Calperum", cpr.Name)
	assert.InDelta(t, 140.5877, *cpr.Longitude, 1e-9)
	assert.False(t, cpr.IsDecommissioned)
	assert.Nil(t, cpr.DateDecommissioned, "empty cell is absent")

	rgf := data.Sites[1]
	assert.Equal(t, "Ridgefield", rgf.Name)
	assert.Nil(t, rgf.Latitude, "rows without geometry are kept")
	assert.True(t, rgf.IsDecommissioned)
	assert.Equal(t, "2019-03-01", rgf.DateDecommissioned.String())

	wom := data.Sites[2]
	assert.Equal(t, "WombatStateForest", wom.Name)
	assert.Equal(t, "2010-02-28", wom.DateCommissioned.String())
	assert.False(t, wom.IsDecommissioned, "missing trailing flag cell is false")
}

func TestClient_Fetch_EmptyWorksheet(t *testing.T) {
	activate(t)
	httpmock.RegisterResponder("GET", valuesURL, httpmock.NewStringResponder(200, `{"range": "'Flux Towers'!A1:Z1000"}`))

	data, err := testClient().Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Sites)
	assert.Equal(t, "sheets", data.Source)
}

func TestClient_Fetch_APIError(t *testing.T) {
	activate(t)
	httpmock.RegisterResponder("GET", valuesURL, httpmock.NewStringResponder(403,
		`{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`))

	_, err := testClient().Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "Flux Towers")
}

func TestClient_Fetch_BadNumber(t *testing.T) {
	activate(t)
	httpmock.RegisterResponder("GET", valuesURL, httpmock.NewStringResponder(200, `{"values": [
		["name", "latitude"],
		["Yanco", "somewhere south"]
	]}`))

	_, err := testClient().Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "row 2")
}

func TestClient_Fetch_BadDateDropsField(t *testing.T) {
	activate(t)
	httpmock.RegisterResponder("GET", valuesURL, httpmock.NewStringResponder(200, `{"values": [
		["name", "latitude", "longitude", "date_commissioned", "date_decommissioned"],
		["Yanco", "-34.9893", "146.2907", "June 2012", " 01/03/2019 "]
	]}`))

	data, err := testClient().Fetch(context.Background())
	require.NoError(t, err, "a malformed date does not abort the fetch")
	require.Len(t, data.Sites, 1)

	yan := data.Sites[0]
	assert.Equal(t, "Yanco", yan.Name)
	assert.Nil(t, yan.DateCommissioned)
	require.NotNil(t, yan.DateDecommissioned)
	assert.Equal(t, "2019-03-01", yan.DateDecommissioned.String())
	assert.InDelta(t, -34.9893, *yan.Latitude, 1e-9)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{CredentialsFile: "client_secrets.json"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, DefaultSheetKey, c.cfg.SheetKey)
	assert.Equal(t, DefaultWorksheet, c.cfg.Worksheet)
	assert.Equal(t, "sheets", c.Name())
}

func TestCellValue(t *testing.T) {
	row := []any{"a", "", nil, 42.5}
	assert.Equal(t, "a", *cellValue(row, 0))
	assert.Nil(t, cellValue(row, 1))
	assert.Nil(t, cellValue(row, 2))
	assert.Equal(t, "42.5", *cellValue(row, 3))
	assert.Nil(t, cellValue(row, 9))
}
