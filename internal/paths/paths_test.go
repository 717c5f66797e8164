package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig writes a config rooted at a temp dir and returns it with the root.
func testConfig(t *testing.T) (*Config, string) {
	t.Helper()
	root := t.TempDir()
	text := `
[BASE_PATH]
data = ` + filepath.Join(root, "Sites", "<site>", "Flux") + `
xl_variable_map = ` + filepath.Join(root, "Config", "variable_map.xlsx") + `
site_images = ` + filepath.Join(root, "Images") + `
RTMC_project_template = ` + filepath.Join(root, "RTMC", "template.rtmc2") + `
site_details = ` + filepath.Join(root, "Details") + `

[DATA_STREAM]
flux_slow = Slow
flux_RTMC = RTMC
`
	path := filepath.Join(root, "paths.ini")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	return cfg, root
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
}

func TestResolve(t *testing.T) {
	cfg, root := testConfig(t)

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"category only keeps token", Request{Category: "data"}, filepath.Join(root, "Sites", "<site>", "Flux")},
		{"site substituted", Request{Category: "data", Site: "Calperum"}, filepath.Join(root, "Sites", "Calperum", "Flux")},
		{"stream appended", Request{Category: "data", Stream: "flux_slow", Site: "Whroo"}, filepath.Join(root, "Sites", "Whroo", "Flux", "Slow")},
		{"sub dirs appended", Request{Category: "data", Stream: "flux_RTMC", SubDirs: "2024/01", Site: "Yanco"}, filepath.Join(root, "Sites", "Yanco", "Flux", "RTMC", "2024", "01")},
		{"stream ignored outside data", Request{Category: "site_images", Stream: "nonsense"}, filepath.Join(root, "Images")},
		{"keys are case-insensitive", Request{Category: "rtmc_project_template"}, filepath.Join(root, "RTMC", "template.rtmc2")},
		{"site without token is a no-op", Request{Category: "site_details", Site: "Emerald"}, filepath.Join(root, "Details")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Resolve(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownCategory(t *testing.T) {
	cfg, _ := testConfig(t)

	_, err := cfg.Resolve(Request{Category: "logs"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "data")
	assert.Contains(t, err.Error(), "site_images")
}

func TestResolve_UnknownStream(t *testing.T) {
	cfg, _ := testConfig(t)

	_, err := cfg.Resolve(Request{Category: "data", Stream: "flux_fast"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "flux_slow")
}

func TestResolve_CheckExists(t *testing.T) {
	cfg, root := testConfig(t)

	_, err := cfg.Resolve(Request{Category: "data", Site: "Calperum", CheckExists: true})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Sites", "Calperum", "Flux"), 0o755))
	got, err := cfg.Resolve(Request{Category: "data", Site: "Calperum", CheckExists: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Sites", "Calperum", "Flux"), got)
}

func TestParse_MissingBaseSection(t *testing.T) {
	_, err := Parse([]byte("[DATA_STREAM]\nflux_slow = Slow\n"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParse_NoStreamSection(t *testing.T) {
	cfg, err := Parse([]byte("[BASE_PATH]\ndata = /srv/<site>\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Streams())

	_, err = cfg.Resolve(Request{Category: "data", Stream: "flux_slow"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read path config")
}

func TestConvenienceWrappers(t *testing.T) {
	cfg, root := testConfig(t)
	slow := filepath.Join(root, "Sites", "Calperum", "Flux", "Slow")

	got, err := cfg.VariableMap(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Config", "variable_map.xlsx"), got)

	got, err = cfg.SlowFluxes("Calperum", false)
	require.NoError(t, err)
	assert.Equal(t, slow, got)

	got, err = cfg.SnapshotDirectory("Calperum", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Sites", "Calperum", "Flux", "RTMC"), got)

	got, err = cfg.ProjectTemplate(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "RTMC", "template.rtmc2"), got)

	got, err = cfg.MergedDataFile("Calperum", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(slow, "Calperum_merged_std.dat"), got)

	got, err = cfg.MergedDataFile("", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Sites", "<site>", "Flux", "Slow", "<site>_merged_std.dat"), got)

	got, err = cfg.DetailsFile("Calperum", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Details", "Calperum_details.dat"), got)

	got, err = cfg.DetailsFile("", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Details"), got)
}

func TestSiteImage(t *testing.T) {
	cfg, root := testConfig(t)
	images := filepath.Join(root, "Images")

	got, err := cfg.SiteImage("", "", false)
	require.NoError(t, err)
	assert.Equal(t, images, got)

	got, err = cfg.SiteImage(ImageTower, "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(images, "<site>_tower.jpg"), got)

	got, err = cfg.SiteImage(ImageContour, "Whroo", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(images, "Whroo_contour.png"), got)

	_, err = cfg.SiteImage("panorama", "Whroo", false)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWrappers_CheckExists(t *testing.T) {
	cfg, root := testConfig(t)

	_, err := cfg.SiteImage(ImageTower, "Whroo", true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	touch(t, filepath.Join(root, "Images", "Whroo_tower.jpg"))
	_, err = cfg.SiteImage(ImageTower, "Whroo", true)
	require.NoError(t, err)

	_, err = cfg.MergedDataFile("Whroo", true)
	require.ErrorIs(t, err, domain.ErrNotFound)
	touch(t, filepath.Join(root, "Sites", "Whroo", "Flux", "Slow", "Whroo_merged_std.dat"))
	_, err = cfg.MergedDataFile("Whroo", true)
	require.NoError(t, err)

	_, err = cfg.VariableMap(true)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
