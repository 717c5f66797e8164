package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
)

// Image kinds served by SiteImage.
const (
	ImageTower   = "tower"
	ImageContour = "contour"
)

var imageTemplates = map[string]string{
	ImageTower:   SiteToken + "_tower.jpg",
	ImageContour: SiteToken + "_contour.png",
}

// VariableMap returns the variable map workbook.
func (c *Config) VariableMap(checkExists bool) (string, error) {
	return c.Resolve(Request{Category: "xl_variable_map", CheckExists: checkExists})
}

// SlowFluxes returns the slow flux data directory of site.
func (c *Config) SlowFluxes(site string, checkExists bool) (string, error) {
	return c.Resolve(Request{Category: DataCategory, Stream: "flux_slow", Site: site, CheckExists: checkExists})
}

// SnapshotDirectory returns the RTMC snapshot directory of site.
func (c *Config) SnapshotDirectory(site string, checkExists bool) (string, error) {
	return c.Resolve(Request{Category: DataCategory, Stream: "flux_RTMC", Site: site, CheckExists: checkExists})
}

// ProjectTemplate returns the RTMC project template.
func (c *Config) ProjectTemplate(checkExists bool) (string, error) {
	return c.Resolve(Request{Category: "RTMC_project_template", CheckExists: checkExists})
}

// SiteImage returns the image directory when kind is empty, otherwise the
// image file of kind for site. Without a site the file name keeps SiteToken
// and is not checked for existence.
func (c *Config) SiteImage(kind, site string, checkExists bool) (string, error) {
	dir, err := c.Resolve(Request{Category: "site_images"})
	if err != nil {
		return "", err
	}
	if kind == "" {
		return dir, nil
	}
	tmpl, ok := imageTemplates[kind]
	if !ok {
		return "", fmt.Errorf("image kind %q must be %s or %s: %w", kind, ImageTower, ImageContour, domain.ErrInvalidArgument)
	}
	return c.siteFile(dir, tmpl, site, checkExists)
}

// MergedDataFile returns the merged standard data file of site.
func (c *Config) MergedDataFile(site string, checkExists bool) (string, error) {
	dir, err := c.Resolve(Request{Category: DataCategory, Stream: "flux_slow", Site: site})
	if err != nil {
		return "", err
	}
	return c.siteFile(dir, SiteToken+"_merged_std.dat", site, checkExists)
}

// DetailsFile returns the site details file of site, or the details
// directory when site is empty.
func (c *Config) DetailsFile(site string, checkExists bool) (string, error) {
	dir, err := c.Resolve(Request{Category: "site_details"})
	if err != nil {
		return "", err
	}
	if site == "" {
		return dir, nil
	}
	return c.siteFile(dir, SiteToken+"_details.dat", site, checkExists)
}

func (c *Config) siteFile(dir, tmpl, site string, check bool) (string, error) {
	if site == "" {
		return filepath.Join(dir, tmpl), nil
	}
	path := filepath.Join(dir, strings.ReplaceAll(tmpl, SiteToken, site))
	if check {
		if err := checkExists(path); err != nil {
			return "", err
		}
	}
	return path, nil
}
