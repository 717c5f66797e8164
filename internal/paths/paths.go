// Package paths resolves filesystem locations of site data products from an
// INI file with a BASE_PATH table (category → path template) and a
// DATA_STREAM table (stream → subdirectory). Templates may contain the
// <site> token, which is replaced textually by a site name.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"gopkg.in/ini.v1"
)

const (
	baseSection   = "BASE_PATH"
	streamSection = "DATA_STREAM"

	// SiteToken is replaced by the site name in resolved paths.
	SiteToken = "<site>"

	// DataCategory is the only category that takes a stream.
	DataCategory = "data"
)

// Config is a loaded path configuration. Keys are case-insensitive.
type Config struct {
	base    *ini.Section
	streams *ini.Section
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read path config: %w", err)
	}
	return Parse(data)
}

// Parse reads a configuration from INI text.
func Parse(data []byte) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return nil, fmt.Errorf("parse path config: %w", err)
	}
	base, err := f.GetSection(baseSection)
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", baseSection, domain.ErrNotFound)
	}
	// A missing stream table behaves as an empty one.
	return &Config{base: base, streams: f.Section(streamSection)}, nil
}

// Categories lists the configured base path names.
func (c *Config) Categories() []string { return c.base.KeyStrings() }

// Streams lists the configured data stream names.
func (c *Config) Streams() []string { return c.streams.KeyStrings() }

// Request describes a path to resolve.
type Request struct {
	Category string
	// Stream selects a data stream subdirectory; only used with DataCategory.
	Stream string
	// SubDirs is appended verbatim.
	SubDirs string
	// Site replaces SiteToken when non-empty.
	Site        string
	CheckExists bool
}

// Resolve builds the path for req.
func (c *Config) Resolve(req Request) (string, error) {
	if !c.base.HasKey(req.Category) {
		return "", fmt.Errorf("category %q must be one of: %s: %w",
			req.Category, strings.Join(c.Categories(), ", "), domain.ErrInvalidArgument)
	}
	out := c.base.Key(req.Category).String()

	if strings.EqualFold(req.Category, DataCategory) && req.Stream != "" {
		if !c.streams.HasKey(req.Stream) {
			return "", fmt.Errorf("stream %q must be one of: %s: %w",
				req.Stream, strings.Join(c.Streams(), ", "), domain.ErrInvalidArgument)
		}
		out = filepath.Join(out, c.streams.Key(req.Stream).String())
	}
	if req.SubDirs != "" {
		out = filepath.Join(out, req.SubDirs)
	}
	if req.Site != "" {
		out = strings.ReplaceAll(out, SiteToken, req.Site)
	}
	if req.CheckExists {
		if err := checkExists(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("path %s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}
