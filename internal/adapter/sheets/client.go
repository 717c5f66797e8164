// Package sheets reads flux tower metadata from the platforms-and-sensors
// Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	// DefaultSheetKey is the platforms-and-sensors spreadsheet.
	DefaultSheetKey = "19RUT2otvKF6sgk-ShxZHlSJSJyl74QMBMi6runm4Bd8"
	// DefaultWorksheet holds one row per tower.
	DefaultWorksheet = "Flux Towers"

	sourceName = "sheets"
	nameColumn = "name"
)

// Schema types the worksheet columns. Unlisted columns pass through as strings.
var Schema = domain.FieldSchema{
	nameColumn:                   domain.KindLabel,
	domain.ColLatitude:           domain.KindNumber,
	domain.ColLongitude:          domain.KindNumber,
	domain.ColElevation:          domain.KindNumber,
	domain.ColDateCommissioned:   domain.KindDate,
	domain.ColDateDecommissioned: domain.KindDate,
	domain.ColIsDecommissioned:   domain.KindFlag,
}

// Config configures the client.
type Config struct {
	CredentialsFile string
	SheetKey        string
	Worksheet       string
	// ClientOptions replace the credentials file when set.
	ClientOptions []option.ClientOption
}

// Client implements pipeline.Source against the Sheets API.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a sheets client. Empty key and worksheet fall back to
// DefaultSheetKey and DefaultWorksheet.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.SheetKey == "" {
		cfg.SheetKey = DefaultSheetKey
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = DefaultWorksheet
	}
	return &Client{cfg: cfg, logger: logger}
}

// Name identifies the source.
func (c *Client) Name() string { return sourceName }

// Fetch reads the worksheet. The first row is the header; rows without a
// name are dropped, rows without geometry are kept.
func (c *Client) Fetch(ctx context.Context) (domain.SourceData, error) {
	rows, err := c.readRows(ctx)
	if err != nil {
		return domain.SourceData{}, err
	}

	data := domain.SourceData{
		Source: sourceName,
		Rule:   domain.DecommissionFlagRule{},
	}
	if len(rows) == 0 {
		return data, nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
		if header[i] != nameColumn {
			data.Columns = append(data.Columns, header[i])
		}
	}

	for i, row := range rows[1:] {
		fields := make(map[string]*string, len(header))
		for j, col := range header {
			fields[col] = cellValue(row, j)
		}
		if fields[nameColumn] == nil {
			data.Dropped++
			continue
		}

		c.dropBadDates(i+2, fields)
		site, err := domain.SiteFromFields(nameColumn, fields, Schema)
		if err != nil {
			return domain.SourceData{}, fmt.Errorf("decode row %d: %w", i+2, err)
		}
		data.Sites = append(data.Sites, site)
	}

	c.logger.Info("sheets sites fetched",
		"sheet_key", c.cfg.SheetKey,
		"worksheet", c.cfg.Worksheet,
		"sites", len(data.Sites),
		"dropped", data.Dropped,
	)
	return data, nil
}

// dropBadDates clears date cells that match no known layout. The worksheet
// is edited by hand; a stray date format loses that one value, not the fetch.
func (c *Client) dropBadDates(row int, fields map[string]*string) {
	for col, raw := range fields {
		if domain.FieldKindOf(col, Schema) != domain.KindDate {
			continue
		}
		if _, err := domain.ParseDate(raw); err != nil {
			c.logger.Warn("unparseable date dropped",
				"row", row,
				"site", *fields[nameColumn],
				"column", col,
				"error", err,
			)
			fields[col] = nil
		}
	}
}

func (c *Client) readRows(ctx context.Context) ([][]any, error) {
	opts := c.cfg.ClientOptions
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(c.cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		}
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	readRange := "'" + strings.ReplaceAll(c.cfg.Worksheet, "'", "''") + "'"
	resp, err := srv.Spreadsheets.Values.Get(c.cfg.SheetKey, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w: %w", c.cfg.Worksheet, domain.ErrTransport, err)
	}
	return resp.Values, nil
}

// cellValue returns the cell text, or nil for empty and trailing cells.
func cellValue(row []any, i int) *string {
	if i >= len(row) || row[i] == nil {
		return nil
	}
	s := fmt.Sprint(row[i])
	if s == "" {
		return nil
	}
	return &s
}
