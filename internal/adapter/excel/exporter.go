// Package excel writes a site registry to an .xlsx workbook.
package excel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Sheet1"
	// indexHeader labels the site name column.
	indexHeader = "Site"
	dateFormat  = "yyyy-mm-dd"
)

// Options selects what is exported.
type Options struct {
	// Columns to write after the site name, in order. Columns the view does
	// not have are skipped; empty writes every column.
	Columns []string
	// OperationalOnly restricts the export to operational sites and drops
	// the source's decommission columns.
	OperationalOnly bool
}

// DefaultOptions exports the standard column subset for operational sites.
func DefaultOptions() Options {
	return Options{Columns: domain.DefaultExportColumns, OperationalOnly: true}
}

// Exporter is a pipeline loader writing the registry to a workbook path.
type Exporter struct {
	path   string
	opts   Options
	logger *slog.Logger
}

// NewExporter creates an Exporter for path.
func NewExporter(path string, opts Options, logger *slog.Logger) *Exporter {
	return &Exporter{path: path, opts: opts, logger: logger}
}

// Name identifies the sink.
func (e *Exporter) Name() string { return "excel" }

// Load writes the workbook, replacing any existing file.
func (e *Exporter) Load(_ context.Context, reg *domain.Registry) error {
	rows, err := Export(e.path, reg, e.opts)
	if err != nil {
		return err
	}
	e.logger.Info("workbook written", "path", e.path, "sites", rows)
	return nil
}

// Export writes the selected view of reg to path and returns the number of
// site rows written.
func Export(path string, reg *domain.Registry, opts Options) (int, error) {
	view := reg.View(opts.OperationalOnly).Select(opts.Columns)

	f := excelize.NewFile()
	defer f.Close()

	dateFmt := dateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return 0, fmt.Errorf("create date style: %w", err)
	}

	header := make([]any, 0, len(view.Columns)+1)
	header = append(header, indexHeader)
	for _, c := range view.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for i, site := range view.Sites {
		row := i + 2
		if err := setCell(f, 1, row, site.Name, dateStyle); err != nil {
			return 0, err
		}
		for j, col := range view.Columns {
			if err := setCell(f, j+2, row, site.Column(col), dateStyle); err != nil {
				return 0, fmt.Errorf("site %q column %s: %w", site.Name, col, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook %s: %w", path, err)
	}
	return len(view.Sites), nil
}

// setCell writes v at (col, row), leaving nil values as empty cells.
func setCell(f *excelize.File, col, row int, v any, dateStyle int) error {
	if v == nil {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheetName, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	if _, ok := v.(time.Time); ok {
		if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}
	return nil
}
