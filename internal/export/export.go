// Package export writes chemical records to CSV, JSON, or Excel files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/chemsafe/chemsafe/internal/chem"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "xlsx"
)

// ParseFormat maps a user-supplied format name to a Format. "excel" is
// accepted as an alias for xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json, or xlsx)", s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// columns is the field order for tabular formats. JSON output uses the
// record's own field tags instead.
//
//nolint:gochecknoglobals // Static export layout
var columns = []string{
	"id", "cas_number", "name", "formula", "molecular_weight",
	"physical_state", "color", "density", "melting_point", "boiling_point",
	"flash_point", "solubility", "vapor_pressure",
	"hazard_statements", "precautionary_statements", "ghs_pictograms", "signal_word",
	"ld50", "lc50", "acute_toxicity_notes",
	"canonical_smiles", "isomeric_smiles", "inchi", "inchikey",
	"source_url", "source_name", "updated_at",
}

// Filter selects records whose named property equals a value
// (case-insensitively). The zero Filter matches everything.
type Filter struct {
	Key   string
	Value string
}

// ParseFilter parses a "key=value" expression. An empty expression yields a
// match-all filter.
func ParseFilter(expr string) (Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return Filter{}, nil
	}

	key, value, found := strings.Cut(expr, "=")
	if !found || strings.TrimSpace(key) == "" {
		return Filter{}, fmt.Errorf("invalid filter %q (want key=value)", expr)
	}

	return Filter{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
	}, nil
}

// Matches reports whether the record satisfies the filter.
func (f Filter) Matches(c *chem.Chemical) bool {
	if f.Key == "" {
		return true
	}

	v, ok := c.Properties()[f.Key]
	if !ok {
		return false
	}
	return strings.EqualFold(fmt.Sprint(v), f.Value)
}

// Apply returns the records the filter matches, preserving order.
func (f Filter) Apply(records []*chem.Chemical) []*chem.Chemical {
	if f.Key == "" {
		return records
	}

	var out []*chem.Chemical
	for _, c := range records {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultPath builds the conventional export location under dataDir:
// processed/chemicals_export_<timestamp>.<ext>.
func DefaultPath(dataDir string, format Format, now time.Time) string {
	name := fmt.Sprintf("chemicals_export_%s.%s", now.Format("20060102_150405"), format.Extension())
	return filepath.Join(dataDir, "processed", name)
}

// Writer renders chemical records to disk.
type Writer struct {
	logger zerolog.Logger
}

// New creates a Writer.
func New(logger zerolog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Export writes records to path in the given format, creating parent
// directories as needed.
func (w *Writer) Export(records []*chem.Chemical, format Format, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	var err error
	switch format {
	case FormatCSV:
		err = w.writeCSV(records, path)
	case FormatJSON:
		err = w.writeJSON(records, path)
	case FormatExcel:
		err = w.writeExcel(records, path)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return err
	}

	w.logger.Info().
		Int("records", len(records)).
		Str("format", string(format)).
		Str("path", path).
		Msg("export complete")
	return nil
}

func (w *Writer) writeCSV(records []*chem.Chemical, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, c := range records {
		if err := cw.Write(row(c)); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return f.Close()
}

func (w *Writer) writeJSON(records []*chem.Chemical, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

const excelSheet = "Chemicals"

func (w *Writer) writeExcel(records []*chem.Chemical, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("preparing workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("preparing workbook: %w", err)
	}

	for i, col := range columns {
		cell, cellErr := excelize.CoordinatesToCellName(i+1, 1)
		if cellErr != nil {
			return fmt.Errorf("addressing header cell: %w", cellErr)
		}
		if err := f.SetCellValue(excelSheet, cell, col); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		if err := f.SetCellStyle(excelSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for r, c := range records {
		for i, value := range row(c) {
			cell, cellErr := excelize.CoordinatesToCellName(i+1, r+2)
			if cellErr != nil {
				return fmt.Errorf("addressing cell: %w", cellErr)
			}
			if err := f.SetCellValue(excelSheet, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// row renders a record in column order. Unset properties render as empty
// strings.
func row(c *chem.Chemical) []string {
	props := c.Properties()
	out := make([]string, len(columns))
	for i, col := range columns {
		if col == "updated_at" {
			if !c.UpdatedAt.IsZero() {
				out[i] = c.UpdatedAt.UTC().Format(time.RFC3339)
			}
			continue
		}
		if v, ok := props[col]; ok {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
