// Package catalog loads fetch targets from catalog files (CSV/TSV).
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skybrowse/skyview/pkg/skyview"
)

// DefaultLimit is the maximum number of rows loaded when none is given.
const DefaultLimit = 50

// Options configures catalog loading.
type Options struct {
	// RACol and DecCol are the coordinate column names.  Defaults: "ra"
	// and "dec".
	RACol  string
	DecCol string
	// NameCol is the label column name.  If empty, labels are derived
	// from the coordinates.
	NameCol string
	// Limit caps the number of rows loaded.  0 means DefaultLimit.
	Limit int
}

// Load reads targets from a .csv, .tsv or .txt file.  The first row must be
// a header containing the configured column names.
func Load(path string, opts Options) ([]skyview.Target, error) {
	if opts.RACol == "" {
		opts.RACol = "ra"
	}
	if opts.DecCol == "" {
		opts.DecCol = "dec"
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	var comma rune
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		comma = ','
	case ".tsv":
		comma = '\t'
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (use .csv, .tsv or .txt)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}

	raIdx, err := columnIndex(header, opts.RACol)
	if err != nil {
		return nil, err
	}
	decIdx, err := columnIndex(header, opts.DecCol)
	if err != nil {
		return nil, err
	}
	nameIdx := -1
	if opts.NameCol != "" {
		if nameIdx, err = columnIndex(header, opts.NameCol); err != nil {
			return nil, err
		}
	}

	var targets []skyview.Target
	for len(targets) < opts.Limit {
		row, err := reader.Read()
		if err != nil {
			break
		}
		ra, err := strconv.ParseFloat(strings.TrimSpace(row[raIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad %s value %q", len(targets)+2, opts.RACol, row[raIdx])
		}
		dec, err := strconv.ParseFloat(strings.TrimSpace(row[decIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad %s value %q", len(targets)+2, opts.DecCol, row[decIdx])
		}
		label := ""
		if nameIdx >= 0 {
			label = strings.TrimSpace(row[nameIdx])
		}
		targets = append(targets, skyview.CoordinateTarget{Label: label, RA: ra, Dec: dec})
	}

	return targets, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in catalog header", name)
}
