package export

import (
	"fmt"
	"regexp"

	"github.com/xuri/excelize/v2"

	"github.com/geoproc/internal/classify"
	"github.com/geoproc/internal/dataset"
)

// Sheet labels in fixed emission order. Buckets with zero records
// contribute no sheet.
const (
	SheetFound       = "Found"
	SheetPartial     = "Partially Found"
	SheetCondominium = "Condominiums"
	SheetNotFound    = "Not Found - Errors"
)

var sheetOrder = []string{SheetFound, SheetPartial, SheetCondominium, SheetNotFound}

// Workbook sheet names may not contain : \ / ? * [ ] and cap at 31
// characters.
var reBadSheetChars = regexp.MustCompile(`[:\\/?*\[\]]`)

// sheetFor buckets a classification into its workbook sheet. Manually
// fixed records are resolved records and ship on the Found sheet; their
// Status_Log column still says MANUAL_FIX.
func sheetFor(c classify.Classification) string {
	switch c {
	case classify.Partial:
		return SheetPartial
	case classify.Condominium:
		return SheetCondominium
	case classify.NotFound:
		return SheetNotFound
	}
	return SheetFound
}

// BuildWorkbook partitions the dataset into classification sheets and
// returns the workbook. Column order is the stable order established at
// load time, identical on every sheet. When every bucket is empty the
// result is ErrEmptyExport rather than a workbook with no sheets.
func BuildWorkbook(records []dataset.Record, columns []string) (*excelize.File, error) {
	buckets := make(map[string][]dataset.Record, len(sheetOrder))
	for _, r := range records {
		sheet := sheetFor(classify.Classify(r))
		buckets[sheet] = append(buckets[sheet], r)
	}

	f := excelize.NewFile()
	wrote := false
	for _, label := range sheetOrder {
		rows := buckets[label]
		if len(rows) == 0 {
			continue
		}
		name := SanitizeSheetName(label)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, columns, rows); err != nil {
			return nil, err
		}
		wrote = true
	}

	if !wrote {
		f.Close()
		return nil, ErrEmptyExport
	}

	// Drop the default sheet excelize opens with.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, name string, columns []string, rows []dataset.Record) error {
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header on %q: %w", name, err)
	}

	for i, r := range rows {
		cells := make([]any, len(columns))
		for j, col := range columns {
			cells[j] = r[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("write row %d on %q: %w", i+2, name, err)
		}
	}
	return nil
}

// SanitizeSheetName strips characters the workbook format forbids and
// enforces the 31-character cap.
func SanitizeSheetName(name string) string {
	clean := reBadSheetChars.ReplaceAllString(name, " ")
	if len(clean) > 31 {
		clean = clean[:31]
	}
	return clean
}

// WorkbookFilename derives the download name from the upload name.
func WorkbookFilename(sourceName string) string {
	return baseName(sourceName) + "_processed.xlsx"
}
