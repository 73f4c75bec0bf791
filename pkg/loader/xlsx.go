package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// ParseXLSX reads records from the first sheet of a workbook. The first row
// is the header, mapped exactly like CSV.
func ParseXLSX(r io.Reader, opts ParseOptions) ([]model.PersonRecord, error) {
	defer metrics.Timer(metrics.CSVParse)()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return recordsFromRows(rows, opts)
}

// WriteXLSX writes records to a single-sheet workbook.
func WriteXLSX(w io.Writer, records []model.PersonRecord, cols Columns) error {
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := cols.Header()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		row := []string{r.ID, r.DisplayName, r.Title, r.CorporateUnit, r.Team, r.ManagerID, r.Email}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %s: %w", r.ID, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
