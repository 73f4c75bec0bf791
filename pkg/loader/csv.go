// Package loader reads and writes the directory table that feeds the org
// chart. CSV is the wire format; XLSX uploads are accepted with the same
// header mapping.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// utf8BOM is written ahead of every CSV so spreadsheet tools detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	// ErrMissingIDColumn is returned when the header has no id column.
	ErrMissingIDColumn = errors.New("missing id column")
	// ErrMissingHeader is returned for an empty table.
	ErrMissingHeader = errors.New("missing header")
)

// Columns maps record fields to header names. Email falls back to
// EmailAlias when the primary column is absent or blank.
type Columns struct {
	ID            string
	Name          string
	Title         string
	CorporateUnit string
	Team          string
	ManagerID     string
	Email         string
	EmailAlias    string
}

// DefaultColumns returns the header names produced by the directory dump.
func DefaultColumns() Columns {
	return Columns{
		ID:            "id",
		Name:          "이름",
		Title:         "직책",
		CorporateUnit: "법인",
		Team:          "팀",
		ManagerID:     "manager_id",
		Email:         "이메일",
		EmailAlias:    "email",
	}
}

// Header returns the column order used when writing.
func (c Columns) Header() []string {
	return []string{c.ID, c.Name, c.Title, c.CorporateUnit, c.Team, c.ManagerID, c.Email}
}

// ParseOptions configures parsing.
type ParseOptions struct {
	// Columns overrides header names; the zero value means DefaultColumns.
	Columns Columns

	// WarningHandler is called for skipped rows. If nil, warnings are
	// dropped after being sent to the debug log.
	WarningHandler func(string)
}

func (o ParseOptions) columns() Columns {
	if o.Columns == (Columns{}) {
		return DefaultColumns()
	}
	return o.Columns
}

func (o ParseOptions) warn(msg string) {
	debug.Log("loader: %s", msg)
	if o.WarningHandler != nil {
		o.WarningHandler(msg)
	}
}

// LoadFile reads a CSV or XLSX file, choosing the format by extension.
func LoadFile(path string, opts ParseOptions) ([]model.PersonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(f, opts)
	default:
		return ParseCSV(f, opts)
	}
}

// ParseCSV reads records from CSV. A leading UTF-8 BOM is ignored, rows may
// have fewer or more fields than the header, and blank rows are skipped.
// Rows without an id are kept; the tree builder drops them.
func ParseCSV(r io.Reader, opts ParseOptions) ([]model.PersonRecord, error) {
	defer metrics.Timer(metrics.CSVParse)()

	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, row)
	}
	return recordsFromRows(rows, opts)
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(len(utf8BOM))
	if err == nil && string(b) == string(utf8BOM) {
		_, _ = r.Discard(len(utf8BOM))
	}
	return r
}

// recordsFromRows maps a header row plus data rows to records. Shared by the
// CSV and XLSX readers.
func recordsFromRows(rows [][]string, opts ParseOptions) ([]model.PersonRecord, error) {
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}
	idx, err := headerIndex(rows[0], opts.columns())
	if err != nil {
		return nil, err
	}

	records := make([]model.PersonRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		for _, cell := range row {
			if !utf8.ValidString(cell) {
				opts.warn(fmt.Sprintf("skipping row %d: invalid UTF-8", i+2))
				row = nil
				break
			}
		}
		if row == nil {
			continue
		}
		records = append(records, idx.record(row))
	}
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// columnIndex holds the position of each known column, -1 when absent.
type columnIndex struct {
	id, name, title, corp, team, manager, email, emailAlias int
}

func headerIndex(header []string, cols Columns) (columnIndex, error) {
	find := func(name string) int {
		if name == "" {
			return -1
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.TrimPrefix(h, string(utf8BOM)))
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}
	idx := columnIndex{
		id:         find(cols.ID),
		name:       find(cols.Name),
		title:      find(cols.Title),
		corp:       find(cols.CorporateUnit),
		team:       find(cols.Team),
		manager:    find(cols.ManagerID),
		email:      find(cols.Email),
		emailAlias: find(cols.EmailAlias),
	}
	if idx.id < 0 {
		return idx, fmt.Errorf("%w %q in header %v", ErrMissingIDColumn, cols.ID, header)
	}
	return idx, nil
}

func (c columnIndex) record(row []string) model.PersonRecord {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return model.PersonRecord{
		ID:            cell(c.id),
		ManagerID:     cell(c.manager),
		DisplayName:   cell(c.name),
		Title:         cell(c.title),
		CorporateUnit: cell(c.corp),
		Team:          cell(c.team),
		Email:         model.FirstNonEmpty(cell(c.email), cell(c.emailAlias)),
	}
}

// WriteCSV writes records with a leading BOM using cols for the header.
func WriteCSV(w io.Writer, records []model.PersonRecord, cols Columns) error {
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(cols.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{r.ID, r.DisplayName, r.Title, r.CorporateUnit, r.Team, r.ManagerID, r.Email}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path, creating parent directories.
func WriteCSVFile(path string, records []model.PersonRecord, cols Columns) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, records, cols); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
