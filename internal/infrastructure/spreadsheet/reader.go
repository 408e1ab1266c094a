// Package spreadsheet turns uploaded product sheets into header-keyed rows.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Row maps a header cell to the cell value below it
type Row = map[string]string

// Options controls CSV decoding
type Options struct {
	// Encoding is a WHATWG label such as "windows-1252"; empty means UTF-8.
	Encoding string
	// Comma is the CSV delimiter; zero means ','.
	Comma rune
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses the first sheet of an .xlsx workbook or a .csv file, chosen by filename.
// Blank rows are skipped. Other formats return domain.ErrUnsupportedFormat.
func Read(r io.Reader, filename string, opts Options) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r, opts)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filename)
	}
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return toRows(records), nil
}

func readCSV(r io.Reader, opts Options) ([]Row, error) {
	var reader io.Reader = r
	if enc := opts.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(r, e.NewDecoder())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return toRows(records), nil
}

func isUTF8(enc string) bool {
	switch strings.ToLower(strings.ReplaceAll(enc, "-", "")) {
	case "utf8", "unicode11utf8":
		return true
	}
	return false
}

// toRows keys every record after the first by the trimmed header cells.
// Columns without a header and rows with no values are dropped.
func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return []Row{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				row[header[i]] = cell
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
