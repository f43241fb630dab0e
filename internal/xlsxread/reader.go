// Package xlsxread reads claim rows from the first sheet of an Excel workbook.
package xlsxread

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

// ErrEmptyWorkbook is returned when the workbook has no sheets or no header row.
var ErrEmptyWorkbook = errors.New("workbook has no data")

// Reader holds an open workbook.
type Reader struct {
	file  *excelize.File
	sheet string
}

// Open opens an .xlsx workbook and selects its first sheet.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, ErrEmptyWorkbook
	}
	return &Reader{file: f, sheet: sheets[0]}, nil
}

// Rows returns every row of the sheet as raw cell values. Date cells come
// back as Excel serial numbers rather than formatted text.
func (r *Reader) Rows() ([][]string, error) {
	rows, err := r.file.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", r.sheet, err)
	}
	return rows, nil
}

// Result is the header mapping and raw claims extracted from a sheet.
type Result struct {
	Mapping  normalize.HeaderMapping
	Claims   []model.RawClaim
	RowsRead int // data rows seen, empty rows excluded
}

// ReadAll maps the header row using the built-in and extra column aliases and
// converts each non-empty data row. RawClaim.RowNumber is the 1-based sheet
// row, so the first data row is 2.
func (r *Reader) ReadAll(extraAliases map[string][]string) (*Result, error) {
	rows, err := r.Rows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	res := &Result{Mapping: normalize.MapHeaders(rows[0], extraAliases)}
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		res.RowsRead++
		res.Claims = append(res.Claims, res.Mapping.Apply(i+1, rows[i]))
	}
	return res, nil
}

// Close releases the workbook.
func (r *Reader) Close() error {
	return r.file.Close()
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
