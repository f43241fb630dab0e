package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
	"github.com/gyeh/claimstats/internal/parquetread"
	"github.com/gyeh/claimstats/internal/xlsxread"
)

// ParseResult holds the normalized claims and parse diagnostics.
type ParseResult struct {
	Claims       []model.ClaimRecord
	Warnings     []string
	Columns      map[string]string // canonical column -> source header
	RowsRead     int64
	RowsRejected int64
	Duration     time.Duration
}

// Parse reads the file named by pf and normalizes every row. Rows that fail
// normalization are skipped with a warning. A file with no usable claims
// fails with ErrNoClaims.
func Parse(log zerolog.Logger, pf *PreflightResult, extraAliases map[string][]string) (*ParseResult, error) {
	start := time.Now()

	var (
		raws    []model.RawClaim
		columns map[string]string
		err     error
	)
	switch pf.Format {
	case FormatXLSX:
		raws, columns, err = readXLSX(pf.FilePath, extraAliases)
	case FormatParquet:
		raws, columns, err = readParquet(pf.FilePath)
	default:
		err = fmt.Errorf("%w: format %q", ErrUnsupportedFile, pf.Format)
	}
	if err != nil {
		return nil, err
	}

	res := &ParseResult{
		Claims:   make([]model.ClaimRecord, 0, len(raws)),
		Columns:  columns,
		RowsRead: int64(len(raws)),
	}
	for _, raw := range raws {
		rec, err := normalize.ToClaimRecord(raw)
		if err != nil {
			res.RowsRejected++
			res.Warnings = append(res.Warnings, normalize.RowWarning(raw.RowNumber, err))
			log.Debug().Err(err).Int("row", raw.RowNumber).Msg("row skipped")
			continue
		}
		res.Claims = append(res.Claims, *rec)
	}
	res.Duration = time.Since(start)

	log.Info().
		Int64("rows_read", res.RowsRead).
		Int("claims", len(res.Claims)).
		Int64("rows_rejected", res.RowsRejected).
		Dur("duration", res.Duration).
		Msg("parse complete")

	if len(res.Claims) == 0 {
		return res, ErrNoClaims
	}
	return res, nil
}

func readXLSX(path string, extraAliases map[string][]string) ([]model.RawClaim, map[string]string, error) {
	r, err := xlsxread.Open(path)
	if err != nil {
		return nil, nil, workbookError(err)
	}
	defer r.Close()

	res, err := r.ReadAll(extraAliases)
	if err != nil {
		return nil, nil, workbookError(err)
	}
	if missing := res.Mapping.Missing(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return res.Claims, res.Mapping.Source, nil
}

// workbookError classifies a spreadsheet failure as an input error.
func workbookError(err error) error {
	if errors.Is(err, xlsxread.ErrEmptyWorkbook) {
		return ErrNoDataRows
	}
	return fmt.Errorf("%w: %w", ErrUnreadableFile, err)
}

func readParquet(path string) ([]model.RawClaim, map[string]string, error) {
	r, err := parquetread.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer r.Close()

	if missing := parquetread.MissingColumns(r.Schema()); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	columns := make(map[string]string)
	for _, f := range r.Schema().Fields() {
		name := strings.ToLower(f.Name())
		if _, ok := model.ColumnByName(name); ok {
			columns[name] = f.Name()
		}
	}

	raws, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	return raws, columns, nil
}
