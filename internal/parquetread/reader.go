// Package parquetread streams claim rows out of Parquet files.
package parquetread

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

const batchSize = 1024

// Reader wraps a parquet GenericReader for streaming ClaimRow records.
type Reader struct {
	file   *os.File
	pf     *parquet.File
	reader *parquet.GenericReader[model.ClaimRow]
}

// Open opens a Parquet file and returns a streaming Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[model.ClaimRow](pf)
	return &Reader{file: f, pf: pf, reader: r}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader) Read(rows []model.ClaimRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// ReadAll drains the reader. Row numbers are 1-based data row positions.
func (r *Reader) ReadAll() ([]model.RawClaim, error) {
	out := make([]model.RawClaim, 0, r.NumRows())
	buf := make([]model.ClaimRow, batchSize)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			out = append(out, normalize.FromClaimRow(&buf[i], len(out)+1))
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

// Schema returns the file's own Parquet schema for validation.
func (r *Reader) Schema() *parquet.Schema {
	return r.pf.Schema()
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
