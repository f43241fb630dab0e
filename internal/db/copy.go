package db

import (
	"github.com/gyeh/claimstats/internal/model"
	"github.com/jackc/pgx/v5"
)

// PayerMetricSource implements pgx.CopyFromSource over a slice of
// PayerMetricRows.
type PayerMetricSource struct {
	rows []model.PayerMetricRow
	idx  int
}

// NewPayerMetricSource creates a CopyFromSource backed by rows.
func NewPayerMetricSource(rows []model.PayerMetricRow) *PayerMetricSource {
	return &PayerMetricSource{rows: rows, idx: -1}
}

// Next advances to the next row. Returns false after the last row.
func (s *PayerMetricSource) Next() bool {
	s.idx++
	return s.idx < len(s.rows)
}

// Values returns the current row's values in COPY column order.
func (s *PayerMetricSource) Values() ([]any, error) {
	return s.rows[s.idx].CopyValues(), nil
}

// Err returns any error encountered during iteration.
func (s *PayerMetricSource) Err() error {
	return nil
}

// Compile-time check that PayerMetricSource satisfies the interface.
var _ pgx.CopyFromSource = (*PayerMetricSource)(nil)
