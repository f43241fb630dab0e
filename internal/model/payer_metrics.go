package model

import "github.com/google/uuid"

// PayerMetricRow is the per-payer aggregate persisted for an analysis.
// Rates a payer has no data for are nil.
type PayerMetricRow struct {
	AnalysisID       uuid.UUID
	Payer            string
	ClaimCount       int
	DenialRate       *float64
	CleanClaimRate   *float64
	CollectionRate   float64
	AvgDaysToPayment *float64
	TotalCharged     float64
	TotalCollected   float64
}

// PayerMetricColumns returns the column names in COPY order.
func PayerMetricColumns() []string {
	return []string{
		"analysis_id",
		"payer",
		"claim_count",
		"denial_rate",
		"clean_claim_rate",
		"collection_rate",
		"avg_days_to_payment",
		"total_charged",
		"total_collected",
	}
}

// CopyValues returns the row values in the same order as PayerMetricColumns(),
// suitable for pgx CopyFromSource.
func (r *PayerMetricRow) CopyValues() []any {
	return []any{
		r.AnalysisID,
		r.Payer,
		r.ClaimCount,
		r.DenialRate,
		r.CleanClaimRate,
		r.CollectionRate,
		r.AvgDaysToPayment,
		r.TotalCharged,
		r.TotalCollected,
	}
}

// PayerMetricRows flattens the per-payer breakdowns of a report into rows,
// one per payer in collection-rate (first-seen) order.
func PayerMetricRows(id uuid.UUID, m *AllMetrics) []PayerMetricRow {
	rows := make([]PayerMetricRow, 0, len(m.CollectionRate.ByPayer))
	for _, e := range m.CollectionRate.ByPayer {
		row := PayerMetricRow{
			AnalysisID:     id,
			Payer:          e.Key,
			ClaimCount:     e.Value.ClaimCount,
			CollectionRate: e.Value.CollectionRate,
			TotalCharged:   e.Value.TotalCharged,
			TotalCollected: e.Value.TotalCollected,
		}
		if v, ok := m.DenialRate.ByPayer.Get(e.Key); ok {
			row.DenialRate = &v
		}
		if v, ok := m.CleanClaimRate.ByPayer.Get(e.Key); ok {
			row.CleanClaimRate = &v
		}
		if v, ok := m.DaysInAR.ByPayer.Get(e.Key); ok {
			avg := v.AvgDays
			row.AvgDaysToPayment = &avg
		}
		rows = append(rows, row)
	}
	return rows
}
