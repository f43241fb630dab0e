package metrics

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/claimstats/internal/model"
)

// ComputeReport builds the full report with pending claims aged against the
// current time.
func ComputeReport(claims []model.ClaimRecord) *model.AllMetrics {
	return ComputeReportAt(claims, time.Now())
}

// ComputeReportAt runs every calculator and the anomaly detector over claims
// and merges the results with dataset totals. The calculators share the input
// read-only and each writes only its own field, so they run concurrently.
func ComputeReportAt(claims []model.ClaimRecord, asOf time.Time) *model.AllMetrics {
	r := &model.AllMetrics{}

	var g errgroup.Group
	g.Go(func() error { r.DaysInAR = DaysInAR(claims, asOf); return nil })
	g.Go(func() error { r.DenialRate = DenialRate(claims); return nil })
	g.Go(func() error { r.CleanClaimRate = CleanClaimRate(claims); return nil })
	g.Go(func() error { r.CollectionRate = CollectionRate(claims); return nil })
	g.Go(func() error { r.Anomalies = DetectAnomalies(claims); return nil })
	_ = g.Wait()

	r.Summary = Summarize(claims)
	return r
}

// Summarize returns claim count, charge and payment totals, and the service
// date span of claims.
func Summarize(claims []model.ClaimRecord) model.ReportSummary {
	all := refs(claims)
	s := model.ReportSummary{
		TotalClaims:    len(all),
		TotalCharged:   dollars(sumCharge(all)),
		TotalCollected: dollars(sumPayment(all)),
	}
	if len(all) == 0 {
		return s
	}
	first, last := all[0].ServiceDate, all[0].ServiceDate
	for _, c := range all[1:] {
		if c.ServiceDate.Before(first) {
			first = c.ServiceDate
		}
		if c.ServiceDate.After(last) {
			last = c.ServiceDate
		}
	}
	s.DateRange = model.DateRange{
		Start: first.UTC().Format(time.DateOnly),
		End:   last.UTC().Format(time.DateOnly),
	}
	return s
}
