package metrics

import "github.com/gyeh/claimstats/internal/model"

// TopCPTLimit caps the number of CPT codes in the denial breakdown.
const TopCPTLimit = 10

// DenialRate computes the share of denied claims overall and by payer, reason,
// CPT code and service month. denial_value sums the full charge of denied
// claims, not the uncollected remainder.
func DenialRate(claims []model.ClaimRecord) model.DenialRateResult {
	all := refs(claims)
	denied := filter(all, isDenied)

	byPayer := rateBreakdown(groupBy(all, payerKey), isDenied)
	sortByRateDesc(byPayer)

	byReason := make(model.Breakdown[int], 0)
	byReasonPct := make(model.Breakdown[float64], 0)
	for _, g := range groupBy(denied, denialReason) {
		byReason = append(byReason, model.Entry[int]{Key: g.key, Value: len(g.claims)})
		byReasonPct = append(byReasonPct, model.Entry[float64]{Key: g.key, Value: countRate(len(g.claims), len(denied))})
	}

	byCPT := rateBreakdown(groupBy(all, cptKey), isDenied)
	sortByRateDesc(byCPT)
	if len(byCPT) > TopCPTLimit {
		byCPT = byCPT[:TopCPTLimit]
	}

	return model.DenialRateResult{
		OverallRate:  countRate(len(denied), len(all)),
		DeniedCount:  len(denied),
		TotalCount:   len(all),
		ByPayer:      byPayer,
		ByReason:     byReason,
		ByReasonPct:  byReasonPct,
		MonthlyTrend: rateBreakdown(groupByMonth(all), isDenied),
		ByCPT:        byCPT,
		DenialValue:  dollars(sumCharge(denied)),
	}
}
