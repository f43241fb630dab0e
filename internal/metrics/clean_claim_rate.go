package metrics

import "github.com/gyeh/claimstats/internal/model"

// CleanClaimRate computes the share of resolved (non-pending) claims that were
// paid in full.
func CleanClaimRate(claims []model.ClaimRecord) model.CleanClaimRateResult {
	resolved := filter(refs(claims), isResolved)
	clean := count(resolved, isPaid)

	byPayer := rateBreakdown(groupBy(resolved, payerKey), isPaid)
	sortByRateDesc(byPayer)
	byProvider := rateBreakdown(groupBy(resolved, providerKey), isPaid)
	sortByRateDesc(byProvider)

	return model.CleanClaimRateResult{
		OverallRate:   countRate(clean, len(resolved)),
		CleanCount:    clean,
		TotalResolved: len(resolved),
		ByPayer:       byPayer,
		ByProvider:    byProvider,
		MonthlyTrend:  rateBreakdown(groupByMonth(resolved), isPaid),
	}
}
