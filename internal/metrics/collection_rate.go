package metrics

import (
	"sort"

	"github.com/gyeh/claimstats/internal/model"
)

// PayerRankLimit is the length of the top and bottom payer lists.
const PayerRankLimit = 3

// CollectionRate computes collected dollars over charged dollars across all
// claims regardless of status, so denied claims count as $0 collected.
func CollectionRate(claims []model.ClaimRecord) model.CollectionRateResult {
	all := refs(claims)
	charged, collected := sumCharge(all), sumPayment(all)

	byPayer := make(model.Breakdown[model.PayerCollection], 0)
	ranked := make([]model.PayerRate, 0)
	for _, g := range groupBy(all, payerKey) {
		pc := model.PayerCollection{
			CollectionRate: rate(float64(sumPayment(g.claims)), float64(sumCharge(g.claims))),
			TotalCharged:   dollars(sumCharge(g.claims)),
			TotalCollected: dollars(sumPayment(g.claims)),
			ClaimCount:     len(g.claims),
		}
		byPayer = append(byPayer, model.Entry[model.PayerCollection]{Key: g.key, Value: pc})
		ranked = append(ranked, model.PayerRate{Payer: g.key, Rate: pc.CollectionRate})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rate > ranked[j].Rate })

	top := append([]model.PayerRate{}, ranked[:min(PayerRankLimit, len(ranked))]...)
	bottom := append([]model.PayerRate{}, ranked[max(0, len(ranked)-PayerRankLimit):]...)
	for i, j := 0, len(bottom)-1; i < j; i, j = i+1, j-1 {
		bottom[i], bottom[j] = bottom[j], bottom[i]
	}

	trend := make(model.Breakdown[float64], 0)
	for _, g := range groupByMonth(all) {
		trend = append(trend, model.Entry[float64]{
			Key:   g.key,
			Value: rate(float64(sumPayment(g.claims)), float64(sumCharge(g.claims))),
		})
	}

	return model.CollectionRateResult{
		OverallRate:    rate(float64(collected), float64(charged)),
		TotalCharged:   dollars(charged),
		TotalCollected: dollars(collected),
		ByPayer:        byPayer,
		MonthlyTrend:   trend,
		TopPayers:      top,
		BottomPayers:   bottom,
	}
}
