package metrics

import (
	"time"

	"github.com/gyeh/claimstats/internal/model"
)

// DaysInAR computes payment latency for paid claims and the aging of pending
// claims measured against asOf. Paid or partial claims without a payment date
// are left out of the latency figures.
func DaysInAR(claims []model.ClaimRecord, asOf time.Time) model.DaysInARResult {
	all := refs(claims)

	var pooled []float64
	byPayer := make(model.Breakdown[model.PayerLatency], 0)
	for _, g := range groupBy(filter(all, hasLatency), payerKey) {
		days := make([]float64, len(g.claims))
		for i, c := range g.claims {
			days[i] = paymentLatency(c)
		}
		pooled = append(pooled, days...)
		byPayer = append(byPayer, model.Entry[model.PayerLatency]{
			Key: g.key,
			Value: model.PayerLatency{
				AvgDays:    round1(mean(days)),
				MedianDays: round1(median(days)),
				ClaimCount: len(days),
			},
		})
	}

	pending := filter(all, isPending)
	var buckets model.AgingBuckets
	for _, c := range pending {
		switch d := daysBetween(c.ServiceDate, asOf); {
		case d <= 30:
			buckets.Days0To30++
		case d <= 60:
			buckets.Days31To60++
		case d <= 90:
			buckets.Days61To90++
		default:
			buckets.Days90Plus++
		}
	}

	return model.DaysInARResult{
		OverallAvgDays:    round1(mean(pooled)),
		ByPayer:           byPayer,
		AgingBuckets:      buckets,
		TotalARValue:      dollars(sumCharge(pending)),
		PendingClaimCount: len(pending),
	}
}
