// Package metrics computes revenue-cycle performance metrics and anomalies
// from a normalized claim list. Every function is pure: the input slice is
// never modified and identical input yields identical output.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/gyeh/claimstats/internal/model"
)

// group is one key of a groupBy result with its claims in input order.
type group struct {
	key    string
	claims []*model.ClaimRecord
}

// refs returns pointers into claims so the calculators never copy records.
func refs(claims []model.ClaimRecord) []*model.ClaimRecord {
	out := make([]*model.ClaimRecord, len(claims))
	for i := range claims {
		out[i] = &claims[i]
	}
	return out
}

// groupBy partitions claims by key. Groups appear in first-seen key order
// and keep the relative input order of their members.
func groupBy(claims []*model.ClaimRecord, key func(*model.ClaimRecord) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, c := range claims {
		k := key(c)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].claims = append(groups[i].claims, c)
	}
	return groups
}

// groupByMonth groups claims by service month in chronological order.
func groupByMonth(claims []*model.ClaimRecord) []group {
	groups := groupBy(claims, serviceMonth)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}

func filter(claims []*model.ClaimRecord, keep func(*model.ClaimRecord) bool) []*model.ClaimRecord {
	var out []*model.ClaimRecord
	for _, c := range claims {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func count(claims []*model.ClaimRecord, pred func(*model.ClaimRecord) bool) int {
	n := 0
	for _, c := range claims {
		if pred(c) {
			n++
		}
	}
	return n
}

func sumCharge(claims []*model.ClaimRecord) int64 {
	var s int64
	for _, c := range claims {
		s += c.ChargeCents
	}
	return s
}

func sumPayment(claims []*model.ClaimRecord) int64 {
	var s int64
	for _, c := range claims {
		s += c.PaymentCents
	}
	return s
}

// rate returns num/den as a percentage rounded to one decimal, or 0 when den is 0.
func rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round1(100 * num / den)
}

func countRate(num, den int) float64 {
	return rate(float64(num), float64(den))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// dollars converts cents to a dollar amount rounded to the cent.
func dollars(cents int64) float64 { return round2(float64(cents) / 100) }

func yearMonth(t time.Time) string { return t.UTC().Format("2006-01") }

// daysBetween returns the whole-day distance between two instants, rounded up.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// paymentLatency is the days from service to payment. Callers must check HasPaymentDate.
func paymentLatency(c *model.ClaimRecord) float64 {
	return float64(daysBetween(c.ServiceDate, *c.PaymentDate))
}

func serviceMonth(c *model.ClaimRecord) string { return yearMonth(c.ServiceDate) }
func payerKey(c *model.ClaimRecord) string     { return c.Payer }
func providerKey(c *model.ClaimRecord) string  { return c.Provider }
func cptKey(c *model.ClaimRecord) string       { return c.CPTCode }

func isDenied(c *model.ClaimRecord) bool   { return c.Status == model.StatusDenied }
func isPaid(c *model.ClaimRecord) bool     { return c.Status == model.StatusPaid }
func isPending(c *model.ClaimRecord) bool  { return c.Status == model.StatusPending }
func isResolved(c *model.ClaimRecord) bool { return c.Status != model.StatusPending }

func hasLatency(c *model.ClaimRecord) bool { return c.Status.Paid() && c.HasPaymentDate() }

// denialReason returns the claim's denial reason, "Unknown" when missing.
func denialReason(c *model.ClaimRecord) string {
	if c.DenialReason == "" {
		return "Unknown"
	}
	return c.DenialReason
}

// sortByRateDesc stably sorts a rate breakdown highest first; ties keep first-seen order.
func sortByRateDesc(b model.Breakdown[float64]) {
	sort.SliceStable(b, func(i, j int) bool { return b[i].Value > b[j].Value })
}

// rateBreakdown computes rate(#pred, #group) for each group, in group order.
func rateBreakdown(groups []group, pred func(*model.ClaimRecord) bool) model.Breakdown[float64] {
	out := make(model.Breakdown[float64], 0, len(groups))
	for _, g := range groups {
		out = append(out, model.Entry[float64]{Key: g.key, Value: countRate(count(g.claims, pred), len(g.claims))})
	}
	return out
}
