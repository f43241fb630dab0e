package metrics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/gyeh/claimstats/internal/model"
)

// Detection thresholds. These are fixed heuristics, not significance tests.
const (
	minMonths    = 3 // distinct service months needed before anything is compared
	recentMonths = 2 // trailing months that form the recent window

	minRecentClaims     = 10
	minHistoricalClaims = 20
	denialSpikeRatio    = 1.5
	denialSpikeFloor    = 0.15

	minRecentPaid     = 20
	minHistoricalPaid = 50
	delayRatio        = 1.3
	delayFloorDays    = 30

	minRecentDenials     = 10
	minHistoricalDenials = 20
	reasonShareRatio     = 1.5
	reasonShareFloor     = 0.20
)

// window is the recent/historical split of a claim list.
type window struct {
	recent     []*model.ClaimRecord
	historical []*model.ClaimRecord
}

// splitWindow puts the last recentMonths service months in the recent window.
// It returns ok=false when fewer than minMonths distinct months exist.
func splitWindow(claims []*model.ClaimRecord) (window, bool) {
	months := groupByMonth(claims)
	if len(months) < minMonths {
		return window{}, false
	}
	recent := make(map[string]bool, recentMonths)
	for _, g := range months[len(months)-recentMonths:] {
		recent[g.key] = true
	}
	var w window
	for _, c := range claims {
		if recent[serviceMonth(c)] {
			w.recent = append(w.recent, c)
		} else {
			w.historical = append(w.historical, c)
		}
	}
	return w, true
}

// DetectAnomalies compares the two most recent service months against all
// earlier months and flags large deteriorations in denial rates, payment
// latency and denial-reason mix. The result is sorted by severity.
func DetectAnomalies(claims []model.ClaimRecord) []model.Anomaly {
	anomalies := make([]model.Anomaly, 0)
	all := refs(claims)
	w, ok := splitWindow(all)
	if !ok {
		return anomalies
	}

	anomalies = append(anomalies, denialSpikes(all, w, payerKey, func(payer string, cur, base float64) model.Anomaly {
		return model.Anomaly{
			Type:        model.AnomalyDenialSpike,
			Severity:    model.SeverityHigh,
			Entity:      payer,
			Description: fmt.Sprintf("%s denial rate spiked to %s%% (was %s%%)", payer, num(cur), num(base)),
		}
	})...)
	anomalies = append(anomalies, denialSpikes(all, w, cptKey, func(cpt string, cur, base float64) model.Anomaly {
		return model.Anomaly{
			Type:        model.AnomalyCPTDenialSpike,
			Severity:    model.SeverityMedium,
			Entity:      cpt,
			Description: fmt.Sprintf("CPT %s denial rate increased to %s%% (was %s%%)", cpt, num(cur), num(base)),
		}
	})...)
	if a, ok := paymentDelay(w); ok {
		anomalies = append(anomalies, a)
	}
	anomalies = append(anomalies, reasonShifts(w)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() < anomalies[j].Severity.Rank()
	})
	return anomalies
}

// denialSpikes checks every entity (first-seen order across all claims) whose
// recent and historical volumes clear the minimums.
func denialSpikes(all []*model.ClaimRecord, w window, key func(*model.ClaimRecord) string, build func(entity string, cur, base float64) model.Anomaly) []model.Anomaly {
	recent := indexGroups(groupBy(w.recent, key))
	historical := indexGroups(groupBy(w.historical, key))

	var out []model.Anomaly
	for _, g := range groupBy(all, key) {
		rc, hc := recent[g.key], historical[g.key]
		if len(rc) < minRecentClaims || len(hc) < minHistoricalClaims {
			continue
		}
		cur := float64(count(rc, isDenied)) / float64(len(rc))
		base := float64(count(hc, isDenied)) / float64(len(hc))
		if cur > base*denialSpikeRatio && cur > denialSpikeFloor {
			c, b := round1(cur*100), round1(base*100)
			a := build(g.key, c, b)
			a.CurrentValue, a.BaselineValue = c, b
			out = append(out, a)
		}
	}
	return out
}

func paymentDelay(w window) (model.Anomaly, bool) {
	recent := filter(w.recent, hasLatency)
	historical := filter(w.historical, hasLatency)
	if len(recent) < minRecentPaid || len(historical) < minHistoricalPaid {
		return model.Anomaly{}, false
	}
	cur, base := meanLatency(recent), meanLatency(historical)
	if cur <= base*delayRatio || cur <= delayFloorDays {
		return model.Anomaly{}, false
	}
	cur, base = round1(cur), round1(base)
	return model.Anomaly{
		Type:          model.AnomalyPaymentDelay,
		Severity:      model.SeverityMedium,
		Entity:        "Overall",
		CurrentValue:  cur,
		BaselineValue: base,
		Description:   fmt.Sprintf("Average days to payment increased to %s days (was %s days)", num(cur), num(base)),
	}, true
}

func reasonShifts(w window) []model.Anomaly {
	recent := filter(w.recent, isDenied)
	historical := filter(w.historical, isDenied)
	if len(recent) < minRecentDenials || len(historical) < minHistoricalDenials {
		return nil
	}
	hist := indexGroups(groupBy(historical, denialReason))

	var out []model.Anomaly
	for _, g := range groupBy(recent, denialReason) {
		cur := float64(len(g.claims)) / float64(len(recent))
		base := float64(len(hist[g.key])) / float64(len(historical))
		if cur > base*reasonShareRatio && cur > reasonShareFloor {
			c, b := round1(cur*100), round1(base*100)
			out = append(out, model.Anomaly{
				Type:          model.AnomalyDenialReasonSpike,
				Severity:      model.SeverityMedium,
				Entity:        g.key,
				CurrentValue:  c,
				BaselineValue: b,
				Description:   fmt.Sprintf("'%s' denials increased to %s%% of denials (was %s%%)", g.key, num(c), num(b)),
			})
		}
	}
	return out
}

func indexGroups(groups []group) map[string][]*model.ClaimRecord {
	m := make(map[string][]*model.ClaimRecord, len(groups))
	for _, g := range groups {
		m[g.key] = g.claims
	}
	return m
}

func meanLatency(claims []*model.ClaimRecord) float64 {
	days := make([]float64, len(claims))
	for i, c := range claims {
		days[i] = paymentLatency(c)
	}
	return mean(days)
}

// num formats a rounded value the shortest way: 40 not 40.0, 23.4 not 23.40.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
