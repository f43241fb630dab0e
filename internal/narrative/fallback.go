package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

// Health labels.
const (
	HealthHealthy    = "healthy"
	HealthAttention  = "needs attention"
	HealthConcerning = "concerning"
)

// Health classifies the report from its headline rates.
func Health(m *model.AllMetrics) string {
	denial := m.DenialRate.OverallRate
	collection := m.CollectionRate.OverallRate
	days := m.DaysInAR.OverallAvgDays
	switch {
	case denial < 8 && collection > 55 && days < 35:
		return HealthHealthy
	case denial > 15 || collection < 45 || days > 45:
		return HealthConcerning
	default:
		return HealthAttention
	}
}

// Fallback is the deterministic rule-based Generator. It never fails.
type Fallback struct{}

func (Fallback) Summary(_ context.Context, m *model.AllMetrics) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Your practice's revenue cycle health is %s. ", Health(m))
	fmt.Fprintf(&b, "We analyzed %s claims totaling $%s in charges.\n\n",
		count(m.DenialRate.TotalCount), num(m.CollectionRate.TotalCharged))

	fmt.Fprintf(&b, "Your current denial rate is %s%% (industry target: under 5%%), ", num(m.DenialRate.OverallRate))
	fmt.Fprintf(&b, "with an average of %s days to payment (target: under 30 days). ", num(m.DaysInAR.OverallAvgDays))
	fmt.Fprintf(&b, "Your clean claim rate stands at %s%%, ", num(m.CleanClaimRate.OverallRate))
	fmt.Fprintf(&b, "and you're collecting %s%% of billed charges.\n\n", num(m.CollectionRate.OverallRate))

	if len(m.Anomalies) > 0 {
		b.WriteString("We detected some issues that need your attention:\n")
		for i, a := range m.Anomalies {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", a.Description)
		}
	}
	return b.String(), nil
}

func (Fallback) Recommendations(_ context.Context, m *model.AllMetrics) ([]string, error) {
	var recs []string

	if m.DenialRate.OverallRate > 10 && len(m.DenialRate.ByReason) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Focus on reducing %q denials, which account for a significant portion of your %s%% denial rate.",
			m.DenialRate.ByReason[0].Key, num(m.DenialRate.OverallRate)))
	}

	if over := m.DaysInAR.AgingBuckets.Days90Plus; over > 10 {
		recs = append(recs, fmt.Sprintf(
			"Prioritize working the %s claims over 90 days old before they become uncollectable.", count(over)))
	}

	if len(m.DenialRate.ByPayer) > 0 {
		worst := m.DenialRate.ByPayer[0]
		if worst.Value > 15 {
			recs = append(recs, fmt.Sprintf(
				"Review your %s claims process, as they have a %s%% denial rate.", worst.Key, num(worst.Value)))
		}
	}

	if len(recs) < MaxRecommendations {
		recs = append(recs, fmt.Sprintf(
			"Monitor your %s-day average A/R to prevent cash flow issues.", num(m.DaysInAR.OverallAvgDays)))
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs, nil
}
