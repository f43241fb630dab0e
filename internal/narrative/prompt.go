package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

// SummaryPrompt renders the metrics digest and instructions for an external
// summary writer.
func SummaryPrompt(m *model.AllMetrics) string {
	var b strings.Builder
	b.WriteString("You are an RCM (Revenue Cycle Management) analyst for a healthcare practice.\n")
	b.WriteString("The practice manager needs a clear executive summary of their revenue cycle health that can be sent via email.\n\n")
	b.WriteString("Based on the following metrics, write a concise executive summary (3-4 paragraphs) that:\n")
	b.WriteString("1. Opens with the overall health assessment (strong, needs attention, or concerning)\n")
	b.WriteString("2. Highlights the most important metrics, good or bad\n")
	b.WriteString("3. Calls out any anomalies or trends that need attention\n")
	b.WriteString("4. Keeps it accessible for a non-technical practice manager\n\n")
	b.WriteString(Digest(m))
	b.WriteString("\nWrite in a professional but conversational tone. Use specific numbers and explain what they mean in plain language.\n")
	b.WriteString("Do NOT use markdown headers or formatting. Write clean paragraphs suitable for email, no more than 4.\n")
	return b.String()
}

// RecommendationsPrompt asks for exactly three one-line recommendations.
func RecommendationsPrompt(m *model.AllMetrics) string {
	var b strings.Builder
	b.WriteString("Based on these RCM metrics, provide exactly 3 specific, actionable recommendations.\n")
	b.WriteString("Each should be one sentence and immediately actionable.\n\nMetrics:\n")
	fmt.Fprintf(&b, "- Denial rate: %s%% (%s claims, $%s)\n",
		num(m.DenialRate.OverallRate), count(m.DenialRate.DeniedCount), num(m.DenialRate.DenialValue))
	fmt.Fprintf(&b, "- Days in A/R: %s days\n", num(m.DaysInAR.OverallAvgDays))
	fmt.Fprintf(&b, "- Clean claim rate: %s%%\n", num(m.CleanClaimRate.OverallRate))
	fmt.Fprintf(&b, "- Collection rate: %s%%\n", num(m.CollectionRate.OverallRate))
	fmt.Fprintf(&b, "- Top denial reasons: %s\n", jsonHead(m.DenialRate.ByReason, 3))
	fmt.Fprintf(&b, "- Worst payers by denial: %s\n", jsonHead(m.DenialRate.ByPayer, 3))
	fmt.Fprintf(&b, "- Claims over 90 days: %d\n\n", m.DaysInAR.AgingBuckets.Days90Plus)
	b.WriteString("Respond with exactly 3 recommendations, one per line, no numbering or bullets.\n")
	return b.String()
}

// Digest is the plain-text metrics section shared by the prompts.
func Digest(m *model.AllMetrics) string {
	var b strings.Builder
	b.WriteString("## Current RCM Metrics\n\n")

	b.WriteString("### Days in A/R\n")
	fmt.Fprintf(&b, "- Average days to payment: %s days\n", num(m.DaysInAR.OverallAvgDays))
	fmt.Fprintf(&b, "- Total A/R value: $%s\n", num(m.DaysInAR.TotalARValue))
	fmt.Fprintf(&b, "- Pending claims: %s\n", count(m.DaysInAR.PendingClaimCount))
	fmt.Fprintf(&b, "- Aging breakdown: %s\n\n", mustJSON(m.DaysInAR.AgingBuckets))

	b.WriteString("### Denial Rate\n")
	fmt.Fprintf(&b, "- Overall denial rate: %s%%\n", num(m.DenialRate.OverallRate))
	fmt.Fprintf(&b, "- Total denied: %s of %s claims\n", count(m.DenialRate.DeniedCount), count(m.DenialRate.TotalCount))
	fmt.Fprintf(&b, "- Denial value: $%s\n", num(m.DenialRate.DenialValue))
	fmt.Fprintf(&b, "- Top denial reasons: %s\n", jsonHead(m.DenialRate.ByReason, 5))
	fmt.Fprintf(&b, "- Denial rate by payer: %s\n\n", jsonHead(m.DenialRate.ByPayer, 5))

	b.WriteString("### Clean Claim Rate\n")
	fmt.Fprintf(&b, "- Overall rate: %s%%\n", num(m.CleanClaimRate.OverallRate))
	fmt.Fprintf(&b, "- Clean claims: %s of %s\n\n", count(m.CleanClaimRate.CleanCount), count(m.CleanClaimRate.TotalResolved))

	b.WriteString("### Collection Rate\n")
	fmt.Fprintf(&b, "- Overall rate: %s%%\n", num(m.CollectionRate.OverallRate))
	fmt.Fprintf(&b, "- Total charged: $%s\n", num(m.CollectionRate.TotalCharged))
	fmt.Fprintf(&b, "- Total collected: $%s\n\n", num(m.CollectionRate.TotalCollected))

	b.WriteString("### Detected Anomalies\n")
	if len(m.Anomalies) == 0 {
		b.WriteString("No significant anomalies detected\n")
	} else {
		data, _ := json.MarshalIndent(m.Anomalies, "", "  ")
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

func jsonHead[V any](bd model.Breakdown[V], n int) string {
	return mustJSON(bd[:min(n, len(bd))])
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
