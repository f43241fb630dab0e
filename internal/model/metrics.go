package model

import "encoding/json"

// PayerLatency is the payment latency summary for one payer.
type PayerLatency struct {
	AvgDays    float64 `json:"avg_days"`
	MedianDays float64 `json:"median_days"`
	ClaimCount int     `json:"claim_count"`
}

// AgingBuckets counts pending claims by days outstanding.
type AgingBuckets struct {
	Days0To30  int `json:"0-30 days"`
	Days31To60 int `json:"31-60 days"`
	Days61To90 int `json:"61-90 days"`
	Days90Plus int `json:"90+ days"`
}

// Total returns the number of claims across all buckets.
func (a AgingBuckets) Total() int {
	return a.Days0To30 + a.Days31To60 + a.Days61To90 + a.Days90Plus
}

// DaysInARResult holds payment latency and pending aging.
type DaysInARResult struct {
	OverallAvgDays    float64                 `json:"overall_avg_days"`
	ByPayer           Breakdown[PayerLatency] `json:"by_payer"`
	AgingBuckets      AgingBuckets            `json:"aging_buckets"`
	TotalARValue      float64                 `json:"total_ar_value"`
	PendingClaimCount int                     `json:"pending_claim_count"`
}

// DenialRateResult holds denial rates and their breakdowns.
type DenialRateResult struct {
	OverallRate  float64            `json:"overall_rate"`
	DeniedCount  int                `json:"denied_count"`
	TotalCount   int                `json:"total_count"`
	ByPayer      Breakdown[float64] `json:"by_payer"`
	ByReason     Breakdown[int]     `json:"by_reason"`
	ByReasonPct  Breakdown[float64] `json:"by_reason_pct"`
	MonthlyTrend Breakdown[float64] `json:"monthly_trend"`
	ByCPT        Breakdown[float64] `json:"by_cpt"`
	DenialValue  float64            `json:"denial_value"`
}

// CleanClaimRateResult holds first-pass resolution rates.
type CleanClaimRateResult struct {
	OverallRate   float64            `json:"overall_rate"`
	CleanCount    int                `json:"clean_count"`
	TotalResolved int                `json:"total_resolved"`
	ByPayer       Breakdown[float64] `json:"by_payer"`
	ByProvider    Breakdown[float64] `json:"by_provider"`
	MonthlyTrend  Breakdown[float64] `json:"monthly_trend"`
}

// PayerCollection is the collection summary for one payer.
type PayerCollection struct {
	CollectionRate float64 `json:"collection_rate"`
	TotalCharged   float64 `json:"total_charged"`
	TotalCollected float64 `json:"total_collected"`
	ClaimCount     int     `json:"claim_count"`
}

// PayerRate pairs a payer with a rate. It encodes as a two-element JSON array.
type PayerRate struct {
	Payer string
	Rate  float64
}

func (p PayerRate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Payer, p.Rate})
}

// CollectionRateResult holds collected-vs-charged ratios.
type CollectionRateResult struct {
	OverallRate    float64                    `json:"overall_rate"`
	TotalCharged   float64                    `json:"total_charged"`
	TotalCollected float64                    `json:"total_collected"`
	ByPayer        Breakdown[PayerCollection] `json:"by_payer"`
	MonthlyTrend   Breakdown[float64]         `json:"monthly_trend"`
	TopPayers      []PayerRate                `json:"top_payers"`
	BottomPayers   []PayerRate                `json:"bottom_payers"`
}

// Severity ranks an anomaly. Lower rank sorts first.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort position of the severity.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Anomaly types.
const (
	AnomalyDenialSpike       = "denial_spike"
	AnomalyCPTDenialSpike    = "cpt_denial_spike"
	AnomalyPaymentDelay      = "payment_delay"
	AnomalyDenialReasonSpike = "denial_reason_spike"
)

// Anomaly is a single recent-vs-historical finding.
type Anomaly struct {
	Type          string   `json:"type"`
	Severity      Severity `json:"severity"`
	Entity        string   `json:"entity"`
	CurrentValue  float64  `json:"current_value"`
	BaselineValue float64  `json:"baseline_value"`
	Description   string   `json:"description"`
}

// DateRange is the inclusive span of service dates, as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportSummary carries dataset totals.
type ReportSummary struct {
	TotalClaims    int       `json:"total_claims"`
	TotalCharged   float64   `json:"total_charged"`
	TotalCollected float64   `json:"total_collected"`
	DateRange      DateRange `json:"date_range"`
}

// AllMetrics is the full analytics report for one claim set.
type AllMetrics struct {
	DaysInAR       DaysInARResult       `json:"days_in_ar"`
	DenialRate     DenialRateResult     `json:"denial_rate"`
	CleanClaimRate CleanClaimRateResult `json:"clean_claim_rate"`
	CollectionRate CollectionRateResult `json:"collection_rate"`
	Anomalies      []Anomaly            `json:"anomalies"`
	Summary        ReportSummary        `json:"summary"`
}
