package metrics

import (
	"testing"

	"github.com/gyeh/claimstats/internal/model"
)

func TestDaysInAR_Latency(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-01-01", model.StatusPaid, paidOn("2024-01-31")),
		mk("2024-01-01", model.StatusPartial, paidOn("2024-01-11")),
		mk("2024-01-01", model.StatusPaid, payer("Beta"), paidOn("2024-02-15")),
		mk("2024-01-01", model.StatusPaid, payer("Beta")), // no payment date
		mk("2024-01-01", model.StatusDenied, paidOn("2024-03-01")),
	}
	r := DaysInAR(claims, day("2024-06-30"))

	acme, ok := r.ByPayer.Get("Acme")
	if !ok {
		t.Fatal("missing Acme")
	}
	if acme.ClaimCount != 2 || acme.AvgDays != 20 || acme.MedianDays != 20 {
		t.Errorf("Acme: %+v", acme)
	}
	beta, _ := r.ByPayer.Get("Beta")
	if beta.ClaimCount != 1 || beta.AvgDays != 45 {
		t.Errorf("Beta: %+v", beta)
	}
	// pooled (30+10+45)/3, not the mean of payer means
	if r.OverallAvgDays != 28.3 {
		t.Errorf("OverallAvgDays: got %v, want 28.3", r.OverallAvgDays)
	}
	if keys := r.ByPayer.Keys(); keys[0] != "Acme" || keys[1] != "Beta" {
		t.Errorf("payer order: %v", keys)
	}
}

func TestDaysInAR_ThirtyDayClaim(t *testing.T) {
	r := DaysInAR([]model.ClaimRecord{mk("2024-01-01", model.StatusPaid, paidOn("2024-01-31"))}, day("2024-06-30"))
	if r.OverallAvgDays != 30 {
		t.Errorf("got %v, want 30", r.OverallAvgDays)
	}
}

func TestDaysInAR_AgingBuckets(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-05-31", model.StatusPending, charge(1050)), // 30 days
		mk("2024-05-30", model.StatusPending, charge(2000)), // 31
		mk("2024-05-01", model.StatusPending),               // 60
		mk("2024-04-30", model.StatusPending),               // 61
		mk("2024-04-01", model.StatusPending),               // 90
		mk("2024-03-31", model.StatusPending),               // 91
		mk("2024-03-31", model.StatusPaid, paidOn("2024-04-10")),
	}
	r := DaysInAR(claims, day("2024-06-30"))

	want := model.AgingBuckets{Days0To30: 1, Days31To60: 2, Days61To90: 2, Days90Plus: 1}
	if r.AgingBuckets != want {
		t.Errorf("buckets: got %+v, want %+v", r.AgingBuckets, want)
	}
	if r.PendingClaimCount != 6 || r.AgingBuckets.Total() != r.PendingClaimCount {
		t.Errorf("pending count %d, bucket total %d", r.PendingClaimCount, r.AgingBuckets.Total())
	}
	if r.TotalARValue != 430.5 {
		t.Errorf("TotalARValue: got %v, want 430.5", r.TotalARValue)
	}
}

func TestDaysInAR_Empty(t *testing.T) {
	r := DaysInAR(nil, day("2024-06-30"))
	if r.OverallAvgDays != 0 || r.PendingClaimCount != 0 || len(r.ByPayer) != 0 || r.TotalARValue != 0 {
		t.Errorf("unexpected result for empty input: %+v", r)
	}
}
