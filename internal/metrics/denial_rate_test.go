package metrics

import (
	"fmt"
	"testing"

	"github.com/gyeh/claimstats/internal/model"
)

func TestDenialRate_TwelveClaims(t *testing.T) {
	claims := concat(
		repeat(2, "2024-02-10", model.StatusDenied, payer("Acme")),
		repeat(10, "2024-02-12", model.StatusPaid, payer("Beta")),
	)
	r := DenialRate(claims)
	if r.OverallRate != 16.7 || r.DeniedCount != 2 || r.TotalCount != 12 {
		t.Fatalf("got rate=%v denied=%d total=%d", r.OverallRate, r.DeniedCount, r.TotalCount)
	}
	if v, _ := r.MonthlyTrend.Get("2024-02"); v != 16.7 {
		t.Errorf("monthly trend: got %v", v)
	}
	if v, _ := r.ByPayer.Get("Acme"); v != 100 {
		t.Errorf("Acme: got %v", v)
	}
	if r.DenialValue != 200 {
		t.Errorf("DenialValue: got %v, want 200", r.DenialValue)
	}
}

func TestDenialRate_ByPayerSortedWithStableTies(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-01-01", model.StatusPaid, payer("A")),
		mk("2024-01-01", model.StatusPaid, payer("B")),
		mk("2024-01-01", model.StatusDenied, payer("B")),
		mk("2024-01-01", model.StatusDenied, payer("C")),
		mk("2024-01-01", model.StatusPaid, payer("C")),
		mk("2024-01-01", model.StatusDenied, payer("D")),
	}
	r := DenialRate(claims)
	want := []string{"D", "B", "C", "A"}
	for i, k := range r.ByPayer.Keys() {
		if k != want[i] {
			t.Fatalf("by_payer order: got %v, want %v", r.ByPayer.Keys(), want)
		}
	}
}

func TestDenialRate_Reasons(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-01-01", model.StatusDenied, reason("CO-16")),
		mk("2024-01-01", model.StatusDenied),
		mk("2024-01-01", model.StatusDenied, reason("CO-16")),
		mk("2024-01-01", model.StatusDenied, reason("CO-197")),
		mk("2024-01-01", model.StatusPaid, reason("ignored")),
	}
	r := DenialRate(claims)
	if got := r.ByReason.Keys(); len(got) != 3 || got[0] != "CO-16" || got[1] != "Unknown" || got[2] != "CO-197" {
		t.Fatalf("reasons: %v", got)
	}
	if n, _ := r.ByReason.Get("CO-16"); n != 2 {
		t.Errorf("CO-16 count: %d", n)
	}
	if p, _ := r.ByReasonPct.Get("CO-16"); p != 50 {
		t.Errorf("CO-16 pct: %v", p)
	}
	if p, _ := r.ByReasonPct.Get("Unknown"); p != 25 {
		t.Errorf("Unknown pct: %v", p)
	}
}

func TestDenialRate_TopTenCPT(t *testing.T) {
	var claims []model.ClaimRecord
	for i := 0; i < 12; i++ {
		code := fmt.Sprintf("9920%02d", i)
		claims = append(claims, mk("2024-01-01", model.StatusPaid, cpt(code)))
		if i%3 == 0 {
			claims = append(claims, mk("2024-01-01", model.StatusDenied, cpt(code)))
		}
	}
	r := DenialRate(claims)
	if len(r.ByCPT) != TopCPTLimit {
		t.Fatalf("expected %d CPT entries, got %d", TopCPTLimit, len(r.ByCPT))
	}
	for i := 1; i < len(r.ByCPT); i++ {
		if r.ByCPT[i].Value > r.ByCPT[i-1].Value {
			t.Errorf("by_cpt not descending at %d: %v", i, r.ByCPT)
		}
	}
	if r.ByCPT[0].Key != "992000" || r.ByCPT[0].Value != 50 {
		t.Errorf("top CPT: %+v", r.ByCPT[0])
	}
}

func TestDenialRate_Empty(t *testing.T) {
	r := DenialRate(nil)
	if r.OverallRate != 0 || r.TotalCount != 0 || len(r.ByPayer) != 0 || len(r.ByReason) != 0 {
		t.Errorf("unexpected: %+v", r)
	}
}

func TestDenialRate_Bounds(t *testing.T) {
	for denied := 0; denied <= 7; denied++ {
		claims := concat(
			repeat(denied, "2024-01-01", model.StatusDenied),
			repeat(7-denied, "2024-01-01", model.StatusPaid),
		)
		r := DenialRate(claims)
		if r.OverallRate < 0 || r.OverallRate > 100 {
			t.Errorf("rate out of range: %v", r.OverallRate)
		}
		if want := countRate(denied, 7); r.OverallRate != want {
			t.Errorf("denied=%d: got %v, want %v", denied, r.OverallRate, want)
		}
	}
}
