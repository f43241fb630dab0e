package metrics

import (
	"math"
	"testing"

	"github.com/gyeh/claimstats/internal/model"
)

func TestCollectionRate_Totals(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-01-01", model.StatusPaid, charge(10010), payment(10010)),
		mk("2024-01-15", model.StatusPartial, charge(20020), payment(5005)),
		mk("2024-02-01", model.StatusDenied, payer("Beta"), charge(5005)),
		mk("2024-02-03", model.StatusPaid, payer("Gamma"), charge(3333), payment(3333)),
	}
	r := CollectionRate(claims)
	if r.TotalCharged != 383.68 || r.TotalCollected != 183.48 {
		t.Fatalf("totals: charged=%v collected=%v", r.TotalCharged, r.TotalCollected)
	}
	if r.OverallRate != 47.8 {
		t.Errorf("OverallRate: got %v, want 47.8", r.OverallRate)
	}

	var sum float64
	for _, e := range r.ByPayer {
		sum += e.Value.TotalCharged
	}
	if math.Abs(sum-r.TotalCharged) > 0.01 {
		t.Errorf("payer charged sum %v != total %v", sum, r.TotalCharged)
	}

	acme, _ := r.ByPayer.Get("Acme")
	if acme.ClaimCount != 2 || acme.CollectionRate != 50 || acme.TotalCollected != 150.15 {
		t.Errorf("Acme: %+v", acme)
	}
	if beta, _ := r.ByPayer.Get("Beta"); beta.CollectionRate != 0 {
		t.Errorf("Beta: %+v", beta)
	}
	if m, _ := r.MonthlyTrend.Get("2024-02"); m != 40 {
		t.Errorf("2024-02 trend: %v", m)
	}
}

func TestCollectionRate_TopAndBottom(t *testing.T) {
	var claims []model.ClaimRecord
	for i, p := range []string{"P3", "P1", "P5", "P2", "P4"} {
		paid := []int64{7000, 9000, 5000, 8000, 6000}[i]
		claims = append(claims, mk("2024-01-01", model.StatusPaid, payer(p), charge(10000), payment(paid)))
	}
	r := CollectionRate(claims)
	assertPayers(t, "top", r.TopPayers, "P1", "P2", "P3")
	assertPayers(t, "bottom", r.BottomPayers, "P5", "P4", "P3")
}

func TestCollectionRate_FewPayers(t *testing.T) {
	claims := []model.ClaimRecord{
		mk("2024-01-01", model.StatusPaid, payer("A"), payment(9000)),
		mk("2024-01-01", model.StatusPaid, payer("B"), payment(4000)),
	}
	r := CollectionRate(claims)
	assertPayers(t, "top", r.TopPayers, "A", "B")
	assertPayers(t, "bottom", r.BottomPayers, "B", "A")
}

func TestCollectionRate_ZeroCharges(t *testing.T) {
	r := CollectionRate([]model.ClaimRecord{mk("2024-01-01", model.StatusPending, charge(0))})
	if r.OverallRate != 0 {
		t.Errorf("expected 0 rate for zero charges, got %v", r.OverallRate)
	}
	if pc, _ := r.ByPayer.Get("Acme"); pc.CollectionRate != 0 {
		t.Errorf("payer rate: %v", pc.CollectionRate)
	}
}

func assertPayers(t *testing.T, label string, got []model.PayerRate, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i].Payer != want[i] {
			t.Errorf("%s[%d]: got %s, want %s", label, i, got[i].Payer, want[i])
		}
	}
}
