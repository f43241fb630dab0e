package metrics

import (
	"fmt"
	"time"

	"github.com/gyeh/claimstats/internal/model"
)

var claimSeq int

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

type claimOpt func(*model.ClaimRecord)

func payer(p string) claimOpt    { return func(c *model.ClaimRecord) { c.Payer = p } }
func provider(p string) claimOpt { return func(c *model.ClaimRecord) { c.Provider = p } }
func cpt(code string) claimOpt   { return func(c *model.ClaimRecord) { c.CPTCode = code } }
func reason(r string) claimOpt   { return func(c *model.ClaimRecord) { c.DenialReason = r } }
func charge(cents int64) claimOpt {
	return func(c *model.ClaimRecord) { c.ChargeCents = cents }
}
func payment(cents int64) claimOpt {
	return func(c *model.ClaimRecord) { c.PaymentCents = cents }
}
func paidOn(d string) claimOpt {
	return func(c *model.ClaimRecord) {
		t := day(d)
		c.PaymentDate = &t
	}
}

// mk builds a claim for payer Acme, CPT 99213, $100.00 charged unless overridden.
func mk(service string, status model.ClaimStatus, opts ...claimOpt) model.ClaimRecord {
	claimSeq++
	c := model.ClaimRecord{
		ClaimID:        fmt.Sprintf("C%05d", claimSeq),
		PatientID:      "P1",
		Provider:       "Dr. Adams",
		Payer:          "Acme",
		ServiceDate:    day(service),
		SubmissionDate: day(service),
		CPTCode:        "99213",
		ChargeCents:    10000,
		Status:         status,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// repeat returns n copies of mk(service, status, opts...).
func repeat(n int, service string, status model.ClaimStatus, opts ...claimOpt) []model.ClaimRecord {
	out := make([]model.ClaimRecord, n)
	for i := range out {
		out[i] = mk(service, status, opts...)
	}
	return out
}

func concat(parts ...[]model.ClaimRecord) []model.ClaimRecord {
	var out []model.ClaimRecord
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
