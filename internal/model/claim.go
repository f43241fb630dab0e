package model

import "time"

// ClaimStatus is the adjudication state of a claim. It is resolved once at
// ingestion; nothing downstream re-interprets raw status text.
type ClaimStatus uint8

const (
	StatusPending ClaimStatus = iota
	StatusPaid
	StatusDenied
	StatusPartial
)

func (s ClaimStatus) String() string {
	switch s {
	case StatusPaid:
		return "Paid"
	case StatusDenied:
		return "Denied"
	case StatusPartial:
		return "Partial"
	default:
		return "Pending"
	}
}

// Paid reports whether the claim received any payment (Paid or Partial).
func (s ClaimStatus) Paid() bool {
	return s == StatusPaid || s == StatusPartial
}

// ClaimRecord is one normalized claim line. Dates are UTC midnight values and
// money is held as integer cents.
type ClaimRecord struct {
	ClaimID        string
	PatientID      string
	Provider       string
	Payer          string
	ServiceDate    time.Time
	SubmissionDate time.Time
	PaymentDate    *time.Time // nil for unpaid/pending claims
	CPTCode        string
	CPTDescription string
	ICDCode        string
	ChargeCents    int64
	PaymentCents   int64
	Status         ClaimStatus
	DenialReason   string // empty when absent
}

// HasPaymentDate reports whether the claim carries a payment date.
func (c *ClaimRecord) HasPaymentDate() bool {
	return c.PaymentDate != nil && !c.PaymentDate.IsZero()
}
