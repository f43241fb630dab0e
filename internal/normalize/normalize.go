// Package normalize turns raw claim rows into validated ClaimRecords.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/gyeh/claimstats/internal/model"
)

var (
	ErrMissingServiceDate = errors.New("missing service date")
	ErrMissingCPTCode     = errors.New("missing CPT code")
)

// Default values for optional identity fields.
const (
	DefaultPatientID = "UNKNOWN"
	DefaultName      = "Unknown"
)

// ToClaimRecord normalizes one raw row. Rows without a usable service date or
// CPT code are rejected with ErrMissingServiceDate or ErrMissingCPTCode.
func ToClaimRecord(raw model.RawClaim) (*model.ClaimRecord, error) {
	service := ParseDate(raw.Get("service_date"))
	if service == nil {
		return nil, ErrMissingServiceDate
	}
	code := NormalizeCode(raw.Get("cpt_code"))
	if code == "" {
		return nil, ErrMissingCPTCode
	}

	rec := &model.ClaimRecord{
		ClaimID:        orDefault(CleanText(raw.Get("claim_id")), "ROW_"+strconv.Itoa(raw.RowNumber)),
		PatientID:      orDefault(CleanText(raw.Get("patient_id")), DefaultPatientID),
		Provider:       orDefault(CleanText(raw.Get("provider")), DefaultName),
		Payer:          orDefault(CleanText(raw.Get("payer")), DefaultName),
		ServiceDate:    *service,
		SubmissionDate: *service,
		PaymentDate:    ParseDate(raw.Get("payment_date")),
		CPTCode:        code,
		CPTDescription: CleanText(raw.Get("cpt_description")),
		ICDCode:        NormalizeCode(raw.Get("icd_code")),
		ChargeCents:    ParseAmount(raw.Get("charge_amount")),
		PaymentCents:   ParseAmount(raw.Get("payment_amount")),
		Status:         ParseStatus(raw.Get("status")),
		DenialReason:   CleanText(raw.Get("denial_reason")),
	}
	if sub := ParseDate(raw.Get("submission_date")); sub != nil {
		rec.SubmissionDate = *sub
	}
	return rec, nil
}

// RowWarning formats the warning recorded for a skipped row, with the error
// text capitalized: "Row 4: Missing CPT code, skipped".
func RowWarning(row int, err error) string {
	msg := err.Error()
	if r, size := utf8.DecodeRuneInString(msg); r != utf8.RuneError {
		msg = string(unicode.ToUpper(r)) + msg[size:]
	}
	return fmt.Sprintf("Row %d: %s, skipped", row, msg)
}

// FromClaimRow converts a Parquet row into the reader-neutral RawClaim form.
func FromClaimRow(row *model.ClaimRow, rowNumber int) model.RawClaim {
	values := map[string]string{
		"claim_id":        deref(row.ClaimID),
		"patient_id":      deref(row.PatientID),
		"service_date":    deref(row.ServiceDate),
		"submission_date": deref(row.SubmissionDate),
		"payment_date":    deref(row.PaymentDate),
		"cpt_code":        deref(row.CPTCode),
		"cpt_description": deref(row.CPTDescription),
		"icd_code":        deref(row.ICDCode),
		"payer":           deref(row.Payer),
		"provider":        deref(row.Provider),
		"status":          deref(row.Status),
		"denial_reason":   deref(row.DenialReason),
	}
	if c := DollarsToCents(row.ChargeAmount); c != nil {
		values["charge_amount"] = centsString(*c)
	}
	if c := DollarsToCents(row.PaymentAmount); c != nil {
		values["payment_amount"] = centsString(*c)
	}
	return model.RawClaim{RowNumber: rowNumber, Values: values}
}

func centsString(c int64) string {
	return strconv.FormatFloat(float64(c)/100, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
