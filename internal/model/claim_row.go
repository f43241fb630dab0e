package model

// ClaimRow mirrors the Parquet schema for a single claim line. Amounts are
// float64 dollars as stored in the file; they get converted to cents during
// normalization.
type ClaimRow struct {
	ClaimID        *string `parquet:"claim_id,optional"`
	PatientID      *string `parquet:"patient_id,optional"`
	ServiceDate    *string `parquet:"service_date,optional"`
	SubmissionDate *string `parquet:"submission_date,optional"`
	PaymentDate    *string `parquet:"payment_date,optional"`

	CPTCode        *string `parquet:"cpt_code,optional"`
	CPTDescription *string `parquet:"cpt_description,optional"`
	ICDCode        *string `parquet:"icd_code,optional"`

	Payer    *string `parquet:"payer,optional"`
	Provider *string `parquet:"provider,optional"`

	ChargeAmount  *float64 `parquet:"charge_amount,optional"`
	PaymentAmount *float64 `parquet:"payment_amount,optional"`

	Status       *string `parquet:"status,optional"`
	DenialReason *string `parquet:"denial_reason,optional"`
}

// RawClaim is one input row keyed by canonical column, before value
// normalization. Both the spreadsheet and Parquet readers produce it.
type RawClaim struct {
	RowNumber int // 1-based source row number, header included for spreadsheets
	Values    map[string]string
}

// Get returns the raw value for a canonical column, or "" when absent.
func (r RawClaim) Get(column string) string {
	return r.Values[column]
}
