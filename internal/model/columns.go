package model

// Column describes one canonical claim column and the header spellings that map to it.
type Column struct {
	Name     string   // canonical name, e.g. "service_date"
	Aliases  []string // lowercase header spellings accepted for this column
	Required bool
}

// AllColumns lists the canonical claim columns in canonical order.
var AllColumns = []Column{
	{Name: "claim_id", Required: true, Aliases: []string{"claim_id", "claimid", "claim id", "claim number", "claim_number"}},
	{Name: "patient_id", Aliases: []string{"patient_id", "patientid", "patient id", "patient_number", "pt_id"}},
	{Name: "service_date", Required: true, Aliases: []string{"service_date", "servicedate", "service date", "dos", "date_of_service"}},
	{Name: "submission_date", Aliases: []string{"submission_date", "submissiondate", "submission date", "submit_date"}},
	{Name: "cpt_code", Required: true, Aliases: []string{"cpt_code", "cptcode", "cpt code", "cpt", "procedure_code"}},
	{Name: "cpt_description", Aliases: []string{"cpt_description", "cpt_desc", "description", "procedure_description"}},
	{Name: "icd_code", Aliases: []string{"icd_code", "icdcode", "icd code", "icd", "diagnosis_code"}},
	{Name: "payer", Required: true, Aliases: []string{"payer", "payer_name", "insurance", "insurance_name", "carrier"}},
	{Name: "charge_amount", Required: true, Aliases: []string{"charge_amount", "chargeamount", "charge amount", "charges", "billed_amount"}},
	{Name: "payment_amount", Required: true, Aliases: []string{"payment_amount", "paymentamount", "payment amount", "payment", "paid_amount"}},
	{Name: "status", Required: true, Aliases: []string{"status", "claim_status", "claimstatus", "claim status"}},
	{Name: "denial_reason", Aliases: []string{"denial_reason", "denialreason", "denial reason", "denial_code"}},
	{Name: "payment_date", Aliases: []string{"payment_date", "paymentdate", "payment date", "paid_date"}},
	{Name: "provider", Aliases: []string{"provider", "provider_name", "rendering_provider", "physician"}},
}

// RequiredColumns returns the canonical names of all required columns.
func RequiredColumns() []string {
	var cols []string
	for _, c := range AllColumns {
		if c.Required {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// ColumnByName returns the Column for the given canonical name, or ok=false.
func ColumnByName(name string) (Column, bool) {
	for _, c := range AllColumns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
