// mkfixture writes a synthetic claims export for demos and tests. The output
// format follows the extension: .xlsx or .parquet.
// Usage: go run ./cmd/mkfixture --out testdata/claims.xlsx --months 6 --claims 200 --spike
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/claimstats/internal/model"
)

var (
	payers    = []string{"Aetna", "Blue Cross", "Cigna", "Medicare", "UnitedHealthcare", "Humana"}
	providers = []string{"Dr. Adams", "Dr. Baker", "Dr. Chen", "Dr. Diaz"}
	reasons   = []string{"CO-16", "CO-50", "CO-97", "PR-204", "CO-29"}
	cpts      = []struct{ code, desc string }{
		{"99213", "Office visit, established, low"},
		{"99214", "Office visit, established, moderate"},
		{"99203", "Office visit, new, low"},
		{"93000", "Electrocardiogram"},
		{"36415", "Venipuncture"},
		{"80053", "Comprehensive metabolic panel"},
	}
	icds = []string{"E11.9", "I10", "J06.9", "M54.5", "Z00.00"}
)

// spikePayer and spikeReason are pushed up in the last two months with --spike.
const (
	spikePayer  = "Aetna"
	spikeReason = "CO-197"
)

func main() {
	out := flag.String("out", "testdata/claims.xlsx", "output file (.xlsx or .parquet)")
	months := flag.Int("months", 6, "months of service dates")
	perMonth := flag.Int("claims", 200, "claims per month")
	end := flag.String("end", "2024-06", "last service month (YYYY-MM)")
	seed := flag.Uint64("seed", 1, "random seed")
	spike := flag.Bool("spike", false, "inject a denial spike for one payer in the last two months")
	flag.Parse()

	last, err := time.Parse("2006-01", *end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --end: %v\n", err)
		os.Exit(1)
	}
	rows := generate(rand.New(rand.NewPCG(*seed, *seed)), last, *months, *perMonth, *spike)

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".xlsx":
		err = writeXLSX(*out, rows)
	case ".parquet":
		err = writeParquet(*out, rows)
	default:
		err = fmt.Errorf("unsupported extension %q", filepath.Ext(*out))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	counts := make(map[string]int)
	for _, r := range rows {
		counts[*r.Status]++
	}
	fmt.Printf("Wrote %d claims to %s\n", len(rows), *out)
	for _, s := range []string{"Paid", "Partial", "Denied", "Pending"} {
		fmt.Printf("  %-8s %d\n", s, counts[s])
	}
}

func generate(rng *rand.Rand, last time.Time, months, perMonth int, spike bool) []model.ClaimRow {
	// Claims paid after the export date are still pending.
	exportDate := last.AddDate(0, 1, 0)
	first := last.AddDate(0, -(months - 1), 0)

	rows := make([]model.ClaimRow, 0, months*perMonth)
	for m := 0; m < months; m++ {
		monthStart := first.AddDate(0, m, 0)
		days := monthStart.AddDate(0, 1, -1).Day()
		recent := m >= months-2
		for i := 0; i < perMonth; i++ {
			service := monthStart.AddDate(0, 0, rng.IntN(days))
			payer := payers[rng.IntN(len(payers))]
			cpt := cpts[rng.IntN(len(cpts))]
			charge := float64(80+rng.IntN(420)) + float64(rng.IntN(100))/100

			denyPct := 8
			if spike && recent && payer == spikePayer {
				denyPct = 45
			}

			row := model.ClaimRow{
				ClaimID:        ptr(fmt.Sprintf("CLM%06d", len(rows)+1)),
				PatientID:      ptr(fmt.Sprintf("PT%05d", rng.IntN(5000))),
				ServiceDate:    ptr(day(service)),
				SubmissionDate: ptr(day(service.AddDate(0, 0, 1+rng.IntN(5)))),
				CPTCode:        ptr(cpt.code),
				CPTDescription: ptr(cpt.desc),
				ICDCode:        ptr(icds[rng.IntN(len(icds))]),
				Payer:          ptr(payer),
				Provider:       ptr(providers[rng.IntN(len(providers))]),
				ChargeAmount:   &charge,
			}

			roll := rng.IntN(100)
			paidOn := service.AddDate(0, 0, 14+rng.IntN(30))
			switch {
			case roll < denyPct:
				reason := reasons[rng.IntN(len(reasons))]
				if spike && recent && payer == spikePayer {
					reason = spikeReason
				}
				row.Status = ptr("Denied")
				row.DenialReason = ptr(reason)
				row.PaymentAmount = ptr(0.0)
			case !paidOn.Before(exportDate):
				row.Status = ptr("Pending")
				row.PaymentAmount = ptr(0.0)
			case roll < denyPct+12:
				row.Status = ptr("Partial")
				row.PaymentAmount = ptr(round2(charge * float64(30+rng.IntN(40)) / 100))
				row.PaymentDate = ptr(day(paidOn))
			default:
				row.Status = ptr("Paid")
				row.PaymentAmount = ptr(round2(charge * float64(40+rng.IntN(30)) / 100))
				row.PaymentDate = ptr(day(paidOn))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func writeXLSX(path string, rows []model.ClaimRow) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]string, len(model.AllColumns))
	for i, c := range model.AllColumns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		values := rowValues(r)
		cells := make([]any, len(header))
		for j, name := range header {
			cells[j] = values[name]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeParquet(path string, rows []model.ClaimRow) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.ClaimRow](outFile)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return outFile.Close()
}

func rowValues(r model.ClaimRow) map[string]any {
	v := map[string]any{
		"claim_id":        deref(r.ClaimID),
		"patient_id":      deref(r.PatientID),
		"service_date":    deref(r.ServiceDate),
		"submission_date": deref(r.SubmissionDate),
		"cpt_code":        deref(r.CPTCode),
		"cpt_description": deref(r.CPTDescription),
		"icd_code":        deref(r.ICDCode),
		"payer":           deref(r.Payer),
		"provider":        deref(r.Provider),
		"status":          deref(r.Status),
		"denial_reason":   deref(r.DenialReason),
		"payment_date":    deref(r.PaymentDate),
	}
	if r.ChargeAmount != nil {
		v["charge_amount"] = *r.ChargeAmount
	}
	if r.PaymentAmount != nil {
		v["payment_amount"] = *r.PaymentAmount
	}
	return v
}

func ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func day(t time.Time) string { return t.Format("2006-01-02") }

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
