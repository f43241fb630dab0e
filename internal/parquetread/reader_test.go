package parquetread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimstats/internal/model"
)

func strp(s string) *string    { return &s }
func fltp(v float64) *float64 { return &v }

func writeParquet[T any](t *testing.T, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReadAll(t *testing.T) {
	rows := []model.ClaimRow{
		{ClaimID: strp("C1"), ServiceDate: strp("2024-01-05"), CPTCode: strp("99213"), Payer: strp("Acme"),
			ChargeAmount: fltp(150), PaymentAmount: fltp(120), Status: strp("Paid")},
		{ClaimID: strp("C2"), ServiceDate: strp("2024-01-06"), CPTCode: strp("99214"), Payer: strp("Beta"),
			ChargeAmount: fltp(80.25), Status: strp("Denied"), DenialReason: strp("CO-16")},
	}
	path := writeParquet(t, rows)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.NumRows() != 2 {
		t.Fatalf("NumRows: got %d", r.NumRows())
	}
	if err := ValidateSchema(r.Schema()); err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}
	raws, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(raws))
	}
	if raws[1].RowNumber != 2 || raws[1].Get("claim_id") != "C2" || raws[1].Get("charge_amount") != "80.25" {
		t.Errorf("second row: %+v", raws[1])
	}
	if raws[1].Get("payment_amount") != "" {
		t.Errorf("null payment should stay empty, got %q", raws[1].Get("payment_amount"))
	}
}

type partialRow struct {
	ClaimID     *string `parquet:"claim_id,optional"`
	ServiceDate *string `parquet:"service_date,optional"`
	CPTCode     *string `parquet:"cpt_code,optional"`
}

func TestValidateSchema_MissingColumns(t *testing.T) {
	path := writeParquet(t, []partialRow{{ClaimID: strp("C1")}})
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	missing := MissingColumns(r.Schema())
	want := []string{"payer", "charge_amount", "payment_amount", "status"}
	if len(missing) != len(want) {
		t.Fatalf("missing: got %v, want %v", missing, want)
	}
	if err := ValidateSchema(r.Schema()); err == nil {
		t.Fatal("expected schema error")
	}
}
