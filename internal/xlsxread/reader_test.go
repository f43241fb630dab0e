package xlsxread

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "claims.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestReadAll(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Claim Number", "DOS", "CPT", "Insurance", "Charges", "Paid_Amount", "Claim Status", "Internal Notes"},
		{"C1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "99213", "Acme", 150.5, 120, "Paid", "x"},
		{},
		{"C2", "2024-02-01", 99214, "Beta", "$1,000.00", 0, "Denied"},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	res, err := r.ReadAll(nil)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if missing := res.Mapping.Missing(); len(missing) != 0 {
		t.Fatalf("missing columns: %v", missing)
	}
	if res.RowsRead != 2 || len(res.Claims) != 2 {
		t.Fatalf("expected 2 rows, got %d/%d", res.RowsRead, len(res.Claims))
	}

	first := res.Claims[0]
	if first.RowNumber != 2 || first.Get("claim_id") != "C1" || first.Get("payer") != "Acme" {
		t.Errorf("first row: %+v", first)
	}
	if got := first.Get("service_date"); got != "45306" {
		t.Errorf("date cell should be a raw serial, got %q", got)
	}
	if _, ok := first.Values["internal notes"]; ok {
		t.Error("unmapped column leaked into values")
	}

	second := res.Claims[1]
	if second.RowNumber != 4 || second.Get("cpt_code") != "99214" || second.Get("charge_amount") != "$1,000.00" {
		t.Errorf("second row: %+v", second)
	}
}

func TestReadAll_ExtraAliases(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Visit", "Code"},
		{"2024-01-01", "99213"},
	})
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	res, err := r.ReadAll(map[string][]string{"service_date": {"visit"}, "cpt_code": {"code"}})
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if res.Claims[0].Get("service_date") != "2024-01-01" || res.Claims[0].Get("cpt_code") != "99213" {
		t.Errorf("extra aliases not applied: %+v", res.Claims[0])
	}
	if len(res.Mapping.Missing()) != 5 {
		t.Errorf("missing: %v", res.Mapping.Missing())
	}
}

func TestReadAll_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if _, err := r.ReadAll(nil); err != ErrEmptyWorkbook {
		t.Errorf("expected ErrEmptyWorkbook, got %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
