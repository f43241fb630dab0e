package db_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/metrics"
	"github.com/gyeh/claimstats/internal/model"
)

const (
	testPort     = 15433
	testDB       = "rcmtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stderr, "SKIP: store integration tests need embedded postgres")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

// setupDB connects, resets the rcm schema and applies migrations.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS rcm CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	n, err := db.ApplyMigrations(ctx, pool, logging.Setup("text", "warn"))
	if err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 migrations applied, got %d", n)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func sampleRun(t *testing.T) *model.RunSummary {
	t.Helper()
	day := func(s string) time.Time {
		d, _ := time.Parse(time.DateOnly, s)
		return d
	}
	paid := day("2024-02-10")
	claims := []model.ClaimRecord{
		{ClaimID: "1", Payer: "Acme", CPTCode: "99213", ServiceDate: day("2024-01-05"), PaymentDate: &paid,
			ChargeCents: 10000, PaymentCents: 8000, Status: model.StatusPaid},
		{ClaimID: "2", Payer: "Acme", CPTCode: "99213", ServiceDate: day("2024-01-20"),
			ChargeCents: 5000, Status: model.StatusDenied, DenialReason: "CO-16"},
		{ClaimID: "3", Payer: "Beta", CPTCode: "99214", ServiceDate: day("2024-02-01"),
			ChargeCents: 7000, Status: model.StatusPending},
	}
	return &model.RunSummary{
		AnalysisID: uuid.New(),
		FilePath:   "/tmp/claims.xlsx",
		FileSHA256: "abc123",
		Warnings:   []string{"Row 5: Missing CPT code, skipped"},
		Metrics:    metrics.ComputeReportAt(claims, day("2024-03-01")),
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	n, err := db.ApplyMigrations(context.Background(), pool, logging.Setup("text", "warn"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no migrations on second run, got %d", n)
	}
}

func TestSaveSubscriber_Upsert(t *testing.T) {
	pool := setupDB(t)
	store := db.NewStore(pool, logging.Setup("text", "warn"))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := store.SaveSubscriber(ctx, "ops@clinic.example", db.SourceSubscribe)
		if err != nil {
			t.Fatalf("SaveSubscriber: %v", err)
		}
		if got != want {
			t.Errorf("analysis_count: got %d, want %d", got, want)
		}
	}

	var source string
	if err := pool.QueryRow(ctx, "SELECT source FROM rcm.subscribers WHERE email = $1", "ops@clinic.example").Scan(&source); err != nil {
		t.Fatalf("query: %v", err)
	}
	if source != db.SourceSubscribe {
		t.Errorf("source should keep first value, got %q", source)
	}
}

func TestRecord(t *testing.T) {
	pool := setupDB(t)
	store := db.NewStore(pool, logging.Setup("text", "warn"))
	ctx := context.Background()
	run := sampleRun(t)

	if err := store.Record(ctx, run, "ops@clinic.example"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	t.Run("analysis_row", func(t *testing.T) {
		var claims, warnings int
		var denial, charged float64
		var start time.Time
		err := pool.QueryRow(ctx, `
			SELECT claim_count, warning_count, denial_rate, total_charged, period_start
			FROM rcm.analyses WHERE analysis_id = $1`, run.AnalysisID).
			Scan(&claims, &warnings, &denial, &charged, &start)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if claims != 3 || warnings != 1 || denial != 33.3 || charged != 220 {
			t.Errorf("row: claims=%d warnings=%d denial=%v charged=%v", claims, warnings, denial, charged)
		}
		if start.Format(time.DateOnly) != "2024-01-05" {
			t.Errorf("period_start: %v", start)
		}
	})

	t.Run("payer_rows", func(t *testing.T) {
		var count int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM rcm.analysis_payer_metrics WHERE analysis_id = $1", run.AnalysisID).Scan(&count); err != nil {
			t.Fatalf("query: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 payer rows, got %d", count)
		}

		var clean *float64
		if err := pool.QueryRow(ctx, "SELECT clean_claim_rate FROM rcm.analysis_payer_metrics WHERE payer = 'Beta'").Scan(&clean); err != nil {
			t.Fatalf("query: %v", err)
		}
		if clean != nil {
			t.Errorf("Beta has no resolved claims, expected NULL clean rate, got %v", *clean)
		}
	})

	t.Run("subscriber", func(t *testing.T) {
		var n int
		var source string
		if err := pool.QueryRow(ctx, "SELECT analysis_count, source FROM rcm.subscribers WHERE email = $1", "ops@clinic.example").Scan(&n, &source); err != nil {
			t.Fatalf("query: %v", err)
		}
		if n != 1 || source != db.SourceAnalysis {
			t.Errorf("subscriber: count=%d source=%s", n, source)
		}
	})

	t.Run("history", func(t *testing.T) {
		hist, err := store.RecentAnalyses(ctx, "ops@clinic.example", 5)
		if err != nil {
			t.Fatalf("RecentAnalyses: %v", err)
		}
		if len(hist) != 1 || hist[0].AnalysisID != run.AnalysisID || hist[0].SourceFileName != "claims.xlsx" {
			t.Errorf("history: %+v", hist)
		}
	})
}

func TestRecord_NoEmail(t *testing.T) {
	pool := setupDB(t)
	store := db.NewStore(pool, logging.Setup("text", "warn"))
	ctx := context.Background()

	if err := store.Record(ctx, sampleRun(t), ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	var n int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM rcm.subscribers").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM rcm.analyses WHERE email IS NULL").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Errorf("expected anonymous analysis row, got %d", n)
	}
}
