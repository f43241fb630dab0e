package db

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
	embedsql "github.com/gyeh/claimstats/internal/sql"
)

// Subscriber sources.
const (
	SourceAnalysis  = "analysis"
	SourceSubscribe = "subscribe"
)

// Store persists analysis aggregates and subscribers. Claim-level data is
// never written.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewStore wraps an open pool.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// AnalysisRecord is the headline row written to rcm.analyses.
type AnalysisRecord struct {
	AnalysisID     uuid.UUID
	Email          string
	SourceFileName string
	FileSHA256     string
	ClaimCount     int
	WarningCount   int
	DenialRate     float64
	DaysInAR       float64
	CleanClaimRate float64
	CollectionRate float64
	TotalCharged   float64
	TotalCollected float64
	AnomalyCount   int
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
}

// NewAnalysisRecord builds the headline row from a finished run.
func NewAnalysisRecord(run *model.RunSummary, email string) AnalysisRecord {
	m := run.Metrics
	return AnalysisRecord{
		AnalysisID:     run.AnalysisID,
		Email:          email,
		SourceFileName: filepath.Base(run.FilePath),
		FileSHA256:     run.FileSHA256,
		ClaimCount:     m.Summary.TotalClaims,
		WarningCount:   len(run.Warnings),
		DenialRate:     m.DenialRate.OverallRate,
		DaysInAR:       m.DaysInAR.OverallAvgDays,
		CleanClaimRate: m.CleanClaimRate.OverallRate,
		CollectionRate: m.CollectionRate.OverallRate,
		TotalCharged:   m.Summary.TotalCharged,
		TotalCollected: m.Summary.TotalCollected,
		AnomalyCount:   len(m.Anomalies),
		PeriodStart:    parseDay(m.Summary.DateRange.Start),
		PeriodEnd:      parseDay(m.Summary.DateRange.End),
	}
}

// execer and copier are the subsets of pgx shared by the pool and transactions.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type copier interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// SaveSubscriber inserts the email or bumps its analysis count.
// Returns the subscriber's analysis count after the write.
func (s *Store) SaveSubscriber(ctx context.Context, email, source string) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, embedsql.UpsertSubscriber, email, source).Scan(&count); err != nil {
		return 0, fmt.Errorf("upsert subscriber: %w", err)
	}
	return count, nil
}

// Record writes the analysis row, its per-payer rows, and the subscriber
// upsert (when email is set) in one transaction.
func (s *Store) Record(ctx context.Context, run *model.RunSummary, email string) error {
	start := time.Now()
	rows := model.PayerMetricRows(run.AnalysisID, run.Metrics)

	var copied int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := logAnalysis(ctx, tx, NewAnalysisRecord(run, email)); err != nil {
			return err
		}
		n, err := copyPayerMetrics(ctx, tx, rows)
		if err != nil {
			return err
		}
		copied = n
		if email == "" {
			return nil
		}
		if _, err := tx.Exec(ctx, embedsql.UpsertSubscriber, email, SourceAnalysis); err != nil {
			return fmt.Errorf("upsert subscriber: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("analysis_id", run.AnalysisID.String()).
		Int64("payer_rows", copied).
		Dur("duration", time.Since(start)).
		Msg("analysis recorded")
	return nil
}

// AnalysisHistory is one prior analysis for an email.
type AnalysisHistory struct {
	AnalysisID     uuid.UUID
	SourceFileName string
	ClaimCount     int
	DenialRate     float64
	DaysInAR       float64
	CleanClaimRate float64
	CollectionRate float64
	CreatedAt      time.Time
}

// RecentAnalyses returns up to limit analyses for email, newest first.
func (s *Store) RecentAnalyses(ctx context.Context, email string, limit int) ([]AnalysisHistory, error) {
	rows, err := s.pool.Query(ctx, embedsql.RecentAnalyses, email, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (AnalysisHistory, error) {
		var h AnalysisHistory
		err := row.Scan(&h.AnalysisID, &h.SourceFileName, &h.ClaimCount,
			&h.DenialRate, &h.DaysInAR, &h.CleanClaimRate, &h.CollectionRate, &h.CreatedAt)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan analyses: %w", err)
	}
	return out, nil
}

func logAnalysis(ctx context.Context, q execer, rec AnalysisRecord) error {
	_, err := q.Exec(ctx, embedsql.InsertAnalysis,
		rec.AnalysisID, rec.Email, rec.SourceFileName, rec.FileSHA256,
		rec.ClaimCount, rec.WarningCount,
		rec.DenialRate, rec.DaysInAR, rec.CleanClaimRate, rec.CollectionRate,
		rec.TotalCharged, rec.TotalCollected, rec.AnomalyCount,
		rec.PeriodStart, rec.PeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func copyPayerMetrics(ctx context.Context, q copier, rows []model.PayerMetricRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := q.CopyFrom(ctx,
		pgx.Identifier{"rcm", "analysis_payer_metrics"},
		model.PayerMetricColumns(),
		NewPayerMetricSource(rows),
	)
	if err != nil {
		return n, fmt.Errorf("copy payer metrics: %w", err)
	}
	return n, nil
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}
