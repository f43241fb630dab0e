package model

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary captures the outcome of a single analysis run.
type RunSummary struct {
	AnalysisID       uuid.UUID
	FilePath         string
	FileSHA256       string
	Format           string
	RowsRead         int64
	ClaimsParsed     int64
	RowsRejected     int64
	Warnings         []string
	Delivered        bool
	Recorded         bool
	DeliveryErr      error // non-nil when the report could not be delivered
	RecordErr        error // non-nil when aggregates could not be stored
	UsedFallback     bool
	DurationParse    time.Duration
	DurationCompute  time.Duration
	DurationNarrate  time.Duration
	DurationDeliver  time.Duration
	DurationTotal    time.Duration
	Metrics          *AllMetrics
	ExecutiveSummary string
	Recommendations  []string
}

// Partial reports whether the analysis finished but delivery or storage failed.
func (s *RunSummary) Partial() bool {
	return s.DeliveryErr != nil || s.RecordErr != nil
}
