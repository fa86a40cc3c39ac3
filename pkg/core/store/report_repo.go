package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/analysis"
)

// ReportRepo stores one report per ticker, upserted on rerun. The report is
// kept as a single JSONB blob; schema is managed outside this package:
//
//	CREATE TABLE IF NOT EXISTS stock_analysis (
//	  ticker     TEXT PRIMARY KEY,
//	  run_id     UUID,
//	  report     JSONB,
//	  stored_at  TIMESTAMPTZ
//	);
type ReportRepo struct{}

// NewReportRepo creates a repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save upserts the report for its ticker. Each save gets a fresh run ID so
// reruns are distinguishable even though the report bytes may be identical.
func (r *ReportRepo) Save(ctx context.Context, report *analysis.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO stock_analysis (ticker, run_id, report, stored_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			report = EXCLUDED.report,
			stored_at = EXCLUDED.stored_at;
	`

	runID := uuid.New()
	if _, err := pool.Exec(ctx, query, report.Ticker, runID, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.Ticker, err)
	}
	log.Debug().Str("ticker", report.Ticker).Str("run_id", runID.String()).Msg("report cached")
	return nil
}

// Load retrieves the most recently stored report for a ticker.
func (r *ReportRepo) Load(ctx context.Context, ticker string) (*analysis.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var data []byte
	err := pool.QueryRow(ctx, `SELECT report FROM stock_analysis WHERE ticker = $1`, ticker).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load report for %s: %w", ticker, err)
	}

	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report for %s: %w", ticker, err)
	}
	return &report, nil
}
