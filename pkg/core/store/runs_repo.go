package store

import (
	"context"
	"fmt"
	"time"
)

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	ModelName    string    `json:"model_name"`
	OfferPrice   float64   `json:"offer_price"`
	EPSChangePct float64   `json:"eps_change_pct"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunsRepo lists historical analysis runs saved by AnalysisCache.
type RunsRepo struct{}

// NewRunsRepo creates a repository instance.
func NewRunsRepo() *RunsRepo {
	return &RunsRepo{}
}

// ListRecent returns the newest runs first, capped at limit.
func (r *RunsRepo) ListRecent(ctx context.Context, limit int) ([]RunSummary, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, model_name, offer_price, eps_change_pct, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.ModelName, &s.OfferPrice, &s.EPSChangePct, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading run rows: %w", err)
	}
	return out, nil
}

// ListByModel returns the run history for one scenario, newest first.
func (r *RunsRepo) ListByModel(ctx context.Context, modelName string, limit int) ([]RunSummary, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, model_name, offer_price, eps_change_pct, created_at
		FROM analysis_runs
		WHERE model_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := pool.Query(ctx, query, modelName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for %s: %w", modelName, err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.ModelName, &s.OfferPrice, &s.EPSChangePct, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading run rows: %w", err)
	}
	return out, nil
}
