package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"merger_model/pkg/core/model"
	"merger_model/pkg/core/report"
)

// SnapshotRepo stores one analysis snapshot per model name.
type SnapshotRepo struct{}

// NewSnapshotRepo creates a repository instance.
func NewSnapshotRepo() *SnapshotRepo {
	return &SnapshotRepo{}
}

// Save upserts the analysis keyed by model name. Re-running a scenario
// replaces its snapshot.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS deal_analysis (
//   model_name TEXT PRIMARY KEY,
//   run_id TEXT,
//   analysis_json JSONB,
//   updated_at TIMESTAMPTZ
// );
func (r *SnapshotRepo) Save(ctx context.Context, a *model.FullAnalysis) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := report.MarshalJSON(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO deal_analysis (model_name, run_id, analysis_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (model_name)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			analysis_json = EXCLUDED.analysis_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, a.ModelName, a.RunID, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Load retrieves the stored snapshot for a model name.
func (r *SnapshotRepo) Load(ctx context.Context, modelName string) (*model.FullAnalysis, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT analysis_json FROM deal_analysis WHERE model_name = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, modelName).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no analysis found for model %q", modelName)
		}
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	var a model.FullAnalysis
	if err := json.Unmarshal(jsonData, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &a, nil
}
