package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"merger_model/pkg/core/model"
	"merger_model/pkg/core/report"
)

// AnalysisCache is a hybrid store for analysis runs: Postgres when a pool
// is available, a local JSON directory otherwise. The file fallback lets
// the CLI keep a run history without any database configured.
type AnalysisCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewAnalysisCache creates a cache. Pass a nil pool to force file-only mode.
// An empty dir defaults to .cache/runs.
func NewAnalysisCache(pool *pgxpool.Pool, dir string) *AnalysisCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "runs")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check AnalysisCache dir: %v\n", err)
		}
	}
	return &AnalysisCache{pool: pool, fileDir: dir}
}

// GetByRunID retrieves a stored analysis by its run identifier.
func (c *AnalysisCache) GetByRunID(ctx context.Context, runID string) (*model.FullAnalysis, error) {
	if c.pool != nil {
		query := `
			SELECT analysis_json
			FROM analysis_runs
			WHERE run_id = $1
			LIMIT 1
		`
		var dataJSON []byte
		err := c.pool.QueryRow(ctx, query, runID).Scan(&dataJSON)
		if err != nil {
			return nil, nil // cache miss
		}
		var a model.FullAnalysis
		if err := json.Unmarshal(dataJSON, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
		}
		return &a, nil
	}

	if c.fileDir != "" {
		return c.loadFromFile(c.runPath(runID))
	}

	return nil, nil
}

// GetLatest retrieves the most recent stored analysis for a model name.
func (c *AnalysisCache) GetLatest(ctx context.Context, modelName string) (*model.FullAnalysis, error) {
	if c.pool != nil {
		query := `
			SELECT analysis_json
			FROM analysis_runs
			WHERE model_name = $1
			ORDER BY created_at DESC
			LIMIT 1
		`
		var dataJSON []byte
		err := c.pool.QueryRow(ctx, query, modelName).Scan(&dataJSON)
		if err != nil {
			return nil, nil
		}
		var a model.FullAnalysis
		if err := json.Unmarshal(dataJSON, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
		}
		return &a, nil
	}

	// File fallback: scan the directory and keep the newest match.
	if c.fileDir != "" {
		return c.scanFileCache(modelName)
	}

	return nil, nil
}

// Save stores a completed analysis run. Each run is a distinct row keyed
// by run_id; re-running a scenario appends history rather than replacing it.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS analysis_runs (
//   run_id TEXT PRIMARY KEY,
//   model_name TEXT NOT NULL,
//   offer_price NUMERIC,
//   eps_change_pct NUMERIC,
//   analysis_json JSONB,
//   created_at TIMESTAMPTZ DEFAULT NOW()
// );
func (c *AnalysisCache) Save(ctx context.Context, a *model.FullAnalysis) error {
	dataJSON, err := report.MarshalJSON(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	yearOneChange := 0.0
	if len(a.EPS) > 0 {
		yearOneChange = a.EPS[0].EPSChangePercent
	}

	if c.pool != nil {
		query := `
			INSERT INTO analysis_runs (
				run_id, model_name, offer_price, eps_change_pct, analysis_json, created_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (run_id)
			DO UPDATE SET
				analysis_json = EXCLUDED.analysis_json,
				eps_change_pct = EXCLUDED.eps_change_pct
		`
		_, err = c.pool.Exec(ctx, query,
			a.RunID, a.ModelName, a.Financing.OfferPricePerShare, yearOneChange,
			dataJSON, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save run to db: %w", err)
		}
	}

	if c.fileDir != "" {
		path := c.runPath(a.RunID)
		if err := os.WriteFile(path, dataJSON, 0644); err != nil {
			return fmt.Errorf("failed to write run file: %w", err)
		}
	}

	return nil
}

// Exists reports whether a run is already stored.
func (c *AnalysisCache) Exists(ctx context.Context, runID string) bool {
	if c.pool != nil {
		var one int
		query := `SELECT 1 FROM analysis_runs WHERE run_id = $1 LIMIT 1`
		err := c.pool.QueryRow(ctx, query, runID).Scan(&one)
		return err == nil
	}
	if c.fileDir != "" {
		_, err := os.Stat(c.runPath(runID))
		return err == nil
	}
	return false
}

func (c *AnalysisCache) runPath(runID string) string {
	safe := strings.ReplaceAll(runID, string(os.PathSeparator), "_")
	return filepath.Join(c.fileDir, safe+".json")
}

func (c *AnalysisCache) loadFromFile(path string) (*model.FullAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	var a model.FullAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run file %s: %w", path, err)
	}
	return &a, nil
}

// scanFileCache walks the run directory looking for the newest analysis
// with the given model name. Fine for local use; the DB path indexes this.
func (c *AnalysisCache) scanFileCache(modelName string) (*model.FullAnalysis, error) {
	entries, err := os.ReadDir(c.fileDir)
	if err != nil {
		return nil, nil
	}

	var newest *model.FullAnalysis
	var newestAt time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		a, err := c.loadFromFile(filepath.Join(c.fileDir, e.Name()))
		if err != nil || a == nil {
			continue
		}
		if a.ModelName != modelName {
			continue
		}
		if newest == nil || a.CreatedAt.After(newestAt) {
			newest = a
			newestAt = a.CreatedAt
		}
	}
	return newest, nil
}
