package storage

import (
	"context"

	"paretoseg/internal/model"
)

// Store defines persistence operations for segmentation runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveFronts(ctx context.Context, runID string, fronts []model.FrontRecord) error
	GetFronts(ctx context.Context, runID string) ([]model.FrontRecord, bool, error)
	SaveSkyline(ctx context.Context, runID string, skyline []model.CandidateRecord) error
	GetSkyline(ctx context.Context, runID string) ([]model.CandidateRecord, bool, error)
}
