package services

import (
	"context"
	"io"
	"log/slog"

	"holdcost/internal/coefficients"
	"holdcost/internal/dataload"
	"holdcost/internal/estimate"
	"holdcost/internal/inventory"
)

// EstimateService projects holding costs for fresh inventory uploads.
type EstimateService struct {
	dataDir string
	logger  *slog.Logger
}

// NewEstimateService creates an estimate service.
func NewEstimateService(dataDir string, logger *slog.Logger) *EstimateService {
	return &EstimateService{
		dataDir: dataDir,
		logger:  logger.With(slog.String("service", "estimate")),
	}
}

// Estimate computes per-project holding cost estimates. coeffUpload is
// an optional user-supplied coefficient CSV; when nil the default table
// from the data directory is used. budgetCodes optionally narrows the
// returned rows without changing the computed values.
func (s *EstimateService) Estimate(ctx context.Context, invUpload io.Reader, coeffUpload io.Reader, budgetCodes []string) ([]estimate.Row, error) {
	var table *coefficients.Table
	var err error
	if coeffUpload != nil {
		table, err = coefficients.Load(coeffUpload)
	} else {
		table, err = coefficients.LoadDefault(s.dataDir)
	}
	if err != nil {
		return nil, err
	}

	invTable, err := dataload.LoadInventoryTable(invUpload)
	if err != nil {
		return nil, err
	}
	// Standalone inventory file: project_id is used as-is.
	totals := inventory.Aggregate(invTable, inventory.DeriveDirect)

	rows, err := estimate.Estimate(table, totals)
	if err != nil {
		return nil, err
	}

	filtered := estimate.FilterCodes(rows, budgetCodes)
	s.logger.InfoContext(ctx, "holding cost estimates computed",
		slog.Int("projects", len(rows)),
		slog.Int("returned", len(filtered)),
	)
	return filtered, nil
}
