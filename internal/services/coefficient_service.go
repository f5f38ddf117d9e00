package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"holdcost/internal/coefficients"
	"holdcost/internal/costs"
	"holdcost/internal/dataload"
	"holdcost/internal/files"
	"holdcost/internal/inventory"
)

// CoefficientService derives coefficient tables and serves the default
// one from the data directory.
type CoefficientService struct {
	dataDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewCoefficientService creates a coefficient service.
func NewCoefficientService(dataDir string, logger *slog.Logger) *CoefficientService {
	return &CoefficientService{
		dataDir: dataDir,
		logger:  logger.With(slog.String("service", "coefficients")),
		now:     time.Now,
	}
}

// Default returns the read-only default coefficient table.
func (s *CoefficientService) Default(ctx context.Context) (*coefficients.Table, error) {
	table, err := coefficients.LoadDefault(s.dataDir)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "default coefficients loaded", slog.Int("rows", len(table.Rows)))
	return table, nil
}

// Artifacts lists the persisted coefficient artifacts, newest first.
func (s *CoefficientService) Artifacts(ctx context.Context) ([]files.Artifact, error) {
	artifacts, err := files.ListArtifacts(s.dataDir)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "artifacts listed", slog.Int("count", len(artifacts)))
	return artifacts, nil
}

// Artifact loads one persisted coefficient artifact by name.
func (s *CoefficientService) Artifact(ctx context.Context, name string) (*coefficients.Table, error) {
	path, err := files.ArtifactPath(s.dataDir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", name, err)
	}
	defer f.Close()
	return coefficients.Load(f)
}

// Derive computes a new coefficient table from a cost ledger and an
// inventory export, persists it as a timestamped artifact, and returns
// the table with the artifact name.
func (s *CoefficientService) Derive(ctx context.Context, costUpload, invUpload io.Reader) (*coefficients.Table, string, error) {
	costTable, err := dataload.LoadCostTable(costUpload)
	if err != nil {
		return nil, "", err
	}
	invTable, err := dataload.LoadInventoryTable(invUpload)
	if err != nil {
		return nil, "", err
	}

	costTotals, err := costs.Annualize(costTable)
	if err != nil {
		return nil, "", err
	}
	// Shared upload context: project_id carries the site suffix.
	invTotals := inventory.Aggregate(invTable, inventory.DeriveStripSuffix)

	table, err := coefficients.Derive(costTotals, invTotals)
	if err != nil {
		return nil, "", err
	}

	artifact, err := coefficients.Save(table, s.dataDir, s.now())
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "coefficients derived",
		slog.Int("projects", len(table.Rows)-2),
		slog.String("artifact", artifact),
	)
	return table, artifact, nil
}
