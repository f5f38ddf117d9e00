// Package services contains the application services sitting between
// the HTTP handlers and the aggregation pipeline. Each service method
// runs one user-triggered computation synchronously to completion.
package services

import (
	"context"
	"io"
	"log/slog"

	"holdcost/internal/costs"
	"holdcost/internal/dataload"
)

// CostService processes cost ledger uploads for the overview tab.
type CostService struct {
	logger *slog.Logger
}

// NewCostService creates a cost service.
func NewCostService(logger *slog.Logger) *CostService {
	return &CostService{logger: logger.With(slog.String("service", "cost"))}
}

// CostOverview is the full response for a cost ledger upload.
type CostOverview struct {
	AnnualSummary []costs.AnnualTotal `json:"annual_summary"`
	MonthlyGroups []costs.PeriodTotal `json:"monthly_groups"`
	ProjectCount  int                 `json:"project_count"`
	PeriodMin     string              `json:"period_min"`
	PeriodMax     string              `json:"period_max"`
}

// Overview loads a cost ledger and produces the monthly grouping, the
// annual summary, and the headline stats shown alongside them.
func (s *CostService) Overview(ctx context.Context, upload io.Reader) (*CostOverview, error) {
	table, err := dataload.LoadCostTable(upload)
	if err != nil {
		return nil, err
	}

	groups, err := costs.FilterAndGroup(table)
	if err != nil {
		return nil, err
	}

	overview := &CostOverview{
		AnnualSummary: costs.SummarizeAnnual(groups),
		MonthlyGroups: groups,
	}

	seen := make(map[string]bool)
	for _, g := range groups {
		if !seen[g.BudgetCode] {
			seen[g.BudgetCode] = true
			overview.ProjectCount++
		}
		if overview.PeriodMin == "" || g.DecisionMoment < overview.PeriodMin {
			overview.PeriodMin = g.DecisionMoment
		}
		if g.DecisionMoment > overview.PeriodMax {
			overview.PeriodMax = g.DecisionMoment
		}
	}

	s.logger.InfoContext(ctx, "cost overview computed",
		slog.Int("rows", len(table.Rows)),
		slog.Int("groups", len(groups)),
		slog.Int("projects", overview.ProjectCount),
	)
	return overview, nil
}

// Breakdown loads a cost ledger and sums realized spend by category for
// one project and year.
func (s *CostService) Breakdown(ctx context.Context, upload io.Reader, budgetCode, year string) ([]costs.CategoryTotal, error) {
	table, err := dataload.LoadCostTable(upload)
	if err != nil {
		return nil, err
	}

	breakdown, err := costs.CategoryBreakdown(table, budgetCode, year)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category breakdown computed",
		slog.String("budget_code", budgetCode),
		slog.String("year", year),
		slog.Int("categories", len(breakdown)),
	)
	return breakdown, nil
}
