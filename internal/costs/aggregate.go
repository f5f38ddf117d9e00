// Package costs filters and aggregates cost ledger rows into per-project
// period totals, annual summaries, and annualized figures used for
// coefficient derivation.
package costs

import (
	"fmt"
	"sort"
	"strings"

	"holdcost/internal/dataload"
)

// IncludedCategories is the fixed allow-list of cost categories. Freight
// is excluded by omission.
var IncludedCategories = []string{
	"ACTIVITY & OPS SPECIFIC",
	"BASIC SUPPORT COSTS",
	"CONSTRUCTION",
	"EQUIPMENT",
	"HR WORKFORCE",
	"OTHER COSTS",
	"STAFF RELATED",
}

// ActualsValue marks realized spend in the optional Actuals/forecast
// column; compared case-insensitively.
const ActualsValue = "actuals"

// AveragingYears is the fixed divisor turning a window total into an
// annualized figure. Tied to the 2023-2024 data window; revisit together
// with WindowYears if the window ever moves.
const AveragingYears = 2

// WindowYears is the fixed decision-year window used for annualized
// totals. Not user-configurable.
var WindowYears = map[string]bool{"2023": true, "2024": true}

// PeriodTotal is the summed amount for one (project, decision period).
type PeriodTotal struct {
	BudgetCode     string  `json:"budget_code"`
	DecisionMoment string  `json:"decision_moment"`
	TotalCHF       float64 `json:"total_chf"`
}

// AnnualTotal is the summed amount for one (project, year).
type AnnualTotal struct {
	BudgetCode string  `json:"budget_code"`
	Year       string  `json:"year"`
	TotalCHF   float64 `json:"total_chf"`
}

// AnnualizedTotal is a project's window total divided by AveragingYears.
type AnnualizedTotal struct {
	BudgetCode       string  `json:"budget_code"`
	AvgAnnualCostCHF float64 `json:"avg_annual_cost_chf"`
}

// CategoryTotal is the summed amount for one cost category.
type CategoryTotal struct {
	Category string  `json:"category"`
	TotalCHF float64 `json:"total_chf"`
}

// includedCategory reports membership in the allow-list.
func includedCategory(category string) bool {
	for _, c := range IncludedCategories {
		if category == c {
			return true
		}
	}
	return false
}

// isActuals applies the optional realized-spend filter. A table without
// the flag column has no forecast data, so every row passes.
func isActuals(rec dataload.CostRecord, hasFlag bool) bool {
	if !hasFlag {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(rec.ActualsForecast), ActualsValue)
}

// FilterAndGroup retains allow-listed, realized rows and sums amounts by
// (BudgetCode, DecisionMoment). Projects with no matching rows do not
// appear in the output.
func FilterAndGroup(table *dataload.CostTable) ([]PeriodTotal, error) {
	if !table.HasBudgetCode {
		return nil, fmt.Errorf("cost table has no %s column", dataload.ColBudgetCode)
	}

	type key struct{ code, period string }
	sums := make(map[key]float64)
	for _, rec := range table.Rows {
		if !includedCategory(rec.Category) || !isActuals(rec, table.HasActualsFlag) {
			continue
		}
		if !rec.AmountCHF.Valid {
			continue
		}
		sums[key{rec.BudgetCode, rec.DecisionMoment}] += rec.AmountCHF.Value
	}

	out := make([]PeriodTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, PeriodTotal{BudgetCode: k.code, DecisionMoment: k.period, TotalCHF: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BudgetCode != out[j].BudgetCode {
			return out[i].BudgetCode < out[j].BudgetCode
		}
		return out[i].DecisionMoment < out[j].DecisionMoment
	})
	return out, nil
}

// SummarizeAnnual rolls period totals up to (BudgetCode, year), the year
// being the first four characters of the period string.
func SummarizeAnnual(groups []PeriodTotal) []AnnualTotal {
	type key struct{ code, year string }
	sums := make(map[key]float64)
	for _, g := range groups {
		year := g.DecisionMoment
		if len(year) > 4 {
			year = year[:4]
		}
		sums[key{g.BudgetCode, year}] += g.TotalCHF
	}

	out := make([]AnnualTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, AnnualTotal{BudgetCode: k.code, Year: k.year, TotalCHF: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BudgetCode != out[j].BudgetCode {
			return out[i].BudgetCode < out[j].BudgetCode
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// Annualize sums allow-listed, realized amounts per project over the
// fixed decision-year window and divides by AveragingYears.
func Annualize(table *dataload.CostTable) ([]AnnualizedTotal, error) {
	if !table.HasBudgetCode {
		return nil, fmt.Errorf("cost table has no %s column", dataload.ColBudgetCode)
	}

	sums := make(map[string]float64)
	for _, rec := range table.Rows {
		if !WindowYears[rec.Year()] {
			continue
		}
		if !includedCategory(rec.Category) || !isActuals(rec, table.HasActualsFlag) {
			continue
		}
		if !rec.AmountCHF.Valid {
			continue
		}
		sums[rec.BudgetCode] += rec.AmountCHF.Value
	}

	out := make([]AnnualizedTotal, 0, len(sums))
	for code, total := range sums {
		out = append(out, AnnualizedTotal{BudgetCode: code, AvgAnnualCostCHF: total / AveragingYears})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BudgetCode < out[j].BudgetCode })
	return out, nil
}

// CategoryBreakdown sums realized amounts by category for one project
// and year, sorted by descending amount. Unlike the aggregate paths it
// keeps every category so the user can inspect excluded spend.
func CategoryBreakdown(table *dataload.CostTable, budgetCode, year string) ([]CategoryTotal, error) {
	if !table.HasBudgetCode {
		return nil, fmt.Errorf("cost table has no %s column", dataload.ColBudgetCode)
	}

	sums := make(map[string]float64)
	for _, rec := range table.Rows {
		if rec.BudgetCode != budgetCode || rec.Year() != year {
			continue
		}
		if !isActuals(rec, table.HasActualsFlag) {
			continue
		}
		if !rec.AmountCHF.Valid {
			continue
		}
		sums[rec.Category] += rec.AmountCHF.Value
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		out = append(out, CategoryTotal{Category: category, TotalCHF: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCHF != out[j].TotalCHF {
			return out[i].TotalCHF > out[j].TotalCHF
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
