// Package estimate projects annual inventory holding costs by applying
// the median coefficient row to fresh inventory aggregates.
package estimate

import (
	"math"
	"strings"

	"holdcost/internal/coefficients"
	"holdcost/internal/inventory"
)

// displaySuffix is the site suffix stripped from identifiers for
// display and export. Only an exact trailing match is removed.
const displaySuffix = "MCH"

// Row is one project's holding-cost estimate along the three bases.
type Row struct {
	BudgetCode            string  `json:"budget_code"`
	TotalValueCHF         float64 `json:"total_value_chf"`
	TotalVolumeM3         float64 `json:"total_volume_m3"`
	TotalWeightKG         float64 `json:"total_weight_kg"`
	AnnualCostValueBased  float64 `json:"annual_cost_value_based"`
	AnnualCostVolumeBased float64 `json:"annual_cost_volume_based"`
	AnnualCostWeightBased float64 `json:"annual_cost_weight_based"`
}

// Estimate multiplies each project's inventory aggregate by the median
// coefficient row's three ratios. A table without a MEDIAN row is an
// error; the MEAN row is never used as a fallback.
func Estimate(coeffs *coefficients.Table, totals []inventory.Total) ([]Row, error) {
	med, err := coeffs.Median()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, Row{
			BudgetCode:            stripDisplaySuffix(t.BudgetCode),
			TotalValueCHF:         round2(t.TotalValueCHF),
			TotalVolumeM3:         round2(t.TotalVolumeM3),
			TotalWeightKG:         round2(t.TotalWeightKG),
			AnnualCostValueBased:  round2(t.TotalValueCHF * med.CHFPerValue),
			AnnualCostVolumeBased: round2(t.TotalVolumeM3 * med.CHFPerM3),
			AnnualCostWeightBased: round2(t.TotalWeightKG * med.CHFPerKG),
		})
	}
	return rows, nil
}

// FilterCodes returns the subset of rows whose BudgetCode is in codes.
// Display-side filtering only; computed values are untouched. An empty
// selection returns the rows unchanged.
func FilterCodes(rows []Row, codes []string) []Row {
	if len(codes) == 0 {
		return rows
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[strings.TrimSpace(c)] = true
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if want[r.BudgetCode] {
			out = append(out, r)
		}
	}
	return out
}

func stripDisplaySuffix(code string) string {
	return strings.TrimSuffix(code, displaySuffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
