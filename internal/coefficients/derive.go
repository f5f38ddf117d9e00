// Package coefficients joins annualized cost and inventory aggregates
// into per-project unit-cost coefficients, trims outliers, and persists
// the resulting table as a CSV artifact.
package coefficients

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"holdcost/internal/costs"
	"holdcost/internal/inventory"
)

// Synthetic summary row labels. The derived table always starts with a
// MEAN and a MEDIAN row.
const (
	LabelMean   = "MEAN"
	LabelMedian = "MEDIAN"
)

// IQRMultiplier is the fence width of the outlier filter: values beyond
// 1.5 interquartile ranges from the nearest quartile are removed.
const IQRMultiplier = 1.5

// ErrNoMedianRow is returned when a coefficient table has no row whose
// identifier contains "MEDIAN". Estimation requires one and never falls
// back to the MEAN row.
var ErrNoMedianRow = errors.New("median row not found in coefficient table")

// Row is one line of a coefficient table: the joined aggregates and the
// three unit-cost ratios, all rounded to two decimals.
type Row struct {
	BudgetCode       string  `json:"budget_code"`
	AvgAnnualCostCHF float64 `json:"avg_annual_cost_chf"`
	TotalValueCHF    float64 `json:"total_value_chf"`
	TotalVolumeM3    float64 `json:"total_volume_m3"`
	TotalWeightKG    float64 `json:"total_weight_kg"`
	CHFPerValue      float64 `json:"chf_per_value"`
	CHFPerM3         float64 `json:"chf_per_m3"`
	CHFPerKG         float64 `json:"chf_per_kg"`
}

// Table is a derived or loaded coefficient table. Tables are value
// objects: once produced they are never mutated.
type Table struct {
	Rows []Row `json:"rows"`
}

// Median returns the first row whose identifier contains "MEDIAN",
// case-insensitively.
func (t *Table) Median() (Row, error) {
	for _, r := range t.Rows {
		if strings.Contains(strings.ToUpper(r.BudgetCode), LabelMedian) {
			return r, nil
		}
	}
	return Row{}, ErrNoMedianRow
}

// ratioColumns orders the sequential outlier filter. A row removed by an
// earlier column is not seen by the later ones.
var ratioColumns = []func(Row) float64{
	func(r Row) float64 { return r.CHFPerValue },
	func(r Row) float64 { return r.CHFPerM3 },
	func(r Row) float64 { return r.CHFPerKG },
}

// Derive joins cost and inventory aggregates on BudgetCode and produces
// the coefficient table: three ratios per surviving project, outliers
// trimmed per ratio column, MEAN and MEDIAN summary rows prepended.
func Derive(costTotals []costs.AnnualizedTotal, invTotals []inventory.Total) (*Table, error) {
	byCode := make(map[string]inventory.Total, len(invTotals))
	for _, t := range invTotals {
		byCode[t.BudgetCode] = t
	}

	// Inner join; projects present on only one side are dropped.
	var rows []Row
	for _, c := range costTotals {
		inv, ok := byCode[c.BudgetCode]
		if !ok {
			continue
		}
		r := Row{
			BudgetCode:       c.BudgetCode,
			AvgAnnualCostCHF: c.AvgAnnualCostCHF,
			TotalValueCHF:    inv.TotalValueCHF,
			TotalVolumeM3:    inv.TotalVolumeM3,
			TotalWeightKG:    inv.TotalWeightKG,
			CHFPerValue:      c.AvgAnnualCostCHF / inv.TotalValueCHF,
			CHFPerM3:         c.AvgAnnualCostCHF / inv.TotalVolumeM3,
			CHFPerKG:         c.AvgAnnualCostCHF / inv.TotalWeightKG,
		}
		// Zero divisors yield non-finite ratios; such rows are dropped
		// rather than reported as errors.
		if !finiteRow(r) {
			continue
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no projects present in both cost and inventory data")
	}

	for _, column := range ratioColumns {
		rows = filterIQR(rows, column)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("all projects removed by outlier filtering")
	}

	for i := range rows {
		rows[i] = roundRow(rows[i])
	}

	out := make([]Row, 0, len(rows)+2)
	out = append(out, summaryRow(LabelMean, rows, mean), summaryRow(LabelMedian, rows, median))
	out = append(out, rows...)
	return &Table{Rows: out}, nil
}

// filterIQR keeps rows whose value for the column lies inside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR], with quartiles computed over the rows
// currently surviving.
func filterIQR(rows []Row, column func(Row) float64) []Row {
	if len(rows) == 0 {
		return rows
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = column(r)
	}
	sorted := sortedCopy(values)
	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - IQRMultiplier*iqr
	hi := q3 + IQRMultiplier*iqr

	kept := rows[:0]
	for _, r := range rows {
		v := column(r)
		if v >= lo && v <= hi {
			kept = append(kept, r)
		}
	}
	return kept
}

func finiteRow(r Row) bool {
	for _, v := range []float64{
		r.AvgAnnualCostCHF, r.TotalValueCHF, r.TotalVolumeM3, r.TotalWeightKG,
		r.CHFPerValue, r.CHFPerM3, r.CHFPerKG,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func roundRow(r Row) Row {
	r.AvgAnnualCostCHF = round2(r.AvgAnnualCostCHF)
	r.TotalValueCHF = round2(r.TotalValueCHF)
	r.TotalVolumeM3 = round2(r.TotalVolumeM3)
	r.TotalWeightKG = round2(r.TotalWeightKG)
	r.CHFPerValue = round2(r.CHFPerValue)
	r.CHFPerM3 = round2(r.CHFPerM3)
	r.CHFPerKG = round2(r.CHFPerKG)
	return r
}

// summaryRow computes one synthetic row by applying stat to every
// numeric column of the surviving rows.
func summaryRow(label string, rows []Row, stat func([]float64) float64) Row {
	col := func(get func(Row) float64) float64 {
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = get(r)
		}
		return round2(stat(values))
	}
	return Row{
		BudgetCode:       label,
		AvgAnnualCostCHF: col(func(r Row) float64 { return r.AvgAnnualCostCHF }),
		TotalValueCHF:    col(func(r Row) float64 { return r.TotalValueCHF }),
		TotalVolumeM3:    col(func(r Row) float64 { return r.TotalVolumeM3 }),
		TotalWeightKG:    col(func(r Row) float64 { return r.TotalWeightKG }),
		CHFPerValue:      col(func(r Row) float64 { return r.CHFPerValue }),
		CHFPerM3:         col(func(r Row) float64 { return r.CHFPerM3 }),
		CHFPerKG:         col(func(r Row) float64 { return r.CHFPerKG }),
	}
}
