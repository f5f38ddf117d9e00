// Package inventory filters shipment rows to the fixed delivery window
// and aggregates value, volume and weight per project.
package inventory

import (
	"sort"
	"strings"

	"holdcost/internal/dataload"
)

// WindowYears is the fixed delivery-year window. Not user-configurable;
// revisit before reusing the tool on data outside it.
var WindowYears = map[int]bool{2023: true, 2024: true}

// suffixLen is the length of the site suffix appended to project_id in
// shared upload exports (e.g. "AB123MCH").
const suffixLen = 3

// DeriveMode names how a BudgetCode is derived from the raw project_id.
//
// The two modes are not equivalent: coefficient derivation strips a
// fixed-length site suffix while estimation uses the identifier as-is.
// Both are kept as explicit call-site choices.
type DeriveMode int

const (
	// DeriveStripSuffix drops the trailing site suffix from project_id.
	// Used on the coefficient-derivation path.
	DeriveStripSuffix DeriveMode = iota
	// DeriveDirect uses the whitespace-trimmed project_id unchanged.
	// Used on the estimation path.
	DeriveDirect
)

// BudgetCode applies the mode to one raw identifier.
func (m DeriveMode) BudgetCode(projectID string) string {
	id := strings.TrimSpace(projectID)
	if m == DeriveStripSuffix && len(id) > suffixLen {
		return id[:len(id)-suffixLen]
	}
	return id
}

// Total is the aggregated inventory for one project.
type Total struct {
	BudgetCode    string  `json:"budget_code"`
	TotalValueCHF float64 `json:"total_value_chf"`
	TotalVolumeM3 float64 `json:"total_volume_m3"`
	TotalWeightKG float64 `json:"total_weight_kg"`
}

// Aggregate sums value, volume and weight per BudgetCode over rows whose
// delivery year is inside the fixed window. Rows with unparseable dates
// or empty identifiers are skipped; missing numeric cells contribute
// zero.
func Aggregate(table *dataload.InventoryTable, mode DeriveMode) []Total {
	sums := make(map[string]*Total)
	for _, rec := range table.Rows {
		if !rec.DeliveryValid || !WindowYears[rec.DeliveryDate.Year()] {
			continue
		}
		code := mode.BudgetCode(rec.ProjectID)
		if code == "" {
			continue
		}

		t, ok := sums[code]
		if !ok {
			t = &Total{BudgetCode: code}
			sums[code] = t
		}
		if rec.ValueCHF.Valid {
			t.TotalValueCHF += rec.ValueCHF.Value
		}
		if rec.VolumeM3.Valid {
			t.TotalVolumeM3 += rec.VolumeM3.Value
		}
		if rec.WeightKG.Valid {
			t.TotalWeightKG += rec.WeightKG.Value
		}
	}

	out := make([]Total, 0, len(sums))
	for _, t := range sums {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BudgetCode < out[j].BudgetCode })
	return out
}
