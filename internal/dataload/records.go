package dataload

import (
	"strconv"
	"strings"
	"time"
)

// Number is a numeric cell that may be missing. Non-parseable cells are
// recorded as invalid and contribute nothing to sums.
type Number struct {
	Value float64
	Valid bool
}

// ParseNumber coerces a raw cell value to a Number. Empty strings and
// unparseable values yield an invalid Number, not an error.
func ParseNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Number{}
	}
	// Spreadsheet exports frequently carry thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// CostRecord is one cost ledger line.
type CostRecord struct {
	BudgetCode      string
	DecisionMoment  string // period string; first four characters are the year
	Category        string
	ActualsForecast string // empty when the file has no actuals/forecast column
	AmountCHF       Number
}

// Year returns the decision year, the first four characters of the period.
func (r CostRecord) Year() string {
	if len(r.DecisionMoment) < 4 {
		return r.DecisionMoment
	}
	return r.DecisionMoment[:4]
}

// CostTable is a loaded cost ledger.
type CostTable struct {
	Rows []CostRecord

	// HasBudgetCode reports whether the source file carried a BudgetCode
	// column. When false, code validation was skipped at load time and
	// aggregation by project is impossible.
	HasBudgetCode bool

	// HasActualsFlag reports whether the source file carried an
	// Actuals/forecast column. When false, every row is used.
	HasActualsFlag bool
}

// InventoryRecord is one shipment or order line.
type InventoryRecord struct {
	ProjectID     string
	DeliveryDate  time.Time
	DeliveryValid bool // false when the delivery date could not be parsed
	ValueCHF      Number
	VolumeM3      Number
	WeightKG      Number
}

// InventoryTable is a loaded inventory export.
type InventoryTable struct {
	Rows []InventoryRecord
}
