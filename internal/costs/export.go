package costs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WritePeriodCSV writes the monthly grouping in download format.
func WritePeriodCSV(w io.Writer, groups []PeriodTotal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"BudgetCode", "DecisionMoment", "Total CHF"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, g := range groups {
		record := []string{g.BudgetCode, g.DecisionMoment, formatAmount(g.TotalCHF)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", g.BudgetCode, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBreakdownCSV writes a category breakdown in download format.
func WriteBreakdownCSV(w io.Writer, breakdown []CategoryTotal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Cost category", "Total CHF"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, b := range breakdown {
		if err := cw.Write([]string{b.Category, formatAmount(b.TotalCHF)}); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", b.Category, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
