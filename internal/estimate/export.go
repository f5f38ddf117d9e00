package estimate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes estimate rows in download format.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := []string{
		"BudgetCode",
		"TotalValueCHF",
		"TotalVolumeM3",
		"TotalWeightKG",
		"Annual cost (value-based)",
		"Annual cost (m^3-based)",
		"Annual cost (kg-based)",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.BudgetCode,
			formatAmount(r.TotalValueCHF),
			formatAmount(r.TotalVolumeM3),
			formatAmount(r.TotalWeightKG),
			formatAmount(r.AnnualCostValueBased),
			formatAmount(r.AnnualCostVolumeBased),
			formatAmount(r.AnnualCostWeightBased),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", r.BudgetCode, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
