package coefficients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultFileName is the read-only coefficient table shipped in the data
// directory, used when the user opts not to supply custom data.
const DefaultFileName = "default_cost_coefficients.csv"

// ErrDefaultMissing is returned when the default coefficient artifact is
// not present in the data directory.
var ErrDefaultMissing = errors.New("default coefficient file not found")

// csvHeader is the fixed artifact column order.
var csvHeader = []string{
	"BudgetCode",
	"AvgAnnualCostCHF",
	"TotalValueCHF",
	"TotalVolumeM3",
	"TotalWeightKG",
	"CHF_per_Value",
	"CHF_per_m3",
	"CHF_per_kg",
}

// WriteCSV writes the table in artifact format.
func WriteCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range table.Rows {
		record := []string{
			r.BudgetCode,
			formatFloat(r.AvgAnnualCostCHF),
			formatFloat(r.TotalValueCHF),
			formatFloat(r.TotalVolumeM3),
			formatFloat(r.TotalWeightKG),
			formatFloat(r.CHFPerValue),
			formatFloat(r.CHFPerM3),
			formatFloat(r.CHFPerKG),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", r.BudgetCode, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save persists the table as a timestamped artifact in dataDir and
// returns the artifact file name. Each run writes a new uniquely named
// file; existing artifacts are never overwritten.
func Save(table *Table, dataDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	name := fmt.Sprintf("custom_cost_coefficients_%s.csv", now.Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dataDir, name))
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, table); err != nil {
		return "", err
	}
	return name, nil
}

// Load parses a coefficient CSV stream. Header labels are trimmed before
// matching; every artifact column must be present.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read coefficient CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("coefficient file contains no data rows")
	}

	cols := make(map[string]int, len(records[0]))
	for i, label := range records[0] {
		cols[strings.TrimSpace(label)] = i
	}
	for _, label := range csvHeader {
		if _, ok := cols[label]; !ok {
			return nil, fmt.Errorf("coefficient file missing column %q", label)
		}
	}

	table := &Table{}
	for i, record := range records[1:] {
		row := Row{BudgetCode: strings.TrimSpace(record[cols["BudgetCode"]])}
		fields := []struct {
			label string
			dst   *float64
		}{
			{"AvgAnnualCostCHF", &row.AvgAnnualCostCHF},
			{"TotalValueCHF", &row.TotalValueCHF},
			{"TotalVolumeM3", &row.TotalVolumeM3},
			{"TotalWeightKG", &row.TotalWeightKG},
			{"CHF_per_Value", &row.CHFPerValue},
			{"CHF_per_m3", &row.CHFPerM3},
			{"CHF_per_kg", &row.CHFPerKG},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[cols[f.label]]), 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s (line %d): %w", f.label, i+2, err)
			}
			*f.dst = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// LoadDefault reads the default coefficient table from dataDir.
func LoadDefault(dataDir string) (*Table, error) {
	f, err := os.Open(filepath.Join(dataDir, DefaultFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDefaultMissing
		}
		return nil, fmt.Errorf("open default coefficient file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
