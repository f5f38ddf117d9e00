package dataload

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column labels expected in uploaded spreadsheets. Header cells are
// whitespace-trimmed before matching.
const (
	ColBudgetCode     = "BudgetCode"
	ColDecisionMoment = "DecisionMoment"
	ColCategory       = "whatLVL1Desc"
	ColAmountCHF      = "Total CHF"
	ColActualsFlag    = "Actuals/forecast"

	ColProjectID    = "project_id"
	ColDeliveryDate = "actual_delivery_date"
	ColOrderValue   = "price_orderline"
	ColOrderVolume  = "order_volume_m3"
	ColOrderWeight  = "order_weight_kg"
)

// MissingColumnError reports a required column absent from an upload.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in uploaded file", e.Column)
}

// LoadCostTable reads a cost ledger spreadsheet into typed rows.
//
// Rows with a missing or malformed BudgetCode are dropped here. If the
// file has no BudgetCode column at all, validation is skipped and
// HasBudgetCode is false; callers that need per-project grouping must
// check it.
func LoadCostTable(r io.Reader) (*CostTable, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}

	header, dataStart, err := mapColumns(rows, ColDecisionMoment, ColCategory, ColAmountCHF)
	if err != nil {
		return nil, err
	}

	codeCol, hasCode := header[ColBudgetCode]
	flagCol, hasFlag := header[ColActualsFlag]

	table := &CostTable{HasBudgetCode: hasCode, HasActualsFlag: hasFlag}
	for _, row := range rows[dataStart:] {
		rec := CostRecord{
			DecisionMoment: strings.TrimSpace(cell(row, header[ColDecisionMoment])),
			Category:       strings.TrimSpace(cell(row, header[ColCategory])),
			AmountCHF:      ParseNumber(cell(row, header[ColAmountCHF])),
		}
		if hasCode {
			code := NormalizeBudgetCode(cell(row, codeCol))
			if !ValidBudgetCode(code) {
				continue
			}
			rec.BudgetCode = code
		}
		if hasFlag {
			rec.ActualsForecast = strings.TrimSpace(cell(row, flagCol))
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// LoadInventoryTable reads an inventory export into typed rows. Delivery
// dates that cannot be parsed are kept as invalid rather than failing the
// load; numeric cells follow the same missing-as-zero policy.
func LoadInventoryTable(r io.Reader) (*InventoryTable, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}

	header, dataStart, err := mapColumns(rows,
		ColProjectID, ColDeliveryDate, ColOrderValue, ColOrderVolume, ColOrderWeight)
	if err != nil {
		return nil, err
	}

	table := &InventoryTable{}
	for _, row := range rows[dataStart:] {
		rec := InventoryRecord{
			ProjectID: strings.TrimSpace(cell(row, header[ColProjectID])),
			ValueCHF:  ParseNumber(cell(row, header[ColOrderValue])),
			VolumeM3:  ParseNumber(cell(row, header[ColOrderVolume])),
			WeightKG:  ParseNumber(cell(row, header[ColOrderWeight])),
		}
		if date, ok := parseDate(cell(row, header[ColDeliveryDate])); ok {
			rec.DeliveryDate = date
			rec.DeliveryValid = true
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// sheetRows opens an xlsx stream and returns the rows of its first sheet.
func sheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return rows, nil
}

// mapColumns locates the header row and maps trimmed header labels to
// column indexes. The header row is the first row containing every
// required label; each required label missing from it is an error.
func mapColumns(rows [][]string, required ...string) (map[string]int, int, error) {
	for i, row := range rows {
		header := make(map[string]int, len(row))
		for j, label := range row {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, dup := header[label]; !dup {
				header[label] = j
			}
		}

		complete := true
		for _, col := range required {
			if _, ok := header[col]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return header, i + 1, nil
		}
	}

	// No complete header row: report the first missing label using the
	// best candidate row (the first non-empty one).
	for _, row := range rows {
		header := make(map[string]int, len(row))
		for j, label := range row {
			header[strings.TrimSpace(label)] = j
		}
		for _, col := range required {
			if _, ok := header[col]; !ok {
				return nil, 0, &MissingColumnError{Column: col}
			}
		}
	}
	return nil, 0, &MissingColumnError{Column: required[0]}
}

// cell safely fetches a cell by index, returning "" past the row's end.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// dateFormats are tried in order when parsing delivery dates. Excel
// renders dates differently depending on the cell style, so several
// layouts are accepted.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"01-02-06",
	"02-01-2006",
	"1/2/06 15:04",
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
