package dataload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildSheet writes rows into an in-memory xlsx file and returns its
// serialized bytes.
func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestLoadCostTable(t *testing.T) {
	t.Run("drops invalid budget codes", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"BudgetCode", "DecisionMoment", "whatLVL1Desc", "Total CHF"},
			{"AB123", "2023-01", "CONSTRUCTION", "1000"},
			{"total", "2023-01", "CONSTRUCTION", "9999"},
			{"XY", "2023-02", "EQUIPMENT", "50"},
			{"", "2023-03", "EQUIPMENT", "60"},
			{" ab124 ", "2023-04", "EQUIPMENT", "70"},
		})

		table, err := LoadCostTable(sheet)
		require.NoError(t, err)
		assert.True(t, table.HasBudgetCode)
		assert.False(t, table.HasActualsFlag)

		require.Len(t, table.Rows, 2)
		assert.Equal(t, "AB123", table.Rows[0].BudgetCode)
		assert.Equal(t, "AB124", table.Rows[1].BudgetCode)
	})

	t.Run("trims header whitespace", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{" BudgetCode ", "DecisionMoment", " whatLVL1Desc", "Total CHF ", "Actuals/forecast"},
			{"AB123", "2023-01", "CONSTRUCTION", "1000", "Actuals"},
		})

		table, err := LoadCostTable(sheet)
		require.NoError(t, err)
		assert.True(t, table.HasActualsFlag)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Actuals", table.Rows[0].ActualsForecast)
		assert.Equal(t, 1000.0, table.Rows[0].AmountCHF.Value)
	})

	t.Run("no budget code column is not an error", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"DecisionMoment", "whatLVL1Desc", "Total CHF"},
			{"2023-01", "CONSTRUCTION", "1000"},
		})

		table, err := LoadCostTable(sheet)
		require.NoError(t, err)
		assert.False(t, table.HasBudgetCode)
		require.Len(t, table.Rows, 1)
	})

	t.Run("missing required column", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"BudgetCode", "DecisionMoment", "whatLVL1Desc"},
			{"AB123", "2023-01", "CONSTRUCTION"},
		})

		_, err := LoadCostTable(sheet)
		require.Error(t, err)

		var missing *MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Total CHF", missing.Column)
	})

	t.Run("non-numeric amount becomes missing", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"BudgetCode", "DecisionMoment", "whatLVL1Desc", "Total CHF"},
			{"AB123", "2023-01", "CONSTRUCTION", "n/a"},
		})

		table, err := LoadCostTable(sheet)
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.False(t, table.Rows[0].AmountCHF.Valid)
	})
}

func TestLoadInventoryTable(t *testing.T) {
	t.Run("parses rows and dates", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"project_id", "actual_delivery_date", "price_orderline", "order_volume_m3", "order_weight_kg"},
			{"AB123MCH", "2023-05-10", "500", "10", "20"},
			{"AB123MCH", "not a date", "500", "10", "20"},
			{"AB124MCH", "2024-02-01", "bad", "2.5", "4"},
		})

		table, err := LoadInventoryTable(sheet)
		require.NoError(t, err)
		require.Len(t, table.Rows, 3)

		assert.True(t, table.Rows[0].DeliveryValid)
		assert.Equal(t, 2023, table.Rows[0].DeliveryDate.Year())
		assert.False(t, table.Rows[1].DeliveryValid)
		assert.False(t, table.Rows[2].ValueCHF.Valid)
		assert.Equal(t, 2.5, table.Rows[2].VolumeM3.Value)
	})

	t.Run("missing column", func(t *testing.T) {
		sheet := buildSheet(t, [][]interface{}{
			{"project_id", "actual_delivery_date", "price_orderline"},
			{"AB123MCH", "2023-05-10", "500"},
		})

		_, err := LoadInventoryTable(sheet)
		var missing *MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "order_volume_m3", missing.Column)
	})
}
