package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdcost/internal/coefficients"
	"holdcost/internal/inventory"
)

func coeffTable(rows ...coefficients.Row) *coefficients.Table {
	return &coefficients.Table{Rows: rows}
}

func TestEstimate(t *testing.T) {
	t.Run("applies the median ratios", func(t *testing.T) {
		coeffs := coeffTable(
			coefficients.Row{BudgetCode: "MEAN", CHFPerValue: 99, CHFPerM3: 99, CHFPerKG: 99},
			coefficients.Row{BudgetCode: "MEDIAN", CHFPerValue: 1.5, CHFPerM3: 75, CHFPerKG: 37.5},
		)
		totals := []inventory.Total{
			{BudgetCode: "AB123MCH", TotalValueCHF: 1000, TotalVolumeM3: 20, TotalWeightKG: 40},
		}

		rows, err := Estimate(coeffs, totals)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, Row{
			BudgetCode:            "AB123",
			TotalValueCHF:         1000,
			TotalVolumeM3:         20,
			TotalWeightKG:         40,
			AnnualCostValueBased:  1500,
			AnnualCostVolumeBased: 1500,
			AnnualCostWeightBased: 1500,
		}, rows[0])
	})

	t.Run("mean row is never a fallback", func(t *testing.T) {
		coeffs := coeffTable(coefficients.Row{BudgetCode: "MEAN", CHFPerValue: 1})

		_, err := Estimate(coeffs, []inventory.Total{{BudgetCode: "AB123"}})
		assert.ErrorIs(t, err, coefficients.ErrNoMedianRow)
	})

	t.Run("suffix stripped only on exact trailing match", func(t *testing.T) {
		coeffs := coeffTable(coefficients.Row{BudgetCode: "MEDIAN", CHFPerValue: 1, CHFPerM3: 1, CHFPerKG: 1})
		totals := []inventory.Total{
			{BudgetCode: "AB123MCH"},
			{BudgetCode: "AB123XYZ"},
			{BudgetCode: "MCHAB123"},
		}

		rows, err := Estimate(coeffs, totals)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "AB123", rows[0].BudgetCode)
		assert.Equal(t, "AB123XYZ", rows[1].BudgetCode)
		assert.Equal(t, "MCHAB123", rows[2].BudgetCode)
	})

	t.Run("results rounded to two decimals", func(t *testing.T) {
		coeffs := coeffTable(coefficients.Row{BudgetCode: "MEDIAN", CHFPerValue: 0.333, CHFPerM3: 1, CHFPerKG: 1})
		totals := []inventory.Total{{BudgetCode: "AB123", TotalValueCHF: 10}}

		rows, err := Estimate(coeffs, totals)
		require.NoError(t, err)
		assert.Equal(t, 3.33, rows[0].AnnualCostValueBased)
	})
}

func TestFilterCodes(t *testing.T) {
	rows := []Row{{BudgetCode: "AB123"}, {BudgetCode: "AB124"}, {BudgetCode: "AB125"}}

	t.Run("empty selection keeps everything", func(t *testing.T) {
		assert.Equal(t, rows, FilterCodes(rows, nil))
	})

	t.Run("keeps only selected codes", func(t *testing.T) {
		got := FilterCodes(rows, []string{" AB123 ", "AB125"})
		require.Len(t, got, 2)
		assert.Equal(t, "AB123", got[0].BudgetCode)
		assert.Equal(t, "AB125", got[1].BudgetCode)
	})

	t.Run("unknown codes yield empty result", func(t *testing.T) {
		assert.Empty(t, FilterCodes(rows, []string{"ZZ999"}))
	})
}
