package costs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdcost/internal/dataload"
)

func costTable(hasFlag bool, rows ...dataload.CostRecord) *dataload.CostTable {
	return &dataload.CostTable{Rows: rows, HasBudgetCode: true, HasActualsFlag: hasFlag}
}

func rec(code, period, category, flag string, amount float64) dataload.CostRecord {
	return dataload.CostRecord{
		BudgetCode:      code,
		DecisionMoment:  period,
		Category:        category,
		ActualsForecast: flag,
		AmountCHF:       dataload.Number{Value: amount, Valid: true},
	}
}

func TestFilterAndGroup(t *testing.T) {
	t.Run("excludes freight and unknown categories", func(t *testing.T) {
		table := costTable(false,
			rec("AB123", "2023-01", "CONSTRUCTION", "", 100),
			rec("AB123", "2023-01", "FREIGHT", "", 500),
			rec("AB123", "2023-01", "SOMETHING ELSE", "", 500),
		)

		groups, err := FilterAndGroup(table)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 100.0, groups[0].TotalCHF)
	})

	t.Run("actuals filter applies only when column present", func(t *testing.T) {
		withFlag := costTable(true,
			rec("AB123", "2023-01", "CONSTRUCTION", "Actuals", 100),
			rec("AB123", "2023-01", "CONSTRUCTION", "Forecast", 900),
		)
		groups, err := FilterAndGroup(withFlag)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 100.0, groups[0].TotalCHF)

		// Without the column every row is realized spend.
		withoutFlag := costTable(false,
			rec("AB123", "2023-01", "CONSTRUCTION", "", 100),
			rec("AB123", "2023-01", "CONSTRUCTION", "", 900),
		)
		groups, err = FilterAndGroup(withoutFlag)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 1000.0, groups[0].TotalCHF)
	})

	t.Run("groups by exact project and period", func(t *testing.T) {
		table := costTable(false,
			rec("AB123", "2023-01", "CONSTRUCTION", "", 100),
			rec("AB123", "2023-01", "EQUIPMENT", "", 50),
			rec("AB123", "2023-02", "CONSTRUCTION", "", 10),
			rec("AB124", "2023-01", "CONSTRUCTION", "", 7),
		)

		groups, err := FilterAndGroup(table)
		require.NoError(t, err)
		require.Len(t, groups, 3)
		assert.Equal(t, PeriodTotal{BudgetCode: "AB123", DecisionMoment: "2023-01", TotalCHF: 150}, groups[0])
		assert.Equal(t, PeriodTotal{BudgetCode: "AB123", DecisionMoment: "2023-02", TotalCHF: 10}, groups[1])
		assert.Equal(t, PeriodTotal{BudgetCode: "AB124", DecisionMoment: "2023-01", TotalCHF: 7}, groups[2])
	})

	t.Run("missing amounts contribute nothing", func(t *testing.T) {
		table := costTable(false,
			rec("AB123", "2023-01", "CONSTRUCTION", "", 100),
			dataload.CostRecord{BudgetCode: "AB123", DecisionMoment: "2023-01", Category: "CONSTRUCTION"},
		)

		groups, err := FilterAndGroup(table)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, 100.0, groups[0].TotalCHF)
	})

	t.Run("no budget code column", func(t *testing.T) {
		_, err := FilterAndGroup(&dataload.CostTable{HasBudgetCode: false})
		require.Error(t, err)
	})
}

func TestSummarizeAnnual(t *testing.T) {
	groups := []PeriodTotal{
		{BudgetCode: "AB123", DecisionMoment: "2023-01", TotalCHF: 100},
		{BudgetCode: "AB123", DecisionMoment: "2023-06", TotalCHF: 50},
		{BudgetCode: "AB123", DecisionMoment: "2024-01", TotalCHF: 10},
	}

	summary := SummarizeAnnual(groups)
	require.Len(t, summary, 2)
	assert.Equal(t, AnnualTotal{BudgetCode: "AB123", Year: "2023", TotalCHF: 150}, summary[0])
	assert.Equal(t, AnnualTotal{BudgetCode: "AB123", Year: "2024", TotalCHF: 10}, summary[1])
}

func TestAnnualize(t *testing.T) {
	t.Run("two year average", func(t *testing.T) {
		table := costTable(true,
			rec("AB123", "2023-01", "CONSTRUCTION", "Actuals", 1000),
			rec("AB123", "2024-06", "CONSTRUCTION", "Actuals", 2000),
		)

		totals, err := Annualize(table)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, "AB123", totals[0].BudgetCode)
		assert.Equal(t, 1500.0, totals[0].AvgAnnualCostCHF)
	})

	t.Run("rows outside the window are ignored", func(t *testing.T) {
		table := costTable(false,
			rec("AB123", "2022-12", "CONSTRUCTION", "", 4000),
			rec("AB123", "2023-01", "CONSTRUCTION", "", 1000),
			rec("AB123", "2025-01", "CONSTRUCTION", "", 4000),
		)

		totals, err := Annualize(table)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, 500.0, totals[0].AvgAnnualCostCHF)
	})
}

func TestCategoryBreakdown(t *testing.T) {
	table := costTable(true,
		rec("AB123", "2023-01", "CONSTRUCTION", "Actuals", 100),
		rec("AB123", "2023-03", "FREIGHT", "Actuals", 700),
		rec("AB123", "2023-04", "EQUIPMENT", "Actuals", 300),
		rec("AB123", "2024-01", "CONSTRUCTION", "Actuals", 999),
		rec("AB124", "2023-01", "CONSTRUCTION", "Actuals", 999),
		rec("AB123", "2023-06", "CONSTRUCTION", "Forecast", 999),
	)

	breakdown, err := CategoryBreakdown(table, "AB123", "2023")
	require.NoError(t, err)

	// Sorted by descending amount; freight shown here since the
	// breakdown inspects all spend for the project.
	require.Len(t, breakdown, 3)
	assert.Equal(t, CategoryTotal{Category: "FREIGHT", TotalCHF: 700}, breakdown[0])
	assert.Equal(t, CategoryTotal{Category: "EQUIPMENT", TotalCHF: 300}, breakdown[1])
	assert.Equal(t, CategoryTotal{Category: "CONSTRUCTION", TotalCHF: 100}, breakdown[2])
}
