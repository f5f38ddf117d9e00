package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdcost/internal/dataload"
)

func ship(projectID string, delivered string, value, volume, weight float64) dataload.InventoryRecord {
	rec := dataload.InventoryRecord{
		ProjectID: projectID,
		ValueCHF:  dataload.Number{Value: value, Valid: true},
		VolumeM3:  dataload.Number{Value: volume, Valid: true},
		WeightKG:  dataload.Number{Value: weight, Valid: true},
	}
	if delivered != "" {
		d, err := time.Parse("2006-01-02", delivered)
		if err != nil {
			panic(err)
		}
		rec.DeliveryDate = d
		rec.DeliveryValid = true
	}
	return rec
}

func TestDeriveModeBudgetCode(t *testing.T) {
	tests := []struct {
		name      string
		mode      DeriveMode
		projectID string
		want      string
	}{
		{"strip suffix", DeriveStripSuffix, "AB123MCH", "AB123"},
		{"strip suffix trims whitespace", DeriveStripSuffix, " AB123MCH ", "AB123"},
		{"strip suffix short id left alone", DeriveStripSuffix, "AB1", "AB1"},
		{"direct", DeriveDirect, "AB123MCH", "AB123MCH"},
		{"direct trims whitespace", DeriveDirect, " AB123 ", "AB123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.BudgetCode(tt.projectID))
		})
	}
}

func TestAggregate(t *testing.T) {
	t.Run("sums shipments inside the window", func(t *testing.T) {
		table := &dataload.InventoryTable{Rows: []dataload.InventoryRecord{
			ship("AB123MCH", "2023-05-10", 400, 8, 15),
			ship("AB123MCH", "2024-02-01", 600, 12, 25),
			ship("AB123MCH", "2022-12-31", 999, 99, 99),
			ship("AB123MCH", "2025-01-01", 999, 99, 99),
		}}

		totals := Aggregate(table, DeriveStripSuffix)
		require.Len(t, totals, 1)
		assert.Equal(t, Total{
			BudgetCode:    "AB123",
			TotalValueCHF: 1000,
			TotalVolumeM3: 20,
			TotalWeightKG: 40,
		}, totals[0])
	})

	t.Run("unparseable dates are skipped", func(t *testing.T) {
		bad := ship("AB123MCH", "", 999, 99, 99)
		table := &dataload.InventoryTable{Rows: []dataload.InventoryRecord{
			bad,
			ship("AB123MCH", "2023-05-10", 100, 1, 2),
		}}

		totals := Aggregate(table, DeriveStripSuffix)
		require.Len(t, totals, 1)
		assert.Equal(t, 100.0, totals[0].TotalValueCHF)
	})

	t.Run("missing numerics count as zero", func(t *testing.T) {
		rec := ship("AB123MCH", "2023-05-10", 100, 1, 2)
		rec.VolumeM3 = dataload.Number{}
		table := &dataload.InventoryTable{Rows: []dataload.InventoryRecord{rec}}

		totals := Aggregate(table, DeriveStripSuffix)
		require.Len(t, totals, 1)
		assert.Equal(t, 100.0, totals[0].TotalValueCHF)
		assert.Equal(t, 0.0, totals[0].TotalVolumeM3)
		assert.Equal(t, 2.0, totals[0].TotalWeightKG)
	})

	t.Run("empty identifiers are skipped", func(t *testing.T) {
		table := &dataload.InventoryTable{Rows: []dataload.InventoryRecord{
			ship("   ", "2023-05-10", 999, 99, 99),
			ship("AB124MCH", "2023-05-10", 5, 1, 1),
		}}

		totals := Aggregate(table, DeriveDirect)
		require.Len(t, totals, 1)
		assert.Equal(t, "AB124MCH", totals[0].BudgetCode)
	})

	t.Run("sorted by budget code", func(t *testing.T) {
		table := &dataload.InventoryTable{Rows: []dataload.InventoryRecord{
			ship("CD200MCH", "2023-05-10", 1, 1, 1),
			ship("AB123MCH", "2023-05-10", 1, 1, 1),
		}}

		totals := Aggregate(table, DeriveStripSuffix)
		require.Len(t, totals, 2)
		assert.Equal(t, "AB123", totals[0].BudgetCode)
		assert.Equal(t, "CD200", totals[1].BudgetCode)
	})
}
