package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

func testResult() types.BuildingResult {
	return types.BuildingResult{
		BuildingID: "b1",
		Scenario:   "accelerated_elec",
		Years:      []int{2020, 2021},
		AnnualEnergyByFuel: map[types.Fuel][]float64{
			types.FuelNaturalGas: {28, 0},
		},
		CostColumns: map[string][]float64{
			"stove.book_val":       {50, 40},
			"building.other_costs": {0, 5000},
		},
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	run := types.RunInfo{
		ID:        "run1",
		Segment:   "sf",
		Scenario:  "accelerated_elec",
		StartedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Buildings: []string{"b1"},
	}
	require.NoError(t, store.PutRun(ctx, run))

	got, err := store.GetRun(ctx, "run1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run1", runs[0].ID)

	require.NoError(t, store.PutBuilding(ctx, "run1", testResult()))
	res, err := store.GetBuilding(ctx, "run1", "b1")
	require.NoError(t, err)
	assert.Equal(t, testResult(), res)

	costs, err := os.ReadFile(filepath.Join(store.dir, "run1", "b1_costs.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"year,building.other_costs,stove.book_val\n2020,0,50\n2021,5000,40\n",
		string(costs))
}

func TestCSVStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.GetBuilding(ctx, "nope", "b1")
	assert.ErrorIs(t, err, ErrBuildingNotFound)
}

func TestCSVStoreConsumption(t *testing.T) {
	ctx := context.Background()
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	tbl := profile.New(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, 2)
	require.NoError(t, tbl.SetColumn("out.natural_gas.heating.energy_consumption", []float64{1, 2}))
	require.NoError(t, store.PutConsumption(ctx, "run1", "b1", "baseline", tbl))

	data, err := os.ReadFile(filepath.Join(store.dir, "run1", "b1_baseline_consump.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "out.natural_gas.heating.energy_consumption")
}

func TestCSVStoreCombined(t *testing.T) {
	ctx := context.Background()
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	combined := types.CombinedTable{
		Name:   "costs",
		Header: []string{"building_id", "year", "stove.book_val"},
		Rows: [][]string{
			{"b1", "2020", "50"},
			{"b2", "2020", "75"},
		},
	}
	require.NoError(t, store.PutCombined(ctx, "run1", combined))

	data, err := os.ReadFile(filepath.Join(store.dir, "run1", "combined_costs.csv"))
	require.NoError(t, err)
	assert.Equal(t, "building_id,year,stove.book_val\nb1,2020,50\nb2,2020,75\n", string(data))
}
