package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parcelsim/parcelsim/pkg/building"
	"github.com/parcelsim/parcelsim/pkg/enduse"
	"github.com/parcelsim/parcelsim/pkg/storage"
	"github.com/parcelsim/parcelsim/pkg/storage/storagemock"
	"github.com/parcelsim/parcelsim/pkg/types"
)

const (
	baselineCSV = "timestamp,out.natural_gas.heating.energy_consumption\n" +
		"2018-01-01T00:00:00Z,8\n2018-01-01T00:15:00Z,8\n"
	retrofitCSV = "timestamp,out.electricity.heating.energy_consumption\n" +
		"2018-01-01T00:00:00Z,6\n2018-01-01T00:15:00Z,6\n"
)

func writeConsumption(t *testing.T, dir string, buildingIDs ...string) {
	t.Helper()
	for _, id := range buildingIDs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+"_baseline.csv"), []byte(baselineCSV), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+"_retrofit.csv"), []byte(retrofitCSV), 0o644))
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func testInputs(t *testing.T, buildingIDs ...string) Inputs {
	t.Helper()
	dir := t.TempDir()
	writeConsumption(t, dir, buildingIDs...)

	params := enduse.Params{
		ExistingInstallYear: 2015,
		Lifetime:            10,
		ExistingInstallCost: 100,
		ReplacementCost:     200,
		ReplacementLifetime: 10,
	}
	costs := building.CostTable{}
	cfgs := make([]building.Config, 0, len(buildingIDs))
	for _, id := range buildingIDs {
		costs[id] = map[string]enduse.Params{
			"stove":              params,
			"clothes_dryer":      params,
			"domestic_hot_water": params,
			"hvac":               params,
		}
		cfgs = append(cfgs, building.Config{
			ID:           id,
			RetrofitYear: 2022,
			Size:         "medium",
			OriginalFuel: types.FuelNaturalGas,
			RetrofitFuel: types.FuelElectricity,
		})
	}

	factors := types.DefaultFactors()
	factors.RetrofitAdders = map[string]float64{"medium": 5000}

	return Inputs{
		Settings: types.Settings{
			Segment:      "sf",
			Scenario:     "accelerated_elec",
			SimStartYear: 2020,
			SimEndYear:   2025,
			Workers:      2,
		}.WithDefaults(),
		Factors: factors,
		Rates: types.RateSchedule{Fuels: map[types.Fuel][]float64{
			types.FuelElectricity: repeat(0.1, 5),
			types.FuelNaturalGas:  repeat(0.05, 5),
			types.FuelPropane:     repeat(0.2, 5),
			types.FuelFuelOil:     repeat(0.15, 5),
		}},
		Costs:          costs,
		Buildings:      cfgs,
		ConsumptionDir: dir,
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	in := testInputs(t, "b1", "b2")
	store, err := storage.NewCSVStore(t.TempDir())
	require.NoError(t, err)

	run, err := Run(ctx, in, store)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "sf", run.Segment)
	assert.Equal(t, []string{"b1", "b2"}, run.Buildings)

	// per-building results are readable back
	res, err := store.GetBuilding(ctx, run.ID, "b1")
	require.NoError(t, err)
	assert.Equal(t, "accelerated_elec", res.Scenario)
	assert.Equal(t, []float64{16, 16, 0, 0, 0}, res.AnnualEnergyByFuel[types.FuelNaturalGas])
	assert.Equal(t, []float64{0, 0, 12, 12, 12}, res.AnnualEnergyByFuel[types.FuelElectricity])

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestRunMissingConsumption(t *testing.T) {
	in := testInputs(t, "b1")
	in.Buildings = append(in.Buildings, building.Config{
		ID:           "b2",
		OriginalFuel: types.FuelNaturalGas,
	})
	in.Costs["b2"] = in.Costs["b1"]

	store, err := storage.NewCSVStore(t.TempDir())
	require.NoError(t, err)

	_, err = Run(context.Background(), in, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b2")
}

func TestRunStoreFailure(t *testing.T) {
	in := testInputs(t, "b1")
	store := &storagemock.MockStore{}
	store.On("PutBuilding", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := Run(context.Background(), in, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	store.AssertExpectations(t)
}

func TestRunInvalidSettings(t *testing.T) {
	in := testInputs(t, "b1")
	in.Settings.Scenario = "time_travel"
	store := &storagemock.MockStore{}

	_, err := Run(context.Background(), in, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_travel")
}

func TestCombineCosts(t *testing.T) {
	results := []types.BuildingResult{
		{
			BuildingID:  "b1",
			Scenario:    "hybrid_gas",
			Years:       []int{2020, 2021},
			CostColumns: map[string][]float64{"stove.book_val": {50, 40}},
		},
		{
			BuildingID:  "b2",
			Scenario:    "hybrid_gas",
			Years:       []int{2020, 2021},
			CostColumns: map[string][]float64{"hvac.book_val": {90, 80}},
		},
	}
	combined := CombineCosts(results)
	assert.Equal(t, "costs", combined.Name)
	assert.Equal(t, []string{"building_id", "scenario", "year", "hvac.book_val", "stove.book_val"}, combined.Header)
	require.Len(t, combined.Rows, 4)
	// columns a building lacks read as zero
	assert.Equal(t, []string{"b1", "hybrid_gas", "2020", "0", "50"}, combined.Rows[0])
	assert.Equal(t, []string{"b2", "hybrid_gas", "2021", "80", "0"}, combined.Rows[3])
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"segment":"sf","scenario":"natural_elec"}`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 2020, s.SimStartYear, "defaults are applied")
	assert.Equal(t, 2050, s.SimEndYear)

	t.Run("UnknownScenario", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"segment":"sf","scenario":"nope"}`), 0o644))
		_, err := LoadSettings(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "continued_gas", "error lists the allowed scenarios")
	})
}

func TestLoadRetrofitAdders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Medium": 5000, "LARGE": 9000}`), 0o644))

	adders, err := LoadRetrofitAdders(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"medium": 5000, "large": 9000}, adders)
}
