package enduse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

var testYears = []int{2020, 2021, 2022, 2023, 2024}

func newConsumption(t *testing.T, cols map[string][]float64) *profile.Table {
	t.Helper()
	n := 0
	for _, vals := range cols {
		n = len(vals)
		break
	}
	tbl := profile.New(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), profile.MinStep, n)
	for name, vals := range cols {
		require.NoError(t, tbl.SetColumn(name, vals))
	}
	return tbl
}

func newStove(t *testing.T, params Params) *Asset {
	t.Helper()
	baseline := newConsumption(t, map[string][]float64{
		"out.natural_gas.range_oven.energy_consumption": {10, 3},
		"out.electricity.something":                     {0, 10},
	})
	retrofit := newConsumption(t, map[string][]float64{
		"out.electricity.range_oven.energy_consumption": {10, 3},
		"out.electricity.something_else":                {0, 10},
	})
	a, err := New(KindStove, testYears, baseline, retrofit, params)
	require.NoError(t, err)
	return a
}

func TestCanonicalEnergies(t *testing.T) {
	stove := newStove(t, Params{})

	// the gas column carries through; electricity and propane are zero-filled
	gas, ok := stove.BaselineEnergy.Column("out.natural_gas.range_oven.energy_consumption")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 3}, gas)
	elec, ok := stove.BaselineEnergy.Column("out.electricity.range_oven.energy_consumption")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, elec)
	lpg, ok := stove.BaselineEnergy.Column("out.propane.range_oven.energy_consumption")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, lpg)

	// unrelated source columns are not carried into the canonical table
	assert.False(t, stove.BaselineEnergy.HasColumn("out.electricity.something"))

	// retrofit flips the fuel
	elec, _ = stove.RetrofitEnergy.Column("out.electricity.range_oven.energy_consumption")
	assert.Equal(t, []float64{10, 3}, elec)
	gas, _ = stove.RetrofitEnergy.Column("out.natural_gas.range_oven.energy_consumption")
	assert.Equal(t, []float64{0, 0}, gas)
}

func TestExistingBookVal(t *testing.T) {
	stove := newStove(t, Params{
		ExistingInstallYear: 2015,
		Lifetime:            10,
		ExistingInstallCost: 750,
	})
	assert.Equal(t, []float64{375, 300, 225, 150, 75}, stove.ExistingBookVal)

	t.Run("ZeroedFromScheduledReplacement", func(t *testing.T) {
		stove := newStove(t, Params{
			ExistingInstallYear: 2015,
			Lifetime:            10,
			ExistingInstallCost: 1000,
			ReplacementYear:     2023,
		})
		assert.Equal(t, []float64{500, 400, 300, 0, 0}, stove.ExistingBookVal)
	})

	t.Run("ClampsAtZero", func(t *testing.T) {
		stove := newStove(t, Params{
			ExistingInstallYear: 2015,
			Lifetime:            5,
			ExistingInstallCost: 750,
		})
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, stove.ExistingBookVal)
	})

	t.Run("ZeroLifetime", func(t *testing.T) {
		// already fully depreciated, never a division fault
		stove := newStove(t, Params{
			ExistingInstallYear: 2015,
			ExistingInstallCost: 750,
		})
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, stove.ExistingBookVal)
	})
}

func TestReplacementVec(t *testing.T) {
	stove := newStove(t, Params{ReplacementYear: 2023})
	assert.Equal(t, []bool{false, false, false, true, false}, stove.ReplacementVec)

	t.Run("DefaultsToLastYear", func(t *testing.T) {
		stove := newStove(t, Params{})
		assert.Equal(t, []bool{false, false, false, false, true}, stove.ReplacementVec)
	})

	t.Run("OutsideHorizon", func(t *testing.T) {
		stove := newStove(t, Params{ReplacementYear: 2030})
		assert.Equal(t, []bool{false, false, false, false, false}, stove.ReplacementVec)
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, stove.ExistingStrandedVal)
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, stove.ReplacementCostVec)
	})
}

func TestExistingStrandedVal(t *testing.T) {
	stove := newStove(t, Params{
		ExistingInstallYear: 2015,
		Lifetime:            10,
		ExistingInstallCost: 1000,
		ReplacementYear:     2023,
	})
	// remaining depreciated value at the replacement year, zero elsewhere
	assert.Equal(t, []float64{0, 0, 0, 200, 0}, stove.ExistingStrandedVal)
}

func TestReplacementCostVec(t *testing.T) {
	stove := newStove(t, Params{
		ReplacementCost: 1000,
		ReplacementYear: 2023,
		Escalator:       0.1,
	})
	// a single escalation period applied at the replacement event
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1100, 0}, stove.ReplacementCostVec, 1e-9)
}

func TestReplacementBookVal(t *testing.T) {
	stove := newStove(t, Params{
		ReplacementCost:     1200,
		ReplacementYear:     2023,
		ReplacementLifetime: 5,
	})
	// linear depreciation begins the year after replacement
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1200, 960}, stove.ReplacementBookVal, 1e-9)

	t.Run("ZeroReplacementLifetime", func(t *testing.T) {
		// immediate full depreciation, never a division fault
		stove := newStove(t, Params{
			ReplacementCost: 1200,
			ReplacementYear: 2023,
		})
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, stove.ReplacementBookVal)
	})
}

func TestAnnualFuelEnergy(t *testing.T) {
	stove := newStove(t, Params{ReplacementYear: 2023})
	isRetrofit := []bool{false, false, false, true, true}

	energy, err := stove.AnnualFuelEnergy(isRetrofit)
	require.NoError(t, err)
	assert.Equal(t, []float64{13, 13, 13, 0, 0}, energy[types.FuelNaturalGas])
	assert.Equal(t, []float64{0, 0, 0, 13, 13}, energy[types.FuelElectricity])
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, energy[types.FuelPropane])
	// stoves have no fuel-oil variant
	_, ok := energy[types.FuelFuelOil]
	assert.False(t, ok)

	_, err = stove.AnnualFuelEnergy([]bool{true})
	assert.Error(t, err, "misaligned retrofit vector must be rejected")
}

func TestCostTable(t *testing.T) {
	stove := newStove(t, Params{
		ExistingInstallYear: 2015,
		Lifetime:            10,
		ExistingInstallCost: 1000,
		ReplacementYear:     2023,
		ReplacementCost:     1000,
		ReplacementLifetime: 10,
	})
	table := stove.CostTable()
	assert.Equal(t, stove.ExistingBookVal, table["stove.book_val"])
	assert.Equal(t, stove.ExistingStrandedVal, table["stove.stranded_val"])
	assert.Equal(t, stove.ReplacementCostVec, table["stove.replacement_cost"])
	assert.Equal(t, stove.ReplacementBookVal, table["stove.replacement_book_val"])
}

func TestHVACZeroFill(t *testing.T) {
	baseline := newConsumption(t, map[string][]float64{
		"out.natural_gas.heating.energy_consumption": {5, 5},
		"out.electricity.cooling.energy_consumption": {2, 2},
	})
	retrofit := newConsumption(t, map[string][]float64{
		"out.electricity.heating.energy_consumption":         {4, 4},
		"out.electricity.heating_hp_bkup.energy_consumption": {1, 1},
		"out.electricity.cooling.energy_consumption":         {2, 2},
	})
	hvac, err := New(KindHVAC, testYears, baseline, retrofit, Params{ReplacementYear: 2022})
	require.NoError(t, err)

	energy, err := hvac.AnnualFuelEnergy([]bool{false, false, true, true, true})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 0, 0, 0}, energy[types.FuelNaturalGas])
	assert.Equal(t, []float64{4, 4, 14, 14, 14}, energy[types.FuelElectricity])
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, energy[types.FuelFuelOil])
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("STOVE")
	require.NoError(t, err)
	assert.Equal(t, KindStove, k)

	_, err = ParseKind("dishwasher")
	assert.Error(t, err)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{}.Validate())
	assert.Error(t, Params{Lifetime: -1}.Validate())
	assert.Error(t, Params{ReplacementLifetime: -5}.Validate())
	assert.Error(t, Params{ExistingInstallCost: -1}.Validate())
	assert.Error(t, Params{ReplacementCost: -1}.Validate())
	assert.Error(t, Params{Escalator: -0.1}.Validate())
}
