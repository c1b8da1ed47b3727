package types

// Factors bundles the read-only factor tables a simulation needs: emission
// factors, methane leak rates, fuel code mappings, and building-level
// retrofit adders. A Factors value is injected into each Building at
// construction so scenarios with different tables can run side by side.
type Factors struct {
	// EmissionFactors is tCO2 per kWh by fuel. The electricity entry is the
	// pre-decay constant; see ElectricityFactors.
	EmissionFactors map[Fuel]float64

	// ElectricityDecayYear is the first calendar year the grid factor decays.
	ElectricityDecayYear int
	// ElectricityDecayRate is the annual fractional reduction (0.03 = 3%/yr).
	ElectricityDecayRate float64

	// MethaneLeakRates is the per-year leak contribution by dominant fuel
	// code. Codes not present contribute 0.
	MethaneLeakRates map[FuelCode]float64

	// FuelCodes maps a fuel label to its dominant-fuel code.
	FuelCodes map[Fuel]FuelCode

	// RetrofitAdders is the one-time building-level retrofit cost keyed by
	// building size category (lowercase).
	RetrofitAdders map[string]float64
}

// DefaultFactors returns the standard factor tables. Emission factor inputs
// are kgCO2/MMBtu for combustion fuels and tCO2/MWh for electricity,
// converted here to tCO2/kWh.
func DefaultFactors() Factors {
	const mmbtuToT = 293 * 907 // kWh per MMBtu * kg per short ton
	return Factors{
		EmissionFactors: map[Fuel]float64{
			FuelNaturalGas:  53.0 / mmbtuToT,
			FuelElectricity: 0.45 / 1000,
			FuelFuelOil:     73.96 / mmbtuToT,
			FuelPropane:     61.71 / mmbtuToT,
			FuelHybridGas:   53.0 / mmbtuToT,
			FuelHybridNPA:   61.71 / mmbtuToT,
		},
		ElectricityDecayYear: 2024,
		ElectricityDecayRate: 0.03,
		MethaneLeakRates: map[FuelCode]float64{
			FuelCodeGas:    2,
			FuelCodeHybrid: 1,
		},
		FuelCodes: map[Fuel]FuelCode{
			FuelNaturalGas:  FuelCodeGas,
			FuelFuelOil:     FuelCodeOil,
			FuelElectricity: FuelCodeElectric,
			FuelPropane:     FuelCodePropane,
			FuelHybridGas:   FuelCodeHybrid,
			FuelHybridNPA:   FuelCodeNPA,
		},
		RetrofitAdders: map[string]float64{},
	}
}

// EmissionFactorSeries returns the per-year emission factor for a fuel,
// aligned to years. Combustion fuels are flat. Electricity decays: slots
// with year < ElectricityDecayYear hold the constant, and every later slot
// is the previous slot scaled by (1 - ElectricityDecayRate), computed in
// increasing index order. A horizon that starts at or after the decay year
// seeds the first slot with the constant.
func (f Factors) EmissionFactorSeries(fuel Fuel, years []int) []float64 {
	base := f.EmissionFactors[fuel]
	out := make([]float64, len(years))
	if fuel != FuelElectricity {
		for i := range out {
			out[i] = base
		}
		return out
	}
	for i, year := range years {
		switch {
		case year < f.ElectricityDecayYear:
			out[i] = base
		case i == 0:
			out[i] = base
		default:
			out[i] = out[i-1] * (1 - f.ElectricityDecayRate)
		}
	}
	return out
}

// MethaneLeakSeries maps a dominant-fuel-code vector to per-year leak
// contributions. Unlisted codes contribute 0.
func (f Factors) MethaneLeakSeries(codes []FuelCode) []float64 {
	out := make([]float64, len(codes))
	for i, c := range codes {
		out[i] = f.MethaneLeakRates[c]
	}
	return out
}
