package types

import "fmt"

// Fuel identifies an energy source for consumption, cost, and emissions
// accounting.
type Fuel string

const (
	FuelElectricity Fuel = "electricity"
	FuelNaturalGas  Fuel = "natural_gas"
	FuelPropane     Fuel = "propane"
	FuelFuelOil     Fuel = "fuel_oil"

	// Hybrid fuels only appear as scenario-level fuel typings; they never
	// carry their own consumption columns.
	FuelHybridGas Fuel = "hybrid_gas"
	FuelHybridNPA Fuel = "hybrid_npa"
)

// CanonicalFuels is the fixed column set every consumption table is
// normalized to, in output order.
var CanonicalFuels = []Fuel{FuelElectricity, FuelNaturalGas, FuelPropane, FuelFuelOil}

// FuelCode is the short code used for the per-year dominant fuel vector and
// for methane leak lookups.
type FuelCode string

const (
	FuelCodeGas      FuelCode = "GAS"
	FuelCodeOil      FuelCode = "OIL"
	FuelCodeElectric FuelCode = "ELEC"
	FuelCodePropane  FuelCode = "LPG"
	FuelCodeHybrid   FuelCode = "HPL"
	FuelCodeNPA      FuelCode = "NPH"
)

// ParseFuel validates a fuel label from configuration.
func ParseFuel(s string) (Fuel, error) {
	switch Fuel(s) {
	case FuelElectricity, FuelNaturalGas, FuelPropane, FuelFuelOil, FuelHybridGas, FuelHybridNPA:
		return Fuel(s), nil
	}
	return "", fmt.Errorf("unknown fuel: %q", s)
}
