package types

import "time"

// RunInfo describes one completed (or in-progress) scenario run.
type RunInfo struct {
	ID        string    `json:"id"`
	Segment   string    `json:"segment"`
	Scenario  string    `json:"scenario"`
	StartedAt time.Time `json:"startedAt"`
	Buildings []string  `json:"buildings"`
}

// CombinedTable is one cross-building table concatenated by the scenario
// runner: a header row plus one data row per (building, year).
type CombinedTable struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// BuildingResult is the exportable output of one building simulation. All
// sequences are aligned to Years.
type BuildingResult struct {
	BuildingID string `json:"buildingID"`
	Scenario   string `json:"scenario"`
	Years      []int  `json:"years"`

	// AnnualEnergyByFuel is kWh per fuel per year.
	AnnualEnergyByFuel map[Fuel][]float64 `json:"annualEnergyByFuel"`
	// UtilityCosts is $ per fuel per year.
	UtilityCosts map[Fuel][]float64 `json:"utilityCosts"`
	// CombustionEmissions is tCO2 per fuel per year.
	CombustionEmissions map[Fuel][]float64 `json:"combustionEmissions"`

	FuelTypes    []FuelCode `json:"fuelTypes"`
	MethaneLeaks []float64  `json:"methaneLeaks"`

	// OtherCosts is the building-level (non-asset) annual cost sequence.
	OtherCosts []float64 `json:"otherCosts"`

	// CostColumns holds the per-asset financial vectors keyed by
	// "<end_use>.<vector>" plus "building.other_costs".
	CostColumns map[string][]float64 `json:"costColumns"`
}
