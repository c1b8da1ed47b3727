// Package building owns the full set of end-use assets for one parcel and
// aggregates their energy, cost, and emissions outputs into building-level
// annual series aligned to the simulation years.
package building

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parcelsim/parcelsim/pkg/enduse"
	"github.com/parcelsim/parcelsim/pkg/log"
	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

// Config identifies one building and the retrofit narrative applied to it.
type Config struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`

	// RetrofitYear is the year the building switches from its baseline to
	// its retrofit profile. Zero means the building is never retrofitted
	// within the horizon.
	RetrofitYear int `json:"retrofitYear"`

	// Size is the building-size category used for the one-time retrofit
	// adder lookup (matched lowercased).
	Size string `json:"size"`

	// OriginalFuel and RetrofitFuel type the building before and after the
	// retrofit event for methane-leak accounting.
	OriginalFuel types.Fuel `json:"originalFuel"`
	RetrofitFuel types.Fuel `json:"retrofitFuel"`

	// LoadScale multiplies both consumption tables. Zero means 1.
	LoadScale float64 `json:"loadScale"`
}

func (c Config) validate() error {
	if c.ID == "" {
		return fmt.Errorf("building id is required")
	}
	if c.OriginalFuel == "" {
		return fmt.Errorf("building %q: original fuel is required", c.ID)
	}
	if c.RetrofitYear != 0 && c.RetrofitFuel == "" {
		return fmt.Errorf("building %q: retrofit fuel is required when a retrofit year is set", c.ID)
	}
	if c.LoadScale < 0 {
		return fmt.Errorf("building %q: load scale must be >= 0, got %v", c.ID, c.LoadScale)
	}
	return nil
}

// Building is one parcel's simulation state. Construct with New, derive
// everything with Populate, then only read. Populate takes ownership of the
// consumption tables passed to New.
type Building struct {
	cfg     Config
	factors types.Factors
	rates   types.RateSchedule
	years   []int

	Baseline *profile.Table
	Retrofit *profile.Table
	EndUses  map[enduse.Kind]*enduse.Asset

	// RetrofitVec is true exactly at the retrofit year; IsRetrofitVec is its
	// cumulative OR (has this building been retrofitted as of year i).
	RetrofitVec   []bool
	IsRetrofitVec []bool

	// FuelTypeVec is the per-year dominant fuel code: the original fuel
	// before the retrofit year, the retrofit fuel at and after it.
	FuelTypeVec []types.FuelCode

	AnnualEnergyByFuel  map[types.Fuel][]float64
	UtilityCosts        map[types.Fuel][]float64
	CombustionEmissions map[types.Fuel][]float64
	MethaneLeaks        []float64

	// OtherCosts carries the building-level retrofit adder at the retrofit
	// year only.
	OtherCosts []float64

	// Per-horizon sums of the asset financial vectors across all end uses.
	TotalBookVal            []float64
	TotalStrandedVal        []float64
	TotalReplacementCost    []float64
	TotalReplacementBookVal []float64

	populated bool
}

// New constructs an unpopulated building. costs provides the per-end-use
// financial parameters; factors and rates are read-only and may be shared
// across buildings.
func New(cfg Config, years []int, baseline, retrofit *profile.Table, costs CostTable, factors types.Factors, rates types.RateSchedule) (*Building, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("building %q: empty simulation horizon", cfg.ID)
	}
	if baseline == nil || retrofit == nil {
		return nil, fmt.Errorf("building %q: missing consumption tables", cfg.ID)
	}
	b := &Building{
		cfg:      cfg,
		factors:  factors,
		rates:    rates,
		years:    years,
		Baseline: baseline,
		Retrofit: retrofit,
	}
	if err := b.buildEndUses(costs); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Building) ID() string       { return b.cfg.ID }
func (b *Building) Scenario() string { return b.cfg.Scenario }
func (b *Building) Years() []int     { return b.years }

// buildEndUses resolves the cost row for every end use and constructs the
// assets. An end use with no scheduled replacement inherits the building's
// retrofit year, since the retrofit event is what replaces the unit.
func (b *Building) buildEndUses(costs CostTable) error {
	b.EndUses = make(map[enduse.Kind]*enduse.Asset, len(enduse.Kinds))
	for _, kind := range enduse.Kinds {
		params, err := costs.Params(b.cfg.ID, kind)
		if err != nil {
			return fmt.Errorf("building %q: %w", b.cfg.ID, err)
		}
		if params.ReplacementYear == 0 && b.cfg.RetrofitYear != 0 {
			params.ReplacementYear = b.cfg.RetrofitYear
		}
		asset, err := enduse.New(kind, b.years, b.Baseline, b.Retrofit, params)
		if err != nil {
			return fmt.Errorf("building %q: %w", b.cfg.ID, err)
		}
		b.EndUses[kind] = asset
	}
	return nil
}

// Populate runs the derivation pipeline: load scaling, fuel and grand
// totals, retrofit vectors, annual energy, utility costs, emissions, methane
// leaks, and building-level other costs. Single pass, no retries; any stage
// error aborts the building.
func (b *Building) Populate(ctx context.Context) error {
	if b.populated {
		return fmt.Errorf("building %q: already populated", b.cfg.ID)
	}
	log.Ctx(ctx).Debug("populating building", "buildingID", b.cfg.ID, "scenario", b.cfg.Scenario)

	if scale := b.cfg.LoadScale; scale != 0 && scale != 1 {
		b.Baseline.Scale(scale)
		b.Retrofit.Scale(scale)
	}
	if err := b.Baseline.AddFuelTotals(types.CanonicalFuels); err != nil {
		return fmt.Errorf("building %q: baseline totals: %w", b.cfg.ID, err)
	}
	if err := b.Retrofit.AddFuelTotals(types.CanonicalFuels); err != nil {
		return fmt.Errorf("building %q: retrofit totals: %w", b.cfg.ID, err)
	}

	b.RetrofitVec, b.IsRetrofitVec = b.retrofitVecs()
	if err := b.annualEnergyByFuel(); err != nil {
		return err
	}
	if err := b.utilityCosts(); err != nil {
		return err
	}
	b.combustionEmissions()
	if err := b.fuelTypeVec(); err != nil {
		return err
	}
	b.MethaneLeaks = b.factors.MethaneLeakSeries(b.FuelTypeVec)
	if err := b.otherCosts(); err != nil {
		return err
	}
	b.sumAssetVectors()

	b.populated = true
	log.Ctx(ctx).Debug("populated building", "buildingID", b.cfg.ID)
	return nil
}

// retrofitVecs derives the single-point retrofit event vector and its
// cumulative form. A retrofit year of zero or outside the horizon yields
// all-false vectors.
func (b *Building) retrofitVecs() (event, cumulative []bool) {
	event = make([]bool, len(b.years))
	cumulative = make([]bool, len(b.years))
	done := false
	for i, year := range b.years {
		event[i] = b.cfg.RetrofitYear != 0 && year == b.cfg.RetrofitYear
		done = done || event[i]
		cumulative[i] = done
	}
	return event, cumulative
}

// annualEnergyByFuel sums the representative-year per-fuel total of the
// table selected by the is-retrofit flag, for every fuel and year.
func (b *Building) annualEnergyByFuel() error {
	b.AnnualEnergyByFuel = make(map[types.Fuel][]float64, len(types.CanonicalFuels))
	for _, fuel := range types.CanonicalFuels {
		col := profile.FuelTotalColumn(fuel)
		baseline, err := b.Baseline.AnnualTotal(col)
		if err != nil {
			return fmt.Errorf("building %q: %w", b.cfg.ID, err)
		}
		retrofit, err := b.Retrofit.AnnualTotal(col)
		if err != nil {
			return fmt.Errorf("building %q: %w", b.cfg.ID, err)
		}
		series := make([]float64, len(b.years))
		for i, isRetrofit := range b.IsRetrofitVec {
			if isRetrofit {
				series[i] = retrofit
			} else {
				series[i] = baseline
			}
		}
		b.AnnualEnergyByFuel[fuel] = series
	}
	return nil
}

// AnnualGrandTotal returns the per-year whole-building energy from the
// grand-total column, selected per the is-retrofit vector. It equals the
// per-fuel annual energies summed across fuels.
func (b *Building) AnnualGrandTotal() ([]float64, error) {
	baseline, err := b.Baseline.AnnualTotal(profile.GrandTotalColumn)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", b.cfg.ID, err)
	}
	retrofit, err := b.Retrofit.AnnualTotal(profile.GrandTotalColumn)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", b.cfg.ID, err)
	}
	out := make([]float64, len(b.years))
	for i, isRetrofit := range b.IsRetrofitVec {
		if isRetrofit {
			out[i] = retrofit
		} else {
			out[i] = baseline
		}
	}
	return out, nil
}

// utilityCosts multiplies each year's per-fuel energy by that year's rate.
func (b *Building) utilityCosts() error {
	b.UtilityCosts = make(map[types.Fuel][]float64, len(b.AnnualEnergyByFuel))
	for fuel, energy := range b.AnnualEnergyByFuel {
		costs := make([]float64, len(energy))
		for i, kwh := range energy {
			rate, err := b.rates.Rate(fuel, i)
			if err != nil {
				return fmt.Errorf("building %q: %w", b.cfg.ID, err)
			}
			costs[i] = kwh * rate
		}
		b.UtilityCosts[fuel] = costs
	}
	return nil
}

// combustionEmissions multiplies per-fuel energy by the fuel's emission
// factor series (flat for combustion fuels, decaying for electricity).
func (b *Building) combustionEmissions() {
	b.CombustionEmissions = make(map[types.Fuel][]float64, len(b.AnnualEnergyByFuel))
	for fuel, energy := range b.AnnualEnergyByFuel {
		factorVec := b.factors.EmissionFactorSeries(fuel, b.years)
		emissions := make([]float64, len(energy))
		for i, kwh := range energy {
			emissions[i] = kwh * factorVec[i]
		}
		b.CombustionEmissions[fuel] = emissions
	}
}

// fuelTypeVec derives the dominant fuel code per year. A fuel with no code
// mapping is a configuration error.
func (b *Building) fuelTypeVec() error {
	original, ok := b.factors.FuelCodes[b.cfg.OriginalFuel]
	if !ok {
		return fmt.Errorf("building %q: no fuel code for fuel %q", b.cfg.ID, b.cfg.OriginalFuel)
	}
	retrofit := original
	if b.cfg.RetrofitFuel != "" {
		retrofit, ok = b.factors.FuelCodes[b.cfg.RetrofitFuel]
		if !ok {
			return fmt.Errorf("building %q: no fuel code for fuel %q", b.cfg.ID, b.cfg.RetrofitFuel)
		}
	}
	b.FuelTypeVec = make([]types.FuelCode, len(b.years))
	for i, isRetrofit := range b.IsRetrofitVec {
		if isRetrofit {
			b.FuelTypeVec[i] = retrofit
		} else {
			b.FuelTypeVec[i] = original
		}
	}
	return nil
}

// otherCosts places the size-category retrofit adder at the retrofit year.
// No retrofit within the horizon means no adder and no size lookup.
func (b *Building) otherCosts() error {
	b.OtherCosts = make([]float64, len(b.years))
	for i, event := range b.RetrofitVec {
		if !event {
			continue
		}
		adder, ok := b.factors.RetrofitAdders[strings.ToLower(b.cfg.Size)]
		if !ok {
			return fmt.Errorf("building %q: no retrofit adder for size %q", b.cfg.ID, b.cfg.Size)
		}
		b.OtherCosts[i] = adder
	}
	return nil
}

// sumAssetVectors aggregates the four financial vectors across end uses.
func (b *Building) sumAssetVectors() {
	n := len(b.years)
	b.TotalBookVal = make([]float64, n)
	b.TotalStrandedVal = make([]float64, n)
	b.TotalReplacementCost = make([]float64, n)
	b.TotalReplacementBookVal = make([]float64, n)
	for _, asset := range b.EndUses {
		for i := 0; i < n; i++ {
			b.TotalBookVal[i] += asset.ExistingBookVal[i]
			b.TotalStrandedVal[i] += asset.ExistingStrandedVal[i]
			b.TotalReplacementCost[i] += asset.ReplacementCostVec[i]
			b.TotalReplacementBookVal[i] += asset.ReplacementBookVal[i]
		}
	}
}

// CostColumns returns every annual cost vector of the building keyed by
// column name: the per-asset vectors plus the building-level other costs.
func (b *Building) CostColumns() map[string][]float64 {
	out := map[string][]float64{
		"building.other_costs": b.OtherCosts,
	}
	for _, asset := range b.EndUses {
		for name, vals := range asset.CostTable() {
			out[name] = vals
		}
	}
	return out
}

// ExportConsumption resamples both consumption tables to the requested
// output resolution in minutes. Requests under 15 minutes clamp to 15.
func (b *Building) ExportConsumption(freqMinutes int) (baseline, retrofit *profile.Table) {
	freq := time.Duration(freqMinutes) * time.Minute
	return b.Baseline.Resample(freq), b.Retrofit.Resample(freq)
}

// Result packages the building's annual outputs for storage.
func (b *Building) Result() types.BuildingResult {
	return types.BuildingResult{
		BuildingID:          b.cfg.ID,
		Scenario:            b.cfg.Scenario,
		Years:               b.years,
		AnnualEnergyByFuel:  b.AnnualEnergyByFuel,
		UtilityCosts:        b.UtilityCosts,
		CombustionEmissions: b.CombustionEmissions,
		FuelTypes:           b.FuelTypeVec,
		MethaneLeaks:        b.MethaneLeaks,
		OtherCosts:          b.OtherCosts,
		CostColumns:         b.CostColumns(),
	}
}
