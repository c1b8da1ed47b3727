package enduse

import (
	"fmt"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

// Asset is one end-use asset of a building. All derived vectors are aligned
// to the simulation years and are computed once at construction; an Asset is
// read-only afterward.
type Asset struct {
	kind   Kind
	params Params
	years  []int

	// BaselineEnergy and RetrofitEnergy are the source consumption tables
	// normalized to this end use's canonical fuel columns; fuels absent from
	// the source fill with zeros.
	BaselineEnergy *profile.Table
	RetrofitEnergy *profile.Table

	// ExistingBookVal linearly depreciates the existing unit.
	ExistingBookVal []float64
	// ExistingStrandedVal is the book value lost at the replacement event.
	ExistingStrandedVal []float64
	// ReplacementVec is true exactly at the replacement year.
	ReplacementVec []bool
	// ReplacementCostVec carries the escalated replacement cost at the
	// replacement year.
	ReplacementCostVec []float64
	// ReplacementBookVal depreciates the replacement unit from its install.
	ReplacementBookVal []float64
}

// New builds and fully populates an end-use asset. baseline and retrofit are
// the building's consumption tables; the asset extracts its own columns.
func New(kind Kind, years []int, baseline, retrofit *profile.Table, params Params) (*Asset, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("end use %s: empty simulation horizon", kind)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("end use %s: %w", kind, err)
	}
	if baseline == nil || retrofit == nil {
		return nil, fmt.Errorf("end use %s: missing consumption tables", kind)
	}

	a := &Asset{
		kind:   kind,
		params: params,
		years:  years,
	}
	a.BaselineEnergy = a.canonicalEnergy(baseline)
	a.RetrofitEnergy = a.canonicalEnergy(retrofit)
	a.ExistingBookVal = a.existingBookVal()
	a.ReplacementVec = a.replacementVec()
	a.ExistingStrandedVal = a.strandedVal()
	a.ReplacementCostVec = a.replacementCostVec()
	a.ReplacementBookVal = a.replacementBookVal()
	return a, nil
}

func (a *Asset) Kind() Kind     { return a.kind }
func (a *Asset) Params() Params { return a.params }

// replacementYear resolves the effective replacement year: the configured
// year, or the last simulation year when none is scheduled.
func (a *Asset) replacementYear() int {
	if a.params.ReplacementYear != 0 {
		return a.params.ReplacementYear
	}
	return a.years[len(a.years)-1]
}

// canonicalEnergy normalizes a source table to this end use's canonical
// (fuel, token) columns. Source columns are matched by their exact
// consumption name; canonical columns absent from the source become
// all-zero series rather than errors, since sparse source data is expected.
func (a *Asset) canonicalEnergy(src *profile.Table) *profile.Table {
	out := profile.New(src.Start(), src.Step(), src.Len())
	for _, fuel := range a.kind.fuels() {
		for _, token := range a.kind.tokens() {
			name := profile.ConsumptionColumn(fuel, token)
			if vals, ok := src.Column(name); ok {
				// SetColumn only fails on a length mismatch, impossible here.
				_ = out.SetColumn(name, vals)
				continue
			}
			out.ZeroColumn(name)
		}
	}
	return out
}

// depreciatedVal is the remaining value of the existing unit at a year
// under pure linear depreciation, clamped at zero. A zero lifetime means
// the unit is already fully depreciated.
func (a *Asset) depreciatedVal(year int) float64 {
	if a.params.Lifetime <= 0 {
		return 0
	}
	v := a.params.ExistingInstallCost *
		(1 - float64(year-a.params.ExistingInstallYear)/float64(a.params.Lifetime))
	if v < 0 {
		return 0
	}
	return v
}

// existingBookVal depreciates the existing unit linearly from its install
// cost to zero over its lifetime. When a replacement year is explicitly
// scheduled, the book value is zero from that year onward (the unit is
// retired); an unscheduled asset depreciates undisturbed.
func (a *Asset) existingBookVal() []float64 {
	out := make([]float64, len(a.years))
	for i, year := range a.years {
		if a.params.ReplacementYear != 0 && year >= a.params.ReplacementYear {
			continue
		}
		out[i] = a.depreciatedVal(year)
	}
	return out
}

// replacementVec marks the replacement event. A replacement year outside
// the horizon yields an all-false vector: no replacement occurs in the
// simulation window.
func (a *Asset) replacementVec() []bool {
	r := a.replacementYear()
	out := make([]bool, len(a.years))
	for i, year := range a.years {
		out[i] = year == r
	}
	return out
}

// strandedVal is the remaining depreciated value of the existing unit at
// the instant of replacement: the economic loss of retiring it before full
// depreciation. Zero in every other year.
func (a *Asset) strandedVal() []float64 {
	out := make([]float64, len(a.years))
	for i, replaced := range a.ReplacementVec {
		if replaced {
			out[i] = a.depreciatedVal(a.years[i])
		}
	}
	return out
}

// replacementCostVec places the escalated replacement cost at the
// replacement year. The escalator is applied once at the event, not
// compounded across the horizon.
func (a *Asset) replacementCostVec() []float64 {
	out := make([]float64, len(a.years))
	for i, replaced := range a.ReplacementVec {
		if replaced {
			out[i] = a.params.ReplacementCost * (1 + a.params.Escalator)
		}
	}
	return out
}

// replacementBookVal depreciates the replacement unit linearly from the
// escalated cost over the replacement lifetime, starting at the replacement
// year. A zero replacement lifetime means immediate full depreciation,
// never a division fault.
func (a *Asset) replacementBookVal() []float64 {
	out := make([]float64, len(a.years))
	if a.params.ReplacementLifetime <= 0 {
		return out
	}
	r := a.replacementYear()
	ri := -1
	for i, replaced := range a.ReplacementVec {
		if replaced {
			ri = i
			break
		}
	}
	if ri < 0 {
		return out
	}
	cost := a.ReplacementCostVec[ri]
	for i, year := range a.years {
		if year < r {
			continue
		}
		v := cost * (1 - float64(year-r)/float64(a.params.ReplacementLifetime))
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// AnnualFuelEnergy blends the baseline and retrofit profiles into annual
// per-fuel energy: baseline before the retrofit year, retrofit at and after,
// as given by isRetrofit (aligned to the simulation years).
func (a *Asset) AnnualFuelEnergy(isRetrofit []bool) (map[types.Fuel][]float64, error) {
	if len(isRetrofit) != len(a.years) {
		return nil, fmt.Errorf("end use %s: isRetrofit has %d entries, horizon has %d", a.kind, len(isRetrofit), len(a.years))
	}
	out := make(map[types.Fuel][]float64, len(a.kind.fuels()))
	for _, fuel := range a.kind.fuels() {
		baseline, err := a.annualFuelTotal(a.BaselineEnergy, fuel)
		if err != nil {
			return nil, err
		}
		retrofit, err := a.annualFuelTotal(a.RetrofitEnergy, fuel)
		if err != nil {
			return nil, err
		}
		series := make([]float64, len(a.years))
		for i, replaced := range isRetrofit {
			if replaced {
				series[i] = retrofit
			} else {
				series[i] = baseline
			}
		}
		out[fuel] = series
	}
	return out, nil
}

func (a *Asset) annualFuelTotal(t *profile.Table, fuel types.Fuel) (float64, error) {
	var total float64
	for _, token := range a.kind.tokens() {
		v, err := t.AnnualTotal(profile.ConsumptionColumn(fuel, token))
		if err != nil {
			return 0, fmt.Errorf("end use %s: %w", a.kind, err)
		}
		total += v
	}
	return total, nil
}

// CostTable returns the asset's financial vectors keyed by
// "<end_use>.<vector>", aligned to the simulation years.
func (a *Asset) CostTable() map[string][]float64 {
	return map[string][]float64{
		fmt.Sprintf("%s.book_val", a.kind):             a.ExistingBookVal,
		fmt.Sprintf("%s.stranded_val", a.kind):         a.ExistingStrandedVal,
		fmt.Sprintf("%s.replacement_cost", a.kind):     a.ReplacementCostVec,
		fmt.Sprintf("%s.replacement_book_val", a.kind): a.ReplacementBookVal,
	}
}
