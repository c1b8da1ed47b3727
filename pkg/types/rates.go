package types

import "fmt"

// RateSchedule holds per-fuel utility rates ($/kWh) indexed by period. Row i
// applies to the i-th simulation year.
type RateSchedule struct {
	Fuels map[Fuel][]float64 `json:"fuels"`
}

// Rate returns the rate for a fuel at period index i.
func (r RateSchedule) Rate(fuel Fuel, i int) (float64, error) {
	rates, ok := r.Fuels[fuel]
	if !ok {
		return 0, fmt.Errorf("rate schedule missing fuel %q", fuel)
	}
	if i < 0 || i >= len(rates) {
		return 0, fmt.Errorf("rate schedule for %q has %d periods, index %d out of range", fuel, len(rates), i)
	}
	return rates[i], nil
}

// Validate checks that the schedule covers every canonical fuel for at least
// n periods.
func (r RateSchedule) Validate(n int) error {
	for _, fuel := range CanonicalFuels {
		rates, ok := r.Fuels[fuel]
		if !ok {
			return fmt.Errorf("rate schedule missing fuel %q", fuel)
		}
		if len(rates) < n {
			return fmt.Errorf("rate schedule for %q covers %d periods, need %d", fuel, len(rates), n)
		}
	}
	return nil
}
