package enduse

import "fmt"

// Params is the immutable configuration for one end-use asset. Costs come
// from the per-building cost tables; the rest comes from the end-use block
// of the building configuration.
type Params struct {
	// Existing unit being depreciated.
	ExistingInstallYear int     `json:"existingInstallYear"`
	Lifetime            int     `json:"lifetime"`
	ExistingInstallCost float64 `json:"existingInstallCost"`

	// Replacement event. ReplacementYear 0 means "not scheduled"; the
	// replacement vector then defaults to the last simulation year, and the
	// existing unit depreciates undisturbed.
	ReplacementYear     int     `json:"replacementYear"`
	ReplacementLifetime int     `json:"replacementLifetime"`
	ReplacementCost     float64 `json:"replacementCost"`

	// Escalator is the annual cost inflation fraction applied once at the
	// replacement event.
	Escalator float64 `json:"escalator"`
}

// Validate rejects configurations that cannot be simulated. Zero lifetimes
// are allowed (treated as immediate full depreciation), negative values are
// not.
func (p Params) Validate() error {
	if p.Lifetime < 0 {
		return fmt.Errorf("lifetime must be >= 0, got %d", p.Lifetime)
	}
	if p.ReplacementLifetime < 0 {
		return fmt.Errorf("replacement lifetime must be >= 0, got %d", p.ReplacementLifetime)
	}
	if p.ExistingInstallCost < 0 {
		return fmt.Errorf("existing install cost must be >= 0, got %v", p.ExistingInstallCost)
	}
	if p.ReplacementCost < 0 {
		return fmt.Errorf("replacement cost must be >= 0, got %v", p.ReplacementCost)
	}
	if p.Escalator < 0 {
		return fmt.Errorf("escalator must be >= 0, got %v", p.Escalator)
	}
	return nil
}
