// Package enduse models a single building asset (stove, clothes dryer,
// water heater, HVAC): its energy use under the baseline and retrofit
// profiles, and the financial lifecycle of replacing it.
package enduse

import (
	"fmt"
	"strings"

	"github.com/parcelsim/parcelsim/pkg/types"
)

// Kind is the closed set of supported end uses. Dispatch on the kind happens
// once at construction; every kind shares the same asset behavior,
// parameterized by its consumption columns.
type Kind string

const (
	KindStove            Kind = "stove"
	KindClothesDryer     Kind = "clothes_dryer"
	KindDomesticHotWater Kind = "domestic_hot_water"
	KindHVAC             Kind = "hvac"
)

// Kinds lists every supported end use in aggregation order.
var Kinds = []Kind{KindStove, KindClothesDryer, KindDomesticHotWater, KindHVAC}

// ParseKind validates an end-use tag from configuration. Matching is
// case-insensitive to tolerate cost-table keys like "STOVE".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown end use: %q", s)
}

// tokens returns the consumption column tokens this end use draws from.
func (k Kind) tokens() []string {
	switch k {
	case KindStove:
		return []string{"range_oven"}
	case KindClothesDryer:
		return []string{"clothes_dryer"}
	case KindDomesticHotWater:
		return []string{"hot_water"}
	case KindHVAC:
		return []string{"heating", "heating_hp_bkup", "cooling"}
	}
	return nil
}

// fuels returns the canonical fuel set for this end use. Stoves have no
// fuel-oil variant; every other end use normalizes to all four fuels.
func (k Kind) fuels() []types.Fuel {
	if k == KindStove {
		return []types.Fuel{types.FuelElectricity, types.FuelNaturalGas, types.FuelPropane}
	}
	return types.CanonicalFuels
}
