package scenario

import (
	"sort"
	"strconv"

	"github.com/parcelsim/parcelsim/pkg/types"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// CombineCosts concatenates every building's cost columns into one table
// with a (building_id, scenario, year) key. The column set is the sorted
// union across buildings; a column a building lacks reads as 0.
func CombineCosts(results []types.BuildingResult) types.CombinedTable {
	nameSet := make(map[string]bool)
	for _, res := range results {
		for name := range res.CostColumns {
			nameSet[name] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	out := types.CombinedTable{
		Name:   "costs",
		Header: append([]string{"building_id", "scenario", "year"}, names...),
	}
	for _, res := range results {
		for i, year := range res.Years {
			row := make([]string, 0, len(out.Header))
			row = append(row, res.BuildingID, res.Scenario, strconv.Itoa(year))
			for _, name := range names {
				var v float64
				if vals, ok := res.CostColumns[name]; ok {
					v = vals[i]
				}
				row = append(row, formatFloat(v))
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// CombineAnnual concatenates the annual energy, cost, emissions, fuel-type,
// and methane-leak series of every building into one long table.
func CombineAnnual(results []types.BuildingResult) types.CombinedTable {
	header := []string{"building_id", "scenario", "year"}
	for _, fuel := range types.CanonicalFuels {
		header = append(header, "energy."+string(fuel))
	}
	for _, fuel := range types.CanonicalFuels {
		header = append(header, "cost."+string(fuel))
	}
	for _, fuel := range types.CanonicalFuels {
		header = append(header, "emissions."+string(fuel))
	}
	header = append(header, "fuel_type", "methane_leaks", "other_costs")

	out := types.CombinedTable{Name: "annual", Header: header}
	for _, res := range results {
		for i, year := range res.Years {
			row := make([]string, 0, len(header))
			row = append(row, res.BuildingID, res.Scenario, strconv.Itoa(year))
			for _, fuel := range types.CanonicalFuels {
				row = append(row, formatFloat(res.AnnualEnergyByFuel[fuel][i]))
			}
			for _, fuel := range types.CanonicalFuels {
				row = append(row, formatFloat(res.UtilityCosts[fuel][i]))
			}
			for _, fuel := range types.CanonicalFuels {
				row = append(row, formatFloat(res.CombustionEmissions[fuel][i]))
			}
			row = append(row,
				string(res.FuelTypes[i]),
				formatFloat(res.MethaneLeaks[i]),
				formatFloat(res.OtherCosts[i]))
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
