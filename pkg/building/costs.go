package building

import (
	"fmt"
	"strings"

	"github.com/parcelsim/parcelsim/pkg/enduse"
)

// CostTable holds the per-building, per-end-use financial parameters, keyed
// by building id and then end-use name. End-use keys are matched
// case-insensitively since upstream cost sheets carry them in mixed case.
type CostTable map[string]map[string]enduse.Params

// Params looks up the cost row for one end use of one building. A missing
// building id or end-use row is a configuration error naming the offending
// key; buildings cannot be simulated with partial cost data.
func (ct CostTable) Params(buildingID string, kind enduse.Kind) (enduse.Params, error) {
	rows, ok := ct[buildingID]
	if !ok {
		return enduse.Params{}, fmt.Errorf("cost table has no building %q", buildingID)
	}
	for name, params := range rows {
		if strings.EqualFold(name, string(kind)) {
			return params, nil
		}
	}
	return enduse.Params{}, fmt.Errorf("cost table for building %q has no end use %q", buildingID, kind)
}
