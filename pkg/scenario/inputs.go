package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parcelsim/parcelsim/pkg/building"
	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadSettings reads the run settings JSON, applies defaults, and validates
// the segment/scenario labels and horizon.
func LoadSettings(path string) (types.Settings, error) {
	var s types.Settings
	if err := loadJSON(path, &s); err != nil {
		return types.Settings{}, err
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return types.Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadRates reads the per-fuel utility rate schedule JSON.
func LoadRates(path string) (types.RateSchedule, error) {
	var r types.RateSchedule
	if err := loadJSON(path, &r); err != nil {
		return types.RateSchedule{}, err
	}
	return r, nil
}

// LoadCostTable reads the per-building, per-end-use cost parameters JSON.
func LoadCostTable(path string) (building.CostTable, error) {
	var ct building.CostTable
	if err := loadJSON(path, &ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// LoadBuildings reads the building configuration list JSON.
func LoadBuildings(path string) ([]building.Config, error) {
	var cfgs []building.Config
	if err := loadJSON(path, &cfgs); err != nil {
		return nil, err
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("%s: no buildings configured", path)
	}
	return cfgs, nil
}

// LoadRetrofitAdders reads the building-size to retrofit-adder mapping
// JSON. Keys are lowercased for case-insensitive size lookups.
func LoadRetrofitAdders(path string) (map[string]float64, error) {
	var raw map[string]float64
	if err := loadJSON(path, &raw); err != nil {
		return nil, err
	}
	adders := make(map[string]float64, len(raw))
	for size, cost := range raw {
		adders[strings.ToLower(size)] = cost
	}
	return adders, nil
}

// LoadConsumption reads a building's baseline and retrofit consumption
// tables from <dir>/<buildingID>_{baseline,retrofit}.csv.
func LoadConsumption(dir, buildingID string) (baseline, retrofit *profile.Table, err error) {
	baseline, err = loadTable(filepath.Join(dir, buildingID+"_baseline.csv"))
	if err != nil {
		return nil, nil, err
	}
	retrofit, err = loadTable(filepath.Join(dir, buildingID+"_retrofit.csv"))
	if err != nil {
		return nil, nil, err
	}
	return baseline, retrofit, nil
}

func loadTable(path string) (*profile.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	tbl, err := profile.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tbl, nil
}
