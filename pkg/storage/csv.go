package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/levenlabs/go-lflag"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

// CSVStore writes run outputs to a local directory tree:
//
//	<out-dir>/<runID>/run.json
//	<out-dir>/<runID>/<buildingID>.json
//	<out-dir>/<runID>/<buildingID>_costs.csv
//	<out-dir>/<runID>/<buildingID>_<label>_consump.csv
//	<out-dir>/<runID>/combined_<name>.csv
//
// The JSON files carry the full structured results so the same directory can
// back the read side of the Store; the CSVs are the analyst-facing exports.
type CSVStore struct {
	dir string
}

// configuredCSV sets up the csv provider. It registers flags for
// configuration.
func configuredCSV() *CSVStore {
	dir := lflag.String("csv-out-dir", "out", "Directory the csv storage provider writes run outputs to")

	c := &CSVStore{}

	lflag.Do(func() {
		c.dir = *dir
	})

	return c
}

// NewCSVStore creates a csv store rooted at dir without going through flags.
func NewCSVStore(dir string) (*CSVStore, error) {
	c := &CSVStore{dir: dir}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init creates the output root.
func (c *CSVStore) Init() error {
	if c.dir == "" {
		return fmt.Errorf("csv storage requires an output directory")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", c.dir, err)
	}
	return nil
}

// Close is a no-op; every write is flushed when it completes.
func (c *CSVStore) Close() error { return nil }

func (c *CSVStore) runDir(runID string) string {
	return filepath.Join(c.dir, runID)
}

func (c *CSVStore) writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (c *CSVStore) readJSON(path string, v interface{}, notFound error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// PutRun records the run metadata and creates the run directory.
func (c *CSVStore) PutRun(ctx context.Context, run types.RunInfo) error {
	if run.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if err := os.MkdirAll(c.runDir(run.ID), 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	return c.writeJSON(filepath.Join(c.runDir(run.ID), "run.json"), run)
}

// GetRun reads the run metadata back.
func (c *CSVStore) GetRun(ctx context.Context, runID string) (types.RunInfo, error) {
	var run types.RunInfo
	err := c.readJSON(filepath.Join(c.runDir(runID), "run.json"), &run, ErrRunNotFound)
	return run, err
}

// ListRuns lists every run directory holding a run.json.
func (c *CSVStore) ListRuns(ctx context.Context) ([]types.RunInfo, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory %s: %w", c.dir, err)
	}
	var runs []types.RunInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := c.GetRun(ctx, entry.Name())
		if err == ErrRunNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs, nil
}

// PutBuilding writes the structured result plus the annual costs CSV.
func (c *CSVStore) PutBuilding(ctx context.Context, runID string, res types.BuildingResult) error {
	if res.BuildingID == "" {
		return fmt.Errorf("building id cannot be empty")
	}
	dir := c.runDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	if err := c.writeJSON(filepath.Join(dir, res.BuildingID+".json"), res); err != nil {
		return err
	}
	return c.writeCostsCSV(filepath.Join(dir, res.BuildingID+"_costs.csv"), res)
}

// writeCostsCSV writes one row per year: the cost columns in sorted order
// for deterministic output.
func (c *CSVStore) writeCostsCSV(path string, res types.BuildingResult) error {
	names := make([]string, 0, len(res.CostColumns))
	for name := range res.CostColumns {
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"year"}, names...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for i, year := range res.Years {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(year))
		for _, name := range names {
			row = append(row, strconv.FormatFloat(res.CostColumns[name][i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// GetBuilding reads a building's structured result back.
func (c *CSVStore) GetBuilding(ctx context.Context, runID, buildingID string) (types.BuildingResult, error) {
	var res types.BuildingResult
	err := c.readJSON(filepath.Join(c.runDir(runID), buildingID+".json"), &res, ErrBuildingNotFound)
	return res, err
}

// PutConsumption writes one resampled consumption table as
// <buildingID>_<label>_consump.csv.
func (c *CSVStore) PutConsumption(ctx context.Context, runID, buildingID, label string, tbl *profile.Table) error {
	dir := c.runDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_consump.csv", buildingID, label))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := tbl.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// PutCombined writes one cross-building table as combined_<name>.csv.
func (c *CSVStore) PutCombined(ctx context.Context, runID string, combined types.CombinedTable) error {
	dir := c.runDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("combined_%s.csv", combined.Name))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(combined.Header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(combined.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}
