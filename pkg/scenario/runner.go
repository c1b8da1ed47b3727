// Package scenario orchestrates a portfolio run: it loads the run inputs,
// simulates every building through a bounded worker pool, and persists the
// per-building and combined outputs.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/levenlabs/go-lflag"

	"github.com/parcelsim/parcelsim/pkg/building"
	"github.com/parcelsim/parcelsim/pkg/log"
	"github.com/parcelsim/parcelsim/pkg/storage"
	"github.com/parcelsim/parcelsim/pkg/types"
)

// Inputs is everything one run needs, already loaded and validated.
type Inputs struct {
	Settings  types.Settings
	Factors   types.Factors
	Rates     types.RateSchedule
	Costs     building.CostTable
	Buildings []building.Config

	// ConsumptionDir holds <buildingID>_{baseline,retrofit}.csv files.
	ConsumptionDir string
}

// Runner loads run inputs from flag-configured paths and executes runs.
type Runner struct {
	store storage.Store

	settingsPath   string
	ratesPath      string
	costsPath      string
	buildingsPath  string
	addersPath     string
	consumptionDir string
}

// Configured sets up a Runner based on flags.
func Configured(store storage.Store) *Runner {
	settingsPath := lflag.RequiredString("settings", "Path to the run settings JSON")
	ratesPath := lflag.RequiredString("rates", "Path to the utility rate schedule JSON")
	costsPath := lflag.RequiredString("costs", "Path to the per-building cost table JSON")
	buildingsPath := lflag.RequiredString("buildings", "Path to the building configuration JSON")
	addersPath := lflag.String("retrofit-adders", "", "Path to the size-category retrofit adder JSON (optional)")
	consumptionDir := lflag.RequiredString("consumption-dir", "Directory holding per-building consumption CSVs")

	r := &Runner{store: store}

	lflag.Do(func() {
		r.settingsPath = *settingsPath
		r.ratesPath = *ratesPath
		r.costsPath = *costsPath
		r.buildingsPath = *buildingsPath
		r.addersPath = *addersPath
		r.consumptionDir = *consumptionDir
	})

	return r
}

// Load reads and validates every configured input file.
func (r *Runner) Load() (Inputs, error) {
	settings, err := LoadSettings(r.settingsPath)
	if err != nil {
		return Inputs{}, err
	}
	rates, err := LoadRates(r.ratesPath)
	if err != nil {
		return Inputs{}, err
	}
	costs, err := LoadCostTable(r.costsPath)
	if err != nil {
		return Inputs{}, err
	}
	buildings, err := LoadBuildings(r.buildingsPath)
	if err != nil {
		return Inputs{}, err
	}
	factors := types.DefaultFactors()
	if r.addersPath != "" {
		adders, err := LoadRetrofitAdders(r.addersPath)
		if err != nil {
			return Inputs{}, err
		}
		factors.RetrofitAdders = adders
	}
	return Inputs{
		Settings:       settings,
		Factors:        factors,
		Rates:          rates,
		Costs:          costs,
		Buildings:      buildings,
		ConsumptionDir: r.consumptionDir,
	}, nil
}

// Run loads the inputs and executes one full run.
func (r *Runner) Run(ctx context.Context) (types.RunInfo, error) {
	in, err := r.Load()
	if err != nil {
		return types.RunInfo{}, err
	}
	return Run(ctx, in, r.store)
}

// Run simulates every building in the portfolio. Buildings run in parallel
// up to Settings.Workers; each building is sequential internally. The first
// building failure aborts the run with that building's error.
func Run(ctx context.Context, in Inputs, store storage.Store) (types.RunInfo, error) {
	if err := in.Settings.Validate(); err != nil {
		return types.RunInfo{}, err
	}
	years := in.Settings.YearsVec()
	if err := in.Rates.Validate(len(years)); err != nil {
		return types.RunInfo{}, err
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	log.Ctx(ctx).Info("starting run",
		"runID", runID,
		"segment", in.Settings.Segment,
		"scenario", in.Settings.Scenario,
		"buildings", len(in.Buildings),
		"workers", in.Settings.Workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan building.Config)
	resCh := make(chan types.BuildingResult, len(in.Buildings))

	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for w := 0; w < in.Settings.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				if ctx.Err() != nil {
					continue
				}
				res, err := runBuilding(ctx, in, runID, years, cfg, store)
				if err != nil {
					fail(err)
					continue
				}
				resCh <- res
			}
		}()
	}
	for _, cfg := range in.Buildings {
		jobs <- cfg
	}
	close(jobs)
	wg.Wait()
	close(resCh)

	if firstErr != nil {
		return types.RunInfo{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return types.RunInfo{}, err
	}

	results := make([]types.BuildingResult, 0, len(in.Buildings))
	for res := range resCh {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].BuildingID < results[j].BuildingID })

	buildingIDs := make([]string, len(results))
	for i, res := range results {
		buildingIDs[i] = res.BuildingID
	}
	run := types.RunInfo{
		ID:        runID,
		Segment:   in.Settings.Segment,
		Scenario:  in.Settings.Scenario,
		StartedAt: startedAt,
		Buildings: buildingIDs,
	}
	if err := store.PutRun(ctx, run); err != nil {
		return types.RunInfo{}, fmt.Errorf("run %s: %w", runID, err)
	}
	if err := store.PutCombined(ctx, runID, CombineCosts(results)); err != nil {
		return types.RunInfo{}, fmt.Errorf("run %s: %w", runID, err)
	}
	if err := store.PutCombined(ctx, runID, CombineAnnual(results)); err != nil {
		return types.RunInfo{}, fmt.Errorf("run %s: %w", runID, err)
	}

	log.Ctx(ctx).Info("run complete", "runID", runID, "buildings", len(results))
	return run, nil
}

// runBuilding simulates one building and persists its outputs.
func runBuilding(ctx context.Context, in Inputs, runID string, years []int, cfg building.Config, store storage.Store) (types.BuildingResult, error) {
	ctx = log.WithBuilding(ctx, runID, cfg.ID)
	log.Ctx(ctx).Debug("simulating building")

	baseline, retrofit, err := LoadConsumption(in.ConsumptionDir, cfg.ID)
	if err != nil {
		return types.BuildingResult{}, err
	}
	if cfg.Scenario == "" {
		cfg.Scenario = in.Settings.Scenario
	}
	b, err := building.New(cfg, years, baseline, retrofit, in.Costs, in.Factors, in.Rates)
	if err != nil {
		return types.BuildingResult{}, err
	}
	if err := b.Populate(ctx); err != nil {
		return types.BuildingResult{}, err
	}

	res := b.Result()
	if err := store.PutBuilding(ctx, runID, res); err != nil {
		return types.BuildingResult{}, fmt.Errorf("building %q: %w", cfg.ID, err)
	}
	baseOut, retroOut := b.ExportConsumption(in.Settings.OutputFreqMinutes)
	if err := store.PutConsumption(ctx, runID, cfg.ID, "baseline", baseOut); err != nil {
		return types.BuildingResult{}, fmt.Errorf("building %q: %w", cfg.ID, err)
	}
	if err := store.PutConsumption(ctx, runID, cfg.ID, "retrofit", retroOut); err != nil {
		return types.BuildingResult{}, fmt.Errorf("building %q: %w", cfg.ID, err)
	}
	return res, nil
}
