// Package profile holds sub-hourly energy consumption tables for one
// representative year and the resampling/aggregation operations the
// simulation needs on them.
package profile

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/parcelsim/parcelsim/pkg/types"
)

// MinStep is the finest supported table resolution. Resample requests under
// this clamp to it.
const MinStep = 15 * time.Minute

// ConsumptionColumn is the canonical column name for a (fuel, end use) pair.
func ConsumptionColumn(fuel types.Fuel, endUse string) string {
	return fmt.Sprintf("out.%s.%s.energy_consumption", fuel, endUse)
}

// FuelTotalColumn is the per-fuel total column name.
func FuelTotalColumn(fuel types.Fuel) string {
	return fmt.Sprintf("out.%s.total.energy_consumption", fuel)
}

// GrandTotalColumn is the whole-table total column name.
const GrandTotalColumn = "out.total.energy_consumption"

// FuelPrefix is the column prefix shared by all columns of a fuel.
func FuelPrefix(fuel types.Fuel) string {
	return fmt.Sprintf("out.%s.", fuel)
}

// Table is a fixed-step time-indexed set of named float64 series covering
// one representative year. Columns keep insertion order for deterministic
// export.
type Table struct {
	start time.Time
	step  time.Duration
	n     int
	order []string
	cols  map[string][]float64
}

// New creates an empty table with n samples at the given start and step.
func New(start time.Time, step time.Duration, n int) *Table {
	return &Table{
		start: start,
		step:  step,
		n:     n,
		cols:  make(map[string][]float64),
	}
}

// NewRepresentativeYear creates an empty 15-minute table spanning the whole
// of the given calendar year.
func NewRepresentativeYear(year int) *Table {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	n := int(end.Sub(start) / MinStep)
	return New(start, MinStep, n)
}

func (t *Table) Start() time.Time    { return t.start }
func (t *Table) Step() time.Duration { return t.step }
func (t *Table) Len() int            { return t.n }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the named series. The returned slice is the table's own
// backing array; callers must not mutate it.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.cols[name]
	return vals, ok
}

// SetColumn adds or replaces a column. The series length must match the
// table length.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(vals) != t.n {
		return fmt.Errorf("column %q has %d samples, table has %d", name, len(vals), t.n)
	}
	if _, exists := t.cols[name]; !exists {
		t.order = append(t.order, name)
	}
	t.cols[name] = vals
	return nil
}

// ZeroColumn adds an all-zero column if the name is not already present.
func (t *Table) ZeroColumn(name string) {
	if _, exists := t.cols[name]; exists {
		return
	}
	t.order = append(t.order, name)
	t.cols[name] = make([]float64, t.n)
}

// Scale multiplies every series in place by factor.
func (t *Table) Scale(factor float64) {
	for _, vals := range t.cols {
		floats.Scale(factor, vals)
	}
}

// SumPrefix sums all columns whose name starts with prefix into one series.
// Columns named exactly like a total are excluded so repeated totalization
// is idempotent.
func (t *Table) SumPrefix(prefix string) []float64 {
	sum := make([]float64, t.n)
	for _, name := range t.order {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.Contains(name, ".total.") || name == GrandTotalColumn {
			continue
		}
		floats.Add(sum, t.cols[name])
	}
	return sum
}

// AddFuelTotals adds one total column per fuel plus the grand total column.
func (t *Table) AddFuelTotals(fuels []types.Fuel) error {
	grand := make([]float64, t.n)
	for _, fuel := range fuels {
		total := t.SumPrefix(FuelPrefix(fuel))
		if err := t.SetColumn(FuelTotalColumn(fuel), total); err != nil {
			return err
		}
		floats.Add(grand, total)
	}
	return t.SetColumn(GrandTotalColumn, grand)
}

// AnnualTotal returns the calendar-year sum of the named column: the first
// bucket of an annual resample. The table holds one representative year, so
// this is that year's total.
func (t *Table) AnnualTotal(name string) (float64, error) {
	vals, ok := t.cols[name]
	if !ok {
		return 0, fmt.Errorf("no column %q", name)
	}
	firstYear := t.start.Year()
	end := t.n
	for i := 0; i < t.n; i++ {
		if t.start.Add(time.Duration(i) * t.step).Year() != firstYear {
			end = i
			break
		}
	}
	return floats.Sum(vals[:end]), nil
}

// Resample returns a new table with samples summed into buckets of the
// given frequency. Frequencies under MinStep clamp to MinStep; frequencies
// are also clamped to at least the current step.
func (t *Table) Resample(freq time.Duration) *Table {
	if freq < MinStep {
		freq = MinStep
	}
	if freq < t.step {
		freq = t.step
	}
	perBucket := int(freq / t.step)
	if perBucket < 1 {
		perBucket = 1
	}
	n := (t.n + perBucket - 1) / perBucket
	out := New(t.start, freq, n)
	for _, name := range t.order {
		src := t.cols[name]
		dst := make([]float64, n)
		for i, v := range src {
			dst[i/perBucket] += v
		}
		// SetColumn cannot fail here: dst length matches by construction.
		out.order = append(out.order, name)
		out.cols[name] = dst
	}
	return out
}
