package types

import (
	"fmt"
	"strings"
)

// Segments are the supported street segment classes.
var Segments = []string{"sf", "mf"}

// Scenarios are the supported retrofit scenario labels.
var Scenarios = []string{
	"continued_gas",
	"accelerated_elec",
	"natural_elec",
	"hybrid_gas",
	"hybrid_gas_immediate",
	"hybrid_npa",
}

// Settings is the immutable simulation configuration shared by every
// building in a run. It is validated once, before any building is
// constructed.
type Settings struct {
	// Segment is the street segment class under analysis (sf or mf).
	Segment string `json:"segment"`
	// Scenario is the retrofit scenario label.
	Scenario string `json:"scenario"`

	// SimStartYear is inclusive, SimEndYear exclusive.
	SimStartYear int `json:"simStartYear"`
	SimEndYear   int `json:"simEndYear"`

	// OutputFreqMinutes is the consumption export resolution. Values under
	// 15 are clamped to 15 at export time.
	OutputFreqMinutes int `json:"outputFreqMinutes"`

	// Workers bounds cross-building parallelism. Buildings are independent;
	// within one building computation is sequential.
	Workers int `json:"workers"`
}

// WithDefaults fills unset fields with their defaults.
func (s Settings) WithDefaults() Settings {
	if s.SimStartYear == 0 {
		s.SimStartYear = 2020
	}
	if s.SimEndYear == 0 {
		s.SimEndYear = 2050
	}
	if s.OutputFreqMinutes == 0 {
		s.OutputFreqMinutes = 60
	}
	if s.Workers == 0 {
		s.Workers = 4
	}
	return s
}

// Validate checks the settings. Segment and scenario must come from the
// closed sets above; the horizon must be non-empty.
func (s Settings) Validate() error {
	if !contains(Segments, s.Segment) {
		return fmt.Errorf("segment must be one of [%s], got %q", strings.Join(Segments, ", "), s.Segment)
	}
	if !contains(Scenarios, s.Scenario) {
		return fmt.Errorf("scenario must be one of [%s], got %q", strings.Join(Scenarios, ", "), s.Scenario)
	}
	if s.SimEndYear <= s.SimStartYear {
		return fmt.Errorf("simulation horizon is empty: start %d, end %d", s.SimStartYear, s.SimEndYear)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", s.Workers)
	}
	return nil
}

// YearsVec returns the simulation years, [SimStartYear, SimEndYear).
func (s Settings) YearsVec() []int {
	years := make([]int, 0, s.SimEndYear-s.SimStartYear)
	for y := s.SimStartYear; y < s.SimEndYear; y++ {
		years = append(years, y)
	}
	return years
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
